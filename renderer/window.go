// Package renderer draws simulation frames in a raylib window or a terminal.
package renderer

import (
	"context"
	"fmt"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/outbreak/camera"
	"github.com/pthm-cable/outbreak/config"
	"github.com/pthm-cable/outbreak/game"
	"github.com/pthm-cable/outbreak/telemetry"
)

// Entity colors
var (
	humanColor  = rl.Blue
	zombieColor = rl.Green
)

const entityRadius = 3

// Window is a raylib viewer. It must be created and driven from the main
// goroutine, which raylib locks to the OS thread.
type Window struct {
	cam        *camera.Camera
	ctx        context.Context
	cancel     context.CancelFunc
	total      int
	frameDelay time.Duration
	paused     bool

	last   telemetry.GenerationStats
	hasGen bool
}

// NewWindow opens the window. Closing it calls cancel; a paused window
// resumes once ctx is done.
func NewWindow(ctx context.Context, cfg *config.Config, frameDelay time.Duration, cancel context.CancelFunc) *Window {
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Humans versus zombies")
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	return &Window{
		cam: camera.New(
			float32(cfg.Screen.Width), float32(cfg.Screen.Height),
			float32(cfg.World.Width), float32(cfg.World.Height),
		),
		ctx:        ctx,
		cancel:     cancel,
		total:      cfg.Run.Generations,
		frameDelay: frameDelay,
	}
}

// OnTick draws one frame. While paused it keeps redrawing the same frame.
func (w *Window) OnTick(f game.Frame) {
	for {
		if rl.WindowShouldClose() {
			w.cancel()
			return
		}
		w.handleInput()
		w.draw(f)
		if !holdFrame(w.ctx, w.paused) {
			break
		}
	}
	if w.frameDelay > 0 {
		time.Sleep(w.frameDelay)
	}
}

// holdFrame reports whether the current frame stays on screen: only while
// paused and the run is still live.
func holdFrame(ctx context.Context, paused bool) bool {
	return paused && ctx.Err() == nil
}

// OnGeneration keeps the latest summary for the HUD.
func (w *Window) OnGeneration(_ game.GenerationResult, stats telemetry.GenerationStats) {
	w.last = stats
	w.hasGen = true
}

// Close shuts the window.
func (w *Window) Close() {
	rl.CloseWindow()
}

func (w *Window) handleInput() {
	if rl.IsKeyPressed(rl.KeySpace) {
		w.paused = !w.paused
	}

	panSpeed := float32(8.0)
	if rl.IsKeyDown(rl.KeyRight) {
		w.cam.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		w.cam.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		w.cam.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		w.cam.Pan(0, -panSpeed)
	}

	// Zoom toward the cursor
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		mouse := rl.GetMousePosition()
		w.cam.ZoomAt(mouse.X, mouse.Y, 1+wheel*0.1)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		w.cam.Reset()
	}

	if rl.IsWindowResized() {
		w.cam.Resize(float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()))
	}
}

func (w *Window) draw(f game.Frame) {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	radius := entityRadius * w.cam.Zoom
	for _, p := range f.Humans {
		w.drawEntity(float32(p.X), float32(p.Y), radius, humanColor)
	}
	for _, p := range f.Zombies {
		w.drawEntity(float32(p.X), float32(p.Y), radius, zombieColor)
	}

	w.drawHUD(f)
	rl.EndDrawing()
}

func (w *Window) drawEntity(x, y, radius float32, color rl.Color) {
	if !w.cam.IsVisible(x, y, radius) {
		return
	}
	sx, sy := w.cam.WorldToScreen(x, y)
	rl.DrawCircle(int32(sx), int32(sy), radius, color)
}

func (w *Window) drawHUD(f game.Frame) {
	rl.DrawRectangle(0, 0, 330, 92, rl.Color{R: 0, G: 0, B: 0, A: 180})
	rl.DrawText(fmt.Sprintf("Generation %d/%d  tick %d", f.Generation+1, w.total, f.Tick), 10, 8, 18, rl.White)
	rl.DrawText(fmt.Sprintf("Humans %d", len(f.Humans)), 10, 30, 16, humanColor)
	rl.DrawText(fmt.Sprintf("Zombies %d", len(f.Zombies)), 130, 30, 16, zombieColor)

	if w.hasGen {
		rl.DrawText(fmt.Sprintf("Last: %s  sense %.1f  prec %.2f  speed %.1f",
			w.last.Winner, w.last.MeanSense, w.last.MeanPrecision, w.last.MeanSpeed), 10, 50, 12, rl.LightGray)
	}

	gui.ProgressBar(
		rl.Rectangle{X: 10, Y: 68, Width: 250, Height: 14},
		"", fmt.Sprintf("%d%%", 100*f.Generation/max(w.total, 1)),
		float32(f.Generation), 0, float32(w.total),
	)

	if w.paused {
		rl.DrawText("PAUSED", int32(w.cam.ViewportW)/2-40, 10, 20, rl.Yellow)
	}
}
