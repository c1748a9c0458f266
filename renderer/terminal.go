package renderer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/outbreak/camera"
	"github.com/pthm-cable/outbreak/components"
	"github.com/pthm-cable/outbreak/config"
	"github.com/pthm-cable/outbreak/game"
	"github.com/pthm-cable/outbreak/telemetry"
)

// Terminal glyphs
const (
	humanGlyph  = 'H'
	zombieGlyph = 'Z'
)

var (
	humanStyle  = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	zombieStyle = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	statusStyle = tcell.StyleDefault.Reverse(true)
)

// Terminal draws frames into a tcell screen. The bottom row is a status
// line; each cell above it covers one column and two camera rows so the
// world keeps its aspect ratio.
type Terminal struct {
	screen     tcell.Screen
	cancel     context.CancelFunc
	total      int
	frameDelay time.Duration
	worldW     float32
	worldH     float32

	mu     sync.Mutex
	cam    *camera.Camera
	status string

	// done is closed when the event poller exits; nil if none was started
	done chan struct{}
}

// NewTerminal initializes the terminal screen and starts listening for keys.
// Esc, q and Ctrl-C call cancel.
func NewTerminal(cfg *config.Config, frameDelay time.Duration, cancel context.CancelFunc) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("creating terminal screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("initializing terminal screen: %w", err)
	}

	t := newTerminal(screen, cfg, frameDelay, cancel)
	t.done = make(chan struct{})
	go t.pollEvents()
	return t, nil
}

func newTerminal(screen tcell.Screen, cfg *config.Config, frameDelay time.Duration, cancel context.CancelFunc) *Terminal {
	t := &Terminal{
		screen:     screen,
		cancel:     cancel,
		total:      cfg.Run.Generations,
		frameDelay: frameDelay,
		worldW:     float32(cfg.World.Width),
		worldH:     float32(cfg.World.Height),
	}
	t.resize()
	return t
}

// resize rebuilds the camera for the current screen size.
func (t *Terminal) resize() {
	cols, rows := t.screen.Size()
	if rows < 2 {
		rows = 2
	}
	if cols < 1 {
		cols = 1
	}
	t.mu.Lock()
	t.cam = camera.New(float32(cols), float32(2*(rows-1)), t.worldW, t.worldH)
	t.mu.Unlock()
}

func (t *Terminal) pollEvents() {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			close(t.done)
			return
		}
		if !t.handleEvent(ev) {
			t.cancel()
		}
	}
}

// handleEvent returns false when the user asked to quit.
func (t *Terminal) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() == tcell.KeyRune && ev.Rune() == 'q' {
			return false
		}
	case *tcell.EventResize:
		t.resize()
		t.screen.Sync()
	}
	return true
}

// cellOf maps a world position to a terminal cell.
func cellOf(cam *camera.Camera, p components.Position) (col, row int, ok bool) {
	sx, sy := cam.WorldToScreen(float32(p.X), float32(p.Y))
	col = int(sx)
	row = int(sy / 2)
	if sx < 0 || sy < 0 || col >= int(cam.ViewportW) || row >= int(cam.ViewportH/2) {
		return 0, 0, false
	}
	return col, row, true
}

// OnTick draws the frame. Zombies are drawn last so they win shared cells.
func (t *Terminal) OnTick(f game.Frame) {
	t.mu.Lock()
	cam := t.cam
	status := t.status
	t.mu.Unlock()

	t.screen.Clear()
	for _, p := range f.Humans {
		if col, row, ok := cellOf(cam, p); ok {
			t.screen.SetContent(col, row, humanGlyph, nil, humanStyle)
		}
	}
	for _, p := range f.Zombies {
		if col, row, ok := cellOf(cam, p); ok {
			t.screen.SetContent(col, row, zombieGlyph, nil, zombieStyle)
		}
	}

	line := fmt.Sprintf(" gen %d/%d  tick %d  humans %d  zombies %d  %s ",
		f.Generation+1, t.total, f.Tick, len(f.Humans), len(f.Zombies), status)
	t.drawStatus(line)
	t.screen.Show()

	if t.frameDelay > 0 {
		time.Sleep(t.frameDelay)
	}
}

// OnGeneration records the last winner for the status line.
func (t *Terminal) OnGeneration(res game.GenerationResult, stats telemetry.GenerationStats) {
	t.mu.Lock()
	t.status = fmt.Sprintf("| last: %s (%s) sense %.1f prec %.2f speed %.1f",
		res.Winner, res.Outcome, stats.MeanSense, stats.MeanPrecision, stats.MeanSpeed)
	t.mu.Unlock()
}

func (t *Terminal) drawStatus(line string) {
	cols, rows := t.screen.Size()
	x := 0
	for _, r := range line {
		if x >= cols {
			break
		}
		t.screen.SetContent(x, rows-1, r, nil, statusStyle)
		x++
	}
	for ; x < cols; x++ {
		t.screen.SetContent(x, rows-1, ' ', nil, statusStyle)
	}
}

// Close restores the terminal and waits for the event poller to stop.
func (t *Terminal) Close() {
	t.screen.Fini()
	if t.done != nil {
		<-t.done
	}
}
