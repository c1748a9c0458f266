package renderer

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/outbreak/camera"
	"github.com/pthm-cable/outbreak/components"
	"github.com/pthm-cable/outbreak/config"
	"github.com/pthm-cable/outbreak/game"
)

func newSimulatedTerminal(t *testing.T) (*Terminal, tcell.SimulationScreen, *bool) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	screen.SetSize(40, 13)
	t.Cleanup(screen.Fini)

	cancelled := false
	term := newTerminal(screen, config.Defaults(), 0, func() { cancelled = true })
	return term, screen, &cancelled
}

func TestCellOf(t *testing.T) {
	cam := camera.New(40, 24, 1000, 750)

	tests := []struct {
		name     string
		pos      components.Position
		col, row int
	}{
		{"center", components.Position{X: 500, Y: 375}, 20, 6},
		{"left", components.Position{X: 100, Y: 375}, 7, 6},
		{"upper right", components.Position{X: 900, Y: 100}, 32, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col, row, ok := cellOf(cam, tt.pos)
			if !ok || col != tt.col || row != tt.row {
				t.Errorf("cellOf(%+v) = (%d, %d, %v), want (%d, %d, true)", tt.pos, col, row, ok, tt.col, tt.row)
			}
		})
	}
}

func TestTerminalDrawsFrame(t *testing.T) {
	term, screen, _ := newSimulatedTerminal(t)

	term.OnTick(game.Frame{
		Generation: 0,
		Tick:       3,
		Humans:     []components.Position{{X: 500, Y: 375}, {X: 100, Y: 375}},
		Zombies:    []components.Position{{X: 500, Y: 375}},
	})

	if r, _, _, _ := screen.GetContent(20, 6); r != zombieGlyph {
		t.Errorf("shared cell shows %q, want zombie", r)
	}
	if r, _, _, _ := screen.GetContent(7, 6); r != humanGlyph {
		t.Errorf("human cell shows %q, want human", r)
	}
	if r, _, _, _ := screen.GetContent(1, 12); r != 'g' {
		t.Errorf("status line starts with %q, want the generation label", r)
	}
}

func TestTerminalQuitKeys(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		quit bool
	}{
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), true},
		{"ctrl-c", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModNone), true},
		{"q", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), true},
		{"other rune", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term, _, _ := newSimulatedTerminal(t)
			if keep := term.handleEvent(tt.ev); keep == tt.quit {
				t.Errorf("handleEvent returned %v, want quit=%v", keep, tt.quit)
			}
		})
	}
}

func TestTerminalCloseStopsPoller(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	screen.SetSize(40, 13)

	term := newTerminal(screen, config.Defaults(), 0, func() {})
	term.done = make(chan struct{})
	go term.pollEvents()

	closed := make(chan struct{})
	go func() {
		term.Close()
		close(closed)
	}()

	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not return after the poller stopped")
	}
	select {
	case <-term.done:
	default:
		t.Error("poller still running after Close")
	}
}
