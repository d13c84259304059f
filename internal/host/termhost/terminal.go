// Package termhost runs an arcade world in a terminal using tcell. Arrow
// keys and mouse clicks steer the player.
package termhost

import (
	"context"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/wansatya/x.com/internal/host"
	"github.com/wansatya/x.com/internal/host/arcade"
)

// FrameInterval is the default step size, roughly 60 frames per second
const FrameInterval = 16 * time.Millisecond

// Terminal drives a world from a tcell screen
type Terminal struct {
	screen   tcell.Screen
	world    *arcade.World
	logger   *slog.Logger
	interval time.Duration

	viewport Viewport
	buttons  tcell.ButtonMask
}

// New creates a Terminal. The screen must not be initialised yet.
func New(screen tcell.Screen, world *arcade.World, logger *slog.Logger) *Terminal {
	return &Terminal{
		screen:   screen,
		world:    world,
		logger:   logger,
		interval: FrameInterval,
	}
}

// Run initialises the screen and steps the world until ctx ends or the
// player quits
func (t *Terminal) Run(ctx context.Context) error {
	if err := t.screen.Init(); err != nil {
		return err
	}
	defer t.screen.Fini()

	t.screen.EnableMouse()
	t.screen.HideCursor()
	t.screen.Clear()

	events := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return // screen finalised
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	last := time.Now()

	t.logger.Info("terminal host started")
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-events:
			if !t.handleEvent(ev) {
				t.logger.Info("quit requested")
				return nil
			}

		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			// A long stall (suspended terminal) is replayed as one frame
			if dt > 4*t.interval {
				dt = t.interval
			}
			t.world.Step(dt)
			t.draw()
		}
	}
}

func (t *Terminal) draw() {
	t.viewport = Render(t.screen, t.world.Snapshot())
	t.screen.Show()
}

// handleEvent applies one input event and reports whether to keep running
func (t *Terminal) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return t.handleKey(ev.Key(), ev.Rune())
	case *tcell.EventMouse:
		x, y := ev.Position()
		t.handleMouse(x, y, ev.Buttons())
	case *tcell.EventResize:
		t.screen.Sync()
	}
	return true
}

func (t *Terminal) handleKey(key tcell.Key, r rune) bool {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyLeft:
		t.world.Steer(arcade.Left)
	case tcell.KeyRight:
		t.world.Steer(arcade.Right)
	case tcell.KeyUp:
		t.world.Steer(arcade.Jump)
	case tcell.KeyDown:
		t.world.Steer(arcade.Stop)
	case tcell.KeyRune:
		switch r {
		case 'q', 'Q':
			return false
		case 'r', 'R':
			t.world.Press(host.ControlRestart)
		case 'l', 'L':
			t.world.Press(host.ControlAccount)
		case 'o', 'O':
			t.world.Press(host.ControlSignOut)
		case ' ':
			t.world.Steer(arcade.Jump)
		}
	}
	return true
}

// handleMouse turns a primary button press into a pointer event. Motion with
// the button held is ignored.
func (t *Terminal) handleMouse(x, y int, buttons tcell.ButtonMask) {
	pressed := buttons&tcell.Button1 != 0 && t.buttons&tcell.Button1 == 0
	t.buttons = buttons
	if !pressed || !t.viewport.Contains(x, y) {
		return
	}
	t.world.PointerDown(t.viewport.ToWorld(x, y))
}
