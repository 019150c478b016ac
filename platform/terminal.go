package platform

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/shardfield/config"
	"github.com/pthm-cable/shardfield/engine"
	"github.com/pthm-cable/shardfield/layout"
	"github.com/pthm-cable/shardfield/renderer"
)

// TerminalHost runs the engine in a terminal. Each cell stands for a block of
// CellWidth x CellHeight field pixels, so fields keep their proportions.
type TerminalHost struct {
	screen   tcell.Screen
	layout   *layout.Layout
	registry *renderer.Registry

	cellW, cellH int
	cols, rows   int

	events  chan tcell.Event
	quit    chan struct{}
	ticker  *time.Ticker
	pointer pointerTracker
	engine  *engine.Engine
}

// NewTerminalHost initialises the terminal and registers a cell surface per region.
// Close must be called to restore the terminal.
func NewTerminalHost(cfg *config.Config) (*TerminalHost, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("creating terminal screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("initialising terminal screen: %w", err)
	}
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.EnableFocus()
	screen.HideCursor()
	screen.Clear()

	cellW, cellH := max(1, cfg.Terminal.CellWidth), max(1, cfg.Terminal.CellHeight)
	cols, rows := screen.Size()
	l := layout.New(cfg.Surfaces, cols*cellW, rows*cellH)
	reg := Surfaces(l, func(name string, bounds layout.Rect) renderer.Surface {
		return renderer.NewTerminalSurface(name, bounds, cfg.Derived.Background, screen, cellW, cellH)
	})

	fps := cfg.Screen.TargetFPS
	if fps <= 0 {
		fps = 30
	}

	h := &TerminalHost{
		screen:   screen,
		layout:   l,
		registry: reg,
		cellW:    cellW,
		cellH:    cellH,
		cols:     cols,
		rows:     rows,
		events:   make(chan tcell.Event, 64),
		quit:     make(chan struct{}),
		ticker:   time.NewTicker(time.Second / time.Duration(fps)),
	}
	go h.poll()
	return h, nil
}

// Registry returns the surfaces the host draws into.
func (h *TerminalHost) Registry() *renderer.Registry { return h.registry }

// Attach gives the host the engine its regenerate key controls.
func (h *TerminalHost) Attach(e *engine.Engine) { h.engine = e }

// poll forwards terminal events until the screen is finalised.
func (h *TerminalHost) poll() {
	for {
		ev := h.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case h.events <- ev:
		case <-h.quit:
			return
		}
	}
}

// Close stops polling and restores the terminal.
func (h *TerminalHost) Close() {
	close(h.quit)
	h.ticker.Stop()
	h.screen.Fini()
}

// NextFrame waits for the next tick and drains pending terminal events.
func (h *TerminalHost) NextFrame(ctx context.Context) (engine.FrameInput, error) {
	select {
	case <-ctx.Done():
		return engine.FrameInput{}, ctx.Err()
	case <-h.ticker.C:
	}

	var events []engine.Event
	for {
		select {
		case ev := <-h.events:
			out, err := h.translate(ev)
			if err != nil {
				return engine.FrameInput{}, err
			}
			events = append(events, out...)
		default:
			return engine.FrameInput{Now: time.Now(), Events: events}, nil
		}
	}
}

// Present flushes the cell buffer to the terminal.
func (h *TerminalHost) Present() error {
	h.screen.Show()
	return nil
}

// translate maps a terminal event to engine events.
func (h *TerminalHost) translate(ev tcell.Event) ([]engine.Event, error) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC:
			return nil, engine.ErrHostClosed
		case ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q'):
			return nil, engine.ErrHostClosed
		case ev.Key() == tcell.KeyRune && (ev.Rune() == 'r' || ev.Rune() == 'R'):
			if h.engine != nil {
				for _, inst := range h.engine.Instances() {
					inst.Field().Regenerate()
				}
			}
		}
	case *tcell.EventResize:
		cols, rows := ev.Size()
		if cols == h.cols && rows == h.rows {
			return nil, nil
		}
		h.cols, h.rows = cols, rows
		h.screen.Clear()
		return engine.ResizeWindow(h.layout, h.registry, cols*h.cellW, rows*h.cellH), nil
	case *tcell.EventMouse:
		col, row := ev.Position()
		x, y := cellCenter(col, row, h.cellW, h.cellH)
		if out, ok := h.pointer.observe(x, y, true); ok {
			return []engine.Event{out}, nil
		}
	case *tcell.EventFocus:
		if !ev.Focused {
			if out, ok := h.pointer.observe(0, 0, false); ok {
				return []engine.Event{out}, nil
			}
		}
	}
	return nil, nil
}

// cellCenter returns the field pixel at the center of a terminal cell.
func cellCenter(col, row, cellW, cellH int) (x, y float64) {
	return (float64(col) + 0.5) * float64(cellW), (float64(row) + 0.5) * float64(cellH)
}
