package platform

import (
	"context"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/shardfield/config"
	"github.com/pthm-cable/shardfield/engine"
	"github.com/pthm-cable/shardfield/layout"
	"github.com/pthm-cable/shardfield/renderer"
	"github.com/pthm-cable/shardfield/ui"
)

const raylibControls = "H: HUD | P: perf | R: regenerate | F11: fullscreen | Esc: quit"

// RaylibHost runs the engine in a resizable raylib window.
type RaylibHost struct {
	cfg      *config.Config
	layout   *layout.Layout
	registry *renderer.Registry
	engine   *engine.Engine

	hud       *ui.HUD
	perfPanel *ui.PerfPanel
	showHUD   bool
	showPerf  bool

	pointer pointerTracker
}

// NewRaylibHost opens the window and registers a raylib surface per region.
// Close must be called when done.
func NewRaylibHost(cfg *config.Config) *RaylibHost {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Screen.Title)
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	l := layout.New(cfg.Surfaces, cfg.Screen.Width, cfg.Screen.Height)
	reg := Surfaces(l, func(name string, bounds layout.Rect) renderer.Surface {
		return renderer.NewRaylibSurface(name, bounds, cfg.Derived.Background)
	})

	return &RaylibHost{
		cfg:       cfg,
		layout:    l,
		registry:  reg,
		hud:       ui.NewHUD(),
		perfPanel: ui.NewPerfPanel(),
		showHUD:   true,
	}
}

// Registry returns the surfaces the host draws into.
func (h *RaylibHost) Registry() *renderer.Registry { return h.registry }

// Attach gives the host the engine it reports on and controls.
func (h *RaylibHost) Attach(e *engine.Engine) { h.engine = e }

// Close closes the window.
func (h *RaylibHost) Close() {
	rl.CloseWindow()
}

// NextFrame polls window input and opens the frame for drawing.
func (h *RaylibHost) NextFrame(ctx context.Context) (engine.FrameInput, error) {
	if err := ctx.Err(); err != nil {
		return engine.FrameInput{}, err
	}
	if rl.WindowShouldClose() {
		return engine.FrameInput{}, engine.ErrHostClosed
	}

	var events []engine.Event
	events = append(events, h.handleResize()...)
	h.handleKeys()

	pos := rl.GetMousePosition()
	if ev, ok := h.pointer.observe(float64(pos.X), float64(pos.Y), rl.IsCursorOnScreen()); ok {
		events = append(events, ev)
	}

	bg := h.cfg.Derived.Background
	rl.BeginDrawing()
	rl.ClearBackground(rl.Color{R: bg.R, G: bg.G, B: bg.B, A: 255})

	return engine.FrameInput{Now: time.Now(), Events: events}, nil
}

// Present draws the overlay and ends the frame.
func (h *RaylibHost) Present() error {
	ww, wh := h.layout.WindowSize()
	w, hh := int32(ww), int32(wh)
	if h.engine != nil {
		if h.showHUD {
			h.hud.Draw(ui.Snapshot(h.cfg.Screen.Title, h.engine, rl.GetFPS()), w, hh)
		}
		if h.showPerf {
			h.perfPanel.Draw(h.engine.Perf().Stats(), w, hh)
		}
	}
	if h.showHUD {
		h.hud.DrawControls(w, hh, raylibControls)
	}
	rl.EndDrawing()
	return nil
}

// handleResize checks for window resize and propagates new dimensions.
func (h *RaylibHost) handleResize() []engine.Event {
	if !rl.IsWindowResized() {
		return nil
	}
	return engine.ResizeWindow(h.layout, h.registry, rl.GetScreenWidth(), rl.GetScreenHeight())
}

// handleKeys processes keyboard input.
func (h *RaylibHost) handleKeys() {
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeyH) {
		h.showHUD = !h.showHUD
	}
	if rl.IsKeyPressed(rl.KeyP) {
		h.showPerf = !h.showPerf
	}
	if rl.IsKeyPressed(rl.KeyR) && h.engine != nil {
		for _, inst := range h.engine.Instances() {
			inst.Field().Regenerate()
		}
	}
}
