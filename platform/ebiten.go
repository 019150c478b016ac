package platform

import (
	"context"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/pthm-cable/shardfield/config"
	"github.com/pthm-cable/shardfield/engine"
	"github.com/pthm-cable/shardfield/layout"
	"github.com/pthm-cable/shardfield/renderer"
	"github.com/pthm-cable/shardfield/ui"
)

// EbitenGame runs the engine as an ebiten game. Ebiten owns the loop, so the
// engine is advanced from Update and rendered from Draw.
type EbitenGame struct {
	ctx      context.Context
	cfg      *config.Config
	layout   *layout.Layout
	registry *renderer.Registry
	surfaces []*renderer.EbitenSurface
	engine   *engine.Engine

	pending []engine.Event
	pointer pointerTracker
	showHUD bool
}

// NewEbitenGame creates the game and registers an ebiten surface per region.
func NewEbitenGame(cfg *config.Config) *EbitenGame {
	l := layout.New(cfg.Surfaces, cfg.Screen.Width, cfg.Screen.Height)
	g := &EbitenGame{
		cfg:     cfg,
		layout:  l,
		showHUD: true,
	}
	g.registry = Surfaces(l, func(name string, bounds layout.Rect) renderer.Surface {
		s := renderer.NewEbitenSurface(name, bounds, cfg.Derived.Background)
		g.surfaces = append(g.surfaces, s)
		return s
	})
	return g
}

// Registry returns the surfaces the game draws into.
func (g *EbitenGame) Registry() *renderer.Registry { return g.registry }

// Run opens the window and blocks until the window closes, ctx is done or
// the engine is stopped.
func (g *EbitenGame) Run(ctx context.Context, e *engine.Engine) error {
	g.ctx = ctx
	g.engine = e

	ebiten.SetWindowSize(g.cfg.Screen.Width, g.cfg.Screen.Height)
	ebiten.SetWindowTitle(g.cfg.Screen.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(g.cfg.Screen.TargetFPS)
	return ebiten.RunGame(g)
}

// Update gathers input and advances the engine one frame.
func (g *EbitenGame) Update() error {
	if g.ctx.Err() != nil || g.engine.Stopped() || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		for _, inst := range g.engine.Instances() {
			inst.Field().Regenerate()
		}
	}

	events := g.pending
	g.pending = nil

	x, y := ebiten.CursorPosition()
	w, h := g.layout.WindowSize()
	inside := x >= 0 && y >= 0 && x < w && y < h
	if ev, ok := g.pointer.observe(float64(x), float64(y), inside); ok {
		events = append(events, ev)
	}

	g.engine.Advance(time.Now(), events)
	return nil
}

// Draw renders the latest frame into the screen.
func (g *EbitenGame) Draw(screen *ebiten.Image) {
	bg := g.cfg.Derived.Background
	screen.Fill(bg)
	for _, s := range g.surfaces {
		s.SetTarget(screen)
	}
	g.engine.Render()

	if g.showHUD {
		data := ui.Snapshot(g.cfg.Screen.Title, g.engine, int32(ebiten.ActualFPS()))
		ebitenutil.DebugPrintAt(screen, strings.Join(data.Lines(), "\n"), 10, 10)
	}
}

// Layout follows the outside size so surfaces map 1:1 to window pixels.
func (g *EbitenGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.pending = append(g.pending, engine.ResizeWindow(g.layout, g.registry, outsideWidth, outsideHeight)...)
	return outsideWidth, outsideHeight
}
