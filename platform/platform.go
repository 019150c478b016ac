// Package platform hosts the engine in a window or a terminal. Each host owns
// the window layout and keeps surface bounds in step with it.
package platform

import (
	"github.com/pthm-cable/shardfield/config"
	"github.com/pthm-cable/shardfield/engine"
	"github.com/pthm-cable/shardfield/layout"
	"github.com/pthm-cable/shardfield/renderer"
)

// SurfaceFactory creates a backend surface for a named region.
type SurfaceFactory func(name string, bounds layout.Rect) renderer.Surface

// Surfaces creates one surface per configured region and registers it.
func Surfaces(l *layout.Layout, factory SurfaceFactory) *renderer.Registry {
	reg := renderer.NewRegistry()
	for _, region := range l.Regions() {
		reg.Register(factory(region.Name, region.Rect))
	}
	return reg
}

// CanvasSurfaces registers a software canvas per region, for headless runs.
func CanvasSurfaces(cfg *config.Config, l *layout.Layout) *renderer.Registry {
	return Surfaces(l, func(name string, bounds layout.Rect) renderer.Surface {
		return renderer.NewCanvasSurface(name, bounds, cfg.Derived.Background)
	})
}

// pointerTracker turns sampled cursor positions into move and leave events.
type pointerTracker struct {
	inside bool
	x, y   float64
}

// observe records one cursor sample. Unchanged positions produce no event.
func (p *pointerTracker) observe(x, y float64, inside bool) (engine.Event, bool) {
	if !inside {
		if !p.inside {
			return engine.Event{}, false
		}
		p.inside = false
		return engine.PointerLeave(), true
	}
	if p.inside && x == p.x && y == p.y {
		return engine.Event{}, false
	}
	p.inside = true
	p.x, p.y = x, y
	return engine.PointerMove(x, y), true
}
