package engine

import (
	"testing"

	"github.com/pthm-cable/shardfield/config"
	"github.com/pthm-cable/shardfield/layout"
	"github.com/pthm-cable/shardfield/renderer"
)

const (
	testWindowW = 800
	testWindowH = 600
)

func testConfig(t testing.TB) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	cfg.Population.Count = 200
	cfg.Surfaces = []config.SurfaceConfig{
		{Name: "hero", X: 0, Y: 0, Width: 1, Height: 0.5},
		{Name: "contact", X: 0, Y: 0.5, Width: 1, Height: 0.5},
	}
	return cfg
}

// testSurfaces registers a canvas surface for every named region.
func testSurfaces(t testing.TB, cfg *config.Config, names ...string) (*layout.Layout, *renderer.Registry) {
	t.Helper()
	l := layout.New(cfg.Surfaces, testWindowW, testWindowH)
	reg := renderer.NewRegistry()
	for _, name := range names {
		rect, ok := l.Lookup(name)
		if !ok {
			t.Fatalf("no region %q", name)
		}
		reg.Register(renderer.NewCanvasSurface(name, rect, cfg.Derived.Background))
	}
	return l, reg
}

func mustInstance(t testing.TB, e *Engine, name string) *Instance {
	t.Helper()
	inst, ok := e.Instance(name)
	if !ok {
		t.Fatalf("no instance %q", name)
	}
	return inst
}
