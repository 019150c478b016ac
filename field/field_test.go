package field

import (
	"math"
	"testing"
	"time"
)

func newTestField(t *testing.T, population int) *Field {
	t.Helper()
	p := testParams(t)
	p.Population = population
	return New("hero", p, testRand(42))
}

func TestFieldUninitializedIsIdle(t *testing.T) {
	f := newTestField(t, 100)
	now := time.Unix(0, 0)

	f.NotifyResize(400, 300, now)
	if recs := f.Step(now); recs != nil {
		t.Errorf("expected no records before init, got %d", len(recs))
	}
	if f.State() != StateUninitialized {
		t.Errorf("expected uninitialized, got %v", f.State())
	}
	if f.Population() != 0 {
		t.Errorf("expected empty population, got %d", f.Population())
	}
}

func TestFieldInit(t *testing.T) {
	f := newTestField(t, 500)
	f.Init(800, 600)

	if f.State() != StateReady {
		t.Fatalf("expected ready, got %v", f.State())
	}
	if f.Population() != 500 {
		t.Errorf("expected population 500, got %d", f.Population())
	}
	if len(f.Particles()) != 500 {
		t.Errorf("expected 500 particles, got %d", len(f.Particles()))
	}
	if f.Generation() != 1 {
		t.Errorf("expected generation 1, got %d", f.Generation())
	}

	s := f.Pointer().State()
	if s.Present() || s.SmoothX != 400 || s.SmoothY != 300 {
		t.Errorf("expected absent pointer smoothed at center, got %+v", s)
	}
}

func TestFieldStepCountsEveryParticle(t *testing.T) {
	f := newTestField(t, 1000)
	f.Init(800, 600)

	recs := f.Step(time.Unix(0, 0))
	st := f.Stats()

	if st.Drawn != len(recs) {
		t.Errorf("expected drawn %d to match records, got %d", len(recs), st.Drawn)
	}
	if total := st.Drawn + st.NearClipped + st.Degenerate + st.Faint; total != 1000 {
		t.Errorf("expected outcomes to cover the population, got %d", total)
	}
	for _, r := range recs {
		if r.Opacity < 0 || r.Opacity > 1 {
			t.Fatalf("opacity %f outside [0,1]", r.Opacity)
		}
	}
}

func TestFieldRotationAdvancesPerFrame(t *testing.T) {
	f := newTestField(t, 10)
	f.Init(800, 600)

	before := f.Particles()
	t0 := time.Unix(0, 0)
	for i := 0; i < 3; i++ {
		f.Step(t0.Add(time.Duration(i) * 16 * time.Millisecond))
	}
	after := f.Particles()

	for i := range before {
		want := before[i].Spin.Angle + 3*before[i].Spin.Rate
		if math.Abs(after[i].Spin.Angle-want) > 1e-12 {
			t.Fatalf("particle %d: expected angle %f, got %f", i, want, after[i].Spin.Angle)
		}
		if after[i].Origin != before[i].Origin {
			t.Fatalf("particle %d: origin changed during steps", i)
		}
	}
}

func TestFieldResizeRegenerates(t *testing.T) {
	f := newTestField(t, 2000)
	f.Init(800, 600)
	p := f.Params()

	t0 := time.Unix(0, 0)
	f.Step(t0)
	f.NotifyResize(600, 450, t0.Add(10*time.Millisecond))
	f.NotifyResize(400, 300, t0.Add(20*time.Millisecond))

	f.Step(t0.Add(100 * time.Millisecond))
	if f.State() != StateResizing {
		t.Fatalf("expected resizing during the quiet period, got %v", f.State())
	}
	if f.Generation() != 1 {
		t.Fatalf("expected no regeneration yet, got generation %d", f.Generation())
	}

	f.Step(t0.Add(220 * time.Millisecond))
	if f.State() != StateReady {
		t.Fatalf("expected ready after settle, got %v", f.State())
	}
	if f.Generation() != 2 {
		t.Fatalf("expected exactly one regeneration, got generation %d", f.Generation())
	}
	if w, h := f.Size(); w != 400 || h != 300 {
		t.Fatalf("expected size 400x300, got %vx%v", w, h)
	}
	if f.Population() != 2000 {
		t.Errorf("expected population unchanged, got %d", f.Population())
	}

	limit := p.OuterMax(400, 300)
	for _, pt := range f.Particles() {
		r := math.Hypot(pt.Origin.X-p.BiasX, pt.Origin.Y-p.BiasY)
		if r > limit+1e-9 {
			t.Fatalf("radius %f beyond new bound %f", r, limit)
		}
	}
}

func TestFieldResizeToSameSizeKeepsPopulation(t *testing.T) {
	f := newTestField(t, 50)
	f.Init(800, 600)
	before := f.Particles()

	t0 := time.Unix(0, 0)
	f.NotifyResize(1024, 768, t0)
	f.NotifyResize(800, 600, t0.Add(50*time.Millisecond))
	f.Step(t0.Add(time.Second))

	if f.State() != StateReady {
		t.Fatalf("expected ready, got %v", f.State())
	}
	if f.Generation() != 1 {
		t.Errorf("expected no regeneration, got generation %d", f.Generation())
	}
	if f.Particles()[0].Origin != before[0].Origin {
		t.Error("expected particles to survive a resize back to the same size")
	}
}

func TestFieldRegenerateResetsPointer(t *testing.T) {
	f := newTestField(t, 10)
	f.Init(800, 600)
	f.Pointer().Move(100, 100)

	f.Regenerate()

	if f.Generation() != 2 {
		t.Errorf("expected generation 2, got %d", f.Generation())
	}
	if f.Pointer().State().Present() {
		t.Error("expected pointer reset after regeneration")
	}
}

func TestFieldRegenerateDropsPendingResize(t *testing.T) {
	f := newTestField(t, 10)
	f.Init(800, 600)
	now := time.Unix(0, 0)

	f.NotifyResize(400, 300, now)
	f.Regenerate()
	if f.State() != StateReady {
		t.Fatalf("expected ready after regenerate, got %v", f.State())
	}

	f.Step(now.Add(time.Second))
	if w, h := f.Size(); w != 800 || h != 600 {
		t.Errorf("expected size kept at 800x600, got %vx%v", w, h)
	}
	if f.Generation() != 2 {
		t.Errorf("expected no regeneration from the dropped resize, got generation %d", f.Generation())
	}
}
