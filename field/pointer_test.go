package field

import (
	"math"
	"testing"
)

func TestPointerResetCentersTarget(t *testing.T) {
	p := NewPointerTracker(0.1, false)
	p.Reset(800, 600)

	s := p.State()
	if s.Present() {
		t.Error("expected pointer absent after reset")
	}
	if !math.IsInf(s.RawX, -1) || !math.IsInf(s.RawY, -1) {
		t.Errorf("expected sentinel raw position, got (%f, %f)", s.RawX, s.RawY)
	}
	if s.TargetX != 400 || s.TargetY != 300 || s.SmoothX != 400 || s.SmoothY != 300 {
		t.Errorf("expected target and smoothed at center, got target (%f, %f) smooth (%f, %f)",
			s.TargetX, s.TargetY, s.SmoothX, s.SmoothY)
	}
}

func TestPointerSmoothingConverges(t *testing.T) {
	p := NewPointerTracker(0.1, false)
	p.Reset(800, 600)
	p.Move(700, 100)

	s := p.State()
	if s.SmoothX != 400 {
		t.Fatalf("expected smoothed position unchanged before tick, got %f", s.SmoothX)
	}

	p.Tick()
	s = p.State()
	if math.Abs(s.SmoothX-430) > 1e-9 || math.Abs(s.SmoothY-280) > 1e-9 {
		t.Fatalf("expected one tick to cover 10%%, got (%f, %f)", s.SmoothX, s.SmoothY)
	}

	prev := math.Abs(s.TargetX - s.SmoothX)
	for i := 0; i < 200; i++ {
		p.Tick()
		s = p.State()
		d := math.Abs(s.TargetX - s.SmoothX)
		if d > prev {
			t.Fatalf("distance to target grew from %f to %f", prev, d)
		}
		prev = d
	}
	if prev > 1e-3 {
		t.Errorf("expected smoothed position to converge, still %f away", prev)
	}
}

func TestPointerLeaveKeepsTarget(t *testing.T) {
	p := NewPointerTracker(0.1, false)
	p.Reset(800, 600)
	p.Move(100, 100)
	p.Leave()

	s := p.State()
	if s.Present() {
		t.Error("expected pointer absent after leave")
	}
	if s.TargetX != 100 || s.TargetY != 100 {
		t.Errorf("expected target to stay at last position, got (%f, %f)", s.TargetX, s.TargetY)
	}

	for i := 0; i < 100; i++ {
		p.Tick()
	}
	s = p.State()
	if math.IsInf(s.SmoothX, 0) || math.IsNaN(s.SmoothX) {
		t.Fatalf("expected finite smoothed position, got %f", s.SmoothX)
	}
}

func TestPointerLeaveRecenters(t *testing.T) {
	p := NewPointerTracker(0.5, true)
	p.Reset(800, 600)
	p.Move(100, 100)
	p.Tick()
	p.Leave()

	s := p.State()
	if s.TargetX != 400 || s.TargetY != 300 {
		t.Errorf("expected target recentered, got (%f, %f)", s.TargetX, s.TargetY)
	}
}
