package field

import (
	"math"
	"testing"
)

// centered builds a particle whose local position at t=0 is exactly the surface center.
func centered(p *Params, oz float64) Particle {
	return Particle{
		Origin:     Origin{X: 0, Y: -p.JiggleAmplitude, Z: oz},
		Appearance: Appearance{Size: 3, Shape: ShapeSquare},
	}
}

func TestHighlight(t *testing.T) {
	const radius = 250.0

	if got := Highlight(0, radius); got != 1 {
		t.Errorf("expected highlight 1 at the pointer, got %f", got)
	}
	if got := Highlight(radius, radius); got != 0 {
		t.Errorf("expected highlight 0 at the radius, got %f", got)
	}
	if got := Highlight(radius*3, radius); got != 0 {
		t.Errorf("expected highlight 0 beyond the radius, got %f", got)
	}
	if got := Highlight(math.Inf(1), radius); got != 0 {
		t.Errorf("expected highlight 0 at infinite distance, got %f", got)
	}

	prev := Highlight(0, radius)
	for d := 1.0; d <= radius+10; d++ {
		h := Highlight(d, radius)
		if h > prev {
			t.Fatalf("highlight increased from %f to %f at dist %f", prev, h, d)
		}
		prev = h
	}
}

func TestCompositeDepthFadeMonotonic(t *testing.T) {
	p := testParams(t)

	// Fade saturates at 1 while oz+F+offset <= F, so start past that point.
	for _, dist := range []float64{0, 100, 1000} {
		prev, _ := Composite(dist, -p.FadeOffset+1, p)
		for oz := -p.FadeOffset + 2; oz <= p.Depth/2; oz++ {
			op, _ := Composite(dist, oz, p)
			if op >= prev {
				t.Fatalf("dist %v: opacity did not decrease at oz=%v (%f >= %f)", dist, oz, op, prev)
			}
			prev = op
		}
	}
}

func TestProjectOpacityAlwaysInRange(t *testing.T) {
	p := testParams(t)
	s := NewSampler(p, testRand(11))
	view := View{Width: 800, Height: 600}

	pointers := []PointerState{
		{RawX: Sentinel, RawY: Sentinel, SmoothX: 400, SmoothY: 300},
		{RawX: 400, RawY: 300, SmoothX: 400, SmoothY: 300},
		{RawX: 0, RawY: 0, SmoothX: 0, SmoothY: 0},
		{RawX: 5000, RawY: -5000, SmoothX: 5000, SmoothY: -5000},
	}

	for i := 0; i < 2000; i++ {
		pt := s.Particle(view.Width, view.Height)
		for _, ptr := range pointers {
			rec, skip := Project(&pt, float64(i)*0.016, ptr, view, p)
			if skip != SkipNone {
				continue
			}
			if rec.Opacity < 0 || rec.Opacity > 1 || math.IsNaN(rec.Opacity) {
				t.Fatalf("opacity %f outside [0,1]", rec.Opacity)
			}
		}
	}
}

func TestProjectPointerAtCenter(t *testing.T) {
	p := testParams(t)
	view := View{Width: 800, Height: 600}
	ptr := PointerState{RawX: 400, RawY: 300, TargetX: 400, TargetY: 300, SmoothX: 400, SmoothY: 300}

	pt := centered(p, -100)
	rec, skip := Project(&pt, 0, ptr, view, p)
	if skip != SkipNone {
		t.Fatalf("expected a draw, got skip %v", skip)
	}
	if math.Abs(rec.X-400) > 1e-9 || math.Abs(rec.Y-300) > 1e-9 {
		t.Fatalf("expected particle at screen center, got (%f, %f)", rec.X, rec.Y)
	}

	want := (p.BaseOpacity + (1 - p.BaseOpacity)) * DepthFade(-100, p.FocalLength, p.FadeOffset)
	if math.Abs(rec.Opacity-want) > 1e-9 {
		t.Errorf("expected near-maximal opacity %f, got %f", want, rec.Opacity)
	}
	if rec.Highlight != 1 {
		t.Errorf("expected full highlight, got %f", rec.Highlight)
	}
}

func TestProjectSentinelHasNoSpotlight(t *testing.T) {
	p := testParams(t)
	view := View{Width: 800, Height: 600}
	ptr := PointerState{RawX: Sentinel, RawY: Sentinel, SmoothX: 400, SmoothY: 300}
	s := NewSampler(p, testRand(5))

	for i := 0; i < 1000; i++ {
		pt := s.Particle(view.Width, view.Height)
		rec, skip := Project(&pt, 1.5, ptr, view, p)
		if skip != SkipNone {
			continue
		}
		want := p.BaseOpacity * DepthFade(pt.Origin.Z, p.FocalLength, p.FadeOffset)
		if rec.Opacity != want {
			t.Fatalf("expected opacity %v without pointer, got %v", want, rec.Opacity)
		}
		if rec.Highlight != 0 {
			t.Fatalf("expected no highlight without pointer, got %f", rec.Highlight)
		}
	}
}

func TestProjectParallaxSign(t *testing.T) {
	p := testParams(t)
	view := View{Width: 800, Height: 600}
	centerPtr := PointerState{RawX: Sentinel, RawY: Sentinel, SmoothX: 400, SmoothY: 300}
	rightPtr := PointerState{RawX: Sentinel, RawY: Sentinel, SmoothX: 700, SmoothY: 300}

	near := centered(p, -p.Depth/2)
	far := centered(p, p.Depth/2)

	shift := func(pt Particle) float64 {
		base, skip := Project(&pt, 0, centerPtr, view, p)
		if skip != SkipNone {
			t.Fatalf("unexpected skip %v", skip)
		}
		moved, skip := Project(&pt, 0, rightPtr, view, p)
		if skip != SkipNone {
			t.Fatalf("unexpected skip %v", skip)
		}
		return moved.X - base.X
	}

	nearShift := shift(near)
	farShift := shift(far)

	if nearShift >= 0 || farShift >= 0 {
		t.Fatalf("expected leftward shifts for a pointer right of center, got near=%f far=%f", nearShift, farShift)
	}
	if math.Abs(nearShift) <= math.Abs(farShift) {
		t.Errorf("expected near particle to shift more than far (near=%f far=%f)", nearShift, farShift)
	}
}

func TestProjectNearClip(t *testing.T) {
	p := testParams(t)
	pt := centered(p, -p.FocalLength+p.NearClipMargin-1)
	ptr := PointerState{RawX: Sentinel, RawY: Sentinel}

	if _, skip := Project(&pt, 0, ptr, View{Width: 800, Height: 600}, p); skip != SkipNearClip {
		t.Errorf("expected near clip skip, got %v", skip)
	}
}

func TestProjectFaintCull(t *testing.T) {
	p := *testParams(t)
	p.BaseOpacity = 0.01
	pt := centered(&p, 0)
	ptr := PointerState{RawX: Sentinel, RawY: Sentinel, SmoothX: 400, SmoothY: 300}

	if _, skip := Project(&pt, 0, ptr, View{Width: 800, Height: 600}, &p); skip != SkipFaint {
		t.Errorf("expected faint skip below cull threshold, got %v", skip)
	}
}

func TestLocalPositionBounded(t *testing.T) {
	pt := Particle{Origin: Origin{X: 10, Y: -20}, Spin: Spin{JiggleRate: 1.3}}
	const amp = 8.0

	for i := 0; i < 10000; i++ {
		x, y := pt.LocalPosition(float64(i)*0.05, amp)
		if math.Abs(x-10) > amp+1e-9 || math.Abs(y+20) > amp+1e-9 {
			t.Fatalf("position (%f, %f) drifted beyond amplitude", x, y)
		}
	}
}
