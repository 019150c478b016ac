package field

import "math"

// Sentinel is the raw pointer coordinate used while no pointer is over the surface.
var Sentinel = math.Inf(-1)

// PointerState is a snapshot of the tracker, in surface-local pixels.
type PointerState struct {
	RawX, RawY       float64
	TargetX, TargetY float64
	SmoothX, SmoothY float64
}

// Present reports whether a pointer is over the surface.
func (s PointerState) Present() bool {
	return !math.IsInf(s.RawX, -1) && !math.IsInf(s.RawY, -1)
}

// PointerTracker keeps the raw pointer for the spotlight and a low-pass
// filtered copy for parallax. Target never holds the sentinel, so the
// smoothed position stays finite.
type PointerTracker struct {
	state    PointerState
	alpha    float64
	recenter bool
	cx, cy   float64
}

// NewPointerTracker creates a tracker with smoothing factor alpha.
func NewPointerTracker(alpha float64, recenterOnLeave bool) *PointerTracker {
	p := &PointerTracker{alpha: alpha, recenter: recenterOnLeave}
	p.Reset(0, 0)
	return p
}

// Reset places target and smoothed at the surface center and marks the pointer absent.
func (p *PointerTracker) Reset(width, height float64) {
	p.cx, p.cy = width/2, height/2
	p.state = PointerState{
		RawX: Sentinel, RawY: Sentinel,
		TargetX: p.cx, TargetY: p.cy,
		SmoothX: p.cx, SmoothY: p.cy,
	}
}

// Move records a pointer observation in surface-local coordinates.
func (p *PointerTracker) Move(x, y float64) {
	p.state.RawX, p.state.RawY = x, y
	p.state.TargetX, p.state.TargetY = x, y
}

// Leave marks the pointer as off-surface.
func (p *PointerTracker) Leave() {
	p.state.RawX, p.state.RawY = Sentinel, Sentinel
	if p.recenter {
		p.state.TargetX, p.state.TargetY = p.cx, p.cy
	}
}

// Tick advances the smoothed position one frame toward the target.
func (p *PointerTracker) Tick() {
	p.state.SmoothX += (p.state.TargetX - p.state.SmoothX) * p.alpha
	p.state.SmoothY += (p.state.TargetY - p.state.SmoothY) * p.alpha
}

// State returns the current pointer state.
func (p *PointerTracker) State() PointerState {
	return p.state
}

// SetSmoothing changes the low-pass factor.
func (p *PointerTracker) SetSmoothing(alpha float64) {
	p.alpha = alpha
}
