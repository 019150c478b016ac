package field

import "math"

// View is the surface a field projects onto, in pixels.
type View struct {
	Width, Height float64
}

// SkipReason says why a particle produced no draw this frame.
type SkipReason uint8

const (
	SkipNone       SkipReason = iota
	SkipNearClip              // Behind the near-clip plane
	SkipDegenerate            // Non-positive perspective scale
	SkipFaint                 // Opacity below the cull threshold
)

func (r SkipReason) String() string {
	switch r {
	case SkipNone:
		return "none"
	case SkipNearClip:
		return "near_clip"
	case SkipDegenerate:
		return "degenerate"
	case SkipFaint:
		return "faint"
	default:
		return "unknown"
	}
}

// RenderRecord is the screen-space result of projecting one particle.
type RenderRecord struct {
	X, Y      float64
	Scale     float64
	Rotation  float64
	Opacity   float64
	Highlight float64
	Size      float64
	ColorID   uint8
	Shade     uint8
	Shape     ShapeKind
}

// Perspective returns the projection factor F/(F+oz).
func Perspective(oz, focal float64) float64 {
	return focal / (focal + oz)
}

// Highlight returns the spotlight contribution for a distance from the pointer:
// 1 at the pointer, easing quadratically to 0 at radius and beyond.
func Highlight(dist, radius float64) float64 {
	if radius <= 0 || dist >= radius {
		return 0
	}
	f := 1 - dist/radius
	return f * f
}

// DepthFade attenuates opacity with depth: min(1, F/(oz+F+offset)).
func DepthFade(oz, focal, offset float64) float64 {
	denom := oz + focal + offset
	if denom <= 0 {
		return 1
	}
	return min(1, focal/denom)
}

// Composite blends the ambient floor with the spotlight and applies depth fade.
// The returned opacity is clamped to [0,1].
func Composite(dist, oz float64, p *Params) (opacity, highlight float64) {
	highlight = Highlight(dist, p.SpotlightRadius)
	opacity = p.BaseOpacity + highlight*(1-p.BaseOpacity)
	opacity *= DepthFade(oz, p.FocalLength, p.FadeOffset)
	return min(1, max(0, opacity)), highlight
}

// Project computes where and how visibly a particle is drawn at elapsed time t.
func Project(pt *Particle, t float64, ptr PointerState, view View, p *Params) (RenderRecord, SkipReason) {
	oz := pt.Origin.Z
	if oz < -p.FocalLength+p.NearClipMargin {
		return RenderRecord{}, SkipNearClip
	}

	scale := Perspective(oz, p.FocalLength)
	if scale <= 0 || math.IsNaN(scale) {
		return RenderRecord{}, SkipDegenerate
	}

	cx, cy := view.Width/2, view.Height/2
	px := (ptr.SmoothX - cx) * p.Parallax * scale
	py := (ptr.SmoothY - cy) * p.Parallax * scale

	lx, ly := pt.LocalPosition(t, p.JiggleAmplitude)
	x := lx + cx - px
	y := ly + cy - py

	dist := math.Inf(1)
	if ptr.Present() {
		dist = math.Hypot(x-ptr.RawX, y-ptr.RawY)
	}

	opacity, highlight := Composite(dist, oz, p)
	if opacity < p.CullThreshold {
		return RenderRecord{}, SkipFaint
	}

	return RenderRecord{
		X:         x,
		Y:         y,
		Scale:     scale,
		Rotation:  pt.Spin.Angle,
		Opacity:   opacity,
		Highlight: highlight,
		Size:      pt.Appearance.Size,
		ColorID:   pt.Appearance.ColorID,
		Shade:     pt.Appearance.Shade,
		Shape:     pt.Appearance.Shape,
	}, SkipNone
}
