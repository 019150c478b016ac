package field

import "math"

// ShapeKind identifies the polygon a particle is drawn as.
type ShapeKind uint8

const (
	ShapeTriangle ShapeKind = iota
	ShapeSquare
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeTriangle:
		return "triangle"
	case ShapeSquare:
		return "square"
	default:
		return "unknown"
	}
}

// Origin is the fixed center a particle floats around, relative to the surface center.
// Z is pseudo-depth in [-D/2, D/2].
type Origin struct {
	X, Y, Z float64
}

// Appearance holds the immutable visual attributes.
type Appearance struct {
	Size    float64
	ColorID uint8
	Shade   uint8
	Shape   ShapeKind
}

// Spin holds the motion phase. Angle is the only component mutated after spawn.
type Spin struct {
	Angle      float64 // Radians, grows by Rate every frame
	Rate       float64 // Radians per frame
	JiggleRate float64 // Radians per second
}

// Particle is a value snapshot of one entity's components.
type Particle struct {
	Origin     Origin
	Appearance Appearance
	Spin       Spin
}

// LocalPosition returns the particle's position at elapsed time t, oscillating
// around its origin with the given amplitude.
func (p *Particle) LocalPosition(t, amplitude float64) (x, y float64) {
	rate := p.Spin.JiggleRate
	x = p.Origin.X + amplitude*math.Sin(t*rate)
	y = p.Origin.Y + amplitude*math.Cos(t*rate*0.9)
	return x, y
}
