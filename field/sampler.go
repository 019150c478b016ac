package field

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Sampler draws new particles for a surface.
// Origins follow a two-ring radial vortex around a biased center.
type Sampler struct {
	params *Params
	rng    *rand.Rand

	angle  distuv.Uniform
	inner  distuv.Bernoulli
	innerR distuv.Uniform
	depth  distuv.Uniform
	size   distuv.Uniform
	spin   distuv.Uniform
	jiggle distuv.Uniform
}

// NewSampler creates a sampler drawing from rng.
func NewSampler(params *Params, rng *rand.Rand) *Sampler {
	half := params.Depth / 2
	return &Sampler{
		params: params,
		rng:    rng,
		angle:  distuv.Uniform{Min: 0, Max: 2 * math.Pi, Src: rng},
		inner:  distuv.Bernoulli{P: params.InnerChance, Src: rng},
		innerR: distuv.Uniform{Min: params.InnerMin, Max: params.InnerMax, Src: rng},
		depth:  distuv.Uniform{Min: -half, Max: half, Src: rng},
		size:   distuv.Uniform{Min: params.SizeMin, Max: params.SizeMax, Src: rng},
		spin:   distuv.Uniform{Min: -params.RotationRateMax, Max: params.RotationRateMax, Src: rng},
		jiggle: distuv.Uniform{Min: params.JiggleRateMin, Max: params.JiggleRateMax, Src: rng},
	}
}

// Radius draws a ring radius for a surface of the given size.
func (s *Sampler) Radius(width, height float64) float64 {
	if s.inner.Rand() == 1 {
		return s.innerR.Rand()
	}
	outer := distuv.Uniform{Min: s.params.OuterMin, Max: s.params.OuterMax(width, height), Src: s.rng}
	return outer.Rand()
}

// Origin draws one origin for a surface of the given size.
func (s *Sampler) Origin(width, height float64) Origin {
	theta := s.angle.Rand()
	r := s.Radius(width, height)
	return Origin{
		X: math.Cos(theta)*r + s.params.BiasX,
		Y: math.Sin(theta)*r + s.params.BiasY,
		Z: s.depth.Rand(),
	}
}

// Particle draws a complete particle for a surface of the given size.
func (s *Sampler) Particle(width, height float64) Particle {
	shape := ShapeSquare
	if s.rng.Float64() < s.params.TriangleChance {
		shape = ShapeTriangle
	}

	var colorID, shade uint8
	if n := s.params.Palette.Len(); n > 0 {
		colorID = uint8(s.rng.IntN(n))
		shade = uint8(s.rng.IntN(s.params.Palette.Steps()))
	}

	size := s.size.Rand()
	if size <= 0 {
		size = math.SmallestNonzeroFloat32
	}

	return Particle{
		Origin: s.Origin(width, height),
		Appearance: Appearance{
			Size:    size,
			ColorID: colorID,
			Shade:   shade,
			Shape:   shape,
		},
		Spin: Spin{
			Angle:      s.angle.Rand(),
			Rate:       s.spin.Rand(),
			JiggleRate: s.jiggle.Rand(),
		},
	}
}
