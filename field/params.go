// Package field implements the particle field: sampling, motion, projection,
// spotlight compositing and the resize-driven population lifecycle.
package field

import (
	"time"

	"github.com/pthm-cable/shardfield/config"
)

// Params holds the numeric constants a field runs with.
// Built once from config and treated as read-only afterwards.
type Params struct {
	Population int

	// Appearance and motion
	SizeMin, SizeMax float64
	TriangleChance   float64
	RotationRateMax  float64
	JiggleAmplitude  float64
	JiggleRateMin    float64
	JiggleRateMax    float64

	// Distribution
	InnerChance  float64
	InnerMin     float64
	InnerMax     float64
	OuterMin     float64
	OuterSpan    float64
	BiasX, BiasY float64
	Depth        float64

	// Projection
	FocalLength    float64
	NearClipMargin float64
	Parallax       float64

	// Spotlight compositing
	SpotlightRadius float64
	BaseOpacity     float64
	FadeOffset      float64
	CullThreshold   float64

	// Pointer
	Smoothing       float64
	RecenterOnLeave bool

	// Lifecycle
	Debounce time.Duration

	Palette *Palette
}

// NewParams derives field parameters from the loaded configuration.
func NewParams(cfg *config.Config) *Params {
	return &Params{
		Population: cfg.Population.Count,

		SizeMin:         cfg.Particle.SizeMin,
		SizeMax:         cfg.Particle.SizeMax,
		TriangleChance:  cfg.Particle.TriangleChance,
		RotationRateMax: cfg.Particle.RotationRateMax,
		JiggleAmplitude: cfg.Particle.JiggleAmplitude,
		JiggleRateMin:   cfg.Particle.JiggleRateMin,
		JiggleRateMax:   cfg.Particle.JiggleRateMax,

		InnerChance: cfg.Sampler.InnerChance,
		InnerMin:    cfg.Sampler.InnerMin,
		InnerMax:    cfg.Sampler.InnerMax,
		OuterMin:    cfg.Sampler.OuterMin,
		OuterSpan:   cfg.Sampler.OuterSpan,
		BiasX:       cfg.Sampler.CenterBiasX,
		BiasY:       cfg.Sampler.CenterBiasY,
		Depth:       cfg.Sampler.Depth,

		FocalLength:    cfg.Projection.FocalLength,
		NearClipMargin: cfg.Projection.NearClipMargin,
		Parallax:       cfg.Projection.Parallax,

		SpotlightRadius: cfg.Spotlight.Radius,
		BaseOpacity:     cfg.Spotlight.BaseOpacity,
		FadeOffset:      cfg.Spotlight.FadeOffset,
		CullThreshold:   cfg.Spotlight.CullThreshold,

		Smoothing:       cfg.Pointer.Smoothing,
		RecenterOnLeave: cfg.Pointer.RecenterOnLeave,

		Debounce: cfg.Derived.Debounce,

		Palette: NewPalette(cfg.Derived.Palette, cfg.Particle.ShadeSteps, cfg.Particle.ShadeJitter),
	}
}

// OuterMax returns the outer ring's maximum radius for a surface of the given size.
func (p *Params) OuterMax(width, height float64) float64 {
	return p.OuterMin + p.OuterSpan*max(width, height)
}
