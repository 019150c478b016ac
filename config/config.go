// Package config provides configuration loading and access for the particle field.
package config

import (
	_ "embed"
	"fmt"
	"image/color"
	"os"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all field configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Surfaces   []SurfaceConfig  `yaml:"surfaces"`
	Targets    []string         `yaml:"targets"`
	Population PopulationConfig `yaml:"population"`
	Particle   ParticleConfig   `yaml:"particle"`
	Palette    []string         `yaml:"palette"`
	Sampler    SamplerConfig    `yaml:"sampler"`
	Projection ProjectionConfig `yaml:"projection"`
	Spotlight  SpotlightConfig  `yaml:"spotlight"`
	Pointer    PointerConfig    `yaml:"pointer"`
	Resize     ResizeConfig     `yaml:"resize"`
	Headless   HeadlessConfig   `yaml:"headless"`
	Terminal   TerminalConfig   `yaml:"terminal"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds window settings.
type ScreenConfig struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	TargetFPS  int    `yaml:"target_fps"`
	Title      string `yaml:"title"`
	Background string `yaml:"background"` // Hex color behind all surfaces
}

// SurfaceConfig places a named drawing surface inside the window.
// Rect values are fractions of the window size.
type SurfaceConfig struct {
	Name   string  `yaml:"name"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// PopulationConfig holds population sizing.
type PopulationConfig struct {
	Count int `yaml:"count"` // Particles per field, fixed until regeneration
}

// ParticleConfig holds per-particle appearance and motion ranges.
type ParticleConfig struct {
	SizeMin         float64 `yaml:"size_min"`
	SizeMax         float64 `yaml:"size_max"`
	TriangleChance  float64 `yaml:"triangle_chance"`   // Remaining particles are squares
	RotationRateMax float64 `yaml:"rotation_rate_max"` // Radians per frame, symmetric around 0
	JiggleAmplitude float64 `yaml:"jiggle_amplitude"`  // Pixels
	JiggleRateMin   float64 `yaml:"jiggle_rate_min"`   // Radians per second
	JiggleRateMax   float64 `yaml:"jiggle_rate_max"`
	ShadeSteps      int     `yaml:"shade_steps"`  // Shades generated per palette color
	ShadeJitter     float64 `yaml:"shade_jitter"` // Max relative HSV value change across the ramp
}

// SamplerConfig holds the two-ring radial distribution parameters.
type SamplerConfig struct {
	InnerChance float64 `yaml:"inner_chance"`
	InnerMin    float64 `yaml:"inner_min"`
	InnerMax    float64 `yaml:"inner_max"`
	OuterMin    float64 `yaml:"outer_min"`
	OuterSpan   float64 `yaml:"outer_span"` // Outer ring reaches outer_min + outer_span*max(W,H)
	CenterBiasX float64 `yaml:"center_bias_x"`
	CenterBiasY float64 `yaml:"center_bias_y"`
	Depth       float64 `yaml:"depth"` // Full depth range D; oz is drawn from [-D/2, D/2]
}

// ProjectionConfig holds perspective and parallax parameters.
type ProjectionConfig struct {
	FocalLength    float64 `yaml:"focal_length"`
	NearClipMargin float64 `yaml:"near_clip_margin"` // Particles with oz < -F + margin are skipped
	Parallax       float64 `yaml:"parallax"`         // Pointer offset multiplier
}

// SpotlightConfig holds compositing parameters.
type SpotlightConfig struct {
	Radius        float64 `yaml:"radius"`
	BaseOpacity   float64 `yaml:"base_opacity"`
	FadeOffset    float64 `yaml:"fade_offset"`    // Depth fade = min(1, F/(oz+F+offset))
	CullThreshold float64 `yaml:"cull_threshold"` // Draws below this opacity are skipped
}

// PointerConfig holds pointer smoothing parameters.
type PointerConfig struct {
	Smoothing       float64 `yaml:"smoothing"`         // Low-pass factor applied every frame
	RecenterOnLeave bool    `yaml:"recenter_on_leave"` // Ease parallax back to center after leave
}

// ResizeConfig holds resize handling parameters.
type ResizeConfig struct {
	DebounceMS int `yaml:"debounce_ms"`
}

// HeadlessConfig holds headless host parameters.
type HeadlessConfig struct {
	FPS          int     `yaml:"fps"`
	Realtime     bool    `yaml:"realtime"`      // Sleep between frames instead of running a virtual clock
	Sweep        bool    `yaml:"sweep"`         // Move a scripted pointer across the first surface
	SweepPeriod  float64 `yaml:"sweep_period"`  // Seconds per sweep loop
	ResizeAfter  float64 `yaml:"resize_after"`  // Seconds before a scripted window resize (0 = never)
	ResizeWidth  int     `yaml:"resize_width"`
	ResizeHeight int     `yaml:"resize_height"`
}

// TerminalConfig maps terminal cells to field pixels.
type TerminalConfig struct {
	CellWidth  int `yaml:"cell_width"`
	CellHeight int `yaml:"cell_height"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"` // Seconds per stats window
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Palette    []color.RGBA  // Parsed palette
	Background color.RGBA    // Parsed screen background
	Debounce   time.Duration // Resize.DebounceMS as a duration
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := Overlay(cfg, data); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Overlay unmarshals data into cfg, overwriting only the keys present in data,
// then recomputes derived values.
func Overlay(cfg *Config, data []byte) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	return cfg.computeDerived()
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	palette := make([]color.RGBA, 0, len(c.Palette))
	for _, hex := range c.Palette {
		col, err := ParseHex(hex)
		if err != nil {
			return fmt.Errorf("palette: %w", err)
		}
		palette = append(palette, col)
	}
	if len(palette) == 0 {
		palette = append(palette, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	c.Derived.Palette = palette

	bg := color.RGBA{A: 255}
	if c.Screen.Background != "" {
		parsed, err := ParseHex(c.Screen.Background)
		if err != nil {
			return fmt.Errorf("screen background: %w", err)
		}
		bg = parsed
	}
	c.Derived.Background = bg

	c.Derived.Debounce = time.Duration(c.Resize.DebounceMS) * time.Millisecond

	if c.Particle.ShadeSteps < 1 {
		c.Particle.ShadeSteps = 1
	}
	return nil
}

// ParseHex parses "#RRGGBB", "#RGB" or the same without "#" into an opaque color.
func ParseHex(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 3 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	c, err := colorful.Hex("#" + hex)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// Surface returns the surface layout with the given name.
func (c *Config) Surface(name string) (SurfaceConfig, bool) {
	for _, s := range c.Surfaces {
		if s.Name == name {
			return s, true
		}
	}
	return SurfaceConfig{}, false
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
