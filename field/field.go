package field

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/mlange-42/ark/ecs"
)

// State is the lifecycle state of a field.
type State uint8

const (
	StateUninitialized State = iota // No surface attached yet
	StateReady                      // Population generated, frames running
	StateResizing                   // A size change is waiting out its debounce
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateResizing:
		return "resizing"
	default:
		return "unknown"
	}
}

// FrameStats summarizes the most recent Step.
type FrameStats struct {
	Population  int
	Drawn       int
	NearClipped int
	Degenerate  int
	Faint       int
	Spotlit     int
	MeanOpacity float64
}

// Field owns one particle population and the surface size it was sampled for.
// All methods must be called from the frame loop goroutine.
type Field struct {
	name    string
	params  *Params
	rng     *rand.Rand
	sampler *Sampler
	pointer *PointerTracker

	world  *ecs.World
	mapper *ecs.Map3[Origin, Appearance, Spin]
	filter *ecs.Filter3[Origin, Appearance, Spin]
	count  int

	width, height float64
	state         State
	debounce      Debouncer
	generation    int

	started bool
	start   time.Time
	elapsed float64

	records []RenderRecord
	stats   FrameStats
}

// New creates an uninitialized field. Nothing is sampled until Init.
func New(name string, params *Params, rng *rand.Rand) *Field {
	return &Field{
		name:     name,
		params:   params,
		rng:      rng,
		sampler:  NewSampler(params, rng),
		pointer:  NewPointerTracker(params.Smoothing, params.RecenterOnLeave),
		debounce: Debouncer{Interval: params.Debounce},
		state:    StateUninitialized,
	}
}

// Init attaches the field to a surface of the given size and generates the population.
func (f *Field) Init(width, height int) {
	if f.state != StateUninitialized {
		return
	}
	f.regenerate(float64(width), float64(height))
	f.state = StateReady
	slog.Info("field initialised",
		"field", f.name,
		"width", width,
		"height", height,
		"population", f.count,
	)
}

// NotifyResize records a raw surface size change. Bursts are collapsed and
// the population is regenerated once the quiet period has passed.
func (f *Field) NotifyResize(width, height int, now time.Time) {
	if f.state == StateUninitialized {
		return
	}
	f.debounce.Notify(width, height, now)
	f.state = StateResizing
}

// Step advances the field to now and returns the drawable records for this frame.
// The returned slice is reused by the next call.
func (f *Field) Step(now time.Time) []RenderRecord {
	if f.state == StateUninitialized {
		return nil
	}

	if !f.started {
		f.started = true
		f.start = now
	}
	f.elapsed = now.Sub(f.start).Seconds()

	if w, h, ok := f.debounce.Settle(now); ok {
		f.settle(w, h)
	}

	f.pointer.Tick()
	ptr := f.pointer.State()
	view := View{Width: f.width, Height: f.height}

	f.records = f.records[:0]
	stats := FrameStats{Population: f.count}
	var opacitySum float64

	query := f.filter.Query()
	for query.Next() {
		origin, appearance, spin := query.Get()
		spin.Angle += spin.Rate

		pt := Particle{Origin: *origin, Appearance: *appearance, Spin: *spin}
		rec, skip := Project(&pt, f.elapsed, ptr, view, f.params)
		switch skip {
		case SkipNearClip:
			stats.NearClipped++
			continue
		case SkipDegenerate:
			stats.Degenerate++
			continue
		case SkipFaint:
			stats.Faint++
			continue
		}

		if rec.Highlight > 0 {
			stats.Spotlit++
		}
		opacitySum += rec.Opacity
		f.records = append(f.records, rec)
	}

	stats.Drawn = len(f.records)
	if stats.Drawn > 0 {
		stats.MeanOpacity = opacitySum / float64(stats.Drawn)
	}
	f.stats = stats
	return f.records
}

// settle applies a debounced size.
func (f *Field) settle(width, height int) {
	f.state = StateReady
	w, h := float64(width), float64(height)
	if w == f.width && h == f.height {
		slog.Debug("resize settled on current size", "field", f.name, "width", width, "height", height)
		return
	}
	f.regenerate(w, h)
	slog.Info("field regenerated",
		"field", f.name,
		"width", width,
		"height", height,
		"generation", f.generation,
	)
}

// regenerate discards the whole population and resamples it for the given size.
func (f *Field) regenerate(width, height float64) {
	f.width, f.height = width, height

	f.world = ecs.NewWorld()
	f.mapper = ecs.NewMap3[Origin, Appearance, Spin](f.world)
	f.filter = ecs.NewFilter3[Origin, Appearance, Spin](f.world)

	for i := 0; i < f.params.Population; i++ {
		pt := f.sampler.Particle(width, height)
		f.mapper.NewEntity(&pt.Origin, &pt.Appearance, &pt.Spin)
	}
	f.count = f.params.Population
	f.generation++

	f.pointer.Reset(width, height)
}

// Name returns the surface name the field was created for.
func (f *Field) Name() string {
	return f.name
}

// State returns the lifecycle state.
func (f *Field) State() State {
	return f.state
}

// Size returns the surface size the current population was sampled for.
func (f *Field) Size() (width, height float64) {
	return f.width, f.height
}

// Pointer returns the field's pointer tracker.
func (f *Field) Pointer() *PointerTracker {
	return f.pointer
}

// Params returns the field parameters.
func (f *Field) Params() *Params {
	return f.params
}

// Population returns the number of particles.
func (f *Field) Population() int {
	return f.count
}

// Generation counts how many times the population has been sampled.
func (f *Field) Generation() int {
	return f.generation
}

// Elapsed returns seconds since the first step.
func (f *Field) Elapsed() float64 {
	return f.elapsed
}

// Stats returns counts from the most recent Step.
func (f *Field) Stats() FrameStats {
	return f.stats
}

// Particles returns a snapshot of every particle.
func (f *Field) Particles() []Particle {
	if f.filter == nil {
		return nil
	}
	out := make([]Particle, 0, f.count)
	query := f.filter.Query()
	for query.Next() {
		origin, appearance, spin := query.Get()
		out = append(out, Particle{Origin: *origin, Appearance: *appearance, Spin: *spin})
	}
	return out
}

// Regenerate forces an immediate resample at the current size, dropping any pending resize.
func (f *Field) Regenerate() {
	if f.state == StateUninitialized {
		return
	}
	if f.debounce.Pending() {
		slog.Debug("pending resize dropped by regenerate", "field", f.name)
		f.debounce.Cancel()
	}
	f.state = StateReady
	f.regenerate(f.width, f.height)
}
