// Package engine runs particle fields on named surfaces: it routes input,
// steps every field once per frame, draws the results and feeds telemetry.
package engine

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pthm-cable/shardfield/config"
	"github.com/pthm-cable/shardfield/field"
	"github.com/pthm-cable/shardfield/renderer"
	"github.com/pthm-cable/shardfield/telemetry"
)

// Options configures an engine.
type Options struct {
	Seed           uint64
	LogStats       bool
	StatsWindowSec float64
	Output         *telemetry.OutputManager // nil disables CSV output
}

// Instance is one field bound to a target surface name.
type Instance struct {
	name      string
	field     *field.Field
	surface   renderer.Surface
	collector *telemetry.Collector

	records        []field.RenderRecord
	pointerInside  bool
	lastGeneration int
}

// Name returns the target surface name.
func (i *Instance) Name() string { return i.name }

// Field returns the instance's field.
func (i *Instance) Field() *field.Field { return i.field }

// Surface returns the bound surface, or nil when the target's surface was not
// registered when the engine was created.
func (i *Instance) Surface() renderer.Surface { return i.surface }

// Records returns the records produced by the most recent frame.
func (i *Instance) Records() []field.RenderRecord { return i.records }

// Engine owns one field per target and drives them from a host's frames.
type Engine struct {
	params   *field.Params
	registry *renderer.Registry

	instances []*Instance

	frame     int64
	frameOpen bool
	lastNow   time.Time

	perf     *telemetry.PerfCollector
	output   *telemetry.OutputManager
	logStats bool

	pointerX, pointerY float64
	pointerKnown       bool

	stopped atomic.Bool
	mu      sync.Mutex
	cancel  context.CancelFunc
}

// New creates an engine with one field per configured target.
// Each surface is looked up once here; a target whose surface is missing
// stays idle for the life of the engine.
func New(cfg *config.Config, registry *renderer.Registry, opts Options) *Engine {
	params := field.NewParams(cfg)

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}

	e := &Engine{
		params:   params,
		registry: registry,
		perf:     telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		output:   opts.Output,
		logStats: opts.LogStats,
	}

	for i, name := range cfg.Targets {
		rng := rand.New(rand.NewPCG(opts.Seed, uint64(i)+1))
		inst := &Instance{
			name:      name,
			field:     field.New(name, params, rng),
			collector: telemetry.NewCollector(name, statsWindow),
		}
		if s, ok := registry.Lookup(name); ok {
			inst.surface = s
		} else {
			slog.Info("surface not found, field idle", "field", name)
		}
		e.instances = append(e.instances, inst)
	}
	e.initFields()
	return e
}

// initFields starts bound fields whose surface has gained an area.
// A surface laid out at zero size is retried every frame until it grows.
func (e *Engine) initFields() {
	for _, inst := range e.instances {
		if inst.surface == nil || inst.field.State() != field.StateUninitialized {
			continue
		}
		b := inst.surface.Bounds()
		if b.Empty() {
			continue
		}
		inst.field.Init(b.Size())
		inst.lastGeneration = inst.field.Generation()
		e.writeGeneration(inst)
	}
}

// Params returns the shared field parameters.
func (e *Engine) Params() *field.Params { return e.params }

// Instances returns the engine's instances in target order.
func (e *Engine) Instances() []*Instance { return e.instances }

// Instance returns the instance for a target name.
func (e *Engine) Instance(name string) (*Instance, bool) {
	for _, inst := range e.instances {
		if inst.name == name {
			return inst, true
		}
	}
	return nil, false
}

// Perf returns the frame performance collector.
func (e *Engine) Perf() *telemetry.PerfCollector { return e.perf }

// FrameCount returns the number of completed frames.
func (e *Engine) FrameCount() int64 { return e.frame }

// Frame advances and renders one frame.
func (e *Engine) Frame(now time.Time, events []Event) {
	e.Advance(now, events)
	e.Render()
}

// Advance applies input and steps every field to now.
func (e *Engine) Advance(now time.Time, events []Event) {
	if e.frameOpen {
		e.perf.EndFrame()
		e.frame++
	}
	e.perf.StartFrame()
	e.frameOpen = true
	e.lastNow = now

	e.initFields()

	e.perf.StartPhase(telemetry.PhaseResize)
	for _, ev := range events {
		if ev.Kind == EventResize {
			e.handleResize(ev, now)
		}
	}

	e.perf.StartPhase(telemetry.PhasePointer)
	for _, ev := range events {
		switch ev.Kind {
		case EventPointerMove:
			e.handlePointerMove(ev.X, ev.Y)
		case EventPointerLeave:
			e.handlePointerLeave()
		}
	}

	e.perf.StartPhase(telemetry.PhaseProject)
	for _, inst := range e.instances {
		inst.records = inst.field.Step(now)
		if gen := inst.field.Generation(); gen != inst.lastGeneration {
			inst.lastGeneration = gen
			inst.collector.RecordEvent(telemetry.NewRegeneratedEvent(e.frame, inst.name))
			e.writeGeneration(inst)
			e.reacquirePointer(inst)
		}
	}
}

// Render draws the latest records onto every bound surface and, once per
// advanced frame, records telemetry.
func (e *Engine) Render() {
	if e.frameOpen {
		e.perf.StartPhase(telemetry.PhaseDraw)
	}

	palette := e.params.Palette
	for _, inst := range e.instances {
		s := inst.surface
		if s == nil {
			continue
		}
		framer, hasFrame := s.(renderer.Framer)
		if hasFrame {
			framer.BeginFrame()
		}
		s.Clear()
		for i := range inst.records {
			s.Fill(renderer.Command(&inst.records[i], palette))
		}
		if hasFrame {
			framer.EndFrame()
		}
	}

	if !e.frameOpen {
		return
	}
	e.perf.StartPhase(telemetry.PhaseTelemetry)
	e.recordTelemetry()
	e.perf.EndFrame()
	e.frameOpen = false
	e.frame++
}

func (e *Engine) handleResize(ev Event, now time.Time) {
	inst, ok := e.Instance(ev.Surface)
	if !ok || inst.surface == nil {
		slog.Debug("resize for idle surface ignored", "surface", ev.Surface)
		return
	}
	inst.field.NotifyResize(ev.Width, ev.Height, now)
	inst.collector.RecordEvent(telemetry.NewResizeEvent(e.frame, inst.name))
}

// handlePointerMove routes a window position to the surface under it.
// Fields whose surface the pointer has left lose their spotlight.
func (e *Engine) handlePointerMove(x, y float64) {
	e.pointerX, e.pointerY, e.pointerKnown = x, y, true
	for _, inst := range e.instances {
		if inst.surface != nil {
			e.routePointer(inst, x, y)
		}
	}
}

func (e *Engine) routePointer(inst *Instance, x, y float64) {
	r := inst.surface.Bounds()
	if r.Contains(x, y) {
		lx, ly := r.ToLocal(x, y)
		inst.field.Pointer().Move(lx, ly)
		if !inst.pointerInside {
			inst.pointerInside = true
			inst.collector.RecordEvent(telemetry.NewPointerEvent(e.frame, inst.name, true))
		}
		return
	}
	if inst.pointerInside {
		e.leave(inst)
	}
}

// reacquirePointer restores a resting pointer after regeneration cleared it.
// Hosts only report movement, so without this the spotlight stays off
// until the pointer moves again.
func (e *Engine) reacquirePointer(inst *Instance) {
	if !inst.pointerInside {
		return
	}
	if e.pointerKnown {
		e.routePointer(inst, e.pointerX, e.pointerY)
		return
	}
	e.leave(inst)
}

func (e *Engine) handlePointerLeave() {
	e.pointerKnown = false
	for _, inst := range e.instances {
		if inst.pointerInside {
			e.leave(inst)
		}
	}
}

func (e *Engine) leave(inst *Instance) {
	inst.pointerInside = false
	inst.field.Pointer().Leave()
	inst.collector.RecordEvent(telemetry.NewPointerEvent(e.frame, inst.name, false))
}
