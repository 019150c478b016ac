package engine

import (
	"context"
	"math"
	"time"

	"github.com/pthm-cable/shardfield/config"
	"github.com/pthm-cable/shardfield/layout"
	"github.com/pthm-cable/shardfield/renderer"
)

// sweepOutside is the share of each sweep loop the scripted pointer spends outside the window.
const sweepOutside = 0.2

// HeadlessHost produces frames from a clock without a window. By default the
// clock is virtual and advances exactly one frame interval per frame. It can
// script a pointer sweep and a one-off window resize.
type HeadlessHost struct {
	cfg       config.HeadlessConfig
	layout    *layout.Layout
	registry  *renderer.Registry
	maxFrames int64

	start    time.Time
	now      time.Time
	step     time.Duration
	frame    int64
	resized  bool
	outside  bool
	deadline time.Time

	pending []Event
}

// NewHeadlessHost creates a headless host. maxFrames <= 0 runs until stopped.
func NewHeadlessHost(cfg config.HeadlessConfig, l *layout.Layout, registry *renderer.Registry, maxFrames int64) *HeadlessHost {
	fps := cfg.FPS
	if fps <= 0 {
		fps = 60
	}
	start := time.Unix(0, 0)
	if cfg.Realtime {
		start = time.Now()
	}
	return &HeadlessHost{
		cfg:       cfg,
		layout:    l,
		registry:  registry,
		maxFrames: maxFrames,
		start:     start,
		now:       start,
		step:      time.Second / time.Duration(fps),
	}
}

// Inject queues events for the next frame.
func (h *HeadlessHost) Inject(events ...Event) {
	h.pending = append(h.pending, events...)
}

// Frames returns the number of frames handed out.
func (h *HeadlessHost) Frames() int64 {
	return h.frame
}

// NextFrame advances the clock by one frame interval.
func (h *HeadlessHost) NextFrame(ctx context.Context) (FrameInput, error) {
	if h.maxFrames > 0 && h.frame >= h.maxFrames {
		return FrameInput{}, ErrHostClosed
	}

	if h.frame > 0 {
		h.now = h.now.Add(h.step)
	}
	if h.cfg.Realtime {
		if err := h.wait(ctx); err != nil {
			return FrameInput{}, err
		}
	}

	events := h.pending
	h.pending = nil

	elapsed := h.now.Sub(h.start).Seconds()
	if h.cfg.ResizeAfter > 0 && !h.resized && elapsed >= h.cfg.ResizeAfter {
		h.resized = true
		events = append(events, h.ResizeWindow(h.cfg.ResizeWidth, h.cfg.ResizeHeight)...)
	}
	if h.cfg.Sweep {
		if ev, ok := h.sweep(elapsed); ok {
			events = append(events, ev)
		}
	}

	h.frame++
	return FrameInput{Now: h.now, Events: events}, nil
}

// wait sleeps until the virtual clock catches up with wall time.
func (h *HeadlessHost) wait(ctx context.Context) error {
	d := time.Until(h.now)
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Present is a no-op; frames are inspected through the surfaces.
func (h *HeadlessHost) Present() error {
	return nil
}

// ResizeWindow resizes the virtual window.
func (h *HeadlessHost) ResizeWindow(width, height int) []Event {
	return ResizeWindow(h.layout, h.registry, width, height)
}

// sweep moves the pointer along a figure-eight over the first region and
// takes it out of the window for the tail of every loop.
func (h *HeadlessHost) sweep(elapsed float64) (Event, bool) {
	regions := h.layout.Regions()
	if len(regions) == 0 {
		return Event{}, false
	}
	period := h.cfg.SweepPeriod
	if period <= 0 {
		period = 6
	}

	phase := math.Mod(elapsed, period) / period
	if phase >= 1-sweepOutside {
		if h.outside {
			return Event{}, false
		}
		h.outside = true
		return PointerLeave(), true
	}
	h.outside = false

	r := regions[0].Rect
	angle := phase / (1 - sweepOutside) * 2 * math.Pi
	x, y := r.ToWindow(r.W/2+math.Cos(angle)*r.W*0.4, r.H/2+math.Sin(2*angle)*r.H*0.35)
	return PointerMove(x, y), true
}
