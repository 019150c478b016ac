package telemetry

import "github.com/pthm-cable/shardfield/field"

// Collector accumulates one field's frame results within time windows and produces WindowStats.
type Collector struct {
	field          string
	windowDuration float64

	// Current window tracking
	windowStartFrame int64
	windowStartSec   float64
	started          bool

	// Per-frame series for the current window
	drawn       []float64
	nearClipped []float64
	faint       []float64
	spotlit     []float64
	opacity     []float64
	present     []float64

	// Event counters for current window
	resizes       int
	regenerations int
	enters        int
	leaves        int
}

// NewCollector creates a stats collector for a field.
// windowDurationSec: how long each stats window lasts in elapsed seconds.
func NewCollector(fieldName string, windowDurationSec float64) *Collector {
	if windowDurationSec <= 0 {
		windowDurationSec = 5
	}
	return &Collector{field: fieldName, windowDuration: windowDurationSec}
}

// Field returns the name of the field the collector tracks.
func (c *Collector) Field() string {
	return c.field
}

// RecordFrame records one frame's results.
func (c *Collector) RecordFrame(frame int64, elapsedSec float64, stats field.FrameStats, pointerPresent bool) {
	if !c.started {
		c.started = true
		c.windowStartFrame = frame
		c.windowStartSec = elapsedSec
	}
	c.drawn = append(c.drawn, float64(stats.Drawn))
	c.nearClipped = append(c.nearClipped, float64(stats.NearClipped))
	c.faint = append(c.faint, float64(stats.Faint))
	c.spotlit = append(c.spotlit, float64(stats.Spotlit))
	if stats.Drawn > 0 {
		c.opacity = append(c.opacity, stats.MeanOpacity)
	}
	p := 0.0
	if pointerPresent {
		p = 1
	}
	c.present = append(c.present, p)
}

// RecordEvent counts a lifecycle event. Events for other fields are ignored.
func (c *Collector) RecordEvent(ev Event) {
	if ev.Field != c.field {
		return
	}
	switch ev.Type {
	case EventResizeNotified:
		c.resizes++
	case EventRegenerated:
		c.regenerations++
	case EventPointerEnter:
		c.enters++
	case EventPointerLeave:
		c.leaves++
	}
}

// ShouldFlush returns true once the window has covered its duration.
func (c *Collector) ShouldFlush(elapsedSec float64) bool {
	return c.started && elapsedSec-c.windowStartSec >= c.windowDuration
}

// Flush produces a WindowStats and resets the series for the next window.
func (c *Collector) Flush(frame int64, elapsedSec float64, population, generation int) WindowStats {
	drawnMean, drawnStd, p10, p50, p90 := ComputeSeriesStats(c.drawn)
	nearMean, _, _, _, _ := ComputeSeriesStats(c.nearClipped)
	faintMean, _, _, _, _ := ComputeSeriesStats(c.faint)
	spotMean, _, _, _, _ := ComputeSeriesStats(c.spotlit)
	opMean, _, _, _, _ := ComputeSeriesStats(c.opacity)
	presence, _, _, _, _ := ComputeSeriesStats(c.present)

	stats := WindowStats{
		WindowStartFrame: c.windowStartFrame,
		WindowEndFrame:   frame,
		ElapsedSec:       elapsedSec,
		Field:            c.field,

		Population: population,
		Generation: generation,

		Frames:        len(c.drawn),
		Resizes:       c.resizes,
		Regenerations: c.regenerations,
		PointerEnters: c.enters,
		PointerLeaves: c.leaves,

		DrawnMean: drawnMean,
		DrawnStd:  drawnStd,
		DrawnP10:  p10,
		DrawnP50:  p50,
		DrawnP90:  p90,

		NearClippedMean: nearMean,
		FaintMean:       faintMean,
		SpotlitMean:     spotMean,

		OpacityMean:     opMean,
		PointerPresence: presence,
	}

	// Reset for next window
	c.windowStartFrame = frame
	c.windowStartSec = elapsedSec
	c.drawn = c.drawn[:0]
	c.nearClipped = c.nearClipped[:0]
	c.faint = c.faint[:0]
	c.spotlit = c.spotlit[:0]
	c.opacity = c.opacity[:0]
	c.present = c.present[:0]
	c.resizes = 0
	c.regenerations = 0
	c.enters = 0
	c.leaves = 0

	return stats
}
