package engine

import (
	"log/slog"

	"github.com/pthm-cable/shardfield/telemetry"
)

// writeGeneration logs a fresh population to the run output.
func (e *Engine) writeGeneration(inst *Instance) {
	if e.output == nil {
		return
	}
	w, h := inst.field.Size()
	rec := telemetry.GenerationRecord{
		Frame:      e.frame,
		Field:      inst.name,
		Generation: inst.field.Generation(),
		Width:      w,
		Height:     h,
		Population: inst.field.Population(),
	}
	if err := e.output.WriteGeneration(rec); err != nil {
		slog.Error("failed to write generation", "error", err)
	}
}

// recordTelemetry feeds this frame's results to the collectors and flushes finished windows.
func (e *Engine) recordTelemetry() {
	var perfStats telemetry.PerfStats
	perfSampled := false

	for _, inst := range e.instances {
		if inst.surface == nil {
			continue
		}
		f := inst.field
		inst.collector.RecordFrame(e.frame, f.Elapsed(), f.Stats(), f.Pointer().State().Present())

		if !inst.collector.ShouldFlush(f.Elapsed()) {
			continue
		}
		stats := inst.collector.Flush(e.frame, f.Elapsed(), f.Population(), f.Generation())
		if !perfSampled {
			perfStats = e.perf.Stats()
			perfSampled = true
		}

		if e.logStats {
			stats.LogStats()
		}

		if e.output != nil {
			if err := e.output.WriteTelemetry(stats); err != nil {
				slog.Error("failed to write telemetry", "error", err)
			}
		}
	}

	if !perfSampled {
		return
	}
	if e.logStats {
		perfStats.LogStats()
	}
	if e.output != nil {
		if err := e.output.WritePerf(perfStats, e.frame); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}
