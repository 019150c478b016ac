package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartFrame()
		pc.StartPhase(PhaseProject)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseDraw)
		time.Sleep(200 * time.Microsecond)
		pc.EndFrame()
	}

	stats := pc.Stats()

	if stats.AvgFrameDuration <= 0 {
		t.Error("expected positive average frame duration")
	}

	if _, ok := stats.PhaseAvg[PhaseProject]; !ok {
		t.Error("expected project phase to be tracked")
	}

	if _, ok := stats.PhaseAvg[PhaseDraw]; !ok {
		t.Error("expected draw phase to be tracked")
	}
}

func TestPerfCollector_RepeatedPhaseAccumulates(t *testing.T) {
	pc := NewPerfCollector(1)

	pc.StartFrame()
	pc.StartPhase(PhaseProject)
	time.Sleep(200 * time.Microsecond)
	pc.StartPhase(PhaseDraw)
	pc.StartPhase(PhaseProject)
	time.Sleep(200 * time.Microsecond)
	pc.EndFrame()

	stats := pc.Stats()
	if stats.PhaseAvg[PhaseProject] < 400*time.Microsecond {
		t.Errorf("expected project phase to accumulate both spans, got %v", stats.PhaseAvg[PhaseProject])
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 10; i++ {
		pc.StartFrame()
		pc.StartPhase(PhasePointer)
		pc.EndFrame()
	}

	stats := pc.Stats()

	if stats.AvgFrameDuration <= 0 {
		t.Error("expected positive average frame duration after window filled")
	}

	if stats.FrameBudgetFPS <= 0 {
		t.Error("expected positive frame budget")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartFrame()
		pc.StartPhase(PhasePointer)
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase(PhaseProject)
		time.Sleep(100 * time.Microsecond)
		pc.EndFrame()
	}

	stats := pc.Stats()

	fastPct := stats.PhasePct[PhasePointer]
	slowPct := stats.PhasePct[PhaseProject]

	if slowPct <= fastPct {
		t.Errorf("expected project phase (%v%%) > pointer phase (%v%%)", slowPct, fastPct)
	}

	row := stats.ToCSV(42)
	if row.WindowEnd != 42 || row.ProjectPct != slowPct {
		t.Errorf("expected CSV row to carry window end and phase pct, got %+v", row)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)

	stats := pc.Stats()

	if stats.AvgFrameDuration != 0 {
		t.Error("expected zero avg frame duration for empty collector")
	}

	if stats.PhaseAvg == nil {
		t.Error("expected non-nil PhaseAvg map")
	}

	if stats.PhasePct == nil {
		t.Error("expected non-nil PhasePct map")
	}
}

func TestPerfCollector_PresentTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	pc.RecordPresent()
	time.Sleep(16 * time.Millisecond)
	pc.RecordPresent()

	stats := pc.Stats()

	if stats.PresentInterval < 15*time.Millisecond {
		t.Errorf("expected present interval >= 15ms, got %v", stats.PresentInterval)
	}

	// With 16ms frames, expect ~60 FPS (allow range 40-80)
	if stats.FPS < 40 || stats.FPS > 80 {
		t.Errorf("expected FPS between 40-80 with 16ms frame time, got %v", stats.FPS)
	}
}
