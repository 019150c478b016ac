package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for one field over a time window.
type WindowStats struct {
	WindowStartFrame int64   `csv:"-"`
	WindowEndFrame   int64   `csv:"window_end"`
	ElapsedSec       float64 `csv:"elapsed"`
	Field            string  `csv:"field"`

	// Population at window end
	Population int `csv:"population"`
	Generation int `csv:"generation"`

	// Events during window
	Frames        int `csv:"frames"`
	Resizes       int `csv:"resizes"`
	Regenerations int `csv:"regenerations"`
	PointerEnters int `csv:"pointer_enters"`
	PointerLeaves int `csv:"pointer_leaves"`

	// Per-frame draw counts
	DrawnMean float64 `csv:"drawn_mean"`
	DrawnStd  float64 `csv:"drawn_std"`
	DrawnP10  float64 `csv:"drawn_p10"`
	DrawnP50  float64 `csv:"drawn_p50"`
	DrawnP90  float64 `csv:"drawn_p90"`

	// Per-frame skip counts (means)
	NearClippedMean float64 `csv:"near_clipped_mean"`
	FaintMean       float64 `csv:"faint_mean"`
	SpotlitMean     float64 `csv:"spotlit_mean"`

	// Compositing
	OpacityMean     float64 `csv:"opacity_mean"`
	PointerPresence float64 `csv:"pointer_presence"` // Fraction of frames with the pointer over the field
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeSeriesStats calculates mean, population std, and percentiles from per-frame values.
func ComputeSeriesStats(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	mean = stat.Mean(values, nil)
	std = stat.PopStdDev(values, nil)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("field", s.Field),
		slog.Int64("window_start", s.WindowStartFrame),
		slog.Int64("window_end", s.WindowEndFrame),
		slog.Float64("elapsed", s.ElapsedSec),
		slog.Int("population", s.Population),
		slog.Int("generation", s.Generation),
		slog.Int("frames", s.Frames),
		slog.Int("resizes", s.Resizes),
		slog.Int("regenerations", s.Regenerations),
		slog.Int("pointer_enters", s.PointerEnters),
		slog.Int("pointer_leaves", s.PointerLeaves),
		slog.Float64("drawn_mean", s.DrawnMean),
		slog.Float64("drawn_p10", s.DrawnP10),
		slog.Float64("drawn_p50", s.DrawnP50),
		slog.Float64("drawn_p90", s.DrawnP90),
		slog.Float64("near_clipped_mean", s.NearClippedMean),
		slog.Float64("faint_mean", s.FaintMean),
		slog.Float64("spotlit_mean", s.SpotlitMean),
		slog.Float64("opacity_mean", s.OpacityMean),
		slog.Float64("pointer_presence", s.PointerPresence),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
