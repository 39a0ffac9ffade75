package benchmark

import (
	"log/slog"
	"math"
)

// Score compares one measurement against the dataset and produces its
// comparison row. A nil dataset, a size absent from it, or a zero stored
// reference time all take the fallback path: the baseline-equivalent score,
// capped at the maximum, with no ratio recorded.
func Score(m Measurement, ds *Dataset, scoring Scoring) Comparison {
	comp := Comparison{Digits: m.Digits, Measured: m.Seconds}

	var base float64
	if ds != nil {
		base = ds.Times[m.Digits]
	}
	if base == 0 {
		comp.Score = min(scoring.MaxScore, scoring.BaselineScore)
		return comp
	}

	ratio := math.Inf(1)
	if m.Seconds != 0 {
		ratio = base / m.Seconds
	} else {
		slog.Warn("measured time is zero, awarding maximum score", "digits", m.Digits)
	}

	comp.Baseline = &base
	comp.Ratio = &ratio
	comp.Score = clampScore(float64(scoring.BaselineScore)*ratio, scoring.MaxScore)
	return comp
}

// ScoreAll scores every measurement, preserving order.
func ScoreAll(ms []Measurement, ds *Dataset, scoring Scoring) []Comparison {
	comps := make([]Comparison, 0, len(ms))
	for _, m := range ms {
		comps = append(comps, Score(m, ds, scoring))
	}
	return comps
}

// clampScore truncates and clamps a raw score into [0, ceiling]. Infinite and
// overflowing values saturate at the ceiling, so the float never reaches an
// int conversion it cannot survive.
func clampScore(raw float64, ceiling int) int {
	if raw >= float64(ceiling) {
		return ceiling
	}
	if raw <= 0 {
		return 0
	}
	return int(raw)
}
