package report

import (
	"io"
	"time"

	"intbench/internal/benchmark"
)

// Report is the fully assembled outcome of a scoring pass, ready for
// rendering.
type Report struct {
	Comparisons  []benchmark.Comparison
	Meta         *benchmark.Info
	GeneratedAt  time.Time
	TotalScore   int
	AverageScore float64
}

// Renderer turns a report into one output format.
type Renderer interface {
	Render(w io.Writer, rep Report) error
}

// Build totals the comparisons. Meta is nil when the run scored without a
// baseline. An empty comparison list yields an average of zero.
func Build(comps []benchmark.Comparison, meta *benchmark.Info, generatedAt time.Time) Report {
	total := 0
	for _, c := range comps {
		total += c.Score
	}
	avg := 0.0
	if len(comps) > 0 {
		avg = float64(total) / float64(len(comps))
	}
	return Report{
		Comparisons:  comps,
		Meta:         meta,
		GeneratedAt:  generatedAt,
		TotalScore:   total,
		AverageScore: avg,
	}
}

// Assessment buckets an average score into a human judgment.
func Assessment(avg float64) string {
	switch {
	case avg >= 800:
		return "Excellent"
	case avg >= 600:
		return "Good"
	case avg >= 400:
		return "Fair"
	case avg >= 200:
		return "Baseline"
	default:
		return "Below baseline"
	}
}

// Highlight is one size called out by the analysis.
type Highlight struct {
	Digits int
	Ratio  float64
}

// Analysis summarizes how the run moved relative to the baseline.
type Analysis struct {
	BestRatio    float64
	BestDigits   int
	WorstRatio   float64
	WorstDigits  int
	Improvements []Highlight
	Regressions  []Highlight
}

// Analyze picks out best and worst ratios plus the per-size improvements and
// regressions. It returns nil when no comparison carries a ratio, which is
// the case for fallback-scored runs.
func Analyze(comps []benchmark.Comparison) *Analysis {
	var a *Analysis
	for _, c := range comps {
		if c.Ratio == nil {
			continue
		}
		r := *c.Ratio
		if a == nil {
			a = &Analysis{BestRatio: r, BestDigits: c.Digits, WorstRatio: r, WorstDigits: c.Digits}
		} else {
			if r > a.BestRatio {
				a.BestRatio = r
				a.BestDigits = c.Digits
			}
			if r < a.WorstRatio {
				a.WorstRatio = r
				a.WorstDigits = c.Digits
			}
		}
		if r > 1.0 {
			a.Improvements = append(a.Improvements, Highlight{Digits: c.Digits, Ratio: r})
		} else if r < 1.0 {
			a.Regressions = append(a.Regressions, Highlight{Digits: c.Digits, Ratio: r})
		}
	}
	return a
}

func orNA(s string) string {
	if s == "" {
		return "n/a"
	}
	return s
}

func baselineValue(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
