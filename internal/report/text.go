package report

import (
	"fmt"
	"io"
	"math"
	"strings"
)

// TextRenderer writes the classic fixed-width report layout. Column widths
// and separators are part of the format; downstream tooling greps them.
type TextRenderer struct {
	// Detailed appends the assessment and analysis sections after the
	// totals.
	Detailed bool
}

func (r TextRenderer) Render(w io.Writer, rep Report) error {
	var b strings.Builder

	b.WriteString("INTEGER BENCHMARK REPORT\n")
	b.WriteString("========================\n")
	fmt.Fprintf(&b, "Generated: %s\n", rep.GeneratedAt.Format("2006-01-02 15:04:05"))
	b.WriteString("\n")

	if rep.Meta != nil {
		b.WriteString("Baseline Reference\n")
		fmt.Fprintf(&b, "  Timestamp: %s\n", orNA(rep.Meta.Timestamp))
		fmt.Fprintf(&b, "  Seed:      %d\n", rep.Meta.Seed)
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "%12s %15s %15s %9s %7s\n", "Digits", "Measured(s)", "Baseline(s)", "vs Base", "Score")
	b.WriteString(strings.Repeat("-", 64) + "\n")

	for _, c := range rep.Comparisons {
		fmt.Fprintf(&b, "%12d %15.6f %15.6f %9s %7d\n",
			c.Digits, c.Measured, baselineValue(c.Baseline), ratioCell(c.Ratio), c.Score)
	}

	b.WriteString(strings.Repeat("-", 64) + "\n")
	fmt.Fprintf(&b, "Total Score:   %d\n", rep.TotalScore)
	fmt.Fprintf(&b, "Average Score: %.1f\n", rep.AverageScore)

	if r.Detailed {
		writeDetail(&b, rep)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func ratioCell(r *float64) string {
	if r == nil {
		return "   n/a"
	}
	if math.IsInf(*r, 1) {
		return fmt.Sprintf("%7sx", "inf")
	}
	return fmt.Sprintf("%7.2fx", *r)
}

func writeDetail(b *strings.Builder, rep Report) {
	fmt.Fprintf(b, "Assessment:    %s\n", Assessment(rep.AverageScore))

	a := Analyze(rep.Comparisons)
	if a == nil {
		return
	}

	b.WriteString("\nDETAILED ANALYSIS:\n")
	b.WriteString("==================\n")
	fmt.Fprintf(b, "Best vs baseline:  %.3fx (%d digits)\n", a.BestRatio, a.BestDigits)
	fmt.Fprintf(b, "Worst vs baseline: %.3fx (%d digits)\n", a.WorstRatio, a.WorstDigits)
	if len(a.Improvements) > 0 {
		b.WriteString("Improvements over baseline:\n")
		for _, h := range a.Improvements {
			fmt.Fprintf(b, "  %d digits: %.3fx faster\n", h.Digits, h.Ratio)
		}
	}
	if len(a.Regressions) > 0 {
		b.WriteString("Regressions from baseline:\n")
		for _, h := range a.Regressions {
			fmt.Fprintf(b, "  %d digits: %.3fx slower\n", h.Digits, 1/h.Ratio)
		}
	}
}
