package report

import (
	"fmt"
	"io"
	"math"
	"strings"
)

// MarkdownRenderer writes the report as a Markdown document, which the view
// command renders in the terminal and CI jobs paste into pull requests.
type MarkdownRenderer struct{}

func (MarkdownRenderer) Render(w io.Writer, rep Report) error {
	var b strings.Builder

	b.WriteString("# Integer Benchmark Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", rep.GeneratedAt.Format("2006-01-02 15:04:05"))

	if rep.Meta != nil {
		b.WriteString("## Baseline Reference\n\n")
		fmt.Fprintf(&b, "- Timestamp: %s\n", orNA(rep.Meta.Timestamp))
		fmt.Fprintf(&b, "- Seed: %d\n\n", rep.Meta.Seed)
	}

	b.WriteString("| Digits | Measured(s) | Baseline(s) | vs Base | Score |\n")
	b.WriteString("|---:|---:|---:|---:|---:|\n")
	for _, c := range rep.Comparisons {
		fmt.Fprintf(&b, "| %d | %.6f | %.6f | %s | %d |\n",
			c.Digits, c.Measured, baselineValue(c.Baseline), mdRatio(c.Ratio), c.Score)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "**Total Score:** %d\n\n", rep.TotalScore)
	fmt.Fprintf(&b, "**Average Score:** %.1f (%s)\n", rep.AverageScore, Assessment(rep.AverageScore))

	if a := Analyze(rep.Comparisons); a != nil {
		b.WriteString("\n## Analysis\n\n")
		fmt.Fprintf(&b, "- Best vs baseline: %.3fx (%d digits)\n", a.BestRatio, a.BestDigits)
		fmt.Fprintf(&b, "- Worst vs baseline: %.3fx (%d digits)\n", a.WorstRatio, a.WorstDigits)
		for _, h := range a.Improvements {
			fmt.Fprintf(&b, "- %d digits improved: %.3fx faster\n", h.Digits, h.Ratio)
		}
		for _, h := range a.Regressions {
			fmt.Fprintf(&b, "- %d digits regressed: %.3fx slower\n", h.Digits, 1/h.Ratio)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func mdRatio(r *float64) string {
	if r == nil {
		return "n/a"
	}
	if math.IsInf(*r, 1) {
		return "infx"
	}
	return fmt.Sprintf("%.2fx", *r)
}
