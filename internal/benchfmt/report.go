package benchfmt

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"sort"
)

// WriteReport prints a human-readable comparison, most impactful metrics
// first. Unchanged metrics are omitted.
func WriteReport(w io.Writer, r Report) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "Benchmark Comparison: %s vs %s\n\n",
		shortCommit(r.BaseCommit), shortCommit(r.CurrentCommit))
	fmt.Fprintf(bw, "Summary:\n")
	fmt.Fprintf(bw, "- Total benchmarks compared: %d\n", r.TotalBenchmarks)
	fmt.Fprintf(bw, "- Improvements: %d\n", r.ImprovedBenchmarks)
	fmt.Fprintf(bw, "- Regressions: %d\n\n", r.RegressionBenchmarks)

	if r.TotalBenchmarks == 0 {
		fmt.Fprintln(bw, "No matching benchmarks found for comparison")
		return bw.Flush()
	}

	fmt.Fprintln(bw, "Benchmark Details (sorted by impact):")
	fmt.Fprintln(bw, "======================================")

	for _, c := range r.Comparisons {
		indicator := "+"
		switch {
		case c.HasRegressions:
			indicator = "x"
		case c.Score < 0:
			indicator = "~"
		case c.Score == 0:
			indicator = "="
		}
		fmt.Fprintf(bw, "\n%s %s (%s):\n", indicator, c.Name, c.Category)

		metrics := append([]MetricComparison(nil), c.Metrics...)
		sort.SliceStable(metrics, func(i, j int) bool {
			return math.Abs(metrics[i].PercentChange) > math.Abs(metrics[j].PercentChange)
		})
		for _, m := range metrics {
			if m.PercentChange == 0 {
				continue
			}
			mark := " "
			if m.IsRegression && m.IsSignificant {
				mark = "v"
			} else if m.IsImprovement && m.IsSignificant {
				mark = "^"
			}
			fmt.Fprintf(bw, "  %s %-24s: %+8.2f%% (%g -> %g)\n",
				mark, m.Name, m.PercentChange, m.BaseValue, m.CurrentValue)
		}
	}

	if r.HasRegressions() {
		fmt.Fprintf(bw, "\nWARNING: %d significant performance regressions detected!\n", r.RegressionBenchmarks)
	}
	return bw.Flush()
}
