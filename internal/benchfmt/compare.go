package benchfmt

import (
	"math"
	"sort"
	"strings"
)

// DefaultThreshold is the percent change at which a metric change counts as
// significant.
const DefaultThreshold = 5.0

// MetricComparison represents a comparison between two metric values
type MetricComparison struct {
	Name          string  `json:"name"`
	BaseValue     float64 `json:"base_value"`
	CurrentValue  float64 `json:"current_value"`
	PercentChange float64 `json:"percent_change"`
	IsRegression  bool    `json:"is_regression"`
	IsImprovement bool    `json:"is_improvement"`
	IsSignificant bool    `json:"is_significant"`
}

// Comparison represents a comparison between two runs of one benchmark
type Comparison struct {
	Name              string             `json:"name"`
	Category          string             `json:"category"`
	Metrics           []MetricComparison `json:"metric_comparisons"`
	OverallAssessment string             `json:"overall_assessment"`
	HasRegressions    bool               `json:"has_regressions"`
	Score             float64            `json:"score"`
}

// Report is the overall result of comparing two summaries
type Report struct {
	BaseCommit           string       `json:"base_commit"`
	CurrentCommit        string       `json:"current_commit"`
	TotalBenchmarks      int          `json:"total_benchmarks"`
	ImprovedBenchmarks   int          `json:"improved_benchmarks"`
	RegressionBenchmarks int          `json:"regression_benchmarks"`
	Comparisons          []Comparison `json:"benchmark_comparisons"`
}

// HasRegressions reports whether any benchmark regressed significantly.
func (r Report) HasRegressions() bool {
	return r.RegressionBenchmarks > 0
}

// Compare matches current against base by benchmark name. Benchmarks or
// metrics missing from either side are skipped. A metric is significant
// when it moved by at least threshold percent.
func Compare(base, current Summary, threshold float64) Report {
	baseResults := make(map[string]Result, len(base.Results))
	for _, r := range base.Results {
		baseResults[r.Name] = r
	}

	report := Report{BaseCommit: base.CommitID, CurrentCommit: current.CommitID}
	for _, cur := range current.Results {
		old, found := baseResults[cur.Name]
		if !found {
			continue
		}
		c := compareResult(old, cur, threshold)
		switch c.OverallAssessment {
		case "REGRESSION":
			report.RegressionBenchmarks++
		case "IMPROVEMENT":
			report.ImprovedBenchmarks++
		}
		report.Comparisons = append(report.Comparisons, c)
	}

	// worst first
	sort.SliceStable(report.Comparisons, func(i, j int) bool {
		a, b := report.Comparisons[i], report.Comparisons[j]
		if a.HasRegressions != b.HasRegressions {
			return a.HasRegressions
		}
		return a.Score < b.Score
	})
	report.TotalBenchmarks = len(report.Comparisons)
	return report
}

func compareResult(base, cur Result, threshold float64) Comparison {
	c := Comparison{Name: cur.Name, Category: cur.Category}

	names := make([]string, 0, len(cur.Metrics))
	for name := range cur.Metrics {
		if _, ok := base.Metrics[name]; ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	score := 0.0
	for _, name := range names {
		baseValue, curValue := base.Metrics[name], cur.Metrics[name]
		change := 0.0
		if baseValue != 0 {
			change = (curValue - baseValue) / baseValue * 100
		}

		m := MetricComparison{
			Name:          name,
			BaseValue:     baseValue,
			CurrentValue:  curValue,
			PercentChange: change,
			IsSignificant: math.Abs(change) >= threshold,
		}
		if HigherIsBetter(name) {
			m.IsRegression, m.IsImprovement = change < 0, change > 0
		} else {
			m.IsRegression, m.IsImprovement = change > 0, change < 0
		}

		if m.IsRegression && m.IsSignificant {
			c.HasRegressions = true
		}
		if m.IsImprovement {
			score += math.Abs(change)
		} else if m.IsRegression {
			score -= math.Abs(change)
		}
		c.Metrics = append(c.Metrics, m)
	}
	if len(c.Metrics) > 0 {
		c.Score = score / float64(len(c.Metrics))
	}

	switch {
	case c.HasRegressions:
		c.OverallAssessment = "REGRESSION"
	case c.Score > 0:
		c.OverallAssessment = "IMPROVEMENT"
	default:
		c.OverallAssessment = "NEUTRAL"
	}
	return c
}

var higherBetterPatterns = []string{
	"ops_per_sec", "operations", "_per_sec", "rate", "throughput",
}

// HigherIsBetter reports whether growth of the named metric is an
// improvement. Latency, bytes, allocations and collision figures are lower
// is better.
func HigherIsBetter(metric string) bool {
	for _, p := range higherBetterPatterns {
		if strings.Contains(metric, p) {
			return true
		}
	}
	return false
}
