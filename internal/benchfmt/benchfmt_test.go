package benchfmt

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleOutput = `goos: linux
goarch: amd64
pkg: github.com/theflywheel/keyedhash/bench
cpu: AMD EPYC 7B13
BenchmarkInsert/chaining-8         	 5000000	       250.5 ns/op	      64 B/op	       2 allocs/op
BenchmarkSearch/open-addressing/linear-8   	10000000	       120 ns/op
BenchmarkUUIDKeys/chaining-8       	       1	1523456789 ns/op	    812345 inserts/sec	    1.250 max_chain
PASS
ok  	github.com/theflywheel/keyedhash/bench	12.345s
`

func TestParseGoBench(t *testing.T) {
	s, err := ParseGoBench(strings.NewReader(sampleOutput), "abc123", "main")
	require.NoError(t, err)

	assert.Equal(t, "abc123", s.CommitID)
	assert.Equal(t, "main", s.Branch)
	assert.Equal(t, "goos: linux goarch: amd64 cpu: AMD EPYC 7B13", s.System)

	want := []Result{
		{Name: "Insert/chaining", Category: "standard", Metrics: map[string]float64{
			"operations":    5000000,
			"ns_per_op":     250.5,
			"bytes_per_op":  64,
			"allocs_per_op": 2,
			"ops_per_sec":   1_000_000_000 / 250.5,
		}},
		{Name: "Search/open-addressing/linear", Category: "standard", Metrics: map[string]float64{
			"operations":  10000000,
			"ns_per_op":   120,
			"ops_per_sec": 1_000_000_000 / 120.0,
		}},
		{Name: "UUIDKeys/chaining", Category: "scale", Metrics: map[string]float64{
			"operations":      1,
			"ns_per_op":       1523456789,
			"inserts_per_sec": 812345,
			"max_chain":       1.25,
		}},
	}
	if diff := cmp.Diff(want, s.Results, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("results mismatch (-want +got):\n%s", diff)
	}
}

func TestMetricName(t *testing.T) {
	tests := map[string]string{
		"ns/op":       "ns_per_op",
		"B/op":        "bytes_per_op",
		"allocs/op":   "allocs_per_op",
		"MB/s":        "mb_per_sec",
		"inserts/sec": "inserts_per_sec",
		"load-factor": "load_factor",
	}
	for unit, want := range tests {
		assert.Equal(t, want, MetricName(unit), unit)
	}
}

func TestHigherIsBetter(t *testing.T) {
	for _, m := range []string{"ops_per_sec", "operations", "inserts_per_sec", "insertion_rate"} {
		assert.True(t, HigherIsBetter(m), m)
	}
	for _, m := range []string{"ns_per_op", "bytes_per_op", "allocs_per_op", "collisions", "max_chain_or_probe"} {
		assert.False(t, HigherIsBetter(m), m)
	}
}

func TestCompare(t *testing.T) {
	base := Summary{CommitID: "base0000", Results: []Result{
		{Name: "Insert", Category: "standard", Metrics: map[string]float64{"ns_per_op": 100, "ops_per_sec": 1000}},
		{Name: "Search", Category: "standard", Metrics: map[string]float64{"ns_per_op": 100}},
		{Name: "Erase", Category: "standard", Metrics: map[string]float64{"ns_per_op": 100}},
		{Name: "Gone", Metrics: map[string]float64{"ns_per_op": 1}},
	}}
	current := Summary{CommitID: "head0000", Results: []Result{
		{Name: "Insert", Category: "standard", Metrics: map[string]float64{"ns_per_op": 110, "ops_per_sec": 900}},
		{Name: "Search", Category: "standard", Metrics: map[string]float64{"ns_per_op": 80}},
		{Name: "Erase", Category: "standard", Metrics: map[string]float64{"ns_per_op": 102}},
		{Name: "New", Metrics: map[string]float64{"ns_per_op": 1}},
	}}

	r := Compare(base, current, DefaultThreshold)
	require.Equal(t, 3, r.TotalBenchmarks)
	assert.Equal(t, 1, r.RegressionBenchmarks)
	assert.Equal(t, 1, r.ImprovedBenchmarks)
	assert.True(t, r.HasRegressions())

	byName := map[string]Comparison{}
	for _, c := range r.Comparisons {
		byName[c.Name] = c
	}
	assert.Equal(t, "REGRESSION", byName["Insert"].OverallAssessment)
	assert.Equal(t, "IMPROVEMENT", byName["Search"].OverallAssessment)
	assert.Equal(t, "NEUTRAL", byName["Erase"].OverallAssessment)
	assert.Equal(t, "Insert", r.Comparisons[0].Name, "regressions sort first")

	ins := byName["Insert"].Metrics
	require.Len(t, ins, 2)
	assert.Equal(t, "ns_per_op", ins[0].Name)
	assert.InDelta(t, 10, ins[0].PercentChange, 1e-9)
	assert.True(t, ins[0].IsRegression)
	assert.Equal(t, "ops_per_sec", ins[1].Name)
	assert.True(t, ins[1].IsRegression)

	// the small erase slowdown is a regression but not a significant one
	er := byName["Erase"].Metrics[0]
	assert.True(t, er.IsRegression)
	assert.False(t, er.IsSignificant)
}

func TestWriteReport(t *testing.T) {
	base := Summary{CommitID: "0123456789abcdef", Results: []Result{
		{Name: "Insert", Category: "standard", Metrics: map[string]float64{"ns_per_op": 100}},
	}}
	current := Summary{CommitID: "fedcba9876543210", Results: []Result{
		{Name: "Insert", Category: "standard", Metrics: map[string]float64{"ns_per_op": 150}},
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, Compare(base, current, DefaultThreshold)))
	out := buf.String()
	assert.Contains(t, out, "Benchmark Comparison: 01234567 vs fedcba98")
	assert.Contains(t, out, "x Insert (standard):")
	assert.Contains(t, out, "+50.00%")
	assert.Contains(t, out, "WARNING: 1 significant performance regressions detected!")

	buf.Reset()
	require.NoError(t, WriteReport(&buf, Compare(base, Summary{}, DefaultThreshold)))
	assert.Contains(t, buf.String(), "No matching benchmarks found")
}

func TestSummaryFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history", "latest.json")

	require.NoError(t, AppendResult(path, dir, Result{Name: "A", Metrics: map[string]float64{"ns_per_op": 1}}))
	require.NoError(t, AppendResult(path, dir, Result{Name: "B", Metrics: map[string]float64{"ns_per_op": 2}}))

	s, err := ReadSummary(path)
	require.NoError(t, err)
	assert.Equal(t, "local", s.CommitID)
	assert.Equal(t, "dev", s.Branch)
	require.Len(t, s.Results, 2)
	assert.Equal(t, "B", s.Results[1].Name)

	_, err = ReadSummary(filepath.Join(dir, "missing.json"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestGitInfo(t *testing.T) {
	dir := t.TempDir()
	git := filepath.Join(dir, ".git")
	require.NoError(t, os.MkdirAll(filepath.Join(git, "refs", "heads"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(git, "HEAD"), []byte("ref: refs/heads/feature\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(git, "refs", "heads", "feature"), []byte("0123456789abcdef0123\n"), 0644))

	commit, branch := GitInfo(dir)
	assert.Equal(t, "01234567", commit)
	assert.Equal(t, "feature", branch)

	require.NoError(t, os.WriteFile(filepath.Join(git, "HEAD"), []byte("fedcba9876543210\n"), 0644))
	commit, branch = GitInfo(dir)
	assert.Equal(t, "fedcba98", commit)
	assert.Equal(t, "dev", branch)
}
