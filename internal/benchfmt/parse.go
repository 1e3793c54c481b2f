package benchfmt

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

var (
	benchLine    = regexp.MustCompile(`^Benchmark(\S+?)(?:-\d+)?\s+(\d+)\s+(.+)$`)
	goVersionRe  = regexp.MustCompile(`go\d+\.\d+(?:\.\d+)?`)
	nonMetricRe  = regexp.MustCompile(`[^a-z0-9]+`)
	headerFields = []string{"goos:", "goarch:", "cpu:"}
)

// ParseGoBench converts `go test -bench` output into a summary. Every
// value/unit pair on a benchmark line becomes a metric, including those
// reported with testing.B.ReportMetric.
func ParseGoBench(r io.Reader, commitID, branch string) (Summary, error) {
	s := NewSummary(commitID, branch)
	s.GoVersion = ""
	var system []string

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		for _, f := range headerFields {
			if strings.HasPrefix(line, f) {
				system = append(system, line)
			}
		}
		if s.GoVersion == "" {
			s.GoVersion = goVersionRe.FindString(line)
		}

		m := benchLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		ops, _ := strconv.Atoi(m[2])
		res := Result{
			Name:     m[1],
			Category: categoryOf(m[1]),
			Metrics:  map[string]float64{"operations": float64(ops)},
		}
		fields := strings.Fields(m[3])
		for i := 0; i+1 < len(fields); i += 2 {
			v, err := strconv.ParseFloat(strings.ReplaceAll(fields[i], ",", ""), 64)
			if err != nil {
				continue
			}
			res.Metrics[MetricName(fields[i+1])] = v
		}
		if ns, ok := res.Metrics["ns_per_op"]; ok && ns > 0 && res.Category == "standard" {
			res.Metrics["ops_per_sec"] = 1_000_000_000 / ns
		}
		s.Results = append(s.Results, res)
	}
	if err := sc.Err(); err != nil {
		return s, errors.Wrap(err, "scan benchmark output")
	}
	s.System = strings.Join(system, " ")
	return s, nil
}

// MetricName turns a benchmark unit such as "ns/op" or "inserts/sec" into a
// metric key such as "ns_per_op" or "inserts_per_sec".
func MetricName(unit string) string {
	switch unit {
	case "B/op":
		return "bytes_per_op"
	case "MB/s":
		return "mb_per_sec"
	}
	name := strings.ReplaceAll(strings.ToLower(unit), "/", "_per_")
	return strings.Trim(nonMetricRe.ReplaceAllString(name, "_"), "_")
}

// categoryOf classifies scale benchmarks by their Keys suffix, as in
// BenchmarkMillionKeys or BenchmarkUUIDKeys/chaining.
func categoryOf(name string) string {
	base, _, _ := strings.Cut(name, "/")
	if strings.HasSuffix(base, "Keys") {
		return "scale"
	}
	return "standard"
}
