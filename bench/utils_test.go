package bench_test

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/theflywheel/keyedhash"
	"github.com/theflywheel/keyedhash/hashfn"
	"github.com/theflywheel/keyedhash/internal/benchfmt"
)

// strategy builds an empty table for one collision-resolution setup.
type strategy[V any] struct {
	name string
	make func() (*keyedhash.Table[V], error)
}

func strategies[V any]() []strategy[V] {
	ops := keyedhash.BytesKeyOps[V]()
	oa := func(p keyedhash.ProbeStrategy, secondary keyedhash.HashFunc) func() (*keyedhash.Table[V], error) {
		return func() (*keyedhash.Table[V], error) {
			return keyedhash.NewOpenAddressing[V](0, 0, ops, p, secondary)
		}
	}
	return []strategy[V]{
		{"chaining", func() (*keyedhash.Table[V], error) { return keyedhash.NewChaining[V](0, 0, ops) }},
		{"linear", oa(keyedhash.ProbeLinear, nil)},
		{"quadratic", oa(keyedhash.ProbeQuadratic, nil)},
		{"double", oa(keyedhash.ProbeDoubleHash, hashfn.XXHash64)},
	}
}

func mustTable[V any](b *testing.B, s strategy[V]) *keyedhash.Table[V] {
	b.Helper()
	tbl, err := s.make()
	if err != nil {
		b.Fatalf("Failed to create %s table: %v", s.name, err)
	}
	return tbl
}

// getMemoryUsage returns the current memory stats as a formatted string
func getMemoryUsage() string {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return fmt.Sprintf("Memory: Alloc=%.1fMB Sys=%.1fMB",
		float64(m.Alloc)/1024/1024,
		float64(m.Sys)/1024/1024)
}

// heapAllocMB returns the live heap in megabytes.
func heapAllocMB() float64 {
	runtime.GC()
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return float64(m.HeapAlloc) / (1024 * 1024)
}

// statsMetrics copies the occupancy figures of tbl into metrics.
func statsMetrics[V any](tbl *keyedhash.Table[V], metrics map[string]float64) {
	s := tbl.Stats()
	metrics["capacity"] = float64(s.Buckets)
	metrics["load_factor"] = tbl.LoadFactor()
	metrics["collisions"] = float64(s.CollisionCount)
	metrics["max_chain_or_probe"] = float64(s.MaxChainOrProbe)
	metrics["average_chain_length"] = s.AverageChainLength
}

// cleanupMetrics removes progress metrics that are only useful in the log
func cleanupMetrics(metrics map[string]float64) {
	for key := range metrics {
		if strings.HasPrefix(key, "batch_rate_") || strings.HasPrefix(key, "memory_mb_") {
			delete(metrics, key)
		}
	}
}

// saveBenchmarkResult appends a result to benchmark_history/<resultsFile> in
// the repository root.
func saveBenchmarkResult(b *testing.B, result benchfmt.Result, resultsFile string) {
	cleanupMetrics(result.Metrics)

	currentDir, err := os.Getwd()
	if err != nil {
		b.Logf("Failed to get current directory: %v", err)
		return
	}
	// benchmarks run from bench/, one level below the repository root
	repoRoot := filepath.Dir(currentDir)
	path := filepath.Join(repoRoot, "benchmark_history", resultsFile)

	if err := benchfmt.AppendResult(path, repoRoot, result); err != nil {
		b.Logf("Failed to save benchmark result to %s: %v", resultsFile, err)
		return
	}
	b.Logf("Benchmark results saved to: %s", path)
}
