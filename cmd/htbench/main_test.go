package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/theflywheel/keyedhash/internal/benchfmt"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestRunPrintsSummary(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "w.toml", `
[table]
strategy = "open-addressing"
probe = "quadratic"

[workload]
name = "cli"
keys = 500
key_kind = "string"
erase_ratio = 0.5
`)
	out, err := execute(t, "run", "--config", cfg, "--repo", dir)
	require.NoError(t, err)

	var s benchfmt.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	require.Len(t, s.Results, 1)
	assert.Equal(t, "cli/open-addressing/quadratic", s.Results[0].Name)
	assert.Equal(t, 250.0, s.Results[0].Metrics["entries"])
}

func TestRunAppendsToFile(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "w.toml", "[workload]\nkeys = 200\n")
	out := filepath.Join(dir, "history", "latest.json")

	for i := 0; i < 2; i++ {
		_, err := execute(t, "run", "-c", cfg, "-o", out, "--repo", dir)
		require.NoError(t, err)
	}
	s, err := benchfmt.ReadSummary(out)
	require.NoError(t, err)
	require.Len(t, s.Results, 2)
	assert.Equal(t, "default/chaining", s.Results[1].Name)
}

func TestRunRejectsBadConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "w.toml", "[table]\nstrategy = \"cuckoo\"\n")
	_, err := execute(t, "run", "--config", cfg)
	require.Error(t, err)
}

func TestToJSONAndCompare(t *testing.T) {
	dir := t.TempDir()
	base := writeFile(t, dir, "base.txt", `goos: linux
BenchmarkInsert/chaining-8   1000000   100 ns/op
BenchmarkSearch/chaining-8   1000000    50 ns/op
`)
	head := writeFile(t, dir, "head.txt", `goos: linux
BenchmarkInsert/chaining-8   1000000   160 ns/op
BenchmarkSearch/chaining-8   1000000    50 ns/op
`)

	_, err := execute(t, "tojson", base, "--commit", "base")
	require.NoError(t, err)
	_, err = execute(t, "tojson", head, "--commit", "head", "-o", filepath.Join(dir, "head.json"))
	require.NoError(t, err)

	baseJSON := filepath.Join(dir, "base.json")
	headJSON := filepath.Join(dir, "head.json")

	out, err := execute(t, "compare", baseJSON, baseJSON)
	require.NoError(t, err)
	assert.Contains(t, out, "Regressions: 0")

	report := filepath.Join(dir, "cmp.json")
	out, err = execute(t, "compare", baseJSON, headJSON, "--out", report)
	require.ErrorIs(t, err, errRegression)
	assert.Contains(t, out, "Insert/chaining")
	assert.FileExists(t, report)

	_, err = execute(t, "compare", baseJSON, headJSON, "--threshold", "100")
	require.NoError(t, err)
}

func TestFinishLogsErrors(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	a := &app{log: zap.New(core)}

	require.Equal(t, 0, a.finish(nil))
	require.Equal(t, 0, logs.Len())

	require.Equal(t, 1, a.finish(errors.Wrap(errRegression, "2 benchmarks")))
	entries := logs.FilterMessage("htbench failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Contains(t, entries[0].ContextMap()["error"], "significant performance regressions")
}

func TestFinishWithoutSubcommandLogger(t *testing.T) {
	a := &app{}
	require.Equal(t, 0, a.finish(nil))
	require.Equal(t, 1, a.finish(errors.New("unknown flag: --bogus")))
}
