// Package benchfmt reads, writes and compares benchmark summaries produced
// by htbench and by the repository benchmarks.
package benchfmt

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// Result represents a single benchmark with its metrics
type Result struct {
	Name     string             `json:"name"`
	Category string             `json:"category,omitempty"` // "standard", "scale", "workload"
	Metrics  map[string]float64 `json:"metrics"`
}

// Summary represents a complete benchmark run
type Summary struct {
	Timestamp string   `json:"timestamp"`
	CommitID  string   `json:"commit_id"`
	Branch    string   `json:"branch"`
	GoVersion string   `json:"go_version"`
	System    string   `json:"system,omitempty"`
	Results   []Result `json:"results"`
}

// NewSummary returns an empty summary stamped with the current time and Go
// version.
func NewSummary(commitID, branch string) Summary {
	return Summary{
		Timestamp: time.Now().Format(time.RFC3339),
		CommitID:  commitID,
		Branch:    branch,
		GoVersion: runtime.Version(),
	}
}

// ReadSummary loads a summary from a JSON file.
func ReadSummary(path string) (Summary, error) {
	var s Summary
	data, err := os.ReadFile(path)
	if err != nil {
		return s, errors.Wrapf(err, "read %s", path)
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return s, errors.Wrapf(err, "parse %s", path)
	}
	return s, nil
}

// WriteSummary writes s as indented JSON, creating parent directories.
func WriteSummary(path string, s Summary) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal summary")
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, "create %s", dir)
		}
	}
	return errors.Wrapf(os.WriteFile(path, data, 0644), "write %s", path)
}

// AppendResult adds r to the summary stored at path, creating the file with
// git info from repoRoot when it does not exist yet.
func AppendResult(path, repoRoot string, r Result) error {
	s, err := ReadSummary(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		commit, branch := GitInfo(repoRoot)
		s = NewSummary(commit, branch)
	}
	s.Results = append(s.Results, r)
	return WriteSummary(path, s)
}

// GitInfo reads the current branch and short commit from repoRoot/.git.
// It falls back to "local" and "dev".
func GitInfo(repoRoot string) (commitID, branch string) {
	commitID, branch = "local", "dev"

	head, err := os.ReadFile(filepath.Join(repoRoot, ".git", "HEAD"))
	if err != nil {
		return commitID, branch
	}
	content := strings.TrimSpace(string(head))
	if !strings.HasPrefix(content, "ref: ") {
		// detached head holds the commit itself
		return shortCommit(content), branch
	}

	ref := strings.TrimPrefix(content, "ref: ")
	branch = strings.TrimPrefix(ref, "refs/heads/")
	if data, err := os.ReadFile(filepath.Join(repoRoot, ".git", ref)); err == nil {
		commitID = shortCommit(strings.TrimSpace(string(data)))
	}
	return commitID, branch
}

func shortCommit(c string) string {
	if len(c) > 8 {
		return c[:8]
	}
	return c
}
