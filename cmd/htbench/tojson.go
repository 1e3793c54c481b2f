package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/theflywheel/keyedhash/internal/benchfmt"
)

func newToJSONCmd(logger func() *zap.Logger) *cobra.Command {
	var commit, branch, outPath string
	cmd := &cobra.Command{
		Use:   "tojson <bench-output.txt>",
		Short: "Convert `go test -bench` output into a benchmark summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return errors.Wrapf(err, "open %s", args[0])
			}
			defer f.Close()

			s, err := benchfmt.ParseGoBench(f, commit, branch)
			if err != nil {
				return err
			}
			if outPath == "" {
				outPath = strings.TrimSuffix(args[0], ".txt") + ".json"
			}
			if err := benchfmt.WriteSummary(outPath, s); err != nil {
				return err
			}
			logger().Info("benchmark summary written",
				zap.String("path", outPath),
				zap.Int("results", len(s.Results)))
			return nil
		},
	}
	cmd.Flags().StringVar(&commit, "commit", "unknown", "commit id recorded in the summary")
	cmd.Flags().StringVar(&branch, "branch", "unknown", "branch recorded in the summary")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output path (input path with a .json suffix by default)")
	return cmd
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal json")
	}
	return errors.Wrapf(os.WriteFile(path, data, 0644), "write %s", path)
}
