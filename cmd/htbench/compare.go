package main

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/theflywheel/keyedhash/internal/benchfmt"
)

// errRegression makes the process exit non-zero when a comparison finds a
// significant regression.
var errRegression = errors.New("significant performance regressions detected")

func newCompareCmd(logger func() *zap.Logger) *cobra.Command {
	var threshold float64
	var outPath string
	cmd := &cobra.Command{
		Use:   "compare <base.json> <current.json>",
		Short: "Compare two benchmark summaries",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger()
			base, err := benchfmt.ReadSummary(args[0])
			if err != nil {
				return err
			}
			current, err := benchfmt.ReadSummary(args[1])
			if err != nil {
				return err
			}

			report := benchfmt.Compare(base, current, threshold)
			if err := benchfmt.WriteReport(cmd.OutOrStdout(), report); err != nil {
				return err
			}
			if outPath != "" {
				if err := writeJSON(outPath, report); err != nil {
					return err
				}
				log.Info("comparison written", zap.String("path", outPath))
			}
			if report.HasRegressions() {
				return errors.Wrapf(errRegression, "%d benchmarks", report.RegressionBenchmarks)
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&threshold, "threshold", benchfmt.DefaultThreshold, "percent change treated as significant")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "also write the comparison as JSON to this file")
	return cmd
}
