// Command htbench runs hash table workloads and tracks their performance.
//
//	htbench run --config workload.toml --out benchmark_history/latest.json
//	htbench tojson bench.txt --commit abc123 --branch main
//	htbench compare baseline.json latest.json
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	return cfg.Build()
}

// app holds the state shared by every subcommand.
type app struct {
	verbose bool
	log     *zap.Logger
}

func (a *app) logger() *zap.Logger {
	if a.log == nil {
		return zap.NewNop()
	}
	return a.log
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "htbench",
		Short:         "Run and compare keyedhash workloads",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLogger(a.verbose)
			if err != nil {
				return err
			}
			a.log = l
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log table resizes and debug output")
	root.AddCommand(newRunCmd(a.logger), newCompareCmd(a.logger), newToJSONCmd(a.logger))
	return root
}

// finish logs err, flushes the logger and returns the process exit code.
// Errors raised before a subcommand ran, such as bad flags, get a logger of
// their own.
func (a *app) finish(err error) int {
	log := a.log
	if log == nil {
		if err == nil {
			return 0
		}
		l, lerr := newLogger(a.verbose)
		if lerr != nil {
			fmt.Fprintln(os.Stderr, "htbench:", err)
			return 1
		}
		log = l
	}
	defer func() { _ = log.Sync() }()

	if err != nil {
		log.Error("htbench failed", zap.Error(err))
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	return (&app{}).rootCmd()
}

func main() {
	a := &app{}
	os.Exit(a.finish(a.rootCmd().Execute()))
}
