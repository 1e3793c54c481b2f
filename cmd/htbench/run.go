package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/theflywheel/keyedhash/internal/benchfmt"
	"github.com/theflywheel/keyedhash/internal/config"
	"github.com/theflywheel/keyedhash/internal/workload"
	"github.com/theflywheel/keyedhash/promstats"
)

type runOptions struct {
	configPath string
	outPath    string
	repoRoot   string
	serveAddr  string
}

func newRunCmd(logger func() *zap.Logger) *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a configured workload and emit a benchmark summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorkload(cmd.Context(), cmd, opts, logger())
		},
	}
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "workload TOML file (defaults when empty)")
	cmd.Flags().StringVarP(&opts.outPath, "out", "o", "", "append the result to this summary file instead of printing it")
	cmd.Flags().StringVar(&opts.repoRoot, "repo", ".", "repository root used for commit and branch info")
	cmd.Flags().StringVar(&opts.serveAddr, "serve", "", "after the run, serve table stats on this address at /metrics until interrupted")
	return cmd
}

func runWorkload(ctx context.Context, cmd *cobra.Command, opts runOptions, log *zap.Logger) error {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return err
		}
	}
	log.Info("starting workload",
		zap.String("name", cfg.Workload.Name),
		zap.String("strategy", cfg.Table.Strategy),
		zap.String("probe", cfg.Table.Probe),
		zap.Int("keys", cfg.Workload.Keys),
		zap.String("key_kind", cfg.Workload.KeyKind))

	tbl, err := workload.Build(cfg, log)
	if err != nil {
		return err
	}
	defer tbl.Destroy()

	keys, err := workload.Keys(cfg.Workload)
	if err != nil {
		return err
	}
	res, err := workload.Run(tbl, keys, cfg.Workload, log)
	if err != nil {
		return err
	}

	if opts.outPath != "" {
		if err := benchfmt.AppendResult(opts.outPath, opts.repoRoot, res); err != nil {
			return err
		}
		log.Info("benchmark result saved", zap.String("path", opts.outPath))
	} else {
		commit, branch := benchfmt.GitInfo(opts.repoRoot)
		s := benchfmt.NewSummary(commit, branch)
		s.Results = append(s.Results, res)
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(s); err != nil {
			return errors.Wrap(err, "encode summary")
		}
	}

	if opts.serveAddr == "" {
		return nil
	}
	reg := prometheus.NewRegistry()
	if err := reg.Register(promstats.NewTableStatsCollector(tbl, cfg.Workload.Name)); err != nil {
		return errors.Wrap(err, "register table collector")
	}
	return serveMetrics(ctx, opts.serveAddr, reg, log)
}

func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry, log *zap.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	log.Info("serving table stats", zap.String("addr", addr))

	select {
	case err := <-errc:
		return errors.Wrap(err, "serve metrics")
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return errors.Wrap(srv.Shutdown(shutdownCtx), "shutdown metrics server")
}
