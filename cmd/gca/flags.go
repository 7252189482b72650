package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"gaussian-ca-simulation/internal/config"
	"gaussian-ca-simulation/internal/logging"
	"gaussian-ca-simulation/internal/metrics"
)

// addSimulationFlags registers the flags shared by sweep and run. Every flag
// only overrides the loaded config when it is set explicitly.
func addSimulationFlags(cmd *cobra.Command) {
	d := config.Default()
	f := cmd.Flags()
	f.Int("grid-size", d.GridSize, "Side length of the square grid")
	f.Int("steps", d.Steps, "Steps per trial")
	f.Int64("seed", d.Seed, "Base random seed")
	f.Int("workers", d.Workers, "Concurrent workers (0 = all CPUs)")
	f.String("init", d.InitPolicy.Kind, "Init policy: uniform, noisy, pattern")
	f.Float64("value", d.InitPolicy.Value, "Cell value of the uniform policy")
	f.Float64("base", d.InitPolicy.Base, "Base value of the noisy policy")
	f.Float64("sigma", d.InitPolicy.Sigma, "Noise std of the noisy policy")
	f.Float64("value-high", d.InitPolicy.ValueHigh, "Scale of the pattern policy template")
	f.String("metrics-addr", "", "Serve Prometheus metrics on this address")
}

// loadConfig reads the config file named by --config, applies environment
// overrides and then any explicitly set flags, and validates the result.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	cmd.Flags().Visit(func(fl *pflag.Flag) {
		f := cmd.Flags()
		switch fl.Name {
		case "grid-size":
			cfg.GridSize, _ = f.GetInt(fl.Name)
		case "steps":
			cfg.Steps, _ = f.GetInt(fl.Name)
		case "trials":
			cfg.Trials, _ = f.GetInt(fl.Name)
		case "seed":
			cfg.Seed, _ = f.GetInt64(fl.Name)
		case "workers":
			cfg.Workers, _ = f.GetInt(fl.Name)
		case "init":
			cfg.InitPolicy.Kind, _ = f.GetString(fl.Name)
		case "value":
			cfg.InitPolicy.Value, _ = f.GetFloat64(fl.Name)
		case "base":
			cfg.InitPolicy.Base, _ = f.GetFloat64(fl.Name)
		case "sigma":
			cfg.InitPolicy.Sigma, _ = f.GetFloat64(fl.Name)
		case "value-high":
			cfg.InitPolicy.ValueHigh, _ = f.GetFloat64(fl.Name)
		case "start":
			cfg.ParameterRange.Start, _ = f.GetFloat64(fl.Name)
		case "stop":
			cfg.ParameterRange.Stop, _ = f.GetFloat64(fl.Name)
		case "count":
			cfg.ParameterRange.Count, _ = f.GetInt(fl.Name)
		case "threshold":
			cfg.Threshold, _ = f.GetFloat64(fl.Name)
		case "frames":
			cfg.Frames, _ = f.GetInt(fl.Name)
		case "metrics-addr":
			cfg.Metrics.Addr, _ = f.GetString(fl.Name)
		case "log-level":
			cfg.Logging.Level, _ = f.GetString(fl.Name)
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	return logging.NewLogger(cfg.Logging.Level, os.Stderr)
}

// serveMetrics starts a /metrics endpoint for rec when addr is non-empty and
// returns a function that shuts it down.
func serveMetrics(addr string, rec *metrics.Recorder, logger *slog.Logger) (func(), error) {
	if addr == "" {
		return func() {}, nil
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", rec.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Info("serving metrics", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
