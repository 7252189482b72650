package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"gaussian-ca-simulation/internal/config"
	"gaussian-ca-simulation/internal/metrics"
	"gaussian-ca-simulation/internal/sweep"
)

func newSweepCmd() *cobra.Command {
	d := config.Default()
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Sweep the threshold and report mean/std of final occupancy",
		Long: `Sweep runs n_trials independent trials for every threshold in the
configured range and prints, in order, the mean and population standard
deviation of the trials' final grid means.

Interrupting the sweep keeps the points completed so far.

Examples:
  gca sweep                                     # automated experiment defaults
  gca sweep --start 0.04 --stop 0.05 --count 10
  gca sweep --init uniform --value 0.8 --trials 40 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			jsonOut, _ := cmd.Flags().GetBool("json")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runSweep(ctx, cfg, cmd.OutOrStdout(), jsonOut)
		},
	}

	addSimulationFlags(cmd)
	cmd.Flags().Int("trials", d.Trials, "Independent trials per threshold")
	cmd.Flags().Float64("start", d.ParameterRange.Start, "First threshold of the range")
	cmd.Flags().Float64("stop", d.ParameterRange.Stop, "Last threshold of the range")
	cmd.Flags().Int("count", d.ParameterRange.Count, "Number of thresholds in the range")

	return cmd
}

func runSweep(ctx context.Context, cfg *config.Config, out io.Writer, jsonOut bool) error {
	sc, err := cfg.SweepConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	rec := metrics.NewRecorder()
	shutdown, err := serveMetrics(cfg.Metrics.Addr, rec, logger)
	if err != nil {
		return fmt.Errorf("starting metrics server: %w", err)
	}
	defer shutdown()

	opts := []sweep.Option{sweep.WithLogger(logger), sweep.WithObserver(rec)}
	if !jsonOut {
		opts = append(opts, sweep.WithObserver(&tablePrinter{w: out}))
	}
	s, err := sweep.NewSweeper(sc, opts...)
	if err != nil {
		return err
	}

	start := time.Now()
	points, runErr := s.Run(ctx)

	if jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(points); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(out, "\n%d/%d points complete in %v.\n", len(points), len(sc.Params), time.Since(start).Round(time.Millisecond))
	}

	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			return fmt.Errorf("sweep interrupted after %d of %d points", len(points), len(sc.Params))
		}
		return runErr
	}
	return nil
}

// tablePrinter writes one row per sweep point as the points are published.
type tablePrinter struct {
	w       io.Writer
	printed bool
}

func (p *tablePrinter) TrialDone(float64, int, float64, time.Duration) {}

func (p *tablePrinter) PointDone(_ int, pt sweep.Point) {
	if !p.printed {
		fmt.Fprintf(p.w, "%-10s | %-14s | %-14s | %s\n", "x", "Mean(means)", "Std(means)", "Trials")
		fmt.Fprintln(p.w, "--------------------------------------------------------")
		p.printed = true
	}
	fmt.Fprintf(p.w, "%-10.5f | %-14.6f | %-14.6f | %d\n", pt.Param, pt.MeanOfMeans, pt.StdOfMeans, pt.Trials)
}
