package main

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/anggasct/crossing"
	"github.com/anggasct/crossing/internal/config"
	"github.com/anggasct/crossing/internal/logger"
	"github.com/anggasct/crossing/pkg/observers"
	"github.com/anggasct/crossing/pkg/report"
)

const usage = "crossing LEFT_RATE RIGHT_RATE LEFT_GREEN RIGHT_GREEN"

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   usage,
		Short: "Simulate a two-approach traffic light and average the queue statistics",
		Long: `Simulates a single-lane crossing controlled by a two-phase signal.
Each run loads both queues for the horizon, then drains them without
arrivals. The averaged vehicles, waiting times and clearance times of all
runs are reported per approach.`,
		Args:          exactArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(cmd, args, stdout, stderr)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return crossing.NewInvalidArgumentError("flags", "", err.Error())
	})
	config.RegisterFlags(cmd.Flags())
	return cmd
}

func exactArgs(_ *cobra.Command, args []string) error {
	if len(args) != 4 {
		return crossing.NewInvalidArgumentError("arguments", strconv.Itoa(len(args)), "usage: "+usage)
	}
	return nil
}

// parseParams converts the positional arguments and validates the result
func parseParams(args []string) (crossing.Params, error) {
	leftRate, err := parseRate("leftRate", args[0])
	if err != nil {
		return crossing.Params{}, err
	}
	rightRate, err := parseRate("rightRate", args[1])
	if err != nil {
		return crossing.Params{}, err
	}
	leftGreen, err := parseGreen("leftGreenDuration", args[2])
	if err != nil {
		return crossing.Params{}, err
	}
	rightGreen, err := parseGreen("rightGreenDuration", args[3])
	if err != nil {
		return crossing.Params{}, err
	}

	params := crossing.Params{
		LeftRate:   leftRate,
		RightRate:  rightRate,
		LeftGreen:  leftGreen,
		RightGreen: rightGreen,
	}
	return params, params.Validate()
}

func parseRate(name, raw string) (float64, error) {
	rate, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, crossing.NewInvalidArgumentError(name, raw, "not a number")
	}
	return rate, nil
}

func parseGreen(name, raw string) (int, error) {
	green, err := strconv.Atoi(raw)
	if err != nil {
		return 0, crossing.NewInvalidArgumentError(name, raw, "not an integer")
	}
	return green, nil
}

func validateConfig(cfg *config.Config) error {
	if cfg.Runs < 1 {
		return crossing.NewInvalidArgumentError("runs", strconv.Itoa(cfg.Runs), "must be at least 1")
	}
	if cfg.Workers < 1 {
		return crossing.NewInvalidArgumentError("workers", strconv.Itoa(cfg.Workers), "must be at least 1")
	}
	if cfg.Horizon < 1 {
		return crossing.NewInvalidArgumentError("horizon", strconv.Itoa(cfg.Horizon), "must be at least 1")
	}
	return nil
}

func runSimulation(cmd *cobra.Command, args []string, stdout, stderr io.Writer) error {
	params, err := parseParams(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}
	log, err := logger.New(stderr, cfg.LogLevel)
	if err != nil {
		return crossing.NewInvalidArgumentError("log-level", cfg.LogLevel, err.Error())
	}
	slog.SetDefault(log)

	policy, err := crossing.ParseDrainPolicy(cfg.DrainPolicy)
	if err != nil {
		return err
	}
	if err := params.ValidateFor(policy); err != nil {
		return err
	}
	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	metrics := lo.Times(cfg.Runs, func(int) *observers.MetricsObserver {
		return observers.NewMetricsObserver()
	})
	agg := &crossing.Aggregator{
		Runs:        cfg.Runs,
		Workers:     cfg.Workers,
		BaseSeed:    cfg.Seed,
		Horizon:     cfg.Horizon,
		DrainPolicy: policy,
		Logger:      log,
		Observers: func(i int) []crossing.Observer {
			return []crossing.Observer{
				metrics[i],
				observers.NewLoggingObserver(log.With(slog.Int("index", i)), "signal"),
			}
		},
	}

	total, runs, err := agg.Run(cmd.Context(), params)
	if err != nil {
		return fmt.Errorf("simulate: %w", err)
	}
	logPhaseMetrics(log, metrics)

	return report.Write(stdout, format, report.New(params, policy, total, runs, cfg.PerRun))
}

// logPhaseMetrics sums the per-run phase metrics into one log record
func logPhaseMetrics(log *slog.Logger, metrics []*observers.MetricsObserver) {
	ticks := map[string]int{}
	switches := 0
	for _, m := range metrics {
		for phase, n := range m.GetPhaseTicks() {
			ticks[phase] += n
		}
		switches += lo.Sum(lo.Values(m.GetTransitionCounts()))
	}
	log.Info("phase metrics",
		slog.Int("switches", switches),
		slog.Int(string(crossing.PhaseLeftGreen)+"_ticks", ticks[string(crossing.PhaseLeftGreen)]),
		slog.Int(string(crossing.PhaseRightGreen)+"_ticks", ticks[string(crossing.PhaseRightGreen)]))
}
