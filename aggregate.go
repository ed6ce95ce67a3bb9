package crossing

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/anggasct/crossing/pkg/determinism"
)

// Aggregator repeats a simulation with independent random streams and
// averages the results
type Aggregator struct {
	// Runs is the number of repetitions, DefaultRuns when zero
	Runs int
	// Workers bounds how many runs execute at once, 1 when zero
	Workers int
	// BaseSeed derives every run seed; zero seeds from the wall clock
	BaseSeed int64
	// Horizon is the loading-phase length, DefaultHorizon when zero
	Horizon int
	// DrainPolicy is passed to every run
	DrainPolicy DrainPolicy
	// Logger receives run diagnostics; nil discards them
	Logger *slog.Logger
	// Observers returns signal observers for run i; may be nil
	Observers func(i int) []Observer
}

// NewAggregator returns an aggregator with the reference settings
func NewAggregator() *Aggregator {
	return &Aggregator{
		Runs:    DefaultRuns,
		Workers: 1,
		Horizon: DefaultHorizon,
	}
}

// Seeds returns the seed of every run for the given base seed
func (a *Aggregator) Seeds(base int64) []int64 {
	return lo.Times(a.runs(), func(i int) int64 {
		return determinism.RunSeed(base, i)
	})
}

// Run executes all repetitions and returns the totals together with each
// run's statistics in run order. Results do not depend on Workers.
func (a *Aggregator) Run(ctx context.Context, params Params) (*AggregateStats, []RunStats, error) {
	if err := params.ValidateFor(a.DrainPolicy); err != nil {
		return nil, nil, err
	}
	if a.Runs < 0 {
		return nil, nil, NewInvalidArgumentError("runs", strconv.Itoa(a.Runs), "must not be negative")
	}
	if a.Workers < 0 {
		return nil, nil, NewInvalidArgumentError("workers", strconv.Itoa(a.Workers), "must not be negative")
	}

	logger := a.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	base := a.BaseSeed
	if base == 0 {
		base = time.Now().UnixNano()
	}
	seeds := a.Seeds(base)
	results := make([]RunStats, len(seeds))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(lo.Max([]int{a.Workers, 1}))

	for i, seed := range seeds {
		g.Go(func() error {
			opts := []Option{
				WithDrainPolicy(a.DrainPolicy),
				WithLogger(logger.With(slog.Int("index", i))),
			}
			if a.Horizon > 0 {
				opts = append(opts, WithHorizon(a.Horizon))
			}
			if a.Observers != nil {
				for _, observer := range a.Observers(i) {
					opts = append(opts, WithSignalObserver(observer))
				}
			}

			sim, err := NewSimulator(params, seed, opts...)
			if err != nil {
				return err
			}
			stats, err := sim.Run(gctx)
			if err != nil {
				return err
			}
			results[i] = stats
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	total := &AggregateStats{baseSeed: base}
	for _, r := range results {
		total.Add(r)
	}

	logger.Info("aggregate complete",
		slog.Int("runs", total.Runs()),
		slog.Int64("base_seed", base),
		slog.String("drain_policy", a.DrainPolicy.String()))

	return total, results, nil
}

func (a *Aggregator) runs() int {
	if a.Runs == 0 {
		return DefaultRuns
	}
	return a.Runs
}

// Fingerprint hashes the seed and statistics of each run in order. Run IDs
// are excluded, so equal seeds give equal fingerprints.
func Fingerprint(runs []RunStats) uint64 {
	records := lo.Map(runs, func(r RunStats, i int) determinism.Record {
		return determinism.Record{
			Label: "run-" + strconv.Itoa(i),
			Values: []int64{
				r.Seed,
				int64(r.Left.Vehicles), int64(r.Left.TotalWait), int64(r.Left.MaxWait), int64(r.Left.ClearanceTicks),
				int64(r.Right.Vehicles), int64(r.Right.TotalWait), int64(r.Right.MaxWait), int64(r.Right.ClearanceTicks),
				int64(r.Ticks), int64(r.PhaseSwitches),
			},
		}
	})
	return determinism.Fingerprint(records)
}
