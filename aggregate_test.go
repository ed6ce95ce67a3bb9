package crossing

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anggasct/crossing/pkg/determinism"
)

var aggregateParams = Params{LeftRate: 0.5, RightRate: 0.4, LeftGreen: 5, RightGreen: 4}

func TestAggregator_MeanOfRuns(t *testing.T) {
	agg := &Aggregator{Runs: 6, Workers: 2, BaseSeed: 17}

	total, runs, err := agg.Run(context.Background(), aggregateParams)
	require.NoError(t, err)
	require.Len(t, runs, 6)

	var vehicles, clearance int
	var avgWait float64
	for _, r := range runs {
		vehicles += r.Left.Vehicles
		clearance += r.Right.ClearanceTicks
		avgWait += r.Left.AverageWait()
	}

	mean := total.Mean()
	assert.Equal(t, 6, mean.Runs)
	assert.InDelta(t, float64(vehicles)/6, mean.Left.Vehicles, 1e-9)
	assert.InDelta(t, float64(clearance)/6, mean.Right.ClearanceTicks, 1e-9)
	assert.InDelta(t, avgWait/6, mean.Left.AverageWait, 1e-9)
	assert.Equal(t, int64(17), total.BaseSeed())
}

func TestAggregator_IndependentOfWorkers(t *testing.T) {
	serial := &Aggregator{Runs: 16, Workers: 1, BaseSeed: 5}
	parallel := &Aggregator{Runs: 16, Workers: 8, BaseSeed: 5}

	totalA, runsA, err := serial.Run(context.Background(), aggregateParams)
	require.NoError(t, err)
	totalB, runsB, err := parallel.Run(context.Background(), aggregateParams)
	require.NoError(t, err)

	assert.Equal(t, totalA.Mean(), totalB.Mean())
	assert.Equal(t, Fingerprint(runsA), Fingerprint(runsB))
	for i := range runsA {
		assert.Equal(t, runsA[i].Seed, runsB[i].Seed)
		assert.Equal(t, runsA[i].Left, runsB[i].Left)
		assert.Equal(t, runsA[i].Right, runsB[i].Right)
	}
}

func TestAggregator_Seeds(t *testing.T) {
	agg := &Aggregator{Runs: 4}
	seeds := agg.Seeds(9)

	require.Len(t, seeds, 4)
	for i, s := range seeds {
		assert.Equal(t, determinism.RunSeed(9, i), s)
	}

	_, runs, err := agg.Run(context.Background(), aggregateParams)
	require.NoError(t, err)
	assert.NotEqual(t, runs[0].Seed, runs[1].Seed)
}

func TestAggregator_Defaults(t *testing.T) {
	agg := NewAggregator()
	assert.Equal(t, DefaultRuns, agg.Runs)
	assert.Equal(t, DefaultHorizon, agg.Horizon)

	total, runs, err := (&Aggregator{}).Run(context.Background(), aggregateParams)
	require.NoError(t, err)
	assert.Len(t, runs, DefaultRuns)
	assert.NotZero(t, total.BaseSeed(), "zero base seed is replaced by the clock")
}

func TestAggregator_HorizonAndObservers(t *testing.T) {
	var calls atomic.Int32
	agg := &Aggregator{
		Runs:     3,
		Workers:  3,
		BaseSeed: 1,
		Horizon:  50,
		Observers: func(i int) []Observer {
			calls.Add(1)
			return []Observer{NewTestObserver()}
		},
	}

	_, runs, err := agg.Run(context.Background(), Params{LeftRate: 0, RightRate: 0, LeftGreen: 5, RightGreen: 5})
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
	for _, r := range runs {
		assert.Equal(t, 50, r.Ticks)
	}
}

func TestAggregator_Errors(t *testing.T) {
	_, _, err := (&Aggregator{Runs: 2}).Run(context.Background(), Params{LeftRate: 0.5, RightRate: 0.5, LeftGreen: 0, RightGreen: 5})
	assert.True(t, IsInvalidArgumentError(err))

	_, _, err = (&Aggregator{Runs: -1}).Run(context.Background(), aggregateParams)
	assert.True(t, IsInvalidArgumentError(err))

	_, _, err = (&Aggregator{Workers: -2}).Run(context.Background(), aggregateParams)
	assert.True(t, IsInvalidArgumentError(err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = (&Aggregator{Runs: 3, BaseSeed: 1}).Run(ctx, aggregateParams)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFingerprint(t *testing.T) {
	runs := []RunStats{{RunID: "x", Seed: 1, Ticks: 501}, {RunID: "y", Seed: 2, Ticks: 502}}
	renamed := []RunStats{{RunID: "p", Seed: 1, Ticks: 501}, {RunID: "q", Seed: 2, Ticks: 502}}

	assert.Equal(t, Fingerprint(runs), Fingerprint(renamed))
	assert.NotEqual(t, Fingerprint(runs), Fingerprint([]RunStats{runs[1], runs[0]}))
}
