package crossing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anggasct/crossing"
	"github.com/anggasct/crossing/pkg/observers"
)

func TestSimulatorPhaseTiming(t *testing.T) {
	params := crossing.Params{LeftRate: 0.7, RightRate: 0.7, LeftGreen: 3, RightGreen: 7}
	validator := observers.NewValidationObserver(params.LeftGreen, params.RightGreen)
	metrics := observers.NewMetricsObserver()

	sim, err := crossing.NewSimulator(params, 2024,
		crossing.WithSignalObserver(validator),
		crossing.WithSignalObserver(metrics))
	require.NoError(t, err)

	stats, err := sim.Run(context.Background())
	require.NoError(t, err)

	assert.False(t, validator.HasViolations(), "violations: %v", validator.GetViolations())

	transitions := metrics.GetTransitionCounts()
	total := transitions["left_green->right_green"] + transitions["right_green->left_green"]
	assert.Equal(t, stats.PhaseSwitches, total)
	assert.Equal(t, stats.Ticks, metrics.GetEventCounts()[crossing.EventTick])
}
