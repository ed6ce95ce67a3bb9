package observers

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anggasct/crossing"
)

// driveSignal advances a 3/2 signal through ticks 0..10.
// Switches land on ticks 3, 5, 8 and 10.
func driveSignal(t *testing.T, observers ...crossing.Observer) *crossing.SignalController {
	t.Helper()
	sc, err := crossing.NewSignalController(3, 2, observers...)
	require.NoError(t, err)
	for tick := 0; tick <= 10; tick++ {
		_, err := sc.Advance(context.Background(), tick)
		require.NoError(t, err)
	}
	return sc
}

func TestMetricsObserver(t *testing.T) {
	metrics := NewMetricsObserver()
	sc := driveSignal(t, metrics)
	require.Equal(t, 4, sc.Switches())

	assert.Equal(t, map[string]int{"left_green": 3, "right_green": 2}, metrics.GetPhaseVisitCounts())
	assert.Equal(t, map[string]int{"left_green": 6, "right_green": 4}, metrics.GetPhaseTicks())
	assert.Equal(t, map[string]int{
		"left_green->right_green": 2,
		"right_green->left_green": 2,
	}, metrics.GetTransitionCounts())
	assert.Equal(t, 11, metrics.GetEventCounts()["tick"])
	assert.Equal(t, 7, metrics.GetRejectedCount())
	assert.Equal(t, 0, metrics.GetErrorCount())

	metrics.OnError(errors.New("boom"), nil)
	assert.Equal(t, 1, metrics.GetErrorCount())

	metrics.Reset()
	assert.Empty(t, metrics.GetPhaseVisitCounts())
	assert.Zero(t, metrics.GetRejectedCount())
	assert.Zero(t, metrics.GetErrorCount())
}

func TestValidationObserver(t *testing.T) {
	t.Run("matching durations", func(t *testing.T) {
		validator := NewValidationObserver(3, 2)
		driveSignal(t, validator)
		assert.False(t, validator.HasViolations(), "violations: %v", validator.GetViolations())
	})

	t.Run("wrong duration", func(t *testing.T) {
		validator := NewValidationObserver(4, 2)
		driveSignal(t, validator)
		require.True(t, validator.HasViolations())
		assert.Contains(t, validator.GetViolations()[0], "Phase 'left_green' lasted 3 ticks, want 4")

		validator.Reset()
		assert.False(t, validator.HasViolations())
	})

	t.Run("errors are violations", func(t *testing.T) {
		validator := NewValidationObserver(1, 1)
		validator.OnError(errors.New("boom"), nil)
		assert.Equal(t, []string{"Error occurred: boom"}, validator.GetViolations())
	})
}

func TestLoggingObserver(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	sc := driveSignal(t, NewLoggingObserver(logger, "signal"))
	require.NoError(t, sc.Close())

	out := buf.String()
	assert.Contains(t, out, "phase machine started")
	assert.Contains(t, out, `msg="phase switch" from=left_green to=right_green event=tick tick=3 machine=signal`)
	assert.Contains(t, out, "phase machine stopped")
	assert.NotContains(t, out, "event rejected")
}

func TestLoggingObserverLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	observer := NewLoggingObserver(logger, "")
	driveSignal(t, observer)
	assert.Empty(t, buf.String())

	observer.OnError(crossing.NewInvalidArgumentError("leftRate", "2", "must be a probability in [0,1]"), nil)
	assert.Contains(t, buf.String(), "code=invalid_argument")
	assert.Contains(t, buf.String(), `leftRate=\"2\"`)
	assert.NotContains(t, buf.String(), "machine=")
}

func TestDefaultLoggingObserver(t *testing.T) {
	observer := NewDefaultLoggingObserver()
	assert.Equal(t, "signal", observer.prefix)

	var buf bytes.Buffer
	observer.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	observer.OnTransition("left_green", "right_green", nil, nil)
	assert.Contains(t, buf.String(), "tick=-1")
}
