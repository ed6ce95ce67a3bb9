package observers

import (
	"fmt"
	"sync"

	"github.com/anggasct/crossing"
)

// ValidationObserver checks that the signal alternates phases and that every
// phase lasts exactly its green duration
type ValidationObserver struct {
	crossing.BaseObserver

	greens     map[string]int
	next       map[string]string
	lastSwitch int
	violations []string
	mutex      sync.RWMutex
}

// NewValidationObserver creates an observer for a signal with the given green durations
func NewValidationObserver(leftGreen, rightGreen int) *ValidationObserver {
	left, right := string(crossing.PhaseLeftGreen), string(crossing.PhaseRightGreen)
	return &ValidationObserver{
		greens:     map[string]int{left: leftGreen, right: rightGreen},
		next:       map[string]string{left: right, right: left},
		violations: make([]string, 0),
	}
}

// OnTransition validates the switch target and its spacing from the previous switch
func (o *ValidationObserver) OnTransition(from string, to string, event crossing.Event, ctx crossing.Context) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	if want, ok := o.next[from]; !ok || want != to {
		o.violations = append(o.violations, fmt.Sprintf(
			"Invalid transition from '%s' to '%s' on event '%s'", from, to, eventName(event)))
	}

	tick, ok := eventTick(ctx)
	if !ok {
		o.violations = append(o.violations, fmt.Sprintf("Switch from '%s' carried no tick", from))
		return
	}
	if got, want := tick-o.lastSwitch, o.greens[from]; got != want {
		o.violations = append(o.violations, fmt.Sprintf(
			"Phase '%s' lasted %d ticks, want %d", from, got, want))
	}
	o.lastSwitch = tick
}

// OnError records errors as violations
func (o *ValidationObserver) OnError(err error, ctx crossing.Context) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.violations = append(o.violations, fmt.Sprintf("Error occurred: %v", err))
}

// GetViolations returns all validation violations
func (o *ValidationObserver) GetViolations() []string {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	result := make([]string, len(o.violations))
	copy(result, o.violations)
	return result
}

// HasViolations returns whether any violations occurred
func (o *ValidationObserver) HasViolations() bool {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return len(o.violations) > 0
}

// Reset forgets past switches and violations
func (o *ValidationObserver) Reset() {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.lastSwitch = 0
	o.violations = make([]string, 0)
}
