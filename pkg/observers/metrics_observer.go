package observers

import (
	"sync"

	"github.com/anggasct/crossing"
)

// MetricsObserver collects phase statistics in simulated ticks
type MetricsObserver struct {
	crossing.BaseObserver

	phaseVisits      map[string]int
	phaseTicks       map[string]int
	transitionCounts map[string]int
	eventCounts      map[string]int
	rejectedCount    int
	errorCount       int
	lastPhaseEntry   map[string]int
	mutex            sync.RWMutex
}

// NewMetricsObserver creates a new metrics observer
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{
		phaseVisits:      make(map[string]int),
		phaseTicks:       make(map[string]int),
		transitionCounts: make(map[string]int),
		eventCounts:      make(map[string]int),
		lastPhaseEntry:   make(map[string]int),
	}
}

// OnStateEnter records phase entry. Entry without a tick (machine start) counts as tick 0.
func (o *MetricsObserver) OnStateEnter(state string, ctx crossing.Context) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	tick, _ := eventTick(ctx)
	o.phaseVisits[state]++
	o.lastPhaseEntry[state] = tick
}

// OnStateExit adds the ticks spent in the phase being left
func (o *MetricsObserver) OnStateExit(state string, ctx crossing.Context) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	entry, ok := o.lastPhaseEntry[state]
	if !ok {
		return
	}
	if tick, ok := eventTick(ctx); ok {
		o.phaseTicks[state] += tick - entry
	}
	delete(o.lastPhaseEntry, state)
}

// OnTransition records switch counts
func (o *MetricsObserver) OnTransition(from string, to string, event crossing.Event, ctx crossing.Context) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.transitionCounts[from+"->"+to]++
	o.eventCounts[eventName(event)]++
}

// OnEventRejected records events that did not switch the phase
func (o *MetricsObserver) OnEventRejected(event crossing.Event, reason string, ctx crossing.Context) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.rejectedCount++
	o.eventCounts[eventName(event)]++
}

// OnError records error metrics
func (o *MetricsObserver) OnError(err error, ctx crossing.Context) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.errorCount++
}

// GetPhaseVisitCounts returns the number of times each phase was entered
func (o *MetricsObserver) GetPhaseVisitCounts() map[string]int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return copyCounts(o.phaseVisits)
}

// GetPhaseTicks returns the completed ticks spent in each phase
func (o *MetricsObserver) GetPhaseTicks() map[string]int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return copyCounts(o.phaseTicks)
}

// GetEventCounts returns the number of times each event was handled
func (o *MetricsObserver) GetEventCounts() map[string]int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return copyCounts(o.eventCounts)
}

// GetTransitionCounts returns the number of times each switch occurred
func (o *MetricsObserver) GetTransitionCounts() map[string]int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return copyCounts(o.transitionCounts)
}

// GetRejectedCount returns the number of events that did not switch the phase
func (o *MetricsObserver) GetRejectedCount() int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return o.rejectedCount
}

// GetErrorCount returns the number of errors
func (o *MetricsObserver) GetErrorCount() int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return o.errorCount
}

// Reset resets all metrics
func (o *MetricsObserver) Reset() {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.phaseVisits = make(map[string]int)
	o.phaseTicks = make(map[string]int)
	o.transitionCounts = make(map[string]int)
	o.eventCounts = make(map[string]int)
	o.lastPhaseEntry = make(map[string]int)
	o.rejectedCount = 0
	o.errorCount = 0
}

func copyCounts(in map[string]int) map[string]int {
	result := make(map[string]int, len(in))
	for k, v := range in {
		result[k] = v
	}
	return result
}
