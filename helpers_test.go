package crossing

import (
	"sync"
	"testing"
)

// TestObserver records every observer callback
type TestObserver struct {
	mutex        sync.RWMutex
	Transitions  []TransitionEvent
	StateEnters  []StateEvent
	StateExits   []StateEvent
	EventRejects []EventRejectEvent
	Errors       []ErrorEvent
	Started      []ContextEvent
	Stopped      []ContextEvent
}

type TransitionEvent struct {
	From  string
	To    string
	Event Event
	Ctx   Context
}

type StateEvent struct {
	State string
	Ctx   Context
}

type EventRejectEvent struct {
	Event  Event
	Reason string
	Ctx    Context
}

type ErrorEvent struct {
	Error error
	Ctx   Context
}

type ContextEvent struct {
	Ctx Context
}

func NewTestObserver() *TestObserver {
	return &TestObserver{}
}

func (o *TestObserver) OnTransition(from string, to string, event Event, ctx Context) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Transitions = append(o.Transitions, TransitionEvent{From: from, To: to, Event: event, Ctx: ctx})
}

func (o *TestObserver) OnStateEnter(state string, ctx Context) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.StateEnters = append(o.StateEnters, StateEvent{State: state, Ctx: ctx})
}

func (o *TestObserver) OnStateExit(state string, ctx Context) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.StateExits = append(o.StateExits, StateEvent{State: state, Ctx: ctx})
}

func (o *TestObserver) OnEventRejected(event Event, reason string, ctx Context) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.EventRejects = append(o.EventRejects, EventRejectEvent{Event: event, Reason: reason, Ctx: ctx})
}

func (o *TestObserver) OnError(err error, ctx Context) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Errors = append(o.Errors, ErrorEvent{Error: err, Ctx: ctx})
}

func (o *TestObserver) OnMachineStarted(ctx Context) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Started = append(o.Started, ContextEvent{Ctx: ctx})
}

func (o *TestObserver) OnMachineStopped(ctx Context) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Stopped = append(o.Stopped, ContextEvent{Ctx: ctx})
}

func (o *TestObserver) TransitionCount() int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return len(o.Transitions)
}

func (o *TestObserver) StateEnterCount() int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return len(o.StateEnters)
}

func (o *TestObserver) StateExitCount() int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return len(o.StateExits)
}

func (o *TestObserver) LastTransition() *TransitionEvent {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	if len(o.Transitions) == 0 {
		return nil
	}
	return &o.Transitions[len(o.Transitions)-1]
}

type buildable interface {
	Build() (MachineDefinition, error)
}

// newInstance builds b and returns a stopped instance
func newInstance(t *testing.T, b buildable) Machine {
	t.Helper()
	definition, err := b.Build()
	if err != nil {
		t.Fatalf("Failed to build machine: %v", err)
	}
	return definition.CreateInstance()
}

// CreateSimpleMachine returns a stopped red/green machine: red -go-> green -halt-> red
func CreateSimpleMachine(t *testing.T) Machine {
	t.Helper()
	return newInstance(t, NewMachine().
		State("red").Initial().
		To("green").On("go").
		State("green").
		To("red").On("halt"))
}

func AssertState(t *testing.T, machine Machine, expectedState string) {
	t.Helper()
	if actual := machine.CurrentState(); actual != expectedState {
		t.Errorf("Expected state '%s', got '%s'", expectedState, actual)
	}
}

func AssertStateChanged(t *testing.T, result *EventResult, expectedPrevious, expectedCurrent string) {
	t.Helper()
	if !result.StateChanged {
		t.Error("Expected state to change")
	}
	if result.PreviousState != expectedPrevious {
		t.Errorf("Expected previous state '%s', got '%s'", expectedPrevious, result.PreviousState)
	}
	if result.CurrentState != expectedCurrent {
		t.Errorf("Expected current state '%s', got '%s'", expectedCurrent, result.CurrentState)
	}
}

func AssertEventProcessed(t *testing.T, result *EventResult, shouldProcess bool) {
	t.Helper()
	if result.Processed != shouldProcess {
		t.Errorf("Expected event processed=%v, got %v (reason: %q, error: %v)",
			shouldProcess, result.Processed, result.RejectionReason, result.Error)
	}
}

func AssertObserverCalled(t *testing.T, observer *TestObserver, transitions, enters, exits int) {
	t.Helper()
	if got := observer.TransitionCount(); got != transitions {
		t.Errorf("Expected %d transitions, got %d", transitions, got)
	}
	if got := observer.StateEnterCount(); got != enters {
		t.Errorf("Expected %d state enters, got %d", enters, got)
	}
	if got := observer.StateExitCount(); got != exits {
		t.Errorf("Expected %d state exits, got %d", exits, got)
	}
}

// scriptedSource replays values in order, then returns fallback forever
type scriptedSource struct {
	values   []float64
	next     int
	fallback float64
}

func (s *scriptedSource) Float64() float64 {
	if s.next < len(s.values) {
		v := s.values[s.next]
		s.next++
		return v
	}
	return s.fallback
}

// constSource always returns the same draw
type constSource float64

func (c constSource) Float64() float64 {
	return float64(c)
}
