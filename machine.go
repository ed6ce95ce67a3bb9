package crossing

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Machine is a running instance of a MachineDefinition
type Machine interface {
	Start() error
	Stop() error
	CurrentState() string

	// HandleEvent fires the first transition out of the current state whose
	// event matches and whose guard passes. ctx is visible to guards, actions
	// and observers through Context.
	HandleEvent(ctx context.Context, eventName string, eventData any) *EventResult

	AddObserver(observer Observer)
}

// stateMachine serializes all calls; observers run under its lock
type stateMachine struct {
	definition *machineDefinition
	current    string
	running    bool
	ctx        *machineContext
	observers  observerList
	mutex      sync.RWMutex
}

func safeEvaluateGuard(guard GuardFunc, ctx Context) (result bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = false
			err = fmt.Errorf("guard panic: %v", r)
		}
	}()
	return guard(ctx), nil
}

func safeExecuteAction(action ActionFunc, ctx Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("action panic: %v", r)
		}
	}()
	return action(ctx)
}

// Start enters the initial state. A stopped machine may be started again.
// When the entry action fails the machine is still started and the error is returned.
func (sm *stateMachine) Start() error {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()

	if sm.running {
		return NewMachineError(ErrCodeInvalidState, "Start", "machine is already started")
	}

	sm.running = true
	sm.setCurrent(sm.definition.initial)
	err := sm.enter(sm.current)
	sm.observers.stateEntered(sm.current, sm.ctx)
	sm.observers.started(sm.ctx)
	return err
}

// Stop leaves the current state and rejects further events until the next Start
func (sm *stateMachine) Stop() error {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()

	if !sm.running {
		return NewMachineNotStartedError("Stop")
	}

	sm.observers.stateExited(sm.current, sm.ctx)
	sm.observers.stopped(sm.ctx)
	sm.running = false
	return nil
}

// CurrentState returns the current state ID
func (sm *stateMachine) CurrentState() string {
	sm.mutex.RLock()
	defer sm.mutex.RUnlock()
	return sm.current
}

func (sm *stateMachine) HandleEvent(ctx context.Context, eventName string, eventData any) *EventResult {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()

	result := stay(sm.current)
	if !sm.running {
		result.RejectionReason = "machine is not started"
		result.Error = NewMachineNotStartedError("HandleEvent")
		return result
	}
	if err := ctx.Err(); err != nil {
		result.RejectionReason = "context done"
		result.Error = err
		return result
	}

	event := NewEvent(eventName, eventData)
	sm.ctx.bind(ctx, event)
	defer sm.ctx.release()

	if strings.TrimSpace(eventName) == "" {
		result.RejectionReason = "event name cannot be empty"
		result.Error = NewMachineError(ErrCodeInvalidEvent, "HandleEvent", result.RejectionReason)
		sm.observers.rejected(event, result.RejectionReason, sm.ctx)
		return result
	}

	t, err := sm.match(eventName)
	if err != nil {
		sm.observers.failed(err, sm.ctx)
		result.Error = err
		return result
	}
	if t == nil {
		result.RejectionReason = fmt.Sprintf("no transition for event '%s' in state '%s'", eventName, sm.current)
		sm.observers.rejected(event, result.RejectionReason, sm.ctx)
		return result
	}

	// The action runs before anything changes; its failure aborts the transition.
	if t.action != nil {
		if err := safeExecuteAction(t.action, sm.ctx); err != nil {
			actionErr := NewActionError("transition", t.source, err)
			sm.observers.rejected(event, actionErr.Error(), sm.ctx)
			sm.observers.failed(actionErr, sm.ctx)
			result.Error = actionErr
			return result
		}
	}

	sm.setCurrent(t.target)
	result.Processed = true
	result.StateChanged = true
	result.CurrentState = t.target
	result.Error = sm.enter(t.target)

	sm.observers.stateExited(t.source, sm.ctx)
	sm.observers.transitioned(t.source, t.target, event, sm.ctx)
	sm.observers.stateEntered(t.target, sm.ctx)
	return result
}

// match returns the first enabled transition, nil when none is. A panicking
// guard is reported only when no later transition is enabled.
func (sm *stateMachine) match(eventName string) (*transition, error) {
	var guardErr error
	candidates := sm.definition.transitions[sm.current]
	for i := range candidates {
		ok, err := candidates[i].enabled(eventName, sm.ctx)
		if err != nil {
			guardErr = err
			continue
		}
		if ok {
			return &candidates[i], nil
		}
	}
	return nil, guardErr
}

// enter runs the entry action of id. The state is entered even when the
// action fails; the failure is reported to observers and returned.
func (sm *stateMachine) enter(id string) error {
	s, exists := sm.definition.states[id]
	if !exists {
		return nil
	}
	if err := s.enter(sm.ctx); err != nil {
		actionErr := NewActionError("entry", id, err)
		sm.observers.failed(actionErr, sm.ctx)
		return actionErr
	}
	return nil
}

func (sm *stateMachine) setCurrent(id string) {
	sm.current = id
	sm.ctx.state = id
}

// AddObserver registers observer for all later notifications
func (sm *stateMachine) AddObserver(observer Observer) {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()
	sm.observers = append(sm.observers, observer)
}
