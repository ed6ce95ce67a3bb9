package crossing

import (
	"fmt"
)

// MachineBuilder declares the states and transitions of a phase machine
type MachineBuilder interface {
	State(id string) StateBuilder
	Build() (MachineDefinition, error)
}

// StateBuilder configures the state most recently named by State
type StateBuilder interface {
	Initial() StateBuilder
	OnEntry(action ActionFunc) StateBuilder
	To(target string) TransitionBuilder

	State(id string) StateBuilder
	Build() (MachineDefinition, error)
}

// TransitionBuilder configures the transition most recently started by To
type TransitionBuilder interface {
	On(event string) TransitionBuilder
	When(guard GuardFunc) TransitionBuilder
	Do(action ActionFunc) TransitionBuilder

	State(id string) StateBuilder
	Build() (MachineDefinition, error)
}

// MachineDefinition is a validated machine; every instance starts stopped in the initial state
type MachineDefinition interface {
	CreateInstance() Machine
}

type machineBuilder struct {
	initial     string
	states      map[string]*state
	transitions []*transition
}

// NewMachine starts a new machine declaration
func NewMachine() MachineBuilder {
	return &machineBuilder{states: make(map[string]*state)}
}

// State declares id, or reopens it when it was declared before
func (mb *machineBuilder) State(id string) StateBuilder {
	s, exists := mb.states[id]
	if !exists {
		s = &state{id: id}
		mb.states[id] = s
	}
	return &stateBuilder{mb: mb, state: s}
}

// Build validates the declaration. Transitions out of a state keep their
// declaration order, which is the order guards are evaluated in.
func (mb *machineBuilder) Build() (MachineDefinition, error) {
	if err := mb.validate(); err != nil {
		return nil, err
	}

	def := &machineDefinition{
		initial:     mb.initial,
		states:      make(map[string]*state, len(mb.states)),
		transitions: make(map[string][]transition),
	}
	for id, s := range mb.states {
		def.states[id] = s
	}
	for _, t := range mb.transitions {
		def.transitions[t.source] = append(def.transitions[t.source], *t)
	}
	return def, nil
}

func (mb *machineBuilder) validate() error {
	if mb.initial == "" {
		return NewConfigurationError("MachineBuilder", "no initial state defined")
	}
	for _, t := range mb.transitions {
		if _, exists := mb.states[t.target]; !exists {
			return NewConfigurationError("MachineBuilder", fmt.Sprintf("target state '%s' does not exist", t.target))
		}
		if t.event == "" {
			return NewConfigurationError("MachineBuilder", fmt.Sprintf("transition %s->%s has no event", t.source, t.target))
		}
	}
	return nil
}

type stateBuilder struct {
	mb    *machineBuilder
	state *state
}

// Initial makes this the state every instance starts in
func (sb *stateBuilder) Initial() StateBuilder {
	sb.mb.initial = sb.state.id
	return sb
}

// OnEntry runs action every time the state is entered, including on Start
func (sb *stateBuilder) OnEntry(action ActionFunc) StateBuilder {
	sb.state.entry = action
	return sb
}

// To starts a transition from this state to target
func (sb *stateBuilder) To(target string) TransitionBuilder {
	t := &transition{source: sb.state.id, target: target}
	sb.mb.transitions = append(sb.mb.transitions, t)
	return &transitionBuilder{mb: sb.mb, transition: t}
}

func (sb *stateBuilder) State(id string) StateBuilder {
	return sb.mb.State(id)
}

func (sb *stateBuilder) Build() (MachineDefinition, error) {
	return sb.mb.Build()
}

type transitionBuilder struct {
	mb         *machineBuilder
	transition *transition
}

// On names the event that triggers the transition
func (tb *transitionBuilder) On(event string) TransitionBuilder {
	tb.transition.event = event
	return tb
}

// When sets the guard
func (tb *transitionBuilder) When(guard GuardFunc) TransitionBuilder {
	tb.transition.guard = guard
	return tb
}

// Do sets the action that runs before the state changes
func (tb *transitionBuilder) Do(action ActionFunc) TransitionBuilder {
	tb.transition.action = action
	return tb
}

func (tb *transitionBuilder) State(id string) StateBuilder {
	return tb.mb.State(id)
}

func (tb *transitionBuilder) Build() (MachineDefinition, error) {
	return tb.mb.Build()
}

type machineDefinition struct {
	initial     string
	states      map[string]*state
	transitions map[string][]transition
}

// CreateInstance returns a new stopped machine
func (md *machineDefinition) CreateInstance() Machine {
	return &stateMachine{
		definition: md,
		current:    md.initial,
		ctx:        newMachineContext(),
	}
}
