package crossing

import (
	"context"
	"fmt"
	"strconv"
)

// Approach identifies one of the two opposing queues
type Approach int

const (
	// ApproachNone marks the absence of an approach, e.g. a tick without departure
	ApproachNone Approach = iota
	ApproachLeft
	ApproachRight
)

func (a Approach) String() string {
	switch a {
	case ApproachLeft:
		return "left"
	case ApproachRight:
		return "right"
	default:
		return "none"
	}
}

// Phase is the signal state; its value doubles as the phase machine state ID
type Phase string

const (
	PhaseLeftGreen  Phase = "left_green"
	PhaseRightGreen Phase = "right_green"
)

// Green returns the approach that may move during the phase
func (p Phase) Green() Approach {
	switch p {
	case PhaseLeftGreen:
		return ApproachLeft
	case PhaseRightGreen:
		return ApproachRight
	default:
		return ApproachNone
	}
}

// EventTick is the event fed to the phase machine once per simulated tick.
// Its data is the tick number as an int.
const EventTick = "tick"

// SignalController alternates right of way between the two approaches.
// Left is green first; a phase ends on the tick where the time since the
// last switch equals that phase's green duration.
type SignalController struct {
	leftGreen  int
	rightGreen int
	lastSwitch int
	switches   int
	machine    Machine
}

// NewSignalController builds and starts the two-phase machine.
// Both durations must be at least one tick.
func NewSignalController(leftGreen, rightGreen int, observers ...Observer) (*SignalController, error) {
	if leftGreen < 1 {
		return nil, NewInvalidArgumentError("leftGreenDuration", strconv.Itoa(leftGreen), "must be at least 1 tick")
	}
	if rightGreen < 1 {
		return nil, NewInvalidArgumentError("rightGreenDuration", strconv.Itoa(rightGreen), "must be at least 1 tick")
	}

	sc := &SignalController{
		leftGreen:  leftGreen,
		rightGreen: rightGreen,
	}

	definition, err := NewMachine().
		State(string(PhaseLeftGreen)).Initial().OnEntry(sc.markPhaseStart).
		To(string(PhaseRightGreen)).On(EventTick).When(sc.greenElapsed(leftGreen)).Do(sc.countSwitch).
		State(string(PhaseRightGreen)).OnEntry(sc.markPhaseStart).
		To(string(PhaseLeftGreen)).On(EventTick).When(sc.greenElapsed(rightGreen)).Do(sc.countSwitch).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build signal: %w", err)
	}

	sc.machine = definition.CreateInstance()
	for _, observer := range observers {
		sc.machine.AddObserver(observer)
	}
	if err := sc.machine.Start(); err != nil {
		return nil, fmt.Errorf("start signal: %w", err)
	}
	return sc, nil
}

func (sc *SignalController) greenElapsed(green int) GuardFunc {
	return func(ctx Context) bool {
		var tick int
		if !ctx.GetEventDataAs(&tick) {
			return false
		}
		return tick == sc.lastSwitch+green
	}
}

func (sc *SignalController) countSwitch(ctx Context) error {
	sc.switches++
	return nil
}

// markPhaseStart stamps the tick a phase began. The initial phase is entered
// on Start without a tick and keeps lastSwitch at 0.
func (sc *SignalController) markPhaseStart(ctx Context) error {
	if ctx.GetEventData() == nil {
		return nil
	}
	var tick int
	if !ctx.GetEventDataAs(&tick) {
		return fmt.Errorf("tick event carries %T, want int", ctx.GetEventData())
	}
	sc.lastSwitch = tick
	return nil
}

// Advance feeds tick to the controller and reports whether the phase switched on it
func (sc *SignalController) Advance(ctx context.Context, tick int) (bool, error) {
	result := sc.machine.HandleEvent(ctx, EventTick, tick)
	if result.Error != nil {
		return false, fmt.Errorf("signal tick %d: %w", tick, result.Error)
	}
	return result.StateChanged, nil
}

// Phase returns the current phase
func (sc *SignalController) Phase() Phase {
	return Phase(sc.machine.CurrentState())
}

// Green reports whether approach a currently has right of way
func (sc *SignalController) Green(a Approach) bool {
	return sc.Phase().Green() == a
}

// LastSwitch returns the tick of the most recent phase switch, 0 before the first
func (sc *SignalController) LastSwitch() int {
	return sc.lastSwitch
}

// Switches returns how many phase switches have happened
func (sc *SignalController) Switches() int {
	return sc.switches
}

// Close stops the phase machine; observers receive the stop notification
func (sc *SignalController) Close() error {
	return sc.machine.Stop()
}
