package crossing

import (
	"errors"
	"fmt"
)

// ErrorCode classifies the errors returned by this package
type ErrorCode int

const (
	ErrCodeNone ErrorCode = iota
	// A guard failed while choosing a transition
	ErrCodeTransitionNotAllowed
	// The event cannot be handled at all, e.g. it has no name
	ErrCodeInvalidEvent
	// The phase machine was used before Start or after Stop
	ErrCodeMachineNotStarted
	// A transition or entry action failed
	ErrCodeActionFailed
	// A machine definition or simulator setup is unusable
	ErrCodeInvalidConfiguration
	// The machine is in the wrong lifecycle state for the call
	ErrCodeInvalidState
	// A simulation parameter or command line argument is malformed
	ErrCodeInvalidArgument
)

var errorCodeNames = map[ErrorCode]string{
	ErrCodeNone:                 "none",
	ErrCodeTransitionNotAllowed: "transition_not_allowed",
	ErrCodeInvalidEvent:         "invalid_event",
	ErrCodeMachineNotStarted:    "machine_not_started",
	ErrCodeActionFailed:         "action_failed",
	ErrCodeInvalidConfiguration: "invalid_configuration",
	ErrCodeInvalidState:         "invalid_state",
	ErrCodeInvalidArgument:      "invalid_argument",
}

func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("ErrorCode(%d)", int(c))
}

// TransitionError reports a transition that could not be evaluated
type TransitionError struct {
	Code   ErrorCode
	From   string
	To     string
	Event  string
	Reason string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("transition error [%s->%s on %s]: %s", e.From, e.To, e.Event, e.Reason)
}

// NewTransitionError creates a transition error
func NewTransitionError(code ErrorCode, from, to, event, reason string) *TransitionError {
	return &TransitionError{Code: code, From: from, To: to, Event: event, Reason: reason}
}

// ConfigurationError reports a component that was assembled incorrectly
type ConfigurationError struct {
	Component string
	Issue     string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Issue)
}

// NewConfigurationError creates a configuration error
func NewConfigurationError(component, issue string) *ConfigurationError {
	return &ConfigurationError{Component: component, Issue: issue}
}

// MachineError reports a lifecycle or event handling failure of a phase machine
type MachineError struct {
	Code      ErrorCode
	Operation string
	Message   string
}

func (e *MachineError) Error() string {
	return fmt.Sprintf("machine error during %s: %s", e.Operation, e.Message)
}

// NewMachineError creates a machine error
func NewMachineError(code ErrorCode, operation, message string) *MachineError {
	return &MachineError{Code: code, Operation: operation, Message: message}
}

// NewMachineNotStartedError is returned for calls that need a running machine
func NewMachineNotStartedError(operation string) *MachineError {
	return NewMachineError(ErrCodeMachineNotStarted, operation, "machine is not started")
}

// ActionError wraps the error of a failed transition or entry action
type ActionError struct {
	Action string
	State  string
	Err    error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s action failed in state '%s': %v", e.Action, e.State, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// NewActionError creates an action error; action is "transition" or "entry"
func NewActionError(action, state string, err error) *ActionError {
	return &ActionError{Action: action, State: state, Err: err}
}

// InvalidArgumentError reports a simulation parameter that cannot be used.
// Argument names the parameter as the user supplied it.
type InvalidArgumentError struct {
	Argument string
	Value    string
	Reason   string
}

func (e *InvalidArgumentError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid argument %s: %s", e.Argument, e.Reason)
	}
	return fmt.Sprintf("invalid argument %s=%q: %s", e.Argument, e.Value, e.Reason)
}

// NewInvalidArgumentError creates an invalid argument error
func NewInvalidArgumentError(argument, value, reason string) *InvalidArgumentError {
	return &InvalidArgumentError{Argument: argument, Value: value, Reason: reason}
}

// IsInvalidArgumentError reports whether err wraps an InvalidArgumentError
func IsInvalidArgumentError(err error) bool {
	var target *InvalidArgumentError
	return errors.As(err, &target)
}

// GetErrorCode returns the code of the first error of this package in err's chain
func GetErrorCode(err error) ErrorCode {
	var (
		transErr   *TransitionError
		machineErr *MachineError
		configErr  *ConfigurationError
		actionErr  *ActionError
		argErr     *InvalidArgumentError
	)
	switch {
	case errors.As(err, &argErr):
		return ErrCodeInvalidArgument
	case errors.As(err, &configErr):
		return ErrCodeInvalidConfiguration
	case errors.As(err, &actionErr):
		return ErrCodeActionFailed
	case errors.As(err, &transErr):
		return transErr.Code
	case errors.As(err, &machineErr):
		return machineErr.Code
	default:
		return ErrCodeNone
	}
}
