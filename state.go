package crossing

// ActionFunc runs when a transition fires or a state is entered
type ActionFunc func(ctx Context) error

// GuardFunc decides whether a transition may fire
type GuardFunc func(ctx Context) bool

// state is a leaf node of a phase machine
type state struct {
	id    string
	entry ActionFunc
}

// enter runs the entry action, if any
func (s *state) enter(ctx Context) error {
	if s.entry == nil {
		return nil
	}
	return safeExecuteAction(s.entry, ctx)
}

// transition moves the machine from source to target on event when guard passes
type transition struct {
	source string
	target string
	event  string
	guard  GuardFunc
	action ActionFunc
}

// enabled reports whether t fires for event. A panicking guard disables t
// and is returned as a TransitionError.
func (t *transition) enabled(event string, ctx Context) (bool, error) {
	if t.event != event {
		return false, nil
	}
	if t.guard == nil {
		return true, nil
	}
	passed, err := safeEvaluateGuard(t.guard, ctx)
	if err != nil {
		return false, NewTransitionError(ErrCodeTransitionNotAllowed, t.source, t.target, event, err.Error())
	}
	return passed, nil
}
