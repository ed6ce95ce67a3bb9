package crossing

import "context"

// Context is handed to guards, actions and observers. It carries the
// context.Context of the current HandleEvent call and the event being handled.
type Context interface {
	context.Context

	GetCurrentState() string
	GetEventData() any
	GetEventDataAs(target any) bool
}

// machineContext belongs to one machine and is only touched under its lock
type machineContext struct {
	context.Context
	state string
	event Event
}

func newMachineContext() *machineContext {
	return &machineContext{Context: context.Background()}
}

// GetCurrentState returns the state the machine is in
func (c *machineContext) GetCurrentState() string {
	return c.state
}

// GetEventData returns the data of the event being handled, nil outside HandleEvent
func (c *machineContext) GetEventData() any {
	if c.event == nil {
		return nil
	}
	return c.event.GetData()
}

// GetEventDataAs stores the event data in target when target is a *int or
// *string of the data's type
func (c *machineContext) GetEventDataAs(target any) bool {
	switch t := target.(type) {
	case *int:
		return assign(t, c.GetEventData())
	case *string:
		return assign(t, c.GetEventData())
	default:
		return false
	}
}

func assign[T any](target *T, data any) bool {
	v, ok := data.(T)
	if ok {
		*target = v
	}
	return ok
}

// bind attaches the caller's context and event for one HandleEvent call
func (c *machineContext) bind(ctx context.Context, event Event) {
	c.Context = ctx
	c.event = event
}

// release drops the event once it has been handled
func (c *machineContext) release() {
	c.Context = context.Background()
	c.event = nil
}
