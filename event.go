package crossing

// Event is a named trigger handled by a phase machine. The signal controller
// sends EventTick with the tick number as data.
type Event interface {
	GetName() string
	GetData() any
}

type namedEvent struct {
	name string
	data any
}

// NewEvent creates an event carrying data
func NewEvent(name string, data any) Event {
	return &namedEvent{name: name, data: data}
}

func (e *namedEvent) GetName() string {
	return e.name
}

func (e *namedEvent) GetData() any {
	return e.data
}

// EventResult reports what a machine did with one event
type EventResult struct {
	Processed       bool
	StateChanged    bool
	PreviousState   string
	CurrentState    string
	Error           error
	RejectionReason string
}

// Rejected reports whether no transition accepted the event and nothing failed
func (r *EventResult) Rejected() bool {
	return !r.Processed && r.Error == nil && r.RejectionReason != ""
}

// stay is the result of an event that left the machine in state
func stay(state string) *EventResult {
	return &EventResult{PreviousState: state, CurrentState: state}
}
