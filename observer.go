package crossing

import "fmt"

// Observer is notified of phase changes
type Observer interface {
	OnTransition(from string, to string, event Event, ctx Context)
	OnStateEnter(state string, ctx Context)
}

// ExtendedObserver also receives exits, rejected events, errors and lifecycle changes
type ExtendedObserver interface {
	Observer

	OnStateExit(state string, ctx Context)
	// OnEventRejected is called for every event that fired no transition
	OnEventRejected(event Event, reason string, ctx Context)
	OnError(err error, ctx Context)
	OnMachineStarted(ctx Context)
	OnMachineStopped(ctx Context)
}

// BaseObserver implements ExtendedObserver with no-ops, for embedding
type BaseObserver struct{}

func (o *BaseObserver) OnTransition(from string, to string, event Event, ctx Context) {}
func (o *BaseObserver) OnStateEnter(state string, ctx Context)                       {}
func (o *BaseObserver) OnStateExit(state string, ctx Context)                        {}
func (o *BaseObserver) OnEventRejected(event Event, reason string, ctx Context)      {}
func (o *BaseObserver) OnError(err error, ctx Context)                               {}
func (o *BaseObserver) OnMachineStarted(ctx Context)                                 {}
func (o *BaseObserver) OnMachineStopped(ctx Context)                                 {}

// observerList fans notifications out in registration order. A panicking
// observer is reported to its own OnError and the rest are still called.
type observerList []Observer

func (l observerList) each(hook string, ctx Context, fn func(Observer)) {
	for _, observer := range l {
		notifyOne(observer, hook, ctx, fn)
	}
}

func (l observerList) eachExtended(hook string, ctx Context, fn func(ExtendedObserver)) {
	l.each(hook, ctx, func(observer Observer) {
		if ext, ok := observer.(ExtendedObserver); ok {
			fn(ext)
		}
	})
}

func notifyOne(observer Observer, hook string, ctx Context, fn func(Observer)) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if ext, ok := observer.(ExtendedObserver); ok {
			defer func() { _ = recover() }()
			ext.OnError(fmt.Errorf("observer panic in %s: %v", hook, r), ctx)
		}
	}()
	fn(observer)
}

func (l observerList) transitioned(from, to string, event Event, ctx Context) {
	l.each("OnTransition", ctx, func(o Observer) { o.OnTransition(from, to, event, ctx) })
}

func (l observerList) stateEntered(state string, ctx Context) {
	l.each("OnStateEnter", ctx, func(o Observer) { o.OnStateEnter(state, ctx) })
}

func (l observerList) stateExited(state string, ctx Context) {
	l.eachExtended("OnStateExit", ctx, func(o ExtendedObserver) { o.OnStateExit(state, ctx) })
}

func (l observerList) rejected(event Event, reason string, ctx Context) {
	l.eachExtended("OnEventRejected", ctx, func(o ExtendedObserver) { o.OnEventRejected(event, reason, ctx) })
}

func (l observerList) failed(err error, ctx Context) {
	l.eachExtended("OnError", ctx, func(o ExtendedObserver) { o.OnError(err, ctx) })
}

func (l observerList) started(ctx Context) {
	l.eachExtended("OnMachineStarted", ctx, func(o ExtendedObserver) { o.OnMachineStarted(ctx) })
}

func (l observerList) stopped(ctx Context) {
	l.eachExtended("OnMachineStopped", ctx, func(o ExtendedObserver) { o.OnMachineStopped(ctx) })
}
