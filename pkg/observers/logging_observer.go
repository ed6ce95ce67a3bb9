// Package observers provides observers for monitoring the signal phase machine
package observers

import (
	"context"
	"log/slog"
	"sync"

	"github.com/anggasct/crossing"
)

// LevelTrace is below slog.LevelDebug; per-tick rejections are logged here
const LevelTrace = slog.LevelDebug - 4

// LoggingObserver writes phase machine events to a slog.Logger
type LoggingObserver struct {
	crossing.BaseObserver

	logger *slog.Logger
	prefix string
	mutex  sync.RWMutex
}

// NewLoggingObserver creates a logging observer. A nil logger uses slog.Default().
func NewLoggingObserver(logger *slog.Logger, prefix string) *LoggingObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{
		logger: logger,
		prefix: prefix,
	}
}

// SetLogger replaces the destination logger
func (o *LoggingObserver) SetLogger(logger *slog.Logger) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	if logger != nil {
		o.logger = logger
	}
}

// log writes through ctx so handlers see the run's context.Context
func (o *LoggingObserver) log(ctx crossing.Context, level slog.Level, msg string, attrs ...slog.Attr) {
	o.mutex.RLock()
	logger := o.logger
	o.mutex.RUnlock()

	if o.prefix != "" {
		attrs = append(attrs, slog.String("machine", o.prefix))
	}
	var parent context.Context = context.Background()
	if ctx != nil {
		parent = ctx
	}
	logger.LogAttrs(parent, level, msg, attrs...)
}

// OnStateEnter logs phase entry
func (o *LoggingObserver) OnStateEnter(state string, ctx crossing.Context) {
	o.log(ctx, slog.LevelDebug, "entering phase", slog.String("phase", state), tickAttr(ctx))
}

// OnStateExit logs phase exit
func (o *LoggingObserver) OnStateExit(state string, ctx crossing.Context) {
	o.log(ctx, slog.LevelDebug, "exiting phase", slog.String("phase", state), tickAttr(ctx))
}

// OnTransition logs phase switches
func (o *LoggingObserver) OnTransition(from string, to string, event crossing.Event, ctx crossing.Context) {
	o.log(ctx, slog.LevelInfo, "phase switch",
		slog.String("from", from),
		slog.String("to", to),
		slog.String("event", eventName(event)),
		tickAttr(ctx))
}

// OnEventRejected logs ticks that did not switch the phase
func (o *LoggingObserver) OnEventRejected(event crossing.Event, reason string, ctx crossing.Context) {
	o.log(ctx, LevelTrace, "event rejected", slog.String("event", eventName(event)), slog.String("reason", reason))
}

// OnError logs errors
func (o *LoggingObserver) OnError(err error, ctx crossing.Context) {
	o.log(ctx, slog.LevelError, "phase machine error",
		slog.String("code", crossing.GetErrorCode(err).String()),
		slog.Any("error", err))
}

// OnMachineStarted logs machine start
func (o *LoggingObserver) OnMachineStarted(ctx crossing.Context) {
	o.log(ctx, slog.LevelDebug, "phase machine started", slog.String("phase", ctx.GetCurrentState()))
}

// OnMachineStopped logs machine stop
func (o *LoggingObserver) OnMachineStopped(ctx crossing.Context) {
	o.log(ctx, slog.LevelDebug, "phase machine stopped", slog.String("phase", ctx.GetCurrentState()))
}

// tickAttr extracts the tick number carried by the current event, -1 when absent
func tickAttr(ctx crossing.Context) slog.Attr {
	tick, ok := eventTick(ctx)
	if !ok {
		return slog.Int("tick", -1)
	}
	return slog.Int("tick", tick)
}

func eventTick(ctx crossing.Context) (int, bool) {
	if ctx == nil {
		return 0, false
	}
	var tick int
	if !ctx.GetEventDataAs(&tick) {
		return 0, false
	}
	return tick, true
}

func eventName(event crossing.Event) string {
	if event == nil {
		return ""
	}
	return event.GetName()
}
