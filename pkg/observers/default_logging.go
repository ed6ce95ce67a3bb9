package observers

import "log/slog"

// NewDefaultLoggingObserver creates a logging observer on slog.Default() tagged "signal"
func NewDefaultLoggingObserver() *LoggingObserver {
	return NewLoggingObserver(slog.Default(), "signal")
}
