package logger

import (
	"log/slog"

	"github.com/go-co-op/gocron/v2"
)

// SchedulerLogger adapts a slog.Logger to the gocron.Logger interface.
type SchedulerLogger struct {
	log *slog.Logger
}

var _ gocron.Logger = (*SchedulerLogger)(nil)

// NewSchedulerLogger wraps log for use with gocron.WithLogger.
func NewSchedulerLogger(log *slog.Logger) *SchedulerLogger {
	return &SchedulerLogger{log: log.With("component", "gocron")}
}

func (l *SchedulerLogger) Debug(msg string, args ...any) { l.log.Debug(msg, args...) }
func (l *SchedulerLogger) Info(msg string, args ...any)  { l.log.Info(msg, args...) }
func (l *SchedulerLogger) Warn(msg string, args ...any)  { l.log.Warn(msg, args...) }
func (l *SchedulerLogger) Error(msg string, args ...any) { l.log.Error(msg, args...) }
