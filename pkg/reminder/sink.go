package reminder

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/teslashibe/eyeguard/pkg/distance"
)

// Sink receives emitted reminders.
type Sink interface {
	Notify(r Reminder)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(r Reminder)

// Notify calls f(r).
func (f SinkFunc) Notify(r Reminder) {
	f(r)
}

// MultiSink fans a reminder out to every sink in order.
type MultiSink []Sink

// Notify forwards r to each sink.
func (m MultiSink) Notify(r Reminder) {
	for _, s := range m {
		if s != nil {
			s.Notify(r)
		}
	}
}

// LogSink writes reminders as structured log lines.
type LogSink struct {
	Logger *slog.Logger
}

// Notify logs r at warn for unsafe states and info otherwise.
func (l LogSink) Notify(r Reminder) {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	level := slog.LevelInfo
	if r.State.Unsafe() {
		level = slog.LevelWarn
	}
	logger.Log(context.Background(), level, r.Message,
		"state", r.State.String(),
		"kind", string(r.Kind),
		"id", r.ID,
	)
}

// ConsoleSink prints the bare message, one per line.
type ConsoleSink struct {
	W io.Writer
}

// Notify writes the message with a state marker.
func (c ConsoleSink) Notify(r Reminder) {
	fmt.Fprintf(c.W, "%s %s\n", marker(r), r.Message)
}

func marker(r Reminder) string {
	switch r.State {
	case distance.Red:
		return "🔴"
	case distance.Yellow:
		return "🟡"
	default:
		return "🟢"
	}
}
