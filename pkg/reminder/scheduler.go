// Package reminder decides when to tell the user about their viewing
// distance.
//
// A message fires on every state change. While the state stays Yellow or Red
// the message repeats, but only once the repeat interval has passed since both
// the last message and the last state change. Green never repeats.
package reminder

import (
	"time"

	"github.com/google/uuid"
	"github.com/teslashibe/eyeguard/pkg/distance"
)

// Clock returns the current time.
type Clock func() time.Time

// Config holds the repeat intervals for the unsafe states.
type Config struct {
	YellowInterval time.Duration `json:"yellow_interval" validate:"gt=0"`
	RedInterval    time.Duration `json:"red_interval" validate:"gt=0"`
}

// DefaultConfig repeats every two minutes in Yellow and every minute in Red.
func DefaultConfig() Config {
	return Config{
		YellowInterval: 120 * time.Second,
		RedInterval:    60 * time.Second,
	}
}

// Interval returns the repeat interval for state, or 0 if it never repeats.
func (c Config) Interval(state distance.State) time.Duration {
	switch state {
	case distance.Yellow:
		return c.YellowInterval
	case distance.Red:
		return c.RedInterval
	default:
		return 0
	}
}

// Kind tells a transition message apart from a repeat.
type Kind string

const (
	KindTransition Kind = "transition"
	KindRepeat     Kind = "repeat"
)

// Reminder is one emitted message.
type Reminder struct {
	ID      string         `json:"id"`
	State   distance.State `json:"state"`
	Kind    Kind           `json:"kind"`
	Message string         `json:"message"`
	At      time.Time      `json:"at"`
}

// Scheduler tracks the current state and the two reminder timers.
// It is not safe for concurrent use; the capture loop owns it.
type Scheduler struct {
	cfg   Config
	sink  Sink
	clock Clock

	current    distance.State
	lastChange time.Time
	lastPrint  time.Time
}

// New creates a scheduler. A nil clock uses time.Now, a nil sink discards.
func New(cfg Config, sink Sink, clock Clock) *Scheduler {
	if clock == nil {
		clock = time.Now
	}
	if sink == nil {
		sink = SinkFunc(func(Reminder) {})
	}
	now := clock()
	return &Scheduler{
		cfg:        cfg,
		sink:       sink,
		clock:      clock,
		lastChange: now,
		lastPrint:  now,
	}
}

// Observe feeds the latest classified state. It returns the reminder that
// was emitted, if any. Unknown is ignored.
func (s *Scheduler) Observe(state distance.State) (Reminder, bool) {
	if state == distance.Unknown {
		return Reminder{}, false
	}
	now := s.clock()

	if state != s.current {
		s.current = state
		s.lastChange = now
		s.lastPrint = now
		return s.emit(KindTransition, now), true
	}

	interval := s.cfg.Interval(state)
	if interval <= 0 {
		return Reminder{}, false
	}
	if now.Sub(s.lastPrint) >= interval && now.Sub(s.lastChange) >= interval {
		s.lastPrint = now
		return s.emit(KindRepeat, now), true
	}
	return Reminder{}, false
}

func (s *Scheduler) emit(kind Kind, now time.Time) Reminder {
	r := Reminder{
		ID:      uuid.NewString(),
		State:   s.current,
		Kind:    kind,
		Message: Message(s.current),
		At:      now,
	}
	s.sink.Notify(r)
	return r
}

// Current returns the state the scheduler last adopted.
func (s *Scheduler) Current() distance.State {
	return s.current
}

// Timers returns the last state change and last message times.
func (s *Scheduler) Timers() (lastChange, lastPrint time.Time) {
	return s.lastChange, s.lastPrint
}

// Message returns the user-facing text for a state.
func Message(state distance.State) string {
	switch state {
	case distance.Red:
		return "Please move further away from the screen"
	case distance.Yellow:
		return "Consider moving back. Extended exposure at this distance is not ideal"
	case distance.Green:
		return "You are currently at a safe viewing distance"
	default:
		return ""
	}
}
