package distance

import (
	"fmt"
	"strings"
)

// State is the safety classification of a distance sample, ordered by severity.
type State int

const (
	// Unknown means no sample has been classified yet.
	Unknown State = iota
	Green
	Yellow
	Red
)

// String returns the lowercase wire name, or "" for Unknown.
func (s State) String() string {
	switch s {
	case Green:
		return "green"
	case Yellow:
		return "yellow"
	case Red:
		return "red"
	default:
		return ""
	}
}

// Unsafe reports whether the state warrants periodic reminders.
func (s State) Unsafe() bool {
	return s == Yellow || s == Red
}

// ParseState parses a wire name. The empty string and "null" parse to Unknown.
func ParseState(name string) (State, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "green":
		return Green, nil
	case "yellow":
		return Yellow, nil
	case "red":
		return Red, nil
	case "", "null":
		return Unknown, nil
	}
	return Unknown, fmt.Errorf("distance: unknown state %q", name)
}

// MarshalJSON encodes the wire name, or null for Unknown.
func (s State) MarshalJSON() ([]byte, error) {
	if s == Unknown {
		return []byte("null"), nil
	}
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON accepts a wire name or null.
func (s *State) UnmarshalJSON(data []byte) error {
	v, err := ParseState(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
