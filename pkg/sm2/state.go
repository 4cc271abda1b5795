package sm2

import (
	"encoding"
	"fmt"
)

// State is the mastery stage of a single card, derived from its review
// interval after every advance.
type State int8

const (
	StateNew      State = iota + 1 // Never reviewed.
	StateLearning                  // Interval below the mastered threshold.
	StateMastered                  // Interval of at least 21 days.
	StateMature                    // Interval of at least 60 days.
)

var (
	stateNames = [...]string{
		StateNew:      "new",
		StateLearning: "learning",
		StateMastered: "mastered",
		StateMature:   "mature",
	}
	stateByName = map[string]State{
		"new":      StateNew,
		"learning": StateLearning,
		"mastered": StateMastered,
		"mature":   StateMature,
	}
)

// Compile-time interface checks.
var (
	_ fmt.Stringer             = State(0)
	_ encoding.TextMarshaler   = State(0)
	_ encoding.TextUnmarshaler = (*State)(nil)
)

// String returns the name of the state ("new", "learning", "mastered",
// "mature"). For invalid values it returns "State(n)".
func (s State) String() string {
	if s.IsValid() {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// IsValid reports whether s is one of the defined states.
func (s State) IsValid() bool {
	return s >= StateNew && s <= StateMature
}

// Settled reports whether the card no longer needs active study: the
// interval has crossed the mastered threshold at least once.
func (s State) Settled() bool {
	return s == StateMastered || s == StateMature
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("sm2: invalid state %d", int(s))
	}
	return []byte(stateNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(text []byte) error {
	v, ok := stateByName[string(text)]
	if !ok {
		return fmt.Errorf("sm2: unknown state %q", string(text))
	}
	*s = v
	return nil
}
