// Package module holds the pure data types describing a module's identity
// and lifecycle state, kept dependency-free per the teacher's
// domain/rules convention that domain packages must not import
// infrastructure.
package module

import "github.com/moshpitcodes/livinglands-core/internal/apperrors"

// State is a module's lifecycle state.
type State string

const (
	StateDisabled State = "DISABLED"
	StateSetup    State = "SETUP"
	StateStarted  State = "STARTED"
	StateStopped  State = "STOPPED"
	StateError    State = "ERROR"
)

// allowedTransitions encodes spec.md's permitted-transition table exactly.
var allowedTransitions = map[State]map[State]bool{
	StateDisabled: {StateSetup: true, StateError: true},
	StateSetup:    {StateStarted: true, StateStopped: true, StateError: true},
	StateStarted:  {StateStopped: true, StateError: true},
	StateStopped:  {StateSetup: true, StateError: true},
	StateError:    {StateDisabled: true},
}

// CanTransition reports whether from -> to is a permitted lifecycle move.
func CanTransition(from, to State) bool {
	return allowedTransitions[from][to]
}

// Transition validates and returns the target state, or
// apperrors.ErrInvalidTransition if the move isn't permitted.
func Transition(from, to State) (State, error) {
	if !CanTransition(from, to) {
		return from, apperrors.ErrInvalidTransition
	}
	return to, nil
}

// Descriptor is a module's static identity, declared once at registration
// and never mutated afterward.
type Descriptor struct {
	ID           string
	Version      string
	DisplayName  string
	Dependencies []string
	Enabled      bool
}
