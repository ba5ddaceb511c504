package switcher

import (
	"errors"
	"fmt"
)

// Phase names the step of a switch that failed
type Phase string

const (
	PhaseConfigure Phase = "configure"
	PhaseEnumerate Phase = "enumerate"
	PhaseResolve   Phase = "resolve"
	PhaseCommit    Phase = "commit"
)

// Error wraps any failure of Run with the phase it happened in
type Error struct {
	Phase Phase
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Phase, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// PhaseOf returns the phase recorded in err, or "" if err did not come from a Switcher
func PhaseOf(err error) Phase {
	var se *Error
	if errors.As(err, &se) {
		return se.Phase
	}
	return ""
}

// ResolutionError means the needles did not identify a settable endpoint
type ResolutionError struct {
	NeedleA string
	NeedleB string
	Reason  string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve %q / %q: %s", e.NeedleA, e.NeedleB, e.Reason)
}

// ConfigurationError means the two device needles could not be obtained
type ConfigurationError struct {
	Source string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("device names from %s: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("device names: %v", e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
