// Package switcher toggles the default render endpoint between two named devices.
package switcher

import (
	"errors"

	"github.com/777genius/sinkswitch/internal/endpoint"
	"github.com/777genius/sinkswitch/internal/logging"
	"github.com/777genius/sinkswitch/internal/resolver"
	"github.com/777genius/sinkswitch/internal/sink"
)

// Directory is the endpoint surface the switcher needs
type Directory interface {
	ListRenderEndpoints() ([]sink.Sink, error)
	DefaultRenderEndpoint() (sink.Sink, error)
	SetDefaultRenderEndpoint(id string) error
}

// NeedleSource supplies the two device-name substrings
type NeedleSource interface {
	Needles() (a, b string, err error)
}

// Needles is a fixed pair of device-name substrings, e.g. from the command line
type Needles struct {
	A, B string
}

func (n Needles) Needles() (string, string, error) {
	return n.A, n.B, nil
}

// Result describes a completed switch
type Result struct {
	Previous sink.Sink
	Chosen   sink.Sink
	Pair     resolver.Pair
}

// Switcher runs one resolve and commit cycle per call. It keeps no state between calls.
type Switcher struct {
	dir Directory
}

// New creates a switcher over dir
func New(dir Directory) *Switcher {
	return &Switcher{dir: dir}
}

// List returns the active render endpoints and the current default
func (s *Switcher) List() ([]sink.Sink, sink.Sink, error) {
	listing, err := s.dir.ListRenderEndpoints()
	if err != nil {
		return nil, sink.Empty(), &Error{Phase: PhaseEnumerate, Err: err}
	}

	def, err := s.currentDefault()
	if err != nil {
		return listing, sink.Empty(), &Error{Phase: PhaseEnumerate, Err: err}
	}

	return listing, def, nil
}

// currentDefault treats "no default endpoint" as the empty sentinel
func (s *Switcher) currentDefault() (sink.Sink, error) {
	def, err := s.dir.DefaultRenderEndpoint()
	if err != nil && endpoint.IsNotFound(err) {
		return sink.Empty(), nil
	}
	return def, err
}

// Toggle reads the needles from src and runs the switch
func (s *Switcher) Toggle(src NeedleSource) (Result, error) {
	a, b, err := src.Needles()
	if err != nil {
		var ce *ConfigurationError
		if !errors.As(err, &ce) {
			err = &ConfigurationError{Err: err}
		}
		return Result{}, &Error{Phase: PhaseConfigure, Err: err}
	}
	return s.Run(a, b)
}

// Run makes whichever of the two named endpoints is not currently default the
// new default. It stops at the first failing step and never retries.
func (s *Switcher) Run(needleA, needleB string) (Result, error) {
	if needleA == "" || needleB == "" {
		return Result{}, &Error{Phase: PhaseConfigure, Err: &ConfigurationError{
			Err: errors.New("both device names must be non-empty"),
		}}
	}

	current, err := s.currentDefault()
	if err != nil {
		return Result{}, &Error{Phase: PhaseEnumerate, Err: err}
	}

	listing, err := s.dir.ListRenderEndpoints()
	if err != nil {
		return Result{}, &Error{Phase: PhaseEnumerate, Err: err}
	}
	logging.Debug("Current default: %s; %d active endpoints", current, len(listing))

	pair := resolver.Resolve(listing, needleA, needleB)
	logging.Debug("Resolved %q -> %s, %q -> %s", needleA, pair.A, needleB, pair.B)

	chosen := pair.Choose(current.ID)
	result := Result{Previous: current, Chosen: chosen, Pair: pair}

	if chosen.IsEmpty() {
		return result, &Error{Phase: PhaseResolve, Err: &ResolutionError{
			NeedleA: needleA,
			NeedleB: needleB,
			Reason:  unresolvedReason(pair, len(listing)),
		}}
	}
	if pair.Same() {
		logging.Warn("Both names match %s; re-asserting it as default", chosen)
	}

	logging.Info("Setting default to %s", chosen.Name)
	if err := s.dir.SetDefaultRenderEndpoint(chosen.ID); err != nil {
		return result, &Error{Phase: PhaseCommit, Err: err}
	}

	return result, nil
}

func unresolvedReason(pair resolver.Pair, count int) string {
	switch {
	case count == 0:
		return "no active render endpoints"
	case pair.A.IsEmpty() && pair.B.IsEmpty():
		return "no endpoint matches either name"
	case pair.A.IsEmpty():
		return "no endpoint matches the first name"
	case pair.B.IsEmpty():
		return "no endpoint matches the second name"
	default:
		return "target endpoint has no id"
	}
}
