// Package endpoint talks to the Windows multimedia device API: it enumerates
// active render endpoints, reads the current default, and reassigns the default
// across all three roles through the undocumented policy-config interface.
//
// Everything here is apartment threaded. A Session, and every value obtained
// from it, must be used from the goroutine that opened it; the OS thread stays
// locked to that goroutine until Close.
package endpoint

import (
	"errors"
	"fmt"

	"github.com/777genius/sinkswitch/internal/logging"
	"github.com/777genius/sinkswitch/internal/sink"
)

// Role is one of the default-device slots the OS tracks per data-flow direction.
// Values match the native ERole enumeration.
type Role uint32

const (
	RoleConsole Role = iota
	RoleMultimedia
	RoleCommunications
)

// Roles is the order in which a default assignment is written
var Roles = []Role{RoleConsole, RoleMultimedia, RoleCommunications}

func (r Role) String() string {
	switch r {
	case RoleConsole:
		return "console"
	case RoleMultimedia:
		return "multimedia"
	case RoleCommunications:
		return "communications"
	default:
		return fmt.Sprintf("role(%d)", uint32(r))
	}
}

var (
	// ErrUnsupported is returned on platforms without the Windows audio endpoint API
	ErrUnsupported = errors.New("audio endpoint switching is only supported on Windows")
	// ErrReleased is returned when a directory or guard is used after Close
	ErrReleased = errors.New("endpoint session already released")
	// ErrEmptyID is returned when asked to make an endpoint without id the default
	ErrEmptyID = errors.New("empty endpoint id")
)

// hresultNotFound is E_NOTFOUND, returned by the default-endpoint query when
// no render endpoint exists at all
const hresultNotFound = 0x80070490

// PlatformError is a failed call into the OS component layer.
// Code carries the native HRESULT when there is one.
type PlatformError struct {
	Op   string
	Code uint32
	Err  error
}

func (e *PlatformError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("endpoint %s failed (hresult 0x%08X): %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("endpoint %s failed: %v", e.Op, e.Err)
}

func (e *PlatformError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is the platform's "element not found" status
func IsNotFound(err error) bool {
	var pe *PlatformError
	return errors.As(err, &pe) && pe.Code == hresultNotFound
}

// defaultOrEmpty turns a "not found" default query into the empty sentinel,
// so an endpoint-less system resolves to nothing instead of failing enumeration
func defaultOrEmpty(s sink.Sink, err error) (sink.Sink, error) {
	if err != nil {
		if IsNotFound(err) {
			logging.Debug("No default render endpoint")
			return sink.Empty(), nil
		}
		return sink.Empty(), err
	}
	return s, nil
}

// Session owns the component-runtime guard and the directory created under it.
// Close tears the directory down before releasing the guard.
type Session struct {
	guard *Guard
	dir   *Directory
}

// Open initializes the component runtime on the calling thread and creates the
// device enumerator. Failure here means no audio API is usable.
func Open() (*Session, error) {
	guard, err := AcquireGuard()
	if err != nil {
		return nil, err
	}

	dir, err := newDirectory(guard)
	if err != nil {
		guard.Release()
		return nil, err
	}

	logging.Debug("Endpoint session opened")
	return &Session{guard: guard, dir: dir}, nil
}

// Directory returns the endpoint directory owned by this session
func (s *Session) Directory() *Directory {
	return s.dir
}

// Close releases the enumerator and then the runtime guard. Safe to call twice.
func (s *Session) Close() error {
	if s == nil {
		return nil
	}
	if s.dir != nil {
		s.dir.Release()
		s.dir = nil
	}
	if s.guard != nil {
		s.guard.Release()
		s.guard = nil
		logging.Debug("Endpoint session closed")
	}
	return nil
}

// commitRoles calls set for each role in Roles order and stops at the first
// failure. Roles already written stay written.
func commitRoles(id string, set func(Role) error) error {
	if id == "" {
		return &PlatformError{Op: "set-default", Err: ErrEmptyID}
	}
	for _, role := range Roles {
		if err := set(role); err != nil {
			var pe *PlatformError
			if errors.As(err, &pe) {
				return err
			}
			return &PlatformError{Op: "set-default:" + role.String(), Err: err}
		}
		logging.Debug("Default endpoint for role %s set to %s", role, id)
	}
	return nil
}
