//go:build windows

package endpoint

import (
	"errors"
	"runtime"

	"github.com/go-ole/go-ole"
)

// S_FALSE: the runtime was already initialized on this thread. The call still
// has to be balanced with CoUninitialize.
const sFalse = 0x00000001

// Guard holds one apartment-threaded initialization of the component runtime.
// Release is idempotent and never uninitializes twice.
type Guard struct {
	active bool
}

// AcquireGuard locks the calling goroutine to its OS thread and initializes
// the runtime there.
func AcquireGuard() (*Guard, error) {
	runtime.LockOSThread()

	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		var oleErr *ole.OleError
		if !errors.As(err, &oleErr) || oleErr.Code() != sFalse {
			runtime.UnlockOSThread()
			return nil, newPlatformError("initialize", err)
		}
	}

	return &Guard{active: true}, nil
}

// Active reports whether the guard still holds the runtime
func (g *Guard) Active() bool {
	return g != nil && g.active
}

// Release uninitializes the runtime and unlocks the OS thread
func (g *Guard) Release() {
	if !g.Active() {
		return
	}
	g.active = false
	ole.CoUninitialize()
	runtime.UnlockOSThread()
}

func newPlatformError(op string, err error) *PlatformError {
	pe := &PlatformError{Op: op, Err: err}
	var oleErr *ole.OleError
	if errors.As(err, &oleErr) {
		pe.Code = uint32(oleErr.Code())
	}
	return pe
}
