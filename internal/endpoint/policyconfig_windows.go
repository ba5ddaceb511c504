//go:build windows

package endpoint

import (
	"runtime"
	"syscall"
	"unsafe"

	"github.com/go-ole/go-ole"
	"github.com/moutend/go-wca/pkg/wca"
	"golang.org/x/sys/windows"
)

// The policy-config interface is not published in any SDK header. It is only
// reachable by these fixed identities and the vtable layout below.
var (
	clsidPolicyConfigVistaClient = ole.NewGUID("{294935CE-F637-4E7C-A41B-AB255460B862}")
	iidPolicyConfigVista         = ole.NewGUID("{568B9108-44BF-40B4-9006-86AFE5B5A620}")
)

type policyConfig struct {
	ole.IUnknown
}

// Slot order must match the native interface exactly.
type policyConfigVtbl struct {
	ole.IUnknownVtbl
	GetMixFormat          uintptr
	GetDeviceFormat       uintptr
	SetDeviceFormat       uintptr
	GetProcessingPeriod   uintptr
	SetProcessingPeriod   uintptr
	GetShareMode          uintptr
	SetShareMode          uintptr
	GetPropertyValue      uintptr
	SetPropertyValue      uintptr
	SetDefaultEndpoint    uintptr
	SetEndpointVisibility uintptr
}

func newPolicyConfig() (*policyConfig, error) {
	var pc *policyConfig
	if err := wca.CoCreateInstance(clsidPolicyConfigVistaClient, 0, wca.CLSCTX_ALL, iidPolicyConfigVista, &pc); err != nil {
		return nil, newPlatformError("create-policy-config", err)
	}
	return pc, nil
}

func (pc *policyConfig) vtbl() *policyConfigVtbl {
	return (*policyConfigVtbl)(unsafe.Pointer(pc.RawVTable))
}

// SetDefault returns the raw HRESULT; zero is success.
func (pc *policyConfig) SetDefault(id string, role Role) (uint32, error) {
	wid, err := windows.UTF16PtrFromString(id)
	if err != nil {
		return 0, err
	}

	hr, _, _ := syscall.SyscallN(
		pc.vtbl().SetDefaultEndpoint,
		uintptr(unsafe.Pointer(pc)),
		uintptr(unsafe.Pointer(wid)),
		uintptr(role),
	)
	runtime.KeepAlive(wid)

	return uint32(hr), nil
}

func (pc *policyConfig) release() {
	pc.Release()
}
