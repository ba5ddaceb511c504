//go:build windows

package endpoint

import (
	"fmt"
	"syscall"
	"unsafe"

	"github.com/go-ole/go-ole"
	"github.com/moutend/go-wca/pkg/wca"
	"golang.org/x/sys/windows"

	"github.com/777genius/sinkswitch/internal/logging"
	"github.com/777genius/sinkswitch/internal/sink"
)

var procPropVariantClear = windows.NewLazySystemDLL("ole32.dll").NewProc("PropVariantClear")

// Directory wraps the multimedia device enumerator.
// It is only valid while the guard it was created with is active.
type Directory struct {
	guard  *Guard
	mmde   *wca.IMMDeviceEnumerator
	policy *policyConfig
}

func newDirectory(guard *Guard) (*Directory, error) {
	if !guard.Active() {
		return nil, &PlatformError{Op: "create-enumerator", Err: ErrReleased}
	}

	var mmde *wca.IMMDeviceEnumerator
	if err := wca.CoCreateInstance(wca.CLSID_MMDeviceEnumerator, 0, wca.CLSCTX_ALL, wca.IID_IMMDeviceEnumerator, &mmde); err != nil {
		return nil, newPlatformError("create-enumerator", err)
	}

	return &Directory{guard: guard, mmde: mmde}, nil
}

func (d *Directory) check(op string) error {
	if d == nil || d.mmde == nil || !d.guard.Active() {
		return &PlatformError{Op: op, Err: ErrReleased}
	}
	return nil
}

// ListRenderEndpoints returns the active render endpoints in enumeration order.
// On a mid-listing failure the endpoints read so far are returned with the error.
func (d *Directory) ListRenderEndpoints() ([]sink.Sink, error) {
	if err := d.check("enumerate"); err != nil {
		return nil, err
	}

	var dc *wca.IMMDeviceCollection
	if err := d.mmde.EnumAudioEndpoints(wca.ERender, wca.DEVICE_STATE_ACTIVE, &dc); err != nil {
		return nil, newPlatformError("enumerate", err)
	}
	defer dc.Release()

	var count uint32
	if err := dc.GetCount(&count); err != nil {
		return nil, newPlatformError("enumerate-count", err)
	}

	listing := make([]sink.Sink, 0, count)
	for i := uint32(0); i < count; i++ {
		s, err := collectionItem(dc, i)
		if err != nil {
			return listing, err
		}
		listing = append(listing, s)
	}

	logging.Debug("Enumerated %d active render endpoints", len(listing))
	return listing, nil
}

// DefaultRenderEndpoint returns the default render endpoint for the multimedia role.
// With no render endpoint present it returns the empty sentinel and no error.
func (d *Directory) DefaultRenderEndpoint() (sink.Sink, error) {
	if err := d.check("get-default"); err != nil {
		return sink.Empty(), err
	}

	return defaultOrEmpty(d.queryDefault())
}

func (d *Directory) queryDefault() (sink.Sink, error) {
	var mmd *wca.IMMDevice
	if err := d.mmde.GetDefaultAudioEndpoint(wca.ERender, uint32(RoleMultimedia), &mmd); err != nil {
		return sink.Empty(), newPlatformError("get-default", err)
	}
	defer mmd.Release()

	return describe(mmd)
}

// SetDefaultRenderEndpoint makes id the default for console, multimedia and
// communications, in that order. A failure stops the sequence; roles already
// set are not rolled back, and re-running the whole call is the recovery path.
func (d *Directory) SetDefaultRenderEndpoint(id string) error {
	if err := d.check("set-default"); err != nil {
		return err
	}

	if d.policy == nil {
		pc, err := newPolicyConfig()
		if err != nil {
			return err
		}
		d.policy = pc
	}

	return commitRoles(id, func(role Role) error {
		hr, err := d.policy.SetDefault(id, role)
		if err != nil {
			return &PlatformError{Op: "set-default:" + role.String(), Err: err}
		}
		if hr != 0 {
			return newPlatformError("set-default:"+role.String(), ole.NewError(uintptr(hr)))
		}
		return nil
	})
}

// Release drops the enumerator and the policy interface. Must run before the guard is released.
func (d *Directory) Release() {
	if d == nil {
		return
	}
	if d.policy != nil {
		d.policy.release()
		d.policy = nil
	}
	if d.mmde != nil {
		d.mmde.Release()
		d.mmde = nil
	}
}

func collectionItem(dc *wca.IMMDeviceCollection, i uint32) (sink.Sink, error) {
	var mmd *wca.IMMDevice
	if err := dc.Item(i, &mmd); err != nil {
		return sink.Empty(), newPlatformError(fmt.Sprintf("enumerate-item:%d", i), err)
	}
	defer mmd.Release()

	return describe(mmd)
}

func describe(mmd *wca.IMMDevice) (sink.Sink, error) {
	id, err := deviceID(mmd)
	if err != nil {
		return sink.Empty(), err
	}

	name, err := friendlyName(mmd)
	if err != nil {
		return sink.Empty(), err
	}

	return sink.New(id, name), nil
}

// deviceID reads the endpoint id and frees the platform-allocated string
func deviceID(mmd *wca.IMMDevice) (string, error) {
	var ptr *uint16
	hr, _, _ := syscall.SyscallN(
		mmd.VTable().GetId,
		uintptr(unsafe.Pointer(mmd)),
		uintptr(unsafe.Pointer(&ptr)),
	)
	if hr != 0 {
		return "", newPlatformError("get-id", ole.NewError(hr))
	}
	if ptr == nil {
		return "", nil
	}
	defer ole.CoTaskMemFree(uintptr(unsafe.Pointer(ptr)))

	return windows.UTF16PtrToString(ptr), nil
}

func friendlyName(mmd *wca.IMMDevice) (string, error) {
	var ps *wca.IPropertyStore
	if err := mmd.OpenPropertyStore(wca.STGM_READ, &ps); err != nil {
		return "", newPlatformError("open-property-store", err)
	}
	defer ps.Release()

	var pv wca.PROPVARIANT
	if err := ps.GetValue(&wca.PKEY_Device_FriendlyName, &pv); err != nil {
		return "", newPlatformError("read-friendly-name", err)
	}
	defer procPropVariantClear.Call(uintptr(unsafe.Pointer(&pv)))

	return pv.String(), nil
}
