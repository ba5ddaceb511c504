package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"unicode/utf16"

	"github.com/gen2brain/malgo"

	"github.com/777genius/sinkswitch/internal/sink"
)

// ErrDeviceNotFound is returned when no playback device matches the requested endpoint
var ErrDeviceNotFound = errors.New("audio device not found")

// outputDevice is a malgo playback device keyed the way endpoints are listed
type outputDevice struct {
	endpointID string
	name       string
	id         malgo.DeviceID
}

func playbackDevices(ctx *malgo.AllocatedContext) ([]outputDevice, error) {
	infos, err := ctx.Devices(malgo.Playback)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate devices: %w", err)
	}

	devices := make([]outputDevice, 0, len(infos))
	for _, info := range infos {
		devices = append(devices, outputDevice{
			endpointID: wasapiEndpointID(info.ID[:]),
			name:       info.Name(),
			id:         info.ID,
		})
	}
	return devices, nil
}

// findDevice matches target by endpoint id first, then by friendly name.
// Both comparisons ignore case, like the endpoint ids the OS hands out.
func findDevice(devices []outputDevice, target sink.Sink) (outputDevice, bool) {
	if target.ID != "" {
		for _, d := range devices {
			if d.endpointID != "" && strings.EqualFold(d.endpointID, target.ID) {
				return d, true
			}
		}
	}
	if target.Name != "" {
		for _, d := range devices {
			if strings.EqualFold(d.name, target.Name) {
				return d, true
			}
		}
	}
	return outputDevice{}, false
}

// wasapiEndpointID decodes the NUL-terminated UTF-16LE endpoint id miniaudio
// keeps for WASAPI devices. Other backends store something else and decode to
// a string no endpoint id will equal.
func wasapiEndpointID(raw []byte) string {
	units := make([]uint16, 0, len(raw)/2)
	for i := 0; i+1 < len(raw); i += 2 {
		u := binary.LittleEndian.Uint16(raw[i:])
		if u == 0 {
			break
		}
		units = append(units, u)
	}
	return string(utf16.Decode(units))
}
