// ABOUTME: Confirmation sound playback on a chosen audio endpoint.
// ABOUTME: Uses malgo (miniaudio bindings); clips are decoded with beep/go-audio, the default beep is synthesized.

package audio

import (
	"encoding/binary"
	"fmt"
	"path/filepath"
	"sync"
	"time"
	"unsafe"

	"github.com/gen2brain/malgo"

	"github.com/777genius/sinkswitch/internal/logging"
	"github.com/777genius/sinkswitch/internal/sink"
)

const (
	// ToneSampleRate is the sample rate of synthesized tones
	ToneSampleRate = 44100
	// DefaultTimeout bounds how long a playback waits for the device to drain
	DefaultTimeout = 30 * time.Second

	fadeDuration = 5 * time.Millisecond
	drainDelay   = 200 * time.Millisecond
)

// Player plays clips on one endpoint, or on whatever is the system default
// when it was created for the empty sink
type Player struct {
	ctx      *malgo.AllocatedContext
	deviceID unsafe.Pointer
	target   sink.Sink
	volume   float64
	timeout  time.Duration
	mu       sync.Mutex
}

// NewPlayer opens a player for target, matched against the playback devices by
// endpoint id and then by name. The empty sink selects the system default.
// An unmatched target yields an error wrapping ErrDeviceNotFound.
func NewPlayer(target sink.Sink, volume float64) (*Player, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to init audio context: %w", err)
	}

	player := &Player{
		ctx:     ctx,
		target:  target,
		volume:  volume,
		timeout: DefaultTimeout,
	}
	if target.IsEmpty() {
		return player, nil
	}

	devices, err := playbackDevices(ctx)
	if err != nil {
		player.release()
		return nil, err
	}

	dev, ok := findDevice(devices, target)
	if !ok {
		player.release()
		return nil, fmt.Errorf("%w: %s", ErrDeviceNotFound, target)
	}
	player.deviceID = dev.id.Pointer()
	logging.Debug("Audio device for %s: %s", target, dev.name)

	return player, nil
}

// SetTimeout bounds how long a single playback waits to finish
func (p *Player) SetTimeout(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if d > 0 {
		p.timeout = d
	}
}

// Play decodes and plays an audio file
func (p *Player) Play(soundPath string) error {
	clip, err := LoadClip(soundPath)
	if err != nil {
		return err
	}
	return p.play(clip, filepath.Base(soundPath))
}

// PlayTone plays a synthesized sine beep
func (p *Player) PlayTone(freqHz float64, d time.Duration) error {
	return p.play(ToneClip(freqHz, d), fmt.Sprintf("tone %.0fHz", freqHz))
}

// PlayClip plays an already decoded clip. The clip is not modified.
func (p *Player) PlayClip(clip *Clip) error {
	return p.play(clip, "clip")
}

func (p *Player) play(clip *Clip, label string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ctx == nil {
		return fmt.Errorf("audio player is closed")
	}
	if clip == nil || len(clip.Samples) == 0 || clip.Channels <= 0 {
		return fmt.Errorf("no audio samples to play")
	}

	src := &pcmSource{data: encodePCM(clip.Samples, p.volume)}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatS16
	deviceConfig.Playback.Channels = uint32(clip.Channels)
	deviceConfig.Playback.DeviceID = p.deviceID
	deviceConfig.SampleRate = clip.SampleRate
	deviceConfig.PeriodSizeInFrames = 4096
	deviceConfig.Periods = 4
	deviceConfig.Alsa.NoMMap = 1

	done := make(chan struct{})
	var once sync.Once

	device, err := malgo.InitDevice(p.ctx.Context, deviceConfig, malgo.DeviceCallbacks{
		Data: func(out, _ []byte, _ uint32) {
			if src.fill(out) {
				once.Do(func() { close(done) })
			}
		},
	})
	if err != nil {
		return fmt.Errorf("failed to init audio device: %w", err)
	}
	defer device.Uninit()

	if err := device.Start(); err != nil {
		return fmt.Errorf("failed to start audio device: %w", err)
	}
	defer func() { _ = device.Stop() }()

	select {
	case <-done:
		// the last period is still in the device buffer
		time.Sleep(drainDelay)
		logging.Debug("Played %s (%s) on %s", label, clip.Duration(), p.target)
	case <-time.After(p.timeout):
		logging.Warn("Audio playback timeout: %s", label)
	}
	return nil
}

// Close releases the audio context. Calling it again is a no-op.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.release()
	return nil
}

func (p *Player) release() {
	if p.ctx != nil {
		_ = p.ctx.Uninit()
		p.ctx.Free()
		p.ctx = nil
	}
}

// pcmSource feeds encoded PCM to the device callback in period-sized chunks
type pcmSource struct {
	data []byte
	pos  int
}

// fill copies the next chunk into out and pads the rest with silence.
// It reports whether everything has been handed out.
func (s *pcmSource) fill(out []byte) bool {
	n := copy(out, s.data[s.pos:])
	s.pos += n
	clear(out[n:])
	return s.pos >= len(s.data)
}

// encodePCM scales samples by volume (clamped to 0..1) into little-endian S16 bytes
func encodePCM(samples []int16, volume float64) []byte {
	if volume < 0 {
		volume = 0
	}
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		if volume < 1 {
			s = int16(float64(s) * volume)
		}
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}
