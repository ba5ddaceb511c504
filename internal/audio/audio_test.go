package audio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/777genius/sinkswitch/internal/sink"
)

func TestToneLengthAndFormat(t *testing.T) {
	buf := Tone(880, 100*time.Millisecond, 44100)

	assert.Len(t, buf.Data, 4410)
	assert.Equal(t, 1, buf.Format.NumChannels)
	assert.Equal(t, 44100, buf.Format.SampleRate)
	assert.Equal(t, 16, buf.SourceBitDepth)
}

func TestToneFadesAndPeak(t *testing.T) {
	buf := Tone(1000, 50*time.Millisecond, 48000)

	assert.Equal(t, 0, buf.Data[0], "fade-in starts at silence")
	assert.Equal(t, 0, buf.Data[len(buf.Data)-1], "fade-out ends at silence")

	peak := 0
	for _, v := range buf.Data {
		if v < 0 {
			v = -v
		}
		if v > peak {
			peak = v
		}
	}
	assert.LessOrEqual(t, peak, 32767)
	assert.Greater(t, peak, 20000)
}

func TestToneZeroDuration(t *testing.T) {
	buf := Tone(880, 0, 44100)
	assert.Empty(t, buf.Data)
}

func TestToneClip(t *testing.T) {
	clip := ToneClip(880, 180*time.Millisecond)

	assert.Equal(t, uint32(ToneSampleRate), clip.SampleRate)
	assert.Equal(t, 1, clip.Channels)
	assert.Equal(t, 7938, clip.Frames())
	assert.Equal(t, 180*time.Millisecond, clip.Duration())
}

func TestClipDurationEmpty(t *testing.T) {
	assert.Zero(t, (&Clip{}).Duration())
	assert.Zero(t, (&Clip{Samples: []int16{1, 2}, SampleRate: 8000}).Frames())
}

func TestEncodePCM(t *testing.T) {
	tests := []struct {
		name    string
		samples []int16
		volume  float64
		want    []byte
	}{
		{"full volume little endian", []int16{0x0102, -1}, 1.0, []byte{0x02, 0x01, 0xff, 0xff}},
		{"half volume", []int16{1000, -1000}, 0.5, []byte{0xf4, 0x01, 0x0c, 0xfe}},
		{"above one is unity", []int16{1000}, 2.0, []byte{0xe8, 0x03}},
		{"negative is muted", []int16{1000}, -1, []byte{0x00, 0x00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, encodePCM(tt.samples, tt.volume))
		})
	}
}

func TestEncodePCMLeavesClipUntouched(t *testing.T) {
	samples := []int16{1000, -1000}
	encodePCM(samples, 0.25)
	assert.Equal(t, []int16{1000, -1000}, samples)
}

func TestPCMSourceFill(t *testing.T) {
	src := &pcmSource{data: []byte{1, 2, 3, 4, 5}}

	out := []byte{9, 9, 9, 9}
	assert.False(t, src.fill(out))
	assert.Equal(t, []byte{1, 2, 3, 4}, out)

	out = []byte{9, 9, 9, 9}
	assert.True(t, src.fill(out))
	assert.Equal(t, []byte{5, 0, 0, 0}, out, "tail is padded with silence")

	out = []byte{9, 9}
	assert.True(t, src.fill(out))
	assert.Equal(t, []byte{0, 0}, out)
}

func TestIntTo16(t *testing.T) {
	tests := []struct {
		name  string
		depth int
		in    int
		want  int16
	}{
		{"8-bit", 8, -1, -256},
		{"12-bit", 12, 42, 672},
		{"16-bit", 16, -1234, -1234},
		{"24-bit", 24, 0x123400, 0x1234},
		{"32-bit", 32, 0x12340000, 0x1234},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, intTo16(tt.in, tt.depth))
		})
	}
}

func TestFromIntBuffer(t *testing.T) {
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: 48000},
		Data:           []int{0x7fffff, -0x800000},
		SourceBitDepth: 24,
	}

	clip := fromIntBuffer(buf)
	assert.Equal(t, []int16{32767, -32768}, clip.Samples)
	assert.Equal(t, uint32(48000), clip.SampleRate)
	assert.Equal(t, 2, clip.Channels)

	bare := fromIntBuffer(&audio.IntBuffer{Data: []int{7}})
	assert.Equal(t, []int16{7}, bare.Samples, "unknown depth is taken as 16-bit")
	assert.Equal(t, 1, bare.Channels)
}

func TestFloatTo16Clamps(t *testing.T) {
	assert.Equal(t, int16(32767), floatTo16(1.5))
	assert.Equal(t, int16(-32767), floatTo16(-3))
	assert.Equal(t, int16(0), floatTo16(0))
}

func TestLoadClipUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.txt")
	require.NoError(t, os.WriteFile(path, []byte("not audio"), 0644))

	_, err := LoadClip(path)
	assert.ErrorContains(t, err, "unsupported audio format")
	assert.False(t, SupportedFormat(path))
}

func TestLoadClipInvalidAIFF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.AIFF")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0644))

	assert.True(t, SupportedFormat(path))
	_, err := LoadClip(path)
	assert.Error(t, err)
}

func TestLoadClipMissingFile(t *testing.T) {
	_, err := LoadClip("/nonexistent/ding.wav")
	assert.ErrorContains(t, err, "not found")
}

func TestPlayClosedPlayer(t *testing.T) {
	p := &Player{volume: 1.0, timeout: time.Second}
	err := p.PlayTone(880, 10*time.Millisecond)
	assert.ErrorContains(t, err, "closed")
}

func TestPlayEmptyClip(t *testing.T) {
	p := &Player{volume: 1.0, timeout: time.Second}
	assert.ErrorContains(t, p.PlayClip(&Clip{Channels: 1}), "no audio samples")
}

func TestPlayMissingFile(t *testing.T) {
	p := &Player{}
	err := p.Play("/nonexistent/ding.wav")
	assert.ErrorContains(t, err, "not found")
}

func TestNewPlayerUnknownEndpoint(t *testing.T) {
	p, err := NewPlayer(sink.New("{0.0.0.00000000}.{nonexistent}", "NonExistentDevice12345"), 0.3)
	if err == nil {
		p.Close()
		t.Fatal("NewPlayer() expected error for non-existent endpoint")
	}
	if !errors.Is(err, ErrDeviceNotFound) {
		t.Skipf("No audio backend: %v", err)
	}
}

func TestPlayToneOnDefaultDevice(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping sound playback test in short mode")
	}

	p, err := NewPlayer(sink.Empty(), 0.1)
	if err != nil {
		if os.Getenv("CI") != "" {
			t.Skipf("Skipping in CI (no audio backend): %v", err)
		}
		t.Fatalf("NewPlayer() returned error: %v", err)
	}
	defer p.Close()
	p.SetTimeout(2 * time.Second)

	// audible check needs a human; completing without error is enough here
	if err := p.PlayTone(880, 50*time.Millisecond); err != nil {
		t.Logf("PlayTone() returned error (no output device?): %v", err)
	}
}

func TestCloseTwice(t *testing.T) {
	p := &Player{}
	assert.NoError(t, p.Close())
	assert.NoError(t, p.Close())
}
