package audio

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-audio/aiff"
	"github.com/go-audio/audio"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/flac"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/vorbis"
	"github.com/gopxl/beep/wav"
)

// Clip is decoded interleaved 16-bit PCM ready for the output device
type Clip struct {
	Samples    []int16
	SampleRate uint32
	Channels   int
}

// Frames returns the number of sample frames in the clip
func (c *Clip) Frames() int {
	if c.Channels <= 0 {
		return 0
	}
	return len(c.Samples) / c.Channels
}

// Duration returns the playing time of the clip
func (c *Clip) Duration() time.Duration {
	if c.SampleRate == 0 {
		return 0
	}
	return time.Duration(c.Frames()) * time.Second / time.Duration(c.SampleRate)
}

// clipDecoders maps a lower-case file extension to its decoder
var clipDecoders = map[string]func(f *os.File) (*Clip, error){
	".mp3":  func(f *os.File) (*Clip, error) { return decodeStream(mp3.Decode(f)) },
	".wav":  func(f *os.File) (*Clip, error) { return decodeStream(wav.Decode(f)) },
	".flac": func(f *os.File) (*Clip, error) { return decodeStream(flac.Decode(f)) },
	".ogg":  func(f *os.File) (*Clip, error) { return decodeStream(vorbis.Decode(f)) },
	".aiff": decodeAIFF,
	".aif":  decodeAIFF,
}

// SupportedFormat reports whether LoadClip can decode path, judged by its extension
func SupportedFormat(path string) bool {
	_, ok := clipDecoders[strings.ToLower(filepath.Ext(path))]
	return ok
}

// LoadClip decodes an mp3, wav, flac, ogg/vorbis or aiff file
func LoadClip(path string) (*Clip, error) {
	ext := strings.ToLower(filepath.Ext(path))
	decode, ok := clipDecoders[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported audio format: %s", ext)
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("sound file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	clip, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	if len(clip.Samples) == 0 {
		return nil, fmt.Errorf("no audio samples in %s", filepath.Base(path))
	}
	return clip, nil
}

// decodeStream drains a beep stream into a clip. Anything beyond stereo is
// not representable in beep, so channels are capped at two.
func decodeStream(s beep.StreamSeekCloser, format beep.Format, err error) (*Clip, error) {
	if err != nil {
		return nil, err
	}
	defer s.Close()

	channels := format.NumChannels
	if channels < 1 {
		channels = 1
	}
	if channels > 2 {
		channels = 2
	}

	clip := &Clip{SampleRate: uint32(format.SampleRate), Channels: channels}
	if n := s.Len(); n > 0 {
		clip.Samples = make([]int16, 0, n*channels)
	}

	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		for _, frame := range buf[:n] {
			clip.Samples = append(clip.Samples, floatTo16(frame[0]))
			if channels == 2 {
				clip.Samples = append(clip.Samples, floatTo16(frame[1]))
			}
		}
		if !ok || n == 0 {
			break
		}
	}
	return clip, s.Err()
}

func decodeAIFF(f *os.File) (*Clip, error) {
	d := aiff.NewDecoder(f)
	if !d.IsValidFile() {
		return nil, fmt.Errorf("invalid AIFF file")
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read AIFF data: %w", err)
	}
	return fromIntBuffer(buf), nil
}

// fromIntBuffer rescales go-audio integer PCM of any bit depth to 16 bits
func fromIntBuffer(buf *audio.IntBuffer) *Clip {
	clip := &Clip{Samples: make([]int16, len(buf.Data)), Channels: 1}
	if buf.Format != nil {
		clip.SampleRate = uint32(buf.Format.SampleRate)
		if buf.Format.NumChannels > 0 {
			clip.Channels = buf.Format.NumChannels
		}
	}

	depth := buf.SourceBitDepth
	if depth <= 0 {
		depth = 16
	}
	for i, v := range buf.Data {
		clip.Samples[i] = intTo16(v, depth)
	}
	return clip
}

// intTo16 keeps the top 16 bits of a depth-bit sample, or widens a narrower one
func intTo16(v, depth int) int16 {
	switch {
	case depth > 16:
		return int16(v >> (depth - 16))
	case depth < 16:
		return int16(v << (16 - depth))
	default:
		return int16(v)
	}
}

func floatTo16(v float64) int16 {
	return int16(math.Max(-1, math.Min(1, v)) * math.MaxInt16)
}

// Tone synthesizes a mono 16-bit sine wave with short linear fades at both ends
func Tone(freqHz float64, d time.Duration, sampleRate int) *audio.IntBuffer {
	n := int(math.Round(d.Seconds() * float64(sampleRate)))
	if n < 0 {
		n = 0
	}
	fade := int(fadeDuration.Seconds() * float64(sampleRate))
	if fade*2 > n {
		fade = n / 2
	}

	data := make([]int, n)
	for i := range data {
		amp := 1.0
		switch {
		case i < fade:
			amp = float64(i) / float64(fade)
		case i >= n-fade:
			amp = float64(n-1-i) / float64(fade)
		}
		data[i] = int(math.Round(amp * 0.8 * 32767 * math.Sin(2*math.Pi*freqHz*float64(i)/float64(sampleRate))))
	}

	return &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
}

// ToneClip is Tone at ToneSampleRate, ready to play
func ToneClip(freqHz float64, d time.Duration) *Clip {
	return fromIntBuffer(Tone(freqHz, d, ToneSampleRate))
}
