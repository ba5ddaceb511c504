// ABOUTME: CLI tool for previewing the switch confirmation sound.
// ABOUTME: Plays a clip (MP3, WAV, FLAC, OGG/Vorbis, AIFF) or the built-in beep via the malgo backend.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/777genius/sinkswitch/internal/audio"
	"github.com/777genius/sinkswitch/internal/sink"
)

func main() {
	// Define flags
	volumeFlag := flag.Float64("volume", 1.0, "Volume level (0.0 to 1.0)")
	deviceFlag := flag.String("device", "", "Output endpoint id or name as printed by list-devices (empty = system default)")
	toneFlag := flag.Float64("tone", 880, "Built-in beep frequency in Hz (used when no file is given)")
	lengthFlag := flag.Duration("length", 180*time.Millisecond, "Built-in beep length")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: sound-preview [options] [path-to-audio-file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nSupported formats: MP3, WAV, FLAC, OGG/Vorbis, AIFF\n")
		fmt.Fprintf(os.Stderr, "Without a file the built-in confirmation beep is played.\n\n")
		fmt.Fprintf(os.Stderr, "Examples:\n")
		fmt.Fprintf(os.Stderr, "  sound-preview\n")
		fmt.Fprintf(os.Stderr, "  sound-preview --tone 660 --length 300ms\n")
		fmt.Fprintf(os.Stderr, "  sound-preview --volume 0.3 C:\\Windows\\Media\\ding.wav\n")
		fmt.Fprintf(os.Stderr, "  sound-preview --device \"Headset\"\n")
		fmt.Fprintf(os.Stderr, "\nList available devices:\n")
		fmt.Fprintf(os.Stderr, "  list-devices\n")
	}
	flag.Parse()

	// Validate volume range
	if *volumeFlag < 0.0 || *volumeFlag > 1.0 {
		fmt.Fprintf(os.Stderr, "Error: Volume must be between 0.0 and 1.0 (got %.2f)\n", *volumeFlag)
		os.Exit(1)
	}

	if flag.NArg() > 1 {
		flag.Usage()
		os.Exit(1)
	}

	soundPath := flag.Arg(0)
	if soundPath != "" {
		if _, err := os.Stat(soundPath); os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Error: Sound file not found: %s\n", soundPath)
			os.Exit(1)
		}
		if !audio.SupportedFormat(soundPath) {
			fmt.Fprintf(os.Stderr, "Error: Unsupported audio format: %s\n", filepath.Ext(soundPath))
			os.Exit(1)
		}
	} else if *lengthFlag <= 0 || *toneFlag <= 0 {
		fmt.Fprintf(os.Stderr, "Error: Tone frequency and length must be positive\n")
		os.Exit(1)
	}

	label := fmt.Sprintf("beep %.0fHz %s", *toneFlag, *lengthFlag)
	if soundPath != "" {
		label = filepath.Base(soundPath)
	}
	volumePercent := int(*volumeFlag * 100)
	if *deviceFlag != "" {
		fmt.Printf("🔊 Playing: %s (volume: %d%%, device: %s)\n", label, volumePercent, *deviceFlag)
	} else {
		fmt.Printf("🔊 Playing: %s (volume: %d%%)\n", label, volumePercent)
	}

	// Create audio player with device selection
	target := sink.Empty()
	if *deviceFlag != "" {
		target = sink.New(*deviceFlag, *deviceFlag)
	}
	player, err := audio.NewPlayer(target, *volumeFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating audio player: %v\n", err)
		os.Exit(1)
	}
	defer player.Close()

	if soundPath != "" {
		err = player.Play(soundPath)
	} else {
		err = player.PlayTone(*toneFlag, *lengthFlag)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error playing sound: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("✓ Playback completed")
}
