package notifier

import (
	"errors"
	"fmt"
	"time"

	"github.com/gen2brain/beeep"

	"github.com/777genius/sinkswitch/internal/audio"
	"github.com/777genius/sinkswitch/internal/config"
	"github.com/777genius/sinkswitch/internal/logging"
	"github.com/777genius/sinkswitch/internal/platform"
	"github.com/777genius/sinkswitch/internal/sink"
)

// AppName is shown as the sender of desktop notifications
const AppName = "Sink Switch"

// soundPlayer is the part of audio.Player the notifier uses
type soundPlayer interface {
	Play(soundPath string) error
	PlayTone(freqHz float64, d time.Duration) error
	SetTimeout(d time.Duration)
	Close() error
}

// Notifier signals a finished switch: a confirmation sound on the new default
// device and, if enabled, a desktop notification.
type Notifier struct {
	cfg       *config.Config
	newPlayer func(target sink.Sink, volume float64) (soundPlayer, error)
	notify    func(title, message, icon string) error
}

// New creates a new notifier
func New(cfg *config.Config) *Notifier {
	return &Notifier{
		cfg: cfg,
		newPlayer: func(target sink.Sink, volume float64) (soundPlayer, error) {
			return audio.NewPlayer(target, volume)
		},
		notify: sendWithBeeep,
	}
}

// Switched confirms that chosen is now the default output. Failures are
// logged and joined; they never undo the switch.
func (n *Notifier) Switched(chosen sink.Sink) error {
	var errs []error

	if err := n.PlayConfirmation(chosen); err != nil {
		logging.Warn("Confirmation sound failed: %v", err)
		errs = append(errs, err)
	}

	if n.cfg.IsDesktopEnabled() {
		if err := n.notify("Default output changed", chosen.Name, n.appIcon()); err != nil {
			logging.Warn("Desktop notification failed: %v", err)
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Failed reports a failed switch on the desktop, if enabled
func (n *Notifier) Failed(cause error) error {
	if !n.cfg.IsDesktopEnabled() || cause == nil {
		return nil
	}
	return n.notify("Audio switch failed", cause.Error(), n.appIcon())
}

// PlayConfirmation plays the configured clip, or the built-in beep, on target.
// When the audio backend does not know target the system default is used.
func (n *Notifier) PlayConfirmation(target sink.Sink) error {
	c := n.cfg.Confirmation
	if !n.cfg.IsConfirmationEnabled() {
		logging.Debug("Confirmation sound disabled, skipping")
		return nil
	}

	player, err := n.newPlayer(target, c.Volume)
	if errors.Is(err, audio.ErrDeviceNotFound) {
		logging.Debug("No playback device for %s, using the system default", target)
		player, err = n.newPlayer(sink.Empty(), c.Volume)
	}
	if err != nil {
		return fmt.Errorf("failed to create audio player: %w", err)
	}
	defer player.Close()

	if timeout, err := n.cfg.ConfirmationTimeout(); err == nil {
		player.SetTimeout(timeout)
	}

	if c.Sound != "" {
		return player.Play(c.Sound)
	}
	return player.PlayTone(c.ToneHz, time.Duration(c.ToneMs)*time.Millisecond)
}

func (n *Notifier) appIcon() string {
	icon := n.cfg.Desktop.AppIcon
	if icon != "" && !platform.FileExists(icon) {
		logging.Warn("App icon not found: %s, using default", icon)
		return ""
	}
	return icon
}

// sendWithBeeep sends notification via beeep (cross-platform)
func sendWithBeeep(title, message, appIcon string) error {
	// Windows keeps one registry entry per AppName, so keep it fixed
	originalAppName := beeep.AppName
	beeep.AppName = AppName
	defer func() {
		beeep.AppName = originalAppName
	}()

	if err := beeep.Notify(title, message, appIcon); err != nil {
		return err
	}

	logging.Debug("Desktop notification sent via beeep: title=%s", title)
	return nil
}
