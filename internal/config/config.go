package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/777genius/sinkswitch/internal/platform"
	"github.com/777genius/sinkswitch/internal/switcher"
)

const (
	// FileName is the JSON configuration looked up next to the working directory and the binary
	FileName = "sinkswitch.json"
	// LegacyFileName is the two-line file: first device name on line 1, second on line 2
	LegacyFileName = "config"
	// EnvConfigPath names an explicit configuration file
	EnvConfigPath = "SINKSWITCH_CONFIG"
)

// Config represents the switcher configuration
type Config struct {
	Devices      DevicesConfig      `json:"devices"`
	Confirmation ConfirmationConfig `json:"confirmation"`
	Desktop      DesktopConfig      `json:"desktop"`

	// source is the file the config was read from, empty for defaults
	source string
}

// DevicesConfig names the two endpoints to toggle between (case-insensitive substrings)
type DevicesConfig struct {
	First  string `json:"first"`
	Second string `json:"second"`
}

// ConfirmationConfig controls the sound played after a successful switch
type ConfirmationConfig struct {
	Enabled bool    `json:"enabled"`
	Sound   string  `json:"sound"`   // Path to mp3/wav/flac/ogg/aiff clip (empty = built-in beep)
	Volume  float64 `json:"volume"`  // Volume level 0.0-1.0, default 1.0
	ToneHz  float64 `json:"toneHz"`  // Built-in beep frequency, default 880
	ToneMs  int     `json:"toneMs"`  // Built-in beep length in milliseconds, default 180
	Timeout string  `json:"timeout"` // Give up waiting for playback after this long, default "5s"
}

// DesktopConfig controls the optional desktop notification
type DesktopConfig struct {
	Enabled bool   `json:"enabled"`
	AppIcon string `json:"appIcon"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Confirmation: ConfirmationConfig{
			Enabled: true,
			Volume:  1.0,
			ToneHz:  880,
			ToneMs:  180,
			Timeout: "5s",
		},
		Desktop: DesktopConfig{
			Enabled: false,
		},
	}
}

// Load loads configuration from a JSON file
// If the file doesn't exist, returns default config
func Load(path string) (*Config, error) {
	if !platform.FileExists(path) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	config.source = path

	config.Confirmation.Sound = platform.ExpandEnv(config.Confirmation.Sound)
	config.Desktop.AppIcon = platform.ExpandEnv(config.Desktop.AppIcon)

	config.ApplyDefaults()

	return config, nil
}

// LoadLegacy reads the two-line device file: line 1 is the first device, line 2
// the second. Lines are trimmed; a blank line leaves its device unset.
func LoadLegacy(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read device file: %w", err)
	}

	names := strings.SplitN(string(data), "\n", 3)
	for i := range names {
		names[i] = strings.TrimSpace(names[i])
	}

	config := DefaultConfig()
	config.source = path
	if len(names) > 0 {
		config.Devices.First = names[0]
	}
	if len(names) > 1 {
		config.Devices.Second = names[1]
	}
	return config, nil
}

// Discover finds the configuration to use. Order: $SINKSWITCH_CONFIG, then
// sinkswitch.json and the legacy file in each of dirs. No file at all yields defaults.
func Discover(dirs ...string) (*Config, error) {
	if explicit := strings.TrimSpace(os.Getenv(EnvConfigPath)); explicit != "" {
		if !platform.FileExists(explicit) {
			return nil, fmt.Errorf("config file from %s not found: %s", EnvConfigPath, explicit)
		}
		if filepath.Base(explicit) == LegacyFileName {
			return LoadLegacy(explicit)
		}
		return Load(explicit)
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if path := filepath.Join(dir, FileName); platform.FileExists(path) {
			return Load(path)
		}
		if path := filepath.Join(dir, LegacyFileName); isRegularFile(path) {
			return LoadLegacy(path)
		}
	}

	return DefaultConfig(), nil
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// ApplyDefaults fills in missing fields with default values
func (c *Config) ApplyDefaults() {
	c.Devices.First = strings.TrimSpace(c.Devices.First)
	c.Devices.Second = strings.TrimSpace(c.Devices.Second)

	if c.Confirmation.Volume == 0 {
		c.Confirmation.Volume = 1.0
	}
	if c.Confirmation.ToneHz == 0 {
		c.Confirmation.ToneHz = 880
	}
	if c.Confirmation.ToneMs == 0 {
		c.Confirmation.ToneMs = 180
	}
	if c.Confirmation.Timeout == "" {
		c.Confirmation.Timeout = "5s"
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Confirmation.Volume < 0.0 || c.Confirmation.Volume > 1.0 {
		return fmt.Errorf("confirmation volume must be between 0.0 and 1.0 (got %.2f)", c.Confirmation.Volume)
	}
	if c.Confirmation.ToneHz < 20 || c.Confirmation.ToneHz > 20000 {
		return fmt.Errorf("confirmation toneHz must be between 20 and 20000 (got %.0f)", c.Confirmation.ToneHz)
	}
	if c.Confirmation.ToneMs <= 0 || c.Confirmation.ToneMs > 5000 {
		return fmt.Errorf("confirmation toneMs must be between 1 and 5000 (got %d)", c.Confirmation.ToneMs)
	}
	if _, err := c.ConfirmationTimeout(); err != nil {
		return err
	}
	if c.Confirmation.Sound != "" && !platform.FileExists(c.Confirmation.Sound) {
		return fmt.Errorf("confirmation sound not found: %s", c.Confirmation.Sound)
	}
	return nil
}

// Source returns the file the configuration came from, or "" for defaults
func (c *Config) Source() string {
	return c.source
}

// HasDevices returns true if both device names are configured
func (c *Config) HasDevices() bool {
	return c.Devices.First != "" && c.Devices.Second != ""
}

// Needles returns the two configured device names, or a ConfigurationError if either is missing
func (c *Config) Needles() (string, string, error) {
	if c.HasDevices() {
		return c.Devices.First, c.Devices.Second, nil
	}

	source := c.source
	if source == "" {
		source = "defaults"
	}
	var missing []string
	if c.Devices.First == "" {
		missing = append(missing, "first")
	}
	if c.Devices.Second == "" {
		missing = append(missing, "second")
	}
	return "", "", &switcher.ConfigurationError{
		Source: source,
		Err:    errors.New("missing device name: " + strings.Join(missing, ", ")),
	}
}

// IsConfirmationEnabled returns true if a sound should play after switching
func (c *Config) IsConfirmationEnabled() bool {
	return c.Confirmation.Enabled
}

// ConfirmationTimeout parses Confirmation.Timeout
func (c *Config) ConfirmationTimeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.Confirmation.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid confirmation timeout %q: %w", c.Confirmation.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("confirmation timeout must be positive (got %s)", d)
	}
	return d, nil
}

// IsDesktopEnabled returns true if desktop notifications are enabled
func (c *Config) IsDesktopEnabled() bool {
	return c.Desktop.Enabled
}
