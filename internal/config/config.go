// Package config handles configuration loading, validation, and hot reload
// for the menuguard daemon.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"menuguard"
)

// Config holds the complete daemon configuration.
type Config struct {
	// DummyKey names the virtual key injected to defeat the menu trigger.
	// See KeyCode for recognized names. Default "none".
	DummyKey string `toml:"dummy_key"`

	// Policy selects the suppression decision.
	Policy PolicyConfig `toml:"policy"`

	// Logging configures the daemon's log output.
	Logging LoggingConfig `toml:"logging"`
}

// PolicyConfig selects and parameterizes the suppression policy.
type PolicyConfig struct {
	// Mode is "always" (suppress every watched release) or "held"
	// (suppress only releases held longer than HoldThresholdMs).
	Mode string `toml:"mode"`

	// HoldThresholdMs is the hold threshold for mode "held", in
	// milliseconds.
	HoldThresholdMs int `toml:"hold_threshold_ms"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	// Level is "debug", "info", "warn" or "error".
	Level string `toml:"level"`

	// Format is "text" or "json".
	Format string `toml:"format"`

	// Output is "stderr" or "stdout".
	Output string `toml:"output"`
}

// Policy modes.
const (
	ModeAlways = "always"
	ModeHeld   = "held"
)

// Default returns the daemon's default configuration.
func Default() *Config {
	return &Config{
		DummyKey: "none",
		Policy: PolicyConfig{
			Mode:            ModeAlways,
			HoldThresholdMs: 300,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// Load reads, parses and validates the configuration file at path.
// Unset fields keep their defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file %s does not exist", path)
		}
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate %s: %w", path, err)
	}
	return cfg, nil
}

// keyCodes maps config names to injectable virtual keys. All of them are
// chosen to have no visible effect in ordinary applications.
var keyCodes = map[string]menuguard.VirtualKey{
	"none": menuguard.VKNone,
	"f13":  0x7C,
	"f14":  0x7D,
	"f15":  0x7E,
	"f16":  0x7F,
	"f17":  0x80,
	"f18":  0x81,
	"f19":  0x82,
	"f20":  0x83,
	"f21":  0x84,
	"f22":  0x85,
	"f23":  0x86,
	"f24":  0x87,
}

// KeyCode resolves a dummy-key name from the config.
func KeyCode(name string) (menuguard.VirtualKey, bool) {
	vk, ok := keyCodes[name]
	return vk, ok
}

// BuildGuardConfig translates the daemon configuration into the library's
// hook configuration. The config must have been validated.
func (c *Config) BuildGuardConfig() menuguard.Config {
	vk, _ := KeyCode(c.DummyKey)
	out := menuguard.Config{DummyKey: vk}
	if c.Policy.Mode == ModeHeld {
		out.Policy = menuguard.SuppressHeldLongerThan(
			time.Duration(c.Policy.HoldThresholdMs) * time.Millisecond)
	}
	return out
}
