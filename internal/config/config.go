// Package config loads the relay's TOML configuration file and applies
// defaults matching the reference hardware: a ZED-F9P correction stream in
// and an HC-12 radio out.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/ghost-rover/rtcm-relay/internal/indicator"
	"github.com/ghost-rover/rtcm-relay/internal/serialport"
)

// Config is the root configuration for the relay process.
type Config struct {
	// GNSSPort is the serial device carrying RTCM3 corrections in.
	GNSSPort string `toml:"gnss_port"`
	// RadioPort is the serial device the corrections are relayed to.
	RadioPort string `toml:"radio_port"`

	GNSS  serialport.PortOptions `toml:"gnss"`
	Radio serialport.PortOptions `toml:"radio"`

	// FlashDuration is how long the indicator stays on per sentence,
	// as a duration string like "100ms".
	FlashDuration string `toml:"flash_duration"`

	// Debug enables the verbose sentence dump at startup.
	Debug bool `toml:"debug"`
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	return Config{
		GNSSPort:      "/dev/ttyUSB0",
		RadioPort:     "/dev/ttyUSB1",
		GNSS:          serialport.GNSSDefaults(),
		Radio:         serialport.RadioDefaults(),
		FlashDuration: indicator.DefaultFlashDuration.String(),
	}
}

// Load reads a TOML file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Flash parses the configured flash duration.
func (c Config) Flash() (time.Duration, error) {
	if c.FlashDuration == "" {
		return indicator.DefaultFlashDuration, nil
	}
	d, err := time.ParseDuration(c.FlashDuration)
	if err != nil {
		return 0, fmt.Errorf("invalid flash_duration %q: %w", c.FlashDuration, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid flash_duration %q: must be positive", c.FlashDuration)
	}
	return d, nil
}

// Validate normalizes both port option sets and checks the flash duration.
func (c *Config) Validate() error {
	gnss, err := c.GNSS.Normalize()
	if err != nil {
		return fmt.Errorf("gnss: %w", err)
	}
	c.GNSS = gnss

	radio, err := c.Radio.Normalize()
	if err != nil {
		return fmt.Errorf("radio: %w", err)
	}
	c.Radio = radio

	if _, err := c.Flash(); err != nil {
		return err
	}
	return nil
}
