package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "relay.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB0", cfg.GNSSPort)
	assert.Equal(t, "/dev/ttyUSB1", cfg.RadioPort)
	assert.Equal(t, 57600, cfg.GNSS.BaudRate)
	assert.Equal(t, 9600, cfg.Radio.BaudRate)
	assert.False(t, cfg.Debug)

	flash, err := cfg.Flash()
	require.NoError(t, err)
	assert.Equal(t, 100*time.Millisecond, flash)
}

func TestLoadFile(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, `
gnss_port = "/dev/ttyAMA0"
radio_port = "/dev/ttyAMA1"
flash_duration = "250ms"
debug = true

[gnss]
baud_rate = 115200

[radio]
baud_rate = 4800
parity = "even"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "/dev/ttyAMA0", cfg.GNSSPort)
	assert.Equal(t, "/dev/ttyAMA1", cfg.RadioPort)
	assert.Equal(t, 115200, cfg.GNSS.BaudRate)
	assert.Equal(t, 4800, cfg.Radio.BaudRate)
	assert.Equal(t, "E", cfg.Radio.Parity)
	assert.True(t, cfg.Debug)

	flash, err := cfg.Flash()
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, flash)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestLoadMalformedFile(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, `gnss_port = [not toml`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateRejectsBadOptions(t *testing.T) {
	t.Parallel()

	t.Run("bad parity", func(t *testing.T) {
		t.Parallel()
		cfg := Default()
		cfg.Radio.Parity = "Q"
		assert.Error(t, cfg.Validate())
	})

	t.Run("bad flash duration", func(t *testing.T) {
		t.Parallel()
		cfg := Default()
		cfg.FlashDuration = "fast"
		assert.Error(t, cfg.Validate())
	})

	t.Run("non-positive flash duration", func(t *testing.T) {
		t.Parallel()
		cfg := Default()
		cfg.FlashDuration = "-5ms"
		assert.Error(t, cfg.Validate())
	})
}
