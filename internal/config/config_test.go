package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, ":50001", cfg.Addr)
	assert.Equal(t, "Standard", string(cfg.GameMode()))
	assert.Equal(t, 501, cfg.Start)
	assert.Equal(t, 9600, cfg.SerialBaud)
	assert.Equal(t, []string{"Foo", "Bar", "Baz"}, cfg.SeedPlayers())

	dev, err := cfg.Device()
	require.NoError(t, err)
	assert.Empty(t, dev)
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("DARTS_MODE=Cricket\nDARTS_PLAYERS=Ann, ,Bob\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("DARTS_MODE")
		os.Unsetenv("DARTS_PLAYERS")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Cricket", string(cfg.GameMode()))
	assert.Equal(t, []string{"Ann", "Bob"}, cfg.SeedPlayers())
}

func TestLoadRejectsBadValues(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.env")

	t.Run("mode", func(t *testing.T) {
		t.Setenv("DARTS_MODE", "Shanghai")
		_, err := Load(missing)
		require.Error(t, err)
		assert.True(t, strings.HasPrefix(err.Error(), "load config:"), err.Error())
	})

	t.Run("start", func(t *testing.T) {
		t.Setenv("DARTS_STANDARD_START", "0")
		_, err := Load(missing)
		assert.Error(t, err)
	})

	t.Run("not an int", func(t *testing.T) {
		t.Setenv("DARTS_SERIAL_BAUD", "fast")
		_, err := Load(missing)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse env:")
	})
}

func TestDevice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "controller-device")
	require.NoError(t, os.WriteFile(path, []byte("/dev/ttyACM0\nignored\n"), 0o600))

	dev, err := Config{SerialDeviceFile: path}.Device()
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyACM0", dev)

	dev, err = Config{SerialDevice: "/dev/ttyUSB1", SerialDeviceFile: path}.Device()
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB1", dev)

	_, err = Config{SerialDeviceFile: filepath.Join(t.TempDir(), "nope")}.Device()
	assert.Error(t, err)
}
