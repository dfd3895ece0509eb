package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	c := NewConfig()

	assert.Equal(t, uint32(10), c.Device.Interval)
	assert.Equal(t, "message", c.Device.Signal)
	assert.Equal(t, 0, c.Device.Gpio)
	assert.Equal(t, 3333, c.ConfServer.Port)
	assert.Equal(t, "http://0.0.0.0:4000", c.Webserver.URL)
	assert.True(t, c.Webserver.Webservices["status"])
	assert.Equal(t, "/fxcard/events", c.MQTT.Topic)
}

func TestLoadConfigFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "fxcard.yaml")
	content := `
debug:
  flag: debug
  file: stdout
device:
  interval: 25
  signal: level
  gpio: 17
confserver:
  port: 4444
webserver:
  url: http://127.0.0.1:8080
mqtt:
  connection: tcp://127.0.0.1:1883
  topic: /lab/fx
`
	require.NoError(t, os.WriteFile(file, []byte(content), 0o644))

	c := NewConfig()
	c.Flag.ConfigFile = file
	require.NoError(t, c.LoadConfig())

	assert.Equal(t, uint32(25), c.Device.Interval)
	assert.Equal(t, "level", c.Device.Signal)
	assert.Equal(t, 17, c.Device.Gpio)
	assert.Equal(t, 4444, c.ConfServer.Port)
	assert.Equal(t, "http://127.0.0.1:8080", c.Webserver.URL)
	assert.Equal(t, "tcp://127.0.0.1:1883", c.MQTT.Connection)
	assert.Equal(t, "/lab/fx", c.MQTT.Topic)
	assert.Equal(t, os.Stdout, c.Debug.File)
	assert.NotZero(t, c.Debug.Flag)
}

func TestLoadConfigMissingFile(t *testing.T) {
	c := NewConfig()
	c.Flag.ConfigFile = filepath.Join(t.TempDir(), "nope.yaml")

	assert.Error(t, c.LoadConfig())
}

func TestLogFlagOverridesFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "fxcard.yaml")
	require.NoError(t, os.WriteFile(file, []byte("debug:\n  flag: standard\n  file: stderr\n"), 0o644))

	c := NewConfig()
	c.Flag.ConfigFile = file
	c.Flag.Debug = "trace"
	require.NoError(t, c.LoadConfig())

	assert.Equal(t, "trace", c.Debug.FlagString)
}
