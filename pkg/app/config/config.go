// Package config holds the application configuration of the fxcard
// service: the device instance, the configuration channel listener, the
// web server and the mqtt client.
package config

import (
	"fmt"
	"io"
	"os"

	"github.com/womat/debug"
	"gopkg.in/yaml.v2"
)

// Config defines the struct of global config and the struct of the configuration file.
type Config struct {
	Flag       FlagConfig       `yaml:"-"`
	Debug      DebugConfig      `yaml:"debug"`
	Device     DeviceConfig     `yaml:"device"`
	ConfServer ConfServerConfig `yaml:"confserver"`
	Webserver  WebserverConfig  `yaml:"webserver"`
	MQTT       MQTTConfig       `yaml:"mqtt"`
}

// FlagConfig defines the configured flags (parameters).
type FlagConfig struct {
	Debug      string
	ConfigFile string
}

// DeviceConfig defines the fx device instance.
//
//	interval is the default base period in tenths of a second
//	signal selects the interrupt style: "message" or "level"
//	gpio mirrors the level line on a physical pin, 0 disables the mirror
type DeviceConfig struct {
	Interval uint32 `yaml:"interval"`
	Signal   string `yaml:"signal"`
	Gpio     int    `yaml:"gpio"`
}

// ConfServerConfig defines the tcp control channel listener.
type ConfServerConfig struct {
	Port int `yaml:"port"`
}

// WebserverConfig defines the struct of the webserver and webservice configuration.
type WebserverConfig struct {
	URL         string          `yaml:"url"`
	Webservices map[string]bool `yaml:"webservices"`
}

// MQTTConfig defines the struct of the mqtt client configuration.
type MQTTConfig struct {
	Connection string `yaml:"connection"`
	Topic      string `yaml:"topic"`
}

// DebugConfig defines the struct of the debug configuration.
type DebugConfig struct {
	File       io.WriteCloser `yaml:"-"`
	Flag       int            `yaml:"-"`
	FlagString string         `yaml:"flag"`
	FileString string         `yaml:"file"`
}

// NewConfig fills the config structure with the default values.
func NewConfig() *Config {
	return &Config{
		Flag: FlagConfig{},
		Debug: DebugConfig{
			FileString: "stderr",
			FlagString: "standard",
		},
		Device: DeviceConfig{
			Interval: 10,
			Signal:   "message",
			Gpio:     0,
		},
		ConfServer: ConfServerConfig{
			Port: 3333,
		},
		Webserver: WebserverConfig{
			URL: "http://0.0.0.0:4000",
			Webservices: map[string]bool{
				"version":  true,
				"health":   true,
				"status":   true,
				"register": true,
			},
		},
		MQTT: MQTTConfig{
			Connection: "",
			Topic:      "/fxcard/events",
		},
	}
}

// LoadConfig reads the configuration file and prepares the debug logger.
func (c *Config) LoadConfig() error {
	if err := c.readConfigFile(); err != nil {
		return fmt.Errorf("error reading config file %q: %w", c.Flag.ConfigFile, err)
	}

	if c.Flag.Debug != "" {
		c.Debug.FlagString = c.Flag.Debug
	}
	if err := c.setDebugConfig(); err != nil {
		return fmt.Errorf("unable to open debug file %q: %w", c.Debug.FileString, err)
	}

	return nil
}

func (c *Config) readConfigFile() error {
	file, err := os.Open(c.Flag.ConfigFile)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	decoder := yaml.NewDecoder(file)
	if err = decoder.Decode(c); err != nil {
		return err
	}

	return nil
}

func (c *Config) setDebugConfig() (err error) {
	switch c.Debug.FlagString {
	case "trace", "full":
		c.Debug.Flag = debug.Full
	case "debug":
		c.Debug.Flag = debug.Warning | debug.Info | debug.Error | debug.Fatal | debug.Debug
	case "standard":
		c.Debug.Flag = debug.Standard
	}

	switch c.Debug.FileString {
	case "stderr":
		c.Debug.File = os.Stderr
	case "stdout":
		c.Debug.File = os.Stdout
	default:
		if c.Debug.File, err = os.OpenFile(c.Debug.FileString, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666); err != nil {
			return
		}
	}

	return
}
