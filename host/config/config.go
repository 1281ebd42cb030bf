package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the host-side console configuration.
type Config struct {
	Serial  SerialConfig  `yaml:"serial"`
	Console ConsoleConfig `yaml:"console"`
	Feeding FeedingConfig `yaml:"feeding"`
}

// SerialConfig contains serial port configuration.
type SerialConfig struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`
}

// ConsoleConfig contains interactive console behavior.
type ConsoleConfig struct {
	// Echo raw wire traffic alongside the parsed replies.
	ShowWire bool `yaml:"show_wire"`

	// Seconds to wait for an [ACK]/[NAK] before reporting a timeout.
	ReplyTimeoutSec float64 `yaml:"reply_timeout_sec"`
}

// FeedingConfig holds console-side shorthand amounts, kilograms.
type FeedingConfig struct {
	Small  float64 `yaml:"small"`
	Medium float64 `yaml:"medium"`
	Large  float64 `yaml:"large"`
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	return &Config{
		Serial: SerialConfig{
			Port: "/dev/ttyACM0",
			Baud: 115200,
		},
		Console: ConsoleConfig{
			ShowWire:        false,
			ReplyTimeoutSec: 2.0,
		},
		Feeding: FeedingConfig{
			Small:  0.05,
			Medium: 0.10,
			Large:  0.20,
		},
	}
}

// Load loads configuration from a YAML file. A missing file or missing
// fields fall back to defaults.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func Save(cfg *Config, filename string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
