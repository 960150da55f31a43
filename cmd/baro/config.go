package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the reader configuration.
type Config struct {
	Bus              int           `yaml:"bus"`               // I2C bus line number
	Address          int           `yaml:"address"`           // I2C device address
	Oversampling     string        `yaml:"oversampling"`      // one of the five OSR names
	Interval         time.Duration `yaml:"interval"`          // time between reads
	SeaLevelPressure float64       `yaml:"sealevel_pressure"` // reference pressure for altitude (Pa)
	Compensate       bool          `yaml:"compensate"`        // apply second-order compensation
	Mock             bool          `yaml:"mock"`              // run against a simulated sensor
	Debug            bool          `yaml:"debug"`             // verbose logging
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	return &Config{
		Bus:              1,
		Address:          0x77,
		Oversampling:     "high_res",
		Interval:         time.Second,
		SeaLevelPressure: 101325,
	}
}

// Load reads a configuration from a YAML file, filling in defaults for
// omitted fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.ensureDefaults()

	return cfg, nil
}

func (c *Config) ensureDefaults() {
	def := Default()
	if c.Bus == 0 {
		c.Bus = def.Bus
	}
	if c.Address == 0 {
		c.Address = def.Address
	}
	if c.Oversampling == "" {
		c.Oversampling = def.Oversampling
	}
	if c.Interval == 0 {
		c.Interval = def.Interval
	}
	if c.SeaLevelPressure == 0 {
		c.SeaLevelPressure = def.SeaLevelPressure
	}
}
