// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package todo

import (
	"os"
	"time"

	"github.com/juju/errors"
	"gopkg.in/yaml.v3"

	"github.com/juju/skelethon/core/render"
)

// Config is the content of the configuration file.
type Config struct {
	// DB is the path of the task store.
	DB string `yaml:"db"`

	// FrameInterval is the time between a change and its render.
	FrameInterval time.Duration `yaml:"frame-interval"`

	// SaveDelay is how long changes are collected before being saved.
	SaveDelay time.Duration `yaml:"save-delay"`

	// Color forces coloured output on or off. By default it is used on
	// terminals only.
	Color *bool `yaml:"color,omitempty"`

	// Seed holds the labels of the tasks created when the store is empty.
	Seed []string `yaml:"seed,omitempty"`
}

// DefaultConfig returns the configuration used when there is no file.
func DefaultConfig() Config {
	return Config{
		DB:            "todo.db",
		FrameInterval: render.DefaultFrameInterval,
		SaveDelay:     time.Second,
	}
}

// Validate ensures that the config values are valid.
func (c Config) Validate() error {
	if c.DB == "" {
		return errors.NotValidf("empty db path")
	}
	if c.FrameInterval <= 0 {
		return errors.NotValidf("frame-interval %v", c.FrameInterval)
	}
	if c.SaveDelay < 0 {
		return errors.NotValidf("save-delay %v", c.SaveDelay)
	}
	return nil
}

// ParseConfig reads YAML over the default configuration.
func ParseConfig(data []byte) (Config, error) {
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, errors.Annotate(err, "parsing config")
	}
	if err := config.Validate(); err != nil {
		return Config{}, errors.Trace(err)
	}
	return config, nil
}

// ReadConfig reads the configuration file at path. A missing file gives
// the default configuration.
func ReadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		logger.Debugf("no config at %q, using defaults", path)
		return DefaultConfig(), nil
	} else if err != nil {
		return Config{}, errors.Trace(err)
	}
	config, err := ParseConfig(data)
	return config, errors.Annotatef(err, "reading %q", path)
}
