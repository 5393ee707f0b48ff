// ABOUTME: Finder settings loaded from an optional YAML file plus environment overrides
// ABOUTME: A missing file yields defaults; a malformed file is a startup error

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultCommand lists candidates when stdin is a terminal and nothing else is configured.
const DefaultCommand = "find ."

// Config holds the finder settings.
type Config struct {
	DefaultCommand string            `yaml:"default_command"`
	Theme          string            `yaml:"theme"`
	Colors         map[string]string `yaml:"colors"`
	Bind           string            `yaml:"bind"`
	Prompt         string            `yaml:"prompt"`
	LogFile        string            `yaml:"log_file"`
	LogLevel       string            `yaml:"log_level"`
}

// Defaults returns the built-in settings.
func Defaults() *Config {
	return &Config{
		DefaultCommand: DefaultCommand,
		Theme:          "default",
		Prompt:         "> ",
		LogLevel:       "info",
	}
}

// Load reads File() over the defaults and applies environment overrides.
func Load() (*Config, error) {
	return LoadFile(File())
}

// LoadFile reads the YAML file at path over the defaults and applies
// environment overrides. A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	c := Defaults()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := decode(data, c); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	resolveEnv(c)
	return c, nil
}

// decode unmarshals data onto c, rejecting unknown keys so typos surface.
func decode(data []byte, c *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
