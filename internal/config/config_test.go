// ABOUTME: Tests for config loading: defaults, YAML overlay, env expansion, and overrides
// ABOUTME: Uses t.TempDir files and t.Setenv; not parallel because of the environment

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFile_MissingUsesDefaults(t *testing.T) {
	c, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if c.DefaultCommand != DefaultCommand || c.Prompt != "> " || c.Theme != "default" {
		t.Errorf("defaults = %+v", c)
	}
}

func TestLoadFile_Overlay(t *testing.T) {
	t.Setenv("SKGO_TEST_ROOT", "/srv")
	path := writeConfig(t, `
default_command: "find ${SKGO_TEST_ROOT} -type f"
theme: dark
bind: "ctrl-j:accept"
colors:
  match: "108"
`)

	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if c.DefaultCommand != "find /srv -type f" {
		t.Errorf("DefaultCommand = %q", c.DefaultCommand)
	}
	if c.Theme != "dark" || c.Bind != "ctrl-j:accept" || c.Colors["match"] != "108" {
		t.Errorf("config = %+v", c)
	}
	if c.Prompt != "> " {
		t.Errorf("Prompt = %q, want default kept", c.Prompt)
	}
}

func TestLoadFile_EnvOverrides(t *testing.T) {
	t.Setenv(EnvDefaultCommand, "ls")
	t.Setenv(EnvLogLevel, "debug")
	path := writeConfig(t, "default_command: find .\n")

	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if c.DefaultCommand != "ls" || c.LogLevel != "debug" {
		t.Errorf("overrides not applied: %+v", c)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	tests := map[string]string{
		"malformed":   "theme: [unclosed\n",
		"unknown key": "colour: red\n",
	}
	for name, body := range tests {
		if _, err := LoadFile(writeConfig(t, body)); err == nil {
			t.Errorf("%s: LoadFile() succeeded, want error", name)
		}
	}
}

func TestLoadFile_Empty(t *testing.T) {
	c, err := LoadFile(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("LoadFile(empty) error: %v", err)
	}
	if c.DefaultCommand != DefaultCommand {
		t.Errorf("DefaultCommand = %q", c.DefaultCommand)
	}
}

func TestFile_EnvOverride(t *testing.T) {
	t.Setenv(EnvConfig, "/tmp/custom.yaml")
	if got := File(); got != "/tmp/custom.yaml" {
		t.Errorf("File() = %q", got)
	}
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("SKGO_TEST_HOST", "localhost")
	if got := expandEnv("http://${SKGO_TEST_HOST}:8080"); got != "http://localhost:8080" {
		t.Errorf("expandEnv = %q", got)
	}
	if got := expandEnv("${SKGO_DEFINITELY_UNSET}"); got != "" {
		t.Errorf("expandEnv(unset) = %q", got)
	}
}
