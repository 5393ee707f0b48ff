// ABOUTME: Environment overrides and ${VAR} expansion for config string fields
// ABOUTME: SK_GO_* variables win over the file; unset ${VAR} references become empty

package config

import (
	"os"
	"regexp"
)

// Environment variables read by Load.
const (
	EnvConfig         = "SK_GO_CONFIG"
	EnvDefaultCommand = "SK_GO_DEFAULT_COMMAND"
	EnvLogFile        = "SK_GO_LOG"
	EnvLogLevel       = "SK_GO_LOG_LEVEL"
)

var envVarPattern = regexp.MustCompile(`\$\{(\w+)\}`)

// resolveEnv expands ${VAR} patterns in c and applies SK_GO_* overrides.
func resolveEnv(c *Config) {
	c.DefaultCommand = expandEnv(c.DefaultCommand)
	c.Bind = expandEnv(c.Bind)
	c.Prompt = expandEnv(c.Prompt)
	c.LogFile = expandEnv(c.LogFile)

	if v := os.Getenv(EnvDefaultCommand); v != "" {
		c.DefaultCommand = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		c.LogFile = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}

// expandEnv replaces ${VAR} with os.Getenv(VAR). Unset vars become "".
func expandEnv(s string) string {
	if s == "" {
		return s
	}
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(envVarPattern.FindStringSubmatch(match)[1])
	})
}
