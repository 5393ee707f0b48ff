// ABOUTME: Standard filesystem paths for sk-go configuration
// ABOUTME: Resolves ~/.sk-go/config.yaml, overridable with SK_GO_CONFIG

package config

import (
	"os"
	"path/filepath"
)

const globalDirName = ".sk-go"

// GlobalDir returns the user-global config directory (~/.sk-go/).
func GlobalDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", globalDirName)
	}
	return filepath.Join(home, globalDirName)
}

// File returns the config file path: $SK_GO_CONFIG when set, else
// ~/.sk-go/config.yaml.
func File() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	return filepath.Join(GlobalDir(), "config.yaml")
}
