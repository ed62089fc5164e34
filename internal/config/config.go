// Package config loads optional provisioning overrides from a TOML file and
// supplies the built-in defaults.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config carries every tunable of a provisioning run. Flags override file
// values; file values override defaults.
type Config struct {
	InstallDir string `toml:"install_dir"` // Android SDK root
	FlutterDir string `toml:"flutter_dir"`
	Profile    string `toml:"profile"` // shell profile file; empty = detect
	Waydroid   bool   `toml:"waydroid"`

	SDK SDKConfig `toml:"sdk"`

	// ExtraPackages installs alongside the built-in toolchain list.
	ExtraPackages []string `toml:"extra_packages"`
}

// SDKConfig pins the command-line tools download and sub-package versions.
// URL and Version are optional overrides; when both are empty the vendor
// download page is scraped.
type SDKConfig struct {
	URL        string `toml:"url"`
	Version    string `toml:"version"`
	Platform   string `toml:"platform"`
	BuildTools string `toml:"build_tools"`
}

// Default returns the built-in configuration.
func Default() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("HOME")
	}

	return &Config{
		InstallDir: filepath.Join(home, "Android", "Sdk"),
		FlutterDir: filepath.Join(home, "development", "flutter"),
		SDK: SDKConfig{
			Platform:   "platforms;android-34",
			BuildTools: "build-tools;34.0.0",
		},
	}
}

// DefaultPath is where Load looks when no --config flag is given.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "mobiledev", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("HOME")
	}
	return filepath.Join(home, ".config", "mobiledev", "config.toml")
}

// Load reads path over the defaults. A missing file at the default path is
// not an error; an explicit path must exist.
func Load(path string, explicit bool) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return nil, err
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
