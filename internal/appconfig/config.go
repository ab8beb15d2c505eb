// Package appconfig manages shf's own settings file.
package appconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/treykane/shf/internal/util"
	"gopkg.in/yaml.v3"
)

// UIConfig contains picker display settings.
type UIConfig struct {
	Prompt  string `yaml:"prompt"`
	Preview bool   `yaml:"preview"`
	MaxRows int    `yaml:"max_rows"`
}

// Config holds application-level configuration.
type Config struct {
	SSHConfig string   `yaml:"ssh_config"`
	UI        UIConfig `yaml:"ui"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		SSHConfig: util.DefaultSSHConfig,
		UI: UIConfig{
			Prompt:  util.DefaultPrompt,
			Preview: true,
		},
	}
}

// ConfigDir returns the application config directory path.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config/shf.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "shf"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home: %w", err)
	}
	return filepath.Join(home, ".config", "shf"), nil
}

// FilePath returns the full path to config.yaml.
func FilePath() (string, error) {
	d, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "config.yaml"), nil
}

// Load reads config.yaml from the config directory. A missing file yields
// the defaults; nothing is written.
func Load() (Config, error) {
	path, err := FilePath()
	if err != nil {
		return Default(), err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("read %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Default(), fmt.Errorf("parse %s: %w", path, err)
	}
	return normalize(cfg), nil
}

// Save writes config to config.yaml.
func Save(cfg Config) error {
	path, err := FilePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}

func normalize(cfg Config) Config {
	cfg.SSHConfig = util.DefaultString(strings.TrimSpace(cfg.SSHConfig), util.DefaultSSHConfig)
	if cfg.UI.Prompt == "" {
		cfg.UI.Prompt = util.DefaultPrompt
	}
	if cfg.UI.MaxRows < 0 {
		cfg.UI.MaxRows = 0
	}
	return cfg
}
