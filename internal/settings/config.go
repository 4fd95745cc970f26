package settings

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prflight-io/prflight/internal/logging"
	"gopkg.in/yaml.v3"
)

// Config holds optional user preferences. The file is read-only from the
// tool's point of view; prflight never writes it.
type Config struct {
	// APIBaseURL overrides the hosting API endpoint, e.g. for a
	// self-hosted instance.
	APIBaseURL string `yaml:"api_base_url"`
	// CheckoutDir overrides where PR working copies are materialized.
	CheckoutDir string `yaml:"checkout_dir"`
	// DefaultRepo is an owner/name pair used when --repo is omitted.
	DefaultRepo string `yaml:"default_repo"`
}

// DefaultConfigPath returns the standard config file location for the
// current user.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user config directory: %w", err)
	}
	return filepath.Join(dir, "prflight", "config.yaml"), nil
}

// LoadConfig reads the config file at path. A missing, unreadable, or
// malformed file degrades to the zero-value config.
func LoadConfig(path string) Config {
	var cfg Config

	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Debug("config file unreadable, using defaults", "path", path, "error", err)
		}
		return cfg
	}

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		logging.Debug("config file malformed, using defaults", "path", path, "error", err)
		return Config{}
	}
	return cfg
}

// CheckoutRoot returns the directory under which PR working copies are
// placed, honoring the config override.
func (c Config) CheckoutRoot() (string, error) {
	if c.CheckoutDir != "" {
		return c.CheckoutDir, nil
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user cache directory: %w", err)
	}
	return filepath.Join(dir, "prflight", "checkouts"), nil
}
