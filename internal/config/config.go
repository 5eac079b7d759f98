// Package config loads gvm settings from the user's config file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"

	"github.com/frederic-klein/gvm/internal/catalog"
)

const (
	configDirName  = ".gvm"
	configFileName = "config.yaml"

	defaultHTTPTimeout = 30 * time.Second
)

// Config holds the resolved settings for one invocation.
type Config struct {
	// BinDir is where toolchain wrappers and the active pointer live.
	BinDir string
	// IndexURL is the remote catalog endpoint.
	IndexURL string
	// HTTPTimeout bounds catalog requests.
	HTTPTimeout time.Duration
}

// fileConfig mirrors the YAML file. Every field is optional.
type fileConfig struct {
	BinDir      string `yaml:"bin_dir"`
	IndexURL    string `yaml:"index_url"`
	HTTPTimeout string `yaml:"http_timeout"`
}

// Load reads ~/.gvm/config.yaml, falling back to defaults for an absent
// file or absent fields. The default bin directory is ~/go/bin, where
// the golang.org/dl wrappers install themselves.
func Load() (Config, error) {
	home, err := homedir.Dir()
	if err != nil {
		return Config{}, fmt.Errorf("resolving home directory: %w", err)
	}
	return LoadFile(filepath.Join(home, configDirName, configFileName), home)
}

// LoadFile reads the config at path, with defaults derived from home.
func LoadFile(path, home string) (Config, error) {
	cfg := Config{
		BinDir:      filepath.Join(home, "go", "bin"),
		IndexURL:    catalog.DefaultIndexURL,
		HTTPTimeout: defaultHTTPTimeout,
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}

	if fc.BinDir != "" {
		expanded, err := homedir.Expand(fc.BinDir)
		if err != nil {
			return Config{}, fmt.Errorf("parsing %s: bin_dir: %w", path, err)
		}
		cfg.BinDir = expanded
	}
	if fc.IndexURL != "" {
		cfg.IndexURL = fc.IndexURL
	}
	if fc.HTTPTimeout != "" {
		timeout, err := time.ParseDuration(fc.HTTPTimeout)
		if err != nil {
			return Config{}, fmt.Errorf("parsing %s: http_timeout: %w", path, err)
		}
		cfg.HTTPTimeout = timeout
	}
	return cfg, nil
}
