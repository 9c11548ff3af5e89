package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ordercraft/ordercraft/internal/domain"
	"gopkg.in/yaml.v3"
)

const fileName = ".ordercraft.yaml"

// YAMLLoader implements domain.ConfigLoader by reading .ordercraft.yaml.
type YAMLLoader struct{}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// Load reads .ordercraft.yaml from dir.
// Returns DefaultEngineConfig if the file does not exist.
func (l *YAMLLoader) Load(dir string) (domain.EngineConfig, error) {
	data, err := os.ReadFile(filepath.Join(dir, fileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.DefaultEngineConfig(), nil
		}
		return domain.EngineConfig{}, err
	}

	var cfg domain.EngineConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.EngineConfig{}, fmt.Errorf("parsing %s: %w", fileName, err)
	}

	// Partial files are the norm; unset keys take the defaults. A zero
	// value counts as unset.
	cfg = mergeConfig(domain.DefaultEngineConfig(), cfg)

	if err := cfg.Validate(); err != nil {
		return domain.EngineConfig{}, fmt.Errorf("invalid %s: %w", fileName, err)
	}

	return cfg, nil
}

// mergeConfig overlays explicit overrides on top of the defaults.
// Explicit (non-zero) values always win.
func mergeConfig(base, override domain.EngineConfig) domain.EngineConfig {
	result := base

	if override.Catalog.Path != "" {
		result.Catalog.Path = override.Catalog.Path
	}
	if override.Catalog.ScoreThreshold != 0 {
		result.Catalog.ScoreThreshold = override.Catalog.ScoreThreshold
	}
	if override.Catalog.AmbiguityMargin != 0 {
		result.Catalog.AmbiguityMargin = override.Catalog.AmbiguityMargin
	}
	if override.Catalog.MaxResults != 0 {
		result.Catalog.MaxResults = override.Catalog.MaxResults
	}
	if override.Store.Path != "" {
		result.Store.Path = override.Store.Path
	}
	if override.Server.Addr != "" {
		result.Server.Addr = override.Server.Addr
	}

	return result
}
