package domain

import "fmt"

// EngineConfig holds engine configuration loaded from .ordercraft.yaml.
type EngineConfig struct {
	Catalog CatalogConfig `yaml:"catalog" json:"catalog"`
	Store   StoreConfig   `yaml:"store"   json:"store"`
	Server  ServerConfig  `yaml:"server"  json:"server"`
}

// CatalogConfig tunes catalog lookup and match disambiguation. A candidate
// counts as a match when its score reaches ScoreThreshold; two candidates
// within AmbiguityMargin of the top score are treated as equally ranked.
type CatalogConfig struct {
	Path            string  `yaml:"path"             json:"path"`
	ScoreThreshold  float64 `yaml:"score_threshold"  json:"score_threshold"`
	AmbiguityMargin float64 `yaml:"ambiguity_margin" json:"ambiguity_margin"`
	MaxResults      int     `yaml:"max_results"      json:"max_results"`
}

// StoreConfig locates the order database.
type StoreConfig struct {
	Path string `yaml:"path" json:"path"`
}

// ServerConfig holds the REST listener address.
type ServerConfig struct {
	Addr string `yaml:"addr" json:"addr"`
}

// DefaultEngineConfig returns the defaults used when no config file exists.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Catalog: CatalogConfig{
			Path:            "data/products.json",
			ScoreThreshold:  0.3,
			AmbiguityMargin: 0.1,
			MaxResults:      5,
		},
		Store:  StoreConfig{Path: "orders.db"},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// Validate checks the config for invalid values and returns a descriptive error.
func (c EngineConfig) Validate() error {
	// 1. catalog path must be set
	if c.Catalog.Path == "" {
		return fmt.Errorf("catalog.path must not be empty")
	}

	// 2. score_threshold must be a usable cutoff
	if c.Catalog.ScoreThreshold < 0 || c.Catalog.ScoreThreshold > 1 {
		return fmt.Errorf("catalog.score_threshold = %.2f (must be between 0.0 and 1.0)", c.Catalog.ScoreThreshold)
	}

	// 3. ambiguity_margin must stay inside the score range
	if c.Catalog.AmbiguityMargin < 0 || c.Catalog.AmbiguityMargin > 1 {
		return fmt.Errorf("catalog.ambiguity_margin = %.2f (must be between 0.0 and 1.0)", c.Catalog.AmbiguityMargin)
	}

	// 4. max_results must be a small positive window
	if c.Catalog.MaxResults < 1 || c.Catalog.MaxResults > 50 {
		return fmt.Errorf("catalog.max_results = %d (must be between 1 and 50)", c.Catalog.MaxResults)
	}

	// 5. store path must be set
	if c.Store.Path == "" {
		return fmt.Errorf("store.path must not be empty")
	}

	// 6. server addr must be set
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}

	return nil
}
