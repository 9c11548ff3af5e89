package cli

import (
	"fmt"
	"path/filepath"

	"github.com/ordercraft/ordercraft/internal/adapters/outbound/catalog"
	"github.com/ordercraft/ordercraft/internal/adapters/outbound/config"
	"github.com/ordercraft/ordercraft/internal/adapters/outbound/orderstore"
	"github.com/ordercraft/ordercraft/internal/application"
	"github.com/ordercraft/ordercraft/internal/domain"
)

// engine bundles the wired services behind every order-facing command.
type engine struct {
	cfg     domain.EngineConfig
	store   *orderstore.Store
	orders  *application.OrderService
	catalog *application.CatalogService
}

// buildEngine loads configuration from dir and wires the catalog, the store
// and the services on top of it. Relative paths in the config file resolve
// against dir.
func buildEngine(dir string) (*engine, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.New().Load(absDir)
	if err != nil {
		return nil, err
	}

	cat, err := catalog.Load(resolvePath(absDir, cfg.Catalog.Path))
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	store, err := orderstore.Open(resolvePath(absDir, cfg.Store.Path))
	if err != nil {
		return nil, fmt.Errorf("opening order store: %w", err)
	}

	return &engine{
		cfg:     cfg,
		store:   store,
		orders:  application.NewOrderService(cat, store, cfg.Catalog),
		catalog: application.NewCatalogService(cat, cfg.Catalog),
	}, nil
}

func (e *engine) Close() error {
	return e.store.Close()
}

func resolvePath(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
