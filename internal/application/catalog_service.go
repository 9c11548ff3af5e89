package application

import (
	"context"

	"github.com/ordercraft/ordercraft/internal/domain"
)

// CatalogService exposes catalog reads to the inbound adapters.
type CatalogService struct {
	catalog domain.CatalogSearcher
	cfg     domain.CatalogConfig
}

func NewCatalogService(catalog domain.CatalogSearcher, cfg domain.CatalogConfig) *CatalogService {
	return &CatalogService{catalog: catalog, cfg: cfg}
}

// Search runs a ranked catalog query. A non-positive limit falls back to
// the configured result window.
func (s *CatalogService) Search(ctx context.Context, q domain.CatalogQuery) ([]domain.ProductReference, error) {
	if q.Limit <= 0 {
		q.Limit = s.cfg.MaxResults
	}
	matches, err := s.catalog.Search(ctx, q)
	if err != nil {
		return nil, wrapExternal("catalog search", err)
	}
	return matches, nil
}

// Get fetches one product by id.
func (s *CatalogService) Get(ctx context.Context, productID string) (*domain.ProductReference, error) {
	p, err := s.catalog.Lookup(ctx, productID)
	if err != nil {
		return nil, wrapExternal("catalog lookup", err)
	}
	return p, nil
}

// List returns the whole catalog.
func (s *CatalogService) List(ctx context.Context) ([]domain.ProductReference, error) {
	products, err := s.catalog.List(ctx)
	if err != nil {
		return nil, wrapExternal("catalog list", err)
	}
	return products, nil
}
