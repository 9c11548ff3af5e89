package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// CatalogQuery is a single catalog lookup request.
type CatalogQuery struct {
	Text     string
	Category string
	MaxPrice decimal.Decimal // zero means no ceiling
	Limit    int
}

// CatalogSearcher is the product catalog port. Search returns candidates
// ranked by score, deduplicated by product id, possibly empty. Lookup
// fetches one product by id and returns ErrNotFound when absent. List
// returns the whole catalog.
type CatalogSearcher interface {
	Search(ctx context.Context, q CatalogQuery) ([]ProductReference, error)
	Lookup(ctx context.Context, productID string) (*ProductReference, error)
	List(ctx context.Context) ([]ProductReference, error)
}

// OrderStore is the persistence port. Put must be an atomic
// insert-if-absent keyed by order id, returning ErrKeyConflict on a
// duplicate; that constraint is the engine's uniqueness backstop.
type OrderStore interface {
	Put(ctx context.Context, o *Order) error
	Get(ctx context.Context, orderID string) (*Order, error)
	ListRecent(ctx context.Context, limit int) ([]*Order, error)
	ListByStatus(ctx context.Context, status OrderStatus) ([]*Order, error)
	UpdateStatus(ctx context.Context, orderID string, status OrderStatus) error
	Stats(ctx context.Context) (*OrderStats, error)
}

// ConfigLoader loads engine configuration for a working directory.
type ConfigLoader interface {
	Load(dir string) (EngineConfig, error)
}
