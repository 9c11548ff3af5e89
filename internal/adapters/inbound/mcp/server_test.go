package mcp_test

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mcpadapter "github.com/ordercraft/ordercraft/internal/adapters/inbound/mcp"
	"github.com/ordercraft/ordercraft/internal/adapters/outbound/catalog"
	"github.com/ordercraft/ordercraft/internal/adapters/outbound/orderstore"
	"github.com/ordercraft/ordercraft/internal/application"
	"github.com/ordercraft/ordercraft/internal/domain"
)

func newTestServer(t *testing.T) (*application.OrderService, *application.CatalogService) {
	t.Helper()
	store, err := orderstore.Open(filepath.Join(t.TempDir(), "orders.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	cat := catalog.New([]domain.ProductReference{
		{
			ProductID:  "IPHONE-15-PRO",
			Name:       "iPhone 15 Pro",
			UnitPrice:  decimal.RequireFromString("999.99"),
			Category:   "Electronics",
			StockState: domain.StockInStock,
		},
	})
	cfg := domain.DefaultEngineConfig().Catalog
	return application.NewOrderService(cat, store, cfg), application.NewCatalogService(cat, cfg)
}

func TestNewOrderCraftMCPServer(t *testing.T) {
	orders, products := newTestServer(t)
	s := mcpadapter.NewOrderCraftMCPServer(orders, products)
	require.NotNil(t, s)
}

func TestMCPServerHasTools(t *testing.T) {
	orders, products := newTestServer(t)
	s := mcpadapter.NewOrderCraftMCPServer(orders, products)
	require.NotNil(t, s)

	tools := s.ListTools()
	require.NotNil(t, tools)

	expectedTools := []string{
		"search_products",
		"create_order",
		"get_order",
		"list_recent_orders",
	}

	for _, name := range expectedTools {
		_, exists := tools[name]
		assert.True(t, exists, "tool %q should be registered", name)
	}

	assert.Len(t, tools, len(expectedTools), "should have exactly %d tools", len(expectedTools))
}
