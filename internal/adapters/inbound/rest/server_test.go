package rest_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ordercraft/ordercraft/internal/adapters/inbound/rest"
	"github.com/ordercraft/ordercraft/internal/adapters/outbound/catalog"
	"github.com/ordercraft/ordercraft/internal/adapters/outbound/orderstore"
	"github.com/ordercraft/ordercraft/internal/application"
	"github.com/ordercraft/ordercraft/internal/domain"
)

func setupServer(t *testing.T) *rest.Server {
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
		{
			ProductID:  "AIRPODS-PRO",
			Name:       "AirPods Pro",
			UnitPrice:  decimal.RequireFromString("249.99"),
			Category:   "Electronics",
			StockState: domain.StockInStock,
		},
		{
			ProductID:  "PLAYSTATION-5",
			Name:       "PlayStation 5",
			UnitPrice:  decimal.RequireFromString("499.99"),
			Category:   "Gaming",
			StockState: domain.StockOutOfStock,
		},
	})
	cfg := domain.DefaultEngineConfig().Catalog
	orders := application.NewOrderService(cat, store, cfg)
	products := application.NewCatalogService(cat, cfg)
	return rest.NewServer(orders, products)
}

func doJSON(t *testing.T, s *rest.Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)
	return w
}

func decodeOutcome(t *testing.T, w *httptest.ResponseRecorder) domain.Outcome {
	t.Helper()
	var out domain.Outcome
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestCreateOrder_Created(t *testing.T) {
	s := setupServer(t)

	w := doJSON(t, s, http.MethodPost, "/orders", map[string]any{
		"items": []map[string]any{
			{"query": "iPhone 15 Pro"},
			{"query": "AirPods Pro"},
		},
		"utterance": "I'll take both",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	out := decodeOutcome(t, w)
	assert.Equal(t, domain.OutcomeOrderCreated, out.Kind)
	require.NotNil(t, out.Order)
	require.Len(t, out.Order.Items, 2)
	assert.True(t, out.Order.TotalAmount.Equal(decimal.RequireFromString("1249.98")), "total %s", out.Order.TotalAmount)
}

func TestCreateOrder_ClarificationIsConflict(t *testing.T) {
	s := setupServer(t)

	w := doJSON(t, s, http.MethodPost, "/orders", map[string]any{
		"utterance": "I'll take it",
	})
	require.Equal(t, http.StatusConflict, w.Code)

	out := decodeOutcome(t, w)
	assert.Equal(t, domain.OutcomeClarification, out.Kind)
	assert.Contains(t, out.Clarification, "no product discussed")
}

func TestCreateOrder_RejectionIsConflict(t *testing.T) {
	s := setupServer(t)

	w := doJSON(t, s, http.MethodPost, "/orders", map[string]any{
		"items":     []map[string]any{{"query": "PlayStation 5", "quantity": 2}},
		"utterance": "two consoles",
	})
	require.Equal(t, http.StatusConflict, w.Code)

	out := decodeOutcome(t, w)
	require.Equal(t, domain.OutcomeRejected, out.Kind)
	assert.Equal(t, domain.RejectOutOfStock, out.Rejection.Kind)
}

func TestCreateOrder_InvalidJSON(t *testing.T) {
	s := setupServer(t)

	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderLifecycle(t *testing.T) {
	s := setupServer(t)

	w := doJSON(t, s, http.MethodPost, "/orders", map[string]any{
		"items":     []map[string]any{{"product_id": "AIRPODS-PRO", "quantity": 2}},
		"utterance": "order them",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	orderID := decodeOutcome(t, w).Order.OrderID

	// fetch it back
	w = doJSON(t, s, http.MethodGet, "/orders/"+orderID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got domain.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, domain.StatusPending, got.Status)

	// confirm
	w = doJSON(t, s, http.MethodPatch, "/orders/"+orderID+"/status", map[string]any{"status": "confirmed"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// a second transition is not allowed
	w = doJSON(t, s, http.MethodPatch, "/orders/"+orderID+"/status", map[string]any{"status": "rejected"})
	assert.Equal(t, http.StatusConflict, w.Code)

	// unknown status name
	w = doJSON(t, s, http.MethodPatch, "/orders/"+orderID+"/status", map[string]any{"status": "shipped"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetOrder_NotFound(t *testing.T) {
	s := setupServer(t)

	w := doJSON(t, s, http.MethodGet, "/orders/ORD-19700101000000-00000000", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListOrders_StatusFilter(t *testing.T) {
	s := setupServer(t)

	w := doJSON(t, s, http.MethodPost, "/orders", map[string]any{
		"items":     []map[string]any{{"product_id": "IPHONE-15-PRO"}},
		"utterance": "order it",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, s, http.MethodGet, "/orders?status=pending", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []domain.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	w = doJSON(t, s, http.MethodGet, "/orders?status=shipped", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderStats(t *testing.T) {
	s := setupServer(t)

	w := doJSON(t, s, http.MethodPost, "/orders", map[string]any{
		"items":     []map[string]any{{"product_id": "AIRPODS-PRO"}},
		"utterance": "order it",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, s, http.MethodGet, "/orders/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats domain.OrderStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.TotalOrders)
	assert.True(t, stats.TotalRevenue.Equal(decimal.RequireFromString("249.99")))
}

func TestSearchProducts(t *testing.T) {
	s := setupServer(t)

	w := doJSON(t, s, http.MethodGet, "/products/search?q=iphone", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var products []domain.ProductReference
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
	require.NotEmpty(t, products)
	assert.Equal(t, "IPHONE-15-PRO", products[0].ProductID)

	// q is mandatory
	w = doJSON(t, s, http.MethodGet, "/products/search", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// price ceiling must be a decimal
	w = doJSON(t, s, http.MethodGet, "/products/search?q=pro&max_price=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthz(t *testing.T) {
	s := setupServer(t)

	w := doJSON(t, s, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
