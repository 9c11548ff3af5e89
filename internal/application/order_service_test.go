package application

import (
	"context"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ordercraft/ordercraft/internal/adapters/outbound/catalog"
	"github.com/ordercraft/ordercraft/internal/adapters/outbound/orderstore"
	"github.com/ordercraft/ordercraft/internal/domain"
	"github.com/ordercraft/ordercraft/internal/domain/conversation"
)

var orderIDPattern = regexp.MustCompile(`^ORD-\d{14}-[0-9A-F]{8}$`)

func ref(id, name, price, category string, stock domain.StockState, desc string) domain.ProductReference {
	return domain.ProductReference{
		ProductID:   id,
		Name:        name,
		UnitPrice:   decimal.RequireFromString(price),
		Category:    category,
		StockState:  stock,
		Description: desc,
	}
}

// testCatalog mirrors the seed data shape: two laptops whose descriptions
// share the word "laptop", plus distinct accessories and one product that
// is out of stock.
func testCatalog() *catalog.Store {
	return catalog.New([]domain.ProductReference{
		ref("MACBOOK-PRO-14", "MacBook Pro 14-inch M3", "1599.99", "Computers", domain.StockInStock, "Apple laptop with the M3 chip"),
		ref("DELL-XPS-13", "Dell XPS 13", "999.00", "Computers", domain.StockInStock, "Compact ultrabook laptop"),
		ref("IPHONE-15-PRO", "iPhone 15 Pro", "999.99", "Electronics", domain.StockInStock, "Titanium smartphone"),
		ref("AIRPODS-PRO", "AirPods Pro", "249.99", "Electronics", domain.StockInStock, "Noise cancelling earbuds"),
		ref("PLAYSTATION-5", "PlayStation 5", "499.99", "Gaming", domain.StockOutOfStock, "Disc edition console"),
		ref("SWITCH-OLED", "Nintendo Switch OLED", "349.99", "Gaming", domain.StockInStock, "Handheld console"),
	})
}

func newOrderEnv(t *testing.T) (*OrderService, *orderstore.Store) {
	t.Helper()
	store, err := orderstore.Open(filepath.Join(t.TempDir(), "orders.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	svc := NewOrderService(testCatalog(), store, domain.DefaultEngineConfig().Catalog)
	return svc, store
}

func searchTurn(query string, products ...domain.ProductReference) []conversation.Turn {
	return []conversation.Turn{
		{Role: conversation.RoleUser, Text: query},
		{Role: conversation.RoleAssistant, Text: "Here is what I found.", Products: products},
	}
}

func macbook() domain.ProductReference {
	return ref("MACBOOK-PRO-14", "MacBook Pro 14-inch M3", "1599.99", "Computers", domain.StockInStock, "")
}

func dell() domain.ProductReference {
	return ref("DELL-XPS-13", "Dell XPS 13", "999.00", "Computers", domain.StockInStock, "")
}

func TestCreateOrder_SingleProductFromHistory(t *testing.T) {
	svc, store := newOrderEnv(t)
	ctx := context.Background()

	out, err := svc.CreateOrder(ctx, CreateOrderInput{
		History:   searchTurn("I'm looking for a MacBook", macbook()),
		Utterance: "I'll take it",
	})
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeOrderCreated, out.Kind)

	order := out.Order
	require.NotNil(t, order)
	assert.Regexp(t, orderIDPattern, order.OrderID)
	assert.Equal(t, domain.StatusPending, order.Status)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "MACBOOK-PRO-14", order.Items[0].ProductID)
	// Quantity defaults to 1 when the user never states one.
	assert.Equal(t, 1, order.Items[0].Quantity)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("1599.99")), "total %s", order.TotalAmount)

	persisted, err := store.Get(ctx, order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderID, persisted.OrderID)
}

func TestCreateOrder_TwoDiscussedProductsNeedClarification(t *testing.T) {
	svc, _ := newOrderEnv(t)

	history := append(
		searchTurn("show me the MacBook", macbook()),
		searchTurn("and the Dell", dell())...,
	)
	out, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		History:   history,
		Utterance: "I'll take it",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeClarification, out.Kind)
	assert.Contains(t, out.Clarification, "2 products")
}

func TestCreateOrder_UtteranceNarrowsCandidates(t *testing.T) {
	svc, _ := newOrderEnv(t)

	history := append(
		searchTurn("show me the MacBook", macbook()),
		searchTurn("and the Dell", dell())...,
	)
	out, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		History:   history,
		Utterance: "I'll take the MacBook",
	})
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeOrderCreated, out.Kind)
	assert.Equal(t, "MACBOOK-PRO-14", out.Order.Items[0].ProductID)
}

func TestCreateOrder_TwoItemsKeepMentionOrder(t *testing.T) {
	svc, _ := newOrderEnv(t)

	out, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		Items: []ItemInput{
			{Query: "iPhone 15 Pro"},
			{Query: "AirPods Pro"},
		},
		Utterance: "add both please",
	})
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeOrderCreated, out.Kind)

	order := out.Order
	require.Len(t, order.Items, 2)
	assert.Equal(t, "IPHONE-15-PRO", order.Items[0].ProductID)
	assert.Equal(t, "AIRPODS-PRO", order.Items[1].ProductID)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("1249.98")), "total %s", order.TotalAmount)
}

func TestCreateOrder_QuantityExceeded(t *testing.T) {
	svc, _ := newOrderEnv(t)
	ctx := context.Background()

	in := CreateOrderInput{
		Items:     []ItemInput{{Query: "iPhone 15 Pro", Quantity: 150}},
		Utterance: "I need 150 of them",
	}
	out, err := svc.CreateOrder(ctx, in)
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeRejected, out.Kind)
	assert.Equal(t, domain.RejectQuantityExceeded, out.Rejection.Kind)
	assert.Equal(t, 150, out.Rejection.Quantity)
	assert.Equal(t, domain.MaxLineQuantity, out.Rejection.MaxQuantity)

	// The caller relays the clamp offer; accepting retries with Clamp set.
	in.Clamp = true
	out, err = svc.CreateOrder(ctx, in)
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeOrderCreated, out.Kind)
	assert.Equal(t, domain.MaxLineQuantity, out.Order.Items[0].Quantity)
}

func TestCreateOrder_OutOfStock(t *testing.T) {
	svc, _ := newOrderEnv(t)

	for _, qty := range []int{1, 5, 100} {
		out, err := svc.CreateOrder(context.Background(), CreateOrderInput{
			Items:     []ItemInput{{Query: "PlayStation 5", Quantity: qty}},
			Utterance: "order the PlayStation",
		})
		require.NoError(t, err)
		require.Equal(t, domain.OutcomeRejected, out.Kind, "qty %d", qty)
		assert.Equal(t, domain.RejectOutOfStock, out.Rejection.Kind)
		assert.Equal(t, "PLAYSTATION-5", out.Rejection.ProductID)
	}
}

func TestCreateOrder_ProductNotFound(t *testing.T) {
	svc, _ := newOrderEnv(t)

	out, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		Items:     []ItemInput{{Query: "flux capacitor"}},
		Utterance: "buy a flux capacitor",
	})
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeRejected, out.Kind)
	assert.Equal(t, domain.RejectProductNotFound, out.Rejection.Kind)
	assert.Equal(t, "flux capacitor", out.Rejection.Query)
}

func TestCreateOrder_UnknownProductIDNotFound(t *testing.T) {
	svc, _ := newOrderEnv(t)

	out, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		Items:     []ItemInput{{ProductID: "NO-SUCH-ID"}},
		Utterance: "order it",
	})
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeRejected, out.Kind)
	assert.Equal(t, domain.RejectProductNotFound, out.Rejection.Kind)
	assert.Equal(t, "NO-SUCH-ID", out.Rejection.ProductID)
}

func TestCreateOrder_AmbiguousQuery(t *testing.T) {
	svc, _ := newOrderEnv(t)

	// Both laptop descriptions score identically for this query.
	out, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		Items:     []ItemInput{{Query: "laptop"}},
		Utterance: "I want a laptop",
	})
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeRejected, out.Kind)
	assert.Equal(t, domain.RejectAmbiguousProduct, out.Rejection.Kind)
	assert.Len(t, out.Rejection.Candidates, 2)
}

func TestCreateOrder_NoProductDiscussed(t *testing.T) {
	svc, _ := newOrderEnv(t)

	out, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		Utterance: "I'll take it",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeClarification, out.Kind)
	assert.Contains(t, out.Clarification, "no product discussed")
}

func TestCreateOrder_NegativeQuantityRejected(t *testing.T) {
	svc, _ := newOrderEnv(t)

	out, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		Items:     []ItemInput{{Query: "iPhone 15 Pro", Quantity: -5}},
		Utterance: "order it",
	})
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeRejected, out.Kind)
	assert.Equal(t, domain.RejectInvalidRequest, out.Rejection.Kind)
}

func TestCreateOrder_CustomerFromTrigger(t *testing.T) {
	svc, store := newOrderEnv(t)
	ctx := context.Background()

	out, err := svc.CreateOrder(ctx, CreateOrderInput{
		History:   searchTurn("MacBook please", macbook()),
		Utterance: "I'll take it",
		Customer:  &domain.CustomerInfo{Name: "Dana Smith", Email: "dana@example.com"},
		Notes:     "deliver after 6pm",
	})
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeOrderCreated, out.Kind)

	persisted, err := store.Get(ctx, out.Order.OrderID)
	require.NoError(t, err)
	require.NotNil(t, persisted.Customer)
	assert.Equal(t, "Dana Smith", persisted.Customer.Name)
	assert.Equal(t, "deliver after 6pm", persisted.Notes)
}

func TestCreateOrder_ExpiredContextIsTimeout(t *testing.T) {
	svc, _ := newOrderEnv(t)

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err := svc.CreateOrder(ctx, CreateOrderInput{
		Items:     []ItemInput{{Query: "iPhone 15 Pro"}},
		Utterance: "order it",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExternalTimeout)
}

func TestCreateOrder_IDCollisionRegeneratesOnce(t *testing.T) {
	svc, store := newOrderEnv(t)
	ctx := context.Background()

	now := func() time.Time { return time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC) }
	suffixes := []string{"AAAAAAAA", "AAAAAAAA", "BBBBBBBB"}
	svc.assembler = domain.NewAssemblerForTest(now, func() string {
		s := suffixes[0]
		if len(suffixes) > 1 {
			suffixes = suffixes[1:]
		}
		return s
	})

	// Occupy the id the first attempt will generate.
	taken := svc.assembler.Assemble([]domain.RequestedLine{{Product: macbook(), Quantity: 1}}, nil, "")
	require.Equal(t, "ORD-20240315103000-AAAAAAAA", taken.OrderID)
	require.NoError(t, store.Put(ctx, taken))

	out, err := svc.CreateOrder(ctx, CreateOrderInput{
		Items:     []ItemInput{{ProductID: "MACBOOK-PRO-14"}},
		Utterance: "order it",
	})
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeOrderCreated, out.Kind)
	assert.Equal(t, "ORD-20240315103000-BBBBBBBB", out.Order.OrderID)
}

func TestCreateOrder_IDCollisionExhausted(t *testing.T) {
	svc, store := newOrderEnv(t)
	ctx := context.Background()

	now := func() time.Time { return time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC) }
	svc.assembler = domain.NewAssemblerForTest(now, func() string { return "CCCCCCCC" })

	taken := svc.assembler.Assemble([]domain.RequestedLine{{Product: macbook(), Quantity: 1}}, nil, "")
	require.NoError(t, store.Put(ctx, taken))

	_, err := svc.CreateOrder(ctx, CreateOrderInput{
		Items:     []ItemInput{{ProductID: "MACBOOK-PRO-14"}},
		Utterance: "order it",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrIDCollisionExhausted)
}

func TestUpdateStatus_ConfirmThenStats(t *testing.T) {
	svc, _ := newOrderEnv(t)
	ctx := context.Background()

	out, err := svc.CreateOrder(ctx, CreateOrderInput{
		Items:     []ItemInput{{ProductID: "AIRPODS-PRO", Quantity: 2}},
		Utterance: "two airpods",
	})
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeOrderCreated, out.Kind)

	confirmed, err := svc.UpdateStatus(ctx, out.Order.OrderID, domain.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, confirmed.Status)

	stats, err := svc.OrderStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalOrders)
	assert.Equal(t, 1, stats.StatusCounts[domain.StatusConfirmed])
	assert.True(t, stats.TotalRevenue.Equal(decimal.RequireFromString("499.98")), "revenue %s", stats.TotalRevenue)
}

func TestUpdateStatus_UnknownStatus(t *testing.T) {
	svc, _ := newOrderEnv(t)

	_, err := svc.UpdateStatus(context.Background(), "ORD-20240315103000-AAAA0001", "shipped")
	assert.Error(t, err)
}

func TestGetOrder_NotFound(t *testing.T) {
	svc, _ := newOrderEnv(t)

	_, err := svc.GetOrder(context.Background(), "ORD-19700101000000-00000000")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListOrders_FilterByStatus(t *testing.T) {
	svc, _ := newOrderEnv(t)
	ctx := context.Background()

	for _, id := range []string{"SWITCH-OLED", "AIRPODS-PRO"} {
		out, err := svc.CreateOrder(ctx, CreateOrderInput{
			Items:     []ItemInput{{ProductID: id}},
			Utterance: "order it",
		})
		require.NoError(t, err)
		require.Equal(t, domain.OutcomeOrderCreated, out.Kind)
	}

	pending, err := svc.ListOrders(ctx, domain.StatusPending, 0)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	confirmed, err := svc.ListOrders(ctx, domain.StatusConfirmed, 0)
	require.NoError(t, err)
	assert.Empty(t, confirmed)

	_, err = svc.ListOrders(ctx, "shipped", 0)
	assert.Error(t, err)
}
