package tui_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/ordercraft/ordercraft/internal/adapters/outbound/tui"
	"github.com/ordercraft/ordercraft/internal/domain"
)

func sampleResults() []domain.ProductReference {
	return []domain.ProductReference{
		{
			ProductID:   "MACBOOK-PRO-14",
			Name:        "MacBook Pro 14-inch M3",
			UnitPrice:   decimal.RequireFromString("1599.99"),
			Category:    "laptops",
			StockState:  domain.StockInStock,
			Description: "Apple laptop with the M3 chip",
			Score:       0.85,
		},
		{
			ProductID:  "PLAYSTATION-5",
			Name:       "PlayStation 5",
			UnitPrice:  decimal.RequireFromString("499.99"),
			Category:   "gaming",
			StockState: domain.StockOutOfStock,
			Score:      0.45,
		},
		{
			ProductID:  "SWITCH-OLED",
			Name:       "Nintendo Switch OLED",
			UnitPrice:  decimal.RequireFromString("349.99"),
			Category:   "gaming",
			StockState: domain.StockLimited,
			Score:      0.25,
		},
	}
}

func TestRenderSearchResults_ContainsQueryAndCount(t *testing.T) {
	output := tui.RenderSearchResults("laptop", sampleResults())
	assert.Contains(t, output, `"laptop"`)
	assert.Contains(t, output, "3 matches")
}

func TestRenderSearchResults_ContainsNamesAndPrices(t *testing.T) {
	output := tui.RenderSearchResults("laptop", sampleResults())
	assert.Contains(t, output, "MacBook Pro 14-inch M3")
	assert.Contains(t, output, "PlayStation 5")
	assert.Contains(t, output, "$1599.99")
	assert.Contains(t, output, "$499.99")
}

func TestRenderSearchResults_ContainsProductIDs(t *testing.T) {
	output := tui.RenderSearchResults("laptop", sampleResults())
	assert.Contains(t, output, "MACBOOK-PRO-14")
	assert.Contains(t, output, "PLAYSTATION-5")
}

func TestRenderSearchResults_ShowsDescriptions(t *testing.T) {
	output := tui.RenderSearchResults("laptop", sampleResults())
	assert.Contains(t, output, "Apple laptop with the M3 chip")
}

func TestRenderSearchResults_RelevanceBars(t *testing.T) {
	output := tui.RenderSearchResults("laptop", sampleResults())
	assert.Contains(t, output, "█")
	assert.Contains(t, output, "85%")
}

func TestRenderSearchResults_StockIndicators(t *testing.T) {
	output := tui.RenderSearchResults("laptop", sampleResults())
	assert.Contains(t, output, "●", "should use ● for stocked products")
	assert.Contains(t, output, "○", "should use ○ for out-of-stock products")
	assert.Contains(t, output, "out of stock")
	assert.Contains(t, output, "limited stock")
}

func TestRenderSearchResults_Empty(t *testing.T) {
	output := tui.RenderSearchResults("flux capacitor", nil)
	assert.Contains(t, output, "No products matched")
	assert.Contains(t, output, "0 matches")
}
