package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockState describes catalog availability for a product.
type StockState string

const (
	StockInStock    StockState = "in_stock"
	StockLimited    StockState = "limited"
	StockOutOfStock StockState = "out_of_stock"
)

func (s StockState) Valid() bool {
	switch s {
	case StockInStock, StockLimited, StockOutOfStock:
		return true
	}
	return false
}

// ProductReference is a catalog product as returned by a single lookup.
// References are read-only; they are never mutated or cached beyond the
// resolution cycle that produced them.
type ProductReference struct {
	ProductID   string          `json:"product_id"`
	Name        string          `json:"name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Category    string          `json:"category"`
	StockState  StockState      `json:"stock_state"`
	Description string          `json:"description,omitempty"`
	Score       float64         `json:"score,omitempty"`
}

// RequestedLine pairs a resolved product with the quantity the user asked
// for. Lines are produced by normalization and consumed by validation.
type RequestedLine struct {
	Product  ProductReference `json:"product"`
	Quantity int              `json:"quantity"`
}

// CustomerInfo carries optional customer details extracted from the
// conversation. Absence of any field never blocks order creation.
type CustomerInfo struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

func (c CustomerInfo) Empty() bool {
	return c.Name == "" && c.Email == "" && c.Phone == "" && c.Address == ""
}

// OrderStatus is the lifecycle state of a persisted order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusRejected  OrderStatus = "rejected"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusRejected:
		return true
	}
	return false
}

// CanTransitionTo reports whether a status change is allowed. Orders are
// immutable after assembly except for pending -> confirmed|rejected.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	return s == StatusPending && (next == StatusConfirmed || next == StatusRejected)
}

// OrderLine is a priced line derived from a RequestedLine. It is never
// constructed independently; TotalPrice is always UnitPrice times Quantity.
type OrderLine struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

func NewOrderLine(p ProductReference, quantity int) OrderLine {
	return OrderLine{
		ProductID:   p.ProductID,
		ProductName: p.Name,
		Quantity:    quantity,
		UnitPrice:   p.UnitPrice,
		TotalPrice:  p.UnitPrice.Mul(decimal.NewFromInt(int64(quantity))),
	}
}

// Order is a fully assembled purchase order ready for persistence. The
// engine owns construction, the store owns durability; nothing mutates an
// Order after it is emitted except status transitions through the store.
type Order struct {
	OrderID     string          `json:"order_id"`
	Items       []OrderLine     `json:"items"`
	Customer    *CustomerInfo   `json:"customer,omitempty"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Status      OrderStatus     `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	Notes       string          `json:"notes,omitempty"`
}

// OrderStats summarises the persisted order set. Revenue excludes rejected
// orders.
type OrderStats struct {
	TotalOrders       int                 `json:"total_orders"`
	StatusCounts      map[OrderStatus]int `json:"status_counts"`
	TotalRevenue      decimal.Decimal     `json:"total_revenue"`
	AverageOrderValue decimal.Decimal     `json:"average_order_value"`
}
