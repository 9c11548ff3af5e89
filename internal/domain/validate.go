package domain

import (
	"fmt"
	"net/mail"
)

// Order limits. MaxLineQuantity caps a single line; MaxOrderLines caps the
// number of lines in one order.
const (
	MaxLineQuantity = 100
	MaxOrderLines   = 20
)

// ValidateOrder applies the business rules to a normalized line set. Rules
// run in a fixed sequence and the first failure determines the rejection,
// so identical input always produces the identical verdict. The check is
// pure: no I/O, no clock, no randomness. A nil return means the order may
// be assembled.
//
// The caller is expected to surface QuantityExceeded as an offer to clamp
// to MaxLineQuantity, never to clamp silently.
func ValidateOrder(lines []RequestedLine, customer *CustomerInfo) *Rejection {
	if len(lines) == 0 {
		return &Rejection{
			Kind:    RejectEmptyOrder,
			Message: "order contains no items",
		}
	}
	for _, l := range lines {
		if l.Quantity < 1 {
			return &Rejection{
				Kind:      RejectInvalidRequest,
				Message:   fmt.Sprintf("quantity for %s must be at least 1", l.Product.Name),
				ProductID: l.Product.ProductID,
				Quantity:  l.Quantity,
			}
		}
	}
	for _, l := range lines {
		if l.Quantity > MaxLineQuantity {
			return &Rejection{
				Kind:        RejectQuantityExceeded,
				Message:     fmt.Sprintf("quantity %d of %s exceeds the maximum of %d per line", l.Quantity, l.Product.Name, MaxLineQuantity),
				ProductID:   l.Product.ProductID,
				Quantity:    l.Quantity,
				MaxQuantity: MaxLineQuantity,
			}
		}
	}
	for _, l := range lines {
		if l.Product.StockState == StockOutOfStock {
			return &Rejection{
				Kind:      RejectOutOfStock,
				Message:   fmt.Sprintf("%s is out of stock", l.Product.Name),
				ProductID: l.Product.ProductID,
			}
		}
	}
	for _, l := range lines {
		if !l.Product.UnitPrice.IsPositive() {
			return &Rejection{
				Kind:      RejectInvalidCatalogData,
				Message:   fmt.Sprintf("catalog returned a non-positive price for %s", l.Product.ProductID),
				ProductID: l.Product.ProductID,
			}
		}
	}
	if len(lines) > MaxOrderLines {
		return &Rejection{
			Kind:     RejectTooManyItems,
			Message:  fmt.Sprintf("order has %d lines, the maximum is %d", len(lines), MaxOrderLines),
			Quantity: len(lines),
		}
	}
	seen := make(map[string]bool, len(lines))
	for _, l := range lines {
		if seen[l.Product.ProductID] {
			return &Rejection{
				Kind:      RejectDuplicateProduct,
				Message:   fmt.Sprintf("%s appears more than once; merge the quantities into a single line", l.Product.Name),
				ProductID: l.Product.ProductID,
			}
		}
		seen[l.Product.ProductID] = true
	}
	if customer != nil && customer.Email != "" {
		if _, err := mail.ParseAddress(customer.Email); err != nil {
			return &Rejection{
				Kind:    RejectInvalidRequest,
				Message: fmt.Sprintf("%q is not a valid email address", customer.Email),
			}
		}
	}
	return nil
}
