// Package service provides pricing for order quotes.
package service

import (
	"context"

	orderDomain "github.com/orderloop/orderloop/internal/order/domain"
)

// Pricer computes the quote for a validated order during the prepare phase.
// The returned prices are carried inside the order token and committed
// verbatim at redemption.
type Pricer interface {
	// Price computes the quote for the given items.
	// Returns ErrProductUnknown or ErrProductUnavailable when an item
	// references a missing or inactive product; both are invalid input.
	Price(ctx context.Context, items []orderDomain.Item) (orderDomain.Prices, error)
}
