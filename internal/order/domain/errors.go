package domain

import (
	"github.com/orderloop/orderloop/internal/errors"
)

// Order domain errors.
var (
	// ErrOrderNotFound indicates an order with the specified ID was not found.
	ErrOrderNotFound = errors.Wrap(errors.ErrNotFound, "order not found")

	// ErrOrderTokenNotFound indicates the order token is absent: never issued
	// or already redeemed. Redemption is destructive, so both cases are
	// indistinguishable on purpose.
	ErrOrderTokenNotFound = errors.Wrap(errors.ErrNotFound, "order token not found")

	// ErrOrderTokenExpired indicates the token's age exceeded the TTL at
	// redemption. The token is destroyed as part of expiry handling.
	ErrOrderTokenExpired = errors.Wrap(errors.ErrExpired, "order token expired")

	// ErrProductNotFound indicates a product with the specified ID was not found.
	ErrProductNotFound = errors.Wrap(errors.ErrNotFound, "product not found")

	// ErrProductUnknown indicates an order line references a product the
	// catalog does not carry. A bad product ID in a request is invalid
	// input, not a missing resource.
	ErrProductUnknown = errors.Wrap(errors.ErrInvalidInput, "unknown product")

	// ErrProductUnavailable indicates an order references an inactive product.
	ErrProductUnavailable = errors.Wrap(errors.ErrInvalidInput, "product unavailable")

	// ErrOrderAlreadyCancelled indicates a cancel on an already cancelled order.
	ErrOrderAlreadyCancelled = errors.Wrap(errors.ErrConflict, "order already cancelled")
)
