// Package usecase defines business logic for the two-phase order protocol.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	orderDomain "github.com/orderloop/orderloop/internal/order/domain"
	userDomain "github.com/orderloop/orderloop/internal/user/domain"
)

// OrderTokenRepository defines persistence operations for order tokens.
// Tokens are only ever created and destroyed, never updated.
type OrderTokenRepository interface {
	// Create stores a new order token.
	Create(ctx context.Context, token *orderDomain.OrderToken) error

	// Consume atomically removes the token and returns its payload and
	// creation time. Exactly one of any number of concurrent consumers
	// succeeds; the rest get ErrOrderTokenNotFound.
	Consume(ctx context.Context, tokenHash string) ([]byte, time.Time, error)

	// DeleteOlderThan removes tokens created before the cutoff and reports
	// how many rows were removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// OrderRepository defines persistence operations for committed orders.
type OrderRepository interface {
	// Create stores a committed order.
	Create(ctx context.Context, order *orderDomain.Order) error

	// Get retrieves an order by ID. Returns ErrOrderNotFound if not found.
	Get(ctx context.Context, orderID uuid.UUID) (*orderDomain.Order, error)

	// Cancel marks an order cancelled. Returns ErrOrderNotFound if not found.
	Cancel(ctx context.Context, orderID uuid.UUID, reason string) error
}

// ProductRepository defines persistence operations for catalog products.
type ProductRepository interface {
	// Create stores a new product.
	Create(ctx context.Context, product *orderDomain.Product) error

	// Get retrieves a product by ID. Returns ErrProductNotFound if not found.
	Get(ctx context.Context, productID uuid.UUID) (*orderDomain.Product, error)

	// GetByIDs retrieves products keyed by ID; missing IDs are absent.
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*orderDomain.Product, error)
}

// OrderTokenBroker issues and redeems single-use, TTL-bound order tokens.
type OrderTokenBroker interface {
	// IssueOrderToken serializes the validated payload into a new token.
	// Returns the plain token; only its hash is stored.
	IssueOrderToken(ctx context.Context, payload *orderDomain.OrderPayload) (string, error)

	// RedeemOrderToken consumes the token exactly once and returns its
	// payload. An absent token (never issued, or already redeemed) fails
	// with ErrOrderTokenNotFound; a token older than the TTL fails with
	// ErrOrderTokenExpired and is destroyed by the same consume.
	RedeemOrderToken(ctx context.Context, plainToken string) (*orderDomain.OrderPayload, error)

	// CleanExpiredTokens removes tokens past the TTL. Housekeeping only;
	// expiry is enforced lazily at redemption.
	CleanExpiredTokens(ctx context.Context) (int64, error)
}

// PrepareOrderOutput is the result of the prepare phase: a single-use token
// and the quote it binds.
type PrepareOrderOutput struct {
	Token  string
	Prices orderDomain.Prices
}

// OrderUseCase orchestrates the two-phase order flow and the gated
// track/cancel operations.
type OrderUseCase interface {
	// Prepare validates and prices the order, then issues a token binding
	// the quote. No authoritative state is mutated.
	Prepare(ctx context.Context, user *userDomain.User, input *orderDomain.PrepareOrderInput) (*PrepareOrderOutput, error)

	// Create redeems the token and commits the order it carries.
	Create(ctx context.Context, user *userDomain.User, plainToken string) (*orderDomain.Order, error)

	// Track returns tracking info for an order the caller may view.
	Track(ctx context.Context, user *userDomain.User, orderID uuid.UUID) (*orderDomain.TrackingInfo, error)

	// Cancel cancels an order the caller may edit.
	Cancel(ctx context.Context, user *userDomain.User, orderID uuid.UUID, reason string) (*orderDomain.Order, error)
}
