package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrderToken is the persisted form of an issued order token. The payload is
// the serialized validated order; only the SHA-256 hash of the plain token is
// stored. Tokens are never updated — only created and destroyed.
type OrderToken struct {
	ID        uuid.UUID
	TokenHash string
	Payload   []byte
	CreatedAt time.Time
}

// OrderPayload is what an order token carries: the validated order fields and
// the computed quote, serialized at issuance and deserialized exactly once at
// redemption. Committing from the payload (not from a fresh request body)
// guarantees the created order matches the confirmed quote.
type OrderPayload struct {
	CustomerID    uuid.UUID `json:"customer_id"`
	CustomerName  string    `json:"customer_name"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	Address       string    `json:"address"`
	ScheduledAt   time.Time `json:"scheduled_at"`
	PaymentMethod string    `json:"payment_method"`
	Items         []Item    `json:"items"`
	Prices        Prices    `json:"prices"`
}
