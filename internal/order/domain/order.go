// Package domain defines the order model and the two-phase order token that
// binds a validated, priced order to its eventual commit.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a committed order.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCancelled Status = "cancelled"
)

// ContentMeta carries the audit/publish metadata shared by persisted content
// types. Embedded rather than inherited.
type ContentMeta struct {
	CreatedAt   time.Time
	UpdatedAt   time.Time
	PublishedAt *time.Time
}

// Prices is the quote computed during prepare and committed verbatim at
// redemption. Amounts are in cents to avoid floating point money.
type Prices struct {
	SubtotalCents    int64 `json:"subtotal_cents"`
	DeliveryFeeCents int64 `json:"delivery_fee_cents"`
	TotalCents       int64 `json:"total_cents"`
}

// Item is one product line in an order.
type Item struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// Order is a committed order. Only created through token redemption, so every
// persisted order reflects a quote the customer confirmed.
type Order struct {
	ID            uuid.UUID
	CustomerID    uuid.UUID
	Status        Status
	CustomerName  string
	Phone         string
	Email         string
	Address       string
	ScheduledAt   time.Time
	PaymentMethod string
	Items         []Item
	Prices        Prices
	CancelReason  string
	ContentMeta
}

// Product is a catalog entry the pricer quotes from.
type Product struct {
	ID         uuid.UUID
	Name       string
	PriceCents int64
	IsActive   bool
	CreatedAt  time.Time
}

// TrackingInfo is the customer-facing view of an order's progress.
type TrackingInfo struct {
	OrderID     uuid.UUID
	Status      Status
	ScheduledAt time.Time
	CreatedAt   time.Time
}
