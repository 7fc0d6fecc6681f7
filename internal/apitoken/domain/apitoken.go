// Package domain defines the API token model.
//
// An API token is a long-lived bearer credential bound to a single user and
// mode. Each user holds at most one token per mode; issuing a new one
// replaces the previous token, so revocation doubles as expiry.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Mode separates production credentials from test credentials. Tokens issued
// in one mode never authenticate requests in the other.
type Mode string

const (
	ModeProduction Mode = "production"
	ModeTest       Mode = "test"
)

// Valid reports whether the mode is one of the known values.
func (m Mode) Valid() bool {
	return m == ModeProduction || m == ModeTest
}

// APIToken is the persisted form of an issued credential. Only the SHA-256
// hash of the plain token is stored.
type APIToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string
	Mode      Mode
	CreatedAt time.Time
}

// IssueAPITokenOutput carries the plain token back to the caller. It is
// returned exactly once at issuance and never persisted.
type IssueAPITokenOutput struct {
	PlainToken string
}
