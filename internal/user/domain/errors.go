package domain

import (
	"github.com/orderloop/orderloop/internal/errors"
)

var (
	// ErrUserNotFound indicates a user with the specified ID was not found.
	ErrUserNotFound = errors.Wrap(errors.ErrNotFound, "user not found")
)
