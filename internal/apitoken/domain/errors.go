package domain

import (
	"github.com/orderloop/orderloop/internal/errors"
)

var (
	// ErrAPITokenNotFound indicates no token exists for the lookup criteria.
	ErrAPITokenNotFound = errors.Wrap(errors.ErrNotFound, "api token not found")

	// ErrInvalidMode indicates an unknown token mode was supplied.
	ErrInvalidMode = errors.Wrap(errors.ErrInvalidInput, "invalid api token mode")
)
