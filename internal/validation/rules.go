// Package validation provides custom validation rules for the application.
package validation

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	apperrors "github.com/orderloop/orderloop/internal/errors"
)

var (
	// emailRegex is a basic email validation pattern
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	// phoneRegex accepts E.164-style numbers with an optional leading plus
	phoneRegex = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// Email validates email format using regex
var Email = validation.NewStringRuleWithError(
	func(s string) bool {
		return emailRegex.MatchString(s)
	},
	validation.NewError("validation_email_format", "must be a valid email address"),
)

// PhoneNumber validates phone number format (digits with optional leading plus)
var PhoneNumber = validation.NewStringRuleWithError(
	func(s string) bool {
		return phoneRegex.MatchString(s)
	},
	validation.NewError("validation_phone_format", "must be a valid phone number"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// RequiredUUID validates that a UUID value is set. The generic Required rule
// does not catch the nil UUID, which presents as a 16-byte array and the
// non-empty string "00000000-0000-0000-0000-000000000000".
type RequiredUUID struct{}

// Validate checks that the value is a non-nil uuid.UUID.
func (RequiredUUID) Validate(value interface{}) error {
	id, ok := value.(uuid.UUID)
	if !ok {
		return validation.NewError("validation_uuid_type", "must be a UUID")
	}
	if id == uuid.Nil {
		return validation.NewError("validation_uuid_required", "cannot be blank")
	}
	return nil
}

// FutureTime validates that a timestamp is in the future.
// Zero timestamps are rejected; callers decide separately whether the field is required.
type FutureTime struct{}

// Validate checks that the value is a time.Time strictly after now.
func (FutureTime) Validate(value interface{}) error {
	ts, ok := value.(time.Time)
	if !ok {
		return validation.NewError("validation_time_type", "must be a timestamp")
	}
	if ts.IsZero() || !ts.After(time.Now().UTC()) {
		return validation.NewError("validation_time_future", "must be a future timestamp")
	}
	return nil
}
