package validation

import (
	"testing"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/orderloop/orderloop/internal/errors"
)

func TestEmail(t *testing.T) {
	assert.NoError(t, validation.Validate("customer@example.com", Email))
	assert.Error(t, validation.Validate("not-an-email", Email))
	assert.Error(t, validation.Validate("missing@tld", Email))
}

func TestPhoneNumber(t *testing.T) {
	assert.NoError(t, validation.Validate("+14155550101", PhoneNumber))
	assert.NoError(t, validation.Validate("14155550101", PhoneNumber))
	assert.Error(t, validation.Validate("555-0101", PhoneNumber))
	assert.Error(t, validation.Validate("12345", PhoneNumber))
}

func TestNotBlank(t *testing.T) {
	assert.NoError(t, validation.Validate("value", NotBlank))
	assert.Error(t, validation.Validate("   ", NotBlank))
}

func TestRequiredUUID(t *testing.T) {
	rule := RequiredUUID{}

	assert.NoError(t, rule.Validate(uuid.Must(uuid.NewV7())))
	assert.Error(t, rule.Validate(uuid.Nil))
	assert.Error(t, rule.Validate("not a uuid"))

	// The generic Required rule misses the nil UUID; RequiredUUID must not.
	assert.NoError(t, validation.Validate(uuid.Nil, validation.Required))
	assert.Error(t, validation.Validate(uuid.Nil, RequiredUUID{}))
}

func TestFutureTime(t *testing.T) {
	rule := FutureTime{}

	assert.NoError(t, rule.Validate(time.Now().UTC().Add(time.Hour)))
	assert.Error(t, rule.Validate(time.Now().UTC().Add(-time.Hour)))
	assert.Error(t, rule.Validate(time.Time{}))
	assert.Error(t, rule.Validate("not a time"))
}

func TestWrapValidationError(t *testing.T) {
	assert.Nil(t, WrapValidationError(nil))

	err := WrapValidationError(assert.AnError)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
}
