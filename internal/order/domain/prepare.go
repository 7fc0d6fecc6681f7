package domain

import (
	"time"

	validation "github.com/jellydator/validation"

	customValidation "github.com/orderloop/orderloop/internal/validation"
)

// Payment methods accepted at prepare time.
const (
	PaymentMethodCash = "cash"
	PaymentMethodCard = "card"
)

// PrepareOrderInput is the order request validated and priced during the
// prepare phase. Each field rule yields a structured {code, message}
// validation error; validation failures short-circuit before any token is
// issued.
type PrepareOrderInput struct {
	CustomerName  string    `json:"customer_name"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	Address       string    `json:"address"`
	ScheduledAt   time.Time `json:"scheduled_at"`
	PaymentMethod string    `json:"payment_method"`
	Items         []Item    `json:"items"`
}

// Validate checks all order fields.
func (i *PrepareOrderInput) Validate() error {
	return validation.ValidateStruct(i,
		validation.Field(&i.CustomerName,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&i.Phone,
			validation.Required,
			customValidation.PhoneNumber,
		),
		validation.Field(&i.Email,
			validation.Required,
			customValidation.Email,
		),
		validation.Field(&i.Address,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 500),
		),
		validation.Field(&i.ScheduledAt,
			validation.Required,
			customValidation.FutureTime{},
		),
		validation.Field(&i.PaymentMethod,
			validation.Required,
			validation.In(PaymentMethodCash, PaymentMethodCard),
		),
		validation.Field(&i.Items,
			validation.Required,
			validation.Length(1, 100),
			validation.Each(validation.By(validateItem)),
		),
	)
}

// validateItem validates a single order line.
func validateItem(value interface{}) error {
	item, ok := value.(Item)
	if !ok {
		return validation.NewError("validation_item_type", "must be an order item")
	}

	return validation.ValidateStruct(&item,
		validation.Field(&item.ProductID,
			customValidation.RequiredUUID{},
		),
		validation.Field(&item.Quantity,
			validation.Required,
			validation.Min(1),
			validation.Max(1000),
		),
	)
}
