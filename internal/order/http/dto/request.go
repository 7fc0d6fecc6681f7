// Package dto provides data transfer objects for order HTTP handling.
package dto

import (
	"time"

	validation "github.com/jellydator/validation"

	orderDomain "github.com/orderloop/orderloop/internal/order/domain"
	customValidation "github.com/orderloop/orderloop/internal/validation"
)

// PrepareOrderRequest contains the order details to validate and price.
type PrepareOrderRequest struct {
	CustomerName  string             `json:"customer_name"`
	Phone         string             `json:"phone"`
	Email         string             `json:"email"`
	Address       string             `json:"address"`
	ScheduledAt   time.Time          `json:"scheduled_at"`
	PaymentMethod string             `json:"payment_method"`
	Items         []orderDomain.Item `json:"items"`
}

// ToInput converts the request to the domain input, which carries the
// field-level validation rules.
func (r *PrepareOrderRequest) ToInput() *orderDomain.PrepareOrderInput {
	return &orderDomain.PrepareOrderInput{
		CustomerName:  r.CustomerName,
		Phone:         r.Phone,
		Email:         r.Email,
		Address:       r.Address,
		ScheduledAt:   r.ScheduledAt,
		PaymentMethod: r.PaymentMethod,
		Items:         r.Items,
	}
}

// CreateOrderRequest carries the single-use token from the prepare phase.
type CreateOrderRequest struct {
	Token string `json:"token"`
}

// Validate checks if the create request is valid.
func (r *CreateOrderRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Token,
			validation.Required,
			customValidation.NotBlank,
		),
	)
}

// TrackOrderRequest identifies the order to track.
type TrackOrderRequest struct {
	OrderID string `json:"order_id"`
}

// Validate checks if the track request is valid.
func (r *TrackOrderRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.OrderID,
			validation.Required,
			customValidation.NotBlank,
		),
	)
}

// CancelOrderRequest identifies the order to cancel and why.
type CancelOrderRequest struct {
	OrderID string `json:"order_id"`
	Reason  string `json:"reason"`
}

// Validate checks if the cancel request is valid.
func (r *CancelOrderRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.OrderID,
			validation.Required,
			customValidation.NotBlank,
		),
		validation.Field(&r.Reason,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 500),
		),
	)
}
