package dto

import (
	"time"

	orderDomain "github.com/orderloop/orderloop/internal/order/domain"
	orderUseCase "github.com/orderloop/orderloop/internal/order/usecase"
)

// PrepareOrderResponse carries the single-use token and the quote it binds.
// The token is the only handle on the prepared order; it is never shown again.
type PrepareOrderResponse struct {
	Token  string             `json:"token"`
	Prices orderDomain.Prices `json:"prices"`
}

// NewPrepareOrderResponse converts a prepare result to its response form.
func NewPrepareOrderResponse(output *orderUseCase.PrepareOrderOutput) PrepareOrderResponse {
	return PrepareOrderResponse{
		Token:  output.Token,
		Prices: output.Prices,
	}
}

// OrderResponse describes a committed order.
type OrderResponse struct {
	ID            string             `json:"id"`
	Status        string             `json:"status"`
	CustomerName  string             `json:"customer_name"`
	Phone         string             `json:"phone"`
	Email         string             `json:"email"`
	Address       string             `json:"address"`
	ScheduledAt   time.Time          `json:"scheduled_at"`
	PaymentMethod string             `json:"payment_method"`
	Items         []orderDomain.Item `json:"items"`
	Prices        orderDomain.Prices `json:"prices"`
	CancelReason  string             `json:"cancel_reason,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// NewOrderResponse converts a domain order to its response form.
func NewOrderResponse(order *orderDomain.Order) OrderResponse {
	return OrderResponse{
		ID:            order.ID.String(),
		Status:        string(order.Status),
		CustomerName:  order.CustomerName,
		Phone:         order.Phone,
		Email:         order.Email,
		Address:       order.Address,
		ScheduledAt:   order.ScheduledAt,
		PaymentMethod: order.PaymentMethod,
		Items:         order.Items,
		Prices:        order.Prices,
		CancelReason:  order.CancelReason,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}

// TrackOrderResponse describes an order's progress.
type TrackOrderResponse struct {
	OrderID     string    `json:"order_id"`
	Status      string    `json:"status"`
	ScheduledAt time.Time `json:"scheduled_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewTrackOrderResponse converts tracking info to its response form.
func NewTrackOrderResponse(info *orderDomain.TrackingInfo) TrackOrderResponse {
	return TrackOrderResponse{
		OrderID:     info.OrderID.String(),
		Status:      string(info.Status),
		ScheduledAt: info.ScheduledAt,
		CreatedAt:   info.CreatedAt,
	}
}
