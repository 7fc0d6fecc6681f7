package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"github.com/orderloop/orderloop/internal/database"
	apperrors "github.com/orderloop/orderloop/internal/errors"
	orderDomain "github.com/orderloop/orderloop/internal/order/domain"
)

// MySQLOrderRepository implements Order persistence for MySQL.
// UUIDs are stored as BINARY(16).
type MySQLOrderRepository struct {
	db *sql.DB
}

// Create inserts a committed order.
func (m *MySQLOrderRepository) Create(ctx context.Context, order *orderDomain.Order) error {
	querier := database.GetTx(ctx, m.db)

	idValue, err := order.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal order id")
	}
	customerIDValue, err := order.CustomerID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal customer id")
	}
	items, err := json.Marshal(order.Items)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal order items")
	}

	query := `INSERT INTO orders (
				id, customer_id, status, customer_name, phone, email, address,
				scheduled_at, payment_method, items, subtotal_cents,
				delivery_fee_cents, total_cents, cancel_reason, created_at,
				updated_at, published_at
			  ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		idValue,
		customerIDValue,
		order.Status,
		order.CustomerName,
		order.Phone,
		order.Email,
		order.Address,
		order.ScheduledAt,
		order.PaymentMethod,
		items,
		order.Prices.SubtotalCents,
		order.Prices.DeliveryFeeCents,
		order.Prices.TotalCents,
		order.CancelReason,
		order.CreatedAt,
		order.UpdatedAt,
		order.PublishedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create order")
	}
	return nil
}

// Get retrieves an order by ID.
// Returns ErrOrderNotFound if the order doesn't exist.
func (m *MySQLOrderRepository) Get(ctx context.Context, orderID uuid.UUID) (*orderDomain.Order, error) {
	querier := database.GetTx(ctx, m.db)

	idValue, err := orderID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal order id")
	}

	query := `SELECT id, customer_id, status, customer_name, phone, email, address,
					 scheduled_at, payment_method, items, subtotal_cents,
					 delivery_fee_cents, total_cents, cancel_reason, created_at,
					 updated_at, published_at
			  FROM orders WHERE id = ?`

	var order orderDomain.Order
	var gotID, gotCustomerID, items []byte

	err = querier.QueryRowContext(ctx, query, idValue).Scan(
		&gotID,
		&gotCustomerID,
		&order.Status,
		&order.CustomerName,
		&order.Phone,
		&order.Email,
		&order.Address,
		&order.ScheduledAt,
		&order.PaymentMethod,
		&items,
		&order.Prices.SubtotalCents,
		&order.Prices.DeliveryFeeCents,
		&order.Prices.TotalCents,
		&order.CancelReason,
		&order.CreatedAt,
		&order.UpdatedAt,
		&order.PublishedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, orderDomain.ErrOrderNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get order")
	}

	if err := order.ID.UnmarshalBinary(gotID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal order id")
	}
	if err := order.CustomerID.UnmarshalBinary(gotCustomerID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal customer id")
	}
	if err := json.Unmarshal(items, &order.Items); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal order items")
	}

	return &order, nil
}

// Cancel marks an order cancelled with the given reason.
// Returns ErrOrderNotFound if the order doesn't exist.
func (m *MySQLOrderRepository) Cancel(
	ctx context.Context,
	orderID uuid.UUID,
	reason string,
) error {
	querier := database.GetTx(ctx, m.db)

	idValue, err := orderID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal order id")
	}

	query := `UPDATE orders
			  SET status = ?, cancel_reason = ?, updated_at = UTC_TIMESTAMP()
			  WHERE id = ?`

	result, err := querier.ExecContext(ctx, query, orderDomain.StatusCancelled, reason, idValue)
	if err != nil {
		return apperrors.Wrap(err, "failed to cancel order")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read affected rows")
	}
	if affected == 0 {
		return orderDomain.ErrOrderNotFound
	}
	return nil
}

// NewMySQLOrderRepository creates a new MySQL Order repository.
func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}
