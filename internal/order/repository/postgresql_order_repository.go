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

// PostgreSQLOrderRepository implements Order persistence for PostgreSQL.
type PostgreSQLOrderRepository struct {
	db *sql.DB
}

// Create inserts a committed order.
func (p *PostgreSQLOrderRepository) Create(ctx context.Context, order *orderDomain.Order) error {
	querier := database.GetTx(ctx, p.db)

	items, err := json.Marshal(order.Items)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal order items")
	}

	query := `INSERT INTO orders (
				id, customer_id, status, customer_name, phone, email, address,
				scheduled_at, payment_method, items, subtotal_cents,
				delivery_fee_cents, total_cents, cancel_reason, created_at,
				updated_at, published_at
			  ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	_, err = querier.ExecContext(
		ctx,
		query,
		order.ID,
		order.CustomerID,
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
func (p *PostgreSQLOrderRepository) Get(ctx context.Context, orderID uuid.UUID) (*orderDomain.Order, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, customer_id, status, customer_name, phone, email, address,
					 scheduled_at, payment_method, items, subtotal_cents,
					 delivery_fee_cents, total_cents, cancel_reason, created_at,
					 updated_at, published_at
			  FROM orders WHERE id = $1`

	var order orderDomain.Order
	var items []byte

	err := querier.QueryRowContext(ctx, query, orderID).Scan(
		&order.ID,
		&order.CustomerID,
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

	if err := json.Unmarshal(items, &order.Items); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal order items")
	}

	return &order, nil
}

// Cancel marks an order cancelled with the given reason.
// Returns ErrOrderNotFound if the order doesn't exist.
func (p *PostgreSQLOrderRepository) Cancel(
	ctx context.Context,
	orderID uuid.UUID,
	reason string,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE orders
			  SET status = $1, cancel_reason = $2, updated_at = NOW()
			  WHERE id = $3`

	result, err := querier.ExecContext(ctx, query, orderDomain.StatusCancelled, reason, orderID)
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

// NewPostgreSQLOrderRepository creates a new PostgreSQL Order repository.
func NewPostgreSQLOrderRepository(db *sql.DB) *PostgreSQLOrderRepository {
	return &PostgreSQLOrderRepository{db: db}
}
