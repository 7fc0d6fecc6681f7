// Package repository implements persistence for orders, order tokens, and
// the product catalog.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/orderloop/orderloop/internal/database"
	apperrors "github.com/orderloop/orderloop/internal/errors"
	orderDomain "github.com/orderloop/orderloop/internal/order/domain"
)

// PostgreSQLOrderTokenRepository implements OrderToken persistence for PostgreSQL.
type PostgreSQLOrderTokenRepository struct {
	db *sql.DB
}

// Create inserts a new order token.
func (p *PostgreSQLOrderTokenRepository) Create(ctx context.Context, token *orderDomain.OrderToken) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO order_tokens (id, token_hash, payload, created_at)
			  VALUES ($1, $2, $3, $4)`

	_, err := querier.ExecContext(ctx, query, token.ID, token.TokenHash, token.Payload, token.CreatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create order token")
	}
	return nil
}

// Consume atomically removes the token and returns its payload and creation
// time. The conditional DELETE ... RETURNING makes redemption destructive and
// exclusive: of two concurrent consumers of the same token, exactly one gets
// the row; the other sees ErrOrderTokenNotFound.
func (p *PostgreSQLOrderTokenRepository) Consume(
	ctx context.Context,
	tokenHash string,
) ([]byte, time.Time, error) {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM order_tokens WHERE token_hash = $1 RETURNING payload, created_at`

	var payload []byte
	var createdAt time.Time

	err := querier.QueryRowContext(ctx, query, tokenHash).Scan(&payload, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, time.Time{}, orderDomain.ErrOrderTokenNotFound
		}
		return nil, time.Time{}, apperrors.Wrap(err, "failed to consume order token")
	}

	return payload, createdAt, nil
}

// DeleteOlderThan removes tokens created before the cutoff. Expired tokens
// are inert until redeemed, so this exists only as housekeeping for the
// cleanup command.
func (p *PostgreSQLOrderTokenRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM order_tokens WHERE created_at < $1`

	result, err := querier.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete stale order tokens")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to read affected rows")
	}
	return affected, nil
}

// NewPostgreSQLOrderTokenRepository creates a new PostgreSQL OrderToken repository.
func NewPostgreSQLOrderTokenRepository(db *sql.DB) *PostgreSQLOrderTokenRepository {
	return &PostgreSQLOrderTokenRepository{db: db}
}
