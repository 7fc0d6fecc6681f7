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

// MySQLOrderTokenRepository implements OrderToken persistence for MySQL.
// UUIDs are stored as BINARY(16).
type MySQLOrderTokenRepository struct {
	db *sql.DB
}

// Create inserts a new order token.
func (m *MySQLOrderTokenRepository) Create(ctx context.Context, token *orderDomain.OrderToken) error {
	querier := database.GetTx(ctx, m.db)

	idValue, err := token.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal token id")
	}

	query := `INSERT INTO order_tokens (id, token_hash, payload, created_at)
			  VALUES (?, ?, ?, ?)`

	_, err = querier.ExecContext(ctx, query, idValue, token.TokenHash, token.Payload, token.CreatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create order token")
	}
	return nil
}

// Consume atomically removes the token and returns its payload and creation
// time. MySQL has no DELETE ... RETURNING, so the row is locked with
// SELECT ... FOR UPDATE and deleted inside one transaction; the second of two
// concurrent consumers blocks on the lock and then finds no row, yielding
// ErrOrderTokenNotFound.
func (m *MySQLOrderTokenRepository) Consume(
	ctx context.Context,
	tokenHash string,
) ([]byte, time.Time, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, time.Time{}, apperrors.Wrap(err, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	selectQuery := `SELECT payload, created_at FROM order_tokens WHERE token_hash = ? FOR UPDATE`

	var payload []byte
	var createdAt time.Time

	err = tx.QueryRowContext(ctx, selectQuery, tokenHash).Scan(&payload, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, time.Time{}, orderDomain.ErrOrderTokenNotFound
		}
		return nil, time.Time{}, apperrors.Wrap(err, "failed to read order token")
	}

	deleteQuery := `DELETE FROM order_tokens WHERE token_hash = ?`

	if _, err := tx.ExecContext(ctx, deleteQuery, tokenHash); err != nil {
		return nil, time.Time{}, apperrors.Wrap(err, "failed to delete order token")
	}

	if err := tx.Commit(); err != nil {
		return nil, time.Time{}, apperrors.Wrap(err, "failed to commit token consumption")
	}

	return payload, createdAt, nil
}

// DeleteOlderThan removes tokens created before the cutoff.
func (m *MySQLOrderTokenRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM order_tokens WHERE created_at < ?`

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

// NewMySQLOrderTokenRepository creates a new MySQL OrderToken repository.
func NewMySQLOrderTokenRepository(db *sql.DB) *MySQLOrderTokenRepository {
	return &MySQLOrderTokenRepository{db: db}
}
