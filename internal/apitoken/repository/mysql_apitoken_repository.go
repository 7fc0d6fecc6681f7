package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	apitokenDomain "github.com/orderloop/orderloop/internal/apitoken/domain"
	"github.com/orderloop/orderloop/internal/database"
	apperrors "github.com/orderloop/orderloop/internal/errors"
)

// MySQLAPITokenRepository implements APIToken persistence for MySQL.
// UUIDs are stored as BINARY(16).
type MySQLAPITokenRepository struct {
	db *sql.DB
}

// Create inserts a new API token.
func (m *MySQLAPITokenRepository) Create(ctx context.Context, token *apitokenDomain.APIToken) error {
	querier := database.GetTx(ctx, m.db)

	idValue, err := token.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal token id")
	}
	userIDValue, err := token.UserID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal user id")
	}

	query := `INSERT INTO api_tokens (id, user_id, token_hash, mode, created_at)
			  VALUES (?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(ctx, query, idValue, userIDValue, token.TokenHash, token.Mode, token.CreatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create api token")
	}
	return nil
}

// GetByTokenHash retrieves a token by its hash, scoped to a mode.
// Returns ErrAPITokenNotFound if no matching token exists.
func (m *MySQLAPITokenRepository) GetByTokenHash(
	ctx context.Context,
	tokenHash string,
	mode apitokenDomain.Mode,
) (*apitokenDomain.APIToken, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, user_id, token_hash, mode, created_at
			  FROM api_tokens WHERE token_hash = ? AND mode = ?`

	return scanAPIToken(querier.QueryRowContext(ctx, query, tokenHash, mode))
}

// GetByUserAndMode retrieves the user's token for a mode.
// Returns ErrAPITokenNotFound if the user holds no token in that mode.
func (m *MySQLAPITokenRepository) GetByUserAndMode(
	ctx context.Context,
	userID uuid.UUID,
	mode apitokenDomain.Mode,
) (*apitokenDomain.APIToken, error) {
	querier := database.GetTx(ctx, m.db)

	userIDValue, err := userID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal user id")
	}

	query := `SELECT id, user_id, token_hash, mode, created_at
			  FROM api_tokens WHERE user_id = ? AND mode = ?`

	return scanAPIToken(querier.QueryRowContext(ctx, query, userIDValue, mode))
}

// DeleteByUserAndMode removes the user's token for a mode.
// Returns the number of rows removed so callers can distinguish
// revocation from a no-op.
func (m *MySQLAPITokenRepository) DeleteByUserAndMode(
	ctx context.Context,
	userID uuid.UUID,
	mode apitokenDomain.Mode,
) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	userIDValue, err := userID.MarshalBinary()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to marshal user id")
	}

	query := `DELETE FROM api_tokens WHERE user_id = ? AND mode = ?`

	result, err := querier.ExecContext(ctx, query, userIDValue, mode)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete api token")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to read affected rows")
	}
	return affected, nil
}

// DeleteByTokenHash removes the token with the given hash.
// Returns the number of rows removed.
func (m *MySQLAPITokenRepository) DeleteByTokenHash(ctx context.Context, tokenHash string) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM api_tokens WHERE token_hash = ?`

	result, err := querier.ExecContext(ctx, query, tokenHash)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete api token")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to read affected rows")
	}
	return affected, nil
}

func scanAPIToken(row *sql.Row) (*apitokenDomain.APIToken, error) {
	var token apitokenDomain.APIToken
	var idValue, userIDValue []byte

	err := row.Scan(&idValue, &userIDValue, &token.TokenHash, &token.Mode, &token.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apitokenDomain.ErrAPITokenNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get api token")
	}

	if err := token.ID.UnmarshalBinary(idValue); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal token id")
	}
	if err := token.UserID.UnmarshalBinary(userIDValue); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal user id")
	}

	return &token, nil
}

// NewMySQLAPITokenRepository creates a new MySQL APIToken repository.
func NewMySQLAPITokenRepository(db *sql.DB) *MySQLAPITokenRepository {
	return &MySQLAPITokenRepository{db: db}
}
