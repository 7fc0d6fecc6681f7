// Package repository implements API token persistence.
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

// PostgreSQLAPITokenRepository implements APIToken persistence for PostgreSQL.
// Uses transaction support via database.GetTx().
type PostgreSQLAPITokenRepository struct {
	db *sql.DB
}

// Create inserts a new API token.
func (p *PostgreSQLAPITokenRepository) Create(ctx context.Context, token *apitokenDomain.APIToken) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO api_tokens (id, user_id, token_hash, mode, created_at)
			  VALUES ($1, $2, $3, $4, $5)`

	_, err := querier.ExecContext(
		ctx,
		query,
		token.ID,
		token.UserID,
		token.TokenHash,
		token.Mode,
		token.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create api token")
	}
	return nil
}

// GetByTokenHash retrieves a token by its hash, scoped to a mode.
// Returns ErrAPITokenNotFound if no matching token exists.
func (p *PostgreSQLAPITokenRepository) GetByTokenHash(
	ctx context.Context,
	tokenHash string,
	mode apitokenDomain.Mode,
) (*apitokenDomain.APIToken, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, user_id, token_hash, mode, created_at
			  FROM api_tokens WHERE token_hash = $1 AND mode = $2`

	var token apitokenDomain.APIToken

	err := querier.QueryRowContext(ctx, query, tokenHash, mode).Scan(
		&token.ID,
		&token.UserID,
		&token.TokenHash,
		&token.Mode,
		&token.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apitokenDomain.ErrAPITokenNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get api token")
	}

	return &token, nil
}

// GetByUserAndMode retrieves the user's token for a mode.
// Returns ErrAPITokenNotFound if the user holds no token in that mode.
func (p *PostgreSQLAPITokenRepository) GetByUserAndMode(
	ctx context.Context,
	userID uuid.UUID,
	mode apitokenDomain.Mode,
) (*apitokenDomain.APIToken, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, user_id, token_hash, mode, created_at
			  FROM api_tokens WHERE user_id = $1 AND mode = $2`

	var token apitokenDomain.APIToken

	err := querier.QueryRowContext(ctx, query, userID, mode).Scan(
		&token.ID,
		&token.UserID,
		&token.TokenHash,
		&token.Mode,
		&token.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apitokenDomain.ErrAPITokenNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get api token")
	}

	return &token, nil
}

// DeleteByUserAndMode removes the user's token for a mode.
// Returns the number of rows removed so callers can distinguish
// revocation from a no-op.
func (p *PostgreSQLAPITokenRepository) DeleteByUserAndMode(
	ctx context.Context,
	userID uuid.UUID,
	mode apitokenDomain.Mode,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM api_tokens WHERE user_id = $1 AND mode = $2`

	result, err := querier.ExecContext(ctx, query, userID, mode)
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
func (p *PostgreSQLAPITokenRepository) DeleteByTokenHash(ctx context.Context, tokenHash string) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM api_tokens WHERE token_hash = $1`

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

// NewPostgreSQLAPITokenRepository creates a new PostgreSQL APIToken repository.
func NewPostgreSQLAPITokenRepository(db *sql.DB) *PostgreSQLAPITokenRepository {
	return &PostgreSQLAPITokenRepository{db: db}
}
