// Package repository implements persistence for the authorization model.
package repository

import (
	"context"
	"database/sql"
	"errors"

	authzDomain "github.com/orderloop/orderloop/internal/authz/domain"
	"github.com/orderloop/orderloop/internal/database"
	apperrors "github.com/orderloop/orderloop/internal/errors"
)

// PostgreSQLPermissionRepository implements Permission persistence for PostgreSQL.
// Uses transaction support via database.GetTx().
type PostgreSQLPermissionRepository struct {
	db *sql.DB
}

// Create inserts a new Permission. Permissions are immutable after creation,
// so there is no update method.
func (p *PostgreSQLPermissionRepository) Create(ctx context.Context, permission *authzDomain.Permission) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO permissions (id, permission_key, description, perm_group, created_at)
			  VALUES ($1, $2, $3, $4, $5)`

	_, err := querier.ExecContext(
		ctx,
		query,
		permission.ID,
		permission.Key,
		permission.Description,
		permission.Group,
		permission.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create permission")
	}
	return nil
}

// GetByKey retrieves a Permission by its unique key.
// Returns ErrPermissionNotFound if no permission exists for the key.
func (p *PostgreSQLPermissionRepository) GetByKey(
	ctx context.Context,
	key string,
) (*authzDomain.Permission, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, permission_key, description, perm_group, created_at
			  FROM permissions WHERE permission_key = $1`

	var permission authzDomain.Permission

	err := querier.QueryRowContext(ctx, query, key).Scan(
		&permission.ID,
		&permission.Key,
		&permission.Description,
		&permission.Group,
		&permission.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authzDomain.ErrPermissionNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get permission")
	}

	return &permission, nil
}

// NewPostgreSQLPermissionRepository creates a new PostgreSQL Permission repository.
func NewPostgreSQLPermissionRepository(db *sql.DB) *PostgreSQLPermissionRepository {
	return &PostgreSQLPermissionRepository{db: db}
}
