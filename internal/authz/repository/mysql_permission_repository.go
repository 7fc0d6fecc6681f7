package repository

import (
	"context"
	"database/sql"
	"errors"

	authzDomain "github.com/orderloop/orderloop/internal/authz/domain"
	"github.com/orderloop/orderloop/internal/database"
	apperrors "github.com/orderloop/orderloop/internal/errors"
)

// MySQLPermissionRepository implements Permission persistence for MySQL.
// UUIDs are stored in binary form.
type MySQLPermissionRepository struct {
	db *sql.DB
}

// Create inserts a new Permission.
func (m *MySQLPermissionRepository) Create(ctx context.Context, permission *authzDomain.Permission) error {
	querier := database.GetTx(ctx, m.db)

	idValue, err := permission.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal permission id")
	}

	query := `INSERT INTO permissions (id, permission_key, description, perm_group, created_at)
			  VALUES (?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		idValue,
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
func (m *MySQLPermissionRepository) GetByKey(
	ctx context.Context,
	key string,
) (*authzDomain.Permission, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, permission_key, description, perm_group, created_at
			  FROM permissions WHERE permission_key = ?`

	var permission authzDomain.Permission
	var idValue []byte

	err := querier.QueryRowContext(ctx, query, key).Scan(
		&idValue,
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

	if err := permission.ID.UnmarshalBinary(idValue); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal permission id")
	}

	return &permission, nil
}

// NewMySQLPermissionRepository creates a new MySQL Permission repository.
func NewMySQLPermissionRepository(db *sql.DB) *MySQLPermissionRepository {
	return &MySQLPermissionRepository{db: db}
}
