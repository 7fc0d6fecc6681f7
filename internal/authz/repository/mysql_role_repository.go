package repository

import (
	"context"
	"database/sql"
	"errors"

	authzDomain "github.com/orderloop/orderloop/internal/authz/domain"
	"github.com/orderloop/orderloop/internal/database"
	apperrors "github.com/orderloop/orderloop/internal/errors"
)

// MySQLRoleRepository implements Role persistence for MySQL.
type MySQLRoleRepository struct {
	db *sql.DB
}

// Create inserts a new Role.
func (m *MySQLRoleRepository) Create(ctx context.Context, role *authzDomain.Role) error {
	querier := database.GetTx(ctx, m.db)

	idValue, err := role.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal role id")
	}

	query := `INSERT INTO roles (id, name, created_at) VALUES (?, ?, ?)`

	_, err = querier.ExecContext(ctx, query, idValue, role.Name, role.CreatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create role")
	}
	return nil
}

// GetByName retrieves a Role by its unique name.
// Returns ErrRoleNotFound if no role exists with the name.
func (m *MySQLRoleRepository) GetByName(ctx context.Context, name string) (*authzDomain.Role, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, name, created_at FROM roles WHERE name = ?`

	var role authzDomain.Role
	var idValue []byte

	err := querier.QueryRowContext(ctx, query, name).Scan(&idValue, &role.Name, &role.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authzDomain.ErrRoleNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get role")
	}

	if err := role.ID.UnmarshalBinary(idValue); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal role id")
	}

	return &role, nil
}

// NewMySQLRoleRepository creates a new MySQL Role repository.
func NewMySQLRoleRepository(db *sql.DB) *MySQLRoleRepository {
	return &MySQLRoleRepository{db: db}
}
