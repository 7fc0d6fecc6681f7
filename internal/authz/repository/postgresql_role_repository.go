package repository

import (
	"context"
	"database/sql"
	"errors"

	authzDomain "github.com/orderloop/orderloop/internal/authz/domain"
	"github.com/orderloop/orderloop/internal/database"
	apperrors "github.com/orderloop/orderloop/internal/errors"
)

// PostgreSQLRoleRepository implements Role persistence for PostgreSQL.
type PostgreSQLRoleRepository struct {
	db *sql.DB
}

// Create inserts a new Role.
func (p *PostgreSQLRoleRepository) Create(ctx context.Context, role *authzDomain.Role) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO roles (id, name, created_at) VALUES ($1, $2, $3)`

	_, err := querier.ExecContext(ctx, query, role.ID, role.Name, role.CreatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create role")
	}
	return nil
}

// GetByName retrieves a Role by its unique name.
// Returns ErrRoleNotFound if no role exists with the name.
func (p *PostgreSQLRoleRepository) GetByName(ctx context.Context, name string) (*authzDomain.Role, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, name, created_at FROM roles WHERE name = $1`

	var role authzDomain.Role

	err := querier.QueryRowContext(ctx, query, name).Scan(&role.ID, &role.Name, &role.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authzDomain.ErrRoleNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get role")
	}

	return &role, nil
}

// NewPostgreSQLRoleRepository creates a new PostgreSQL Role repository.
func NewPostgreSQLRoleRepository(db *sql.DB) *PostgreSQLRoleRepository {
	return &PostgreSQLRoleRepository{db: db}
}
