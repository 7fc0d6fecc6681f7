package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	authzDomain "github.com/orderloop/orderloop/internal/authz/domain"
	"github.com/orderloop/orderloop/internal/database"
	apperrors "github.com/orderloop/orderloop/internal/errors"
)

// PostgreSQLGrantRepository implements RolePermissionGrant persistence for PostgreSQL.
type PostgreSQLGrantRepository struct {
	db *sql.DB
}

// Create inserts a new grant. The (role_id, permission_id) pair is unique,
// so re-inserting an existing grant fails at the database level.
func (p *PostgreSQLGrantRepository) Create(ctx context.Context, grant *authzDomain.RolePermissionGrant) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO role_permission_grants (id, role_id, permission_id, granted, created_at)
			  VALUES ($1, $2, $3, $4, $5)`

	_, err := querier.ExecContext(
		ctx,
		query,
		grant.ID,
		grant.RoleID,
		grant.PermissionID,
		grant.Granted,
		grant.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create grant")
	}
	return nil
}

// Get retrieves the grant record for a (role, permission) pair.
// Returns ErrGrantNotFound if no record exists.
func (p *PostgreSQLGrantRepository) Get(
	ctx context.Context,
	roleID, permissionID uuid.UUID,
) (*authzDomain.RolePermissionGrant, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, role_id, permission_id, granted, created_at
			  FROM role_permission_grants WHERE role_id = $1 AND permission_id = $2`

	var grant authzDomain.RolePermissionGrant

	err := querier.QueryRowContext(ctx, query, roleID, permissionID).Scan(
		&grant.ID,
		&grant.RoleID,
		&grant.PermissionID,
		&grant.Granted,
		&grant.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authzDomain.ErrGrantNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get grant")
	}

	return &grant, nil
}

// ExistsGrantedForRoles reports whether at least one of the named roles holds
// a granted record for the permission. Absence of any grant is a regular
// false result, never an error.
func (p *PostgreSQLGrantRepository) ExistsGrantedForRoles(
	ctx context.Context,
	permissionID uuid.UUID,
	roleNames []string,
) (bool, error) {
	if len(roleNames) == 0 {
		return false, nil
	}

	querier := database.GetTx(ctx, p.db)

	query := `SELECT EXISTS (
				SELECT 1
				FROM role_permission_grants g
				JOIN roles r ON r.id = g.role_id
				WHERE g.permission_id = $1 AND g.granted = TRUE AND r.name = ANY($2)
			  )`

	var exists bool

	err := querier.QueryRowContext(ctx, query, permissionID, pq.Array(roleNames)).Scan(&exists)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to check grants")
	}

	return exists, nil
}

// NewPostgreSQLGrantRepository creates a new PostgreSQL grant repository.
func NewPostgreSQLGrantRepository(db *sql.DB) *PostgreSQLGrantRepository {
	return &PostgreSQLGrantRepository{db: db}
}
