package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	authzDomain "github.com/orderloop/orderloop/internal/authz/domain"
	"github.com/orderloop/orderloop/internal/database"
	apperrors "github.com/orderloop/orderloop/internal/errors"
)

// MySQLGrantRepository implements RolePermissionGrant persistence for MySQL.
type MySQLGrantRepository struct {
	db *sql.DB
}

// Create inserts a new grant.
func (m *MySQLGrantRepository) Create(ctx context.Context, grant *authzDomain.RolePermissionGrant) error {
	querier := database.GetTx(ctx, m.db)

	idValue, err := grant.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal grant id")
	}
	roleIDValue, err := grant.RoleID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal role id")
	}
	permissionIDValue, err := grant.PermissionID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal permission id")
	}

	query := `INSERT INTO role_permission_grants (id, role_id, permission_id, granted, created_at)
			  VALUES (?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		idValue,
		roleIDValue,
		permissionIDValue,
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
func (m *MySQLGrantRepository) Get(
	ctx context.Context,
	roleID, permissionID uuid.UUID,
) (*authzDomain.RolePermissionGrant, error) {
	querier := database.GetTx(ctx, m.db)

	roleIDValue, err := roleID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal role id")
	}
	permissionIDValue, err := permissionID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal permission id")
	}

	query := `SELECT id, role_id, permission_id, granted, created_at
			  FROM role_permission_grants WHERE role_id = ? AND permission_id = ?`

	var grant authzDomain.RolePermissionGrant
	var idValue, gotRoleID, gotPermissionID []byte

	err = querier.QueryRowContext(ctx, query, roleIDValue, permissionIDValue).Scan(
		&idValue,
		&gotRoleID,
		&gotPermissionID,
		&grant.Granted,
		&grant.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authzDomain.ErrGrantNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get grant")
	}

	if err := grant.ID.UnmarshalBinary(idValue); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal grant id")
	}
	if err := grant.RoleID.UnmarshalBinary(gotRoleID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal role id")
	}
	if err := grant.PermissionID.UnmarshalBinary(gotPermissionID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal permission id")
	}

	return &grant, nil
}

// ExistsGrantedForRoles reports whether at least one of the named roles holds
// a granted record for the permission. Absence of any grant is a regular
// false result, never an error.
func (m *MySQLGrantRepository) ExistsGrantedForRoles(
	ctx context.Context,
	permissionID uuid.UUID,
	roleNames []string,
) (bool, error) {
	if len(roleNames) == 0 {
		return false, nil
	}

	querier := database.GetTx(ctx, m.db)

	permissionIDValue, err := permissionID.MarshalBinary()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to marshal permission id")
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(roleNames)), ", ")
	query := `SELECT EXISTS (
				SELECT 1
				FROM role_permission_grants g
				JOIN roles r ON r.id = g.role_id
				WHERE g.permission_id = ? AND g.granted = TRUE AND r.name IN (` + placeholders + `)
			  )`

	args := make([]any, 0, len(roleNames)+1)
	args = append(args, permissionIDValue)
	for _, name := range roleNames {
		args = append(args, name)
	}

	var exists bool
	if err := querier.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, apperrors.Wrap(err, "failed to check grants")
	}

	return exists, nil
}

// NewMySQLGrantRepository creates a new MySQL grant repository.
func NewMySQLGrantRepository(db *sql.DB) *MySQLGrantRepository {
	return &MySQLGrantRepository{db: db}
}
