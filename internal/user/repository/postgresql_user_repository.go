// Package repository implements user persistence.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/orderloop/orderloop/internal/database"
	apperrors "github.com/orderloop/orderloop/internal/errors"
	userDomain "github.com/orderloop/orderloop/internal/user/domain"
)

// PostgreSQLUserRepository implements User persistence for PostgreSQL.
type PostgreSQLUserRepository struct {
	db *sql.DB
}

// Create inserts a new user and their role memberships.
func (p *PostgreSQLUserRepository) Create(ctx context.Context, user *userDomain.User) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO users (id, name, email, created_at) VALUES ($1, $2, $3, $4)`

	_, err := querier.ExecContext(ctx, query, user.ID, user.Name, user.Email, user.CreatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create user")
	}

	roleQuery := `INSERT INTO user_roles (user_id, role_id)
				  SELECT $1, id FROM roles WHERE name = $2`

	for _, role := range user.Roles {
		if _, err := querier.ExecContext(ctx, roleQuery, user.ID, role); err != nil {
			return apperrors.Wrap(err, "failed to assign role")
		}
	}

	return nil
}

// Get retrieves a user by ID with their role names resolved.
// Returns ErrUserNotFound if the user doesn't exist.
func (p *PostgreSQLUserRepository) Get(ctx context.Context, userID uuid.UUID) (*userDomain.User, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, name, email, created_at FROM users WHERE id = $1`

	var user userDomain.User

	err := querier.QueryRowContext(ctx, query, userID).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, userDomain.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get user")
	}

	rolesQuery := `SELECT r.name
				   FROM roles r
				   JOIN user_roles ur ON ur.role_id = r.id
				   WHERE ur.user_id = $1
				   ORDER BY r.name`

	rows, err := querier.QueryContext(ctx, rolesQuery, userID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get user roles")
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan role name")
		}
		user.Roles = append(user.Roles, name)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate user roles")
	}

	return &user, nil
}

// NewPostgreSQLUserRepository creates a new PostgreSQL User repository.
func NewPostgreSQLUserRepository(db *sql.DB) *PostgreSQLUserRepository {
	return &PostgreSQLUserRepository{db: db}
}
