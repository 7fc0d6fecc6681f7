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

// MySQLUserRepository implements User persistence for MySQL.
type MySQLUserRepository struct {
	db *sql.DB
}

// Create inserts a new user and their role memberships.
func (m *MySQLUserRepository) Create(ctx context.Context, user *userDomain.User) error {
	querier := database.GetTx(ctx, m.db)

	idValue, err := user.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal user id")
	}

	query := `INSERT INTO users (id, name, email, created_at) VALUES (?, ?, ?, ?)`

	_, err = querier.ExecContext(ctx, query, idValue, user.Name, user.Email, user.CreatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create user")
	}

	roleQuery := `INSERT INTO user_roles (user_id, role_id)
				  SELECT ?, id FROM roles WHERE name = ?`

	for _, role := range user.Roles {
		if _, err := querier.ExecContext(ctx, roleQuery, idValue, role); err != nil {
			return apperrors.Wrap(err, "failed to assign role")
		}
	}

	return nil
}

// Get retrieves a user by ID with their role names resolved.
// Returns ErrUserNotFound if the user doesn't exist.
func (m *MySQLUserRepository) Get(ctx context.Context, userID uuid.UUID) (*userDomain.User, error) {
	querier := database.GetTx(ctx, m.db)

	idValue, err := userID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal user id")
	}

	query := `SELECT id, name, email, created_at FROM users WHERE id = ?`

	var user userDomain.User
	var gotID []byte

	err = querier.QueryRowContext(ctx, query, idValue).Scan(
		&gotID,
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

	if err := user.ID.UnmarshalBinary(gotID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal user id")
	}

	rolesQuery := `SELECT r.name
				   FROM roles r
				   JOIN user_roles ur ON ur.role_id = r.id
				   WHERE ur.user_id = ?
				   ORDER BY r.name`

	rows, err := querier.QueryContext(ctx, rolesQuery, idValue)
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

// NewMySQLUserRepository creates a new MySQL User repository.
func NewMySQLUserRepository(db *sql.DB) *MySQLUserRepository {
	return &MySQLUserRepository{db: db}
}
