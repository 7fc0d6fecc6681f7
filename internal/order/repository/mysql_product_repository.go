package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/orderloop/orderloop/internal/database"
	apperrors "github.com/orderloop/orderloop/internal/errors"
	orderDomain "github.com/orderloop/orderloop/internal/order/domain"
)

// MySQLProductRepository implements Product persistence for MySQL.
// UUIDs are stored as BINARY(16).
type MySQLProductRepository struct {
	db *sql.DB
}

// Create inserts a new product.
func (m *MySQLProductRepository) Create(ctx context.Context, product *orderDomain.Product) error {
	querier := database.GetTx(ctx, m.db)

	idValue, err := product.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal product id")
	}

	query := `INSERT INTO products (id, name, price_cents, is_active, created_at)
			  VALUES (?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(ctx, query, idValue, product.Name, product.PriceCents, product.IsActive, product.CreatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create product")
	}
	return nil
}

// Get retrieves a product by ID.
// Returns ErrProductNotFound if the product doesn't exist.
func (m *MySQLProductRepository) Get(ctx context.Context, productID uuid.UUID) (*orderDomain.Product, error) {
	querier := database.GetTx(ctx, m.db)

	idValue, err := productID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal product id")
	}

	query := `SELECT id, name, price_cents, is_active, created_at
			  FROM products WHERE id = ?`

	var product orderDomain.Product
	var gotID []byte

	err = querier.QueryRowContext(ctx, query, idValue).Scan(
		&gotID,
		&product.Name,
		&product.PriceCents,
		&product.IsActive,
		&product.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, orderDomain.ErrProductNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get product")
	}

	if err := product.ID.UnmarshalBinary(gotID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal product id")
	}

	return &product, nil
}

// GetByIDs retrieves products by their IDs, keyed by ID. Missing IDs are
// simply absent from the result.
func (m *MySQLProductRepository) GetByIDs(
	ctx context.Context,
	ids []uuid.UUID,
) (map[uuid.UUID]*orderDomain.Product, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]*orderDomain.Product{}, nil
	}

	querier := database.GetTx(ctx, m.db)

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	query := `SELECT id, name, price_cents, is_active, created_at
			  FROM products WHERE id IN (` + placeholders + `)`

	args := make([]any, 0, len(ids))
	for _, id := range ids {
		idValue, err := id.MarshalBinary()
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to marshal product id")
		}
		args = append(args, idValue)
	}

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get products")
	}
	defer rows.Close()

	products := make(map[uuid.UUID]*orderDomain.Product, len(ids))
	for rows.Next() {
		var product orderDomain.Product
		var gotID []byte
		err := rows.Scan(&gotID, &product.Name, &product.PriceCents, &product.IsActive, &product.CreatedAt)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan product")
		}
		if err := product.ID.UnmarshalBinary(gotID); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal product id")
		}
		products[product.ID] = &product
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate products")
	}

	return products, nil
}

// NewMySQLProductRepository creates a new MySQL Product repository.
func NewMySQLProductRepository(db *sql.DB) *MySQLProductRepository {
	return &MySQLProductRepository{db: db}
}
