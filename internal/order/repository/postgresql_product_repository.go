package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/orderloop/orderloop/internal/database"
	apperrors "github.com/orderloop/orderloop/internal/errors"
	orderDomain "github.com/orderloop/orderloop/internal/order/domain"
)

// PostgreSQLProductRepository implements Product persistence for PostgreSQL.
type PostgreSQLProductRepository struct {
	db *sql.DB
}

// Create inserts a new product.
func (p *PostgreSQLProductRepository) Create(ctx context.Context, product *orderDomain.Product) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO products (id, name, price_cents, is_active, created_at)
			  VALUES ($1, $2, $3, $4, $5)`

	_, err := querier.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.PriceCents,
		product.IsActive,
		product.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create product")
	}
	return nil
}

// Get retrieves a product by ID.
// Returns ErrProductNotFound if the product doesn't exist.
func (p *PostgreSQLProductRepository) Get(ctx context.Context, productID uuid.UUID) (*orderDomain.Product, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, name, price_cents, is_active, created_at
			  FROM products WHERE id = $1`

	var product orderDomain.Product

	err := querier.QueryRowContext(ctx, query, productID).Scan(
		&product.ID,
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

	return &product, nil
}

// GetByIDs retrieves products by their IDs, keyed by ID. Missing IDs are
// simply absent from the result.
func (p *PostgreSQLProductRepository) GetByIDs(
	ctx context.Context,
	ids []uuid.UUID,
) (map[uuid.UUID]*orderDomain.Product, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]*orderDomain.Product{}, nil
	}

	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, name, price_cents, is_active, created_at
			  FROM products WHERE id = ANY($1)`

	rows, err := querier.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get products")
	}
	defer rows.Close()

	products := make(map[uuid.UUID]*orderDomain.Product, len(ids))
	for rows.Next() {
		var product orderDomain.Product
		err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.PriceCents,
			&product.IsActive,
			&product.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan product")
		}
		products[product.ID] = &product
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate products")
	}

	return products, nil
}

// NewPostgreSQLProductRepository creates a new PostgreSQL Product repository.
func NewPostgreSQLProductRepository(db *sql.DB) *PostgreSQLProductRepository {
	return &PostgreSQLProductRepository{db: db}
}
