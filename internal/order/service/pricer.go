package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/orderloop/orderloop/internal/config"
	orderDomain "github.com/orderloop/orderloop/internal/order/domain"
)

// ProductRepository is the catalog lookup the pricer depends on.
type ProductRepository interface {
	// GetByIDs retrieves products by their IDs. Missing IDs are simply
	// absent from the result; the caller decides how to treat them.
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*orderDomain.Product, error)
}

// catalogPricer implements Pricer against the product catalog: subtotal is
// the sum of price x quantity over all lines, plus a flat delivery fee from
// configuration.
type catalogPricer struct {
	config      *config.Config
	productRepo ProductRepository
}

// Price computes the quote for the given items.
func (p *catalogPricer) Price(ctx context.Context, items []orderDomain.Item) (orderDomain.Prices, error) {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}

	products, err := p.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return orderDomain.Prices{}, err
	}

	var subtotal int64
	for _, item := range items {
		product, ok := products[item.ProductID]
		if !ok {
			return orderDomain.Prices{}, fmt.Errorf("%w: %s", orderDomain.ErrProductUnknown, item.ProductID)
		}
		if !product.IsActive {
			return orderDomain.Prices{}, fmt.Errorf("%w: %s", orderDomain.ErrProductUnavailable, item.ProductID)
		}
		subtotal += product.PriceCents * int64(item.Quantity)
	}

	return orderDomain.Prices{
		SubtotalCents:    subtotal,
		DeliveryFeeCents: p.config.DeliveryFeeCents,
		TotalCents:       subtotal + p.config.DeliveryFeeCents,
	}, nil
}

// NewCatalogPricer creates a Pricer backed by the product catalog.
func NewCatalogPricer(cfg *config.Config, productRepo ProductRepository) Pricer {
	return &catalogPricer{
		config:      cfg,
		productRepo: productRepo,
	}
}
