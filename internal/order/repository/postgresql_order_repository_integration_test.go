package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderDomain "github.com/orderloop/orderloop/internal/order/domain"
	"github.com/orderloop/orderloop/internal/testutil"
)

func storedOrder(customerID uuid.UUID) *orderDomain.Order {
	now := time.Now().UTC()
	return &orderDomain.Order{
		ID:            uuid.Must(uuid.NewV7()),
		CustomerID:    customerID,
		Status:        orderDomain.StatusPending,
		CustomerName:  "Alice Smith",
		Phone:         "+15550000001",
		Email:         "alice@example.com",
		Address:       "1 Main St",
		ScheduledAt:   now.Add(2 * time.Hour),
		PaymentMethod: "cash",
		Items: []orderDomain.Item{
			{ProductID: uuid.Must(uuid.NewV7()), Quantity: 2},
		},
		Prices: orderDomain.Prices{
			SubtotalCents:    2500,
			DeliveryFeeCents: 500,
			TotalCents:       3000,
		},
		ContentMeta: orderDomain.ContentMeta{
			CreatedAt:   now,
			UpdatedAt:   now,
			PublishedAt: &now,
		},
	}
}

func TestPostgreSQLOrderRepository_Integration(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	ctx := context.Background()
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLOrderRepository(db)

	t.Run("create and get round trip", func(t *testing.T) {
		customerID := testutil.CreateTestUser(t, db, "postgres", "order-owner")
		order := storedOrder(customerID)

		require.NoError(t, repo.Create(ctx, order))

		got, err := repo.Get(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, order.CustomerID, got.CustomerID)
		assert.Equal(t, orderDomain.StatusPending, got.Status)
		assert.Equal(t, order.Items, got.Items)
		assert.Equal(t, order.Prices, got.Prices)
		require.NotNil(t, got.PublishedAt)
	})

	t.Run("get missing order", func(t *testing.T) {
		_, err := repo.Get(ctx, uuid.Must(uuid.NewV7()))
		assert.ErrorIs(t, err, orderDomain.ErrOrderNotFound)
	})

	t.Run("cancel marks status and reason", func(t *testing.T) {
		customerID := testutil.CreateTestUser(t, db, "postgres", "cancel-owner")
		order := storedOrder(customerID)
		require.NoError(t, repo.Create(ctx, order))

		require.NoError(t, repo.Cancel(ctx, order.ID, "changed my mind"))

		got, err := repo.Get(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, orderDomain.StatusCancelled, got.Status)
		assert.Equal(t, "changed my mind", got.CancelReason)
	})

	t.Run("cancel missing order", func(t *testing.T) {
		err := repo.Cancel(ctx, uuid.Must(uuid.NewV7()), "nothing here")
		assert.ErrorIs(t, err, orderDomain.ErrOrderNotFound)
	})
}

func TestPostgreSQLOrderTokenRepository_Integration(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	ctx := context.Background()
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLOrderTokenRepository(db)

	t.Run("exactly one concurrent consumer wins", func(t *testing.T) {
		token := &orderDomain.OrderToken{
			ID:        uuid.Must(uuid.NewV7()),
			TokenHash: "contended-hash",
			Payload:   []byte(`{"customer_name":"Alice"}`),
			CreatedAt: time.Now().UTC(),
		}
		require.NoError(t, repo.Create(ctx, token))

		const consumers = 8
		var wg sync.WaitGroup
		results := make(chan error, consumers)

		for i := 0; i < consumers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _, err := repo.Consume(ctx, "contended-hash")
				results <- err
			}()
		}
		wg.Wait()
		close(results)

		var wins, losses int
		for err := range results {
			if err == nil {
				wins++
				continue
			}
			assert.ErrorIs(t, err, orderDomain.ErrOrderTokenNotFound)
			losses++
		}
		assert.Equal(t, 1, wins)
		assert.Equal(t, consumers-1, losses)
	})

	t.Run("delete older than cutoff", func(t *testing.T) {
		old := &orderDomain.OrderToken{
			ID:        uuid.Must(uuid.NewV7()),
			TokenHash: "stale-hash",
			Payload:   []byte(`{}`),
			CreatedAt: time.Now().UTC().Add(-time.Hour),
		}
		fresh := &orderDomain.OrderToken{
			ID:        uuid.Must(uuid.NewV7()),
			TokenHash: "fresh-hash",
			Payload:   []byte(`{}`),
			CreatedAt: time.Now().UTC(),
		}
		require.NoError(t, repo.Create(ctx, old))
		require.NoError(t, repo.Create(ctx, fresh))

		removed, err := repo.DeleteOlderThan(ctx, time.Now().UTC().Add(-30*time.Minute))
		require.NoError(t, err)
		assert.Equal(t, int64(1), removed)

		// The fresh token is still consumable.
		_, _, err = repo.Consume(ctx, "fresh-hash")
		assert.NoError(t, err)
	})
}

func TestPostgreSQLProductRepository_Integration(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	ctx := context.Background()
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLProductRepository(db)

	t.Run("get by ids skips missing", func(t *testing.T) {
		pizzaID := testutil.CreateTestProduct(t, db, "postgres", "Margherita Pizza", 1250)
		saladID := testutil.CreateTestProduct(t, db, "postgres", "Caesar Salad", 950)
		missingID := uuid.Must(uuid.NewV7())

		products, err := repo.GetByIDs(ctx, []uuid.UUID{pizzaID, saladID, missingID})
		require.NoError(t, err)
		require.Len(t, products, 2)
		assert.Equal(t, int64(1250), products[pizzaID].PriceCents)
		assert.Equal(t, "Caesar Salad", products[saladID].Name)
		assert.NotContains(t, products, missingID)
	})

	t.Run("get missing product", func(t *testing.T) {
		_, err := repo.Get(ctx, uuid.Must(uuid.NewV7()))
		assert.ErrorIs(t, err, orderDomain.ErrProductNotFound)
	})
}
