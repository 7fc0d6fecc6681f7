package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/orderloop/orderloop/internal/app"
	"github.com/orderloop/orderloop/internal/config"
	orderDomain "github.com/orderloop/orderloop/internal/order/domain"
	orderUseCase "github.com/orderloop/orderloop/internal/order/usecase"
)

// RunCreateProduct adds a new product to the catalog.
// Outputs the product ID in either text or JSON format.
//
// Requirements: Database must be migrated and accessible.
func RunCreateProduct(ctx context.Context, name string, priceCents int64, active bool, format string) error {
	// Load configuration
	cfg := config.Load()

	// Create DI container
	container := app.NewContainer(cfg)

	// Get logger from container
	logger := container.Logger()

	// Ensure cleanup on exit
	defer closeContainer(container, logger)

	// Get product repository from container
	repo, err := container.ProductRepository()
	if err != nil {
		return fmt.Errorf("failed to initialize product repository: %w", err)
	}

	return createProduct(ctx, repo, logger, DefaultIO().Writer, name, priceCents, active, format)
}

// createProduct stores the product and writes the result to the writer.
func createProduct(
	ctx context.Context,
	repo orderUseCase.ProductRepository,
	logger *slog.Logger,
	writer io.Writer,
	name string,
	priceCents int64,
	active bool,
	format string,
) error {
	if name == "" {
		return fmt.Errorf("product name is required")
	}
	if priceCents <= 0 {
		return fmt.Errorf("price-cents must be a positive number, got: %d", priceCents)
	}

	logger.Info("creating new product",
		slog.String("name", name),
		slog.Int64("price_cents", priceCents),
		slog.Bool("active", active),
	)

	product := &orderDomain.Product{
		ID:         uuid.Must(uuid.NewV7()),
		Name:       name,
		PriceCents: priceCents,
		IsActive:   active,
		CreatedAt:  time.Now().UTC(),
	}

	if err := repo.Create(ctx, product); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	// Output result based on format
	if format == "json" {
		outputCreateProductJSON(product, writer)
	} else {
		outputCreateProductText(product, writer)
	}

	logger.Info("product created successfully",
		slog.String("product_id", product.ID.String()),
		slog.String("name", product.Name),
	)

	return nil
}

// outputCreateProductText outputs the result in human-readable text format.
func outputCreateProductText(product *orderDomain.Product, writer io.Writer) {
	_, _ = fmt.Fprintln(writer, "\nProduct created successfully!")
	_, _ = fmt.Fprintf(writer, "Product ID: %s\n", product.ID.String())
	_, _ = fmt.Fprintf(writer, "Name: %s\n", product.Name)
	_, _ = fmt.Fprintf(writer, "Price (cents): %d\n", product.PriceCents)
	_, _ = fmt.Fprintf(writer, "Active: %t\n", product.IsActive)
}

// outputCreateProductJSON outputs the result in JSON format for machine consumption.
func outputCreateProductJSON(product *orderDomain.Product, writer io.Writer) {
	result := map[string]interface{}{
		"product_id":  product.ID.String(),
		"name":        product.Name,
		"price_cents": product.PriceCents,
		"active":      product.IsActive,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
}
