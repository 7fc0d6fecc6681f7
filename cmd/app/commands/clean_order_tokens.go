package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/orderloop/orderloop/internal/app"
	"github.com/orderloop/orderloop/internal/config"
	orderUseCase "github.com/orderloop/orderloop/internal/order/usecase"
)

// RunCleanOrderTokens deletes order tokens older than the configured TTL.
// Housekeeping only; expiry is enforced lazily at redemption, so unclean
// tokens are never redeemable past the TTL.
//
// Requirements: Database must be migrated and accessible.
func RunCleanOrderTokens(ctx context.Context, format string) error {
	// Load configuration
	cfg := config.Load()

	// Create DI container
	container := app.NewContainer(cfg)

	// Get logger from container
	logger := container.Logger()

	// Ensure cleanup on exit
	defer closeContainer(container, logger)

	// Get order token broker from container
	broker, err := container.OrderTokenBroker()
	if err != nil {
		return fmt.Errorf("failed to initialize order token broker: %w", err)
	}

	return cleanOrderTokens(ctx, broker, logger, DefaultIO().Writer, format)
}

// cleanOrderTokens removes expired tokens and writes the result to the writer.
func cleanOrderTokens(
	ctx context.Context,
	broker orderUseCase.OrderTokenBroker,
	logger *slog.Logger,
	writer io.Writer,
	format string,
) error {
	logger.Info("cleaning expired order tokens")

	count, err := broker.CleanExpiredTokens(ctx)
	if err != nil {
		return fmt.Errorf("failed to clean expired order tokens: %w", err)
	}

	// Output result based on format
	if format == "json" {
		outputCleanOrderTokensJSON(count, writer)
	} else {
		outputCleanOrderTokensText(count, writer)
	}

	logger.Info("cleanup completed", slog.Int64("count", count))

	return nil
}

// outputCleanOrderTokensText outputs the result in human-readable text format.
func outputCleanOrderTokensText(count int64, writer io.Writer) {
	_, _ = fmt.Fprintf(writer, "Successfully deleted %d expired order token(s)\n", count)
}

// outputCleanOrderTokensJSON outputs the result in JSON format for machine consumption.
func outputCleanOrderTokensJSON(count int64, writer io.Writer) {
	result := map[string]interface{}{
		"count": count,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
}
