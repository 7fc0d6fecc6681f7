package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"

	apitokenUseCase "github.com/orderloop/orderloop/internal/apitoken/usecase"
	"github.com/orderloop/orderloop/internal/app"
	"github.com/orderloop/orderloop/internal/config"
)

// RunIssueAPIToken issues an API token for a user in the given mode,
// replacing any previously issued token for that (user, mode) pair.
// Outputs the plain token, shown only at issuance, in text or JSON format.
//
// Requirements: Database must be migrated and accessible.
func RunIssueAPIToken(ctx context.Context, userID, mode, format string) error {
	// Load configuration
	cfg := config.Load()

	// Create DI container
	container := app.NewContainer(cfg)

	// Get logger from container
	logger := container.Logger()

	// Ensure cleanup on exit
	defer closeContainer(container, logger)

	// Get API token use case from container
	uc, err := container.APITokenUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize api token use case: %w", err)
	}

	return issueAPIToken(ctx, uc, logger, DefaultIO().Writer, userID, mode, format)
}

// issueAPIToken issues the token and writes the result to the writer.
func issueAPIToken(
	ctx context.Context,
	uc apitokenUseCase.APITokenUseCase,
	logger *slog.Logger,
	writer io.Writer,
	userIDStr, modeStr, format string,
) error {
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return fmt.Errorf("invalid user ID: %w", err)
	}

	mode, err := parseMode(modeStr)
	if err != nil {
		return err
	}

	logger.Info("issuing api token",
		slog.String("user_id", userID.String()),
		slog.String("mode", string(mode)),
	)

	output, err := uc.Issue(ctx, userID, mode)
	if err != nil {
		return fmt.Errorf("failed to issue api token: %w", err)
	}

	// Output result based on format
	if format == "json" {
		outputIssueAPITokenJSON(output.PlainToken, userID, string(mode), writer)
	} else {
		outputIssueAPITokenText(output.PlainToken, userID, string(mode), writer)
	}

	logger.Info("api token issued successfully",
		slog.String("user_id", userID.String()),
		slog.String("mode", string(mode)),
	)

	return nil
}

// outputIssueAPITokenText outputs the result in human-readable text format.
func outputIssueAPITokenText(plainToken string, userID uuid.UUID, mode string, writer io.Writer) {
	_, _ = fmt.Fprintln(writer, "\nAPI token issued successfully!")
	_, _ = fmt.Fprintf(writer, "User ID: %s\n", userID.String())
	_, _ = fmt.Fprintf(writer, "Mode: %s\n", mode)
	_, _ = fmt.Fprintf(writer, "Token: %s\n", plainToken)
	_, _ = fmt.Fprintln(writer, "\nIMPORTANT: The token is shown only once. Store it securely.")
}

// outputIssueAPITokenJSON outputs the result in JSON format for machine consumption.
func outputIssueAPITokenJSON(plainToken string, userID uuid.UUID, mode string, writer io.Writer) {
	result := map[string]string{
		"user_id": userID.String(),
		"mode":    mode,
		"token":   plainToken,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
}
