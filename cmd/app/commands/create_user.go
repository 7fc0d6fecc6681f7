package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/orderloop/orderloop/internal/app"
	"github.com/orderloop/orderloop/internal/config"
	userDomain "github.com/orderloop/orderloop/internal/user/domain"
	userUseCase "github.com/orderloop/orderloop/internal/user/usecase"
)

// RunCreateUser provisions a new user with the given roles.
// Registers module configurations first so that the named roles exist, then
// creates the user. Outputs the user ID in either text or JSON format.
//
// Requirements: Database must be migrated and accessible.
func RunCreateUser(ctx context.Context, name, email, roles, format string) error {
	// Load configuration
	cfg := config.Load()

	// Create DI container
	container := app.NewContainer(cfg)

	// Get logger from container
	logger := container.Logger()

	// Ensure cleanup on exit
	defer closeContainer(container, logger)

	// Roles are created by module registration; run it first so the
	// user's role memberships resolve.
	if err := container.RegisterModules(ctx); err != nil {
		return fmt.Errorf("failed to register modules: %w", err)
	}

	// Get user use case from container
	uc, err := container.UserUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize user use case: %w", err)
	}

	return createUser(ctx, uc, logger, DefaultIO().Writer, name, email, roles, format)
}

// createUser creates the user and writes the result to the writer.
func createUser(
	ctx context.Context,
	uc userUseCase.UserUseCase,
	logger *slog.Logger,
	writer io.Writer,
	name, email, roles, format string,
) error {
	roleNames := parseRoles(roles)
	if len(roleNames) == 0 {
		return fmt.Errorf("at least one role is required")
	}

	logger.Info("creating new user",
		slog.String("name", name),
		slog.Any("roles", roleNames),
	)

	user, err := uc.Create(ctx, &userDomain.CreateUserInput{
		Name:  name,
		Email: email,
		Roles: roleNames,
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	// Output result based on format
	if format == "json" {
		outputCreateUserJSON(user, writer)
	} else {
		outputCreateUserText(user, writer)
	}

	logger.Info("user created successfully",
		slog.String("user_id", user.ID.String()),
		slog.String("name", user.Name),
	)

	return nil
}

// parseRoles converts a comma-separated string into a slice of role names.
func parseRoles(input string) []string {
	parts := strings.Split(input, ",")
	roleNames := make([]string, 0, len(parts))
	for _, part := range parts {
		if role := strings.TrimSpace(part); role != "" {
			roleNames = append(roleNames, role)
		}
	}
	return roleNames
}

// outputCreateUserText outputs the result in human-readable text format.
func outputCreateUserText(user *userDomain.User, writer io.Writer) {
	_, _ = fmt.Fprintln(writer, "\nUser created successfully!")
	_, _ = fmt.Fprintf(writer, "User ID: %s\n", user.ID.String())
	_, _ = fmt.Fprintf(writer, "Name: %s\n", user.Name)
	_, _ = fmt.Fprintf(writer, "Email: %s\n", user.Email)
	_, _ = fmt.Fprintf(writer, "Roles: %s\n", strings.Join(user.Roles, ", "))
}

// outputCreateUserJSON outputs the result in JSON format for machine consumption.
func outputCreateUserJSON(user *userDomain.User, writer io.Writer) {
	result := map[string]interface{}{
		"user_id": user.ID.String(),
		"name":    user.Name,
		"email":   user.Email,
		"roles":   user.Roles,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
}
