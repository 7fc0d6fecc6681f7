// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/orderloop/orderloop/cmd/app/commands"
)

const version = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:    "orderloop",
		Usage:   "Ordering backend with content-scoped authorization",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the HTTP server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServer(ctx, version)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migrations",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "down",
						Usage: "Roll back migrations instead of applying them",
					},
					&cli.IntFlag{
						Name:  "steps",
						Usage: "Number of migrations to roll back (with --down)",
						Value: 1,
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunMigrations(cmd.Bool("down"), int(cmd.Int("steps")))
				},
			},
			{
				Name:  "create-user",
				Usage: "Create a new user with role memberships",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Aliases:  []string{"n"},
						Required: true,
						Usage:    "Human-readable user name",
					},
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Required: true,
						Usage:    "User email address",
					},
					&cli.StringFlag{
						Name:     "roles",
						Aliases:  []string{"r"},
						Required: true,
						Usage:    "Comma-separated role names (e.g., 'Customer' or 'Customer,Manager')",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunCreateUser(
						ctx,
						cmd.String("name"),
						cmd.String("email"),
						cmd.String("roles"),
						cmd.String("format"),
					)
				},
			},
			{
				Name:  "create-product",
				Usage: "Add a new product to the catalog",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Aliases:  []string{"n"},
						Required: true,
						Usage:    "Product name",
					},
					&cli.IntFlag{
						Name:     "price-cents",
						Aliases:  []string{"p"},
						Required: true,
						Usage:    "Unit price in cents",
					},
					&cli.BoolFlag{
						Name:    "active",
						Aliases: []string{"a"},
						Value:   true,
						Usage:   "Whether the product can be ordered immediately",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunCreateProduct(
						ctx,
						cmd.String("name"),
						cmd.Int("price-cents"),
						cmd.Bool("active"),
						cmd.String("format"),
					)
				},
			},
			{
				Name:  "issue-api-token",
				Usage: "Issue an API token for a user, replacing any existing token in the mode",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "user-id",
						Aliases:  []string{"u"},
						Required: true,
						Usage:    "User ID (UUID)",
					},
					&cli.StringFlag{
						Name:    "mode",
						Aliases: []string{"m"},
						Value:   "production",
						Usage:   "Token mode: 'production' or 'test'",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunIssueAPIToken(
						ctx,
						cmd.String("user-id"),
						cmd.String("mode"),
						cmd.String("format"),
					)
				},
			},
			{
				Name:  "clean-order-tokens",
				Usage: "Delete order tokens older than the configured TTL",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunCleanOrderTokens(ctx, cmd.String("format"))
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
