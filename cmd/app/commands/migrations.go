package commands

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/orderloop/orderloop/internal/app"
	"github.com/orderloop/orderloop/internal/config"
)

// migrationsSource returns the file:// source URL for the configured driver.
// Each driver ships its own migration set because the dialects differ
// (JSONB/BYTEA vs JSON/BLOB, TIMESTAMPTZ vs DATETIME).
func migrationsSource(driver string) string {
	if driver == "mysql" {
		return "file://migrations/mysql"
	}
	return "file://migrations/postgresql"
}

// RunMigrations applies pending migrations for the configured driver, or
// rolls back `steps` migrations when down is true. A database already at the
// latest version is not an error.
func RunMigrations(down bool, steps int) error {
	cfg := config.Load()

	// Create container just for logger
	container := app.NewContainer(cfg)
	logger := container.Logger()

	logger.Info("running database migrations",
		slog.String("driver", cfg.DBDriver),
		slog.Bool("down", down),
	)

	m, err := migrate.New(migrationsSource(cfg.DBDriver), cfg.DBConnectionString)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer closeMigrate(m, logger)

	if down {
		if steps <= 0 {
			steps = 1
		}
		err = m.Steps(-steps)
	} else {
		err = m.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, dirty, verr := m.Version()
	if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to read migration version: %w", verr)
	}

	logger.Info("migrations completed successfully",
		slog.Uint64("version", uint64(version)),
		slog.Bool("dirty", dirty),
	)
	return nil
}
