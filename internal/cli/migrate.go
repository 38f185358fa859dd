package cli

import (
	"fmt"
	"log/slog"

	urfave "github.com/urfave/cli/v2"

	"github.com/JWang8249/credit-risk-pipeline/internal/infrastructure/config"
	"github.com/JWang8249/credit-risk-pipeline/internal/infrastructure/postgres"
)

var (
	dsnFlag = &urfave.StringFlag{
		Name:    "dsn",
		Usage:   "PostgreSQL URL (default: built from DB_* environment variables)",
		EnvVars: []string{"DATABASE_URL"},
	}

	migrateCmd = &urfave.Command{
		Name:  "migrate",
		Usage: "Manage the prediction audit table schema",
		Flags: []urfave.Flag{
			dsnFlag,
		},
		Subcommands: []*urfave.Command{
			{
				Name:   "up",
				Usage:  "Apply all pending migrations",
				Action: cmdMigrateUp,
			},
			{
				Name:   "down",
				Usage:  "Roll back all migrations",
				Action: cmdMigrateDown,
			},
		},
	}
)

// migrationDSN prefers --dsn and falls back to the service configuration.
func migrationDSN(c *urfave.Context) string {
	if dsn := c.String(dsnFlag.Name); dsn != "" {
		return dsn
	}
	return config.Load().Database.DSN()
}

func cmdMigrateUp(c *urfave.Context) error {
	if err := postgres.RunMigrations(migrationDSN(c)); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	slog.Info("migrations applied")
	return nil
}

func cmdMigrateDown(c *urfave.Context) error {
	if err := postgres.RunMigrationsDown(migrationDSN(c)); err != nil {
		return fmt.Errorf("migrate down: %w", err)
	}
	slog.Info("migrations rolled back")
	return nil
}
