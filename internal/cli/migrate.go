package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	"audit-quiz-service/internal/config"
	"audit-quiz-service/internal/content"
	pgmigrations "audit-quiz-service/internal/infra/postgres/migrations"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

// NewMigrateCmd applies database migrations and seeds the question banks.
func NewMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations and seed question banks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrations(cmd.Context(), *configPath)
		},
	}
}

func runMigrations(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	return runMigrationsWithConfig(ctx, cfg)
}

func runMigrationsWithConfig(ctx context.Context, cfg config.Config) error {
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)

	if err := migrator.Init(ctx); err != nil {
		return err
	}

	if _, err := migrator.Migrate(ctx); err != nil {
		return err
	}

	if err := seedBanks(ctx, db); err != nil {
		return err
	}
	log.Printf("migrations applied")
	return nil
}

// seedBanks upserts the canonical question banks so a fresh database serves
// content without a separate publishing step.
func seedBanks(ctx context.Context, db *bun.DB) error {
	for segment, bank := range content.Banks() {
		data, err := json.Marshal(bank)
		if err != nil {
			return fmt.Errorf("marshal bank %s: %w", segment, err)
		}
		_, err = db.ExecContext(ctx,
			`INSERT INTO question_banks (segment, data) VALUES (?, ?::jsonb)
			 ON CONFLICT (segment) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
			string(segment), string(data))
		if err != nil {
			return fmt.Errorf("seed bank %s: %w", segment, err)
		}
	}
	return nil
}
