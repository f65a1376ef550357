package migrations

import (
	"context"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

const createQuestionBanksSQL = `
CREATE TABLE IF NOT EXISTS question_banks (
    segment text PRIMARY KEY,
    data jsonb NOT NULL,
    updated_at timestamptz NOT NULL DEFAULT now()
)`

const createLeadsSQL = `
CREATE TABLE IF NOT EXISTS leads (
    id uuid PRIMARY KEY,
    email text NOT NULL,
    first_name text,
    last_name text,
    company text,
    role text,
    team_size text,
    quiz_score integer NOT NULL DEFAULT 0,
    segment text,
    dna_scores jsonb,
    lead_source text,
    submitted_at timestamptz,
    hubspot_synced boolean NOT NULL DEFAULT false,
    hubspot_sync_error text,
    hubspot_contact_id text,
    created_at timestamptz NOT NULL DEFAULT now(),
    updated_at timestamptz NOT NULL DEFAULT now()
)`

const createLeadsEmailIdxSQL = `
CREATE INDEX IF NOT EXISTS leads_email_idx ON leads (email)`

var Migrations = migrate.NewMigrations()

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			if _, err := db.ExecContext(ctx, createQuestionBanksSQL); err != nil {
				return err
			}
			if _, err := db.ExecContext(ctx, createLeadsSQL); err != nil {
				return err
			}
			_, err := db.ExecContext(ctx, createLeadsEmailIdxSQL)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS leads`); err != nil {
				return err
			}
			_, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS question_banks`)
			return err
		},
	)
}
