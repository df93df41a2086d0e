package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// migration is one ordered schema change. Versions are applied exactly once,
// in ascending order, each inside its own transaction.
type migration struct {
	version    int
	name       string
	statements []string
}

var migrations = []migration{
	{
		version: 1,
		name:    "initial schema",
		statements: []string{
			`CREATE TABLE users (
				id TEXT PRIMARY KEY,
				email TEXT NOT NULL COLLATE NOCASE UNIQUE,
				display_name TEXT NOT NULL,
				password_hash TEXT NOT NULL,
				avatar_color TEXT NOT NULL DEFAULT '',
				is_admin INTEGER NOT NULL DEFAULT 0,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE TABLE jobs (
				id TEXT PRIMARY KEY,
				title TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				image_url TEXT,
				use_shared_recurrence INTEGER NOT NULL DEFAULT 1,
				recurrence_rule TEXT NOT NULL DEFAULT '',
				starts_on TEXT,
				indefinite INTEGER NOT NULL DEFAULT 0,
				ends_on TEXT,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE TABLE job_assignments (
				id TEXT PRIMARY KEY,
				job_id TEXT NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
				user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				sort_order INTEGER NOT NULL DEFAULT 0,
				recurrence_rule TEXT NOT NULL DEFAULT '',
				starts_on TEXT,
				indefinite INTEGER NOT NULL DEFAULT 0,
				ends_on TEXT,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL,
				UNIQUE (job_id, user_id)
			)`,
			`CREATE TABLE job_completions (
				id TEXT PRIMARY KEY,
				job_id TEXT NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
				assignment_id TEXT REFERENCES job_assignments(id) ON DELETE CASCADE,
				occurrence_date TEXT NOT NULL,
				completed_by TEXT NOT NULL,
				completed_at TEXT NOT NULL
			)`,
			// One ledger entry per (assignment, date); legacy whole-job
			// entries are keyed per (job, date) in their own index.
			`CREATE UNIQUE INDEX uq_completions_assignment
				ON job_completions (assignment_id, occurrence_date)
				WHERE assignment_id IS NOT NULL`,
			`CREATE UNIQUE INDEX uq_completions_legacy
				ON job_completions (job_id, occurrence_date)
				WHERE assignment_id IS NULL`,
			`CREATE TABLE shopping_lists (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE TABLE shopping_items (
				id TEXT PRIMARY KEY,
				list_id TEXT NOT NULL REFERENCES shopping_lists(id) ON DELETE CASCADE,
				name TEXT NOT NULL,
				quantity TEXT NOT NULL DEFAULT '',
				checked INTEGER NOT NULL DEFAULT 0,
				position INTEGER NOT NULL DEFAULT 0,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE TABLE calendar_sources (
				id TEXT PRIMARY KEY,
				label TEXT NOT NULL,
				url TEXT NOT NULL,
				color TEXT NOT NULL DEFAULT '',
				enabled INTEGER NOT NULL DEFAULT 1,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE TABLE sessions (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				token TEXT NOT NULL UNIQUE,
				expires_at TEXT NOT NULL,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL,
				revoked_at TEXT
			)`,
			`CREATE TABLE site_settings (
				id INTEGER PRIMARY KEY CHECK (id = 1),
				household_name TEXT NOT NULL DEFAULT '',
				weather_location TEXT NOT NULL DEFAULT '',
				updated_at TEXT NOT NULL
			)`,
			`INSERT INTO site_settings (id, household_name, weather_location, updated_at)
				VALUES (1, '', '', '1970-01-01T00:00:00Z')`,
		},
	},
}

// Migrate applies pending schema migrations.
func (d *DB) Migrate(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}

	for _, m := range migrations {
		applied, err := d.migrationApplied(ctx, m.version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		err = d.WithTransaction(ctx, func(tx *sql.Tx) error {
			for _, statement := range m.statements {
				if _, err := tx.Exec(statement); err != nil {
					return fmt.Errorf("apply migration %d (%s): %w", m.version, m.name, err)
				}
			}
			_, err := tx.Exec(
				"INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)",
				m.version, m.name, formatTime(time.Now()),
			)
			if err != nil {
				return fmt.Errorf("record migration %d: %w", m.version, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func (d *DB) migrationApplied(ctx context.Context, version int) (bool, error) {
	var count int
	err := d.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM schema_migrations WHERE version = ?", version,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check migration %d: %w", version, err)
	}
	return count > 0, nil
}
