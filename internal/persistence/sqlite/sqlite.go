// Package sqlite implements the persistence repositories on top of a
// CGO-free SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/tyrongower/Kinboard-sub000/internal/persistence"
)

const (
	timeLayout = time.RFC3339
	dateLayout = "2006-01-02"
)

// DB wraps the SQL connection pool shared by the repositories.
type DB struct {
	db *sql.DB
}

// Open connects to the SQLite database identified by dsn. Callers should
// enable foreign keys through the DSN, e.g.
// file:kinboard.db?_pragma=foreign_keys(1).
func Open(dsn string) (*DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	return &DB{db: db}, nil
}

// Close releases the underlying connection pool.
func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

// Ping verifies the database connection.
func (d *DB) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// WithTransaction runs fn inside a transaction, rolling back when fn returns
// an error or panics and committing otherwise.
func (d *DB) WithTransaction(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction failed (rollback error: %v): %w", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// mapError translates driver errors into the persistence sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.ErrNotFound
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return fmt.Errorf("%w: %v", persistence.ErrDuplicate, err)
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return fmt.Errorf("%w: %v", persistence.ErrForeignKeyViolation, err)
	case strings.Contains(msg, "CHECK constraint failed"):
		return fmt.Errorf("%w: %v", persistence.ErrConstraintViolation, err)
	}
	return err
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(value string) (time.Time, error) {
	ts, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", value, err)
	}
	return ts, nil
}

func formatDate(t time.Time) string {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Format(dateLayout)
}

func parseDate(value string) (time.Time, error) {
	ts, err := time.ParseInLocation(dateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", value, err)
	}
	return ts, nil
}

func nullableString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}

func nullableTime(value *time.Time) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*value), Valid: true}
}

func nullableDate(value *time.Time) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatDate(*value), Valid: true}
}

func stringPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	clone := value.String
	return &clone
}

func timePtr(value sql.NullString) (*time.Time, error) {
	if !value.Valid {
		return nil, nil
	}
	ts, err := parseTime(value.String)
	if err != nil {
		return nil, err
	}
	return &ts, nil
}

func datePtr(value sql.NullString) (*time.Time, error) {
	if !value.Valid {
		return nil, nil
	}
	ts, err := parseDate(value.String)
	if err != nil {
		return nil, err
	}
	return &ts, nil
}
