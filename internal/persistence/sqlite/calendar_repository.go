package sqlite

import (
	"context"
	"fmt"

	"github.com/tyrongower/Kinboard-sub000/internal/persistence"
)

// CalendarSourceRepository implements persistence.CalendarSourceRepository
// using SQLite.
type CalendarSourceRepository struct {
	db *DB
}

// NewCalendarSourceRepository creates a SQLite-backed calendar source
// repository.
func NewCalendarSourceRepository(db *DB) *CalendarSourceRepository {
	return &CalendarSourceRepository{db: db}
}

const calendarSourceColumns = `id, label, url, color, enabled, created_at, updated_at`

// CreateSource registers an external calendar feed.
func (r *CalendarSourceRepository) CreateSource(ctx context.Context, source persistence.CalendarSource) error {
	if source.ID == "" {
		return persistence.ErrConstraintViolation
	}
	_, err := r.db.db.ExecContext(ctx, `INSERT INTO calendar_sources (`+calendarSourceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		source.ID,
		source.Label,
		source.URL,
		source.Color,
		source.Enabled,
		formatTime(source.CreatedAt),
		formatTime(source.UpdatedAt),
	)
	return mapError(err)
}

// UpdateSource rewrites a calendar source row.
func (r *CalendarSourceRepository) UpdateSource(ctx context.Context, source persistence.CalendarSource) error {
	result, err := r.db.db.ExecContext(ctx, `UPDATE calendar_sources
		SET label = ?, url = ?, color = ?, enabled = ?, updated_at = ?
		WHERE id = ?`,
		source.Label,
		source.URL,
		source.Color,
		source.Enabled,
		formatTime(source.UpdatedAt),
		source.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return requireRowsAffected(result)
}

// GetSource retrieves a calendar source by ID.
func (r *CalendarSourceRepository) GetSource(ctx context.Context, id string) (persistence.CalendarSource, error) {
	if id == "" {
		return persistence.CalendarSource{}, persistence.ErrNotFound
	}
	row := r.db.db.QueryRowContext(ctx,
		`SELECT `+calendarSourceColumns+` FROM calendar_sources WHERE id = ?`, id)
	return scanCalendarSource(row)
}

// ListSources returns every calendar source ordered by label.
func (r *CalendarSourceRepository) ListSources(ctx context.Context) ([]persistence.CalendarSource, error) {
	rows, err := r.db.db.QueryContext(ctx,
		`SELECT `+calendarSourceColumns+` FROM calendar_sources ORDER BY label ASC, id ASC`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var sources []persistence.CalendarSource
	for rows.Next() {
		source, err := scanCalendarSource(rows)
		if err != nil {
			return nil, err
		}
		sources = append(sources, source)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return sources, nil
}

// DeleteSource removes a calendar source.
func (r *CalendarSourceRepository) DeleteSource(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}
	result, err := r.db.db.ExecContext(ctx, "DELETE FROM calendar_sources WHERE id = ?", id)
	if err != nil {
		return mapError(err)
	}
	return requireRowsAffected(result)
}

func scanCalendarSource(row rowScanner) (persistence.CalendarSource, error) {
	var (
		source               persistence.CalendarSource
		createdAt, updatedAt string
	)
	err := row.Scan(
		&source.ID,
		&source.Label,
		&source.URL,
		&source.Color,
		&source.Enabled,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.CalendarSource{}, mapError(err)
	}
	if source.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.CalendarSource{}, fmt.Errorf("calendar source %s: %w", source.ID, err)
	}
	if source.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.CalendarSource{}, fmt.Errorf("calendar source %s: %w", source.ID, err)
	}
	return source, nil
}
