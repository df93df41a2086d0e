package sqlite

import (
	"context"
	"fmt"

	"github.com/tyrongower/Kinboard-sub000/internal/persistence"
)

// SettingsRepository implements persistence.SettingsRepository using SQLite.
// The site_settings table holds exactly one row, seeded by migration.
type SettingsRepository struct {
	db *DB
}

// NewSettingsRepository creates a SQLite-backed settings repository.
func NewSettingsRepository(db *DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetSettings returns the household settings row.
func (r *SettingsRepository) GetSettings(ctx context.Context) (persistence.SiteSettings, error) {
	row := r.db.db.QueryRowContext(ctx,
		"SELECT household_name, weather_location, updated_at FROM site_settings WHERE id = 1")

	var (
		settings  persistence.SiteSettings
		updatedAt string
	)
	err := row.Scan(&settings.HouseholdName, &settings.WeatherLocation, &updatedAt)
	if err != nil {
		return persistence.SiteSettings{}, mapError(err)
	}
	if settings.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.SiteSettings{}, fmt.Errorf("site settings: %w", err)
	}
	return settings, nil
}

// UpdateSettings rewrites the household settings row.
func (r *SettingsRepository) UpdateSettings(ctx context.Context, settings persistence.SiteSettings) error {
	result, err := r.db.db.ExecContext(ctx, `UPDATE site_settings
		SET household_name = ?, weather_location = ?, updated_at = ?
		WHERE id = 1`,
		settings.HouseholdName,
		settings.WeatherLocation,
		formatTime(settings.UpdatedAt),
	)
	if err != nil {
		return mapError(err)
	}
	return requireRowsAffected(result)
}
