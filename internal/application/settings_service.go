package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tyrongower/Kinboard-sub000/internal/persistence"
)

// SettingsService reads and updates the single-row household configuration.
type SettingsService struct {
	settings persistence.SettingsRepository
	now      func() time.Time
	logger   *slog.Logger
}

// NewSettingsService wires dependencies for settings operations.
func NewSettingsService(settings persistence.SettingsRepository, now func() time.Time) *SettingsService {
	return NewSettingsServiceWithLogger(settings, now, nil)
}

// NewSettingsServiceWithLogger constructs a SettingsService with a specified logger.
func NewSettingsServiceWithLogger(settings persistence.SettingsRepository, now func() time.Time, logger *slog.Logger) *SettingsService {
	if now == nil {
		now = time.Now
	}
	return &SettingsService{settings: settings, now: now, logger: defaultLogger(logger)}
}

func (s *SettingsService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "SettingsService", operation, attrs...)
}

// GetSettings returns the household configuration.
func (s *SettingsService) GetSettings(ctx context.Context, principal Principal) (SiteSettings, error) {
	if s == nil {
		return SiteSettings{}, fmt.Errorf("SettingsService is nil")
	}
	if s.settings == nil {
		return SiteSettings{}, fmt.Errorf("settings repository not configured")
	}

	record, err := s.settings.GetSettings(ctx)
	if err != nil {
		return SiteSettings{}, mapRepoError(err)
	}
	return settingsFromRecord(record), nil
}

// UpdateSettings rewrites the household configuration for administrators.
func (s *SettingsService) UpdateSettings(ctx context.Context, principal Principal, input SiteSettingsInput) (settings SiteSettings, err error) {
	if s == nil {
		err = fmt.Errorf("SettingsService is nil")
		return
	}
	if s.settings == nil {
		err = fmt.Errorf("settings repository not configured")
		return
	}
	if !principal.IsAdmin {
		err = ErrUnauthorized
		return
	}

	logger := s.loggerWith(ctx, "UpdateSettings", "principal_id", principal.UserID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "settings update failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "settings updated")
	}()

	record := persistence.SiteSettings{
		HouseholdName:   strings.TrimSpace(input.HouseholdName),
		WeatherLocation: strings.TrimSpace(input.WeatherLocation),
		UpdatedAt:       s.now(),
	}
	if err = s.settings.UpdateSettings(ctx, record); err != nil {
		err = mapRepoError(err)
		return
	}
	settings = settingsFromRecord(record)
	return
}
