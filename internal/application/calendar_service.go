package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/tyrongower/Kinboard-sub000/internal/persistence"
)

// CalendarService manages the registry of external calendar feeds.
type CalendarService struct {
	sources     persistence.CalendarSourceRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewCalendarService wires dependencies for calendar source operations.
func NewCalendarService(sources persistence.CalendarSourceRepository, idGenerator func() string, now func() time.Time) *CalendarService {
	return NewCalendarServiceWithLogger(sources, idGenerator, now, nil)
}

// NewCalendarServiceWithLogger constructs a CalendarService with a specified logger.
func NewCalendarServiceWithLogger(sources persistence.CalendarSourceRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *CalendarService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &CalendarService{sources: sources, idGenerator: idGenerator, now: now, logger: defaultLogger(logger)}
}

func (s *CalendarService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "CalendarService", operation, attrs...)
}

// CreateSource validates and registers a feed for administrators.
func (s *CalendarService) CreateSource(ctx context.Context, principal Principal, input CalendarSourceInput) (source CalendarSource, err error) {
	if s == nil {
		err = fmt.Errorf("CalendarService is nil")
		return
	}
	if s.sources == nil {
		err = fmt.Errorf("calendar source repository not configured")
		return
	}
	if !principal.IsAdmin {
		err = ErrUnauthorized
		return
	}

	logger := s.loggerWith(ctx, "CreateSource", "principal_id", principal.UserID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "calendar source creation failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("source_id", source.ID).InfoContext(ctx, "calendar source created")
	}()

	normalized := normalizeSourceInput(input)
	vErr := validateSourceInput(normalized)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	createdAt := s.now()
	record := persistence.CalendarSource{
		ID:        s.idGenerator(),
		Label:     normalized.Label,
		URL:       normalized.URL,
		Color:     normalized.Color,
		Enabled:   normalized.Enabled,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	if err = s.sources.CreateSource(ctx, record); err != nil {
		err = mapRepoError(err)
		return
	}
	source = calendarSourceFromRecord(record)
	return
}

// UpdateSource rewrites a feed registration for administrators.
func (s *CalendarService) UpdateSource(ctx context.Context, principal Principal, sourceID string, input CalendarSourceInput) (source CalendarSource, err error) {
	if s == nil {
		err = fmt.Errorf("CalendarService is nil")
		return
	}
	if s.sources == nil {
		err = fmt.Errorf("calendar source repository not configured")
		return
	}
	if !principal.IsAdmin {
		err = ErrUnauthorized
		return
	}

	logger := s.loggerWith(ctx, "UpdateSource", "source_id", sourceID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "calendar source update failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "calendar source updated")
	}()

	var existing persistence.CalendarSource
	existing, err = s.sources.GetSource(ctx, sourceID)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	normalized := normalizeSourceInput(input)
	vErr := validateSourceInput(normalized)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	existing.Label = normalized.Label
	existing.URL = normalized.URL
	existing.Color = normalized.Color
	existing.Enabled = normalized.Enabled
	existing.UpdatedAt = s.now()

	if err = s.sources.UpdateSource(ctx, existing); err != nil {
		err = mapRepoError(err)
		return
	}
	source = calendarSourceFromRecord(existing)
	return
}

// ListSources returns every registered feed.
func (s *CalendarService) ListSources(ctx context.Context, principal Principal) ([]CalendarSource, error) {
	if s == nil {
		return nil, fmt.Errorf("CalendarService is nil")
	}
	if s.sources == nil {
		return nil, nil
	}

	records, err := s.sources.ListSources(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	sources := make([]CalendarSource, 0, len(records))
	for _, record := range records {
		sources = append(sources, calendarSourceFromRecord(record))
	}
	return sources, nil
}

// DeleteSource removes a feed registration for administrators.
func (s *CalendarService) DeleteSource(ctx context.Context, principal Principal, sourceID string) error {
	if s == nil {
		return fmt.Errorf("CalendarService is nil")
	}
	if s.sources == nil {
		return fmt.Errorf("calendar source repository not configured")
	}
	if !principal.IsAdmin {
		return ErrUnauthorized
	}

	logger := s.loggerWith(ctx, "DeleteSource", "source_id", sourceID)
	if err := s.sources.DeleteSource(ctx, sourceID); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "calendar source deletion failed", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	logger.InfoContext(ctx, "calendar source deleted")
	return nil
}

func normalizeSourceInput(input CalendarSourceInput) CalendarSourceInput {
	normalized := input
	normalized.Label = strings.TrimSpace(input.Label)
	normalized.URL = strings.TrimSpace(input.URL)
	normalized.Color = strings.TrimSpace(input.Color)
	return normalized
}

func validateSourceInput(input CalendarSourceInput) *ValidationError {
	vErr := &ValidationError{}
	if input.Label == "" {
		vErr.add("label", "label is required")
	}
	if input.URL == "" {
		vErr.add("url", "url is required")
	} else if parsed, err := url.Parse(input.URL); err != nil || parsed.Scheme == "" || parsed.Host == "" {
		vErr.add("url", "url must be absolute")
	}
	return vErr
}
