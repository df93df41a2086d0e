package testfixtures

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/tyrongower/Kinboard-sub000/internal/persistence"
	"github.com/tyrongower/Kinboard-sub000/internal/persistence/sqlite"
)

// SQLiteHarness provides repository access backed by a temporary SQLite
// database for integration-style persistence tests.
type SQLiteHarness struct {
	Users       persistence.UserRepository
	Jobs        persistence.JobRepository
	Completions persistence.CompletionRepository
	Shopping    persistence.ShoppingRepository
	Calendar    persistence.CalendarSourceRepository
	Sessions    persistence.SessionRepository
	Settings    persistence.SettingsRepository

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness constructs a SQLiteHarness using a temporary file that is
// migrated automatically. Callers may optionally invoke Close, but the helper
// will also register a cleanup callback with the provided testing.TB.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "kinboard.db")
	db, err := sqlite.Open(fmt.Sprintf("file:%s?_pragma=foreign_keys(1)", path))
	if err != nil {
		tb.Fatalf("failed to open database: %v", err)
	}

	if err := db.Migrate(context.Background()); err != nil {
		_ = db.Close()
		tb.Fatalf("failed to migrate database: %v", err)
	}

	harness := &SQLiteHarness{
		Users:       sqlite.NewUserRepository(db),
		Jobs:        sqlite.NewJobRepository(db),
		Completions: sqlite.NewCompletionRepository(db),
		Shopping:    sqlite.NewShoppingRepository(db),
		Calendar:    sqlite.NewCalendarSourceRepository(db),
		Sessions:    sqlite.NewSessionRepository(db),
		Settings:    sqlite.NewSettingsRepository(db),
		cleanup: func() {
			_ = db.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}
