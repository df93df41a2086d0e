package config

import (
	"log/slog"
	"os"
	"testing"
	"time"
)

func TestLoader_ParseEnvironment(t *testing.T) {

	t.Run("applies defaults when variables are missing", func(t *testing.T) {
		unset := []string{
			"KINBOARD_HTTP_PORT",
			"KINBOARD_SQLITE_DSN",
			"KINBOARD_SESSION_TTL",
			"KINBOARD_LOG_LEVEL",
		}
		for _, key := range unset {
			if err := os.Unsetenv(key); err != nil {
				t.Fatalf("failed to unset %s: %v", key, err)
			}
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 8080 {
			t.Fatalf("expected default HTTP port 8080, got %d", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "file:kinboard.db?_pragma=foreign_keys(1)" {
			t.Fatalf("unexpected default DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.SessionTTL != 30*24*time.Hour {
			t.Fatalf("expected default session TTL of 30 days, got %s", cfg.SessionTTL)
		}
		if cfg.LogLevel != slog.LevelInfo {
			t.Fatalf("expected default log level info, got %s", cfg.LogLevel)
		}
	})

	t.Run("errors on invalid values", func(t *testing.T) {
		t.Setenv("KINBOARD_HTTP_PORT", "not-a-port")
		t.Setenv("KINBOARD_SESSION_TTL", "yesterday")

		_, err := Load()
		if err == nil {
			t.Fatalf("expected error for invalid values")
		}
		expected := "invalid environment variable values: KINBOARD_HTTP_PORT, KINBOARD_SESSION_TTL"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})

	t.Run("parses duration, numeric, and level fields", func(t *testing.T) {
		t.Setenv("KINBOARD_HTTP_PORT", "9090")
		t.Setenv("KINBOARD_SQLITE_DSN", "file:/tmp/kinboard.db")
		t.Setenv("KINBOARD_SESSION_TTL", "24h")
		t.Setenv("KINBOARD_LOG_LEVEL", "debug")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.SessionTTL != 24*time.Hour {
			t.Fatalf("expected session TTL 24h, got %s", cfg.SessionTTL)
		}
		if cfg.HTTPPort != 9090 {
			t.Fatalf("expected HTTP port 9090, got %d", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "file:/tmp/kinboard.db" {
			t.Fatalf("unexpected DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.LogLevel != slog.LevelDebug {
			t.Fatalf("expected debug log level, got %s", cfg.LogLevel)
		}
	})
}
