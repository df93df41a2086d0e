package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures environment driven configuration values for the household service.
type Config struct {
	HTTPPort   int
	SQLiteDSN  string
	SessionTTL time.Duration
	LogLevel   slog.Level
}

// Load parses configuration values from the current process environment.
//
// The loader applies sensible defaults for optional fields while validating
// the values that are present.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:   8080,
		SQLiteDSN:  "file:kinboard.db?_pragma=foreign_keys(1)",
		SessionTTL: 30 * 24 * time.Hour,
		LogLevel:   slog.LevelInfo,
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("KINBOARD_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "KINBOARD_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("KINBOARD_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if ttlValue := strings.TrimSpace(os.Getenv("KINBOARD_SESSION_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "KINBOARD_SESSION_TTL")
		} else {
			cfg.SessionTTL = ttl
		}
	}

	if levelValue := strings.TrimSpace(os.Getenv("KINBOARD_LOG_LEVEL")); levelValue != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(levelValue)); err != nil {
			invalid = append(invalid, "KINBOARD_LOG_LEVEL")
		} else {
			cfg.LogLevel = level
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
