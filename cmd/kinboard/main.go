package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/tyrongower/Kinboard-sub000/internal/application"
	"github.com/tyrongower/Kinboard-sub000/internal/config"
	httptransport "github.com/tyrongower/Kinboard-sub000/internal/http"
	"github.com/tyrongower/Kinboard-sub000/internal/persistence/sqlite"
)

func main() {
	bootstrap := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		bootstrap.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storage, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := storage.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	idGenerator := uuid.NewString
	tokenGenerator := func() string { return randomHex(32) }
	now := time.Now

	userRepo := sqlite.NewUserRepository(storage)
	jobRepo := sqlite.NewJobRepository(storage)
	completionRepo := sqlite.NewCompletionRepository(storage)
	shoppingRepo := sqlite.NewShoppingRepository(storage)
	calendarRepo := sqlite.NewCalendarSourceRepository(storage)
	sessionRepo := sqlite.NewSessionRepository(storage)
	settingsRepo := sqlite.NewSettingsRepository(storage)

	jobService := application.NewJobServiceWithLogger(jobRepo, completionRepo, userRepo, idGenerator, now, logger)
	userService := application.NewUserServiceWithLogger(userRepo, nil, idGenerator, now, logger)
	shoppingService := application.NewShoppingServiceWithLogger(shoppingRepo, idGenerator, now, logger)
	calendarService := application.NewCalendarServiceWithLogger(calendarRepo, idGenerator, now, logger)
	settingsService := application.NewSettingsServiceWithLogger(settingsRepo, now, logger)
	authService := application.NewAuthServiceWithLogger(userRepo, sessionRepo, nil, tokenGenerator, now, cfg.SessionTTL, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:       httptransport.NewAuthHandler(authService, logger),
		Jobs:       httptransport.NewJobHandler(jobService, logger),
		Users:      httptransport.NewUserHandler(userService, logger),
		Shopping:   httptransport.NewShoppingHandler(shoppingService, logger),
		Calendar:   httptransport.NewCalendarHandler(calendarService, logger),
		Settings:   httptransport.NewSettingsHandler(settingsService, logger),
		Session:    httptransport.RequireSession(authService, logger),
		Middleware: []func(http.Handler) http.Handler{httptransport.RequestLogger(logger)},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("kinboard API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

func randomHex(bytes int) string {
	if bytes <= 0 {
		bytes = 16
	}
	buf := make([]byte, bytes)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}
