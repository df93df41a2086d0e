package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/tyrongower/Kinboard-sub000/internal/application"
)

// SessionValidator resolves a session token to its principal.
type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (application.Principal, error)
}

// RequireSession rejects requests without a valid session token and attaches
// the resolved principal to the request context.
func RequireSession(validator SessionValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	responder := newResponder(logger)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractTokenFromRequest(r)
			if token == "" {
				responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
				return
			}

			principal, err := validator.ValidateSession(r.Context(), token)
			if err != nil {
				switch {
				case errors.Is(err, application.ErrUnauthorized),
					errors.Is(err, application.ErrInvalidCredentials),
					errors.Is(err, application.ErrSessionExpired),
					errors.Is(err, application.ErrSessionRevoked):
					responder.writeJSON(r.Context(), w, http.StatusUnauthorized, errorResponse{
						ErrorCode: "AUTH_SESSION_EXPIRED",
						Message:   "your session is no longer valid, please sign in again",
					})
				default:
					responder.writeJSON(r.Context(), w, http.StatusInternalServerError, errorResponse{Message: "an internal error occurred"})
				}
				return
			}

			ctx := ContextWithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestLogger attaches a request scoped logger to the context and logs the
// start and completion of every request. Request IDs come from chi's
// RequestID middleware when it runs earlier in the chain.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := base.With(
				"method", r.Method,
				"path", r.URL.Path,
			)
			if requestID := middleware.GetReqID(r.Context()); requestID != "" {
				logger = logger.With("request_id", requestID)
			}

			ctx := ContextWithLogger(r.Context(), logger)
			start := time.Now()
			logger.InfoContext(ctx, "request started")
			next.ServeHTTP(w, r.WithContext(ctx))
			logger.InfoContext(ctx, "request completed", "duration", time.Since(start))
		})
	}
}
