package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tyrongower/Kinboard-sub000/internal/application"
)

var (
	errBadRequestBody      = errors.New("the request body could not be parsed")
	errInvalidDate         = errors.New("the date parameter must use the YYYY-MM-DD format")
	errMissingSessionToken = errors.New("a session token is required")
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := statusMessage(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{Message: message})
}

func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New("unknown error"))
		return
	}

	switch {
	case errors.Is(err, application.ErrUnauthorized):
		r.writeJSON(ctx, w, http.StatusForbidden, errorResponse{
			ErrorCode: "AUTH_FORBIDDEN",
			Message:   "you do not have permission to perform this action",
		})
	case errors.Is(err, application.ErrNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Message: "the requested resource was not found"})
	case errors.Is(err, application.ErrAlreadyExists):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{Message: "a resource with the same identity already exists"})
	case errors.Is(err, application.ErrAlreadyCompleted):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{
			ErrorCode: "ALREADY_COMPLETED",
			Message:   "this occurrence has already been completed",
		})
	case errors.Is(err, application.ErrSessionExpired), errors.Is(err, application.ErrSessionRevoked):
		r.writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{
			ErrorCode: "AUTH_SESSION_EXPIRED",
			Message:   "your session is no longer valid, please sign in again",
		})
	case errors.Is(err, application.ErrInvalidCredentials):
		r.writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{
			ErrorCode: "AUTH_INVALID_CREDENTIALS",
			Message:   "email or password is incorrect",
		})
	default:
		var vErr *application.ValidationError
		if errors.As(err, &vErr) {
			r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{
				Message: "the submitted data is invalid",
				Errors:  vErr.FieldErrors,
			})
			return
		}

		r.loggerFor(ctx).ErrorContext(ctx, "unexpected service error", "error", err)
		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Message: "an internal error occurred"})
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

func statusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "the request is malformed"
	case http.StatusUnauthorized:
		return "authentication is required"
	case http.StatusForbidden:
		return "you do not have permission to perform this action"
	case http.StatusNotFound:
		return "the requested resource was not found"
	case http.StatusConflict:
		return "the request conflicts with the current state of the resource"
	case http.StatusUnprocessableEntity:
		return "the submitted data is invalid"
	default:
		return "an internal error occurred"
	}
}

type errorResponse struct {
	ErrorCode string            `json:"error_code,omitempty"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors,omitempty"`
}
