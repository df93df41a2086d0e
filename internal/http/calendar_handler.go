package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tyrongower/Kinboard-sub000/internal/application"
)

type calendarService interface {
	CreateSource(ctx context.Context, principal application.Principal, input application.CalendarSourceInput) (application.CalendarSource, error)
	UpdateSource(ctx context.Context, principal application.Principal, sourceID string, input application.CalendarSourceInput) (application.CalendarSource, error)
	ListSources(ctx context.Context, principal application.Principal) ([]application.CalendarSource, error)
	DeleteSource(ctx context.Context, principal application.Principal, sourceID string) error
}

type CalendarHandler struct {
	service   calendarService
	responder responder
}

func NewCalendarHandler(service calendarService, logger *slog.Logger) *CalendarHandler {
	return &CalendarHandler{service: service, responder: newResponder(logger)}
}

func (h *CalendarHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req calendarSourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	source, err := h.service.CreateSource(r.Context(), principal, req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, calendarSourceResponse{Source: toCalendarSourceDTO(source)})
}

func (h *CalendarHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req calendarSourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	source, err := h.service.UpdateSource(r.Context(), principal, chi.URLParam(r, "sourceID"), req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, calendarSourceResponse{Source: toCalendarSourceDTO(source)})
}

func (h *CalendarHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	sources, err := h.service.ListSources(r.Context(), principal)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listCalendarSourcesResponse{Sources: toCalendarSourceDTOs(sources)})
}

func (h *CalendarHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	if err := h.service.DeleteSource(r.Context(), principal, chi.URLParam(r, "sourceID")); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type calendarSourceRequest struct {
	Label   string `json:"label"`
	URL     string `json:"url"`
	Color   string `json:"color"`
	Enabled bool   `json:"enabled"`
}

func (r calendarSourceRequest) toInput() application.CalendarSourceInput {
	return application.CalendarSourceInput{
		Label:   strings.TrimSpace(r.Label),
		URL:     strings.TrimSpace(r.URL),
		Color:   strings.TrimSpace(r.Color),
		Enabled: r.Enabled,
	}
}

type calendarSourceResponse struct {
	Source calendarSourceDTO `json:"source"`
}

type listCalendarSourcesResponse struct {
	Sources []calendarSourceDTO `json:"sources"`
}

type calendarSourceDTO struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	URL       string `json:"url"`
	Color     string `json:"color,omitempty"`
	Enabled   bool   `json:"enabled"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toCalendarSourceDTO(source application.CalendarSource) calendarSourceDTO {
	return calendarSourceDTO{
		ID:        source.ID,
		Label:     source.Label,
		URL:       source.URL,
		Color:     source.Color,
		Enabled:   source.Enabled,
		CreatedAt: source.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt: source.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toCalendarSourceDTOs(sources []application.CalendarSource) []calendarSourceDTO {
	if len(sources) == 0 {
		return nil
	}
	out := make([]calendarSourceDTO, 0, len(sources))
	for _, source := range sources {
		out = append(out, toCalendarSourceDTO(source))
	}
	return out
}
