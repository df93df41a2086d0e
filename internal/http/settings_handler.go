package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/tyrongower/Kinboard-sub000/internal/application"
)

type settingsService interface {
	GetSettings(ctx context.Context, principal application.Principal) (application.SiteSettings, error)
	UpdateSettings(ctx context.Context, principal application.Principal, input application.SiteSettingsInput) (application.SiteSettings, error)
}

type SettingsHandler struct {
	service   settingsService
	responder responder
}

func NewSettingsHandler(service settingsService, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{service: service, responder: newResponder(logger)}
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	settings, err := h.service.GetSettings(r.Context(), principal)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, settingsResponse{Settings: toSettingsDTO(settings)})
}

func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	settings, err := h.service.UpdateSettings(r.Context(), principal, req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, settingsResponse{Settings: toSettingsDTO(settings)})
}

type settingsRequest struct {
	HouseholdName   string `json:"household_name"`
	WeatherLocation string `json:"weather_location"`
}

func (r settingsRequest) toInput() application.SiteSettingsInput {
	return application.SiteSettingsInput{
		HouseholdName:   strings.TrimSpace(r.HouseholdName),
		WeatherLocation: strings.TrimSpace(r.WeatherLocation),
	}
}

type settingsResponse struct {
	Settings settingsDTO `json:"settings"`
}

type settingsDTO struct {
	HouseholdName   string `json:"household_name"`
	WeatherLocation string `json:"weather_location,omitempty"`
	UpdatedAt       string `json:"updated_at"`
}

func toSettingsDTO(settings application.SiteSettings) settingsDTO {
	return settingsDTO{
		HouseholdName:   settings.HouseholdName,
		WeatherLocation: settings.WeatherLocation,
		UpdatedAt:       settings.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}
