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

type jobService interface {
	CreateJob(ctx context.Context, params application.CreateJobParams) (application.Job, error)
	UpdateJob(ctx context.Context, params application.UpdateJobParams) (application.Job, error)
	GetJob(ctx context.Context, principal application.Principal, jobID string) (application.Job, error)
	ListJobs(ctx context.Context, principal application.Principal) ([]application.Job, error)
	DeleteJob(ctx context.Context, principal application.Principal, jobID string) error
	CreateAssignment(ctx context.Context, params application.CreateAssignmentParams) (application.Assignment, error)
	UpdateAssignment(ctx context.Context, params application.UpdateAssignmentParams) (application.Assignment, error)
	DeleteAssignment(ctx context.Context, principal application.Principal, jobID, assignmentID string) error
	BoardForDate(ctx context.Context, principal application.Principal, date time.Time) ([]application.JobProjection, error)
	ProjectJob(ctx context.Context, principal application.Principal, jobID string, date time.Time) (application.JobProjection, bool, error)
	Complete(ctx context.Context, params application.CompletionParams) (application.CompletionMark, error)
	Uncomplete(ctx context.Context, params application.CompletionParams) error
}

type JobHandler struct {
	service   jobService
	responder responder
}

func NewJobHandler(service jobService, logger *slog.Logger) *JobHandler {
	return &JobHandler{service: service, responder: newResponder(logger)}
}

func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req jobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	job, err := h.service.CreateJob(r.Context(), application.CreateJobParams{
		Principal: principal,
		Input:     req.toInput(),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, jobResponse{Job: toJobDTO(job)})
}

// List returns the job catalog. With a `date` query parameter it instead
// returns the board for that date: only the jobs occurring then, with
// per-assignment completion state attached.
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	date, ok, err := dateQuery(r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDate)
		return
	}

	if ok {
		projections, err := h.service.BoardForDate(r.Context(), principal, date)
		if err != nil {
			h.responder.handleServiceError(r.Context(), w, err)
			return
		}
		h.responder.writeJSON(r.Context(), w, http.StatusOK, boardResponse{
			Date: date.Format(dateLayout),
			Jobs: toJobProjectionDTOs(projections),
		})
		return
	}

	jobs, err := h.service.ListJobs(r.Context(), principal)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listJobsResponse{Jobs: toJobDTOs(jobs)})
}

func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	jobID := chi.URLParam(r, "jobID")
	principal, _ := PrincipalFromContext(r.Context())

	date, ok, err := dateQuery(r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDate)
		return
	}

	if ok {
		projection, active, err := h.service.ProjectJob(r.Context(), principal, jobID, date)
		if err != nil {
			h.responder.handleServiceError(r.Context(), w, err)
			return
		}
		h.responder.writeJSON(r.Context(), w, http.StatusOK, jobProjectionResponse{
			Active:     active,
			Projection: toJobProjectionDTO(projection),
		})
		return
	}

	job, err := h.service.GetJob(r.Context(), principal, jobID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, jobResponse{Job: toJobDTO(job)})
}

func (h *JobHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req jobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	job, err := h.service.UpdateJob(r.Context(), application.UpdateJobParams{
		Principal: principal,
		JobID:     chi.URLParam(r, "jobID"),
		Input:     req.toInput(),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, jobResponse{Job: toJobDTO(job)})
}

func (h *JobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	if err := h.service.DeleteJob(r.Context(), principal, chi.URLParam(r, "jobID")); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *JobHandler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req assignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	assignment, err := h.service.CreateAssignment(r.Context(), application.CreateAssignmentParams{
		Principal: principal,
		JobID:     chi.URLParam(r, "jobID"),
		Input:     req.toInput(),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, assignmentResponse{Assignment: toAssignmentDTO(assignment)})
}

func (h *JobHandler) UpdateAssignment(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req assignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	assignment, err := h.service.UpdateAssignment(r.Context(), application.UpdateAssignmentParams{
		Principal:    principal,
		JobID:        chi.URLParam(r, "jobID"),
		AssignmentID: chi.URLParam(r, "assignmentID"),
		Input:        req.toInput(),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, assignmentResponse{Assignment: toAssignmentDTO(assignment)})
}

func (h *JobHandler) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	err := h.service.DeleteAssignment(r.Context(), principal, chi.URLParam(r, "jobID"), chi.URLParam(r, "assignmentID"))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// CompleteAssignment records a completion for one assignment on the date
// named by the `date` query parameter.
func (h *JobHandler) CompleteAssignment(w http.ResponseWriter, r *http.Request) {
	h.complete(w, r, stringPtr(chi.URLParam(r, "assignmentID")))
}

func (h *JobHandler) UncompleteAssignment(w http.ResponseWriter, r *http.Request) {
	h.uncomplete(w, r, stringPtr(chi.URLParam(r, "assignmentID")))
}

// CompleteJob records a whole-job completion, the form used by jobs that
// predate per-assignment tracking.
func (h *JobHandler) CompleteJob(w http.ResponseWriter, r *http.Request) {
	h.complete(w, r, nil)
}

func (h *JobHandler) UncompleteJob(w http.ResponseWriter, r *http.Request) {
	h.uncomplete(w, r, nil)
}

func (h *JobHandler) complete(w http.ResponseWriter, r *http.Request, assignmentID *string) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	date, ok, err := dateQuery(r)
	if err != nil || !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDate)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	mark, err := h.service.Complete(r.Context(), application.CompletionParams{
		Principal:    principal,
		JobID:        chi.URLParam(r, "jobID"),
		AssignmentID: assignmentID,
		Date:         date,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, completionResponse{Completion: toCompletionDTO(mark)})
}

func (h *JobHandler) uncomplete(w http.ResponseWriter, r *http.Request, assignmentID *string) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	date, ok, err := dateQuery(r)
	if err != nil || !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDate)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	err = h.service.Uncomplete(r.Context(), application.CompletionParams{
		Principal:    principal,
		JobID:        chi.URLParam(r, "jobID"),
		AssignmentID: assignmentID,
		Date:         date,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

const dateLayout = "2006-01-02"

// dateQuery parses the optional `date` query parameter. The second return
// reports whether the parameter was present.
func dateQuery(r *http.Request) (time.Time, bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("date"))
	if raw == "" {
		return time.Time{}, false, nil
	}
	date, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, true, err
	}
	return date, true, nil
}

func stringPtr(value string) *string {
	return &value
}

type recurrenceDTO struct {
	Rule       string  `json:"rule"`
	StartsOn   *string `json:"starts_on,omitempty"`
	Indefinite bool    `json:"indefinite"`
	EndsOn     *string `json:"ends_on,omitempty"`
}

func (r recurrenceDTO) toInput() application.Recurrence {
	return application.Recurrence{
		Rule:       r.Rule,
		StartsOn:   parseDatePtr(r.StartsOn),
		Indefinite: r.Indefinite,
		EndsOn:     parseDatePtr(r.EndsOn),
	}
}

func toRecurrenceDTO(recurrence application.Recurrence) recurrenceDTO {
	return recurrenceDTO{
		Rule:       recurrence.Rule,
		StartsOn:   formatDatePtr(recurrence.StartsOn),
		Indefinite: recurrence.Indefinite,
		EndsOn:     formatDatePtr(recurrence.EndsOn),
	}
}

func parseDatePtr(value *string) *time.Time {
	if value == nil {
		return nil
	}
	date, err := time.ParseInLocation(dateLayout, strings.TrimSpace(*value), time.UTC)
	if err != nil {
		return nil
	}
	return &date
}

func formatDatePtr(value *time.Time) *string {
	if value == nil {
		return nil
	}
	formatted := value.Format(dateLayout)
	return &formatted
}

type assignmentRequest struct {
	UserID     string        `json:"user_id"`
	SortOrder  int           `json:"sort_order"`
	Recurrence recurrenceDTO `json:"recurrence"`
}

func (r assignmentRequest) toInput() application.AssignmentInput {
	return application.AssignmentInput{
		UserID:     strings.TrimSpace(r.UserID),
		SortOrder:  r.SortOrder,
		Recurrence: r.Recurrence.toInput(),
	}
}

type jobRequest struct {
	Title               string              `json:"title"`
	Description         string              `json:"description"`
	ImageURL            *string             `json:"image_url"`
	UseSharedRecurrence bool                `json:"use_shared_recurrence"`
	Recurrence          recurrenceDTO       `json:"recurrence"`
	Assignments         []assignmentRequest `json:"assignments,omitempty"`
}

func (r jobRequest) toInput() application.JobInput {
	input := application.JobInput{
		Title:               r.Title,
		Description:         r.Description,
		ImageURL:            r.ImageURL,
		UseSharedRecurrence: r.UseSharedRecurrence,
		Recurrence:          r.Recurrence.toInput(),
	}
	for _, assignment := range r.Assignments {
		input.Assignments = append(input.Assignments, assignment.toInput())
	}
	return input
}

type assignmentDTO struct {
	ID         string        `json:"id"`
	JobID      string        `json:"job_id"`
	UserID     string        `json:"user_id"`
	SortOrder  int           `json:"sort_order"`
	Recurrence recurrenceDTO `json:"recurrence"`
	CreatedAt  string        `json:"created_at"`
	UpdatedAt  string        `json:"updated_at"`
}

func toAssignmentDTO(assignment application.Assignment) assignmentDTO {
	return assignmentDTO{
		ID:         assignment.ID,
		JobID:      assignment.JobID,
		UserID:     assignment.UserID,
		SortOrder:  assignment.SortOrder,
		Recurrence: toRecurrenceDTO(assignment.Recurrence),
		CreatedAt:  assignment.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:  assignment.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

type jobDTO struct {
	ID                  string          `json:"id"`
	Title               string          `json:"title"`
	Description         string          `json:"description"`
	ImageURL            *string         `json:"image_url,omitempty"`
	UseSharedRecurrence bool            `json:"use_shared_recurrence"`
	Recurrence          recurrenceDTO   `json:"recurrence"`
	Assignments         []assignmentDTO `json:"assignments"`
	CreatedAt           string          `json:"created_at"`
	UpdatedAt           string          `json:"updated_at"`
}

func toJobDTO(job application.Job) jobDTO {
	dto := jobDTO{
		ID:                  job.ID,
		Title:               job.Title,
		Description:         job.Description,
		ImageURL:            job.ImageURL,
		UseSharedRecurrence: job.UseSharedRecurrence,
		Recurrence:          toRecurrenceDTO(job.Recurrence),
		Assignments:         make([]assignmentDTO, 0, len(job.Assignments)),
		CreatedAt:           job.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:           job.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	for _, assignment := range job.Assignments {
		dto.Assignments = append(dto.Assignments, toAssignmentDTO(assignment))
	}
	return dto
}

func toJobDTOs(jobs []application.Job) []jobDTO {
	if len(jobs) == 0 {
		return nil
	}
	out := make([]jobDTO, 0, len(jobs))
	for _, job := range jobs {
		out = append(out, toJobDTO(job))
	}
	return out
}

type completionDTO struct {
	CompletedBy string `json:"completed_by"`
	CompletedAt string `json:"completed_at"`
}

func toCompletionDTO(mark application.CompletionMark) completionDTO {
	return completionDTO{
		CompletedBy: mark.CompletedBy,
		CompletedAt: mark.CompletedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toCompletionDTOPtr(mark *application.CompletionMark) *completionDTO {
	if mark == nil {
		return nil
	}
	dto := toCompletionDTO(*mark)
	return &dto
}

type assignmentProjectionDTO struct {
	Assignment assignmentDTO  `json:"assignment"`
	Completion *completionDTO `json:"completion,omitempty"`
}

type jobProjectionDTO struct {
	Job              jobDTO                    `json:"job"`
	Date             string                    `json:"date"`
	Assignments      []assignmentProjectionDTO `json:"assignments"`
	LegacyCompletion *completionDTO            `json:"legacy_completion,omitempty"`
}

func toJobProjectionDTO(projection application.JobProjection) jobProjectionDTO {
	dto := jobProjectionDTO{
		Job:              toJobDTO(projection.Job),
		Date:             projection.Date.Format(dateLayout),
		Assignments:      make([]assignmentProjectionDTO, 0, len(projection.Assignments)),
		LegacyCompletion: toCompletionDTOPtr(projection.LegacyCompletion),
	}
	for _, assignment := range projection.Assignments {
		dto.Assignments = append(dto.Assignments, assignmentProjectionDTO{
			Assignment: toAssignmentDTO(assignment.Assignment),
			Completion: toCompletionDTOPtr(assignment.Completion),
		})
	}
	return dto
}

func toJobProjectionDTOs(projections []application.JobProjection) []jobProjectionDTO {
	if len(projections) == 0 {
		return nil
	}
	out := make([]jobProjectionDTO, 0, len(projections))
	for _, projection := range projections {
		out = append(out, toJobProjectionDTO(projection))
	}
	return out
}

type jobResponse struct {
	Job jobDTO `json:"job"`
}

type listJobsResponse struct {
	Jobs []jobDTO `json:"jobs"`
}

type assignmentResponse struct {
	Assignment assignmentDTO `json:"assignment"`
}

type completionResponse struct {
	Completion completionDTO `json:"completion"`
}

type boardResponse struct {
	Date string             `json:"date"`
	Jobs []jobProjectionDTO `json:"jobs"`
}

type jobProjectionResponse struct {
	Active     bool             `json:"active"`
	Projection jobProjectionDTO `json:"projection"`
}
