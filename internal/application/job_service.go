package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/tyrongower/Kinboard-sub000/internal/occurrence"
	"github.com/tyrongower/Kinboard-sub000/internal/persistence"
	"github.com/tyrongower/Kinboard-sub000/internal/recurrence"
)

// JobService orchestrates validation, occurrence resolution, and the
// completion ledger for household jobs.
type JobService struct {
	jobs        persistence.JobRepository
	completions persistence.CompletionRepository
	users       persistence.UserRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewJobService wires dependencies for job operations.
func NewJobService(jobs persistence.JobRepository, completions persistence.CompletionRepository, users persistence.UserRepository, idGenerator func() string, now func() time.Time) *JobService {
	return NewJobServiceWithLogger(jobs, completions, users, idGenerator, now, nil)
}

// NewJobServiceWithLogger constructs a JobService with a specified logger.
func NewJobServiceWithLogger(jobs persistence.JobRepository, completions persistence.CompletionRepository, users persistence.UserRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *JobService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &JobService{
		jobs:        jobs,
		completions: completions,
		users:       users,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *JobService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "JobService", operation, attrs...)
}

// CreateJob validates the request and persists a new job with its initial
// assignments.
func (s *JobService) CreateJob(ctx context.Context, params CreateJobParams) (job Job, err error) {
	if s == nil {
		err = fmt.Errorf("JobService is nil")
		return
	}
	if s.jobs == nil {
		err = fmt.Errorf("job repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "CreateJob", "principal_id", params.Principal.UserID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "job creation failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("job_id", job.ID).InfoContext(ctx, "job created")
	}()

	input := normalizeJobInput(params.Input)
	vErr := &ValidationError{}
	validateJobInput(input, vErr)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	if err = s.ensureAssigneesExist(ctx, input.Assignments); err != nil {
		return
	}

	createdAt := s.now()
	record := persistence.Job{
		ID:                  s.idGenerator(),
		Title:               input.Title,
		Description:         input.Description,
		ImageURL:            input.ImageURL,
		UseSharedRecurrence: input.UseSharedRecurrence,
		Recurrence:          recurrenceToRecord(normalizeRecurrence(input.Recurrence)),
		CreatedAt:           createdAt,
		UpdatedAt:           createdAt,
	}
	for _, assignment := range input.Assignments {
		record.Assignments = append(record.Assignments, persistence.JobAssignment{
			ID:         s.idGenerator(),
			JobID:      record.ID,
			UserID:     assignment.UserID,
			SortOrder:  assignment.SortOrder,
			Recurrence: recurrenceToRecord(normalizeRecurrence(assignment.Recurrence)),
			CreatedAt:  createdAt,
			UpdatedAt:  createdAt,
		})
	}

	if err = s.jobs.CreateJob(ctx, record); err != nil {
		err = mapRepoError(err)
		return
	}

	var persisted persistence.Job
	persisted, err = s.jobs.GetJob(ctx, record.ID)
	if err != nil {
		err = mapRepoError(err)
		return
	}
	job = jobFromRecord(persisted)
	return
}

// UpdateJob applies validation before rewriting the job. Assignments are not
// touched here.
func (s *JobService) UpdateJob(ctx context.Context, params UpdateJobParams) (job Job, err error) {
	if s == nil {
		err = fmt.Errorf("JobService is nil")
		return
	}
	if s.jobs == nil {
		err = fmt.Errorf("job repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "UpdateJob", "job_id", params.JobID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "job update failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "job updated")
	}()

	var existing persistence.Job
	existing, err = s.jobs.GetJob(ctx, params.JobID)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	input := normalizeJobInput(params.Input)
	vErr := &ValidationError{}
	validateJobInput(input, vErr)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	updated := existing
	updated.Title = input.Title
	updated.Description = input.Description
	updated.ImageURL = input.ImageURL
	updated.UseSharedRecurrence = input.UseSharedRecurrence
	updated.Recurrence = recurrenceToRecord(normalizeRecurrence(input.Recurrence))
	updated.UpdatedAt = s.now()

	if err = s.jobs.UpdateJob(ctx, updated); err != nil {
		err = mapRepoError(err)
		return
	}
	job = jobFromRecord(updated)
	return
}

// GetJob fetches one job with its assignments.
func (s *JobService) GetJob(ctx context.Context, principal Principal, jobID string) (Job, error) {
	if s == nil {
		return Job{}, fmt.Errorf("JobService is nil")
	}
	if s.jobs == nil {
		return Job{}, fmt.Errorf("job repository not configured")
	}

	record, err := s.jobs.GetJob(ctx, jobID)
	if err != nil {
		return Job{}, mapRepoError(err)
	}
	return jobFromRecord(record), nil
}

// ListJobs returns every job with its assignments, without occurrence
// resolution.
func (s *JobService) ListJobs(ctx context.Context, principal Principal) ([]Job, error) {
	if s == nil {
		return nil, fmt.Errorf("JobService is nil")
	}
	if s.jobs == nil {
		return nil, nil
	}

	records, err := s.jobs.ListJobs(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	jobs := make([]Job, 0, len(records))
	for _, record := range records {
		jobs = append(jobs, jobFromRecord(record))
	}
	return jobs, nil
}

// DeleteJob removes a job together with its assignments and ledger entries.
func (s *JobService) DeleteJob(ctx context.Context, principal Principal, jobID string) error {
	if s == nil {
		return fmt.Errorf("JobService is nil")
	}
	if s.jobs == nil {
		return fmt.Errorf("job repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteJob", "job_id", jobID)
	if err := s.jobs.DeleteJob(ctx, jobID); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "job deletion failed", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	logger.InfoContext(ctx, "job deleted")
	return nil
}

// CreateAssignment adds a user to an existing job.
func (s *JobService) CreateAssignment(ctx context.Context, params CreateAssignmentParams) (assignment Assignment, err error) {
	if s == nil {
		err = fmt.Errorf("JobService is nil")
		return
	}
	if s.jobs == nil {
		err = fmt.Errorf("job repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "CreateAssignment", "job_id", params.JobID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "assignment creation failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("assignment_id", assignment.ID).InfoContext(ctx, "assignment created")
	}()

	if _, err = s.jobs.GetJob(ctx, params.JobID); err != nil {
		err = mapRepoError(err)
		return
	}

	input := params.Input
	vErr := &ValidationError{}
	validateAssignmentInput(input, vErr)
	if vErr.HasErrors() {
		err = vErr
		return
	}
	if err = s.ensureAssigneesExist(ctx, []AssignmentInput{input}); err != nil {
		return
	}

	createdAt := s.now()
	record := persistence.JobAssignment{
		ID:         s.idGenerator(),
		JobID:      params.JobID,
		UserID:     input.UserID,
		SortOrder:  input.SortOrder,
		Recurrence: recurrenceToRecord(normalizeRecurrence(input.Recurrence)),
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
	if err = s.jobs.CreateAssignment(ctx, record); err != nil {
		err = mapRepoError(err)
		return
	}
	assignment = assignmentFromRecord(record)
	return
}

// UpdateAssignment rewrites an assignment scoped to its job.
func (s *JobService) UpdateAssignment(ctx context.Context, params UpdateAssignmentParams) (assignment Assignment, err error) {
	if s == nil {
		err = fmt.Errorf("JobService is nil")
		return
	}
	if s.jobs == nil {
		err = fmt.Errorf("job repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "UpdateAssignment", "job_id", params.JobID, "assignment_id", params.AssignmentID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "assignment update failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "assignment updated")
	}()

	var existing persistence.JobAssignment
	existing, err = s.jobs.GetAssignment(ctx, params.JobID, params.AssignmentID)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	input := params.Input
	vErr := &ValidationError{}
	validateAssignmentInput(input, vErr)
	if vErr.HasErrors() {
		err = vErr
		return
	}
	if input.UserID != existing.UserID {
		if err = s.ensureAssigneesExist(ctx, []AssignmentInput{input}); err != nil {
			return
		}
	}

	updated := existing
	updated.UserID = input.UserID
	updated.SortOrder = input.SortOrder
	updated.Recurrence = recurrenceToRecord(normalizeRecurrence(input.Recurrence))
	updated.UpdatedAt = s.now()

	if err = s.jobs.UpdateAssignment(ctx, updated); err != nil {
		err = mapRepoError(err)
		return
	}
	assignment = assignmentFromRecord(updated)
	return
}

// DeleteAssignment removes an assignment and its ledger entries.
func (s *JobService) DeleteAssignment(ctx context.Context, principal Principal, jobID, assignmentID string) error {
	if s == nil {
		return fmt.Errorf("JobService is nil")
	}
	if s.jobs == nil {
		return fmt.Errorf("job repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteAssignment", "job_id", jobID, "assignment_id", assignmentID)
	if err := s.jobs.DeleteAssignment(ctx, jobID, assignmentID); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "assignment deletion failed", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	logger.InfoContext(ctx, "assignment deleted")
	return nil
}

// BoardForDate resolves which jobs occur on the given date and joins the
// completion ledger onto the active assignments. Completion state is
// recomputed from the ledger on every call.
func (s *JobService) BoardForDate(ctx context.Context, principal Principal, date time.Time) ([]JobProjection, error) {
	if s == nil {
		return nil, fmt.Errorf("JobService is nil")
	}
	if s.jobs == nil {
		return nil, nil
	}

	records, err := s.jobs.ListJobs(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}

	day := recurrence.DateOnly(date)
	jobsByID := make(map[string]Job, len(records))
	occurrenceJobs := make([]occurrence.Job, 0, len(records))
	for _, record := range records {
		job := jobFromRecord(record)
		jobsByID[job.ID] = job
		occurrenceJobs = append(occurrenceJobs, occurrenceJob(job))
	}

	resolutions := occurrence.Resolve(occurrenceJobs, day)
	if len(resolutions) == 0 {
		return nil, nil
	}

	jobIDs := make([]string, 0, len(resolutions))
	for _, resolution := range resolutions {
		jobIDs = append(jobIDs, resolution.JobID)
	}
	marks, legacyMarks, err := s.completionMarks(ctx, jobIDs, day)
	if err != nil {
		return nil, err
	}

	projections := make([]JobProjection, 0, len(resolutions))
	for _, resolution := range resolutions {
		job := jobsByID[resolution.JobID]
		projections = append(projections, buildProjection(job, resolution, day, marks, legacyMarks))
	}
	return projections, nil
}

// ProjectJob resolves a single job onto a date. The second return reports
// whether the job occurs on that date at all.
func (s *JobService) ProjectJob(ctx context.Context, principal Principal, jobID string, date time.Time) (JobProjection, bool, error) {
	if s == nil {
		return JobProjection{}, false, fmt.Errorf("JobService is nil")
	}
	if s.jobs == nil {
		return JobProjection{}, false, fmt.Errorf("job repository not configured")
	}

	record, err := s.jobs.GetJob(ctx, jobID)
	if err != nil {
		return JobProjection{}, false, mapRepoError(err)
	}
	job := jobFromRecord(record)

	day := recurrence.DateOnly(date)
	resolution, active := occurrence.ResolveJob(occurrenceJob(job), day)
	if !active {
		return JobProjection{}, false, nil
	}

	marks, legacyMarks, err := s.completionMarks(ctx, []string{jobID}, day)
	if err != nil {
		return JobProjection{}, false, err
	}
	return buildProjection(job, resolution, day, marks, legacyMarks), true, nil
}

// Complete records a ledger entry for one occurrence. Completing the same
// occurrence twice reports ErrAlreadyCompleted.
func (s *JobService) Complete(ctx context.Context, params CompletionParams) (mark CompletionMark, err error) {
	if s == nil {
		err = fmt.Errorf("JobService is nil")
		return
	}
	if s.jobs == nil || s.completions == nil {
		err = fmt.Errorf("job service not fully configured")
		return
	}

	logger := s.loggerWith(ctx, "Complete",
		"job_id", params.JobID,
		"principal_id", params.Principal.UserID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "completion failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "occurrence completed")
	}()

	day := recurrence.DateOnly(params.Date)
	if err = s.checkOccurrence(ctx, params, day); err != nil {
		return
	}

	now := s.now()
	record := persistence.JobCompletion{
		ID:             s.idGenerator(),
		JobID:          params.JobID,
		AssignmentID:   params.AssignmentID,
		OccurrenceDate: day,
		CompletedBy:    params.Principal.UserID,
		CompletedAt:    now,
	}
	if err = s.completions.InsertCompletion(ctx, record); err != nil {
		if errors.Is(err, persistence.ErrDuplicate) {
			err = ErrAlreadyCompleted
			return
		}
		err = mapRepoError(err)
		return
	}
	mark = CompletionMark{CompletedBy: record.CompletedBy, CompletedAt: record.CompletedAt}
	return
}

// Uncomplete removes the ledger entry for one occurrence. Missing entries
// report ErrNotFound.
func (s *JobService) Uncomplete(ctx context.Context, params CompletionParams) error {
	if s == nil {
		return fmt.Errorf("JobService is nil")
	}
	if s.jobs == nil || s.completions == nil {
		return fmt.Errorf("job service not fully configured")
	}

	logger := s.loggerWith(ctx, "Uncomplete",
		"job_id", params.JobID,
		"principal_id", params.Principal.UserID,
	)

	day := recurrence.DateOnly(params.Date)
	if params.AssignmentID != nil {
		if _, err := s.jobs.GetAssignment(ctx, params.JobID, *params.AssignmentID); err != nil {
			err = mapRepoError(err)
			logger.ErrorContext(ctx, "uncompletion failed", "error", err, "error_kind", ErrorKind(err))
			return err
		}
	}

	if err := s.completions.DeleteCompletion(ctx, params.JobID, params.AssignmentID, day); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "uncompletion failed", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	logger.InfoContext(ctx, "occurrence uncompleted")
	return nil
}

// checkOccurrence verifies the completion target exists and is due on the
// day. Assignment completions require the assignment to be active on the
// date; legacy whole-job completions require the job to occur at all.
func (s *JobService) checkOccurrence(ctx context.Context, params CompletionParams, day time.Time) error {
	record, err := s.jobs.GetJob(ctx, params.JobID)
	if err != nil {
		return mapRepoError(err)
	}
	job := jobFromRecord(record)

	resolution, active := occurrence.ResolveJob(occurrenceJob(job), day)
	if !active {
		vErr := &ValidationError{}
		vErr.add("date", "job does not occur on this date")
		return vErr
	}
	if params.AssignmentID == nil {
		return nil
	}

	has := false
	for _, assignment := range resolution.Assignments {
		if assignment.ID == *params.AssignmentID {
			has = true
			break
		}
	}
	if !has {
		if _, err := s.jobs.GetAssignment(ctx, params.JobID, *params.AssignmentID); err != nil {
			return mapRepoError(err)
		}
		vErr := &ValidationError{}
		vErr.add("date", "assignment is not due on this date")
		return vErr
	}
	return nil
}

func (s *JobService) completionMarks(ctx context.Context, jobIDs []string, day time.Time) (map[string]CompletionMark, map[string]CompletionMark, error) {
	entries, err := s.completions.ListCompletionsForDate(ctx, jobIDs, day)
	if err != nil {
		return nil, nil, mapRepoError(err)
	}

	marks := make(map[string]CompletionMark)
	legacyMarks := make(map[string]CompletionMark)
	for _, entry := range entries {
		mark := CompletionMark{CompletedBy: entry.CompletedBy, CompletedAt: entry.CompletedAt}
		if entry.AssignmentID == nil {
			legacyMarks[entry.JobID] = mark
			continue
		}
		marks[*entry.AssignmentID] = mark
	}
	return marks, legacyMarks, nil
}

func (s *JobService) ensureAssigneesExist(ctx context.Context, assignments []AssignmentInput) error {
	if s.users == nil || len(assignments) == 0 {
		return nil
	}

	vErr := &ValidationError{}
	seen := make(map[string]bool, len(assignments))
	for _, assignment := range assignments {
		if assignment.UserID == "" || seen[assignment.UserID] {
			continue
		}
		seen[assignment.UserID] = true
		if _, err := s.users.GetUser(ctx, assignment.UserID); err != nil {
			if errors.Is(err, persistence.ErrNotFound) {
				vErr.add("user_id", fmt.Sprintf("user %s does not exist", assignment.UserID))
				continue
			}
			return mapRepoError(err)
		}
	}
	if vErr.HasErrors() {
		return vErr
	}
	return nil
}

func occurrenceJob(job Job) occurrence.Job {
	converted := occurrence.Job{
		ID:                  job.ID,
		UseSharedRecurrence: job.UseSharedRecurrence,
		SharedRule:          recurrence.ParseRule(job.Recurrence.Rule),
		SharedWindow:        occurrenceWindow(job.Recurrence),
	}
	for _, assignment := range job.Assignments {
		converted.Assignments = append(converted.Assignments, occurrence.Assignment{
			ID:        assignment.ID,
			UserID:    assignment.UserID,
			SortOrder: assignment.SortOrder,
			Rule:      recurrence.ParseRule(assignment.Recurrence.Rule),
			Window:    occurrenceWindow(assignment.Recurrence),
		})
	}
	return converted
}

func occurrenceWindow(config Recurrence) recurrence.Window {
	return recurrence.Window{
		StartsOn:   config.StartsOn,
		Indefinite: config.Indefinite,
		EndsOn:     config.EndsOn,
	}
}

func buildProjection(job Job, resolution occurrence.Resolution, day time.Time, marks, legacyMarks map[string]CompletionMark) JobProjection {
	projection := JobProjection{Job: job, Date: day}
	for _, active := range resolution.Assignments {
		assignment, ok := findAssignment(job.Assignments, active.ID)
		if !ok {
			continue
		}
		item := AssignmentProjection{Assignment: assignment}
		if mark, ok := marks[assignment.ID]; ok {
			item.Completion = &mark
		}
		projection.Assignments = append(projection.Assignments, item)
	}
	if mark, ok := legacyMarks[job.ID]; ok {
		projection.LegacyCompletion = &mark
	}
	return projection
}

func findAssignment(assignments []Assignment, id string) (Assignment, bool) {
	for _, assignment := range assignments {
		if assignment.ID == id {
			return assignment, true
		}
	}
	return Assignment{}, false
}

func normalizeJobInput(input JobInput) JobInput {
	normalized := input
	normalized.Title = strings.TrimSpace(input.Title)
	normalized.Description = strings.TrimSpace(input.Description)
	if input.ImageURL != nil {
		trimmed := strings.TrimSpace(*input.ImageURL)
		if trimmed == "" {
			normalized.ImageURL = nil
		} else {
			normalized.ImageURL = &trimmed
		}
	}
	normalized.Assignments = make([]AssignmentInput, len(input.Assignments))
	copy(normalized.Assignments, input.Assignments)
	sort.SliceStable(normalized.Assignments, func(i, j int) bool {
		return normalized.Assignments[i].SortOrder < normalized.Assignments[j].SortOrder
	})
	return normalized
}

// normalizeRecurrence canonicalizes the rule text and truncates window bounds
// to date-only, matching how the evaluator interprets them.
func normalizeRecurrence(config Recurrence) Recurrence {
	normalized := config
	if rule := recurrence.ParseRule(config.Rule); rule.Frequency != recurrence.FrequencyUnspecified {
		normalized.Rule = rule.String()
	} else {
		normalized.Rule = strings.TrimSpace(config.Rule)
	}
	if config.StartsOn != nil {
		day := recurrence.DateOnly(*config.StartsOn)
		normalized.StartsOn = &day
	}
	if config.EndsOn != nil {
		day := recurrence.DateOnly(*config.EndsOn)
		normalized.EndsOn = &day
	}
	return normalized
}

func validateJobInput(input JobInput, vErr *ValidationError) {
	if input.Title == "" {
		vErr.add("title", "title is required")
	}
	validateRecurrence(input.Recurrence, "recurrence", vErr)

	seen := make(map[string]bool, len(input.Assignments))
	for _, assignment := range input.Assignments {
		validateAssignmentInput(assignment, vErr)
		if assignment.UserID != "" && seen[assignment.UserID] {
			vErr.add("assignments", "a user may be assigned to a job only once")
		}
		seen[assignment.UserID] = true
	}
}

func validateAssignmentInput(input AssignmentInput, vErr *ValidationError) {
	if input.UserID == "" {
		vErr.add("user_id", "user is required")
	}
	if input.SortOrder < 0 {
		vErr.add("sort_order", "sort order must not be negative")
	}
	validateRecurrence(input.Recurrence, "recurrence", vErr)
}

func validateRecurrence(config Recurrence, field string, vErr *ValidationError) {
	if config.StartsOn != nil && config.EndsOn != nil && !config.Indefinite {
		if config.EndsOn.Before(recurrence.DateOnly(*config.StartsOn)) {
			vErr.add(field, "end date must not be before the start date")
		}
	}
}
