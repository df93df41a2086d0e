package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tyrongower/Kinboard-sub000/internal/persistence"
)

// JobRepository implements persistence.JobRepository using SQLite.
type JobRepository struct {
	db *DB
}

// NewJobRepository creates a SQLite-backed job repository.
func NewJobRepository(db *DB) *JobRepository {
	return &JobRepository{db: db}
}

const jobColumns = `id, title, description, image_url, use_shared_recurrence,
	recurrence_rule, starts_on, indefinite, ends_on, created_at, updated_at`

const assignmentColumns = `id, job_id, user_id, sort_order,
	recurrence_rule, starts_on, indefinite, ends_on, created_at, updated_at`

// CreateJob inserts a job together with any initial assignments.
func (r *JobRepository) CreateJob(ctx context.Context, job persistence.Job) error {
	if job.ID == "" {
		return persistence.ErrConstraintViolation
	}

	return r.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO jobs (`+jobColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			job.ID,
			job.Title,
			job.Description,
			nullableString(job.ImageURL),
			job.UseSharedRecurrence,
			job.Recurrence.Rule,
			nullableDate(job.Recurrence.StartsOn),
			job.Recurrence.Indefinite,
			nullableDate(job.Recurrence.EndsOn),
			formatTime(job.CreatedAt),
			formatTime(job.UpdatedAt),
		)
		if err != nil {
			return mapError(err)
		}

		for _, assignment := range job.Assignments {
			if err := insertAssignment(tx, assignment); err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateJob rewrites the job row. Assignments are managed through the
// assignment operations, not replaced here.
func (r *JobRepository) UpdateJob(ctx context.Context, job persistence.Job) error {
	result, err := r.db.db.ExecContext(ctx, `UPDATE jobs
		SET title = ?, description = ?, image_url = ?, use_shared_recurrence = ?,
			recurrence_rule = ?, starts_on = ?, indefinite = ?, ends_on = ?, updated_at = ?
		WHERE id = ?`,
		job.Title,
		job.Description,
		nullableString(job.ImageURL),
		job.UseSharedRecurrence,
		job.Recurrence.Rule,
		nullableDate(job.Recurrence.StartsOn),
		job.Recurrence.Indefinite,
		nullableDate(job.Recurrence.EndsOn),
		formatTime(job.UpdatedAt),
		job.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return requireRowsAffected(result)
}

// GetJob retrieves a job and its assignments.
func (r *JobRepository) GetJob(ctx context.Context, id string) (persistence.Job, error) {
	if id == "" {
		return persistence.Job{}, persistence.ErrNotFound
	}

	row := r.db.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id)
	job, err := scanJob(row)
	if err != nil {
		return persistence.Job{}, mapError(err)
	}

	assignments, err := r.listAssignments(ctx, id)
	if err != nil {
		return persistence.Job{}, err
	}
	job.Assignments = assignments
	return job, nil
}

// ListJobs returns every job with its assignments, ordered by creation time.
func (r *JobRepository) ListJobs(ctx context.Context) ([]persistence.Job, error) {
	rows, err := r.db.db.QueryContext(ctx,
		`SELECT `+jobColumns+` FROM jobs ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var jobs []persistence.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, mapError(err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	for i := range jobs {
		assignments, err := r.listAssignments(ctx, jobs[i].ID)
		if err != nil {
			return nil, err
		}
		jobs[i].Assignments = assignments
	}
	return jobs, nil
}

// DeleteJob removes a job; assignments and completions cascade.
func (r *JobRepository) DeleteJob(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}
	result, err := r.db.db.ExecContext(ctx, "DELETE FROM jobs WHERE id = ?", id)
	if err != nil {
		return mapError(err)
	}
	return requireRowsAffected(result)
}

// CreateAssignment adds a user assignment to an existing job.
func (r *JobRepository) CreateAssignment(ctx context.Context, assignment persistence.JobAssignment) error {
	if assignment.ID == "" || assignment.JobID == "" {
		return persistence.ErrConstraintViolation
	}
	return r.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		return insertAssignment(tx, assignment)
	})
}

// UpdateAssignment rewrites an assignment row scoped to its job.
func (r *JobRepository) UpdateAssignment(ctx context.Context, assignment persistence.JobAssignment) error {
	result, err := r.db.db.ExecContext(ctx, `UPDATE job_assignments
		SET user_id = ?, sort_order = ?, recurrence_rule = ?, starts_on = ?,
			indefinite = ?, ends_on = ?, updated_at = ?
		WHERE id = ? AND job_id = ?`,
		assignment.UserID,
		assignment.SortOrder,
		assignment.Recurrence.Rule,
		nullableDate(assignment.Recurrence.StartsOn),
		assignment.Recurrence.Indefinite,
		nullableDate(assignment.Recurrence.EndsOn),
		formatTime(assignment.UpdatedAt),
		assignment.ID,
		assignment.JobID,
	)
	if err != nil {
		return mapError(err)
	}
	return requireRowsAffected(result)
}

// GetAssignment retrieves a single assignment scoped to its job.
func (r *JobRepository) GetAssignment(ctx context.Context, jobID, assignmentID string) (persistence.JobAssignment, error) {
	row := r.db.db.QueryRowContext(ctx,
		`SELECT `+assignmentColumns+` FROM job_assignments WHERE id = ? AND job_id = ?`,
		assignmentID, jobID)
	assignment, err := scanAssignment(row)
	if err != nil {
		return persistence.JobAssignment{}, mapError(err)
	}
	return assignment, nil
}

// DeleteAssignment removes an assignment; its completions cascade.
func (r *JobRepository) DeleteAssignment(ctx context.Context, jobID, assignmentID string) error {
	result, err := r.db.db.ExecContext(ctx,
		"DELETE FROM job_assignments WHERE id = ? AND job_id = ?", assignmentID, jobID)
	if err != nil {
		return mapError(err)
	}
	return requireRowsAffected(result)
}

func (r *JobRepository) listAssignments(ctx context.Context, jobID string) ([]persistence.JobAssignment, error) {
	rows, err := r.db.db.QueryContext(ctx,
		`SELECT `+assignmentColumns+` FROM job_assignments
		WHERE job_id = ? ORDER BY sort_order ASC, id ASC`, jobID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var assignments []persistence.JobAssignment
	for rows.Next() {
		assignment, err := scanAssignment(rows)
		if err != nil {
			return nil, mapError(err)
		}
		assignments = append(assignments, assignment)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return assignments, nil
}

func insertAssignment(tx *sql.Tx, assignment persistence.JobAssignment) error {
	_, err := tx.Exec(`INSERT INTO job_assignments (`+assignmentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		assignment.ID,
		assignment.JobID,
		assignment.UserID,
		assignment.SortOrder,
		assignment.Recurrence.Rule,
		nullableDate(assignment.Recurrence.StartsOn),
		assignment.Recurrence.Indefinite,
		nullableDate(assignment.Recurrence.EndsOn),
		formatTime(assignment.CreatedAt),
		formatTime(assignment.UpdatedAt),
	)
	return mapError(err)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (persistence.Job, error) {
	var (
		job                  persistence.Job
		imageURL             sql.NullString
		startsOn, endsOn     sql.NullString
		createdAt, updatedAt string
	)
	err := row.Scan(
		&job.ID,
		&job.Title,
		&job.Description,
		&imageURL,
		&job.UseSharedRecurrence,
		&job.Recurrence.Rule,
		&startsOn,
		&job.Recurrence.Indefinite,
		&endsOn,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.Job{}, err
	}

	job.ImageURL = stringPtr(imageURL)
	if job.Recurrence.StartsOn, err = datePtr(startsOn); err != nil {
		return persistence.Job{}, err
	}
	if job.Recurrence.EndsOn, err = datePtr(endsOn); err != nil {
		return persistence.Job{}, err
	}
	if job.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Job{}, fmt.Errorf("job %s: %w", job.ID, err)
	}
	if job.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Job{}, fmt.Errorf("job %s: %w", job.ID, err)
	}
	return job, nil
}

func scanAssignment(row rowScanner) (persistence.JobAssignment, error) {
	var (
		assignment           persistence.JobAssignment
		startsOn, endsOn     sql.NullString
		createdAt, updatedAt string
	)
	err := row.Scan(
		&assignment.ID,
		&assignment.JobID,
		&assignment.UserID,
		&assignment.SortOrder,
		&assignment.Recurrence.Rule,
		&startsOn,
		&assignment.Recurrence.Indefinite,
		&endsOn,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.JobAssignment{}, err
	}

	if assignment.Recurrence.StartsOn, err = datePtr(startsOn); err != nil {
		return persistence.JobAssignment{}, err
	}
	if assignment.Recurrence.EndsOn, err = datePtr(endsOn); err != nil {
		return persistence.JobAssignment{}, err
	}
	if assignment.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.JobAssignment{}, fmt.Errorf("assignment %s: %w", assignment.ID, err)
	}
	if assignment.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.JobAssignment{}, fmt.Errorf("assignment %s: %w", assignment.ID, err)
	}
	return assignment, nil
}

func requireRowsAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}
