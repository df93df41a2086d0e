package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/tyrongower/Kinboard-sub000/internal/persistence"
)

// CompletionRepository implements persistence.CompletionRepository using SQLite.
//
// Uniqueness of a completion key is enforced by partial unique indexes on
// job_completions, so concurrent inserts for the same key lose with
// persistence.ErrDuplicate instead of creating a second row.
type CompletionRepository struct {
	db *DB
}

// NewCompletionRepository creates a SQLite-backed completion repository.
func NewCompletionRepository(db *DB) *CompletionRepository {
	return &CompletionRepository{db: db}
}

// InsertCompletion records a completion. A nil AssignmentID records a
// job-level completion, which occupies its own key space.
func (r *CompletionRepository) InsertCompletion(ctx context.Context, completion persistence.JobCompletion) error {
	if completion.ID == "" || completion.JobID == "" {
		return persistence.ErrConstraintViolation
	}
	_, err := r.db.db.ExecContext(ctx, `INSERT INTO job_completions
		(id, job_id, assignment_id, completed_by, occurrence_date, completed_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		completion.ID,
		completion.JobID,
		nullableString(completion.AssignmentID),
		completion.CompletedBy,
		formatDate(completion.OccurrenceDate),
		formatTime(completion.CompletedAt),
	)
	return mapError(err)
}

// DeleteCompletion removes the completion for an exact key. A nil
// assignmentID targets the job-level completion only.
func (r *CompletionRepository) DeleteCompletion(ctx context.Context, jobID string, assignmentID *string, date time.Time) error {
	var (
		result sql.Result
		err    error
	)
	if assignmentID == nil {
		result, err = r.db.db.ExecContext(ctx, `DELETE FROM job_completions
			WHERE job_id = ? AND assignment_id IS NULL AND occurrence_date = ?`,
			jobID, formatDate(date))
	} else {
		result, err = r.db.db.ExecContext(ctx, `DELETE FROM job_completions
			WHERE job_id = ? AND assignment_id = ? AND occurrence_date = ?`,
			jobID, *assignmentID, formatDate(date))
	}
	if err != nil {
		return mapError(err)
	}
	return requireRowsAffected(result)
}

// ListCompletionsForDate returns every completion recorded for the given
// jobs on a single occurrence date.
func (r *CompletionRepository) ListCompletionsForDate(ctx context.Context, jobIDs []string, date time.Time) ([]persistence.JobCompletion, error) {
	if len(jobIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?, ", len(jobIDs)-1) + "?"
	args := make([]any, 0, len(jobIDs)+1)
	for _, id := range jobIDs {
		args = append(args, id)
	}
	args = append(args, formatDate(date))

	rows, err := r.db.db.QueryContext(ctx, `SELECT
		id, job_id, assignment_id, completed_by, occurrence_date, completed_at
		FROM job_completions
		WHERE job_id IN (`+placeholders+`) AND occurrence_date = ?
		ORDER BY job_id ASC, completed_at ASC`, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var completions []persistence.JobCompletion
	for rows.Next() {
		var (
			completion     persistence.JobCompletion
			assignmentID   sql.NullString
			occurrenceDate string
			completedAt    string
		)
		err := rows.Scan(
			&completion.ID,
			&completion.JobID,
			&assignmentID,
			&completion.CompletedBy,
			&occurrenceDate,
			&completedAt,
		)
		if err != nil {
			return nil, mapError(err)
		}
		completion.AssignmentID = stringPtr(assignmentID)
		if completion.OccurrenceDate, err = parseDate(occurrenceDate); err != nil {
			return nil, fmt.Errorf("completion %s: %w", completion.ID, err)
		}
		if completion.CompletedAt, err = parseTime(completedAt); err != nil {
			return nil, fmt.Errorf("completion %s: %w", completion.ID, err)
		}
		completions = append(completions, completion)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return completions, nil
}
