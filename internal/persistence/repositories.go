package persistence

import (
	"context"
	"time"
)

// UserRepository exposes CRUD operations for household members.
type UserRepository interface {
	CreateUser(ctx context.Context, user User) error
	UpdateUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	DeleteUser(ctx context.Context, id string) error
}

// JobRepository stores jobs together with their assignments.
type JobRepository interface {
	CreateJob(ctx context.Context, job Job) error
	UpdateJob(ctx context.Context, job Job) error
	GetJob(ctx context.Context, id string) (Job, error)
	ListJobs(ctx context.Context) ([]Job, error)
	// DeleteJob removes the job and cascades to its assignments and
	// completion records.
	DeleteJob(ctx context.Context, id string) error

	CreateAssignment(ctx context.Context, assignment JobAssignment) error
	UpdateAssignment(ctx context.Context, assignment JobAssignment) error
	GetAssignment(ctx context.Context, jobID, assignmentID string) (JobAssignment, error)
	// DeleteAssignment removes the assignment and its completion records.
	DeleteAssignment(ctx context.Context, jobID, assignmentID string) error
}

// CompletionRepository is the completion ledger. Occurrence dates are
// normalized to date-only before storage and lookup; the backing store
// enforces at most one record per (assignment, date) and, for legacy
// entries, per (job, date) so duplicate inserts surface ErrDuplicate.
type CompletionRepository interface {
	InsertCompletion(ctx context.Context, completion JobCompletion) error
	// DeleteCompletion removes the entry for the exact ledger key; a nil
	// assignmentID addresses the legacy whole-job key space.
	DeleteCompletion(ctx context.Context, jobID string, assignmentID *string, date time.Time) error
	// ListCompletionsForDate returns every ledger entry for the given jobs
	// on the given date, both per-assignment and legacy.
	ListCompletionsForDate(ctx context.Context, jobIDs []string, date time.Time) ([]JobCompletion, error)
}

// ShoppingRepository stores shopping lists and their items.
type ShoppingRepository interface {
	CreateList(ctx context.Context, list ShoppingList) error
	UpdateList(ctx context.Context, list ShoppingList) error
	GetList(ctx context.Context, id string) (ShoppingList, error)
	ListLists(ctx context.Context) ([]ShoppingList, error)
	DeleteList(ctx context.Context, id string) error

	CreateItem(ctx context.Context, item ShoppingItem) error
	UpdateItem(ctx context.Context, item ShoppingItem) error
	GetItem(ctx context.Context, listID, itemID string) (ShoppingItem, error)
	ListItems(ctx context.Context, listID string) ([]ShoppingItem, error)
	DeleteItem(ctx context.Context, listID, itemID string) error
	DeleteCheckedItems(ctx context.Context, listID string) error
}

// CalendarSourceRepository stores external calendar feed registrations.
type CalendarSourceRepository interface {
	CreateSource(ctx context.Context, source CalendarSource) error
	UpdateSource(ctx context.Context, source CalendarSource) error
	GetSource(ctx context.Context, id string) (CalendarSource, error)
	ListSources(ctx context.Context) ([]CalendarSource, error)
	DeleteSource(ctx context.Context, id string) error
}

// SessionRepository stores authentication session state.
type SessionRepository interface {
	CreateSession(ctx context.Context, session Session) (Session, error)
	GetSession(ctx context.Context, token string) (Session, error)
	UpdateSession(ctx context.Context, session Session) (Session, error)
	RevokeSession(ctx context.Context, token string, revokedAt time.Time) (Session, error)
	DeleteExpiredSessions(ctx context.Context, reference time.Time) error
}

// SettingsRepository stores the single-row site settings.
type SettingsRepository interface {
	GetSettings(ctx context.Context) (SiteSettings, error)
	UpdateSettings(ctx context.Context, settings SiteSettings) error
}
