package application

import "time"

// Principal represents the authenticated user invoking a service method.
type Principal struct {
	UserID  string
	IsAdmin bool
}

// Recurrence carries the recurrence configuration of a job or assignment.
// Rule is the raw rule string; StartsOn anchors the pattern and EndsOn bounds
// it unless Indefinite is set.
type Recurrence struct {
	Rule       string
	StartsOn   *time.Time
	Indefinite bool
	EndsOn     *time.Time
}

// UserInput captures caller provided user attributes. Password is empty on
// updates that keep the existing password.
type UserInput struct {
	Email       string
	DisplayName string
	Password    string
	AvatarColor string
	IsAdmin     bool
}

// User represents a household member exposed by the application services.
type User struct {
	ID          string
	Email       string
	DisplayName string
	AvatarColor string
	IsAdmin     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateUserParams wraps the data required to create a user.
type CreateUserParams struct {
	Principal Principal
	Input     UserInput
}

// UpdateUserParams wraps the data required to update a user.
type UpdateUserParams struct {
	Principal Principal
	UserID    string
	Input     UserInput
}

// AssignmentInput captures caller provided assignment fields. Recurrence is
// consulted only when the parent job does not share one rule across all
// assignees.
type AssignmentInput struct {
	UserID     string
	SortOrder  int
	Recurrence Recurrence
}

// Assignment links a user to a job.
type Assignment struct {
	ID         string
	JobID      string
	UserID     string
	SortOrder  int
	Recurrence Recurrence
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// JobInput captures caller provided job fields. Assignments is honored on
// create only; assignment updates go through the assignment operations.
type JobInput struct {
	Title               string
	Description         string
	ImageURL            *string
	UseSharedRecurrence bool
	Recurrence          Recurrence
	Assignments         []AssignmentInput
}

// Job represents a recurring household job.
type Job struct {
	ID                  string
	Title               string
	Description         string
	ImageURL            *string
	UseSharedRecurrence bool
	Recurrence          Recurrence
	Assignments         []Assignment
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// CreateJobParams wraps the data required to create a job.
type CreateJobParams struct {
	Principal Principal
	Input     JobInput
}

// UpdateJobParams wraps the data required to update an existing job.
type UpdateJobParams struct {
	Principal Principal
	JobID     string
	Input     JobInput
}

// CreateAssignmentParams wraps the data required to add an assignment.
type CreateAssignmentParams struct {
	Principal Principal
	JobID     string
	Input     AssignmentInput
}

// UpdateAssignmentParams wraps the data required to update an assignment.
type UpdateAssignmentParams struct {
	Principal    Principal
	JobID        string
	AssignmentID string
	Input        AssignmentInput
}

// ListJobsParams wraps the data required to list jobs. A nil Date lists all
// jobs without occurrence resolution; a set Date narrows the listing to jobs
// occurring that day and attaches completion state.
type ListJobsParams struct {
	Principal Principal
	Date      *time.Time
}

// GetJobParams wraps the data required to fetch one job, optionally projected
// onto a date.
type GetJobParams struct {
	Principal Principal
	JobID     string
	Date      *time.Time
}

// CompletionParams identifies one ledger entry. A nil AssignmentID addresses
// the whole-job completion recorded for jobs predating per-assignment
// tracking.
type CompletionParams struct {
	Principal    Principal
	JobID        string
	AssignmentID *string
	Date         time.Time
}

// CompletionMark records who completed an occurrence and when.
type CompletionMark struct {
	CompletedBy string
	CompletedAt time.Time
}

// AssignmentProjection pairs an assignment active on the projected date with
// its completion state for that date.
type AssignmentProjection struct {
	Assignment Assignment
	Completion *CompletionMark
}

// JobProjection is one job as it appears on a single date: the assignments
// due that day and any completions recorded against them. LegacyCompletion
// carries a whole-job ledger entry when one exists for the date.
type JobProjection struct {
	Job              Job
	Date             time.Time
	Assignments      []AssignmentProjection
	LegacyCompletion *CompletionMark
}

// Session represents an issued authentication session.
type Session struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}

// AuthenticateParams carries login credentials.
type AuthenticateParams struct {
	Email    string
	Password string
}

// AuthenticateResult is the outcome of a successful login.
type AuthenticateResult struct {
	User    User
	Session Session
}

// RefreshSessionParams carries the token to rotate.
type RefreshSessionParams struct {
	Token string
}

// RefreshSessionResult is the outcome of a successful refresh.
type RefreshSessionResult struct {
	Session Session
}

// ShoppingListInput captures caller provided shopping list fields.
type ShoppingListInput struct {
	Name string
}

// ShoppingList groups shopping items.
type ShoppingList struct {
	ID        string
	Name      string
	Items     []ShoppingItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ShoppingItemInput captures caller provided shopping item fields.
type ShoppingItemInput struct {
	Name     string
	Quantity string
	Checked  bool
	Position int
}

// ShoppingItem is a single entry on a shopping list.
type ShoppingItem struct {
	ID        string
	ListID    string
	Name      string
	Quantity  string
	Checked   bool
	Position  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CalendarSourceInput captures caller provided calendar source fields.
type CalendarSourceInput struct {
	Label   string
	URL     string
	Color   string
	Enabled bool
}

// CalendarSource registers an external iCal feed shown on the family calendar.
type CalendarSource struct {
	ID        string
	Label     string
	URL       string
	Color     string
	Enabled   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SiteSettingsInput captures caller provided household settings.
type SiteSettingsInput struct {
	HouseholdName   string
	WeatherLocation string
}

// SiteSettings holds the household configuration.
type SiteSettings struct {
	HouseholdName   string
	WeatherLocation string
	UpdatedAt       time.Time
}
