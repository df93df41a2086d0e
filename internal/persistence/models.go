package persistence

import "time"

// User represents a household member account.
type User struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash string
	AvatarColor  string
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Recurrence captures the stored recurrence configuration owned by a job or
// by an individual assignment. Rule holds the raw rule string exactly as
// written by clients; interpretation happens in the recurrence package.
type Recurrence struct {
	Rule       string
	StartsOn   *time.Time
	Indefinite bool
	EndsOn     *time.Time
}

// Job represents a recurring household job.
type Job struct {
	ID                  string
	Title               string
	Description         string
	ImageURL            *string
	UseSharedRecurrence bool
	Recurrence          Recurrence
	Assignments         []JobAssignment
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// JobAssignment links a user to a job. Its own Recurrence is consulted only
// when the parent job's UseSharedRecurrence is false.
type JobAssignment struct {
	ID         string
	JobID      string
	UserID     string
	SortOrder  int
	Recurrence Recurrence
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// JobCompletion is one entry in the completion ledger. AssignmentID is nil
// for legacy whole-job completions recorded before per-assignment tracking;
// legacy and per-assignment entries are disjoint key spaces.
type JobCompletion struct {
	ID             string
	JobID          string
	AssignmentID   *string
	OccurrenceDate time.Time
	CompletedBy    string
	CompletedAt    time.Time
}

// ShoppingList groups shopping items.
type ShoppingList struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
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

// CalendarSource registers an external iCal feed shown on the family
// calendar. Fetching and parsing the feed happens elsewhere.
type CalendarSource struct {
	ID        string
	Label     string
	URL       string
	Color     string
	Enabled   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Session represents an authentication session persisted for a user.
type Session struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}

// SiteSettings holds the single-row household configuration.
type SiteSettings struct {
	HouseholdName   string
	WeatherLocation string
	UpdatedAt       time.Time
}
