package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/tyrongower/Kinboard-sub000/internal/application"
	"github.com/tyrongower/Kinboard-sub000/internal/persistence"
)

var (
	userCounter       uint64
	jobCounter        uint64
	assignmentCounter uint64
	sessionCounter    uint64
	listCounter       uint64
)

var referenceTime = time.Date(2025, time.January, 6, 8, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
// It falls on a Monday so weekly rules anchored here behave predictably.
func ReferenceTime() time.Time {
	return referenceTime
}

// ----------------------------- User fixtures -----------------------------

// UserFixture represents a deterministic user record that can be materialised
// for application or persistence tests.
type UserFixture struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash string
	AvatarColor  string
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserOption configures the generated user fixture.
type UserOption func(*UserFixture)

// NewUserFixture returns a deterministic user fixture with optional overrides.
func NewUserFixture(opts ...UserOption) UserFixture {
	idx := atomic.AddUint64(&userCounter, 1)
	id := fmt.Sprintf("user-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := UserFixture{
		ID:           id,
		Email:        fmt.Sprintf("%s@example.com", id),
		DisplayName:  fmt.Sprintf("User %03d", idx),
		PasswordHash: fmt.Sprintf("hash-%03d", idx),
		AvatarColor:  "#4f9dd0",
		IsAdmin:      false,
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithUserID overrides the generated user ID.
func WithUserID(id string) UserOption {
	return func(f *UserFixture) {
		f.ID = id
	}
}

// WithUserEmail overrides the generated email address.
func WithUserEmail(email string) UserOption {
	return func(f *UserFixture) {
		f.Email = email
	}
}

// WithUserDisplayName overrides the generated display name.
func WithUserDisplayName(name string) UserOption {
	return func(f *UserFixture) {
		f.DisplayName = name
	}
}

// WithUserPasswordHash overrides the generated password hash.
func WithUserPasswordHash(hash string) UserOption {
	return func(f *UserFixture) {
		f.PasswordHash = hash
	}
}

// WithUserAvatarColor overrides the generated avatar colour.
func WithUserAvatarColor(color string) UserOption {
	return func(f *UserFixture) {
		f.AvatarColor = color
	}
}

// WithUserAdmin sets the admin flag on the generated fixture.
func WithUserAdmin(isAdmin bool) UserOption {
	return func(f *UserFixture) {
		f.IsAdmin = isAdmin
	}
}

// WithUserTimestamps sets both created and updated timestamps on the fixture.
func WithUserTimestamps(created, updated time.Time) UserOption {
	return func(f *UserFixture) {
		f.CreatedAt = created
		f.UpdatedAt = updated
	}
}

// Application returns the fixture as an application.User value.
func (f UserFixture) Application() application.User {
	return application.User{
		ID:          f.ID,
		Email:       f.Email,
		DisplayName: f.DisplayName,
		AvatarColor: f.AvatarColor,
		IsAdmin:     f.IsAdmin,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

// Principal returns an application.Principal derived from the fixture.
func (f UserFixture) Principal() application.Principal {
	return application.Principal{UserID: f.ID, IsAdmin: f.IsAdmin}
}

// Persistence returns the fixture as a persistence.User value.
func (f UserFixture) Persistence() persistence.User {
	return persistence.User{
		ID:           f.ID,
		Email:        f.Email,
		DisplayName:  f.DisplayName,
		PasswordHash: f.PasswordHash,
		AvatarColor:  f.AvatarColor,
		IsAdmin:      f.IsAdmin,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}

// Input returns the fixture as an application.UserInput.
func (f UserFixture) Input() application.UserInput {
	return application.UserInput{
		Email:       f.Email,
		DisplayName: f.DisplayName,
		AvatarColor: f.AvatarColor,
		IsAdmin:     f.IsAdmin,
	}
}

// --------------------------- Assignment fixtures ---------------------------

// AssignmentFixture represents a deterministic job assignment.
type AssignmentFixture struct {
	ID         string
	JobID      string
	UserID     string
	SortOrder  int
	Recurrence application.Recurrence
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// AssignmentOption configures the generated assignment fixture.
type AssignmentOption func(*AssignmentFixture)

// NewAssignmentFixture returns a deterministic assignment fixture.
func NewAssignmentFixture(opts ...AssignmentOption) AssignmentFixture {
	idx := atomic.AddUint64(&assignmentCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := AssignmentFixture{
		ID:        fmt.Sprintf("assignment-%03d", idx),
		JobID:     "job-001",
		UserID:    "user-001",
		SortOrder: 0,
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithAssignmentID overrides the generated assignment ID.
func WithAssignmentID(id string) AssignmentOption {
	return func(f *AssignmentFixture) {
		f.ID = id
	}
}

// WithAssignmentJobID overrides the owning job ID.
func WithAssignmentJobID(id string) AssignmentOption {
	return func(f *AssignmentFixture) {
		f.JobID = id
	}
}

// WithAssignmentUserID overrides the assigned user ID.
func WithAssignmentUserID(id string) AssignmentOption {
	return func(f *AssignmentFixture) {
		f.UserID = id
	}
}

// WithAssignmentSortOrder overrides the display order.
func WithAssignmentSortOrder(order int) AssignmentOption {
	return func(f *AssignmentFixture) {
		f.SortOrder = order
	}
}

// WithAssignmentRecurrence sets the assignment's own recurrence, used when
// the parent job does not share one rule across assignees.
func WithAssignmentRecurrence(recurrence application.Recurrence) AssignmentOption {
	return func(f *AssignmentFixture) {
		f.Recurrence = recurrence
	}
}

// Application returns the fixture as an application.Assignment value.
func (f AssignmentFixture) Application() application.Assignment {
	return application.Assignment{
		ID:         f.ID,
		JobID:      f.JobID,
		UserID:     f.UserID,
		SortOrder:  f.SortOrder,
		Recurrence: f.Recurrence,
		CreatedAt:  f.CreatedAt,
		UpdatedAt:  f.UpdatedAt,
	}
}

// Persistence returns the fixture as a persistence.JobAssignment value.
func (f AssignmentFixture) Persistence() persistence.JobAssignment {
	return persistence.JobAssignment{
		ID:        f.ID,
		JobID:     f.JobID,
		UserID:    f.UserID,
		SortOrder: f.SortOrder,
		Recurrence: persistence.Recurrence{
			Rule:       f.Recurrence.Rule,
			StartsOn:   copyTimePtr(f.Recurrence.StartsOn),
			Indefinite: f.Recurrence.Indefinite,
			EndsOn:     copyTimePtr(f.Recurrence.EndsOn),
		},
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// Input returns the fixture as an application.AssignmentInput.
func (f AssignmentFixture) Input() application.AssignmentInput {
	return application.AssignmentInput{
		UserID:     f.UserID,
		SortOrder:  f.SortOrder,
		Recurrence: f.Recurrence,
	}
}

// ----------------------------- Job fixtures -----------------------------

// JobFixture represents a deterministic household job.
type JobFixture struct {
	ID                  string
	Title               string
	Description         string
	ImageURL            *string
	UseSharedRecurrence bool
	Recurrence          application.Recurrence
	Assignments         []AssignmentFixture
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// JobOption configures the generated job fixture.
type JobOption func(*JobFixture)

// NewJobFixture returns a deterministic job fixture. By default the job
// shares an indefinite weekly Monday rule anchored at ReferenceTime across
// one assignment.
func NewJobFixture(opts ...JobOption) JobFixture {
	idx := atomic.AddUint64(&jobCounter, 1)
	id := fmt.Sprintf("job-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	starts := referenceTime
	fixture := JobFixture{
		ID:                  id,
		Title:               fmt.Sprintf("Job %03d", idx),
		Description:         fmt.Sprintf("Description for job %03d", idx),
		UseSharedRecurrence: true,
		Recurrence: application.Recurrence{
			Rule:       "FREQ=WEEKLY;INTERVAL=1;BYDAY=MO",
			StartsOn:   &starts,
			Indefinite: true,
		},
		CreatedAt: created,
		UpdatedAt: created,
	}
	fixture.Assignments = []AssignmentFixture{
		NewAssignmentFixture(WithAssignmentJobID(id)),
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithJobID overrides the generated job ID.
func WithJobID(id string) JobOption {
	return func(f *JobFixture) {
		f.ID = id
		for i := range f.Assignments {
			f.Assignments[i].JobID = id
		}
	}
}

// WithJobTitle overrides the generated title.
func WithJobTitle(title string) JobOption {
	return func(f *JobFixture) {
		f.Title = title
	}
}

// WithJobDescription overrides the generated description.
func WithJobDescription(description string) JobOption {
	return func(f *JobFixture) {
		f.Description = description
	}
}

// WithJobImageURL sets the optional image URL.
func WithJobImageURL(url string) JobOption {
	return func(f *JobFixture) {
		f.ImageURL = &url
	}
}

// WithJobSharedRecurrence toggles whether one rule covers all assignees.
func WithJobSharedRecurrence(shared bool) JobOption {
	return func(f *JobFixture) {
		f.UseSharedRecurrence = shared
	}
}

// WithJobRecurrence overrides the job level recurrence.
func WithJobRecurrence(recurrence application.Recurrence) JobOption {
	return func(f *JobFixture) {
		f.Recurrence = recurrence
	}
}

// WithJobAssignments replaces the generated assignments.
func WithJobAssignments(assignments ...AssignmentFixture) JobOption {
	return func(f *JobFixture) {
		for i := range assignments {
			assignments[i].JobID = f.ID
		}
		f.Assignments = assignments
	}
}

// WithoutJobAssignments removes all assignments from the fixture.
func WithoutJobAssignments() JobOption {
	return func(f *JobFixture) {
		f.Assignments = nil
	}
}

// WithJobTimestamps sets both created and updated timestamps on the fixture.
func WithJobTimestamps(created, updated time.Time) JobOption {
	return func(f *JobFixture) {
		f.CreatedAt = created
		f.UpdatedAt = updated
	}
}

// Application returns the fixture as an application.Job value.
func (f JobFixture) Application() application.Job {
	job := application.Job{
		ID:                  f.ID,
		Title:               f.Title,
		Description:         f.Description,
		ImageURL:            copyStringPtr(f.ImageURL),
		UseSharedRecurrence: f.UseSharedRecurrence,
		Recurrence:          f.Recurrence,
		CreatedAt:           f.CreatedAt,
		UpdatedAt:           f.UpdatedAt,
	}
	for _, assignment := range f.Assignments {
		job.Assignments = append(job.Assignments, assignment.Application())
	}
	return job
}

// Persistence returns the fixture as a persistence.Job value.
func (f JobFixture) Persistence() persistence.Job {
	job := persistence.Job{
		ID:                  f.ID,
		Title:               f.Title,
		Description:         f.Description,
		ImageURL:            copyStringPtr(f.ImageURL),
		UseSharedRecurrence: f.UseSharedRecurrence,
		Recurrence: persistence.Recurrence{
			Rule:       f.Recurrence.Rule,
			StartsOn:   copyTimePtr(f.Recurrence.StartsOn),
			Indefinite: f.Recurrence.Indefinite,
			EndsOn:     copyTimePtr(f.Recurrence.EndsOn),
		},
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
	for _, assignment := range f.Assignments {
		job.Assignments = append(job.Assignments, assignment.Persistence())
	}
	return job
}

// Input returns the fixture as an application.JobInput.
func (f JobFixture) Input() application.JobInput {
	input := application.JobInput{
		Title:               f.Title,
		Description:         f.Description,
		ImageURL:            copyStringPtr(f.ImageURL),
		UseSharedRecurrence: f.UseSharedRecurrence,
		Recurrence:          f.Recurrence,
	}
	for _, assignment := range f.Assignments {
		input.Assignments = append(input.Assignments, assignment.Input())
	}
	return input
}

// --------------------------- Session fixtures ---------------------------

// SessionFixture represents a deterministic authentication session.
type SessionFixture struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}

// SessionOption configures the generated session fixture.
type SessionOption func(*SessionFixture)

// NewSessionFixture returns a deterministic session fixture valid for 30
// days from ReferenceTime.
func NewSessionFixture(opts ...SessionOption) SessionFixture {
	idx := atomic.AddUint64(&sessionCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := SessionFixture{
		ID:        fmt.Sprintf("session-%03d", idx),
		UserID:    "user-001",
		Token:     fmt.Sprintf("token-%03d", idx),
		ExpiresAt: created.Add(30 * 24 * time.Hour),
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithSessionID overrides the generated session ID.
func WithSessionID(id string) SessionOption {
	return func(f *SessionFixture) {
		f.ID = id
	}
}

// WithSessionUserID overrides the owning user ID.
func WithSessionUserID(id string) SessionOption {
	return func(f *SessionFixture) {
		f.UserID = id
	}
}

// WithSessionToken overrides the generated token.
func WithSessionToken(token string) SessionOption {
	return func(f *SessionFixture) {
		f.Token = token
	}
}

// WithSessionExpiresAt overrides the expiry.
func WithSessionExpiresAt(t time.Time) SessionOption {
	return func(f *SessionFixture) {
		f.ExpiresAt = t
	}
}

// WithSessionRevokedAt marks the session revoked at the given time.
func WithSessionRevokedAt(t time.Time) SessionOption {
	return func(f *SessionFixture) {
		f.RevokedAt = &t
	}
}

// WithoutSessionRevoked clears any revocation.
func WithoutSessionRevoked() SessionOption {
	return func(f *SessionFixture) {
		f.RevokedAt = nil
	}
}

// Application returns the fixture as an application.Session value.
func (f SessionFixture) Application() application.Session {
	return application.Session{
		ID:        f.ID,
		UserID:    f.UserID,
		Token:     f.Token,
		ExpiresAt: f.ExpiresAt,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
		RevokedAt: copyTimePtr(f.RevokedAt),
	}
}

// Persistence returns the fixture as a persistence.Session value.
func (f SessionFixture) Persistence() persistence.Session {
	return persistence.Session{
		ID:        f.ID,
		UserID:    f.UserID,
		Token:     f.Token,
		ExpiresAt: f.ExpiresAt,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
		RevokedAt: copyTimePtr(f.RevokedAt),
	}
}

// ------------------------- Shopping list fixtures -------------------------

// ShoppingListFixture represents a deterministic shopping list with items.
type ShoppingListFixture struct {
	ID        string
	Name      string
	Items     []persistence.ShoppingItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ShoppingListOption configures the generated shopping list fixture.
type ShoppingListOption func(*ShoppingListFixture)

// NewShoppingListFixture returns a deterministic shopping list fixture with
// two unchecked items.
func NewShoppingListFixture(opts ...ShoppingListOption) ShoppingListFixture {
	idx := atomic.AddUint64(&listCounter, 1)
	id := fmt.Sprintf("list-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := ShoppingListFixture{
		ID:        id,
		Name:      fmt.Sprintf("List %03d", idx),
		CreatedAt: created,
		UpdatedAt: created,
	}
	for i := 0; i < 2; i++ {
		fixture.Items = append(fixture.Items, persistence.ShoppingItem{
			ID:        fmt.Sprintf("%s-item-%d", id, i+1),
			ListID:    id,
			Name:      fmt.Sprintf("Item %d", i+1),
			Position:  i,
			CreatedAt: created,
			UpdatedAt: created,
		})
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithShoppingListID overrides the generated list ID.
func WithShoppingListID(id string) ShoppingListOption {
	return func(f *ShoppingListFixture) {
		f.ID = id
		for i := range f.Items {
			f.Items[i].ListID = id
		}
	}
}

// WithShoppingListName overrides the generated name.
func WithShoppingListName(name string) ShoppingListOption {
	return func(f *ShoppingListFixture) {
		f.Name = name
	}
}

// WithShoppingListItems replaces the generated items.
func WithShoppingListItems(items ...persistence.ShoppingItem) ShoppingListOption {
	return func(f *ShoppingListFixture) {
		for i := range items {
			items[i].ListID = f.ID
		}
		f.Items = items
	}
}

// Persistence returns the fixture as a persistence.ShoppingList value. Items
// are stored separately and exposed via the Items field.
func (f ShoppingListFixture) Persistence() persistence.ShoppingList {
	return persistence.ShoppingList{
		ID:        f.ID,
		Name:      f.Name,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

func copyStringPtr(src *string) *string {
	if src == nil {
		return nil
	}
	value := *src
	return &value
}

func copyTimePtr(src *time.Time) *time.Time {
	if src == nil {
		return nil
	}
	value := *src
	return &value
}
