package application

import (
	"context"
	"sort"
	"time"

	"github.com/tyrongower/Kinboard-sub000/internal/persistence"
)

type userRepositoryStub struct {
	users     map[string]persistence.User
	getErr    error
	createErr error
}

func newUserRepositoryStub(users ...persistence.User) *userRepositoryStub {
	stub := &userRepositoryStub{users: make(map[string]persistence.User)}
	for _, user := range users {
		stub.users[user.ID] = user
	}
	return stub
}

func (s *userRepositoryStub) CreateUser(_ context.Context, user persistence.User) error {
	if s.createErr != nil {
		return s.createErr
	}
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return persistence.ErrDuplicate
		}
	}
	s.users[user.ID] = user
	return nil
}

func (s *userRepositoryStub) UpdateUser(_ context.Context, user persistence.User) error {
	if _, ok := s.users[user.ID]; !ok {
		return persistence.ErrNotFound
	}
	s.users[user.ID] = user
	return nil
}

func (s *userRepositoryStub) GetUser(_ context.Context, id string) (persistence.User, error) {
	if s.getErr != nil {
		return persistence.User{}, s.getErr
	}
	user, ok := s.users[id]
	if !ok {
		return persistence.User{}, persistence.ErrNotFound
	}
	return user, nil
}

func (s *userRepositoryStub) GetUserByEmail(_ context.Context, email string) (persistence.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return persistence.User{}, persistence.ErrNotFound
}

func (s *userRepositoryStub) ListUsers(_ context.Context) ([]persistence.User, error) {
	users := make([]persistence.User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, user)
	}
	return users, nil
}

func (s *userRepositoryStub) DeleteUser(_ context.Context, id string) error {
	if _, ok := s.users[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

type jobRepositoryStub struct {
	jobs      map[string]persistence.Job
	createErr error
}

func newJobRepositoryStub(jobs ...persistence.Job) *jobRepositoryStub {
	stub := &jobRepositoryStub{jobs: make(map[string]persistence.Job)}
	for _, job := range jobs {
		stub.jobs[job.ID] = job
	}
	return stub
}

func (s *jobRepositoryStub) CreateJob(_ context.Context, job persistence.Job) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.jobs[job.ID] = job
	return nil
}

func (s *jobRepositoryStub) UpdateJob(_ context.Context, job persistence.Job) error {
	existing, ok := s.jobs[job.ID]
	if !ok {
		return persistence.ErrNotFound
	}
	job.Assignments = existing.Assignments
	s.jobs[job.ID] = job
	return nil
}

func (s *jobRepositoryStub) GetJob(_ context.Context, id string) (persistence.Job, error) {
	job, ok := s.jobs[id]
	if !ok {
		return persistence.Job{}, persistence.ErrNotFound
	}
	return job, nil
}

func (s *jobRepositoryStub) ListJobs(_ context.Context) ([]persistence.Job, error) {
	jobs := make([]persistence.Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func (s *jobRepositoryStub) DeleteJob(_ context.Context, id string) error {
	if _, ok := s.jobs[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.jobs, id)
	return nil
}

func (s *jobRepositoryStub) CreateAssignment(_ context.Context, assignment persistence.JobAssignment) error {
	job, ok := s.jobs[assignment.JobID]
	if !ok {
		return persistence.ErrForeignKeyViolation
	}
	for _, existing := range job.Assignments {
		if existing.UserID == assignment.UserID {
			return persistence.ErrDuplicate
		}
	}
	job.Assignments = append(job.Assignments, assignment)
	s.jobs[assignment.JobID] = job
	return nil
}

func (s *jobRepositoryStub) UpdateAssignment(_ context.Context, assignment persistence.JobAssignment) error {
	job, ok := s.jobs[assignment.JobID]
	if !ok {
		return persistence.ErrNotFound
	}
	for i, existing := range job.Assignments {
		if existing.ID == assignment.ID {
			job.Assignments[i] = assignment
			s.jobs[assignment.JobID] = job
			return nil
		}
	}
	return persistence.ErrNotFound
}

func (s *jobRepositoryStub) GetAssignment(_ context.Context, jobID, assignmentID string) (persistence.JobAssignment, error) {
	job, ok := s.jobs[jobID]
	if !ok {
		return persistence.JobAssignment{}, persistence.ErrNotFound
	}
	for _, assignment := range job.Assignments {
		if assignment.ID == assignmentID {
			return assignment, nil
		}
	}
	return persistence.JobAssignment{}, persistence.ErrNotFound
}

func (s *jobRepositoryStub) DeleteAssignment(_ context.Context, jobID, assignmentID string) error {
	job, ok := s.jobs[jobID]
	if !ok {
		return persistence.ErrNotFound
	}
	for i, assignment := range job.Assignments {
		if assignment.ID == assignmentID {
			job.Assignments = append(job.Assignments[:i], job.Assignments[i+1:]...)
			s.jobs[jobID] = job
			return nil
		}
	}
	return persistence.ErrNotFound
}

type completionKey struct {
	jobID        string
	assignmentID string
	legacy       bool
	date         string
}

type completionRepositoryStub struct {
	entries   map[completionKey]persistence.JobCompletion
	insertErr error
}

func newCompletionRepositoryStub() *completionRepositoryStub {
	return &completionRepositoryStub{entries: make(map[completionKey]persistence.JobCompletion)}
}

func stubCompletionKey(jobID string, assignmentID *string, date time.Time) completionKey {
	key := completionKey{jobID: jobID, date: date.Format("2006-01-02")}
	if assignmentID == nil {
		key.legacy = true
	} else {
		key.assignmentID = *assignmentID
	}
	return key
}

func (s *completionRepositoryStub) InsertCompletion(_ context.Context, completion persistence.JobCompletion) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	key := stubCompletionKey(completion.JobID, completion.AssignmentID, completion.OccurrenceDate)
	if _, ok := s.entries[key]; ok {
		return persistence.ErrDuplicate
	}
	s.entries[key] = completion
	return nil
}

func (s *completionRepositoryStub) DeleteCompletion(_ context.Context, jobID string, assignmentID *string, date time.Time) error {
	key := stubCompletionKey(jobID, assignmentID, date)
	if _, ok := s.entries[key]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.entries, key)
	return nil
}

func (s *completionRepositoryStub) ListCompletionsForDate(_ context.Context, jobIDs []string, date time.Time) ([]persistence.JobCompletion, error) {
	wanted := make(map[string]bool, len(jobIDs))
	for _, id := range jobIDs {
		wanted[id] = true
	}
	day := date.Format("2006-01-02")

	var entries []persistence.JobCompletion
	for key, entry := range s.entries {
		if wanted[key.jobID] && key.date == day {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

type sessionRepositoryStub struct {
	sessions    map[string]persistence.Session
	deleteCalls []time.Time
	createErr   error
}

func newSessionRepositoryStub() *sessionRepositoryStub {
	return &sessionRepositoryStub{sessions: make(map[string]persistence.Session)}
}

func (s *sessionRepositoryStub) CreateSession(_ context.Context, session persistence.Session) (persistence.Session, error) {
	if s.createErr != nil {
		return persistence.Session{}, s.createErr
	}
	s.sessions[session.Token] = session
	return session, nil
}

func (s *sessionRepositoryStub) GetSession(_ context.Context, token string) (persistence.Session, error) {
	session, ok := s.sessions[token]
	if !ok {
		return persistence.Session{}, persistence.ErrNotFound
	}
	return session, nil
}

func (s *sessionRepositoryStub) UpdateSession(_ context.Context, session persistence.Session) (persistence.Session, error) {
	for token, existing := range s.sessions {
		if existing.ID == session.ID {
			delete(s.sessions, token)
			s.sessions[session.Token] = session
			return session, nil
		}
	}
	return persistence.Session{}, persistence.ErrNotFound
}

func (s *sessionRepositoryStub) RevokeSession(_ context.Context, token string, revokedAt time.Time) (persistence.Session, error) {
	session, ok := s.sessions[token]
	if !ok || session.RevokedAt != nil {
		return persistence.Session{}, persistence.ErrNotFound
	}
	session.RevokedAt = &revokedAt
	session.UpdatedAt = revokedAt
	s.sessions[token] = session
	return session, nil
}

func (s *sessionRepositoryStub) DeleteExpiredSessions(_ context.Context, reference time.Time) error {
	s.deleteCalls = append(s.deleteCalls, reference)
	for token, session := range s.sessions {
		if !session.ExpiresAt.After(reference) {
			delete(s.sessions, token)
		}
	}
	return nil
}

type shoppingRepositoryStub struct {
	lists map[string]persistence.ShoppingList
	items map[string]persistence.ShoppingItem
}

func newShoppingRepositoryStub(lists ...persistence.ShoppingList) *shoppingRepositoryStub {
	stub := &shoppingRepositoryStub{
		lists: make(map[string]persistence.ShoppingList),
		items: make(map[string]persistence.ShoppingItem),
	}
	for _, list := range lists {
		stub.lists[list.ID] = list
	}
	return stub
}

func (s *shoppingRepositoryStub) CreateList(_ context.Context, list persistence.ShoppingList) error {
	if _, exists := s.lists[list.ID]; exists {
		return persistence.ErrDuplicate
	}
	s.lists[list.ID] = list
	return nil
}

func (s *shoppingRepositoryStub) UpdateList(_ context.Context, list persistence.ShoppingList) error {
	if _, exists := s.lists[list.ID]; !exists {
		return persistence.ErrNotFound
	}
	s.lists[list.ID] = list
	return nil
}

func (s *shoppingRepositoryStub) GetList(_ context.Context, id string) (persistence.ShoppingList, error) {
	list, ok := s.lists[id]
	if !ok {
		return persistence.ShoppingList{}, persistence.ErrNotFound
	}
	return list, nil
}

func (s *shoppingRepositoryStub) ListLists(_ context.Context) ([]persistence.ShoppingList, error) {
	lists := make([]persistence.ShoppingList, 0, len(s.lists))
	for _, list := range s.lists {
		lists = append(lists, list)
	}
	sort.Slice(lists, func(i, j int) bool { return lists[i].ID < lists[j].ID })
	return lists, nil
}

func (s *shoppingRepositoryStub) DeleteList(_ context.Context, id string) error {
	if _, ok := s.lists[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.lists, id)
	for itemID, item := range s.items {
		if item.ListID == id {
			delete(s.items, itemID)
		}
	}
	return nil
}

func (s *shoppingRepositoryStub) CreateItem(_ context.Context, item persistence.ShoppingItem) error {
	if _, exists := s.items[item.ID]; exists {
		return persistence.ErrDuplicate
	}
	s.items[item.ID] = item
	return nil
}

func (s *shoppingRepositoryStub) UpdateItem(_ context.Context, item persistence.ShoppingItem) error {
	existing, ok := s.items[item.ID]
	if !ok || existing.ListID != item.ListID {
		return persistence.ErrNotFound
	}
	s.items[item.ID] = item
	return nil
}

func (s *shoppingRepositoryStub) GetItem(_ context.Context, listID, itemID string) (persistence.ShoppingItem, error) {
	item, ok := s.items[itemID]
	if !ok || item.ListID != listID {
		return persistence.ShoppingItem{}, persistence.ErrNotFound
	}
	return item, nil
}

func (s *shoppingRepositoryStub) ListItems(_ context.Context, listID string) ([]persistence.ShoppingItem, error) {
	items := make([]persistence.ShoppingItem, 0)
	for _, item := range s.items {
		if item.ListID == listID {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Position != items[j].Position {
			return items[i].Position < items[j].Position
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

func (s *shoppingRepositoryStub) DeleteItem(_ context.Context, listID, itemID string) error {
	item, ok := s.items[itemID]
	if !ok || item.ListID != listID {
		return persistence.ErrNotFound
	}
	delete(s.items, itemID)
	return nil
}

func (s *shoppingRepositoryStub) DeleteCheckedItems(_ context.Context, listID string) error {
	for itemID, item := range s.items {
		if item.ListID == listID && item.Checked {
			delete(s.items, itemID)
		}
	}
	return nil
}
