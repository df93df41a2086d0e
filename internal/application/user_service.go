package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/tyrongower/Kinboard-sub000/internal/persistence"
)

// PasswordHasher derives a storable hash from a plaintext password.
type PasswordHasher func(password string) (string, error)

// UserService orchestrates validation, authorization, and persistence for
// household members.
type UserService struct {
	users        persistence.UserRepository
	hashPassword PasswordHasher
	idGenerator  func() string
	now          func() time.Time
	logger       *slog.Logger
}

// NewUserService wires dependencies for the user service.
func NewUserService(users persistence.UserRepository, hashPassword PasswordHasher, idGenerator func() string, now func() time.Time) *UserService {
	return NewUserServiceWithLogger(users, hashPassword, idGenerator, now, nil)
}

// NewUserServiceWithLogger constructs a UserService with a specified logger.
func NewUserServiceWithLogger(users persistence.UserRepository, hashPassword PasswordHasher, idGenerator func() string, now func() time.Time, logger *slog.Logger) *UserService {
	if hashPassword == nil {
		hashPassword = func(password string) (string, error) {
			return CreatePasswordHash(password, DefaultArgon2idParams)
		}
	}
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &UserService{
		users:        users,
		hashPassword: hashPassword,
		idGenerator:  idGenerator,
		now:          now,
		logger:       defaultLogger(logger),
	}
}

func (s *UserService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "UserService", operation, attrs...)
}

// CreateUser validates input and persists a new member for administrators.
func (s *UserService) CreateUser(ctx context.Context, params CreateUserParams) (user User, err error) {
	if s == nil {
		err = fmt.Errorf("UserService is nil")
		return
	}
	if s.users == nil {
		err = fmt.Errorf("user repository not configured")
		return
	}
	if !params.Principal.IsAdmin {
		err = ErrUnauthorized
		return
	}

	logger := s.loggerWith(ctx, "CreateUser", "principal_id", params.Principal.UserID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "user creation failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("user_id", user.ID).InfoContext(ctx, "user created")
	}()

	normalized := normalizeUserInput(params.Input)
	vErr := validateUserInput(normalized, true)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	var hash string
	hash, err = s.hashPassword(normalized.Password)
	if err != nil {
		return
	}

	createdAt := s.now()
	record := persistence.User{
		ID:           s.idGenerator(),
		Email:        normalized.Email,
		DisplayName:  normalized.DisplayName,
		PasswordHash: hash,
		AvatarColor:  normalized.AvatarColor,
		IsAdmin:      normalized.IsAdmin,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
	if err = s.users.CreateUser(ctx, record); err != nil {
		err = mapRepoError(err)
		return
	}
	user = userFromRecord(record)
	return
}

// UpdateUser validates input and updates an existing member. Members may
// update themselves; only administrators may update others or change the
// admin flag.
func (s *UserService) UpdateUser(ctx context.Context, params UpdateUserParams) (user User, err error) {
	if s == nil {
		err = fmt.Errorf("UserService is nil")
		return
	}
	if s.users == nil {
		err = fmt.Errorf("user repository not configured")
		return
	}
	if params.UserID != params.Principal.UserID && !params.Principal.IsAdmin {
		err = ErrUnauthorized
		return
	}

	logger := s.loggerWith(ctx, "UpdateUser", "user_id", params.UserID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "user update failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "user updated")
	}()

	var existing persistence.User
	existing, err = s.users.GetUser(ctx, params.UserID)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	normalized := normalizeUserInput(params.Input)
	vErr := validateUserInput(normalized, false)
	if vErr.HasErrors() {
		err = vErr
		return
	}
	if normalized.IsAdmin != existing.IsAdmin && !params.Principal.IsAdmin {
		err = ErrUnauthorized
		return
	}

	updated := existing
	updated.Email = normalized.Email
	updated.DisplayName = normalized.DisplayName
	updated.AvatarColor = normalized.AvatarColor
	updated.IsAdmin = normalized.IsAdmin
	updated.UpdatedAt = s.now()

	if normalized.Password != "" {
		var hash string
		hash, err = s.hashPassword(normalized.Password)
		if err != nil {
			return
		}
		updated.PasswordHash = hash
	}

	if err = s.users.UpdateUser(ctx, updated); err != nil {
		err = mapRepoError(err)
		return
	}
	user = userFromRecord(updated)
	return
}

// GetUser returns one member.
func (s *UserService) GetUser(ctx context.Context, principal Principal, userID string) (User, error) {
	if s == nil {
		return User{}, fmt.Errorf("UserService is nil")
	}
	if s.users == nil {
		return User{}, fmt.Errorf("user repository not configured")
	}

	record, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return User{}, mapRepoError(err)
	}
	return userFromRecord(record), nil
}

// ListUsers returns every household member.
func (s *UserService) ListUsers(ctx context.Context, principal Principal) ([]User, error) {
	if s == nil {
		return nil, fmt.Errorf("UserService is nil")
	}
	if s.users == nil {
		return nil, nil
	}

	records, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	users := make([]User, 0, len(records))
	for _, record := range records {
		users = append(users, userFromRecord(record))
	}
	return users, nil
}

// DeleteUser removes a member when requested by an administrator. Admins
// cannot delete themselves.
func (s *UserService) DeleteUser(ctx context.Context, principal Principal, userID string) error {
	if s == nil {
		return fmt.Errorf("UserService is nil")
	}
	if s.users == nil {
		return fmt.Errorf("user repository not configured")
	}
	if !principal.IsAdmin {
		return ErrUnauthorized
	}
	if userID == principal.UserID {
		vErr := &ValidationError{}
		vErr.add("user_id", "administrators cannot delete their own account")
		return vErr
	}

	logger := s.loggerWith(ctx, "DeleteUser", "user_id", userID)
	if err := s.users.DeleteUser(ctx, userID); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "user deletion failed", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	logger.InfoContext(ctx, "user deleted")
	return nil
}

func normalizeUserInput(input UserInput) UserInput {
	normalized := input
	normalized.Email = strings.TrimSpace(strings.ToLower(input.Email))
	normalized.DisplayName = strings.TrimSpace(input.DisplayName)
	normalized.AvatarColor = strings.TrimSpace(input.AvatarColor)
	return normalized
}

func validateUserInput(input UserInput, requirePassword bool) *ValidationError {
	vErr := &ValidationError{}
	if input.Email == "" {
		vErr.add("email", "email is required")
	} else if _, err := mail.ParseAddress(input.Email); err != nil {
		vErr.add("email", "email is not a valid address")
	}
	if input.DisplayName == "" {
		vErr.add("display_name", "display name is required")
	}
	if requirePassword && input.Password == "" {
		vErr.add("password", "password is required")
	}
	if input.Password != "" && len(input.Password) < 8 {
		vErr.add("password", "password must be at least 8 characters")
	}
	return vErr
}
