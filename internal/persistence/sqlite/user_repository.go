package sqlite

import (
	"context"
	"fmt"

	"github.com/tyrongower/Kinboard-sub000/internal/persistence"
)

// UserRepository implements persistence.UserRepository using SQLite.
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a SQLite-backed user repository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, display_name, password_hash, avatar_color,
	is_admin, created_at, updated_at`

// CreateUser inserts a user. Emails are unique case-insensitively.
func (r *UserRepository) CreateUser(ctx context.Context, user persistence.User) error {
	if user.ID == "" {
		return persistence.ErrConstraintViolation
	}
	_, err := r.db.db.ExecContext(ctx, `INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Email,
		user.DisplayName,
		user.PasswordHash,
		user.AvatarColor,
		user.IsAdmin,
		formatTime(user.CreatedAt),
		formatTime(user.UpdatedAt),
	)
	return mapError(err)
}

// UpdateUser rewrites the user row.
func (r *UserRepository) UpdateUser(ctx context.Context, user persistence.User) error {
	result, err := r.db.db.ExecContext(ctx, `UPDATE users
		SET email = ?, display_name = ?, password_hash = ?, avatar_color = ?,
			is_admin = ?, updated_at = ?
		WHERE id = ?`,
		user.Email,
		user.DisplayName,
		user.PasswordHash,
		user.AvatarColor,
		user.IsAdmin,
		formatTime(user.UpdatedAt),
		user.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return requireRowsAffected(result)
}

// GetUser retrieves a user by ID.
func (r *UserRepository) GetUser(ctx context.Context, id string) (persistence.User, error) {
	if id == "" {
		return persistence.User{}, persistence.ErrNotFound
	}
	row := r.db.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// GetUserByEmail retrieves a user by email, matched case-insensitively.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (persistence.User, error) {
	row := r.db.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

// ListUsers returns every user ordered by display name.
func (r *UserRepository) ListUsers(ctx context.Context) ([]persistence.User, error) {
	rows, err := r.db.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY display_name ASC, id ASC`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var users []persistence.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return users, nil
}

// DeleteUser removes a user; assignments and sessions cascade.
func (r *UserRepository) DeleteUser(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}
	result, err := r.db.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return mapError(err)
	}
	return requireRowsAffected(result)
}

func scanUser(row rowScanner) (persistence.User, error) {
	var (
		user                 persistence.User
		createdAt, updatedAt string
	)
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.DisplayName,
		&user.PasswordHash,
		&user.AvatarColor,
		&user.IsAdmin,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.User{}, mapError(err)
	}
	if user.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.User{}, fmt.Errorf("user %s: %w", user.ID, err)
	}
	if user.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.User{}, fmt.Errorf("user %s: %w", user.ID, err)
	}
	return user, nil
}
