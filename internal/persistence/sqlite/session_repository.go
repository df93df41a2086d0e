package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tyrongower/Kinboard-sub000/internal/persistence"
)

// SessionRepository implements persistence.SessionRepository using SQLite.
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a SQLite-backed session repository.
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

const sessionColumns = `id, user_id, token, expires_at, created_at, updated_at, revoked_at`

// CreateSession persists a new session and returns it.
func (r *SessionRepository) CreateSession(ctx context.Context, session persistence.Session) (persistence.Session, error) {
	if session.ID == "" || session.Token == "" {
		return persistence.Session{}, persistence.ErrConstraintViolation
	}
	_, err := r.db.db.ExecContext(ctx, `INSERT INTO sessions (`+sessionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		session.ID,
		session.UserID,
		session.Token,
		formatTime(session.ExpiresAt),
		formatTime(session.CreatedAt),
		formatTime(session.UpdatedAt),
		nullableTime(session.RevokedAt),
	)
	if err != nil {
		return persistence.Session{}, mapError(err)
	}
	return session, nil
}

// GetSession looks a session up by its opaque token.
func (r *SessionRepository) GetSession(ctx context.Context, token string) (persistence.Session, error) {
	if token == "" {
		return persistence.Session{}, persistence.ErrNotFound
	}
	row := r.db.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE token = ?`, token)
	return scanSession(row)
}

// UpdateSession rewrites a session row, keyed by ID so token rotation keeps
// the same session identity.
func (r *SessionRepository) UpdateSession(ctx context.Context, session persistence.Session) (persistence.Session, error) {
	result, err := r.db.db.ExecContext(ctx, `UPDATE sessions
		SET token = ?, expires_at = ?, updated_at = ?, revoked_at = ?
		WHERE id = ?`,
		session.Token,
		formatTime(session.ExpiresAt),
		formatTime(session.UpdatedAt),
		nullableTime(session.RevokedAt),
		session.ID,
	)
	if err != nil {
		return persistence.Session{}, mapError(err)
	}
	if err := requireRowsAffected(result); err != nil {
		return persistence.Session{}, err
	}
	return session, nil
}

// RevokeSession marks the session for the token as revoked and returns the
// updated record.
func (r *SessionRepository) RevokeSession(ctx context.Context, token string, revokedAt time.Time) (persistence.Session, error) {
	result, err := r.db.db.ExecContext(ctx, `UPDATE sessions
		SET revoked_at = ?, updated_at = ?
		WHERE token = ? AND revoked_at IS NULL`,
		formatTime(revokedAt), formatTime(revokedAt), token)
	if err != nil {
		return persistence.Session{}, mapError(err)
	}
	if err := requireRowsAffected(result); err != nil {
		return persistence.Session{}, err
	}
	return r.GetSession(ctx, token)
}

// DeleteExpiredSessions prunes sessions whose expiry is at or before the
// reference time.
func (r *SessionRepository) DeleteExpiredSessions(ctx context.Context, reference time.Time) error {
	_, err := r.db.db.ExecContext(ctx,
		"DELETE FROM sessions WHERE expires_at <= ?", formatTime(reference))
	return mapError(err)
}

func scanSession(row rowScanner) (persistence.Session, error) {
	var (
		session              persistence.Session
		expiresAt            string
		createdAt, updatedAt string
		revokedAt            sql.NullString
	)
	err := row.Scan(
		&session.ID,
		&session.UserID,
		&session.Token,
		&expiresAt,
		&createdAt,
		&updatedAt,
		&revokedAt,
	)
	if err != nil {
		return persistence.Session{}, mapError(err)
	}
	if session.ExpiresAt, err = parseTime(expiresAt); err != nil {
		return persistence.Session{}, fmt.Errorf("session %s: %w", session.ID, err)
	}
	if session.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Session{}, fmt.Errorf("session %s: %w", session.ID, err)
	}
	if session.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Session{}, fmt.Errorf("session %s: %w", session.ID, err)
	}
	if session.RevokedAt, err = timePtr(revokedAt); err != nil {
		return persistence.Session{}, fmt.Errorf("session %s: %w", session.ID, err)
	}
	return session, nil
}
