package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tyrongower/Kinboard-sub000/internal/persistence"
)

func plaintextVerifier(hashedPassword, password string) error {
	if hashedPassword != password {
		return ErrInvalidCredentials
	}
	return nil
}

func tokenSequence(tokens ...string) func() string {
	remaining := tokens
	return func() string {
		if len(remaining) == 0 {
			return "fallback"
		}
		token := remaining[0]
		remaining = remaining[1:]
		return token
	}
}

func TestAuthService_Authenticate(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	member := persistence.User{ID: "user-1", Email: "dana@example.com", PasswordHash: "secret"}

	t.Run("issues sessions for valid credentials", func(t *testing.T) {
		t.Parallel()

		users := newUserRepositoryStub(member)
		sessions := newSessionRepositoryStub()
		svc := NewAuthService(users, sessions, plaintextVerifier,
			tokenSequence("session-id", "session-token"),
			func() time.Time { return now }, time.Hour)

		result, err := svc.Authenticate(context.Background(), AuthenticateParams{Email: "Dana@Example.com", Password: "secret"})
		if err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}
		if result.Session.Token != "session-token" {
			t.Errorf("token = %q", result.Session.Token)
		}
		if result.User.ID != "user-1" {
			t.Errorf("user = %q", result.User.ID)
		}
		if !result.Session.ExpiresAt.Equal(now.Add(time.Hour)) {
			t.Errorf("expires at = %v", result.Session.ExpiresAt)
		}
		if len(sessions.deleteCalls) != 1 || !sessions.deleteCalls[0].Equal(now) {
			t.Errorf("expected expired-session pruning at %v, got %#v", now, sessions.deleteCalls)
		}
	})

	t.Run("rejects unknown emails with sentinel error", func(t *testing.T) {
		t.Parallel()

		svc := NewAuthService(newUserRepositoryStub(), newSessionRepositoryStub(), plaintextVerifier, nil, nil, time.Hour)
		_, err := svc.Authenticate(context.Background(), AuthenticateParams{Email: "nobody@example.com", Password: "secret"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("got %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("rejects wrong passwords with sentinel error", func(t *testing.T) {
		t.Parallel()

		svc := NewAuthService(newUserRepositoryStub(member), newSessionRepositoryStub(), plaintextVerifier, nil, nil, time.Hour)
		_, err := svc.Authenticate(context.Background(), AuthenticateParams{Email: "dana@example.com", Password: "wrong"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("got %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("rejects empty credentials", func(t *testing.T) {
		t.Parallel()

		svc := NewAuthService(newUserRepositoryStub(member), newSessionRepositoryStub(), plaintextVerifier, nil, nil, time.Hour)
		_, err := svc.Authenticate(context.Background(), AuthenticateParams{Email: "dana@example.com"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("got %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("propagates repository failures", func(t *testing.T) {
		t.Parallel()

		expected := errors.New("boom")
		sessions := newSessionRepositoryStub()
		sessions.createErr = expected
		svc := NewAuthService(newUserRepositoryStub(member), sessions, plaintextVerifier,
			tokenSequence("id", "token"), func() time.Time { return now }, time.Hour)

		_, err := svc.Authenticate(context.Background(), AuthenticateParams{Email: "dana@example.com", Password: "secret"})
		if !errors.Is(err, expected) {
			t.Errorf("got %v, want %v", err, expected)
		}
	})
}

func TestAuthService_RefreshSession(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	member := persistence.User{ID: "user-1", Email: "dana@example.com", PasswordHash: "secret"}

	seedSession := func(t *testing.T, sessions *sessionRepositoryStub, expiresAt time.Time, revokedAt *time.Time) {
		t.Helper()
		_, err := sessions.CreateSession(context.Background(), persistence.Session{
			ID:        "session-1",
			UserID:    "user-1",
			Token:     "old-token",
			ExpiresAt: expiresAt,
			CreatedAt: now.Add(-time.Hour),
			UpdatedAt: now.Add(-time.Hour),
			RevokedAt: revokedAt,
		})
		if err != nil {
			t.Fatalf("seed session: %v", err)
		}
	}

	t.Run("rotates the token and extends the window", func(t *testing.T) {
		t.Parallel()

		sessions := newSessionRepositoryStub()
		seedSession(t, sessions, now.Add(time.Hour), nil)
		svc := NewAuthService(newUserRepositoryStub(member), sessions, plaintextVerifier,
			tokenSequence("new-token"), func() time.Time { return now }, 2*time.Hour)

		result, err := svc.RefreshSession(context.Background(), RefreshSessionParams{Token: "old-token"})
		if err != nil {
			t.Fatalf("RefreshSession failed: %v", err)
		}
		if result.Session.Token != "new-token" {
			t.Errorf("token = %q", result.Session.Token)
		}
		if !result.Session.ExpiresAt.Equal(now.Add(2 * time.Hour)) {
			t.Errorf("expires at = %v", result.Session.ExpiresAt)
		}
		if _, err := sessions.GetSession(context.Background(), "old-token"); !errors.Is(err, persistence.ErrNotFound) {
			t.Errorf("old token still resolves: %v", err)
		}
	})

	t.Run("rejects expired sessions", func(t *testing.T) {
		t.Parallel()

		sessions := newSessionRepositoryStub()
		seedSession(t, sessions, now.Add(-time.Minute), nil)
		svc := NewAuthService(newUserRepositoryStub(member), sessions, plaintextVerifier,
			nil, func() time.Time { return now }, time.Hour)

		_, err := svc.RefreshSession(context.Background(), RefreshSessionParams{Token: "old-token"})
		if !errors.Is(err, ErrSessionExpired) {
			t.Errorf("got %v, want ErrSessionExpired", err)
		}
	})

	t.Run("rejects revoked sessions", func(t *testing.T) {
		t.Parallel()

		revokedAt := now.Add(-time.Minute)
		sessions := newSessionRepositoryStub()
		seedSession(t, sessions, now.Add(time.Hour), &revokedAt)
		svc := NewAuthService(newUserRepositoryStub(member), sessions, plaintextVerifier,
			nil, func() time.Time { return now }, time.Hour)

		_, err := svc.RefreshSession(context.Background(), RefreshSessionParams{Token: "old-token"})
		if !errors.Is(err, ErrSessionRevoked) {
			t.Errorf("got %v, want ErrSessionRevoked", err)
		}
	})

	t.Run("rejects unknown tokens with sentinel error", func(t *testing.T) {
		t.Parallel()

		svc := NewAuthService(newUserRepositoryStub(member), newSessionRepositoryStub(), plaintextVerifier,
			nil, func() time.Time { return now }, time.Hour)

		_, err := svc.RefreshSession(context.Background(), RefreshSessionParams{Token: "missing"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("got %v, want ErrInvalidCredentials", err)
		}
	})
}

func TestAuthService_ValidateSession(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	admin := persistence.User{ID: "user-1", Email: "dana@example.com", IsAdmin: true}

	t.Run("returns the principal for an active session", func(t *testing.T) {
		t.Parallel()

		sessions := newSessionRepositoryStub()
		_, err := sessions.CreateSession(context.Background(), persistence.Session{
			ID: "session-1", UserID: "user-1", Token: "token", ExpiresAt: now.Add(time.Hour),
		})
		if err != nil {
			t.Fatalf("seed session: %v", err)
		}
		svc := NewAuthService(newUserRepositoryStub(admin), sessions, plaintextVerifier,
			nil, func() time.Time { return now }, time.Hour)

		principal, err := svc.ValidateSession(context.Background(), "token")
		if err != nil {
			t.Fatalf("ValidateSession failed: %v", err)
		}
		if principal.UserID != "user-1" || !principal.IsAdmin {
			t.Errorf("principal = %+v", principal)
		}
	})

	t.Run("maps unknown tokens to ErrUnauthorized", func(t *testing.T) {
		t.Parallel()

		svc := NewAuthService(newUserRepositoryStub(admin), newSessionRepositoryStub(), plaintextVerifier,
			nil, func() time.Time { return now }, time.Hour)

		_, err := svc.ValidateSession(context.Background(), "missing")
		if !errors.Is(err, ErrUnauthorized) {
			t.Errorf("got %v, want ErrUnauthorized", err)
		}
	})

	t.Run("maps deleted users to ErrUnauthorized", func(t *testing.T) {
		t.Parallel()

		sessions := newSessionRepositoryStub()
		_, err := sessions.CreateSession(context.Background(), persistence.Session{
			ID: "session-1", UserID: "ghost", Token: "token", ExpiresAt: now.Add(time.Hour),
		})
		if err != nil {
			t.Fatalf("seed session: %v", err)
		}
		svc := NewAuthService(newUserRepositoryStub(admin), sessions, plaintextVerifier,
			nil, func() time.Time { return now }, time.Hour)

		_, err = svc.ValidateSession(context.Background(), "token")
		if !errors.Is(err, ErrUnauthorized) {
			t.Errorf("got %v, want ErrUnauthorized", err)
		}
	})
}

func TestAuthService_RevokeSession(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	member := persistence.User{ID: "user-1", Email: "dana@example.com"}

	t.Run("revokes and prunes", func(t *testing.T) {
		t.Parallel()

		sessions := newSessionRepositoryStub()
		_, err := sessions.CreateSession(context.Background(), persistence.Session{
			ID: "session-1", UserID: "user-1", Token: "token", ExpiresAt: now.Add(time.Hour),
		})
		if err != nil {
			t.Fatalf("seed session: %v", err)
		}
		svc := NewAuthService(newUserRepositoryStub(member), sessions, plaintextVerifier,
			nil, func() time.Time { return now }, time.Hour)

		if err := svc.RevokeSession(context.Background(), "token"); err != nil {
			t.Fatalf("RevokeSession failed: %v", err)
		}
		got, err := sessions.GetSession(context.Background(), "token")
		if err != nil {
			t.Fatalf("get session: %v", err)
		}
		if got.RevokedAt == nil {
			t.Errorf("session not revoked")
		}
		if len(sessions.deleteCalls) != 1 {
			t.Errorf("expected one pruning call, got %d", len(sessions.deleteCalls))
		}
	})

	t.Run("maps unknown tokens to ErrInvalidCredentials", func(t *testing.T) {
		t.Parallel()

		svc := NewAuthService(newUserRepositoryStub(member), newSessionRepositoryStub(), plaintextVerifier,
			nil, func() time.Time { return now }, time.Hour)

		if err := svc.RevokeSession(context.Background(), "missing"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("got %v, want ErrInvalidCredentials", err)
		}
	})
}
