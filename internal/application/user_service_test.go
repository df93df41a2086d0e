package application

import (
	"context"
	"errors"
	"testing"

	"github.com/tyrongower/Kinboard-sub000/internal/persistence"
)

func plaintextHasher(password string) (string, error) {
	return "hashed:" + password, nil
}

func newUserServiceFixture(t *testing.T, users ...persistence.User) (*UserService, *userRepositoryStub) {
	t.Helper()
	repo := newUserRepositoryStub(users...)
	svc := NewUserService(repo, plaintextHasher, sequenceIDs("user"), fixedClock(t, "2025-03-01T08:00:00Z"))
	return svc, repo
}

func TestUserService_CreateUser(t *testing.T) {
	t.Parallel()

	admin := Principal{UserID: "admin-1", IsAdmin: true}
	input := UserInput{
		Email:       "Dana@Example.com",
		DisplayName: "Dana",
		Password:    "correct horse",
		AvatarColor: "#336699",
	}

	t.Run("requires administrator privileges", func(t *testing.T) {
		t.Parallel()
		svc, _ := newUserServiceFixture(t)

		_, err := svc.CreateUser(context.Background(), CreateUserParams{
			Principal: Principal{UserID: "user-9"},
			Input:     input,
		})
		if !errors.Is(err, ErrUnauthorized) {
			t.Errorf("got %v, want ErrUnauthorized", err)
		}
	})

	t.Run("validates email format and required fields", func(t *testing.T) {
		t.Parallel()
		svc, _ := newUserServiceFixture(t)

		_, err := svc.CreateUser(context.Background(), CreateUserParams{
			Principal: admin,
			Input:     UserInput{Email: "not-an-email", Password: "short"},
		})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
		for _, field := range []string{"email", "display_name", "password"} {
			if vErr.FieldErrors[field] == "" {
				t.Errorf("missing validation for %s", field)
			}
		}
	})

	t.Run("persists users with hashed passwords and lowercased emails", func(t *testing.T) {
		t.Parallel()
		svc, repo := newUserServiceFixture(t)

		user, err := svc.CreateUser(context.Background(), CreateUserParams{Principal: admin, Input: input})
		if err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		if user.Email != "dana@example.com" {
			t.Errorf("email = %q", user.Email)
		}
		stored := repo.users[user.ID]
		if stored.PasswordHash != "hashed:correct horse" {
			t.Errorf("password hash = %q", stored.PasswordHash)
		}
	})

	t.Run("maps duplicate emails to ErrAlreadyExists", func(t *testing.T) {
		t.Parallel()
		svc, _ := newUserServiceFixture(t)

		if _, err := svc.CreateUser(context.Background(), CreateUserParams{Principal: admin, Input: input}); err != nil {
			t.Fatalf("first CreateUser failed: %v", err)
		}
		_, err := svc.CreateUser(context.Background(), CreateUserParams{Principal: admin, Input: input})
		if !errors.Is(err, ErrAlreadyExists) {
			t.Errorf("got %v, want ErrAlreadyExists", err)
		}
	})
}

func TestUserService_UpdateUser(t *testing.T) {
	t.Parallel()

	existing := persistence.User{
		ID:           "user-1",
		Email:        "dana@example.com",
		DisplayName:  "Dana",
		PasswordHash: "hashed:old",
	}

	t.Run("members may update themselves", func(t *testing.T) {
		t.Parallel()
		svc, repo := newUserServiceFixture(t, existing)

		user, err := svc.UpdateUser(context.Background(), UpdateUserParams{
			Principal: Principal{UserID: "user-1"},
			UserID:    "user-1",
			Input:     UserInput{Email: "dana@example.com", DisplayName: "Dana R.", AvatarColor: "#ff0000"},
		})
		if err != nil {
			t.Fatalf("UpdateUser failed: %v", err)
		}
		if user.DisplayName != "Dana R." {
			t.Errorf("display name = %q", user.DisplayName)
		}
		if repo.users["user-1"].PasswordHash != "hashed:old" {
			t.Errorf("password changed without a new one: %q", repo.users["user-1"].PasswordHash)
		}
	})

	t.Run("members may not update others", func(t *testing.T) {
		t.Parallel()
		svc, _ := newUserServiceFixture(t, existing)

		_, err := svc.UpdateUser(context.Background(), UpdateUserParams{
			Principal: Principal{UserID: "user-2"},
			UserID:    "user-1",
			Input:     UserInput{Email: "dana@example.com", DisplayName: "Dana"},
		})
		if !errors.Is(err, ErrUnauthorized) {
			t.Errorf("got %v, want ErrUnauthorized", err)
		}
	})

	t.Run("members may not grant themselves admin", func(t *testing.T) {
		t.Parallel()
		svc, _ := newUserServiceFixture(t, existing)

		_, err := svc.UpdateUser(context.Background(), UpdateUserParams{
			Principal: Principal{UserID: "user-1"},
			UserID:    "user-1",
			Input:     UserInput{Email: "dana@example.com", DisplayName: "Dana", IsAdmin: true},
		})
		if !errors.Is(err, ErrUnauthorized) {
			t.Errorf("got %v, want ErrUnauthorized", err)
		}
	})

	t.Run("rehashes when a new password is supplied", func(t *testing.T) {
		t.Parallel()
		svc, repo := newUserServiceFixture(t, existing)

		_, err := svc.UpdateUser(context.Background(), UpdateUserParams{
			Principal: Principal{UserID: "user-1"},
			UserID:    "user-1",
			Input:     UserInput{Email: "dana@example.com", DisplayName: "Dana", Password: "new password"},
		})
		if err != nil {
			t.Fatalf("UpdateUser failed: %v", err)
		}
		if repo.users["user-1"].PasswordHash != "hashed:new password" {
			t.Errorf("password hash = %q", repo.users["user-1"].PasswordHash)
		}
	})

	t.Run("propagates ErrNotFound when the user is missing", func(t *testing.T) {
		t.Parallel()
		svc, _ := newUserServiceFixture(t)

		_, err := svc.UpdateUser(context.Background(), UpdateUserParams{
			Principal: Principal{UserID: "admin-1", IsAdmin: true},
			UserID:    "missing",
			Input:     UserInput{Email: "x@example.com", DisplayName: "X"},
		})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("got %v, want ErrNotFound", err)
		}
	})
}

func TestUserService_DeleteUser(t *testing.T) {
	t.Parallel()

	existing := persistence.User{ID: "user-1", Email: "dana@example.com", DisplayName: "Dana"}

	t.Run("requires administrator privileges", func(t *testing.T) {
		t.Parallel()
		svc, _ := newUserServiceFixture(t, existing)

		err := svc.DeleteUser(context.Background(), Principal{UserID: "user-2"}, "user-1")
		if !errors.Is(err, ErrUnauthorized) {
			t.Errorf("got %v, want ErrUnauthorized", err)
		}
	})

	t.Run("administrators cannot delete themselves", func(t *testing.T) {
		t.Parallel()
		svc, _ := newUserServiceFixture(t, existing)

		err := svc.DeleteUser(context.Background(), Principal{UserID: "user-1", IsAdmin: true}, "user-1")
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Errorf("expected validation error, got %v", err)
		}
	})

	t.Run("removes the member", func(t *testing.T) {
		t.Parallel()
		svc, repo := newUserServiceFixture(t, existing)

		if err := svc.DeleteUser(context.Background(), Principal{UserID: "admin-1", IsAdmin: true}, "user-1"); err != nil {
			t.Fatalf("DeleteUser failed: %v", err)
		}
		if _, ok := repo.users["user-1"]; ok {
			t.Errorf("user still present")
		}
	})
}

func TestVerifyPassword(t *testing.T) {
	t.Parallel()

	hash, err := CreatePasswordHash("correct horse", DefaultArgon2idParams)
	if err != nil {
		t.Fatalf("CreatePasswordHash failed: %v", err)
	}

	if err := VerifyPassword(hash, "correct horse"); err != nil {
		t.Errorf("valid password rejected: %v", err)
	}
	if err := VerifyPassword(hash, "battery staple"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("got %v, want ErrInvalidCredentials", err)
	}
	if err := VerifyPassword("not-a-hash", "x"); !errors.Is(err, ErrInvalidPasswordHash) {
		t.Errorf("got %v, want ErrInvalidPasswordHash", err)
	}
}
