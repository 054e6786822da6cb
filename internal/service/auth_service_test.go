package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/helpdesk-app/helpdesk/internal/auth"
	"github.com/helpdesk-app/helpdesk/internal/config"
	"github.com/helpdesk-app/helpdesk/internal/domain"
	apperrors "github.com/helpdesk-app/helpdesk/pkg/util"
)

const testSecret = "test-secret-key-at-least-32-chars-long"

func newAuthTestService(t *testing.T, benign bool) (*AuthService, *fakeUserRepo, *auth.TokenManager) {
	t.Helper()
	tokens, err := auth.NewTokenManager(testSecret, 168*time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager() error = %v", err)
	}
	repo := newFakeUserRepo()
	cfg := config.AuthConfig{
		JWTSecret:            testSecret,
		BcryptCost:           bcrypt.MinCost,
		DuplicateEmailBenign: benign,
	}
	svc := NewAuthService(cfg, AuthDependencies{UserRepo: repo, Tokens: tokens})
	return svc, repo, tokens
}

func TestRegisterUser_CreatesUserOnce(t *testing.T) {
	svc, repo, tokens := newAuthTestService(t, true)
	ctx := context.Background()

	outcome, err := svc.RegisterUser(ctx, "Alice", "a@x.com", "pw123")
	if err != nil {
		t.Fatalf("RegisterUser() error = %v", err)
	}
	if outcome.ExistingEmail {
		t.Fatal("fresh email reported as existing")
	}
	if outcome.User == nil || outcome.User.ID == 0 {
		t.Fatal("RegisterUser() did not create a user")
	}
	if len(repo.users) != 1 {
		t.Fatalf("user count = %d, want 1", len(repo.users))
	}

	stored := repo.users[outcome.User.ID]
	if stored.PasswordHash == "pw123" || stored.PasswordHash == "" {
		t.Error("password stored in plaintext or not at all")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("pw123")); err != nil {
		t.Errorf("stored hash does not match password: %v", err)
	}

	userID, err := tokens.Verify(outcome.Token)
	if err != nil {
		t.Fatalf("issued token failed verification: %v", err)
	}
	if userID != outcome.User.ID {
		t.Errorf("token userID = %d, want %d", userID, outcome.User.ID)
	}
}

func TestRegisterUser_DuplicateEmailBenign(t *testing.T) {
	svc, repo, _ := newAuthTestService(t, true)
	ctx := context.Background()

	first, err := svc.RegisterUser(ctx, "Alice", "a@x.com", "pw123")
	if err != nil {
		t.Fatalf("RegisterUser() error = %v", err)
	}

	second, err := svc.RegisterUser(ctx, "Alice2", "a@x.com", "pw999")
	if err != nil {
		t.Fatalf("second RegisterUser() error = %v", err)
	}
	if !second.ExistingEmail {
		t.Error("duplicate email not reported as existing")
	}
	if second.Token != "" {
		t.Error("duplicate registration issued a token")
	}
	if second.User != nil {
		t.Error("duplicate registration returned a user")
	}
	if len(repo.users) != 1 {
		t.Fatalf("user count = %d, want 1", len(repo.users))
	}
	if repo.users[first.User.ID].Name != "Alice" {
		t.Error("original user record was mutated")
	}
}

func TestRegisterUser_DuplicateEmailStrict(t *testing.T) {
	svc, repo, _ := newAuthTestService(t, false)
	ctx := context.Background()

	if _, err := svc.RegisterUser(ctx, "Alice", "a@x.com", "pw123"); err != nil {
		t.Fatalf("RegisterUser() error = %v", err)
	}

	_, err := svc.RegisterUser(ctx, "Alice2", "a@x.com", "pw999")
	if err == nil {
		t.Fatal("strict policy accepted a duplicate email")
	}
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "CONFLICT" {
		t.Errorf("error = %v, want CONFLICT", err)
	}
	if len(repo.users) != 1 {
		t.Fatalf("user count = %d, want 1", len(repo.users))
	}
}

func TestLoginUser(t *testing.T) {
	svc, repo, tokens := newAuthTestService(t, true)
	ctx := context.Background()

	if _, err := svc.RegisterUser(ctx, "Alice", "a@x.com", "pw123"); err != nil {
		t.Fatalf("RegisterUser() error = %v", err)
	}
	// Account without a stored hash, e.g. provisioned externally.
	repo.users[99] = &domain.User{ID: 99, Name: "Ghost", Email: "ghost@x.com"}

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  bool
	}{
		{name: "valid credentials", email: "a@x.com", password: "pw123", wantErr: false},
		{name: "unknown email", email: "nobody@x.com", password: "pw123", wantErr: true},
		{name: "wrong password", email: "a@x.com", password: "wrong", wantErr: true},
		{name: "no stored hash", email: "ghost@x.com", password: "anything", wantErr: true},
	}

	const wantMessage = "Invalid email or password"

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, token, err := svc.LoginUser(ctx, tt.email, tt.password)
			if (err != nil) != tt.wantErr {
				t.Fatalf("LoginUser() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				// All failure modes must be indistinguishable.
				var domainErr *apperrors.DomainError
				if !errors.As(err, &domainErr) {
					t.Fatalf("error = %v, want DomainError", err)
				}
				if domainErr.Code != "INVALID_CREDENTIALS" || domainErr.Message != wantMessage {
					t.Errorf("error = %q/%q, want INVALID_CREDENTIALS/%q", domainErr.Code, domainErr.Message, wantMessage)
				}
				return
			}

			userID, err := tokens.Verify(token)
			if err != nil {
				t.Fatalf("issued token failed verification: %v", err)
			}
			if userID != user.ID {
				t.Errorf("token userID = %d, want %d", userID, user.ID)
			}
		})
	}
}
