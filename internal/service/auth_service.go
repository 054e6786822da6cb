package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/helpdesk-app/helpdesk/internal/auth"
	"github.com/helpdesk-app/helpdesk/internal/config"
	"github.com/helpdesk-app/helpdesk/internal/domain"
	"github.com/helpdesk-app/helpdesk/internal/events"
	"github.com/helpdesk-app/helpdesk/internal/repository"
	apperrors "github.com/helpdesk-app/helpdesk/pkg/util"
)

// RegisterOutcome reports what registration did. ExistingEmail marks the
// benign duplicate path: the account already existed, nothing was created
// and no session token was issued.
type RegisterOutcome struct {
	User          *domain.User
	Token         string
	ExistingEmail bool
}

// AuthService coordinates registration and login flows.
type AuthService struct {
	users                repository.UserRepository
	tokens               *auth.TokenManager
	dispatcher           events.Dispatcher
	bcryptCost           int
	duplicateEmailBenign bool
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Tokens     *auth.TokenManager
	Dispatcher events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:                deps.UserRepo,
		tokens:               deps.Tokens,
		dispatcher:           deps.Dispatcher,
		bcryptCost:           cfg.BcryptCost,
		duplicateEmailBenign: cfg.DuplicateEmailBenign,
	}
}

// RegisterUser creates a new account and issues a session token. When the
// email is already taken the behavior is policy-controlled: the default
// treats it as a benign no-op (matching the legacy flow), the strict policy
// returns a conflict. Neither creates a duplicate row or issues a token.
func (s *AuthService) RegisterUser(ctx context.Context, name, email, password string) (*RegisterOutcome, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		if s.duplicateEmailBenign {
			return &RegisterOutcome{ExistingEmail: true}, nil
		}
		return nil, apperrors.NewConflict("Email is already registered", nil)
	} else if err != pgx.ErrNoRows {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	token, _, err := s.tokens.Sign(user.ID)
	if err != nil {
		return nil, err
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:   events.EventUserRegistered,
		UserID: user.ID,
		Payload: events.UserRegisteredPayload{
			Email: user.Email,
			Name:  user.Name,
		},
	})

	return &RegisterOutcome{User: user, Token: token}, nil
}

// LoginUser authenticates by email and password. Unknown email, missing
// stored hash and password mismatch all collapse into the same
// invalid-credentials error so the response never reveals which was wrong.
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", apperrors.NewInvalidCredentials("Invalid email or password")
		}
		return nil, "", err
	}
	if user.PasswordHash == "" {
		return nil, "", apperrors.NewInvalidCredentials("Invalid email or password")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", apperrors.NewInvalidCredentials("Invalid email or password")
	}

	token, _, err := s.tokens.Sign(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}
