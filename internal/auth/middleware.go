package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/helpdesk-app/helpdesk/internal/domain"
	"github.com/helpdesk-app/helpdesk/internal/repository"
	apperrors "github.com/helpdesk-app/helpdesk/pkg/util"
)

const currentUserKey = "auth_current_user"

// SessionMiddleware is the single place that resolves the current session:
// cookie -> token verification -> user lookup.
type SessionMiddleware struct {
	tokens  *TokenManager
	cookies *SessionCookies
	users   repository.UserRepository
	logger  *zap.Logger
}

// NewSessionMiddleware constructs the resolver.
func NewSessionMiddleware(tokens *TokenManager, cookies *SessionCookies, users repository.UserRepository, logger *zap.Logger) *SessionMiddleware {
	return &SessionMiddleware{tokens: tokens, cookies: cookies, users: users, logger: logger}
}

// Resolve loads the current user into the request context when a valid
// session cookie is present. It never rejects the request: a missing,
// invalid or expired token simply leaves the request anonymous.
func (m *SessionMiddleware) Resolve(c *fiber.Ctx) error {
	token, ok := m.cookies.Get(c)
	if !ok {
		return c.Next()
	}

	userID, err := m.tokens.Verify(token)
	if err != nil {
		m.logger.Debug("session token rejected", zap.Error(err))
		return c.Next()
	}

	user, err := m.users.GetByID(c.Context(), userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Next()
		}
		return apperrors.MapError(err)
	}

	c.Locals(currentUserKey, user)
	return c.Next()
}

// RequireUser rejects requests without an authenticated session.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := CurrentUser(c); !ok {
			return apperrors.NewUnauthenticated("You must be logged in")
		}
		return c.Next()
	}
}

// CurrentUser retrieves the authenticated user, if any.
func CurrentUser(c *fiber.Ctx) (*domain.User, bool) {
	val := c.Locals(currentUserKey)
	if val == nil {
		return nil, false
	}
	user, ok := val.(*domain.User)
	return user, ok
}
