package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// CookieName is the session cookie carrying the signed token.
const CookieName = "auth-token"

// SessionCookies writes, reads and clears the auth cookie. The cookie is
// HTTP-only, SameSite=Lax, path-scoped to the whole application and Secure
// in production deployments.
type SessionCookies struct {
	secure bool
	maxAge time.Duration
}

// NewSessionCookies builds the manager. maxAge bounds the cookie lifetime and
// matches the token TTL.
func NewSessionCookies(secure bool, maxAge time.Duration) *SessionCookies {
	if maxAge <= 0 {
		maxAge = 168 * time.Hour
	}
	return &SessionCookies{secure: secure, maxAge: maxAge}
}

// Set writes the session cookie, overwriting any existing one.
func (s *SessionCookies) Set(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.maxAge.Seconds()),
		Expires:  time.Now().Add(s.maxAge),
		HTTPOnly: true,
		Secure:   s.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// Get returns the raw cookie value. Absence is not an error.
func (s *SessionCookies) Get(c *fiber.Ctx) (string, bool) {
	token := c.Cookies(CookieName)
	if token == "" {
		return "", false
	}
	return token, true
}

// Clear deletes the session cookie. No-op if it was already absent.
func (s *SessionCookies) Clear(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   s.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
