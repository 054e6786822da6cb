package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/helpdesk-app/helpdesk/internal/api/dto"
	"github.com/helpdesk-app/helpdesk/internal/auth"
	"github.com/helpdesk-app/helpdesk/internal/service"
	apperrors "github.com/helpdesk-app/helpdesk/pkg/util"
)

// AuthHandler exposes registration, login and logout.
type AuthHandler struct {
	auth    *service.AuthService
	cookies *auth.SessionCookies
	logger  *zap.Logger
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, cookies *auth.SessionCookies, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: authService, cookies: cookies, logger: logger}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return failResult(c, http.StatusBadRequest, "All fields are required")
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return failResult(c, http.StatusBadRequest, "All fields are required")
	}

	outcome, err := h.auth.RegisterUser(c.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return h.normalize(c, err, "Something went wrong, please try again")
	}

	// Benign duplicate: the account exists, nothing was created and the
	// caller's current session (if any) is left untouched.
	if outcome.ExistingEmail {
		return c.JSON(dto.ActionResult{Success: true, Message: "User already exists"})
	}

	h.cookies.Set(c, outcome.Token)
	return c.Status(http.StatusCreated).JSON(dto.ActionResult{Success: true, Message: "User successfully registered"})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return failResult(c, http.StatusBadRequest, "Email and password are required")
	}
	if req.Email == "" || req.Password == "" {
		return failResult(c, http.StatusBadRequest, "Email and password are required")
	}

	_, token, err := h.auth.LoginUser(c.Context(), req.Email, req.Password)
	if err != nil {
		return h.normalize(c, err, "Error during login")
	}

	h.cookies.Set(c, token)
	return c.JSON(dto.ActionResult{Success: true, Message: "Login successful"})
}

// Logout handles POST /auth/logout. Clearing is unconditional and idempotent.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.cookies.Clear(c)
	return c.JSON(dto.ActionResult{Success: true, Message: "Logout successful"})
}

// normalize maps an error into the uniform result. Domain errors keep their
// message; anything internal is logged and replaced by the generic one.
func (h *AuthHandler) normalize(c *fiber.Ctx, err error, genericMsg string) error {
	domainErr := apperrors.ToDomainError(err)
	if domainErr.HTTPStatus >= 500 {
		h.logger.Error("auth flow failed", zap.Error(domainErr))
		return failResult(c, domainErr.HTTPStatus, genericMsg)
	}
	return failResult(c, domainErr.HTTPStatus, domainErr.Message)
}

func failResult(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.ActionResult{Success: false, Message: message})
}
