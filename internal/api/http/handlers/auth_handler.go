package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/admin-console/internal/api/dto"
	"github.com/spec-kit/admin-console/internal/auth"
	"github.com/spec-kit/admin-console/internal/service"
	"github.com/spec-kit/admin-console/internal/session"
	apperrors "github.com/spec-kit/admin-console/pkg/util"
)

// AuthHandler exposes the console login/logout flow and the protected landing.
type AuthHandler struct {
	authService *service.AuthService
	sessions    *session.Store
	validate    *validator.Validate
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(authService *service.AuthService, sessions *session.Store) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sessions:    sessions,
		validate:    validator.New(),
	}
}

// LoginPage handles GET /login. The gate has already redirected
// authenticated visitors to the dashboard.
func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	return c.JSON(dto.OK("Login to your admin account.", nil))
}

// Login handles POST /admin/auth/login: credential exchange plus cookie set.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.validate.Struct(req); err != nil {
		return apperrors.NewValidationError("username and password required", validationDetails(err))
	}

	result, err := h.authService.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}

	h.sessions.Set(c, result.Token)
	return c.JSON(dto.OK("Log in successful.", dto.LoginData{
		Token: result.Token,
		Staff: result.Staff.Sanitized(),
	}))
}

// Logout handles POST /admin/auth/logout. The remote call is best-effort;
// the cookie is always cleared.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if credential, ok := h.sessions.Get(c); ok {
		ctx = auth.WithCredential(ctx, credential)
	}
	h.authService.Logout(ctx)

	h.sessions.Clear(c)
	return c.JSON(dto.OK("Logged out successfully.", nil))
}

// Dashboard handles GET /admin/dashboard, the default protected landing.
func (h *AuthHandler) Dashboard(c *fiber.Ctx) error {
	record, ok := auth.SessionFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.JSON(dto.OK("Session active.", fiber.Map{"staff": record}))
}

// validationDetails flattens validator errors into per-field messages.
func validationDetails(err error) map[string]any {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}
	details := map[string]any{}
	for _, fieldErr := range errs {
		switch fieldErr.Tag() {
		case "required":
			details[fieldErr.Field()] = fieldErr.Field() + " is required"
		case "oneof":
			details[fieldErr.Field()] = fieldErr.Field() + " must be one of " + fieldErr.Param()
		default:
			details[fieldErr.Field()] = fieldErr.Field() + " is invalid"
		}
	}
	return details
}
