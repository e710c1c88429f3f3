package dirserver

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/admin-console/internal/domain"
	apperrors "github.com/spec-kit/admin-console/pkg/util"
)

const principalKey = "auth_principal"
const credentialKey = "auth_credential"

// AuthMiddleware verifies bearer tokens and loads the live account. Unlike
// the console gate, this path checks the signature, expiry and the logout
// denylist.
type AuthMiddleware struct {
	service *Service
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(service *Service) *AuthMiddleware {
	return &AuthMiddleware{service: service}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	staff, err := m.service.VerifyCredential(c.UserContext(), parts[1])
	if err != nil {
		return err
	}

	c.Locals(principalKey, staff)
	c.Locals(credentialKey, parts[1])
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated staff account.
func PrincipalFromContext(c *fiber.Ctx) (*domain.Staff, bool) {
	staff, ok := c.Locals(principalKey).(*domain.Staff)
	return staff, ok
}

// CredentialFromContext retrieves the raw bearer token.
func CredentialFromContext(c *fiber.Ctx) (string, bool) {
	credential, ok := c.Locals(credentialKey).(string)
	return credential, ok && credential != ""
}
