package auth

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/admin-console/internal/domain"
	"github.com/spec-kit/admin-console/internal/session"
	"github.com/spec-kit/admin-console/internal/token"
	apperrors "github.com/spec-kit/admin-console/pkg/util"
)

const sessionKey = "session_record"

type credentialCtxKey struct{}

// WithCredential stores the raw bearer credential for downstream directory calls.
func WithCredential(ctx context.Context, credential string) context.Context {
	return context.WithValue(ctx, credentialCtxKey{}, credential)
}

// CredentialFrom returns the bearer credential attached to the context.
func CredentialFrom(ctx context.Context) (string, bool) {
	credential, ok := ctx.Value(credentialCtxKey{}).(string)
	return credential, ok && credential != ""
}

// Gate decides per request whether a usable session exists. It trusts
// locally-decoded claims for routing only and never calls the directory;
// the directory re-validates the credential on every data-bearing call.
type Gate struct {
	codec         *token.Codec
	store         *session.Store
	enforceExpiry bool
	loginPath     string
	landingPath   string
}

// NewGate constructs the gate. enforceExpiry controls whether the exp claim
// is checked against the clock before admitting a session for routing.
func NewGate(codec *token.Codec, store *session.Store, enforceExpiry bool) *Gate {
	return &Gate{
		codec:         codec,
		store:         store,
		enforceExpiry: enforceExpiry,
		loginPath:     "/login",
		landingPath:   "/admin/dashboard",
	}
}

// resolve derives the Session Record from the stored credential, failing
// closed on anything malformed.
func (g *Gate) resolve(c *fiber.Ctx) (*domain.SessionRecord, string, bool) {
	credential, ok := g.store.Get(c)
	if !ok {
		return nil, "", false
	}
	claims, ok := g.codec.Decode(credential)
	if !ok {
		return nil, "", false
	}
	if g.enforceExpiry && claims.ExpiredAt(time.Now()) {
		return nil, "", false
	}
	record := &domain.SessionRecord{
		ID:       claims.ID,
		Username: claims.Username,
		Name:     claims.Name,
		Status:   string(domain.StaffStatusActive),
		Locked:   false,
	}
	return record, credential, true
}

func (g *Gate) admit(c *fiber.Ctx, record *domain.SessionRecord, credential string) {
	c.Locals(sessionKey, record)
	c.SetUserContext(WithCredential(c.UserContext(), credential))
}

// RequirePage gates browser-navigable areas: no session means a redirect to
// the login entry point, never an error page.
func (g *Gate) RequirePage(c *fiber.Ctx) error {
	record, credential, ok := g.resolve(c)
	if !ok {
		return c.Redirect(g.loginPath, fiber.StatusFound)
	}
	g.admit(c, record, credential)
	return c.Next()
}

// RequireAPI gates data endpoints: no session yields a 401 envelope, which
// the browser client turns into a login redirect.
func (g *Gate) RequireAPI(c *fiber.Ctx) error {
	record, credential, ok := g.resolve(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	g.admit(c, record, credential)
	return c.Next()
}

// RedirectAuthenticated performs the inverse redirect: an authenticated
// visitor of the login entry point lands on the default protected area.
func (g *Gate) RedirectAuthenticated(c *fiber.Ctx) error {
	if _, _, ok := g.resolve(c); ok {
		return c.Redirect(g.landingPath, fiber.StatusFound)
	}
	return c.Next()
}

// SessionFromContext retrieves the Session Record admitted by the gate.
func SessionFromContext(c *fiber.Ctx) (*domain.SessionRecord, bool) {
	record, ok := c.Locals(sessionKey).(*domain.SessionRecord)
	return record, ok
}
