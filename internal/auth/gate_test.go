package auth

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/admin-console/internal/config"
	"github.com/spec-kit/admin-console/internal/session"
	"github.com/spec-kit/admin-console/internal/token"
	apperrors "github.com/spec-kit/admin-console/pkg/util"
)

func newTestGate(t *testing.T, enforceExpiry bool) (*Gate, *token.Codec) {
	t.Helper()
	codec := token.NewCodec("gate-secret", time.Hour)
	store := session.NewStore(config.CookieConfig{Name: "adminToken", MaxAgeDays: 7}, false)
	return NewGate(codec, store, enforceExpiry), codec
}

func newGateApp(gate *Gate) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"error": domainErr.Message})
		},
	})
	app.Get("/login", gate.RedirectAuthenticated, func(c *fiber.Ctx) error {
		return c.SendString("login page")
	})
	app.Get("/admin/dashboard", gate.RequirePage, func(c *fiber.Ctx) error {
		record, _ := SessionFromContext(c)
		return c.JSON(record)
	})
	app.Get("/admin/staff/get-all", gate.RequireAPI, func(c *fiber.Ctx) error {
		credential, _ := CredentialFrom(c.UserContext())
		return c.SendString(credential)
	})
	return app
}

func withSession(t *testing.T, req *http.Request, codec *token.Codec, id int64, username string) string {
	t.Helper()
	credential, _, err := codec.Issue(id, username, username)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: "adminToken", Value: credential})
	return credential
}

func TestRequirePageRedirectsAnonymousToLogin(t *testing.T) {
	gate, _ := newTestGate(t, false)
	app := newGateApp(gate)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestRequirePageAdmitsValidSession(t *testing.T) {
	gate, codec := newTestGate(t, false)
	app := newGateApp(gate)

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	withSession(t, req, codec, 1, "mock")
	resp, err := app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequirePageRejectsGarbageCookie(t *testing.T) {
	gate, _ := newTestGate(t, false)
	app := newGateApp(gate)

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "adminToken", Value: "garbage"})
	resp, err := app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestRequireAPIReturns401WithoutSession(t *testing.T) {
	gate, _ := newTestGate(t, false)
	app := newGateApp(gate)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin/staff/get-all", nil))
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireAPIPropagatesCredentialToContext(t *testing.T) {
	gate, codec := newTestGate(t, false)
	app := newGateApp(gate)

	req := httptest.NewRequest(http.MethodGet, "/admin/staff/get-all", nil)
	credential := withSession(t, req, codec, 2, "staffmock")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, credential, string(body))
}

func TestRedirectAuthenticatedSendsToDashboard(t *testing.T) {
	gate, codec := newTestGate(t, false)
	app := newGateApp(gate)

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	withSession(t, req, codec, 1, "mock")
	resp, err := app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/admin/dashboard", resp.Header.Get("Location"))
}

func TestRedirectAuthenticatedPassesAnonymousThrough(t *testing.T) {
	gate, _ := newTestGate(t, false)
	app := newGateApp(gate)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/login", nil))
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestExpiredSessionAdmittedUnlessEnforced(t *testing.T) {
	expiredCodec := token.NewCodec("gate-secret", -time.Hour)
	store := session.NewStore(config.CookieConfig{Name: "adminToken", MaxAgeDays: 7}, false)

	// Default behavior mirrors decode-without-verify: the exp claim is not
	// checked when routing.
	lenient := NewGate(expiredCodec, store, false)
	app := newGateApp(lenient)
	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	withSession(t, req, expiredCodec, 1, "mock")
	resp, err := app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	strict := NewGate(expiredCodec, store, true)
	app = newGateApp(strict)
	req = httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	withSession(t, req, expiredCodec, 1, "mock")
	resp, err = app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
}

func TestCredentialContextRoundTrip(t *testing.T) {
	ctx := WithCredential(context.Background(), "cred")
	got, ok := CredentialFrom(ctx)
	require.True(t, ok)
	assert.Equal(t, "cred", got)

	_, ok = CredentialFrom(context.Background())
	assert.False(t, ok)
}
