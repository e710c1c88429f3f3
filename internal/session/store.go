package session

import (
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/admin-console/internal/config"
)

// Store persists the bearer credential in a client-readable cookie scoped to
// the whole site. The cookie lifetime is fixed by configuration and is
// independent of the credential's own exp claim.
type Store struct {
	name   string
	maxAge time.Duration
	secure bool
}

// NewStore builds a cookie-backed session store. secure should be true
// outside local development.
func NewStore(cfg config.CookieConfig, secure bool) *Store {
	return &Store{
		name:   cfg.Name,
		maxAge: cfg.MaxAge(),
		secure: secure,
	}
}

// Set writes the credential into the session slot.
func (s *Store) Set(c *fiber.Ctx, credential string) {
	c.Cookie(&fiber.Cookie{
		Name:     s.name,
		Value:    credential,
		Path:     "/",
		MaxAge:   int(s.maxAge.Seconds()),
		Expires:  time.Now().Add(s.maxAge),
		Secure:   s.secure,
		HTTPOnly: false, // intentionally client-readable
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

// Get returns the stored credential, undoing URL encoding some clients apply
// to cookie values.
func (s *Store) Get(c *fiber.Ctx) (string, bool) {
	raw := c.Cookies(s.name)
	if raw == "" {
		return "", false
	}
	if strings.Contains(raw, "%") {
		if decoded, err := url.QueryUnescape(raw); err == nil {
			raw = decoded
		}
	}
	return raw, true
}

// Clear overwrites the slot with an immediately-expired empty value. Writing
// an expired cookie survives partial failures in deletion pathways that
// removing the cookie outright would not.
func (s *Store) Clear(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     s.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   s.secure,
		HTTPOnly: false,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

// Name exposes the cookie name for handlers that need it in responses.
func (s *Store) Name() string {
	return s.name
}
