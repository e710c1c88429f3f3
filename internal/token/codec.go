package token

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Claims is the identity payload carried by a credential.
type Claims struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	jwt.RegisteredClaims
}

// ExpiredAt reports whether the exp claim has elapsed at the given instant.
// A missing exp claim counts as not expired.
func (c *Claims) ExpiredAt(now time.Time) bool {
	if c.ExpiresAt == nil {
		return false
	}
	return now.After(c.ExpiresAt.Time)
}

// Codec issues and decodes bearer credentials.
//
// Decode deliberately skips signature verification: the console only uses
// claims for routing and display, and the directory service re-validates the
// token on every data-bearing call.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec builds a codec signing with the given secret.
func NewCodec(secret string, ttl time.Duration) *Codec {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Codec{secret: []byte(secret), ttl: ttl}
}

// Issue signs a credential for the identity.
func (c *Codec) Issue(id int64, username, name string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(c.ttl)
	claims := &Claims{
		ID:       id,
		Username: username,
		Name:     name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Decode extracts claims without verifying the signature. It never returns
// an error: malformed input, or a payload missing the id or username claim,
// collapses to (nil, false) and the caller treats the session as absent.
func (c *Codec) Decode(credential string) (*Claims, bool) {
	if credential == "" {
		return nil, false
	}

	claims := &Claims{}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	if _, _, err := parser.ParseUnverified(credential, claims); err != nil {
		return nil, false
	}
	if claims.ID == 0 || claims.Username == "" {
		return nil, false
	}
	if claims.Name == "" {
		claims.Name = claims.Username
	}
	return claims, true
}

// ParseVerified validates the signature and standard claims. The directory
// service uses this on every protected call.
func (c *Codec) ParseVerified(credential string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(credential, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return c.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.ID == 0 || claims.Username == "" {
		return nil, errors.New("missing identity claims")
	}
	return claims, nil
}
