package token

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueDecodeRoundTrip(t *testing.T) {
	codec := NewCodec("test-secret", time.Hour)

	credential, expiresAt, err := codec.Issue(42, "jdoe", "Jane Doe")
	require.NoError(t, err)
	require.NotEmpty(t, credential)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, ok := codec.Decode(credential)
	require.True(t, ok)
	assert.Equal(t, int64(42), claims.ID)
	assert.Equal(t, "jdoe", claims.Username)
	assert.Equal(t, "Jane Doe", claims.Name)
	require.NotNil(t, claims.ExpiresAt)
	assert.False(t, claims.ExpiredAt(time.Now()))
}

func TestDecodeMalformedInput(t *testing.T) {
	codec := NewCodec("test-secret", time.Hour)

	for _, credential := range []string{
		"",
		"not-a-token",
		"a.b",
		"a.b.c",
		"header.!!!.signature",
	} {
		claims, ok := codec.Decode(credential)
		assert.False(t, ok, "credential %q should not decode", credential)
		assert.Nil(t, claims)
	}
}

func TestDecodeMissingIdentityClaims(t *testing.T) {
	codec := NewCodec("test-secret", time.Hour)

	// A structurally valid token without id or username claims.
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "someone",
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	claims, ok := codec.Decode(signed)
	assert.False(t, ok)
	assert.Nil(t, claims)
}

func TestDecodeIgnoresSignature(t *testing.T) {
	codec := NewCodec("test-secret", time.Hour)
	credential, _, err := codec.Issue(1, "mock", "Admin User")
	require.NoError(t, err)

	// Mangle the signature segment. Decode still admits the claims, only
	// ParseVerified rejects the token.
	parts := strings.Split(credential, ".")
	require.Len(t, parts, 3)
	parts[2] = base64.RawURLEncoding.EncodeToString([]byte("forged"))
	tampered := strings.Join(parts, ".")

	claims, ok := codec.Decode(tampered)
	require.True(t, ok)
	assert.Equal(t, int64(1), claims.ID)

	_, err = codec.ParseVerified(tampered)
	assert.Error(t, err)
}

func TestDecodeNameFallsBackToUsername(t *testing.T) {
	codec := NewCodec("test-secret", time.Hour)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       float64(7),
		"username": "noname",
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	claims, ok := codec.Decode(signed)
	require.True(t, ok)
	assert.Equal(t, "noname", claims.Name)
}

func TestDecodeExpiredTokenStillDecodes(t *testing.T) {
	codec := NewCodec("test-secret", -time.Hour)
	credential, _, err := codec.Issue(5, "stale", "Stale User")
	require.NoError(t, err)

	claims, ok := codec.Decode(credential)
	require.True(t, ok)
	assert.True(t, claims.ExpiredAt(time.Now()))

	_, err = codec.ParseVerified(credential)
	assert.Error(t, err)
}

func TestParseVerifiedAcceptsOwnTokens(t *testing.T) {
	codec := NewCodec("test-secret", time.Hour)
	credential, _, err := codec.Issue(9, "verify", "Verify Me")
	require.NoError(t, err)

	claims, err := codec.ParseVerified(credential)
	require.NoError(t, err)
	assert.Equal(t, int64(9), claims.ID)
	assert.Equal(t, "verify", claims.Username)
}

func TestParseVerifiedRejectsOtherSecret(t *testing.T) {
	issuer := NewCodec("secret-a", time.Hour)
	verifier := NewCodec("secret-b", time.Hour)

	credential, _, err := issuer.Issue(3, "cross", "Cross Signed")
	require.NoError(t, err)

	_, err = verifier.ParseVerified(credential)
	assert.Error(t, err)

	// The unverified decode path accepts it regardless.
	_, ok := verifier.Decode(credential)
	assert.True(t, ok)
}
