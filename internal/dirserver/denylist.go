package dirserver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
)

const denylistPrefix = "admin:revoked:"

// TokenDenylist records logged-out credentials in Redis until they would
// have expired anyway. Tokens are keyed by digest so the raw credential is
// never stored.
type TokenDenylist struct {
	client *redis.Client
}

// NewTokenDenylist builds a denylist over the given client.
func NewTokenDenylist(client *redis.Client) *TokenDenylist {
	return &TokenDenylist{client: client}
}

// Revoke marks the credential invalid until its expiry.
func (d *TokenDenylist) Revoke(ctx context.Context, credential string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return d.client.Set(ctx, denylistPrefix+digest(credential), "1", ttl).Err()
}

// IsRevoked reports whether the credential was logged out.
func (d *TokenDenylist) IsRevoked(ctx context.Context, credential string) (bool, error) {
	count, err := d.client.Exists(ctx, denylistPrefix+digest(credential)).Result()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func digest(credential string) string {
	sum := sha256.Sum256([]byte(credential))
	return hex.EncodeToString(sum[:])
}
