package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const revocationKeyPrefix = "auth:revoked:"

// RevocationList is a Redis-backed denylist of user IDs whose tokens must no
// longer be accepted. Entries expire with the token window, so the list stays
// bounded. A nil list disables revocation entirely.
type RevocationList struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRevocationList wraps a Redis client. Returns nil when client is nil so
// callers can treat an unconfigured Redis as revocation-disabled.
func NewRevocationList(client *redis.Client, logger *zap.Logger) *RevocationList {
	if client == nil {
		return nil
	}
	return &RevocationList{client: client, logger: logger}
}

// Revoke denylists a user id for the given window.
func (r *RevocationList) Revoke(ctx context.Context, userID string, ttl time.Duration) error {
	if r == nil {
		return nil
	}
	return r.client.Set(ctx, revocationKeyPrefix+userID, "1", ttl).Err()
}

// IsRevoked reports whether the user id is denylisted. Redis failures fail
// open: the check logs and reports not revoked.
func (r *RevocationList) IsRevoked(ctx context.Context, userID string) bool {
	if r == nil {
		return false
	}
	n, err := r.client.Exists(ctx, revocationKeyPrefix+userID).Result()
	if err != nil {
		if r.logger != nil {
			r.logger.Warn("revocation check failed", zap.Error(err))
		}
		return false
	}
	return n > 0
}
