package revocation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "arv"

// Redis is a [Store] backed by a shared Redis deployment, for hosts that run
// more than one process against the same token population. Each entry is a
// key with a TTL equal to the token's remaining natural lifetime, so Redis
// itself performs reclamation and SweepExpired has nothing to do.
type Redis struct {
	redis  redis.UniversalClient
	prefix string
}

// NewRedis returns a Redis-backed store. prefix namespaces the keys and
// defaults when empty. The client is owned by the caller and is not closed
// by [Redis.Close].
func NewRedis(client redis.UniversalClient, prefix string) *Redis {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &Redis{
		redis:  client,
		prefix: prefix,
	}
}

func (r *Redis) key(tokenID string) string {
	return r.prefix + ":" + tokenID
}

// Revoke stores tokenID with a TTL matching its natural expiry. Tokens
// already past expiry need no entry. Idempotent: re-revoking overwrites the
// entry with an equivalent one.
func (r *Redis) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}

	if err := r.redis.Set(ctx, r.key(tokenID), 1, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRevocationUnavailable, err)
	}

	return nil
}

// IsRevoked reports whether an entry for tokenID still exists. Expiry is
// enforced by the key TTL.
func (r *Redis) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.redis.Exists(ctx, r.key(tokenID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %v", ErrRevocationUnavailable, err)
	}

	return n > 0, nil
}

// SweepExpired is a no-op: Redis reclaims entries through key TTLs.
func (r *Redis) SweepExpired(context.Context) (int, error) {
	return 0, nil
}

// Close is a no-op; the Redis client belongs to the caller.
func (r *Redis) Close() error {
	return nil
}
