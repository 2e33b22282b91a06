package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/userhub/user-service/internal/core/domain"
	"github.com/userhub/user-service/internal/core/ports"
)

const identityTTL = 30 * time.Second

// IdentityCache decorates a UserRepository with a short-lived read-through
// cache for the per-request identity lookup done by the auth middleware.
// Key format: identity:<username>. Entries are evicted on delete; the TTL
// bounds staleness for writes the cache never sees.
type IdentityCache struct {
	ports.UserRepository
	client *redis.Client
}

// NewIdentityCache wraps repo with a Redis-backed cache. Only GetByUsername
// and DeleteByUsername change behaviour; everything else passes through.
func NewIdentityCache(repo ports.UserRepository, client *redis.Client) *IdentityCache {
	return &IdentityCache{UserRepository: repo, client: client}
}

func (c *IdentityCache) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	key := c.key(username)

	if payload, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var user domain.User
		if err := json.Unmarshal(payload, &user); err == nil {
			return &user, nil
		}
		// Corrupt entry: drop it and fall through to the repository.
		_ = c.client.Del(ctx, key).Err()
	} else if !errors.Is(err, redis.Nil) {
		// Cache unavailable must never fail the request.
		return c.UserRepository.GetByUsername(ctx, username)
	}

	user, err := c.UserRepository.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = c.client.Set(ctx, key, payload, identityTTL).Err()
	}
	return user, nil
}

func (c *IdentityCache) DeleteByUsername(ctx context.Context, username string) error {
	if err := c.UserRepository.DeleteByUsername(ctx, username); err != nil {
		return err
	}
	_ = c.client.Del(ctx, c.key(username)).Err()
	return nil
}

func (c *IdentityCache) key(username string) string {
	return fmt.Sprintf("identity:%s", username)
}
