package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"skillchain/pkg/domain"
	"skillchain/pkg/platform/sentinel"
)

const profileKeyPrefix = "ledger:issuer-profile:"

// ProfileCache stores issuer profiles read from the ledger.
// Error Contract: Get returns sentinel.ErrNotFound on a miss.
type ProfileCache interface {
	Get(ctx context.Context, issuer domain.Address) (*IssuerProfile, error)
	Set(ctx context.Context, issuer domain.Address, profile *IssuerProfile) error
}

// RedisProfileCache keeps issuer profiles in Redis with TTL eviction.
type RedisProfileCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisProfileCache(client *redis.Client, ttl time.Duration) *RedisProfileCache {
	return &RedisProfileCache{client: client, ttl: ttl}
}

func (c *RedisProfileCache) Get(ctx context.Context, issuer domain.Address) (*IssuerProfile, error) {
	data, err := c.client.Get(ctx, profileKey(issuer)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find issuer profile cache: %w", err)
	}
	var profile IssuerProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("decode issuer profile cache: %w", err)
	}
	return &profile, nil
}

func (c *RedisProfileCache) Set(ctx context.Context, issuer domain.Address, profile *IssuerProfile) error {
	if profile == nil {
		return fmt.Errorf("issuer profile is required")
	}
	payload, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode issuer profile cache: %w", err)
	}
	if err := c.client.Set(ctx, profileKey(issuer), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("save issuer profile cache: %w", err)
	}
	return nil
}

func profileKey(issuer domain.Address) string {
	return profileKeyPrefix + issuer.String()
}
