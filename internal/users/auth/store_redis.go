// Copyright (c) 2026 Prika. All rights reserved.
// Author: dev@prika.app

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/prikalab/prika/internal/platform/apperr"
	"github.com/prikalab/prika/internal/platform/constants"
)

// # Redis State Repository

// RedisStateRepository implements [StateRepository] backed by Redis.
//
// States are plain keys under the auth:oauth_state: prefix; the stored value
// is irrelevant, only presence and TTL matter.
type RedisStateRepository struct {
	client *redis.Client
}

// NewRedisStateRepository constructs a new [RedisStateRepository].
func NewRedisStateRepository(client *redis.Client) *RedisStateRepository {
	return &RedisStateRepository{client: client}
}

// Set stores a state token for a limited duration.
func (repository *RedisStateRepository) Set(ctx context.Context, state string, ttl time.Duration) error {
	key := constants.RedisPrefixOAuthState + state

	if err := repository.client.Set(ctx, key, "1", ttl).Err(); err != nil {
		return apperr.Persistence(fmt.Errorf("redis_state_repo_set_failed: %w", err))
	}

	return nil
}

// Consume atomically retrieves and deletes a state token via GETDEL, so a
// replayed callback can never redeem the same state twice.
func (repository *RedisStateRepository) Consume(ctx context.Context, state string) error {
	key := constants.RedisPrefixOAuthState + state

	err := repository.client.GetDel(ctx, key).Err()

	// Absent key: expired, already consumed, or never ours.
	if errors.Is(err, redis.Nil) {
		return apperr.Unauthorized("Login attempt expired or was not started by this server")
	}
	if err != nil {
		return apperr.Persistence(fmt.Errorf("redis_state_repo_consume_failed: %w", err))
	}

	return nil
}
