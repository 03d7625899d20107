package token

import (
	"context"

	"github.com/KirkDiggler/quest-forge/internal/errors"
	redisclient "github.com/KirkDiggler/quest-forge/internal/redis"
)

const revokedKeyPrefix = "auth:revoked:"

type redisRepository struct {
	client redisclient.Client
}

// RedisConfig contains configuration for the Redis token repository
type RedisConfig struct {
	Client redisclient.Client
}

// Validate validates the RedisConfig
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

// NewRedis creates a Redis-backed revocation list. Entries expire with the
// token so the list never grows past the live tokens.
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &redisRepository{client: cfg.Client}, nil
}

func (r *redisRepository) Revoke(ctx context.Context, input RevokeInput) error {
	if input.TokenID == "" {
		return errors.InvalidArgument("token ID cannot be empty")
	}
	if input.TTL <= 0 {
		return nil
	}

	if err := r.client.Set(ctx, revokedKeyPrefix+input.TokenID, 1, input.TTL).Err(); err != nil {
		return errors.Persistence(err, "failed to revoke token")
	}
	return nil
}

func (r *redisRepository) IsRevoked(ctx context.Context, input IsRevokedInput) (bool, error) {
	if input.TokenID == "" {
		return false, errors.InvalidArgument("token ID cannot be empty")
	}

	n, err := r.client.Exists(ctx, revokedKeyPrefix+input.TokenID).Result()
	if err != nil {
		return false, errors.Persistence(err, "failed to check token")
	}
	return n > 0, nil
}
