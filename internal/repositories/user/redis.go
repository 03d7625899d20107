package user

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strings"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/quest-forge/internal/entities"
	"github.com/KirkDiggler/quest-forge/internal/errors"
	redisclient "github.com/KirkDiggler/quest-forge/internal/redis"
)

const (
	userKeyPrefix  = "user:"
	emailKeyPrefix = "user:email:"
)

type redisRepository struct {
	client redisclient.Client
}

// RedisConfig contains configuration for the Redis user repository
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

// NewRedis creates a Redis-backed user repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &redisRepository{client: cfg.Client}, nil
}

// NormalizeEmail lowercases and trims an address for indexing
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func userKey(id string) string { return userKeyPrefix + id }

func emailKey(email string) string { return emailKeyPrefix + NormalizeEmail(email) }

func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	u := input.User
	if u == nil {
		return nil, errors.InvalidArgument("user cannot be nil")
	}
	if u.ID == "" {
		return nil, errors.InvalidArgument("user ID cannot be empty")
	}
	if NormalizeEmail(u.Email) == "" {
		return nil, errors.InvalidArgument("email cannot be empty")
	}

	data, err := json.Marshal(u)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal user")
	}

	eKey := emailKey(u.Email)
	// the email index and the record are written together or not at all
	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		taken, err := tx.Exists(ctx, eKey, userKey(u.ID)).Result()
		if err != nil {
			return err
		}
		if taken > 0 {
			return errors.AlreadyExists("an account with this email already exists").
				WithMeta("email", NormalizeEmail(u.Email))
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, userKey(u.ID), data, 0)
			pipe.Set(ctx, eKey, u.ID, 0)
			return nil
		})
		return err
	}, eKey, userKey(u.ID))
	if err != nil {
		var e *errors.Error
		if errors.As(err, &e) {
			return nil, err
		}
		if stderrors.Is(err, redis.TxFailedErr) {
			return nil, errors.AlreadyExists("an account with this email already exists")
		}
		return nil, errors.Persistence(err, "failed to create user")
	}

	return &CreateOutput{User: u}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument("user ID cannot be empty")
	}

	raw, err := r.client.Get(ctx, userKey(input.ID)).Result()
	if err != nil {
		if stderrors.Is(err, redis.Nil) {
			return nil, errors.NotFoundf("user %s not found", input.ID)
		}
		return nil, errors.Persistence(err, "failed to get user")
	}

	var u entities.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, errors.Persistence(err, "failed to unmarshal user")
	}
	return &GetOutput{User: &u}, nil
}

func (r *redisRepository) GetByEmail(ctx context.Context, input GetByEmailInput) (*GetByEmailOutput, error) {
	if NormalizeEmail(input.Email) == "" {
		return nil, errors.InvalidArgument("email cannot be empty")
	}

	id, err := r.client.Get(ctx, emailKey(input.Email)).Result()
	if err != nil {
		if stderrors.Is(err, redis.Nil) {
			return nil, errors.NotFound("no user with that email")
		}
		return nil, errors.Persistence(err, "failed to look up email")
	}

	out, err := r.Get(ctx, GetInput{ID: id})
	if err != nil {
		return nil, err
	}
	return &GetByEmailOutput{User: out.User}, nil
}
