package main

import (
	"time"

	"github.com/KirkDiggler/quest-forge/internal/clients/openrouter"
	"github.com/KirkDiggler/quest-forge/internal/config"
	"github.com/KirkDiggler/quest-forge/internal/engine"
	"github.com/KirkDiggler/quest-forge/internal/errors"
	"github.com/KirkDiggler/quest-forge/internal/handlers/questforge/v1alpha1"
	"github.com/KirkDiggler/quest-forge/internal/metrics"
	"github.com/KirkDiggler/quest-forge/internal/narrative"
	gameorchestrator "github.com/KirkDiggler/quest-forge/internal/orchestrators/game"
	"github.com/KirkDiggler/quest-forge/internal/pkg/clock"
	"github.com/KirkDiggler/quest-forge/internal/pkg/idgen"
	"github.com/KirkDiggler/quest-forge/internal/pkg/retry"
	"github.com/KirkDiggler/quest-forge/internal/redis"
	sessionrepo "github.com/KirkDiggler/quest-forge/internal/repositories/session"
	tokenrepo "github.com/KirkDiggler/quest-forge/internal/repositories/token"
	userrepo "github.com/KirkDiggler/quest-forge/internal/repositories/user"
	"github.com/KirkDiggler/quest-forge/internal/services/auth"
	"github.com/KirkDiggler/quest-forge/internal/services/gamestate"
	"github.com/KirkDiggler/quest-forge/internal/services/levelup"
)

// app is the wired object graph of the server
type app struct {
	redis       redis.Client
	metrics     *metrics.Metrics
	auth        *auth.Provider
	authHandler *v1alpha1.AuthHandler
	gameHandler *v1alpha1.GameHandler
}

// newApp wires every component from cfg. Close releases the Redis client.
func newApp(cfg *config.Config) (*app, error) {
	redisClient, err := connectRedis(cfg)
	if err != nil {
		return nil, err
	}

	a := &app{redis: redisClient, metrics: metrics.New()}
	if err := a.wire(cfg); err != nil {
		_ = a.Close() // nolint:errcheck // already failing
		return nil, err
	}
	return a, nil
}

func (a *app) wire(cfg *config.Config) error {
	sessions, err := sessionrepo.NewRedis(&sessionrepo.RedisConfig{Client: a.redis})
	if err != nil {
		return errors.Wrap(err, "failed to create session repository")
	}
	users, err := userrepo.NewRedis(&userrepo.RedisConfig{Client: a.redis})
	if err != nil {
		return errors.Wrap(err, "failed to create user repository")
	}
	tokens, err := tokenrepo.NewRedis(&tokenrepo.RedisConfig{Client: a.redis})
	if err != nil {
		return errors.Wrap(err, "failed to create token repository")
	}

	a.auth, err = auth.New(&auth.Config{
		Users:      users,
		Tokens:     tokens,
		Secret:     cfg.JWTSecret,
		TokenTTL:   cfg.TokenTTL,
		BcryptCost: cfg.BcryptCost,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create auth provider")
	}

	store := gamestate.NewStore()
	gameCfg := &gameorchestrator.Config{
		SessionRepo: sessions,
		Narrator:    narrative.NewDeterministic(),
		Experience:  engine.NewDiceSource(nil),
		IDGenerator: idgen.NewUUID(""),
		Clock:       clock.New(),
		State:       store,
		Metrics:     a.metrics,
	}

	if cfg.AIEnabled() {
		ai, err := narrative.NewAI(&narrative.AIConfig{
			Client: openrouter.New(openrouter.Config{
				APIKey:  cfg.OpenRouterAPIKey,
				BaseURL: cfg.OpenRouterBaseURL,
				Model:   cfg.OpenRouterModel,
				Referer: cfg.OpenRouterReferer,
				Retry: retry.Policy{
					MaxAttempts:    cfg.GenerationRetries,
					AttemptTimeout: cfg.GenerationTimeout,
					Backoff:        retry.Exponential(time.Second),
				},
				Metrics: a.metrics,
			}),
		})
		if err != nil {
			return errors.Wrap(err, "failed to create narrative provider")
		}
		gameCfg.Narrator = ai
		gameCfg.Backstories = ai
		if cfg.FallbackToDeterministic {
			gameCfg.Fallback = narrative.NewDeterministic()
		}
	}

	orchestrator, err := gameorchestrator.New(gameCfg)
	if err != nil {
		return errors.Wrap(err, "failed to create game orchestrator")
	}

	notifier, err := levelup.New(&levelup.Config{State: store, Game: orchestrator})
	if err != nil {
		return errors.Wrap(err, "failed to create level-up notifier")
	}

	a.authHandler, err = v1alpha1.NewAuthHandler(&v1alpha1.AuthHandlerConfig{AuthService: a.auth})
	if err != nil {
		return errors.Wrap(err, "failed to create auth handler")
	}
	a.gameHandler, err = v1alpha1.NewGameHandler(&v1alpha1.GameHandlerConfig{
		GameService: orchestrator,
		State:       store,
		LevelUps:    notifier,
		Metrics:     a.metrics,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create game handler")
	}
	return nil
}

// Close releases the Redis connection, stopping the embedded server if any
func (a *app) Close() error {
	return a.redis.Close()
}

func connectRedis(cfg *config.Config) (redis.Client, error) {
	if cfg.EmbeddedRedis() {
		embedded, err := redis.NewEmbedded()
		if err != nil {
			return nil, errors.Wrap(err, "failed to start embedded redis")
		}
		return embedded, nil
	}

	client, err := redis.NewClient(cfg.RedisAddr, &redis.Options{
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create redis client")
	}
	return client, nil
}
