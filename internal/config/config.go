// Package config loads server settings from QUESTFORGE_* environment
// variables, optionally seeded from a .env file.
package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/KirkDiggler/quest-forge/internal/errors"
)

// Prefix is prepended to every variable name
const Prefix = "QUESTFORGE"

// Log formats
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

const minJWTSecretLength = 32

// Config holds the server configuration
type Config struct {
	GRPCPort        int           `envconfig:"GRPC_PORT" default:"50051"`
	MetricsPort     int           `envconfig:"METRICS_PORT" default:"9090"` // 0 disables the endpoint
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`

	// An empty address runs an embedded in-memory store
	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	OpenRouterAPIKey  string        `envconfig:"OPENROUTER_API_KEY"`
	OpenRouterBaseURL string        `envconfig:"OPENROUTER_BASE_URL" default:"https://openrouter.ai/api/v1"`
	OpenRouterModel   string        `envconfig:"OPENROUTER_MODEL" default:"deepseek/deepseek-chat-v3.1:free"`
	OpenRouterReferer string        `envconfig:"OPENROUTER_REFERER" default:"http://localhost:50051"`
	UseAI             bool          `envconfig:"USE_AI" default:"true"`
	GenerationTimeout time.Duration `envconfig:"GENERATION_TIMEOUT" default:"10s"`
	GenerationRetries int           `envconfig:"GENERATION_ATTEMPTS" default:"3"`
	// FallbackToDeterministic serves the keyword table when the provider fails
	FallbackToDeterministic bool `envconfig:"FALLBACK_TO_DETERMINISTIC" default:"true"`

	JWTSecret  string        `envconfig:"JWT_SECRET" required:"true"`
	TokenTTL   time.Duration `envconfig:"TOKEN_TTL" default:"24h"`
	BcryptCost int           `envconfig:"BCRYPT_COST" default:"10"`
}

// Load reads the configuration. A missing envFile is not an error; values
// already in the environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !os.IsNotExist(err) {
				return nil, errors.Wrapf(err, "failed to read %s", envFile)
			}
			slog.Debug("no env file", "path", envFile)
		}
	}

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to process environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ranges and required secrets
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.GRPCPort <= 0 || c.GRPCPort > 65535 {
		vb.Field("GRPCPort", "must be between 1 and 65535")
	}
	if c.MetricsPort < 0 || c.MetricsPort > 65535 {
		vb.Field("MetricsPort", "must be between 0 and 65535")
	}
	if c.MetricsPort != 0 && c.MetricsPort == c.GRPCPort {
		vb.Field("MetricsPort", "must differ from GRPCPort")
	}
	if _, ok := parseLevel(c.LogLevel); !ok {
		vb.Fieldf("LogLevel", "unknown level %q", c.LogLevel)
	}
	errors.ValidateEnum("LogFormat", strings.ToLower(c.LogFormat), []string{LogFormatText, LogFormatJSON}, vb)
	if len(c.JWTSecret) < minJWTSecretLength {
		vb.Fieldf("JWTSecret", "must be at least %d bytes", minJWTSecretLength)
	}
	if c.TokenTTL <= 0 {
		vb.Field("TokenTTL", "must be positive")
	}
	if c.GenerationRetries < 1 {
		vb.Field("GenerationRetries", "must be at least 1")
	}
	if c.GenerationTimeout <= 0 {
		vb.Field("GenerationTimeout", "must be positive")
	}
	return vb.Build()
}

// AIEnabled reports whether scenes should come from the provider
func (c *Config) AIEnabled() bool {
	return c.UseAI && c.OpenRouterAPIKey != ""
}

// EmbeddedRedis reports whether no external Redis is configured
func (c *Config) EmbeddedRedis() bool {
	return c.RedisAddr == ""
}

// Level returns the slog level for LogLevel
func (c *Config) Level() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

// NewLogger builds the process logger
func (c *Config) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.Level()}
	if strings.EqualFold(c.LogFormat, LogFormatJSON) {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// LogValue masks secrets when the config is logged
func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("grpc_port", c.GRPCPort),
		slog.Int("metrics_port", c.MetricsPort),
		slog.String("log_level", c.LogLevel),
		slog.String("log_format", c.LogFormat),
		slog.String("redis_addr", c.redisAddr()),
		slog.Int("redis_db", c.RedisDB),
		slog.String("redis_password", mask(c.RedisPassword)),
		slog.String("openrouter_base_url", c.OpenRouterBaseURL),
		slog.String("openrouter_model", c.OpenRouterModel),
		slog.String("openrouter_api_key", mask(c.OpenRouterAPIKey)),
		slog.Bool("ai_enabled", c.AIEnabled()),
		slog.Bool("fallback_to_deterministic", c.FallbackToDeterministic),
		slog.Duration("generation_timeout", c.GenerationTimeout),
		slog.Int("generation_attempts", c.GenerationRetries),
		slog.String("jwt_secret", mask(c.JWTSecret)),
		slog.Duration("token_ttl", c.TokenTTL),
	)
}

func (c *Config) redisAddr() string {
	if c.EmbeddedRedis() {
		return "embedded"
	}
	return c.RedisAddr
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "********"
}

func parseLevel(s string) (slog.Level, bool) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, false
	}
	return level, true
}
