// Package openrouter streams chat completions from an OpenAI-compatible
// endpoint, OpenRouter by default.
package openrouter

//go:generate mockgen -destination=mock/mock_client.go -package=openroutermock github.com/KirkDiggler/quest-forge/internal/clients/openrouter Client

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/KirkDiggler/quest-forge/internal/errors"
	"github.com/KirkDiggler/quest-forge/internal/metrics"
	"github.com/KirkDiggler/quest-forge/internal/pkg/retry"
)

// Defaults for the hosted provider
const (
	DefaultBaseURL     = "https://openrouter.ai/api/v1"
	DefaultModel       = "deepseek/deepseek-chat-v3.1:free"
	DefaultTitle       = "Quest Forge"
	DefaultTemperature = 0.8
	DefaultMaxTokens   = 500
)

// Message roles
const (
	RoleSystem    = openai.ChatMessageRoleSystem
	RoleUser      = openai.ChatMessageRoleUser
	RoleAssistant = openai.ChatMessageRoleAssistant
)

// Message is one role-tagged entry of the conversation
type Message struct {
	Role    string
	Content string
}

// StreamInput is a single completion request
type StreamInput struct {
	Messages []Message
	// OnChunk receives text as it arrives
	OnChunk func(chunk string)
	// OnRetry is called before a new attempt; anything delivered through
	// OnChunk by the failed attempt must be discarded
	OnRetry func(attempt int)
}

// StreamOutput is the complete text of the successful attempt
type StreamOutput struct {
	Text     string
	Attempts int
}

// Client streams completions
type Client interface {
	Stream(ctx context.Context, input *StreamInput) (*StreamOutput, error)
	Configured() bool
}

// Config configures the client
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Referer     string
	Title       string
	Temperature float32
	MaxTokens   int
	// Retry fields left zero take their retry.DefaultPolicy values
	Retry      retry.Policy
	HTTPClient *http.Client
	Metrics    *metrics.Metrics
}

func (c *Config) setDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Title == "" {
		c.Title = DefaultTitle
	}
	if c.Temperature == 0 {
		c.Temperature = DefaultTemperature
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	defaults := retry.DefaultPolicy()
	if c.Retry.MaxAttempts == 0 {
		c.Retry.MaxAttempts = defaults.MaxAttempts
	}
	if c.Retry.AttemptTimeout == 0 {
		c.Retry.AttemptTimeout = defaults.AttemptTimeout
	}
	if c.Retry.Backoff == nil {
		c.Retry.Backoff = defaults.Backoff
	}
}

type client struct {
	api     *openai.Client
	cfg     Config
	metrics *metrics.Metrics
}

// New creates a client. An empty API key is allowed; Stream then fails
// without touching the network.
func New(cfg Config) Client {
	cfg.setDefaults()

	base := cfg.HTTPClient
	if base == nil {
		base = &http.Client{}
	}
	transport := base.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	httpClient := *base
	httpClient.Transport = &headerTransport{
		next: transport,
		headers: map[string]string{
			"HTTP-Referer": cfg.Referer,
			"X-Title":      cfg.Title,
		},
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	apiCfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	apiCfg.HTTPClient = &httpClient

	return &client{
		api:     openai.NewClientWithConfig(apiCfg),
		cfg:     cfg,
		metrics: cfg.Metrics,
	}
}

func (c *client) Configured() bool {
	return c.cfg.APIKey != ""
}

func (c *client) Stream(ctx context.Context, input *StreamInput) (*StreamOutput, error) {
	if !c.Configured() {
		return nil, errors.Generation(nil, "narrative provider API key not configured")
	}
	if input == nil || len(input.Messages) == 0 {
		return nil, errors.InvalidArgument("at least one message is required")
	}

	policy := c.cfg.Retry
	policy.Retryable = isRetryable
	policy.OnRetry = func(attempt int, err error, delay time.Duration) {
		slog.WarnContext(ctx, "narrative stream attempt failed",
			"attempt", attempt+1,
			"max_attempts", policy.MaxAttempts,
			"retry_in", delay,
			"error", err)
	}

	var text string
	attempts := 0
	err := policy.Do(ctx, func(attemptCtx context.Context, attempt int) error {
		attempts = attempt + 1
		if attempt > 0 && input.OnRetry != nil {
			input.OnRetry(attempt)
		}

		start := time.Now()
		out, err := c.streamOnce(attemptCtx, input)
		c.metrics.GenerationAttempt(c.cfg.Model, attemptStatus(err), time.Since(start))
		if err != nil {
			return err
		}
		text = out
		return nil
	})
	if err != nil {
		return nil, classify(ctx, err)
	}

	return &StreamOutput{Text: text, Attempts: attempts}, nil
}

func (c *client) streamOnce(ctx context.Context, input *StreamInput) (string, error) {
	messages := make([]openai.ChatCompletionMessage, len(input.Messages))
	for i, m := range input.Messages {
		messages[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}

	stream, err := c.api.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		Stream:      true,
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	})
	if err != nil {
		return "", err
	}
	defer stream.Close()

	var sb strings.Builder
	for {
		resp, err := stream.Recv()
		if stderrors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			continue
		}
		chunk := resp.Choices[0].Delta.Content
		if chunk == "" {
			continue
		}
		sb.WriteString(chunk)
		if input.OnChunk != nil {
			input.OnChunk(chunk)
		}
	}

	if strings.TrimSpace(sb.String()) == "" {
		return "", errEmptyResponse
	}
	return sb.String(), nil
}

var errEmptyResponse = stderrors.New("narrative provider returned an empty response")

// isRetryable retries transport failures, timeouts, 408, 429 and 5xx.
// Other 4xx responses will not change on a second try.
func isRetryable(err error) bool {
	if stderrors.Is(err, context.Canceled) {
		return false
	}
	status := httpStatus(err)
	if status == 0 {
		return true
	}
	if status == http.StatusRequestTimeout || status == http.StatusTooManyRequests {
		return true
	}
	return status >= 500
}

func httpStatus(err error) int {
	var apiErr *openai.APIError
	if stderrors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if stderrors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}

func classify(ctx context.Context, err error) error {
	if ctx.Err() != nil && stderrors.Is(ctx.Err(), context.Canceled) {
		return errors.WrapWithCode(err, errors.CodeCanceled, "narrative stream canceled")
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.GenerationTimeout(err, "narrative provider timed out")
	}
	e := errors.Generation(err, "narrative provider failed")
	if status := httpStatus(err); status != 0 {
		e = e.WithMeta("http_status", status)
	}
	return e
}

func attemptStatus(err error) string {
	switch {
	case err == nil:
		return "success"
	case stderrors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case stderrors.Is(err, context.Canceled):
		return "canceled"
	case stderrors.Is(err, errEmptyResponse):
		return "empty"
	default:
		return "error"
	}
}

type headerTransport struct {
	next    http.RoundTripper
	headers map[string]string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	for k, v := range t.headers {
		if v != "" {
			req.Header.Set(k, v)
		}
	}
	return t.next.RoundTrip(req)
}
