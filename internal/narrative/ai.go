package narrative

import (
	"context"
	"log/slog"
	"strings"

	"github.com/KirkDiggler/quest-forge/internal/clients/openrouter"
	"github.com/KirkDiggler/quest-forge/internal/entities"
	"github.com/KirkDiggler/quest-forge/internal/errors"
)

// BackstoryInput describes the character to write about
type BackstoryInput struct {
	CharacterName  string
	CharacterClass entities.CharacterClass
	Stats          entities.Stats
	OnChunk        func(chunk string)
	OnReset        func()
}

// BackstoryOutput is the generated backstory
type BackstoryOutput struct {
	Backstory string
}

// AIConfig holds the AI generator dependencies
type AIConfig struct {
	Client openrouter.Client
}

// Validate checks the config
func (c *AIConfig) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Client == nil {
		vb.RequiredField("Client")
	}
	return vb.Build()
}

// AI asks a chat-completion provider for the narrative, then separately for
// the choices that follow it.
type AI struct {
	client openrouter.Client
}

// NewAI creates the provider-backed generator
func NewAI(cfg *AIConfig) (*AI, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid AI generator config")
	}
	return &AI{client: cfg.Client}, nil
}

// Configured reports whether the provider has credentials
func (a *AI) Configured() bool {
	return a.client.Configured()
}

func (a *AI) Next(ctx context.Context, input *NextInput) (*NextOutput, error) {
	if input == nil || input.Session == nil {
		return nil, errors.InvalidArgument("session is required")
	}

	promptContext := BuildContext(input.Session, input.Choice, input.History)
	narrativeOut, err := a.client.Stream(ctx, &openrouter.StreamInput{
		Messages: []openrouter.Message{
			{Role: openrouter.RoleSystem, Content: narratorSystemPrompt},
			{Role: openrouter.RoleUser, Content: narrativeUserPrompt(promptContext, input.Choice)},
		},
		OnChunk: input.OnChunk,
		OnRetry: func(int) {
			if input.OnReset != nil {
				input.OnReset()
			}
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate narrative")
	}
	text := strings.TrimSpace(narrativeOut.Text)

	choices, err := a.choices(ctx, input.Session, text, input.History)
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "generated scene with provider",
		"session_id", input.Session.ID,
		"narrative_attempts", narrativeOut.Attempts,
		"choices", len(choices))

	return &NextOutput{Narrative: text, Choices: choices, Source: SourceAI}, nil
}

func (a *AI) choices(ctx context.Context, session *entities.GameSession, narrative string, history []*entities.Scene) ([]string, error) {
	promptContext := BuildContext(session, "", history)
	out, err := a.client.Stream(ctx, &openrouter.StreamInput{
		Messages: []openrouter.Message{
			{Role: openrouter.RoleSystem, Content: choicesSystemPrompt},
			{Role: openrouter.RoleUser, Content: choicesUserPrompt(promptContext, narrative)},
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate choices")
	}
	return ExtractChoices(out.Text)
}

// Backstory streams a short backstory for a new character
func (a *AI) Backstory(ctx context.Context, input *BackstoryInput) (*BackstoryOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	out, err := a.client.Stream(ctx, &openrouter.StreamInput{
		Messages: []openrouter.Message{
			{Role: openrouter.RoleSystem, Content: backstorySystemPrompt},
			{Role: openrouter.RoleUser, Content: backstoryUserPrompt(input.CharacterName, input.CharacterClass, input.Stats)},
		},
		OnChunk: input.OnChunk,
		OnRetry: func(int) {
			if input.OnReset != nil {
				input.OnReset()
			}
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate backstory")
	}

	return &BackstoryOutput{Backstory: strings.TrimSpace(out.Text)}, nil
}
