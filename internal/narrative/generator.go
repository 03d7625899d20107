// Package narrative produces the next scene of a session: its narrative text
// and the choices offered to the player. Deterministic uses a fixed keyword
// table; AI asks a chat-completion provider.
package narrative

//go:generate mockgen -destination=mock/mock_generator.go -package=narrativemock github.com/KirkDiggler/quest-forge/internal/narrative Generator,BackstoryWriter

import (
	"context"

	"github.com/KirkDiggler/quest-forge/internal/entities"
)

// Sources reported in NextOutput
const (
	SourceDeterministic = "deterministic"
	SourceAI            = "ai"
)

// NextInput describes the choice being resolved
type NextInput struct {
	Session *entities.GameSession
	Choice  string
	// History is every scene of the session so far, oldest first
	History []*entities.Scene
	// OnChunk receives narrative text as it is produced
	OnChunk func(chunk string)
	// OnReset tells the caller to throw away chunks delivered so far
	OnReset func()
}

// NextOutput is the scene that follows the choice
type NextOutput struct {
	Narrative string
	Choices   []string
	Source    string
}

// Generator derives the next scene from a choice
type Generator interface {
	Next(ctx context.Context, input *NextInput) (*NextOutput, error)
}

// BackstoryWriter writes a character backstory
type BackstoryWriter interface {
	Backstory(ctx context.Context, input *BackstoryInput) (*BackstoryOutput, error)
}

var _ BackstoryWriter = (*AI)(nil)
