// Package game defines the interface for session operations
package game

//go:generate mockgen -destination=mock/mock_service.go -package=gamemock github.com/KirkDiggler/quest-forge/internal/services/game Service

import (
	"context"

	"github.com/KirkDiggler/quest-forge/internal/engine"
	"github.com/KirkDiggler/quest-forge/internal/entities"
)

// Service defines the interface for session operations
type Service interface {
	// Session lifecycle
	CreateSession(ctx context.Context, input *CreateSessionInput) (*CreateSessionOutput, error)
	GetSession(ctx context.Context, input *GetSessionInput) (*GetSessionOutput, error)
	GetLatestSession(ctx context.Context, input *GetLatestSessionInput) (*GetSessionOutput, error)
	ListSessions(ctx context.Context, input *ListSessionsInput) (*ListSessionsOutput, error)

	// Play
	MakeChoice(ctx context.Context, input *MakeChoiceInput) (*MakeChoiceOutput, error)

	// Level-ups
	UpdateStats(ctx context.Context, input *UpdateStatsInput) (*UpdateStatsOutput, error)
	ClearPendingLevelUp(ctx context.Context, input *ClearPendingLevelUpInput) (*ClearPendingLevelUpOutput, error)

	// Character creation helpers
	GenerateBackstory(ctx context.Context, input *GenerateBackstoryInput) (*GenerateBackstoryOutput, error)
}

// CreateSessionInput defines the request for creating a character
type CreateSessionInput struct {
	UserID         string
	CharacterName  string
	CharacterClass string
	Backstory      string // Optional
}

// CreateSessionOutput defines the response for creating a character
type CreateSessionOutput struct {
	Session *entities.GameSession
	Scene   *entities.Scene
}

// GetSessionInput defines the request for loading a session
type GetSessionInput struct {
	UserID    string
	SessionID string
}

// GetLatestSessionInput defines the request for loading the user's most
// recently played session
type GetLatestSessionInput struct {
	UserID string
}

// GetSessionOutput is a session with its full scene log
type GetSessionOutput struct {
	Session *entities.GameSession
	Scenes  []*entities.Scene
	// CurrentScene is the scene awaiting a choice, nil if there is none
	CurrentScene *entities.Scene
}

// ListSessionsInput defines the request for listing a user's sessions
type ListSessionsInput struct {
	UserID string
	Limit  int
}

// ListSessionsOutput defines the response for listing a user's sessions
type ListSessionsOutput struct {
	Sessions []*entities.GameSession
}

// MakeChoiceInput defines the request for answering the current scene
type MakeChoiceInput struct {
	UserID    string
	SessionID string
	Choice    string
	// SceneID optionally names the scene being answered so a repeated
	// submission is reported instead of applied to the following scene
	SceneID string
	// OnChunk receives the next scene's narrative as it is generated
	OnChunk func(chunk string)
	// OnReset tells the caller to discard chunks received so far
	OnReset func()
}

// MakeChoiceOutput defines the response for answering a scene
type MakeChoiceOutput struct {
	Session          *entities.GameSession
	ResolvedScene    *entities.Scene
	NextScene        *entities.Scene
	ExperienceGained int
	LevelUp          engine.LevelUpResult
	// Source names the generator that wrote the next scene
	Source string
}

// UpdateStatsInput defines the request for spending level-up points
type UpdateStatsInput struct {
	UserID    string
	SessionID string
	Stats     entities.Stats
}

// UpdateStatsOutput defines the response for spending level-up points
type UpdateStatsOutput struct {
	Session *entities.GameSession
}

// ClearPendingLevelUpInput defines the request for dismissing a level-up
type ClearPendingLevelUpInput struct {
	UserID    string
	SessionID string
}

// ClearPendingLevelUpOutput defines the response for dismissing a level-up
type ClearPendingLevelUpOutput struct {
	Session *entities.GameSession
}

// GenerateBackstoryInput defines the request for writing a backstory
type GenerateBackstoryInput struct {
	UserID         string
	CharacterName  string
	CharacterClass string
	OnChunk        func(chunk string)
	OnReset        func()
}

// GenerateBackstoryOutput defines the response for writing a backstory
type GenerateBackstoryOutput struct {
	Backstory string
}
