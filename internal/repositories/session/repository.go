// Package session persists game sessions and their scenes
package session

//go:generate mockgen -destination=mock/mock_repository.go -package=sessionmock github.com/KirkDiggler/quest-forge/internal/repositories/session Repository

import (
	"context"
	"time"

	"github.com/KirkDiggler/quest-forge/internal/entities"
)

// Repository stores sessions and their append-only scene log
type Repository interface {
	// Create stores a new session with its first scene
	// Returns errors.InvalidArgument for missing data
	// Returns errors.AlreadyExists if the session ID is taken
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get returns a session by ID
	// Returns errors.NotFound if it doesn't exist
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// ListByUser returns a user's sessions, most recently updated first
	ListByUser(ctx context.Context, input ListByUserInput) (*ListByUserOutput, error)

	// ListScenes returns a session's scenes in creation order
	ListScenes(ctx context.Context, input ListScenesInput) (*ListScenesOutput, error)

	// SaveTurn atomically records the player's choice on the current scene,
	// appends the next scene and replaces the session. Nothing is written
	// unless everything is.
	// Returns errors.NotFound if the session or scene is missing
	// Returns an Aborted error with the scene_already_resolved reason if the
	// scene already has a choice, or concurrent_update if the session changed
	// since ExpectedUpdatedAt
	SaveTurn(ctx context.Context, input SaveTurnInput) (*SaveTurnOutput, error)

	// Update replaces a session if it has not changed since ExpectedUpdatedAt
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)
}

// CreateInput defines the input for creating a session
type CreateInput struct {
	Session *entities.GameSession
	Scene   *entities.Scene
}

// CreateOutput defines the output for creating a session
type CreateOutput struct {
	Session *entities.GameSession
	Scene   *entities.Scene
}

// GetInput defines the input for getting a session
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting a session
type GetOutput struct {
	Session *entities.GameSession
}

// ListByUserInput defines the input for listing a user's sessions
type ListByUserInput struct {
	UserID string
	// Limit caps the result; zero returns every session
	Limit int
}

// ListByUserOutput defines the output for listing a user's sessions
type ListByUserOutput struct {
	Sessions []*entities.GameSession
}

// ListScenesInput defines the input for listing scenes
type ListScenesInput struct {
	SessionID string
}

// ListScenesOutput defines the output for listing scenes
type ListScenesOutput struct {
	Scenes []*entities.Scene
}

// SaveTurnInput defines the input for committing a resolved choice
type SaveTurnInput struct {
	Session           *entities.GameSession
	ResolvedScene     *entities.Scene
	NextScene         *entities.Scene
	ExpectedUpdatedAt time.Time
}

// SaveTurnOutput defines the output for committing a resolved choice
type SaveTurnOutput struct {
	Session *entities.GameSession
}

// UpdateInput defines the input for updating a session
type UpdateInput struct {
	Session           *entities.GameSession
	ExpectedUpdatedAt time.Time
}

// UpdateOutput defines the output for updating a session
type UpdateOutput struct {
	Session *entities.GameSession
}
