// Package builders provides test data builders for creating test fixtures
package builders

import (
	"time"

	"github.com/KirkDiggler/quest-forge/internal/engine"
	"github.com/KirkDiggler/quest-forge/internal/entities"
)

// SessionBuilder provides a fluent interface for building test GameSession instances
type SessionBuilder struct {
	session *entities.GameSession
}

// NewSessionBuilder creates a new builder for a level 1 warrior
func NewSessionBuilder() *SessionBuilder {
	now := time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC)
	return &SessionBuilder{
		session: &entities.GameSession{
			ID:             "session-test-123",
			UserID:         "user-test-123",
			CharacterName:  "Test Hero",
			CharacterClass: entities.ClassWarrior,
			GameState:      engine.NewGameState(entities.ClassWarrior),
			CreatedAt:      now,
			UpdatedAt:      now,
		},
	}
}

// WithID sets the session ID
func (b *SessionBuilder) WithID(id string) *SessionBuilder {
	b.session.ID = id
	return b
}

// WithUserID sets the owning user
func (b *SessionBuilder) WithUserID(userID string) *SessionBuilder {
	b.session.UserID = userID
	return b
}

// WithCharacter sets the name and class, resetting stats to the class's
// starting values
func (b *SessionBuilder) WithCharacter(name string, class entities.CharacterClass) *SessionBuilder {
	b.session.CharacterName = name
	b.session.CharacterClass = class
	b.session.GameState.Stats = class.StartingStats()
	return b
}

// WithLevel sets the level and banked experience
func (b *SessionBuilder) WithLevel(level, experience int) *SessionBuilder {
	b.session.GameState.Level = level
	b.session.GameState.Experience = experience
	return b
}

// WithPendingLevelUp marks levelsGained unallocated levels
func (b *SessionBuilder) WithPendingLevelUp(levelsGained int) *SessionBuilder {
	b.session.GameState.PendingLevelUp = levelsGained > 0
	b.session.GameState.LevelsGained = levelsGained
	return b
}

// WithStats replaces the attributes
func (b *SessionBuilder) WithStats(stats entities.Stats) *SessionBuilder {
	b.session.GameState.Stats = stats
	return b
}

// WithCurrentScene sets the number of scenes already played
func (b *SessionBuilder) WithCurrentScene(n int) *SessionBuilder {
	b.session.GameState.CurrentScene = n
	return b
}

// WithUpdatedAt sets the last-modified time
func (b *SessionBuilder) WithUpdatedAt(t time.Time) *SessionBuilder {
	b.session.UpdatedAt = t
	return b
}

// Build returns a copy of the built session
func (b *SessionBuilder) Build() *entities.GameSession {
	s := *b.session
	s.GameState.Inventory = append([]string{}, b.session.GameState.Inventory...)
	return &s
}
