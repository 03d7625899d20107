package testutils

import (
	"strconv"
	"time"

	"github.com/KirkDiggler/quest-forge/internal/entities"
)

const (
	// TestUserID owns the fixture sessions
	TestUserID = "user-test-001"
	// TestSessionID is the ID of CreateTestSession
	TestSessionID = "session-test-001"
	// TestCharacterName is the default character name for test fixtures
	TestCharacterName = "Aria"
)

// TestTime is the fixed creation time of every fixture
var TestTime = time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC)

// CreateTestSession creates a fresh level 1 warrior session
func CreateTestSession(userID string) *entities.GameSession {
	class := entities.ClassWarrior
	stats := class.StartingStats()
	return &entities.GameSession{
		ID:             TestSessionID,
		UserID:         userID,
		CharacterName:  TestCharacterName,
		CharacterClass: class,
		GameState: entities.GameState{
			Level:        1,
			Health:       100,
			MaxHealth:    100,
			Experience:   0,
			CurrentScene: 0,
			Inventory:    []string{},
			Stats:        stats,
		},
		CreatedAt: TestTime,
		UpdatedAt: TestTime,
	}
}

// CreateTestScene creates an unresolved scene for the session
func CreateTestScene(sessionID string, sequence int) *entities.Scene {
	return &entities.Scene{
		ID:        sceneID(sessionID, sequence),
		SessionID: sessionID,
		Sequence:  sequence,
		Narrative: "The road forks beneath an old oak.",
		Choices:   []string{"Take the left path", "Take the right path", "Climb the oak"},
		CreatedAt: TestTime.Add(time.Duration(sequence) * time.Minute),
	}
}

// CreateResolvedTestScene creates a scene the player already answered
func CreateResolvedTestScene(sessionID string, sequence int, choice string) *entities.Scene {
	scene := CreateTestScene(sessionID, sequence)
	scene.PlayerChoice = &choice
	return scene
}

// CreateTestUser creates a user with a placeholder password hash
func CreateTestUser(id string) *entities.User {
	return &entities.User{
		ID:           id,
		Email:        id + "@example.com",
		Username:     id,
		PasswordHash: "$2a$10$placeholderplaceholderplaceholderplaceholderpla",
		CreatedAt:    TestTime,
	}
}

func sceneID(sessionID string, sequence int) string {
	return sessionID + "-scene-" + strconv.Itoa(sequence)
}
