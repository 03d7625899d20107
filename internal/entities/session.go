package entities

import "time"

// GameState is the mutable play state of a character.
// Experience is banked toward the next level, not a lifetime total.
type GameState struct {
	Level          int      `json:"level"`
	Health         int      `json:"health"`
	MaxHealth      int      `json:"max_health"`
	Experience     int      `json:"experience"`
	CurrentScene   int      `json:"current_scene"`
	Inventory      []string `json:"inventory"`
	Stats          Stats    `json:"stats"`
	PendingLevelUp bool     `json:"pending_level_up"`
	LevelsGained   int      `json:"levels_gained"`
}

// GameSession is one character's play state. A user starting a new
// character gets a new session; old sessions stay as history.
type GameSession struct {
	ID             string         `json:"id"`
	UserID         string         `json:"user_id"`
	CharacterName  string         `json:"character_name"`
	CharacterClass CharacterClass `json:"character_class"`
	Backstory      string         `json:"backstory,omitempty"`
	GameState      GameState      `json:"game_state"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// Scene is one narrative beat and the choices offered at it.
// PlayerChoice is nil until the player answers; it is set exactly once.
type Scene struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"session_id"`
	Sequence     int       `json:"sequence"`
	Narrative    string    `json:"narrative"`
	Choices      []string  `json:"choices"`
	PlayerChoice *string   `json:"player_choice"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsResolved reports whether the player already chose at this scene
func (s *Scene) IsResolved() bool {
	return s.PlayerChoice != nil
}

// Offers reports whether choice is one of the scene's options
func (s *Scene) Offers(choice string) bool {
	for _, c := range s.Choices {
		if c == choice {
			return true
		}
	}
	return false
}

// CurrentScene returns the last unresolved scene, or nil if every scene has
// been answered or the list is empty.
func CurrentScene(scenes []*Scene) *Scene {
	if len(scenes) == 0 {
		return nil
	}
	last := scenes[len(scenes)-1]
	if last.IsResolved() {
		return nil
	}
	return last
}

// GetID returns the session ID
func (s *GameSession) GetID() string {
	return s.ID
}

// GetType returns the toolkit entity type for sessions
func (s *GameSession) GetType() string {
	return "game_session"
}

// GetID returns the scene ID
func (s *Scene) GetID() string {
	return s.ID
}

// GetType returns the toolkit entity type for scenes
func (s *Scene) GetType() string {
	return "scene"
}
