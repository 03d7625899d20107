package v1alpha1

import "time"

// Empty is a message without fields
type Empty struct{}

// User is the public view of an account
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthSession is an issued access token
type AuthSession struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        *User     `json:"user"`
}

// SignUpRequest creates an account
type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

// SignInRequest signs in with a password
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInResponse carries the new session for both sign-up and sign-in
type SignInResponse struct {
	Session *AuthSession `json:"session"`
}

// GetCurrentUserResponse is the caller's account
type GetCurrentUserResponse struct {
	User *User `json:"user"`
}

// Stats are the six character attributes
type Stats struct {
	Strength     int `json:"strength"`
	Dexterity    int `json:"dexterity"`
	Intelligence int `json:"intelligence"`
	Wisdom       int `json:"wisdom"`
	Constitution int `json:"constitution"`
	Charisma     int `json:"charisma"`
}

// GameState is the play state of a character
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
	// AvailablePoints is what UpdateStats must spend, zero when nothing is pending
	AvailablePoints int `json:"available_points"`
	// ExperienceToNextLevel is the cost of the next level
	ExperienceToNextLevel int `json:"experience_to_next_level"`
}

// Session is one character
type Session struct {
	ID             string    `json:"id"`
	CharacterName  string    `json:"character_name"`
	CharacterClass string    `json:"character_class"`
	Backstory      string    `json:"backstory,omitempty"`
	GameState      GameState `json:"game_state"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Scene is one narrative beat
type Scene struct {
	ID           string    `json:"id"`
	Sequence     int       `json:"sequence"`
	Narrative    string    `json:"narrative"`
	Choices      []string  `json:"choices"`
	PlayerChoice *string   `json:"player_choice,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateCharacterRequest starts a new session
type CreateCharacterRequest struct {
	CharacterName  string `json:"character_name"`
	CharacterClass string `json:"character_class"`
	Backstory      string `json:"backstory,omitempty"`
}

// CreateCharacterResponse is the new session and its opening scene
type CreateCharacterResponse struct {
	Session *Session `json:"session"`
	Scene   *Scene   `json:"scene"`
}

// GetSessionRequest loads one session
type GetSessionRequest struct {
	SessionID string `json:"session_id"`
}

// SessionResponse is a session with its full scene log
type SessionResponse struct {
	Session      *Session `json:"session"`
	Scenes       []*Scene `json:"scenes"`
	CurrentScene *Scene   `json:"current_scene,omitempty"`
}

// ListSessionsRequest lists the caller's sessions
type ListSessionsRequest struct {
	Limit int `json:"limit,omitempty"`
}

// ListSessionsResponse lists sessions, most recently played first
type ListSessionsResponse struct {
	Sessions []*Session `json:"sessions"`
}

// MakeChoiceRequest answers the current scene
type MakeChoiceRequest struct {
	SessionID string `json:"session_id"`
	// SceneID is the scene being answered; optional
	SceneID string `json:"scene_id,omitempty"`
	Choice  string `json:"choice"`
}

// LevelUp reports the levels gained by a choice
type LevelUp struct {
	NewLevel             int `json:"new_level"`
	LevelsGained         int `json:"levels_gained"`
	TotalAttributePoints int `json:"total_attribute_points"`
	TotalHealthGained    int `json:"total_health_gained"`
}

// MakeChoiceResponse is the committed turn
type MakeChoiceResponse struct {
	Session          *Session `json:"session"`
	ResolvedScene    *Scene   `json:"resolved_scene"`
	NextScene        *Scene   `json:"next_scene"`
	ExperienceGained int      `json:"experience_gained"`
	LevelUp          *LevelUp `json:"level_up,omitempty"`
	Source           string   `json:"source"`
}

// StreamChoiceEvent is one message of StreamChoice. Exactly one field is set.
type StreamChoiceEvent struct {
	Chunk string `json:"chunk,omitempty"`
	// Reset tells the client to discard chunks received so far
	Reset  bool                `json:"reset,omitempty"`
	Result *MakeChoiceResponse `json:"result,omitempty"`
}

// UpdateStatsRequest spends level-up points
type UpdateStatsRequest struct {
	SessionID string `json:"session_id"`
	Stats     Stats  `json:"stats"`
}

// SessionIDRequest names a session
type SessionIDRequest struct {
	SessionID string `json:"session_id"`
}

// SessionOnlyResponse is the updated session
type SessionOnlyResponse struct {
	Session *Session `json:"session"`
}

// LevelUpEvent announces unallocated levels
type LevelUpEvent struct {
	SessionID       string `json:"session_id"`
	NewLevel        int    `json:"new_level"`
	LevelsGained    int    `json:"levels_gained"`
	AvailablePoints int    `json:"available_points"`
}

// WatchSessionEvent is one message of WatchSession. Exactly one field is set.
type WatchSessionEvent struct {
	Snapshot *SessionResponse `json:"snapshot,omitempty"`
	LevelUp  *LevelUpEvent    `json:"level_up,omitempty"`
}

// GenerateBackstoryRequest asks for a backstory before the character exists
type GenerateBackstoryRequest struct {
	CharacterName  string `json:"character_name"`
	CharacterClass string `json:"character_class"`
}

// BackstoryEvent is one message of GenerateBackstory. Exactly one field is set.
type BackstoryEvent struct {
	Chunk     string `json:"chunk,omitempty"`
	Reset     bool   `json:"reset,omitempty"`
	Backstory string `json:"backstory,omitempty"`
}
