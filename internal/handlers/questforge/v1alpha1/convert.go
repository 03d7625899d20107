package v1alpha1

import (
	"github.com/KirkDiggler/quest-forge/internal/engine"
	"github.com/KirkDiggler/quest-forge/internal/entities"
	"github.com/KirkDiggler/quest-forge/internal/services/auth"
	"github.com/KirkDiggler/quest-forge/internal/services/game"
	"github.com/KirkDiggler/quest-forge/internal/services/gamestate"
	"github.com/KirkDiggler/quest-forge/internal/services/levelup"
)

func convertUserToAPI(user *entities.User) *User {
	if user == nil {
		return nil
	}
	return &User{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	}
}

func convertAuthSessionToAPI(session *auth.Session) *AuthSession {
	if session == nil {
		return nil
	}
	return &AuthSession{
		AccessToken: session.AccessToken,
		ExpiresAt:   session.ExpiresAt,
		User:        convertUserToAPI(session.User),
	}
}

func convertStatsToAPI(stats entities.Stats) Stats {
	return Stats{
		Strength:     stats.Strength,
		Dexterity:    stats.Dexterity,
		Intelligence: stats.Intelligence,
		Wisdom:       stats.Wisdom,
		Constitution: stats.Constitution,
		Charisma:     stats.Charisma,
	}
}

func convertStatsFromAPI(stats Stats) entities.Stats {
	return entities.Stats{
		Strength:     stats.Strength,
		Dexterity:    stats.Dexterity,
		Intelligence: stats.Intelligence,
		Wisdom:       stats.Wisdom,
		Constitution: stats.Constitution,
		Charisma:     stats.Charisma,
	}
}

func convertGameStateToAPI(state entities.GameState) GameState {
	out := GameState{
		Level:                 state.Level,
		Health:                state.Health,
		MaxHealth:             state.MaxHealth,
		Experience:            state.Experience,
		CurrentScene:          state.CurrentScene,
		Inventory:             append([]string{}, state.Inventory...),
		Stats:                 convertStatsToAPI(state.Stats),
		PendingLevelUp:        state.PendingLevelUp,
		LevelsGained:          state.LevelsGained,
		ExperienceToNextLevel: engine.ExperienceForNextLevel(state.Level),
	}
	if state.PendingLevelUp {
		out.AvailablePoints = engine.AvailablePoints(state.LevelsGained)
	}
	return out
}

func convertSessionToAPI(session *entities.GameSession) *Session {
	if session == nil {
		return nil
	}
	return &Session{
		ID:             session.ID,
		CharacterName:  session.CharacterName,
		CharacterClass: string(session.CharacterClass),
		Backstory:      session.Backstory,
		GameState:      convertGameStateToAPI(session.GameState),
		CreatedAt:      session.CreatedAt,
		UpdatedAt:      session.UpdatedAt,
	}
}

func convertSceneToAPI(scene *entities.Scene) *Scene {
	if scene == nil {
		return nil
	}
	out := &Scene{
		ID:        scene.ID,
		Sequence:  scene.Sequence,
		Narrative: scene.Narrative,
		Choices:   append([]string{}, scene.Choices...),
		CreatedAt: scene.CreatedAt,
	}
	if scene.PlayerChoice != nil {
		choice := *scene.PlayerChoice
		out.PlayerChoice = &choice
	}
	return out
}

func convertScenesToAPI(scenes []*entities.Scene) []*Scene {
	out := make([]*Scene, 0, len(scenes))
	for _, scene := range scenes {
		out = append(out, convertSceneToAPI(scene))
	}
	return out
}

func convertSessionOutputToAPI(output *game.GetSessionOutput) *SessionResponse {
	return &SessionResponse{
		Session:      convertSessionToAPI(output.Session),
		Scenes:       convertScenesToAPI(output.Scenes),
		CurrentScene: convertSceneToAPI(output.CurrentScene),
	}
}

func convertSnapshotToAPI(snapshot *gamestate.Snapshot) *SessionResponse {
	return &SessionResponse{
		Session:      convertSessionToAPI(snapshot.Session),
		Scenes:       convertScenesToAPI(snapshot.Scenes),
		CurrentScene: convertSceneToAPI(entities.CurrentScene(snapshot.Scenes)),
	}
}

func convertMakeChoiceOutputToAPI(output *game.MakeChoiceOutput) *MakeChoiceResponse {
	resp := &MakeChoiceResponse{
		Session:          convertSessionToAPI(output.Session),
		ResolvedScene:    convertSceneToAPI(output.ResolvedScene),
		NextScene:        convertSceneToAPI(output.NextScene),
		ExperienceGained: output.ExperienceGained,
		Source:           output.Source,
	}
	if output.LevelUp.LevelsGained > 0 {
		resp.LevelUp = &LevelUp{
			NewLevel:             output.LevelUp.NewLevel,
			LevelsGained:         output.LevelUp.LevelsGained,
			TotalAttributePoints: output.LevelUp.TotalAttributePoints,
			TotalHealthGained:    output.LevelUp.TotalHealthGained,
		}
	}
	return resp
}

func convertLevelUpEventToAPI(event levelup.Event) *LevelUpEvent {
	return &LevelUpEvent{
		SessionID:       event.SessionID,
		NewLevel:        event.NewLevel,
		LevelsGained:    event.LevelsGained,
		AvailablePoints: event.AvailablePoints,
	}
}
