// Package engine converts experience into character progression. Everything
// here is pure except the experience source.
package engine

import "github.com/KirkDiggler/quest-forge/internal/entities"

// Progression constants
const (
	ExperiencePerLevel      = 100
	ExperienceGainMin       = 5
	ExperienceGainMax       = 25 // exclusive
	AttributePointsPerLevel = 3
	HealthGainPerLevel      = 20
	StartingHealth          = 100
	StartingLevel           = 1
)

// LevelUpResult is the outcome of banking experience at a level
type LevelUpResult struct {
	NewLevel             int
	RemainingXP          int
	LevelsGained         int
	TotalAttributePoints int
	TotalHealthGained    int
}

// CalculateLevelUp spends totalAvailableXP on levels. Each level costs
// level*ExperiencePerLevel of the level being left, so the loop always
// terminates with RemainingXP below the next threshold.
func CalculateLevelUp(currentLevel, totalAvailableXP int) LevelUpResult {
	if currentLevel < StartingLevel {
		currentLevel = StartingLevel
	}
	if totalAvailableXP < 0 {
		totalAvailableXP = 0
	}

	level, remaining := currentLevel, totalAvailableXP
	for remaining >= ExperienceForNextLevel(level) {
		remaining -= ExperienceForNextLevel(level)
		level++
	}

	gained := level - currentLevel
	return LevelUpResult{
		NewLevel:             level,
		RemainingXP:          remaining,
		LevelsGained:         gained,
		TotalAttributePoints: gained * AttributePointsPerLevel,
		TotalHealthGained:    gained * HealthGainPerLevel,
	}
}

// ExperienceForNextLevel is the XP needed to leave level
func ExperienceForNextLevel(level int) int {
	return level * ExperiencePerLevel
}

// AvailablePoints is the attribute points owed for levelsGained
func AvailablePoints(levelsGained int) int {
	return levelsGained * AttributePointsPerLevel
}

// ApplyExperience advances state by one resolved choice worth gain XP and
// returns the new state alongside the level-up result. On a level-up max
// health and health both rise by the health gained. An unallocated level-up
// already pending is kept and the new levels are added to it.
func ApplyExperience(state entities.GameState, gain int) (entities.GameState, LevelUpResult) {
	result := CalculateLevelUp(state.Level, state.Experience+gain)

	next := state
	next.Inventory = append([]string(nil), state.Inventory...)
	next.Level = result.NewLevel
	next.Experience = result.RemainingXP
	next.CurrentScene = state.CurrentScene + 1

	if result.LevelsGained > 0 {
		next.MaxHealth += result.TotalHealthGained
		next.Health += result.TotalHealthGained
		next.PendingLevelUp = true
		next.LevelsGained = state.LevelsGained + result.LevelsGained
	}

	return next, result
}

// NewGameState returns the state of a freshly created character
func NewGameState(class entities.CharacterClass) entities.GameState {
	return entities.GameState{
		Level:        StartingLevel,
		Health:       StartingHealth,
		MaxHealth:    StartingHealth,
		Experience:   0,
		CurrentScene: 0,
		Inventory:    []string{},
		Stats:        class.StartingStats(),
	}
}
