package engine

import (
	"github.com/KirkDiggler/rpg-toolkit/dice"
)

//go:generate mockgen -destination=mock/mock_experience.go -package=enginemock github.com/KirkDiggler/quest-forge/internal/engine ExperienceSource

// ExperienceSource yields the XP awarded for one resolved choice
type ExperienceSource interface {
	Gain() (int, error)
}

// DiceSource rolls the gain on a die spanning the gain range, so every value
// in [ExperienceGainMin, ExperienceGainMax) is equally likely.
type DiceSource struct {
	roller dice.Roller
}

// NewDiceSource creates a source backed by roller. A nil roller uses the
// toolkit default.
func NewDiceSource(roller dice.Roller) *DiceSource {
	if roller == nil {
		roller = dice.DefaultRoller
	}
	return &DiceSource{roller: roller}
}

// Gain rolls a d20 and shifts it into the gain range
func (s *DiceSource) Gain() (int, error) {
	roll, err := s.roller.Roll(ExperienceGainMax - ExperienceGainMin)
	if err != nil {
		return 0, err
	}
	return ExperienceGainMin + roll - 1, nil
}

// FixedSource always awards the same amount
type FixedSource int

// Gain returns the fixed amount
func (f FixedSource) Gain() (int, error) {
	return int(f), nil
}
