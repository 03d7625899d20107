package engine_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/quest-forge/internal/engine"
	"github.com/KirkDiggler/quest-forge/internal/entities"
)

type ProgressionTestSuite struct {
	suite.Suite
}

func TestProgressionSuite(t *testing.T) {
	suite.Run(t, new(ProgressionTestSuite))
}

func (s *ProgressionTestSuite) TestCalculateLevelUp() {
	testCases := []struct {
		name     string
		level    int
		xp       int
		expected engine.LevelUpResult
	}{
		{
			name:     "below threshold",
			level:    1,
			xp:       95,
			expected: engine.LevelUpResult{NewLevel: 1, RemainingXP: 95},
		},
		{
			name:     "zero xp",
			level:    4,
			xp:       0,
			expected: engine.LevelUpResult{NewLevel: 4},
		},
		{
			name:  "exact threshold",
			level: 1,
			xp:    100,
			expected: engine.LevelUpResult{
				NewLevel: 2, LevelsGained: 1, TotalAttributePoints: 3, TotalHealthGained: 20,
			},
		},
		{
			name:  "multiple levels in one call",
			level: 1,
			xp:    350,
			expected: engine.LevelUpResult{
				NewLevel: 3, RemainingXP: 50, LevelsGained: 2, TotalAttributePoints: 6, TotalHealthGained: 40,
			},
		},
		{
			name:  "threshold scales with level",
			level: 5,
			xp:    499,
			expected: engine.LevelUpResult{
				NewLevel: 5, RemainingXP: 499,
			},
		},
		{
			name:     "level below one treated as one",
			level:    0,
			xp:       50,
			expected: engine.LevelUpResult{NewLevel: 1, RemainingXP: 50},
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Assert().Equal(tc.expected, engine.CalculateLevelUp(tc.level, tc.xp))
		})
	}
}

func (s *ProgressionTestSuite) TestCalculateLevelUpProperties() {
	for level := 1; level <= 12; level++ {
		for xp := 0; xp <= 5000; xp += 37 {
			result := engine.CalculateLevelUp(level, xp)

			s.Require().GreaterOrEqual(result.NewLevel, level)
			s.Require().Less(result.RemainingXP, engine.ExperienceForNextLevel(result.NewLevel))
			s.Require().Equal(result.NewLevel-level, result.LevelsGained)

			again := engine.CalculateLevelUp(result.NewLevel, result.RemainingXP)
			s.Require().Zero(again.LevelsGained, "level %d xp %d", level, xp)
		}
	}
}

func (s *ProgressionTestSuite) TestExperienceForNextLevel() {
	s.Assert().Equal(100, engine.ExperienceForNextLevel(1))
	s.Assert().Equal(500, engine.ExperienceForNextLevel(5))
}

func (s *ProgressionTestSuite) TestNewGameState() {
	state := engine.NewGameState(entities.ClassWarrior)

	s.Assert().Equal(1, state.Level)
	s.Assert().Equal(100, state.Health)
	s.Assert().Equal(100, state.MaxHealth)
	s.Assert().Zero(state.Experience)
	s.Assert().Zero(state.CurrentScene)
	s.Assert().Empty(state.Inventory)
	s.Assert().Equal(15, state.Stats.Strength)
	s.Assert().Equal(14, state.Stats.Constitution)
	s.Assert().False(state.PendingLevelUp)
}

func (s *ProgressionTestSuite) TestApplyExperienceWithoutLevelUp() {
	state := engine.NewGameState(entities.ClassMage)
	state.Experience = 40

	next, result := engine.ApplyExperience(state, 20)

	s.Assert().Zero(result.LevelsGained)
	s.Assert().Equal(60, next.Experience)
	s.Assert().Equal(1, next.CurrentScene)
	s.Assert().Equal(100, next.MaxHealth)
	s.Assert().False(next.PendingLevelUp)
	s.Assert().Zero(next.LevelsGained)
}

func (s *ProgressionTestSuite) TestApplyExperienceHealsOnLevelUp() {
	state := engine.NewGameState(entities.ClassRogue)
	state.Experience = 90
	state.Health = 55

	next, result := engine.ApplyExperience(state, 15)

	s.Assert().Equal(1, result.LevelsGained)
	s.Assert().Equal(2, next.Level)
	s.Assert().Equal(5, next.Experience)
	s.Assert().Equal(120, next.MaxHealth)
	s.Assert().Equal(75, next.Health)
	s.Assert().True(next.PendingLevelUp)
	s.Assert().Equal(1, next.LevelsGained)
}

func (s *ProgressionTestSuite) TestApplyExperienceKeepsUnallocatedLevelUp() {
	state := engine.NewGameState(entities.ClassCleric)
	state.Level = 2
	state.Experience = 190
	state.PendingLevelUp = true
	state.LevelsGained = 1

	next, _ := engine.ApplyExperience(state, 5)
	s.Assert().True(next.PendingLevelUp)
	s.Assert().Equal(1, next.LevelsGained)

	next, _ = engine.ApplyExperience(next, 10)
	s.Assert().Equal(3, next.Level)
	s.Assert().True(next.PendingLevelUp)
	s.Assert().Equal(2, next.LevelsGained)
}

func (s *ProgressionTestSuite) TestApplyExperienceDoesNotAliasInventory() {
	state := engine.NewGameState(entities.ClassRanger)
	state.Inventory = []string{"rope"}

	next, _ := engine.ApplyExperience(state, 5)
	next.Inventory[0] = "torch"

	s.Assert().Equal("rope", state.Inventory[0])
}

type stubRoller struct {
	value int
	err   error
	sizes []int
}

func (r *stubRoller) Roll(size int) (int, error) {
	r.sizes = append(r.sizes, size)
	return r.value, r.err
}

func (r *stubRoller) RollN(count, size int) ([]int, error) {
	out := make([]int, count)
	for i := range out {
		out[i] = r.value
	}
	return out, r.err
}

func (s *ProgressionTestSuite) TestDiceSourceRange() {
	low := &stubRoller{value: 1}
	gain, err := engine.NewDiceSource(low).Gain()
	s.Require().NoError(err)
	s.Assert().Equal(engine.ExperienceGainMin, gain)
	s.Assert().Equal([]int{20}, low.sizes)

	high := &stubRoller{value: 20}
	gain, err = engine.NewDiceSource(high).Gain()
	s.Require().NoError(err)
	s.Assert().Equal(engine.ExperienceGainMax-1, gain)
}

func (s *ProgressionTestSuite) TestDiceSourceError() {
	_, err := engine.NewDiceSource(&stubRoller{err: errors.New("no dice")}).Gain()
	s.Assert().Error(err)
}

func (s *ProgressionTestSuite) TestDefaultDiceSourceStaysInRange() {
	source := engine.NewDiceSource(nil)
	for i := 0; i < 200; i++ {
		gain, err := source.Gain()
		s.Require().NoError(err)
		s.Require().GreaterOrEqual(gain, engine.ExperienceGainMin)
		s.Require().Less(gain, engine.ExperienceGainMax)
	}
}
