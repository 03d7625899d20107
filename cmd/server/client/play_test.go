package client

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/quest-forge/internal/handlers/questforge/v1alpha1"
)

type AllocateCommandTestSuite struct {
	suite.Suite
	current v1alpha1.Stats
}

func TestAllocateCommandSuite(t *testing.T) {
	suite.Run(t, new(AllocateCommandTestSuite))
}

func (s *AllocateCommandTestSuite) SetupTest() {
	s.current = v1alpha1.Stats{
		Strength:     15,
		Dexterity:    12,
		Intelligence: 10,
		Wisdom:       11,
		Constitution: 14,
		Charisma:     9,
	}
}

func (s *AllocateCommandTestSuite) TearDownTest() {
	for _, name := range []string{"str", "dex", "int", "wis", "con", "cha"} {
		flag := allocateCmd.Flags().Lookup(name)
		s.Require().NoError(flag.Value.Set("0"))
		flag.Changed = false
	}
}

func (s *AllocateCommandTestSuite) TestUnsetFlagsKeepCurrentValues() {
	s.Equal(s.current, applyAllocation(allocateCmd, s.current))
}

func (s *AllocateCommandTestSuite) TestSetFlagsReplaceValues() {
	s.Require().NoError(allocateCmd.Flags().Set("str", "17"))
	s.Require().NoError(allocateCmd.Flags().Set("cha", "10"))

	got := applyAllocation(allocateCmd, s.current)

	want := s.current
	want.Strength = 17
	want.Charisma = 10
	s.Equal(want, got)
}

func (s *AllocateCommandTestSuite) TestExplicitZeroIsKept() {
	s.Require().NoError(allocateCmd.Flags().Set("wis", "0"))

	got := applyAllocation(allocateCmd, s.current)
	s.Zero(got.Wisdom)
	s.Equal(s.current.Strength, got.Strength)
}
