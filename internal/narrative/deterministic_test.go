package narrative_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/quest-forge/internal/entities"
	"github.com/KirkDiggler/quest-forge/internal/narrative"
)

type DeterministicTestSuite struct {
	suite.Suite
	generator *narrative.Deterministic
	session   *entities.GameSession
}

func TestDeterministicSuite(t *testing.T) {
	suite.Run(t, new(DeterministicTestSuite))
}

func (s *DeterministicTestSuite) SetupTest() {
	s.generator = narrative.NewDeterministic()
	s.session = &entities.GameSession{
		ID:             "session_1",
		CharacterName:  "Aria",
		CharacterClass: entities.ClassRanger,
	}
}

func (s *DeterministicTestSuite) TestForestIsCaseInsensitive() {
	forestChoices := []string{
		"Draw your weapon and investigate the sound",
		"Try to sneak past quietly",
		"Call out to see who or what is there",
	}

	for _, choice := range []string{"Explore the mysterious forest path", "FOREST", "back to the Forest edge"} {
		s.Run(choice, func() {
			out, err := s.generator.Next(context.Background(), &narrative.NextInput{Session: s.session, Choice: choice})
			s.Require().NoError(err)
			s.Assert().Contains(out.Narrative, "You venture into the mysterious forest")
			s.Assert().Contains(out.Narrative, "Your ranger instincts tell you")
			s.Assert().Equal(forestChoices, out.Choices)
			s.Assert().Equal(narrative.SourceDeterministic, out.Source)
		})
	}
}

func (s *DeterministicTestSuite) TestForestInterpolatesOnlyClass() {
	mage := *s.session
	mage.CharacterClass = entities.ClassMage

	rangerText, rangerChoices := narrative.Scene("forest", entities.ClassRanger)
	mageText, mageChoices := narrative.Scene("forest", mage.CharacterClass)

	s.Assert().Equal(rangerChoices, mageChoices)
	s.Assert().NotEqual(rangerText, mageText)
	s.Assert().Contains(mageText, "Your mage instincts")
}

func (s *DeterministicTestSuite) TestTavernAndMarket() {
	text, choices := narrative.Scene("Visit the local tavern for information", entities.ClassWarrior)
	s.Assert().Contains(text, `"The Prancing Pony"`)
	s.Assert().Equal("Approach the hooded figure", choices[0])

	text, choices = narrative.Scene("Head to the town market to gather supplies", entities.ClassWarrior)
	s.Assert().Contains(text, "bustling town market")
	s.Assert().Equal("Look for basic adventuring supplies", choices[2])
}

func (s *DeterministicTestSuite) TestKeywordOrder() {
	// "market" also mentions the haunted forest; forest is checked first
	text, _ := narrative.Scene("Ask about the herbs from the haunted forest", entities.ClassCleric)
	s.Assert().Contains(text, "mysterious forest")
}

func (s *DeterministicTestSuite) TestDefault() {
	text, choices := narrative.Scene("Rest and plan your next move", entities.ClassRogue)
	s.Assert().Equal(narrative.DefaultNarrative, text)
	s.Assert().Equal([]string{
		"Continue your adventure",
		"Rest and plan your next move",
		"Seek guidance from locals",
	}, choices)
}

func (s *DeterministicTestSuite) TestChoicesAreCopies() {
	_, choices := narrative.Scene("forest", entities.ClassRogue)
	choices[0] = "changed"

	_, again := narrative.Scene("forest", entities.ClassRogue)
	s.Assert().Equal("Draw your weapon and investigate the sound", again[0])

	initial := narrative.InitialChoices()
	initial[0] = "changed"
	s.Assert().Equal("Explore the mysterious forest path", narrative.InitialChoices()[0])
}

func (s *DeterministicTestSuite) TestOnChunkReceivesNarrative() {
	var chunks []string
	out, err := s.generator.Next(context.Background(), &narrative.NextInput{
		Session: s.session,
		Choice:  "tavern",
		OnChunk: func(c string) { chunks = append(chunks, c) },
	})
	s.Require().NoError(err)
	s.Assert().Equal([]string{out.Narrative}, chunks)
}

func (s *DeterministicTestSuite) TestInitialNarrative() {
	text := narrative.InitialNarrative("Aria", entities.ClassPaladin)
	s.Assert().True(len(text) > 0)
	s.Assert().Contains(text, "Welcome, Aria! You are a righteous paladin, champion of justice, standing at the edge")
	s.Assert().Contains(text, "\n\nWhat path will you choose to start your quest?")
	s.Assert().Len(narrative.InitialChoices(), 3)
}

func (s *DeterministicTestSuite) TestRequiresSession() {
	_, err := s.generator.Next(context.Background(), &narrative.NextInput{Choice: "forest"})
	s.Assert().Error(err)
}
