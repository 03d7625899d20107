package narrative_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/quest-forge/internal/clients/openrouter"
	openroutermock "github.com/KirkDiggler/quest-forge/internal/clients/openrouter/mock"
	"github.com/KirkDiggler/quest-forge/internal/entities"
	"github.com/KirkDiggler/quest-forge/internal/errors"
	"github.com/KirkDiggler/quest-forge/internal/narrative"
)

type AITestSuite struct {
	suite.Suite
	ctrl       *gomock.Controller
	mockClient *openroutermock.MockClient
	generator  *narrative.AI
	session    *entities.GameSession
}

func TestAISuite(t *testing.T) {
	suite.Run(t, new(AITestSuite))
}

func (s *AITestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockClient = openroutermock.NewMockClient(s.ctrl)

	var err error
	s.generator, err = narrative.NewAI(&narrative.AIConfig{Client: s.mockClient})
	s.Require().NoError(err)

	s.session = &entities.GameSession{
		ID:             "session_1",
		CharacterName:  "Aria",
		CharacterClass: entities.ClassMage,
		GameState: entities.GameState{
			Level: 1, Health: 100, MaxHealth: 100, Stats: entities.ClassMage.StartingStats(),
		},
	}
}

func (s *AITestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *AITestSuite) TestNewAIRequiresClient() {
	_, err := narrative.NewAI(&narrative.AIConfig{})
	s.Assert().Error(err)

	_, err = narrative.NewAI(nil)
	s.Assert().Error(err)
}

func (s *AITestSuite) TestNextStreamsNarrativeThenChoices() {
	gomock.InOrder(
		s.mockClient.EXPECT().
			Stream(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, in *openrouter.StreamInput) (*openrouter.StreamOutput, error) {
				s.Require().Len(in.Messages, 2)
				s.Assert().Equal(openrouter.RoleSystem, in.Messages[0].Role)
				s.Assert().Contains(in.Messages[0].Content, "game narrator for Quest Forge, a text-based RPG")
				s.Assert().Contains(in.Messages[1].Content, `Narrate what happens after the player chooses: "Cast a light spell"`)
				s.Assert().Contains(in.Messages[1].Content, "Previous action: Cast a light spell")
				in.OnChunk("The room ")
				in.OnChunk("glows.")
				return &openrouter.StreamOutput{Text: "The room glows.\n", Attempts: 1}, nil
			}),
		s.mockClient.EXPECT().
			Stream(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, in *openrouter.StreamInput) (*openrouter.StreamOutput, error) {
				s.Assert().Contains(in.Messages[0].Content, "Generate exactly 3-4 contextual player choices")
				s.Assert().Contains(in.Messages[1].Content, "Current scene: The room glows.")
				s.Assert().NotContains(in.Messages[1].Content, "Previous action")
				return &openrouter.StreamOutput{Text: "Read the runes\nOpen the door\n\nSearch the shelves\n", Attempts: 1}, nil
			}),
	)

	var shown strings.Builder
	out, err := s.generator.Next(context.Background(), &narrative.NextInput{
		Session: s.session,
		Choice:  "Cast a light spell",
		OnChunk: func(c string) { shown.WriteString(c) },
	})

	s.Require().NoError(err)
	s.Assert().Equal("The room glows.", out.Narrative)
	s.Assert().Equal([]string{"Read the runes", "Open the door", "Search the shelves"}, out.Choices)
	s.Assert().Equal(narrative.SourceAI, out.Source)
	s.Assert().Equal("The room glows.", shown.String())
}

func (s *AITestSuite) TestNextRetryResetsCaller() {
	s.mockClient.EXPECT().
		Stream(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, in *openrouter.StreamInput) (*openrouter.StreamOutput, error) {
			in.OnChunk("partial")
			in.OnRetry(1)
			in.OnChunk("complete")
			return &openrouter.StreamOutput{Text: "complete", Attempts: 2}, nil
		})
	s.mockClient.EXPECT().
		Stream(gomock.Any(), gomock.Any()).
		Return(&openrouter.StreamOutput{Text: "a\nb\nc"}, nil)

	var shown strings.Builder
	_, err := s.generator.Next(context.Background(), &narrative.NextInput{
		Session: s.session,
		Choice:  "wait",
		OnChunk: func(c string) { shown.WriteString(c) },
		OnReset: shown.Reset,
	})

	s.Require().NoError(err)
	s.Assert().Equal("complete", shown.String())
}

func (s *AITestSuite) TestNextSurfacesProviderError() {
	s.mockClient.EXPECT().
		Stream(gomock.Any(), gomock.Any()).
		Return(nil, errors.GenerationTimeout(context.DeadlineExceeded, "narrative provider timed out"))

	_, err := s.generator.Next(context.Background(), &narrative.NextInput{Session: s.session, Choice: "wait"})

	s.Require().Error(err)
	s.Assert().True(errors.HasReason(err, errors.ReasonGenerationTimeout))
}

func (s *AITestSuite) TestNextFailsOnTooFewChoices() {
	s.mockClient.EXPECT().
		Stream(gomock.Any(), gomock.Any()).
		Return(&openrouter.StreamOutput{Text: "Something happens."}, nil)
	s.mockClient.EXPECT().
		Stream(gomock.Any(), gomock.Any()).
		Return(&openrouter.StreamOutput{Text: "Run\n\n"}, nil)

	_, err := s.generator.Next(context.Background(), &narrative.NextInput{Session: s.session, Choice: "wait"})

	s.Require().Error(err)
	s.Assert().True(errors.HasReason(err, errors.ReasonValidation))
}

func (s *AITestSuite) TestBackstory() {
	s.mockClient.EXPECT().
		Stream(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, in *openrouter.StreamInput) (*openrouter.StreamOutput, error) {
			s.Assert().Contains(in.Messages[0].Content, "compelling character backstory")
			s.Assert().Contains(in.Messages[1].Content, "Name: Aria\nClass: mage\nStats: STR 10, DEX 10, INT 15")
			s.Assert().Contains(in.Messages[1].Content, "why they became a mage.")
			return &openrouter.StreamOutput{Text: "  Born under a comet.  "}, nil
		})

	out, err := s.generator.Backstory(context.Background(), &narrative.BackstoryInput{
		CharacterName:  "Aria",
		CharacterClass: entities.ClassMage,
		Stats:          entities.ClassMage.StartingStats(),
	})

	s.Require().NoError(err)
	s.Assert().Equal("Born under a comet.", out.Backstory)
}

func (s *AITestSuite) TestConfigured() {
	s.mockClient.EXPECT().Configured().Return(false)
	s.Assert().False(s.generator.Configured())
}
