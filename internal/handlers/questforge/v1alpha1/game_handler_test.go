package v1alpha1_test

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/KirkDiggler/quest-forge/internal/engine"
	"github.com/KirkDiggler/quest-forge/internal/entities"
	"github.com/KirkDiggler/quest-forge/internal/errors"
	"github.com/KirkDiggler/quest-forge/internal/handlers/questforge/v1alpha1"
	"github.com/KirkDiggler/quest-forge/internal/services/game"
	gamemock "github.com/KirkDiggler/quest-forge/internal/services/game/mock"
	"github.com/KirkDiggler/quest-forge/internal/services/gamestate"
	"github.com/KirkDiggler/quest-forge/internal/services/levelup"
	"github.com/KirkDiggler/quest-forge/internal/testutils"
	"github.com/KirkDiggler/quest-forge/internal/testutils/builders"
)

// fakeStream records what a server-streaming handler sends
type fakeStream[T any] struct {
	grpc.ServerStream
	ctx     context.Context
	sent    chan *T
	sendErr error
}

func newFakeStream[T any](ctx context.Context) *fakeStream[T] {
	return &fakeStream[T]{ctx: ctx, sent: make(chan *T, 64)}
}

func (f *fakeStream[T]) Context() context.Context { return f.ctx }

func (f *fakeStream[T]) Send(m *T) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent <- m
	return nil
}

func (f *fakeStream[T]) next(s *suite.Suite) *T {
	select {
	case m := <-f.sent:
		return m
	case <-time.After(2 * time.Second):
		s.FailNow("timed out waiting for stream message")
		return nil
	}
}

func (f *fakeStream[T]) drain() []*T {
	var out []*T
	for {
		select {
		case m := <-f.sent:
			out = append(out, m)
		default:
			return out
		}
	}
}

type GameHandlerTestSuite struct {
	suite.Suite

	ctrl      *gomock.Controller
	mockGame  *gamemock.MockService
	store     *gamestate.Store
	notifier  *levelup.Notifier
	handler   *v1alpha1.GameHandler
	ctx       context.Context
	user      *entities.User
	session   *entities.GameSession
	scene     *entities.Scene
	sessionID string
}

func TestGameHandlerSuite(t *testing.T) {
	suite.Run(t, new(GameHandlerTestSuite))
}

func (s *GameHandlerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockGame = gamemock.NewMockService(s.ctrl)
	s.store = gamestate.NewStore()

	notifier, err := levelup.New(&levelup.Config{State: s.store, Game: s.mockGame})
	s.Require().NoError(err)
	s.notifier = notifier

	handler, err := v1alpha1.NewGameHandler(&v1alpha1.GameHandlerConfig{
		GameService: s.mockGame,
		State:       s.store,
		LevelUps:    s.notifier,
	})
	s.Require().NoError(err)
	s.handler = handler

	s.user = testutils.CreateTestUser(testutils.TestUserID)
	s.ctx = v1alpha1.WithUser(context.Background(), s.user, "token-1")
	s.session = testutils.CreateTestSession(testutils.TestUserID)
	s.sessionID = s.session.ID
	s.scene = testutils.CreateTestScene(s.sessionID, 0)
}

func (s *GameHandlerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *GameHandlerTestSuite) TestNewGameHandlerRequiresDependencies() {
	_, err := v1alpha1.NewGameHandler(&v1alpha1.GameHandlerConfig{})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))

	_, err = v1alpha1.NewGameHandler(nil)
	s.Error(err)
}

func (s *GameHandlerTestSuite) TestCreateCharacter() {
	s.mockGame.EXPECT().
		CreateSession(s.ctx, &game.CreateSessionInput{
			UserID:         testutils.TestUserID,
			CharacterName:  "Aria",
			CharacterClass: "warrior",
		}).
		Return(&game.CreateSessionOutput{Session: s.session, Scene: s.scene}, nil)

	resp, err := s.handler.CreateCharacter(s.ctx, &v1alpha1.CreateCharacterRequest{
		CharacterName:  "Aria",
		CharacterClass: "warrior",
	})
	s.Require().NoError(err)
	s.Equal(s.sessionID, resp.Session.ID)
	s.Equal("warrior", resp.Session.CharacterClass)
	s.Equal(engine.ExperiencePerLevel, resp.Session.GameState.ExperienceToNextLevel)
	s.Zero(resp.Session.GameState.AvailablePoints)
	s.Equal(s.scene.Choices, resp.Scene.Choices)
	s.Nil(resp.Scene.PlayerChoice)
}

func (s *GameHandlerTestSuite) TestCreateCharacterValidationError() {
	s.mockGame.EXPECT().
		CreateSession(s.ctx, gomock.Any()).
		Return(nil, errors.NewValidationBuilder().RequiredField("characterName").Build())

	_, err := s.handler.CreateCharacter(s.ctx, &v1alpha1.CreateCharacterRequest{CharacterClass: "mage"})
	s.Require().Error(err)
	s.Equal(codes.InvalidArgument, status.Code(err))
	s.Equal(errors.ReasonValidation, errors.GetReason(errors.FromGRPCError(err)))
}

func (s *GameHandlerTestSuite) TestRequiresUser() {
	_, err := s.handler.GetLatestSession(context.Background(), &v1alpha1.Empty{})
	s.Equal(codes.Unauthenticated, status.Code(err))

	_, err = s.handler.MakeChoice(context.Background(), &v1alpha1.MakeChoiceRequest{SessionID: s.sessionID, Choice: "x"})
	s.Equal(codes.Unauthenticated, status.Code(err))
}

func (s *GameHandlerTestSuite) TestGetSessionRequiresID() {
	_, err := s.handler.GetSession(s.ctx, &v1alpha1.GetSessionRequest{})
	s.Equal(codes.InvalidArgument, status.Code(err))
}

func (s *GameHandlerTestSuite) TestGetSession() {
	resolved := testutils.CreateResolvedTestScene(s.sessionID, 0, "Climb the oak")
	next := testutils.CreateTestScene(s.sessionID, 1)
	s.mockGame.EXPECT().
		GetSession(s.ctx, &game.GetSessionInput{UserID: testutils.TestUserID, SessionID: s.sessionID}).
		Return(&game.GetSessionOutput{
			Session:      s.session,
			Scenes:       []*entities.Scene{resolved, next},
			CurrentScene: next,
		}, nil)

	resp, err := s.handler.GetSession(s.ctx, &v1alpha1.GetSessionRequest{SessionID: s.sessionID})
	s.Require().NoError(err)
	s.Require().Len(resp.Scenes, 2)
	s.Require().NotNil(resp.Scenes[0].PlayerChoice)
	s.Equal("Climb the oak", *resp.Scenes[0].PlayerChoice)
	s.Equal(next.ID, resp.CurrentScene.ID)
}

func (s *GameHandlerTestSuite) TestGetLatestSessionNotFound() {
	s.mockGame.EXPECT().
		GetLatestSession(s.ctx, &game.GetLatestSessionInput{UserID: testutils.TestUserID}).
		Return(nil, errors.NotFound("no sessions found"))

	_, err := s.handler.GetLatestSession(s.ctx, &v1alpha1.Empty{})
	s.Equal(codes.NotFound, status.Code(err))
}

func (s *GameHandlerTestSuite) TestListSessions() {
	other := builders.NewSessionBuilder().WithID("session-2").WithUserID(testutils.TestUserID).Build()
	s.mockGame.EXPECT().
		ListSessions(s.ctx, &game.ListSessionsInput{UserID: testutils.TestUserID, Limit: 5}).
		Return(&game.ListSessionsOutput{Sessions: []*entities.GameSession{other, s.session}}, nil)

	resp, err := s.handler.ListSessions(s.ctx, &v1alpha1.ListSessionsRequest{Limit: 5})
	s.Require().NoError(err)
	s.Require().Len(resp.Sessions, 2)
	s.Equal("session-2", resp.Sessions[0].ID)

	_, err = s.handler.ListSessions(s.ctx, &v1alpha1.ListSessionsRequest{Limit: -1})
	s.Equal(codes.InvalidArgument, status.Code(err))
}

func (s *GameHandlerTestSuite) TestMakeChoiceReportsLevelUp() {
	updated := builders.NewSessionBuilder().
		WithID(s.sessionID).
		WithUserID(testutils.TestUserID).
		WithLevel(2, 10).
		WithPendingLevelUp(1).
		Build()
	resolved := testutils.CreateResolvedTestScene(s.sessionID, 0, "Climb the oak")
	next := testutils.CreateTestScene(s.sessionID, 1)

	s.mockGame.EXPECT().
		MakeChoice(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input *game.MakeChoiceInput) (*game.MakeChoiceOutput, error) {
			s.Equal(testutils.TestUserID, input.UserID)
			s.Equal(s.sessionID, input.SessionID)
			s.Equal(s.scene.ID, input.SceneID)
			s.Equal("Climb the oak", input.Choice)
			return &game.MakeChoiceOutput{
				Session:          updated,
				ResolvedScene:    resolved,
				NextScene:        next,
				ExperienceGained: 20,
				LevelUp:          engine.CalculateLevelUp(1, 110),
				Source:           "deterministic",
			}, nil
		})

	resp, err := s.handler.MakeChoice(s.ctx, &v1alpha1.MakeChoiceRequest{
		SessionID: s.sessionID,
		SceneID:   s.scene.ID,
		Choice:    "Climb the oak",
	})
	s.Require().NoError(err)
	s.Equal(20, resp.ExperienceGained)
	s.Require().NotNil(resp.LevelUp)
	s.Equal(2, resp.LevelUp.NewLevel)
	s.Equal(3, resp.LevelUp.TotalAttributePoints)
	s.Equal(3, resp.Session.GameState.AvailablePoints)
	s.True(resp.Session.GameState.PendingLevelUp)
	s.Equal("deterministic", resp.Source)
}

func (s *GameHandlerTestSuite) TestMakeChoiceNoLevelUp() {
	s.mockGame.EXPECT().
		MakeChoice(s.ctx, gomock.Any()).
		Return(&game.MakeChoiceOutput{
			Session:          s.session,
			ResolvedScene:    testutils.CreateResolvedTestScene(s.sessionID, 0, "Climb the oak"),
			NextScene:        testutils.CreateTestScene(s.sessionID, 1),
			ExperienceGained: 7,
			LevelUp:          engine.CalculateLevelUp(1, 7),
		}, nil)

	resp, err := s.handler.MakeChoice(s.ctx, &v1alpha1.MakeChoiceRequest{SessionID: s.sessionID, Choice: "Climb the oak"})
	s.Require().NoError(err)
	s.Nil(resp.LevelUp)
}

func (s *GameHandlerTestSuite) TestMakeChoiceMapsGameErrors() {
	s.mockGame.EXPECT().
		MakeChoice(s.ctx, gomock.Any()).
		Return(nil, errors.NoActiveSession("no active session"))

	_, err := s.handler.MakeChoice(s.ctx, &v1alpha1.MakeChoiceRequest{SessionID: s.sessionID, Choice: "Climb the oak"})
	s.Require().Error(err)
	s.Equal(codes.FailedPrecondition, status.Code(err))
	s.True(errors.IsNoActiveSession(errors.FromGRPCError(err)))
}

func (s *GameHandlerTestSuite) TestStreamChoiceSendsChunksThenResult() {
	next := testutils.CreateTestScene(s.sessionID, 1)
	s.mockGame.EXPECT().
		MakeChoice(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input *game.MakeChoiceInput) (*game.MakeChoiceOutput, error) {
			input.OnChunk("The road")
			input.OnReset()
			input.OnChunk("The road forks")
			return &game.MakeChoiceOutput{
				Session:       s.session,
				ResolvedScene: testutils.CreateResolvedTestScene(s.sessionID, 0, "Climb the oak"),
				NextScene:     next,
			}, nil
		})

	stream := newFakeStream[v1alpha1.StreamChoiceEvent](s.ctx)
	err := s.handler.StreamChoice(&v1alpha1.MakeChoiceRequest{SessionID: s.sessionID, Choice: "Climb the oak"}, stream)
	s.Require().NoError(err)

	events := stream.drain()
	s.Require().Len(events, 4)
	s.Equal("The road", events[0].Chunk)
	s.True(events[1].Reset)
	s.Equal("The road forks", events[2].Chunk)
	s.Require().NotNil(events[3].Result)
	s.Equal(next.ID, events[3].Result.NextScene.ID)
}

func (s *GameHandlerTestSuite) TestStreamChoiceGenerationFailure() {
	s.mockGame.EXPECT().
		MakeChoice(s.ctx, gomock.Any()).
		Return(nil, errors.Generation(stderrors.New("provider down"), "failed to generate scene"))

	stream := newFakeStream[v1alpha1.StreamChoiceEvent](s.ctx)
	err := s.handler.StreamChoice(&v1alpha1.MakeChoiceRequest{SessionID: s.sessionID, Choice: "Climb the oak"}, stream)
	s.Require().Error(err)
	s.Equal(codes.Unavailable, status.Code(err))
	s.Empty(stream.drain())
}

func (s *GameHandlerTestSuite) TestUpdateStats() {
	stats := entities.ClassWarrior.StartingStats()
	stats.Strength += 3
	s.mockGame.EXPECT().
		UpdateStats(s.ctx, &game.UpdateStatsInput{
			UserID:    testutils.TestUserID,
			SessionID: s.sessionID,
			Stats:     stats,
		}).
		Return(&game.UpdateStatsOutput{Session: s.session}, nil)

	req := &v1alpha1.UpdateStatsRequest{SessionID: s.sessionID}
	req.Stats.Strength = stats.Strength
	req.Stats.Dexterity = stats.Dexterity
	req.Stats.Intelligence = stats.Intelligence
	req.Stats.Wisdom = stats.Wisdom
	req.Stats.Constitution = stats.Constitution
	req.Stats.Charisma = stats.Charisma

	resp, err := s.handler.UpdateStats(s.ctx, req)
	s.Require().NoError(err)
	s.Equal(s.sessionID, resp.Session.ID)
}

func (s *GameHandlerTestSuite) TestUpdateStatsInvalidAllocation() {
	s.mockGame.EXPECT().
		UpdateStats(s.ctx, gomock.Any()).
		Return(nil, errors.InvalidAllocation("must spend exactly 3 points").WithMeta("spent", 2))

	_, err := s.handler.UpdateStats(s.ctx, &v1alpha1.UpdateStatsRequest{SessionID: s.sessionID})
	s.Require().Error(err)
	converted := errors.FromGRPCError(err)
	s.True(errors.IsInvalidAllocation(converted))
	s.Equal("2", errors.GetMeta(converted)["spent"])
}

func (s *GameHandlerTestSuite) TestAcknowledgeLevelUpRefusedWithPoints() {
	pending := builders.NewSessionBuilder().
		WithID(s.sessionID).
		WithUserID(testutils.TestUserID).
		WithPendingLevelUp(1).
		Build()
	s.mockGame.EXPECT().
		GetSession(s.ctx, gomock.Any()).
		Return(&game.GetSessionOutput{Session: pending}, nil)

	_, err := s.handler.AcknowledgeLevelUp(s.ctx, &v1alpha1.SessionIDRequest{SessionID: s.sessionID})
	s.Require().Error(err)
	s.Equal(codes.FailedPrecondition, status.Code(err))
	s.Equal(errors.ReasonUnallocatedPoints, errors.GetReason(errors.FromGRPCError(err)))
}

func (s *GameHandlerTestSuite) TestAcknowledgeLevelUp() {
	s.mockGame.EXPECT().
		GetSession(s.ctx, gomock.Any()).
		Return(&game.GetSessionOutput{Session: s.session}, nil)
	s.mockGame.EXPECT().
		ClearPendingLevelUp(s.ctx, &game.ClearPendingLevelUpInput{UserID: testutils.TestUserID, SessionID: s.sessionID}).
		Return(&game.ClearPendingLevelUpOutput{Session: s.session}, nil)

	_, err := s.handler.AcknowledgeLevelUp(s.ctx, &v1alpha1.SessionIDRequest{SessionID: s.sessionID})
	s.NoError(err)
}

func (s *GameHandlerTestSuite) TestClearPendingLevelUpRefusedWithPoints() {
	s.mockGame.EXPECT().
		ClearPendingLevelUp(s.ctx, &game.ClearPendingLevelUpInput{UserID: testutils.TestUserID, SessionID: s.sessionID}).
		Return(nil, errors.FailedPrecondition("attribute points must be spent first").
			WithReason(errors.ReasonUnallocatedPoints))

	_, err := s.handler.ClearPendingLevelUp(s.ctx, &v1alpha1.SessionIDRequest{SessionID: s.sessionID})
	s.Equal(codes.FailedPrecondition, status.Code(err))
	s.Equal(errors.ReasonUnallocatedPoints, errors.GetReason(errors.FromGRPCError(err)))
}

func (s *GameHandlerTestSuite) TestWatchSessionStreamsChanges() {
	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()

	s.mockGame.EXPECT().
		GetSession(ctx, &game.GetSessionInput{UserID: testutils.TestUserID, SessionID: s.sessionID}).
		Return(&game.GetSessionOutput{
			Session:      s.session,
			Scenes:       []*entities.Scene{s.scene},
			CurrentScene: s.scene,
		}, nil)

	stream := newFakeStream[v1alpha1.WatchSessionEvent](ctx)
	done := make(chan error, 1)
	go func() {
		done <- s.handler.WatchSession(&v1alpha1.SessionIDRequest{SessionID: s.sessionID}, stream)
	}()

	initial := stream.next(&s.Suite)
	s.Require().NotNil(initial.Snapshot)
	s.Equal(s.scene.ID, initial.Snapshot.CurrentScene.ID)

	leveled := builders.NewSessionBuilder().
		WithID(s.sessionID).
		WithUserID(testutils.TestUserID).
		WithLevel(2, 5).
		WithPendingLevelUp(1).
		Build()
	s.store.Publish(context.Background(), &gamestate.Snapshot{
		Session: leveled,
		Scenes:  []*entities.Scene{testutils.CreateResolvedTestScene(s.sessionID, 0, "Climb the oak")},
	})

	update := stream.next(&s.Suite)
	s.Require().NotNil(update.Snapshot)
	s.Equal(2, update.Snapshot.Session.GameState.Level)
	s.Nil(update.Snapshot.CurrentScene)

	levelUp := stream.next(&s.Suite)
	s.Require().NotNil(levelUp.LevelUp)
	s.Equal(2, levelUp.LevelUp.NewLevel)
	s.Equal(3, levelUp.LevelUp.AvailablePoints)

	cancel()
	select {
	case err := <-done:
		s.NoError(err)
	case <-time.After(2 * time.Second):
		s.FailNow("watch did not stop after cancel")
	}
}

func (s *GameHandlerTestSuite) TestWatchSessionOfAnotherUser() {
	s.mockGame.EXPECT().
		GetSession(s.ctx, gomock.Any()).
		Return(nil, errors.PermissionDenied("session belongs to another user"))

	stream := newFakeStream[v1alpha1.WatchSessionEvent](s.ctx)
	err := s.handler.WatchSession(&v1alpha1.SessionIDRequest{SessionID: s.sessionID}, stream)
	s.Equal(codes.PermissionDenied, status.Code(err))
	s.Empty(stream.drain())
	s.Zero(s.store.Listeners(s.sessionID))
}

func (s *GameHandlerTestSuite) TestGenerateBackstory() {
	s.mockGame.EXPECT().
		GenerateBackstory(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input *game.GenerateBackstoryInput) (*game.GenerateBackstoryOutput, error) {
			s.Equal("Aria", input.CharacterName)
			input.OnChunk("Born in Millhaven")
			return &game.GenerateBackstoryOutput{Backstory: "Born in Millhaven."}, nil
		})

	stream := newFakeStream[v1alpha1.BackstoryEvent](s.ctx)
	err := s.handler.GenerateBackstory(&v1alpha1.GenerateBackstoryRequest{CharacterName: "Aria", CharacterClass: "mage"}, stream)
	s.Require().NoError(err)

	events := stream.drain()
	s.Require().Len(events, 2)
	s.Equal("Born in Millhaven", events[0].Chunk)
	s.Equal("Born in Millhaven.", events[1].Backstory)
}
