package v1alpha1_test

import (
	"context"
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/KirkDiggler/quest-forge/internal/entities"
	"github.com/KirkDiggler/quest-forge/internal/errors"
	"github.com/KirkDiggler/quest-forge/internal/handlers/questforge/v1alpha1"
	"github.com/KirkDiggler/quest-forge/internal/services/auth"
	authmock "github.com/KirkDiggler/quest-forge/internal/services/auth/mock"
	"github.com/KirkDiggler/quest-forge/internal/services/game"
	gamemock "github.com/KirkDiggler/quest-forge/internal/services/game/mock"
	"github.com/KirkDiggler/quest-forge/internal/services/gamestate"
	"github.com/KirkDiggler/quest-forge/internal/services/levelup"
	"github.com/KirkDiggler/quest-forge/internal/testutils"
)

// ServerTestSuite drives the handlers through a real gRPC server so the
// service descriptors, JSON codec and auth interceptors are exercised.
type ServerTestSuite struct {
	suite.Suite

	ctrl     *gomock.Controller
	mockAuth *authmock.MockService
	mockGame *gamemock.MockService
	server   *grpc.Server
	conn     *grpc.ClientConn
	authAPI  *v1alpha1.AuthServiceClient
	gameAPI  *v1alpha1.GameServiceClient
	user     *entities.User
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func (s *ServerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockAuth = authmock.NewMockService(s.ctrl)
	s.mockGame = gamemock.NewMockService(s.ctrl)
	s.user = testutils.CreateTestUser(testutils.TestUserID)

	store := gamestate.NewStore()
	notifier, err := levelup.New(&levelup.Config{State: store, Game: s.mockGame})
	s.Require().NoError(err)

	authHandler, err := v1alpha1.NewAuthHandler(&v1alpha1.AuthHandlerConfig{AuthService: s.mockAuth})
	s.Require().NoError(err)
	gameHandler, err := v1alpha1.NewGameHandler(&v1alpha1.GameHandlerConfig{
		GameService: s.mockGame,
		State:       store,
		LevelUps:    notifier,
	})
	s.Require().NoError(err)

	lis := bufconn.Listen(1 << 20)
	s.server = grpc.NewServer(
		grpc.ChainUnaryInterceptor(v1alpha1.UnaryAuthInterceptor(s.mockAuth)),
		grpc.ChainStreamInterceptor(v1alpha1.StreamAuthInterceptor(s.mockAuth)),
	)
	v1alpha1.RegisterAuthServiceServer(s.server, authHandler)
	v1alpha1.RegisterGameServiceServer(s.server, gameHandler)
	go func() {
		_ = s.server.Serve(lis)
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	s.Require().NoError(err)
	s.conn = conn
	s.authAPI = v1alpha1.NewAuthServiceClient(conn)
	s.gameAPI = v1alpha1.NewGameServiceClient(conn)
}

func (s *ServerTestSuite) TearDownTest() {
	_ = s.conn.Close()
	s.server.Stop()
	s.ctrl.Finish()
}

func (s *ServerTestSuite) expectToken(token string) {
	s.mockAuth.EXPECT().
		Authenticate(gomock.Any(), token).
		Return(s.user, nil)
}

func (s *ServerTestSuite) TestGameCallWithoutToken() {
	_, err := s.gameAPI.GetLatestSession(context.Background())
	s.Equal(codes.Unauthenticated, status.Code(err))
}

func (s *ServerTestSuite) TestGameCallWithRevokedToken() {
	s.mockAuth.EXPECT().
		Authenticate(gomock.Any(), "revoked").
		Return(nil, errors.Unauthenticated("access token was revoked").WithReason(errors.Reason(auth.KindInvalidToken)))

	_, err := s.gameAPI.GetLatestSession(context.Background(), v1alpha1.BearerToken("revoked"))
	s.Require().Error(err)
	s.Equal(codes.Unauthenticated, status.Code(err))
	s.Equal(auth.KindInvalidToken, auth.Classify(errors.FromGRPCError(err)))
}

func (s *ServerTestSuite) TestSignInIsPublic() {
	s.mockAuth.EXPECT().
		SignIn(gomock.Any(), &auth.SignInInput{Email: "a@example.com", Password: "secret1"}).
		Return(&auth.SignInOutput{Session: &auth.Session{AccessToken: "jwt", User: s.user}}, nil)

	resp, err := s.authAPI.SignIn(context.Background(), &v1alpha1.SignInRequest{Email: "a@example.com", Password: "secret1"})
	s.Require().NoError(err)
	s.Equal("jwt", resp.Session.AccessToken)
	s.Equal(s.user.ID, resp.Session.User.ID)
}

func (s *ServerTestSuite) TestGetCurrentUser() {
	s.expectToken("jwt")

	resp, err := s.authAPI.GetCurrentUser(context.Background(), v1alpha1.BearerToken("jwt"))
	s.Require().NoError(err)
	s.Equal(s.user.Email, resp.User.Email)
}

func (s *ServerTestSuite) TestMakeChoiceErrorKeepsReason() {
	s.expectToken("jwt")
	s.mockGame.EXPECT().
		MakeChoice(gomock.Any(), gomock.Any()).
		Return(nil, errors.SceneAlreadyResolved("scene already has a choice"))

	_, err := s.gameAPI.MakeChoice(context.Background(), &v1alpha1.MakeChoiceRequest{
		SessionID: testutils.TestSessionID,
		SceneID:   "scene-0",
		Choice:    "Climb the oak",
	}, v1alpha1.BearerToken("jwt"))
	s.Require().Error(err)
	s.Equal(codes.Aborted, status.Code(err))
	s.Equal(errors.ReasonSceneAlreadyResolved, errors.GetReason(errors.FromGRPCError(err)))
}

func (s *ServerTestSuite) TestStreamChoice() {
	s.expectToken("jwt")
	session := testutils.CreateTestSession(testutils.TestUserID)
	next := testutils.CreateTestScene(session.ID, 1)
	s.mockGame.EXPECT().
		MakeChoice(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *game.MakeChoiceInput) (*game.MakeChoiceOutput, error) {
			s.Equal(testutils.TestUserID, input.UserID)
			input.OnChunk("You climb ")
			input.OnChunk("the oak.")
			return &game.MakeChoiceOutput{
				Session:          session,
				ResolvedScene:    testutils.CreateResolvedTestScene(session.ID, 0, input.Choice),
				NextScene:        next,
				ExperienceGained: 12,
			}, nil
		})

	stream, err := s.gameAPI.StreamChoice(context.Background(), &v1alpha1.MakeChoiceRequest{
		SessionID: session.ID,
		Choice:    "Climb the oak",
	}, v1alpha1.BearerToken("jwt"))
	s.Require().NoError(err)

	var text string
	var result *v1alpha1.MakeChoiceResponse
	for {
		event, err := stream.Recv()
		if err == io.EOF {
			break
		}
		s.Require().NoError(err)
		text += event.Chunk
		if event.Result != nil {
			result = event.Result
		}
	}

	s.Equal("You climb the oak.", text)
	s.Require().NotNil(result)
	s.Equal(12, result.ExperienceGained)
	s.Equal(next.ID, result.NextScene.ID)
	s.Require().NotNil(result.ResolvedScene.PlayerChoice)
	s.Equal("Climb the oak", *result.ResolvedScene.PlayerChoice)
}
