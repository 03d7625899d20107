package v1alpha1

import (
	"context"
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/KirkDiggler/quest-forge/internal/errors"
	"github.com/KirkDiggler/quest-forge/internal/metrics"
	"github.com/KirkDiggler/quest-forge/internal/services/game"
	"github.com/KirkDiggler/quest-forge/internal/services/gamestate"
	"github.com/KirkDiggler/quest-forge/internal/services/levelup"
)

// watchBuffer is how many events a slow WatchSession client may fall behind
// before events are dropped
const watchBuffer = 32

// LevelUpWatcher raises and dismisses level-up prompts
type LevelUpWatcher interface {
	Watch(ctx context.Context, input *levelup.WatchInput, fn func(levelup.Event)) (*levelup.WatchOutput, error)
	Acknowledge(ctx context.Context, input *levelup.AcknowledgeInput) error
}

// GameHandlerConfig holds dependencies for the game handler
type GameHandlerConfig struct {
	GameService game.Service
	State       gamestate.Subscriber
	LevelUps    LevelUpWatcher
	Metrics     *metrics.Metrics
}

// Validate ensures all required dependencies are present
func (c *GameHandlerConfig) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.GameService == nil {
		vb.RequiredField("GameService")
	}
	if c.State == nil {
		vb.RequiredField("State")
	}
	if c.LevelUps == nil {
		vb.RequiredField("LevelUps")
	}
	return vb.Build()
}

// GameHandler implements GameService
type GameHandler struct {
	gameService game.Service
	state       gamestate.Subscriber
	levelUps    LevelUpWatcher
	metrics     *metrics.Metrics
}

var _ GameServiceServer = (*GameHandler)(nil)

// NewGameHandler creates a new game handler
func NewGameHandler(cfg *GameHandlerConfig) (*GameHandler, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &GameHandler{
		gameService: cfg.GameService,
		state:       cfg.State,
		levelUps:    cfg.LevelUps,
		metrics:     cfg.Metrics,
	}, nil
}

// CreateCharacter starts a new session for the caller
func (h *GameHandler) CreateCharacter(ctx context.Context, req *CreateCharacterRequest) (*CreateCharacterResponse, error) {
	user, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	output, err := h.gameService.CreateSession(ctx, &game.CreateSessionInput{
		UserID:         user.ID,
		CharacterName:  req.CharacterName,
		CharacterClass: req.CharacterClass,
		Backstory:      req.Backstory,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &CreateCharacterResponse{
		Session: convertSessionToAPI(output.Session),
		Scene:   convertSceneToAPI(output.Scene),
	}, nil
}

// GetSession loads one of the caller's sessions
func (h *GameHandler) GetSession(ctx context.Context, req *GetSessionRequest) (*SessionResponse, error) {
	user, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if req.SessionID == "" {
		return nil, status.Error(codes.InvalidArgument, "session_id is required")
	}

	output, err := h.gameService.GetSession(ctx, &game.GetSessionInput{
		UserID:    user.ID,
		SessionID: req.SessionID,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return convertSessionOutputToAPI(output), nil
}

// GetLatestSession loads the session the caller played last
func (h *GameHandler) GetLatestSession(ctx context.Context, _ *Empty) (*SessionResponse, error) {
	user, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	output, err := h.gameService.GetLatestSession(ctx, &game.GetLatestSessionInput{UserID: user.ID})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return convertSessionOutputToAPI(output), nil
}

// ListSessions lists the caller's sessions
func (h *GameHandler) ListSessions(ctx context.Context, req *ListSessionsRequest) (*ListSessionsResponse, error) {
	user, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if req.Limit < 0 {
		return nil, status.Error(codes.InvalidArgument, "limit must not be negative")
	}

	output, err := h.gameService.ListSessions(ctx, &game.ListSessionsInput{
		UserID: user.ID,
		Limit:  req.Limit,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	sessions := make([]*Session, 0, len(output.Sessions))
	for _, s := range output.Sessions {
		sessions = append(sessions, convertSessionToAPI(s))
	}
	return &ListSessionsResponse{Sessions: sessions}, nil
}

// MakeChoice answers the current scene and returns the next one
func (h *GameHandler) MakeChoice(ctx context.Context, req *MakeChoiceRequest) (*MakeChoiceResponse, error) {
	input, err := h.makeChoiceInput(ctx, req)
	if err != nil {
		return nil, err
	}

	output, err := h.gameService.MakeChoice(ctx, input)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return convertMakeChoiceOutputToAPI(output), nil
}

// StreamChoice is MakeChoice with the next scene's narrative streamed as it
// is written. The final event carries the committed turn.
func (h *GameHandler) StreamChoice(req *MakeChoiceRequest, stream grpc.ServerStreamingServer[StreamChoiceEvent]) error {
	ctx := stream.Context()
	input, err := h.makeChoiceInput(ctx, req)
	if err != nil {
		return err
	}

	var sendErr error
	send := func(event *StreamChoiceEvent) {
		if sendErr != nil {
			return
		}
		sendErr = stream.Send(event)
	}
	input.OnChunk = func(chunk string) {
		send(&StreamChoiceEvent{Chunk: chunk})
	}
	input.OnReset = func() {
		send(&StreamChoiceEvent{Reset: true})
	}

	output, err := h.gameService.MakeChoice(ctx, input)
	if err != nil {
		return errors.ToGRPCError(err)
	}
	if sendErr != nil {
		slog.WarnContext(ctx, "choice committed but stream failed",
			"session_id", req.SessionID,
			"error", sendErr)
		return sendErr
	}

	return stream.Send(&StreamChoiceEvent{Result: convertMakeChoiceOutputToAPI(output)})
}

func (h *GameHandler) makeChoiceInput(ctx context.Context, req *MakeChoiceRequest) (*game.MakeChoiceInput, error) {
	user, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if req.SessionID == "" {
		return nil, status.Error(codes.InvalidArgument, "session_id is required")
	}

	return &game.MakeChoiceInput{
		UserID:    user.ID,
		SessionID: req.SessionID,
		SceneID:   req.SceneID,
		Choice:    req.Choice,
	}, nil
}

// UpdateStats spends the points of a pending level-up
func (h *GameHandler) UpdateStats(ctx context.Context, req *UpdateStatsRequest) (*SessionOnlyResponse, error) {
	user, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if req.SessionID == "" {
		return nil, status.Error(codes.InvalidArgument, "session_id is required")
	}

	output, err := h.gameService.UpdateStats(ctx, &game.UpdateStatsInput{
		UserID:    user.ID,
		SessionID: req.SessionID,
		Stats:     convertStatsFromAPI(req.Stats),
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return &SessionOnlyResponse{Session: convertSessionToAPI(output.Session)}, nil
}

// ClearPendingLevelUp clears a stale level-up flag; it refuses while points
// remain unspent
func (h *GameHandler) ClearPendingLevelUp(ctx context.Context, req *SessionIDRequest) (*SessionOnlyResponse, error) {
	user, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if req.SessionID == "" {
		return nil, status.Error(codes.InvalidArgument, "session_id is required")
	}

	output, err := h.gameService.ClearPendingLevelUp(ctx, &game.ClearPendingLevelUpInput{
		UserID:    user.ID,
		SessionID: req.SessionID,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return &SessionOnlyResponse{Session: convertSessionToAPI(output.Session)}, nil
}

// AcknowledgeLevelUp closes the level-up prompt once its points are spent
func (h *GameHandler) AcknowledgeLevelUp(ctx context.Context, req *SessionIDRequest) (*Empty, error) {
	user, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if req.SessionID == "" {
		return nil, status.Error(codes.InvalidArgument, "session_id is required")
	}

	if err := h.levelUps.Acknowledge(ctx, &levelup.AcknowledgeInput{
		UserID:    user.ID,
		SessionID: req.SessionID,
	}); err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return &Empty{}, nil
}

// WatchSession streams the session's current state followed by every
// committed change and level-up until the client goes away.
func (h *GameHandler) WatchSession(req *SessionIDRequest, stream grpc.ServerStreamingServer[WatchSessionEvent]) error {
	ctx := stream.Context()
	user, err := requireUser(ctx)
	if err != nil {
		return err
	}
	if req.SessionID == "" {
		return status.Error(codes.InvalidArgument, "session_id is required")
	}

	// Subscribe before loading so nothing committed in between is missed
	events := make(chan *WatchSessionEvent, watchBuffer)
	push := func(event *WatchSessionEvent) {
		select {
		case events <- event:
		default:
			slog.WarnContext(ctx, "dropping session event for slow watcher", "session_id", req.SessionID)
		}
	}

	cancelState := h.state.Subscribe(req.SessionID, func(snapshot *gamestate.Snapshot) {
		push(&WatchSessionEvent{Snapshot: convertSnapshotToAPI(snapshot)})
	})
	defer cancelState()

	watch, err := h.levelUps.Watch(ctx, &levelup.WatchInput{
		UserID:    user.ID,
		SessionID: req.SessionID,
	}, func(event levelup.Event) {
		push(&WatchSessionEvent{LevelUp: convertLevelUpEventToAPI(event)})
	})
	if err != nil {
		return errors.ToGRPCError(err)
	}
	defer watch.Cancel()

	h.metrics.WatcherOpened()
	defer h.metrics.WatcherClosed()

	if err := stream.Send(&WatchSessionEvent{Snapshot: convertSessionOutputToAPI(watch.Session)}); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event := <-events:
			if err := stream.Send(event); err != nil {
				return err
			}
		}
	}
}

// GenerateBackstory streams a backstory for a character being created
func (h *GameHandler) GenerateBackstory(req *GenerateBackstoryRequest, stream grpc.ServerStreamingServer[BackstoryEvent]) error {
	ctx := stream.Context()
	user, err := requireUser(ctx)
	if err != nil {
		return err
	}

	var sendErr error
	send := func(event *BackstoryEvent) {
		if sendErr == nil {
			sendErr = stream.Send(event)
		}
	}

	output, err := h.gameService.GenerateBackstory(ctx, &game.GenerateBackstoryInput{
		UserID:         user.ID,
		CharacterName:  req.CharacterName,
		CharacterClass: req.CharacterClass,
		OnChunk: func(chunk string) {
			send(&BackstoryEvent{Chunk: chunk})
		},
		OnReset: func() {
			send(&BackstoryEvent{Reset: true})
		},
	})
	if err != nil {
		return errors.ToGRPCError(err)
	}
	if sendErr != nil {
		return sendErr
	}

	return stream.Send(&BackstoryEvent{Backstory: output.Backstory})
}
