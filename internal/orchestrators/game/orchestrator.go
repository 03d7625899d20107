// Package game implements the session state machine: character creation,
// resolving choices into new scenes, and level-up allocation.
package game

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/KirkDiggler/quest-forge/internal/engine"
	"github.com/KirkDiggler/quest-forge/internal/entities"
	"github.com/KirkDiggler/quest-forge/internal/errors"
	"github.com/KirkDiggler/quest-forge/internal/metrics"
	"github.com/KirkDiggler/quest-forge/internal/narrative"
	"github.com/KirkDiggler/quest-forge/internal/pkg/clock"
	"github.com/KirkDiggler/quest-forge/internal/pkg/idgen"
	sessionrepo "github.com/KirkDiggler/quest-forge/internal/repositories/session"
	"github.com/KirkDiggler/quest-forge/internal/services/game"
	"github.com/KirkDiggler/quest-forge/internal/services/gamestate"
)

const (
	maxNameLength      = 50
	maxBackstoryLength = 4000
)

// Choice outcomes recorded in metrics
const (
	outcomeResolved         = "resolved"
	outcomeRejected         = "rejected"
	outcomeGenerationFailed = "generation_failed"
	outcomeConflict         = "conflict"
)

// Config holds the dependencies for the game orchestrator
type Config struct {
	SessionRepo sessionrepo.Repository
	Narrator    narrative.Generator
	Experience  engine.ExperienceSource
	IDGenerator idgen.Generator
	Clock       clock.Clock

	// Fallback writes the scene when Narrator fails. Without it the
	// generation error is returned to the caller.
	Fallback narrative.Generator
	// Backstories is required only for GenerateBackstory
	Backstories narrative.BackstoryWriter
	State       gamestate.Publisher
	Metrics     *metrics.Metrics
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.SessionRepo == nil {
		vb.RequiredField("SessionRepo")
	}
	if c.Narrator == nil {
		vb.RequiredField("Narrator")
	}
	if c.Experience == nil {
		vb.RequiredField("Experience")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}

	return vb.Build()
}

// Orchestrator implements the game.Service interface
type Orchestrator struct {
	sessionRepo sessionrepo.Repository
	narrator    narrative.Generator
	fallback    narrative.Generator
	backstories narrative.BackstoryWriter
	experience  engine.ExperienceSource
	idGenerator idgen.Generator
	clock       clock.Clock
	state       gamestate.Publisher
	metrics     *metrics.Metrics

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// New creates a new game orchestrator
func New(cfg *Config) (*Orchestrator, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Orchestrator{
		sessionRepo: cfg.SessionRepo,
		narrator:    cfg.Narrator,
		fallback:    cfg.Fallback,
		backstories: cfg.Backstories,
		experience:  cfg.Experience,
		idGenerator: cfg.IDGenerator,
		clock:       cfg.Clock,
		state:       cfg.State,
		metrics:     cfg.Metrics,
		inFlight:    make(map[string]struct{}),
	}, nil
}

// Ensure Orchestrator implements the Service interface
var _ game.Service = (*Orchestrator)(nil)

// CreateSession creates a character with a fresh session and its welcome scene
func (o *Orchestrator) CreateSession(ctx context.Context, input *game.CreateSessionInput) (*game.CreateSessionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	name := strings.TrimSpace(input.CharacterName)
	backstory := strings.TrimSpace(input.Backstory)

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("userID", input.UserID, vb)
	errors.ValidateRequired("characterName", name, vb)
	errors.ValidateLength("characterName", name, 0, maxNameLength, vb)
	errors.ValidateRequired("characterClass", input.CharacterClass, vb)
	if input.CharacterClass != "" {
		errors.ValidateEnum("characterClass", input.CharacterClass, entities.ClassNames(), vb)
	}
	errors.ValidateLength("backstory", backstory, 0, maxBackstoryLength, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	class := entities.CharacterClass(input.CharacterClass)
	now := o.clock.Now()

	session := &entities.GameSession{
		ID:             o.idGenerator.Generate(),
		UserID:         input.UserID,
		CharacterName:  name,
		CharacterClass: class,
		Backstory:      backstory,
		GameState:      engine.NewGameState(class),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	scene := &entities.Scene{
		ID:        o.idGenerator.Generate(),
		SessionID: session.ID,
		Sequence:  0,
		Narrative: narrative.InitialNarrative(name, class),
		Choices:   narrative.InitialChoices(),
		CreatedAt: now,
	}

	if _, err := o.sessionRepo.Create(ctx, sessionrepo.CreateInput{
		Session: session,
		Scene:   scene,
	}); err != nil {
		return nil, errors.Wrap(err, "failed to create session")
	}

	slog.InfoContext(ctx, "character created",
		"session_id", session.ID,
		"user_id", session.UserID,
		"class", class)
	o.metrics.SessionCreated(string(class))
	o.publish(ctx, session, []*entities.Scene{scene})

	return &game.CreateSessionOutput{
		Session: session,
		Scene:   scene,
	}, nil
}

// GetSession loads a session the user owns with its scenes
func (o *Orchestrator) GetSession(ctx context.Context, input *game.GetSessionInput) (*game.GetSessionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("userID", input.UserID, vb)
	errors.ValidateRequired("sessionID", input.SessionID, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	session, scenes, err := o.load(ctx, input.UserID, input.SessionID)
	if err != nil {
		return nil, err
	}

	return &game.GetSessionOutput{
		Session:      session,
		Scenes:       scenes,
		CurrentScene: entities.CurrentScene(scenes),
	}, nil
}

// GetLatestSession loads the session the user played most recently
func (o *Orchestrator) GetLatestSession(ctx context.Context, input *game.GetLatestSessionInput) (*game.GetSessionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("userID", input.UserID, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	listed, err := o.sessionRepo.ListByUser(ctx, sessionrepo.ListByUserInput{
		UserID: input.UserID,
		Limit:  1,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list sessions")
	}
	if len(listed.Sessions) == 0 {
		return nil, errors.NotFound("no sessions found").WithMeta("user_id", input.UserID)
	}

	return o.GetSession(ctx, &game.GetSessionInput{
		UserID:    input.UserID,
		SessionID: listed.Sessions[0].ID,
	})
}

// ListSessions lists the user's sessions, most recently played first
func (o *Orchestrator) ListSessions(ctx context.Context, input *game.ListSessionsInput) (*game.ListSessionsOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("userID", input.UserID, vb)
	if input.Limit < 0 {
		vb.Field("limit", "must not be negative")
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	listed, err := o.sessionRepo.ListByUser(ctx, sessionrepo.ListByUserInput{
		UserID: input.UserID,
		Limit:  input.Limit,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list sessions")
	}

	return &game.ListSessionsOutput{Sessions: listed.Sessions}, nil
}

// MakeChoice answers the current scene and appends the scene that follows.
// Nothing is written unless the whole turn commits.
func (o *Orchestrator) MakeChoice(ctx context.Context, input *game.MakeChoiceInput) (*game.MakeChoiceOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("userID", input.UserID, vb)
	errors.ValidateRequired("sessionID", input.SessionID, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	release, err := o.acquire(input.SessionID)
	if err != nil {
		o.metrics.ChoiceResolved(outcomeConflict)
		return nil, err
	}
	defer release()

	output, err := o.makeChoice(ctx, input)
	if err != nil {
		o.metrics.ChoiceResolved(choiceOutcome(err))
		return nil, err
	}

	o.metrics.ChoiceResolved(outcomeResolved)
	o.metrics.LevelsGained(output.LevelUp.LevelsGained)
	return output, nil
}

func (o *Orchestrator) makeChoice(ctx context.Context, input *game.MakeChoiceInput) (*game.MakeChoiceOutput, error) {
	session, scenes, err := o.load(ctx, input.UserID, input.SessionID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NoActiveSession("session not found").WithMeta("session_id", input.SessionID)
		}
		return nil, err
	}

	if input.SceneID != "" {
		for _, sc := range scenes {
			if sc.ID == input.SceneID && sc.IsResolved() {
				return nil, errors.SceneAlreadyResolved("scene already has a choice").
					WithMeta("scene_id", sc.ID)
			}
		}
	}

	current := entities.CurrentScene(scenes)
	if current == nil {
		return nil, errors.NoActiveSession("no scene is awaiting a choice").WithMeta("session_id", session.ID)
	}
	if input.SceneID != "" && input.SceneID != current.ID {
		return nil, errors.InvalidArgumentf("scene %s is not the current scene", input.SceneID)
	}

	choice := strings.TrimSpace(input.Choice)
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("choice", choice, vb)
	if choice != "" && !current.Offers(choice) {
		vb.Field("choice", "is not one of the offered choices")
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	next, err := o.nextScene(ctx, session, choice, scenes, input)
	if err != nil {
		return nil, err
	}

	gain, err := o.experience.Gain()
	if err != nil {
		return nil, errors.Wrap(err, "failed to roll experience")
	}
	state, levelUp := engine.ApplyExperience(session.GameState, gain)

	now := o.clock.Now()

	resolved := *current
	resolved.PlayerChoice = &choice

	nextScene := &entities.Scene{
		ID:        o.idGenerator.Generate(),
		SessionID: session.ID,
		Sequence:  current.Sequence + 1,
		Narrative: next.Narrative,
		Choices:   next.Choices,
		CreatedAt: now,
	}

	updated := *session
	updated.GameState = state
	updated.UpdatedAt = now

	if _, err := o.sessionRepo.SaveTurn(ctx, sessionrepo.SaveTurnInput{
		Session:           &updated,
		ResolvedScene:     &resolved,
		NextScene:         nextScene,
		ExpectedUpdatedAt: session.UpdatedAt,
	}); err != nil {
		return nil, errors.Wrap(err, "failed to save turn")
	}

	slog.InfoContext(ctx, "choice resolved",
		"session_id", session.ID,
		"scene", nextScene.Sequence,
		"source", next.Source,
		"experience_gained", gain,
		"levels_gained", levelUp.LevelsGained)

	history := make([]*entities.Scene, 0, len(scenes)+1)
	for _, sc := range scenes {
		if sc.ID == resolved.ID {
			history = append(history, &resolved)
			continue
		}
		history = append(history, sc)
	}
	history = append(history, nextScene)
	o.publish(ctx, &updated, history)

	return &game.MakeChoiceOutput{
		Session:          &updated,
		ResolvedScene:    &resolved,
		NextScene:        nextScene,
		ExperienceGained: gain,
		LevelUp:          levelUp,
		Source:           next.Source,
	}, nil
}

func (o *Orchestrator) nextScene(ctx context.Context, session *entities.GameSession, choice string, scenes []*entities.Scene, input *game.MakeChoiceInput) (*narrative.NextOutput, error) {
	nextInput := &narrative.NextInput{
		Session: session,
		Choice:  choice,
		History: scenes,
		OnChunk: input.OnChunk,
		OnReset: input.OnReset,
	}

	out, err := o.narrator.Next(ctx, nextInput)
	if err == nil {
		return out, nil
	}
	if o.fallback == nil || ctx.Err() != nil {
		return nil, err
	}

	slog.WarnContext(ctx, "narrator failed, using fallback",
		"session_id", session.ID,
		"error", err)
	if input.OnReset != nil {
		input.OnReset()
	}

	out, fallbackErr := o.fallback.Next(ctx, nextInput)
	if fallbackErr != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStats spends the points awarded by pending level-ups. Every point
// must be spent and no attribute may go down.
func (o *Orchestrator) UpdateStats(ctx context.Context, input *game.UpdateStatsInput) (*game.UpdateStatsOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("userID", input.UserID, vb)
	errors.ValidateRequired("sessionID", input.SessionID, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	release, err := o.acquire(input.SessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	session, scenes, err := o.load(ctx, input.UserID, input.SessionID)
	if err != nil {
		return nil, err
	}

	state := session.GameState
	if !state.PendingLevelUp || state.LevelsGained <= 0 {
		return nil, errors.InvalidAllocation("no level-up is pending")
	}
	if !input.Stats.NoneLowerThan(state.Stats) {
		return nil, errors.InvalidAllocation("attributes cannot be lowered")
	}

	spent := input.Stats.Total() - state.Stats.Total()
	available := engine.AvailablePoints(state.LevelsGained)
	if spent != available {
		return nil, errors.InvalidAllocation("all attribute points must be spent").
			WithMeta("spent", spent).
			WithMeta("available", available)
	}

	updated := *session
	updated.GameState.Inventory = append([]string(nil), state.Inventory...)
	updated.GameState.Stats = input.Stats
	updated.GameState.PendingLevelUp = false
	updated.GameState.LevelsGained = 0
	updated.UpdatedAt = o.clock.Now()

	if _, err := o.sessionRepo.Update(ctx, sessionrepo.UpdateInput{
		Session:           &updated,
		ExpectedUpdatedAt: session.UpdatedAt,
	}); err != nil {
		return nil, errors.Wrap(err, "failed to update stats")
	}

	slog.InfoContext(ctx, "attribute points allocated",
		"session_id", session.ID,
		"points", spent)
	o.publish(ctx, &updated, scenes)

	return &game.UpdateStatsOutput{Session: &updated}, nil
}

// ClearPendingLevelUp clears a level-up flag left set with no levels behind
// it. It never touches stats and refuses while attribute points remain.
// Clearing when nothing is pending succeeds without a write.
func (o *Orchestrator) ClearPendingLevelUp(ctx context.Context, input *game.ClearPendingLevelUpInput) (*game.ClearPendingLevelUpOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("userID", input.UserID, vb)
	errors.ValidateRequired("sessionID", input.SessionID, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	release, err := o.acquire(input.SessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	session, scenes, err := o.load(ctx, input.UserID, input.SessionID)
	if err != nil {
		return nil, err
	}

	if !session.GameState.PendingLevelUp && session.GameState.LevelsGained == 0 {
		return &game.ClearPendingLevelUpOutput{Session: session}, nil
	}
	if levels := session.GameState.LevelsGained; levels > 0 {
		return nil, errors.FailedPrecondition("attribute points must be spent first").
			WithReason(errors.ReasonUnallocatedPoints).
			WithMeta("available_points", engine.AvailablePoints(levels))
	}

	updated := *session
	updated.GameState.PendingLevelUp = false
	updated.GameState.LevelsGained = 0
	updated.UpdatedAt = o.clock.Now()

	if _, err := o.sessionRepo.Update(ctx, sessionrepo.UpdateInput{
		Session:           &updated,
		ExpectedUpdatedAt: session.UpdatedAt,
	}); err != nil {
		return nil, errors.Wrap(err, "failed to clear level-up")
	}

	o.publish(ctx, &updated, scenes)

	return &game.ClearPendingLevelUpOutput{Session: &updated}, nil
}

// GenerateBackstory streams a backstory for a character that is about to be
// created. Nothing is stored.
func (o *Orchestrator) GenerateBackstory(ctx context.Context, input *game.GenerateBackstoryInput) (*game.GenerateBackstoryOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	name := strings.TrimSpace(input.CharacterName)

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("userID", input.UserID, vb)
	errors.ValidateRequired("characterName", name, vb)
	errors.ValidateLength("characterName", name, 0, maxNameLength, vb)
	errors.ValidateRequired("characterClass", input.CharacterClass, vb)
	if input.CharacterClass != "" {
		errors.ValidateEnum("characterClass", input.CharacterClass, entities.ClassNames(), vb)
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	if o.backstories == nil {
		return nil, errors.Generation(nil, "backstory generation is not configured")
	}

	class := entities.CharacterClass(input.CharacterClass)
	out, err := o.backstories.Backstory(ctx, &narrative.BackstoryInput{
		CharacterName:  name,
		CharacterClass: class,
		Stats:          class.StartingStats(),
		OnChunk:        input.OnChunk,
		OnReset:        input.OnReset,
	})
	if err != nil {
		return nil, err
	}

	return &game.GenerateBackstoryOutput{Backstory: out.Backstory}, nil
}

// load returns an owned session and its scenes
func (o *Orchestrator) load(ctx context.Context, userID, sessionID string) (*entities.GameSession, []*entities.Scene, error) {
	got, err := o.sessionRepo.Get(ctx, sessionrepo.GetInput{ID: sessionID})
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to get session")
	}
	if got.Session.UserID != userID {
		return nil, nil, errors.PermissionDenied("session belongs to another user").
			WithMeta("session_id", sessionID)
	}

	listed, err := o.sessionRepo.ListScenes(ctx, sessionrepo.ListScenesInput{SessionID: sessionID})
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to list scenes")
	}

	return got.Session, listed.Scenes, nil
}

// acquire marks the session busy until the returned release is called
func (o *Orchestrator) acquire(sessionID string) (func(), error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, busy := o.inFlight[sessionID]; busy {
		return nil, errors.ChoiceInFlight("another request for this session is in progress").
			WithMeta("session_id", sessionID)
	}
	o.inFlight[sessionID] = struct{}{}

	return func() {
		o.mu.Lock()
		delete(o.inFlight, sessionID)
		o.mu.Unlock()
	}, nil
}

func (o *Orchestrator) publish(ctx context.Context, session *entities.GameSession, scenes []*entities.Scene) {
	if o.state == nil {
		return
	}
	o.state.Publish(ctx, &gamestate.Snapshot{Session: session, Scenes: scenes})
}

func choiceOutcome(err error) string {
	switch {
	case errors.IsGenerationFailure(err):
		return outcomeGenerationFailed
	case errors.IsAborted(err):
		return outcomeConflict
	default:
		return outcomeRejected
	}
}
