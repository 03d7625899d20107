// Package levelup raises a one-time event when a session gains levels that
// still need their attribute points spent, and gates dismissal of that event
// on the points actually being spent.
package levelup

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/KirkDiggler/quest-forge/internal/engine"
	"github.com/KirkDiggler/quest-forge/internal/entities"
	"github.com/KirkDiggler/quest-forge/internal/errors"
	"github.com/KirkDiggler/quest-forge/internal/services/game"
	"github.com/KirkDiggler/quest-forge/internal/services/gamestate"
)

// Event announces unallocated levels on a session
type Event struct {
	SessionID       string
	NewLevel        int
	LevelsGained    int
	AvailablePoints int
}

// Config holds the notifier dependencies
type Config struct {
	State gamestate.Subscriber
	Game  game.Service
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.State == nil {
		vb.RequiredField("State")
	}
	if c.Game == nil {
		vb.RequiredField("Game")
	}
	return vb.Build()
}

// Notifier watches sessions for new level-ups
type Notifier struct {
	state gamestate.Subscriber
	game  game.Service
}

// New creates a level-up notifier
func New(cfg *Config) (*Notifier, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &Notifier{state: cfg.State, game: cfg.Game}, nil
}

// WatchInput identifies the session to watch and who is watching
type WatchInput struct {
	UserID    string
	SessionID string
}

// WatchOutput is the session as loaded when the watch started
type WatchOutput struct {
	Session *game.GetSessionOutput
	Cancel  func()
}

// Watch calls fn once each time the session's pending level-up appears or
// grows. It subscribes before loading the session, so nothing committed in
// between is missed, and a level-up already pending at load time is reported
// right away so a reconnecting client sees it again.
func (n *Notifier) Watch(ctx context.Context, input *WatchInput, fn func(Event)) (*WatchOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	var (
		mu      sync.Mutex
		pending bool
		levels  int
		seen    time.Time
	)

	observe := func(session *entities.GameSession) {
		if session == nil {
			return
		}
		state := session.GameState

		// the load and a commit can race; never step back to an older write
		mu.Lock()
		if session.UpdatedAt.Before(seen) {
			mu.Unlock()
			return
		}
		seen = session.UpdatedAt
		fire := state.PendingLevelUp && (!pending || state.LevelsGained > levels)
		pending = state.PendingLevelUp
		levels = state.LevelsGained
		mu.Unlock()

		if fire {
			fn(Event{
				SessionID:       input.SessionID,
				NewLevel:        state.Level,
				LevelsGained:    state.LevelsGained,
				AvailablePoints: engine.AvailablePoints(state.LevelsGained),
			})
		}
	}

	cancel := n.state.Subscribe(input.SessionID, func(snap *gamestate.Snapshot) {
		observe(snap.Session)
	})

	loaded, err := n.game.GetSession(ctx, &game.GetSessionInput{
		UserID:    input.UserID,
		SessionID: input.SessionID,
	})
	if err != nil {
		cancel()
		return nil, err
	}
	observe(loaded.Session)

	return &WatchOutput{Session: loaded, Cancel: cancel}, nil
}

// AcknowledgeInput identifies the level-up being dismissed
type AcknowledgeInput struct {
	UserID    string
	SessionID string
}

// Acknowledge dismisses the level-up once its points are spent. It never
// changes stats.
func (n *Notifier) Acknowledge(ctx context.Context, input *AcknowledgeInput) error {
	if input == nil {
		return errors.InvalidArgument("input is required")
	}

	current, err := n.game.GetSession(ctx, &game.GetSessionInput{
		UserID:    input.UserID,
		SessionID: input.SessionID,
	})
	if err != nil {
		return err
	}

	state := current.Session.GameState
	if state.PendingLevelUp && state.LevelsGained > 0 {
		return errors.FailedPrecondition("attribute points must be spent first").
			WithReason(errors.ReasonUnallocatedPoints).
			WithMeta("available_points", engine.AvailablePoints(state.LevelsGained))
	}

	if _, err := n.game.ClearPendingLevelUp(ctx, &game.ClearPendingLevelUpInput{
		UserID:    input.UserID,
		SessionID: input.SessionID,
	}); err != nil {
		return err
	}

	slog.DebugContext(ctx, "level-up acknowledged", "session_id", input.SessionID)
	return nil
}
