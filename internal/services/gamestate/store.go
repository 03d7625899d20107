// Package gamestate carries committed session state to the parts of the
// server that follow a session. The game orchestrator publishes after every
// successful write; watchers such as the level-up hook and streaming
// handlers subscribe.
//
// Commits travel over an rpg-toolkit event bus as session.committed events
// whose source is the session and whose target is its current scene.
package gamestate

import (
	"context"
	"log/slog"
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/core"
	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/quest-forge/internal/entities"
)

const (
	// EventSessionCommitted is published once per committed session write
	EventSessionCommitted = "session.committed"

	// snapshotKey holds the *Snapshot in the event context
	snapshotKey = "snapshot"
)

// Snapshot is a session together with its scene log at one point in time.
// Listeners must treat it as read-only.
type Snapshot struct {
	Session *entities.GameSession
	Scenes  []*entities.Scene
}

// Listener receives snapshots for one session
type Listener func(snapshot *Snapshot)

// Publisher accepts committed snapshots
type Publisher interface {
	Publish(ctx context.Context, snapshot *Snapshot)
}

// Subscriber lets callers follow a session
type Subscriber interface {
	Subscribe(sessionID string, fn Listener) (cancel func())
	Current(sessionID string) (*Snapshot, bool)
}

type subscription struct {
	id uint64
	fn Listener
}

// Store routes session.committed events to per-session listeners. It only
// remembers the latest snapshot of sessions somebody is following.
type Store struct {
	bus events.EventBus

	mu      sync.RWMutex
	current map[string]*Snapshot
	subs    map[string][]subscription
	nextID  uint64
}

var (
	_ Publisher  = (*Store)(nil)
	_ Subscriber = (*Store)(nil)
)

// NewStore creates a store on its own event bus
func NewStore() *Store {
	return NewStoreWithBus(events.NewBus())
}

// NewStoreWithBus creates a store that publishes on and listens to bus
func NewStoreWithBus(bus events.EventBus) *Store {
	s := &Store{
		bus:     bus,
		current: make(map[string]*Snapshot),
		subs:    make(map[string][]subscription),
	}
	bus.SubscribeFunc(EventSessionCommitted, 0, s.dispatch)
	return s
}

// Publish sends the snapshot as a session.committed event. Listeners run on
// the caller's goroutine outside the store lock, so they may subscribe or
// cancel.
func (s *Store) Publish(ctx context.Context, snapshot *Snapshot) {
	if snapshot == nil || snapshot.Session == nil {
		return
	}

	var target core.Entity
	if scene := entities.CurrentScene(snapshot.Scenes); scene != nil {
		target = scene
	}

	event := events.NewGameEvent(EventSessionCommitted, snapshot.Session, target)
	event.Context().Set(snapshotKey, snapshot)

	if err := s.bus.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "failed to publish snapshot",
			"entity_id", snapshot.Session.GetID(),
			"error", err)
	}
}

// SnapshotOf returns the snapshot carried by a session.committed event
func SnapshotOf(event events.Event) (*Snapshot, bool) {
	if event == nil || event.Source() == nil {
		return nil, false
	}
	value, ok := event.Context().Get(snapshotKey)
	if !ok {
		return nil, false
	}
	snapshot, ok := value.(*Snapshot)
	return snapshot, ok && snapshot != nil
}

func (s *Store) dispatch(ctx context.Context, event events.Event) error {
	snapshot, ok := SnapshotOf(event)
	if !ok {
		return nil
	}
	source := event.Source()
	id := source.GetID()

	s.mu.Lock()
	listeners := append([]subscription(nil), s.subs[id]...)
	if len(listeners) > 0 {
		s.current[id] = snapshot
	}
	s.mu.Unlock()

	slog.DebugContext(ctx, "dispatching snapshot",
		"entity_type", source.GetType(),
		"entity_id", id,
		"scenes", len(snapshot.Scenes),
		"listeners", len(listeners))

	for _, l := range listeners {
		l.fn(snapshot)
	}
	return nil
}

// Subscribe registers fn for sessionID. The returned cancel is safe to call
// more than once; the last cancel for a session forgets its snapshot.
func (s *Store) Subscribe(sessionID string, fn Listener) func() {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subs[sessionID] = append(s.subs[sessionID], subscription{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			subs := s.subs[sessionID]
			for i, sub := range subs {
				if sub.id == id {
					s.subs[sessionID] = append(subs[:i:i], subs[i+1:]...)
					break
				}
			}
			if len(s.subs[sessionID]) == 0 {
				delete(s.subs, sessionID)
				delete(s.current, sessionID)
			}
		})
	}
}

// Current returns the last snapshot published while sessionID had listeners
func (s *Store) Current(sessionID string) (*Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.current[sessionID]
	return snap, ok
}

// Listeners returns how many listeners follow sessionID
func (s *Store) Listeners(sessionID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs[sessionID])
}

// Retained returns how many snapshots the store holds
func (s *Store) Retained() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.current)
}
