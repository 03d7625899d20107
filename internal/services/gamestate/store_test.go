package gamestate_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/quest-forge/internal/entities"
	"github.com/KirkDiggler/quest-forge/internal/services/gamestate"
	"github.com/KirkDiggler/quest-forge/internal/testutils"
)

type StoreTestSuite struct {
	suite.Suite
	ctx   context.Context
	store *gamestate.Store
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func (s *StoreTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = gamestate.NewStore()
}

func (s *StoreTestSuite) snapshot(sessionID string) *gamestate.Snapshot {
	gs := testutils.CreateTestSession(testutils.TestUserID)
	gs.ID = sessionID
	return &gamestate.Snapshot{Session: gs}
}

func (s *StoreTestSuite) TestPublishNotifiesOnlyThatSession() {
	var got []string
	cancelA := s.store.Subscribe("a", func(snap *gamestate.Snapshot) {
		got = append(got, "a:"+snap.Session.ID)
	})
	defer cancelA()
	cancelB := s.store.Subscribe("b", func(snap *gamestate.Snapshot) {
		got = append(got, "b:"+snap.Session.ID)
	})
	defer cancelB()

	s.store.Publish(s.ctx, s.snapshot("a"))

	s.Equal([]string{"a:a"}, got)
}

func (s *StoreTestSuite) TestListenersRunInSubscriptionOrder() {
	var order []int
	for i := 1; i <= 3; i++ {
		s.store.Subscribe("a", func(*gamestate.Snapshot) { order = append(order, i) })
	}

	s.store.Publish(s.ctx, s.snapshot("a"))

	s.Equal([]int{1, 2, 3}, order)
}

func (s *StoreTestSuite) TestCancelStopsDelivery() {
	calls := 0
	cancel := s.store.Subscribe("a", func(*gamestate.Snapshot) { calls++ })

	s.store.Publish(s.ctx, s.snapshot("a"))
	cancel()
	cancel()
	s.store.Publish(s.ctx, s.snapshot("a"))

	s.Equal(1, calls)
	s.Equal(0, s.store.Listeners("a"))
}

func (s *StoreTestSuite) TestListenerMayCancelItself() {
	calls := 0
	var cancel func()
	cancel = s.store.Subscribe("a", func(*gamestate.Snapshot) {
		calls++
		cancel()
	})

	s.store.Publish(s.ctx, s.snapshot("a"))
	s.store.Publish(s.ctx, s.snapshot("a"))

	s.Equal(1, calls)
}

func (s *StoreTestSuite) TestCurrentWhileFollowed() {
	_, ok := s.store.Current("a")
	s.False(ok)

	cancel := s.store.Subscribe("a", func(*gamestate.Snapshot) {})
	snap := s.snapshot("a")
	s.store.Publish(s.ctx, snap)

	got, ok := s.store.Current("a")
	s.True(ok)
	s.Same(snap, got)

	cancel()
	_, ok = s.store.Current("a")
	s.False(ok)
}

func (s *StoreTestSuite) TestUnwatchedSessionsAreNotRetained() {
	for i := 0; i < 100; i++ {
		id := fmt.Sprintf("session-%d", i)
		cancel := s.store.Subscribe(id, func(*gamestate.Snapshot) {})
		snap := s.snapshot(id)
		for seq := 0; seq < 20; seq++ {
			snap.Scenes = append(snap.Scenes, testutils.CreateTestScene(id, seq))
		}
		s.store.Publish(s.ctx, snap)
		cancel()
	}
	s.store.Publish(s.ctx, s.snapshot("never-watched"))

	s.Zero(s.store.Retained())
}

func (s *StoreTestSuite) TestCommitsTravelOnSharedBus() {
	bus := events.NewBus()
	store := gamestate.NewStoreWithBus(bus)

	var sourceID, targetID string
	var carried *gamestate.Snapshot
	bus.SubscribeFunc(gamestate.EventSessionCommitted, 10, func(_ context.Context, e events.Event) error {
		sourceID = e.Source().GetID()
		if e.Target() != nil {
			targetID = e.Target().GetID()
		}
		carried, _ = gamestate.SnapshotOf(e)
		return nil
	})

	snap := s.snapshot("a")
	answered := testutils.CreateResolvedTestScene("a", 0, "Climb the oak")
	current := testutils.CreateTestScene("a", 1)
	snap.Scenes = []*entities.Scene{answered, current}

	var delivered *gamestate.Snapshot
	cancel := store.Subscribe("a", func(got *gamestate.Snapshot) { delivered = got })
	defer cancel()

	store.Publish(s.ctx, snap)

	s.Equal("a", sourceID)
	s.Equal(current.ID, targetID)
	s.Same(snap, delivered)
	s.Same(snap, carried)
}

func (s *StoreTestSuite) TestPublishIgnoresEmptySnapshot() {
	calls := 0
	s.store.Subscribe("a", func(*gamestate.Snapshot) { calls++ })

	s.store.Publish(s.ctx, nil)
	s.store.Publish(s.ctx, &gamestate.Snapshot{})

	s.Equal(0, calls)
}
