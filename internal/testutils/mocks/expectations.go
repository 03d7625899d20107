// Package mocks provides mock expectation helpers for common testing patterns
package mocks

import (
	"context"

	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/quest-forge/internal/entities"
	sessionrepo "github.com/KirkDiggler/quest-forge/internal/repositories/session"
	sessionmock "github.com/KirkDiggler/quest-forge/internal/repositories/session/mock"
)

// ExpectSessionLoad sets up the reads the game orchestrator makes before a
// turn: the session followed by its scene log
func ExpectSessionLoad(ctx context.Context, repo *sessionmock.MockRepository, session *entities.GameSession, scenes []*entities.Scene) {
	repo.EXPECT().
		Get(ctx, sessionrepo.GetInput{ID: session.ID}).
		Return(&sessionrepo.GetOutput{Session: session}, nil)

	repo.EXPECT().
		ListScenes(ctx, sessionrepo.ListScenesInput{SessionID: session.ID}).
		Return(&sessionrepo.ListScenesOutput{Scenes: scenes}, nil)
}

// ExpectLatestSession sets up the lookup of a user's most recent session.
// A nil session makes the user look like they have never played.
func ExpectLatestSession(ctx context.Context, repo *sessionmock.MockRepository, userID string, session *entities.GameSession) {
	sessions := []*entities.GameSession{}
	if session != nil {
		sessions = append(sessions, session)
	}
	repo.EXPECT().
		ListByUser(ctx, sessionrepo.ListByUserInput{UserID: userID, Limit: 1}).
		Return(&sessionrepo.ListByUserOutput{Sessions: sessions}, nil)
}

// ExpectSaveTurn captures the SaveTurn input for later assertions
func ExpectSaveTurn(ctx context.Context, repo *sessionmock.MockRepository, captured *sessionrepo.SaveTurnInput) {
	repo.EXPECT().
		SaveTurn(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input sessionrepo.SaveTurnInput) (*sessionrepo.SaveTurnOutput, error) {
			if captured != nil {
				*captured = input
			}
			return &sessionrepo.SaveTurnOutput{Session: input.Session}, nil
		})
}
