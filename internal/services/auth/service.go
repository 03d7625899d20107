// Package auth signs players up and in, issues access tokens and resolves a
// token back to its user.
package auth

//go:generate mockgen -destination=mock/mock_service.go -package=authmock github.com/KirkDiggler/quest-forge/internal/services/auth Service

import (
	"context"
	"time"

	"github.com/KirkDiggler/quest-forge/internal/entities"
)

// Service defines the interface for account operations
type Service interface {
	SignUp(ctx context.Context, input *SignUpInput) (*SignUpOutput, error)
	SignIn(ctx context.Context, input *SignInInput) (*SignInOutput, error)
	SignOut(ctx context.Context, input *SignOutInput) error
	// Authenticate resolves an access token to its user
	// Returns errors.Unauthenticated for missing, expired or revoked tokens
	Authenticate(ctx context.Context, token string) (*entities.User, error)
}

// SignUpInput defines the request for creating an account
type SignUpInput struct {
	Email    string
	Password string
	Username string
}

// SignUpOutput signs the new account in
type SignUpOutput struct {
	Session *Session
}

// SignInInput defines the request for signing in
type SignInInput struct {
	Email    string
	Password string
}

// SignInOutput defines the response for signing in
type SignInOutput struct {
	Session *Session
}

// SignOutInput defines the request for signing out
type SignOutInput struct {
	Token string
}

// Session is an issued access token
type Session struct {
	AccessToken string
	ExpiresAt   time.Time
	User        *entities.User
}

// Identity is what session-change listeners learn about the signed-in user
type Identity struct {
	ID    string
	Email string
}
