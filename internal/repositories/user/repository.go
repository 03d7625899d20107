// Package user persists player accounts
package user

//go:generate mockgen -destination=mock/mock_repository.go -package=usermock github.com/KirkDiggler/quest-forge/internal/repositories/user Repository

import (
	"context"

	"github.com/KirkDiggler/quest-forge/internal/entities"
)

// Repository stores users, addressable by ID and by email
type Repository interface {
	// Create stores a new user
	// Returns errors.AlreadyExists if the email is registered
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get returns a user by ID
	// Returns errors.NotFound if it doesn't exist
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// GetByEmail returns a user by email, compared case-insensitively
	// Returns errors.NotFound if no user has the email
	GetByEmail(ctx context.Context, input GetByEmailInput) (*GetByEmailOutput, error)
}

// CreateInput defines the input for creating a user
type CreateInput struct {
	User *entities.User
}

// CreateOutput defines the output for creating a user
type CreateOutput struct {
	User *entities.User
}

// GetInput defines the input for getting a user
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting a user
type GetOutput struct {
	User *entities.User
}

// GetByEmailInput defines the input for looking up a user by email
type GetByEmailInput struct {
	Email string
}

// GetByEmailOutput defines the output for looking up a user by email
type GetByEmailOutput struct {
	User *entities.User
}
