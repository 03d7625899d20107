// Package token tracks revoked access tokens until they would have expired
package token

//go:generate mockgen -destination=mock/mock_repository.go -package=tokenmock github.com/KirkDiggler/quest-forge/internal/repositories/token Repository

import (
	"context"
	"time"
)

// Repository records signed-out token IDs
type Repository interface {
	// Revoke marks a token ID as signed out for ttl. A non-positive ttl is a
	// no-op since the token has already expired.
	Revoke(ctx context.Context, input RevokeInput) error

	// IsRevoked reports whether the token ID was signed out
	IsRevoked(ctx context.Context, input IsRevokedInput) (bool, error)
}

// RevokeInput defines the input for revoking a token
type RevokeInput struct {
	TokenID string
	TTL     time.Duration
}

// IsRevokedInput defines the input for checking a token
type IsRevokedInput struct {
	TokenID string
}
