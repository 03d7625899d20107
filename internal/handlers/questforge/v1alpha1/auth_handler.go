package v1alpha1

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/KirkDiggler/quest-forge/internal/entities"
	"github.com/KirkDiggler/quest-forge/internal/errors"
	"github.com/KirkDiggler/quest-forge/internal/services/auth"
)

// AuthHandlerConfig holds dependencies for the auth handler
type AuthHandlerConfig struct {
	AuthService auth.Service
}

// Validate ensures all required dependencies are present
func (c *AuthHandlerConfig) Validate() error {
	if c.AuthService == nil {
		return errors.InvalidArgument("auth service is required")
	}
	return nil
}

// AuthHandler implements AuthService
type AuthHandler struct {
	authService auth.Service
}

var _ AuthServiceServer = (*AuthHandler)(nil)

// NewAuthHandler creates a new auth handler
func NewAuthHandler(cfg *AuthHandlerConfig) (*AuthHandler, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &AuthHandler{authService: cfg.AuthService}, nil
}

// SignUp creates an account and returns its first session
func (h *AuthHandler) SignUp(ctx context.Context, req *SignUpRequest) (*SignInResponse, error) {
	output, err := h.authService.SignUp(ctx, &auth.SignUpInput{
		Email:    req.Email,
		Password: req.Password,
		Username: req.Username,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &SignInResponse{Session: convertAuthSessionToAPI(output.Session)}, nil
}

// SignIn exchanges credentials for a session
func (h *AuthHandler) SignIn(ctx context.Context, req *SignInRequest) (*SignInResponse, error) {
	output, err := h.authService.SignIn(ctx, &auth.SignInInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &SignInResponse{Session: convertAuthSessionToAPI(output.Session)}, nil
}

// SignOut revokes the token the call was made with
func (h *AuthHandler) SignOut(ctx context.Context, _ *Empty) (*Empty, error) {
	token := TokenFromContext(ctx)
	if token == "" {
		return nil, status.Error(codes.Unauthenticated, "access token is required")
	}

	if err := h.authService.SignOut(ctx, &auth.SignOutInput{Token: token}); err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return &Empty{}, nil
}

// GetCurrentUser returns the caller's account
func (h *AuthHandler) GetCurrentUser(ctx context.Context, _ *Empty) (*GetCurrentUserResponse, error) {
	user, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	return &GetCurrentUserResponse{User: convertUserToAPI(user)}, nil
}

func requireUser(ctx context.Context) (*entities.User, error) {
	user, ok := UserFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "authentication required")
	}
	return user, nil
}
