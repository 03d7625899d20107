package v1alpha1

import (
	"context"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	grpc_auth "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/selector"
	"google.golang.org/grpc"

	"github.com/KirkDiggler/quest-forge/internal/entities"
	"github.com/KirkDiggler/quest-forge/internal/errors"
	"github.com/KirkDiggler/quest-forge/internal/services/auth"
)

type contextKey int

const (
	userKey contextKey = iota
	tokenKey
)

// WithUser stores the authenticated user and token on ctx
func WithUser(ctx context.Context, user *entities.User, token string) context.Context {
	ctx = context.WithValue(ctx, userKey, user)
	return context.WithValue(ctx, tokenKey, token)
}

// UserFromContext returns the authenticated user, if any
func UserFromContext(ctx context.Context) (*entities.User, bool) {
	user, ok := ctx.Value(userKey).(*entities.User)
	return user, ok && user != nil
}

// TokenFromContext returns the bearer token the user authenticated with
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}

// publicMethods skip authentication
var publicMethods = map[string]bool{
	AuthService_SignUp_FullMethodName: true,
	AuthService_SignIn_FullMethodName: true,
}

// RequiresAuth reports whether fullMethod needs a bearer token. Services
// other than ours, such as health and reflection, are left alone.
func RequiresAuth(fullMethod string) bool {
	if publicMethods[fullMethod] {
		return false
	}
	return strings.HasPrefix(fullMethod, "/"+GameServiceName+"/") ||
		strings.HasPrefix(fullMethod, "/"+AuthServiceName+"/")
}

// AuthFunc resolves the bearer token of a call to its user
func AuthFunc(svc auth.Service) grpc_auth.AuthFunc {
	return func(ctx context.Context) (context.Context, error) {
		token, err := grpc_auth.AuthFromMD(ctx, "bearer")
		if err != nil {
			return nil, err
		}

		user, err := svc.Authenticate(ctx, token)
		if err != nil {
			return nil, errors.ToGRPCError(err)
		}
		return WithUser(ctx, user, token), nil
	}
}

func authMatcher() selector.Matcher {
	return selector.MatchFunc(func(_ context.Context, callMeta interceptors.CallMeta) bool {
		return RequiresAuth(callMeta.FullMethod())
	})
}

// UnaryAuthInterceptor authenticates unary calls that need it
func UnaryAuthInterceptor(svc auth.Service) grpc.UnaryServerInterceptor {
	return selector.UnaryServerInterceptor(grpc_auth.UnaryServerInterceptor(AuthFunc(svc)), authMatcher())
}

// StreamAuthInterceptor authenticates streaming calls that need it
func StreamAuthInterceptor(svc auth.Service) grpc.StreamServerInterceptor {
	return selector.StreamServerInterceptor(grpc_auth.StreamServerInterceptor(AuthFunc(svc)), authMatcher())
}

// BearerToken returns per-call metadata carrying token
func BearerToken(token string) grpc.CallOption {
	return grpc.PerRPCCredsCallOption{Creds: bearerCreds(token)}
}

type bearerCreds string

func (b bearerCreds) GetRequestMetadata(context.Context, ...string) (map[string]string, error) {
	return map[string]string{"authorization": "Bearer " + string(b)}, nil
}

func (bearerCreds) RequireTransportSecurity() bool {
	return false
}
