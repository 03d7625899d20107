package auth

import (
	"context"
	stderrors "errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/KirkDiggler/quest-forge/internal/entities"
	"github.com/KirkDiggler/quest-forge/internal/errors"
	"github.com/KirkDiggler/quest-forge/internal/pkg/clock"
	"github.com/KirkDiggler/quest-forge/internal/pkg/idgen"
	tokenrepo "github.com/KirkDiggler/quest-forge/internal/repositories/token"
	userrepo "github.com/KirkDiggler/quest-forge/internal/repositories/user"
)

const (
	// DefaultTokenTTL is how long an access token stays valid
	DefaultTokenTTL = 24 * time.Hour
	// DefaultIssuer is the iss claim of issued tokens
	DefaultIssuer = "quest-forge"

	minPasswordLength = 6
	minUsernameLength = 3
	maxUsernameLength = 50
	minSecretLength   = 32
)

// claims are the JWT claims of an access token. Subject holds the user ID
// and ID the token ID used for revocation.
type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Config holds the provider dependencies
type Config struct {
	Users       userrepo.Repository
	Tokens      tokenrepo.Repository
	Secret      string
	TokenTTL    time.Duration
	Issuer      string
	BcryptCost  int
	Clock       clock.Clock
	IDGenerator idgen.Generator
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Users == nil {
		vb.RequiredField("Users")
	}
	if c.Tokens == nil {
		vb.RequiredField("Tokens")
	}
	if len(c.Secret) < minSecretLength {
		vb.Fieldf("Secret", "must be at least %d bytes", minSecretLength)
	}
	if c.TokenTTL < 0 {
		vb.Field("TokenTTL", "must not be negative")
	}
	return vb.Build()
}

// Provider is the Redis and JWT backed Service
type Provider struct {
	users       userrepo.Repository
	tokens      tokenrepo.Repository
	secret      []byte
	ttl         time.Duration
	issuer      string
	cost        int
	clock       clock.Clock
	idGenerator idgen.Generator

	mu        sync.Mutex
	listeners []listener
	nextID    uint64
}

type listener struct {
	id uint64
	fn func(*Identity)
}

var _ Service = (*Provider)(nil)

// New creates an auth provider, filling unset options with defaults
func New(cfg *Config) (*Provider, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	p := &Provider{
		users:       cfg.Users,
		tokens:      cfg.Tokens,
		secret:      []byte(cfg.Secret),
		ttl:         cfg.TokenTTL,
		issuer:      cfg.Issuer,
		cost:        cfg.BcryptCost,
		clock:       cfg.Clock,
		idGenerator: cfg.IDGenerator,
	}
	if p.ttl == 0 {
		p.ttl = DefaultTokenTTL
	}
	if p.issuer == "" {
		p.issuer = DefaultIssuer
	}
	if p.cost == 0 {
		p.cost = bcrypt.DefaultCost
	}
	if p.clock == nil {
		p.clock = clock.New()
	}
	if p.idGenerator == nil {
		p.idGenerator = idgen.NewUUID("")
	}
	return p, nil
}

// SignUp creates an account and signs it in
func (p *Provider) SignUp(ctx context.Context, input *SignUpInput) (*SignUpOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	email := userrepo.NormalizeEmail(input.Email)
	username := strings.TrimSpace(input.Username)

	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if len(input.Password) < minPasswordLength {
		return nil, authError(errors.InvalidArgumentf("password must be at least %d characters", minPasswordLength), KindWeakPassword)
	}
	vb := errors.NewValidationBuilder()
	errors.ValidateLength("username", username, minUsernameLength, maxUsernameLength, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), p.cost)
	if err != nil {
		if stderrors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, authError(errors.InvalidArgument("password is too long"), KindWeakPassword)
		}
		return nil, errors.Wrap(err, "failed to hash password")
	}

	user := &entities.User{
		ID:           p.idGenerator.Generate(),
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    p.clock.Now(),
	}
	if _, err := p.users.Create(ctx, userrepo.CreateInput{User: user}); err != nil {
		if errors.IsAlreadyExists(err) {
			return nil, authError(errors.AlreadyExists("an account with this email already exists"), KindEmailTaken)
		}
		return nil, errors.Wrap(err, "failed to create account")
	}

	slog.InfoContext(ctx, "account created", "user_id", user.ID)

	session, err := p.issue(user)
	if err != nil {
		return nil, err
	}
	p.notify(&Identity{ID: user.ID, Email: user.Email})

	return &SignUpOutput{Session: session}, nil
}

// SignIn checks the password and issues an access token
func (p *Provider) SignIn(ctx context.Context, input *SignInInput) (*SignInOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	email := userrepo.NormalizeEmail(input.Email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if input.Password == "" {
		return nil, authError(errors.InvalidArgument("password is required"), KindInvalidCredentials)
	}

	found, err := p.users.GetByEmail(ctx, userrepo.GetByEmailInput{Email: email})
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, invalidCredentials()
		}
		return nil, errors.Wrap(err, "failed to look up account")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(found.User.PasswordHash), []byte(input.Password)); err != nil {
		slog.DebugContext(ctx, "password mismatch", "user_id", found.User.ID)
		return nil, invalidCredentials()
	}

	session, err := p.issue(found.User)
	if err != nil {
		return nil, err
	}
	p.notify(&Identity{ID: found.User.ID, Email: found.User.Email})

	return &SignInOutput{Session: session}, nil
}

// SignOut revokes the token until it would have expired. Signing out with an
// expired token succeeds.
func (p *Provider) SignOut(ctx context.Context, input *SignOutInput) error {
	if input == nil {
		return errors.InvalidArgument("input is required")
	}

	c, err := p.parse(input.Token)
	if err != nil {
		if stderrors.Is(err, jwt.ErrTokenExpired) {
			return nil
		}
		return authError(errors.Unauthenticated("invalid access token"), KindInvalidToken)
	}

	ttl := c.ExpiresAt.Sub(p.clock.Now())
	if err := p.tokens.Revoke(ctx, tokenrepo.RevokeInput{TokenID: c.ID, TTL: ttl}); err != nil {
		return errors.Wrap(err, "failed to sign out")
	}

	slog.InfoContext(ctx, "signed out", "user_id", c.Subject)
	p.notify(nil)
	return nil
}

// Authenticate resolves a token to its user
func (p *Provider) Authenticate(ctx context.Context, token string) (*entities.User, error) {
	if token == "" {
		return nil, authError(errors.Unauthenticated("access token is required"), KindInvalidToken)
	}

	c, err := p.parse(token)
	if err != nil {
		return nil, authError(errors.Unauthenticated("invalid access token"), KindInvalidToken)
	}

	revoked, err := p.tokens.IsRevoked(ctx, tokenrepo.IsRevokedInput{TokenID: c.ID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to check token")
	}
	if revoked {
		return nil, authError(errors.Unauthenticated("access token was revoked"), KindInvalidToken)
	}

	got, err := p.users.Get(ctx, userrepo.GetInput{ID: c.Subject})
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, authError(errors.Unauthenticated("account no longer exists"), KindUserNotFound)
		}
		return nil, errors.Wrap(err, "failed to load account")
	}
	return got.User, nil
}

// Subscribe registers fn for sign-in, sign-up and sign-out. fn receives nil
// on sign-out.
func (p *Provider) Subscribe(fn func(*Identity)) (cancel func()) {
	p.mu.Lock()
	p.nextID++
	id := p.nextID
	p.listeners = append(p.listeners, listener{id: id, fn: fn})
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		for i, l := range p.listeners {
			if l.id == id {
				p.listeners = append(p.listeners[:i:i], p.listeners[i+1:]...)
				return
			}
		}
	}
}

func (p *Provider) notify(identity *Identity) {
	p.mu.Lock()
	listeners := append([]listener(nil), p.listeners...)
	p.mu.Unlock()

	for _, l := range listeners {
		l.fn(identity)
	}
}

func (p *Provider) issue(user *entities.User) (*Session, error) {
	now := p.clock.Now()
	expiresAt := now.Add(p.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        p.idGenerator.Generate(),
			Subject:   user.ID,
			Issuer:    p.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	signed, err := token.SignedString(p.secret)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign access token")
	}

	return &Session{
		AccessToken: signed,
		ExpiresAt:   expiresAt,
		User:        user,
	}, nil
}

func (p *Provider) parse(token string) (*claims, error) {
	c := &claims{}
	_, err := jwt.ParseWithClaims(token, c, func(*jwt.Token) (any, error) {
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(p.issuer),
		jwt.WithTimeFunc(p.clock.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	if c.Subject == "" || c.ID == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return c, nil
}

var validate = validator.New()

func validateEmail(email string) error {
	if email == "" {
		return authError(errors.InvalidArgument("email is required"), KindInvalidEmail)
	}
	if err := validate.Var(email, "email"); err != nil {
		return authError(errors.InvalidArgument("invalid email address"), KindInvalidEmail)
	}
	return nil
}

func invalidCredentials() *errors.Error {
	return authError(errors.Unauthenticated("invalid login credentials"), KindInvalidCredentials)
}
