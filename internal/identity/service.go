package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/quizville/quizville/internal/identity/jwt"
)

// Session event names pushed to subscribed clients.
const (
	EventSignedIn  = "signed_in"
	EventSignedOut = "signed_out"
)

// Notifier receives session lifecycle events (see pkg/http/ws).
type Notifier interface {
	SessionEvent(event string, user User)
}

// Service resolves identities and manages user accounts. Remote
// authentication is attempted first; any remote failure falls back to the
// fixed in-memory credential table.
type Service struct {
	remote   Directory // nil when the remote store is unconfigured
	mock     Directory
	tokenMgr *jwt.Manager
	notifier Notifier
	logger   zerolog.Logger
}

// ServiceOptions configures the identity service.
type ServiceOptions struct {
	TokenConfig jwt.TokenConfig
	Notifier    Notifier
}

// NewService creates an identity service. remote may be nil.
func NewService(remote, mock Directory, opts ServiceOptions, logger zerolog.Logger) *Service {
	return &Service{
		remote:   remote,
		mock:     mock,
		tokenMgr: jwt.NewManager(opts.TokenConfig),
		notifier: opts.Notifier,
		logger:   logger,
	}
}

// active returns the directory CRUD operations run against: the remote store
// when configured, otherwise the mock table.
func (s *Service) active() Directory {
	if s.remote != nil {
		return s.remote
	}
	return s.mock
}

// Login authenticates an (email, password) pair. Remote first; on any remote
// failure the mock table is scanned for an exact match. Failure is never
// fatal and leaves no session established.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*User, *TokenPair, error) {
	if s.remote != nil {
		user, err := s.remote.Authenticate(ctx, req.Email, req.Password)
		if err == nil {
			return s.establishSession(user)
		}
		s.logger.Warn().Err(err).Msg("remote auth failed, trying mock credentials")
	}

	user, err := s.mock.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	return s.establishSession(user)
}

func (s *Service) establishSession(user User) (*User, *TokenPair, error) {
	tokens, err := s.generateTokenPair(user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate tokens: %w", err)
	}

	if s.notifier != nil {
		s.notifier.SessionEvent(EventSignedIn, user)
	}
	s.logger.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("user logged in")

	return &user, tokens, nil
}

// Logout tears down the session. Tokens are stateless, so this only emits
// the sign-out event subscribed clients react to.
func (s *Service) Logout(user User) {
	if s.notifier != nil {
		s.notifier.SessionEvent(EventSignedOut, user)
	}
	s.logger.Info().Str("user_id", user.ID).Msg("user logged out")
}

// Refresh generates a new token pair from a refresh token.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokenMgr.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	user, err := s.lookupByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return s.generateTokenPair(user)
}

// ValidateToken validates an access token and returns its claims.
func (s *Service) ValidateToken(tokenString string) (*jwt.Claims, error) {
	return s.tokenMgr.ValidateAccessToken(tokenString)
}

// CurrentUser resolves the profile behind a validated token. A missing
// profile degrades to a student record derived from the token, the same way
// the login page tolerates a session without a profile row.
func (s *Service) CurrentUser(ctx context.Context, claims *jwt.Claims) User {
	if user, err := s.lookupByID(ctx, claims.UserID); err == nil {
		return user
	}

	username := claims.Username
	if username == "" {
		if at := strings.IndexByte(claims.Email, '@'); at > 0 {
			username = claims.Email[:at]
		} else {
			username = "user"
		}
	}
	return User{ID: claims.UserID, Username: username, Email: claims.Email, Role: RoleStudent}
}

func (s *Service) lookupByID(ctx context.Context, id string) (User, error) {
	if user, err := s.active().GetByID(ctx, id); err == nil {
		return user, nil
	}
	return s.mock.GetByID(ctx, id)
}

// ListUsers returns the user table of the active store.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.active().List(ctx)
}

// CreateUser adds an account to the active store.
func (s *Service) CreateUser(ctx context.Context, req CreateUserRequest) (User, error) {
	if req.Email == "" {
		return User{}, fmt.Errorf("email required")
	}
	if !req.Role.Valid() {
		return User{}, fmt.Errorf("unknown role %q", req.Role)
	}
	user, err := s.active().Insert(ctx, req)
	if err != nil {
		return User{}, err
	}
	s.logger.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("user created")
	return user, nil
}

// UpdateUser edits username and role of an existing account.
func (s *Service) UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (User, error) {
	if !req.Role.Valid() {
		return User{}, fmt.Errorf("unknown role %q", req.Role)
	}
	user, err := s.active().Update(ctx, id, req)
	if err != nil {
		return User{}, err
	}
	s.logger.Info().Str("user_id", user.ID).Msg("user updated")
	return user, nil
}

// DeleteUser removes an account from the active store.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	if err := s.active().Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", id).Msg("user deleted")
	return nil
}

func (s *Service) generateTokenPair(user User) (*TokenPair, error) {
	jwtUser := jwt.User{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     string(user.Role),
	}

	accessToken, err := s.tokenMgr.GenerateAccessToken(jwtUser)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.tokenMgr.GenerateRefreshToken(jwtUser)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(1 * 3600), // 1 hour in seconds
	}, nil
}
