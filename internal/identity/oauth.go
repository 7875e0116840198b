package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// OAuthProviderGoogle is the only provider currently wired.
const OAuthProviderGoogle = "google"

// OAuthUserInfo contains user data from the OAuth provider.
type OAuthUserInfo struct {
	ProviderID string
	Email      string
	Name       string
}

// OAuthService handles the Google sign-in flow.
type OAuthService struct {
	googleConfig *oauth2.Config
	logger       zerolog.Logger
	httpClient   *http.Client
}

// NewOAuthService creates an OAuth service with provider credentials.
func NewOAuthService(googleClientID, googleClientSecret, googleRedirectURI string, logger zerolog.Logger) *OAuthService {
	config := &oauth2.Config{
		ClientID:     googleClientID,
		ClientSecret: googleClientSecret,
		RedirectURL:  googleRedirectURI,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}

	return &OAuthService{
		googleConfig: config,
		logger:       logger,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

// StartFlow generates the authorization URL for the provider.
func (s *OAuthService) StartFlow(provider, state string) (string, error) {
	if provider != OAuthProviderGoogle {
		return "", fmt.Errorf("unsupported provider: %s", provider)
	}
	if s.googleConfig == nil || s.googleConfig.ClientID == "" {
		return "", fmt.Errorf("OAuth not configured (missing GOOGLE_OAUTH_CLIENT_ID)")
	}

	return s.googleConfig.AuthCodeURL(state, oauth2.AccessTypeOffline), nil
}

// HandleCallback exchanges the authorization code for provider user info.
func (s *OAuthService) HandleCallback(ctx context.Context, provider, code string) (*OAuthUserInfo, error) {
	if provider != OAuthProviderGoogle {
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
	if s.googleConfig == nil {
		return nil, fmt.Errorf("OAuth not configured")
	}

	token, err := s.googleConfig.Exchange(ctx, code)
	if err != nil {
		s.logger.Error().Err(err).Msg("oauth token exchange failed")
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://www.googleapis.com/oauth2/v2/userinfo", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user info API returned status %d", resp.StatusCode)
	}

	var googleUser struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&googleUser); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}

	return &OAuthUserInfo{
		ProviderID: googleUser.ID,
		Email:      googleUser.Email,
		Name:       googleUser.Name,
	}, nil
}

// CreateOrGetUser resolves the OAuth identity to a local account, creating a
// student account on first sign-in, and establishes a session.
func (s *OAuthService) CreateOrGetUser(ctx context.Context, authSvc *Service, info *OAuthUserInfo) (*User, *TokenPair, error) {
	dir := authSvc.active()

	user, err := dir.GetByEmail(ctx, info.Email)
	if err != nil {
		username := info.Name
		if username == "" {
			if at := strings.IndexByte(info.Email, '@'); at > 0 {
				username = info.Email[:at]
			}
		}
		user, err = dir.Insert(ctx, CreateUserRequest{
			Email: info.Email,
			// OAuth accounts never log in with this password.
			Password: uuid.NewString(),
			Username: username,
			Role:     RoleStudent,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("create oauth user: %w", err)
		}
		s.logger.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("oauth user created")
	}

	return authSvc.establishSession(user)
}
