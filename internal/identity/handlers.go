package identity

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	httperrors "github.com/quizville/quizville/pkg/http/errors"
)

// HTTPHandlers provides REST endpoints for authentication and the admin
// user-management panel.
type HTTPHandlers struct {
	authSvc  *Service
	oauthSvc *OAuthService
	logger   zerolog.Logger
}

// NewHTTPHandlers creates HTTP handlers for identity endpoints.
func NewHTTPHandlers(authSvc *Service, oauthSvc *OAuthService, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		authSvc:  authSvc,
		oauthSvc: oauthSvc,
		logger:   logger,
	}
}

func (h *HTTPHandlers) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error().Err(err).Msg("encode response failed")
	}
}

// Login handles POST /v1/auth/login
func (h *HTTPHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	user, tokens, err := h.authSvc.Login(r.Context(), req)
	if err != nil {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeLoginFailed, "Invalid email or password")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"user":          user,
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"expires_in":    tokens.ExpiresIn,
		"redirect_to":   user.Role.HomePath(),
	})
}

// Logout handles POST /v1/auth/logout
func (h *HTTPHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	h.authSvc.Logout(h.authSvc.CurrentUser(r.Context(), claims))
	h.respondJSON(w, http.StatusOK, map[string]interface{}{"logged_out": true})
}

// Refresh handles POST /v1/auth/refresh
func (h *HTTPHandlers) Refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	tokens, err := h.authSvc.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeRefreshFailed, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"expires_in":    tokens.ExpiresIn,
	})
}

// GetMe handles GET /v1/users/me
func (h *HTTPHandlers) GetMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	user := h.authSvc.CurrentUser(r.Context(), claims)
	h.respondJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

// ListUsers handles GET /v1/admin/users
func (h *HTTPHandlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.authSvc.ListUsers(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("list users failed")
		httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeUserFetchFailed, "Failed to fetch users")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

// CreateUser handles POST /v1/admin/users. The response carries the
// re-fetched list so the panel always renders the post-mutation state.
func (h *HTTPHandlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	user, err := h.authSvc.CreateUser(r.Context(), req)
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeUserCreationFailed, err.Error())
		return
	}

	h.respondAfterMutation(w, r, http.StatusCreated, map[string]interface{}{"user": user})
}

// UpdateUser handles PUT /v1/admin/users/{id}
func (h *HTTPHandlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	user, err := h.authSvc.UpdateUser(r.Context(), id, req)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			httperrors.RespondNotFound(w, httperrors.ErrCodeUserNotFound, "User not found")
			return
		}
		httperrors.RespondBadRequest(w, httperrors.ErrCodeUserUpdateFailed, err.Error())
		return
	}

	h.respondAfterMutation(w, r, http.StatusOK, map[string]interface{}{"user": user})
}

// DeleteUser handles DELETE /v1/admin/users/{id}
func (h *HTTPHandlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.authSvc.DeleteUser(r.Context(), id); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			httperrors.RespondNotFound(w, httperrors.ErrCodeUserNotFound, "User not found")
			return
		}
		httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeUserDeleteFailed, err.Error())
		return
	}

	h.respondAfterMutation(w, r, http.StatusOK, map[string]interface{}{"deleted": id})
}

// respondAfterMutation re-reads the user list after a write so the displayed
// list is always consistent with the last completed mutation.
func (h *HTTPHandlers) respondAfterMutation(w http.ResponseWriter, r *http.Request, status int, payload map[string]interface{}) {
	users, err := h.authSvc.ListUsers(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("post-mutation refetch failed")
		httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeUserFetchFailed, "Failed to fetch users")
		return
	}
	payload["users"] = users
	h.respondJSON(w, status, payload)
}

// OAuthStart handles GET /v1/oauth/{provider}/start
func (h *HTTPHandlers) OAuthStart(w http.ResponseWriter, r *http.Request) {
	if h.oauthSvc == nil {
		httperrors.RespondServiceUnavailable(w, httperrors.ErrCodeOAuthNotConfigured, "OAuth is not configured")
		return
	}

	provider := r.PathValue("provider")
	state := uuid.New().String()

	authURL, err := h.oauthSvc.StartFlow(provider, state)
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeOAuthStartFailed, err.Error())
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600, // 10 minutes
	})

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"auth_url": authURL,
		"state":    state,
	})
}

// OAuthCallback handles GET /v1/oauth/{provider}/callback
func (h *HTTPHandlers) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	if h.oauthSvc == nil {
		httperrors.RespondServiceUnavailable(w, httperrors.ErrCodeOAuthNotConfigured, "OAuth is not configured")
		return
	}

	provider := r.PathValue("provider")
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")

	if code == "" {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeOAuthMissingCode, "Authorization code required")
		return
	}

	cookie, err := r.Cookie("oauth_state")
	if err != nil || cookie.Value != state {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeOAuthInvalidState, "Invalid or missing state parameter")
		return
	}

	userInfo, err := h.oauthSvc.HandleCallback(r.Context(), provider, code)
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeOAuthCallbackFailed, err.Error())
		return
	}

	user, tokens, err := h.oauthSvc.CreateOrGetUser(r.Context(), h.authSvc, userInfo)
	if err != nil {
		httperrors.RespondInternalError(w, err.Error())
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
	})

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"user":          user,
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"expires_in":    tokens.ExpiresIn,
		"redirect_to":   user.Role.HomePath(),
	})
}
