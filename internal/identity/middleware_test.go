package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/quizville/quizville/internal/identity/jwt"
)

func okHandler() (http.Handler, *bool) {
	called := false
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}), &called
}

func withClaims(r *http.Request, claims *jwt.Claims) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims))
}

func TestMiddlewareInjectsClaims(t *testing.T) {
	svc := newTestService(nil)
	_, tokens, err := svc.Login(context.Background(), LoginRequest{
		Email:    "admin@example.com",
		Password: "admin123",
	})
	assert.NoError(t, err)

	var got *jwt.Claims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = ClaimsFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
	rec := httptest.NewRecorder()

	Middleware(svc, zerolog.Nop())(next).ServeHTTP(rec, req)

	assert.NotNil(t, got)
	assert.Equal(t, "1", got.UserID)
	assert.Equal(t, "admin", got.Role)
}

func TestMiddlewareAnonymousPassThrough(t *testing.T) {
	svc := newTestService(nil)
	next, called := okHandler()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	Middleware(svc, zerolog.Nop())(next).ServeHTTP(rec, req)

	assert.True(t, *called)
}

func TestMiddlewareRejectsBadToken(t *testing.T) {
	svc := newTestService(nil)
	next, called := okHandler()

	req := httptest.NewRequest(http.MethodGet, "/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()

	Middleware(svc, zerolog.Nop())(next).ServeHTTP(rec, req)

	assert.False(t, *called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRoleRedirectsAnonymousToLogin(t *testing.T) {
	next, called := okHandler()

	req := httptest.NewRequest(http.MethodGet, "/v1/admin/users?page=2", nil)
	rec := httptest.NewRecorder()

	RequireRole(RoleAdmin)(next).ServeHTTP(rec, req)

	assert.False(t, *called)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?next=%2Fv1%2Fadmin%2Fusers%3Fpage%3D2", rec.Header().Get("Location"))
}

func TestRequireRoleRedirectsMismatchToOwnSection(t *testing.T) {
	next, called := okHandler()

	req := httptest.NewRequest(http.MethodGet, "/v1/admin/users", nil)
	req = withClaims(req, &jwt.Claims{UserID: "2", Role: "student"})
	rec := httptest.NewRecorder()

	RequireRole(RoleAdmin)(next).ServeHTTP(rec, req)

	assert.False(t, *called)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/student", rec.Header().Get("Location"))
}

func TestRequireRoleAllowsMatch(t *testing.T) {
	next, called := okHandler()

	req := httptest.NewRequest(http.MethodGet, "/v1/admin/users", nil)
	req = withClaims(req, &jwt.Claims{UserID: "1", Role: "admin"})
	rec := httptest.NewRecorder()

	RequireRole(RoleAdmin)(next).ServeHTTP(rec, req)

	assert.True(t, *called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuth(t *testing.T) {
	next, called := okHandler()

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/logout", nil)
	rec := httptest.NewRecorder()
	RequireAuth(next).ServeHTTP(rec, req)
	assert.False(t, *called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = withClaims(httptest.NewRequest(http.MethodPost, "/v1/auth/logout", nil), &jwt.Claims{UserID: "3", Role: "student"})
	rec = httptest.NewRecorder()
	RequireAuth(next).ServeHTTP(rec, req)
	assert.True(t, *called)
}
