package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testManager() *Manager {
	return NewManager(TokenConfig{
		AccessSecret:  []byte("access-secret"),
		RefreshSecret: []byte("refresh-secret"),
	})
}

func TestAccessTokenRoundTrip(t *testing.T) {
	mgr := testManager()
	user := User{ID: "1", Username: "admin", Email: "admin@example.com", Role: "admin"}

	token, err := mgr.GenerateAccessToken(user)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := mgr.ValidateAccessToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "1", claims.UserID)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "quizville", claims.Issuer)
}

func TestAccessTokenRejectedAsRefresh(t *testing.T) {
	mgr := testManager()

	token, err := mgr.GenerateAccessToken(User{ID: "1"})
	assert.NoError(t, err)

	_, err = mgr.ValidateRefreshToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateWrongSecret(t *testing.T) {
	token, err := testManager().GenerateAccessToken(User{ID: "1"})
	assert.NoError(t, err)

	other := NewManager(TokenConfig{
		AccessSecret:  []byte("different-secret"),
		RefreshSecret: []byte("refresh-secret"),
	})
	_, err = other.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateExpiredToken(t *testing.T) {
	mgr := NewManager(TokenConfig{
		AccessSecret:  []byte("access-secret"),
		RefreshSecret: []byte("refresh-secret"),
		AccessTTL:     -1 * time.Minute,
	})

	token, err := mgr.GenerateAccessToken(User{ID: "1"})
	assert.NoError(t, err)

	_, err = mgr.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateGarbage(t *testing.T) {
	_, err := testManager().ValidateAccessToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
