package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/quizville/quizville/internal/identity/jwt"
)

func testTokenConfig() jwt.TokenConfig {
	return jwt.TokenConfig{
		AccessSecret:  []byte("access-secret"),
		RefreshSecret: []byte("refresh-secret"),
	}
}

func newTestService(remote Directory) *Service {
	return NewService(remote, NewMemoryDirectory(DefaultMockUsers()), ServiceOptions{
		TokenConfig: testTokenConfig(),
	}, zerolog.Nop())
}

type failingDirectory struct {
	Directory
	err error
}

func (d failingDirectory) Authenticate(context.Context, string, string) (User, error) {
	return User{}, d.err
}

func (d failingDirectory) GetByID(context.Context, string) (User, error) {
	return User{}, d.err
}

type recordingNotifier struct {
	events []string
	users  []User
}

func (n *recordingNotifier) SessionEvent(event string, user User) {
	n.events = append(n.events, event)
	n.users = append(n.users, user)
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("testpassword123")
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.True(t, len(hash) > 20) // bcrypt hashes are long
}

func TestHashPasswordTooShort(t *testing.T) {
	_, err := HashPassword("short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestVerifyPassword(t *testing.T) {
	hash, _ := HashPassword("testpassword123")

	err := VerifyPassword(hash, "testpassword123")
	assert.NoError(t, err)

	err = VerifyPassword(hash, "wrongpassword")
	assert.Error(t, err)
}

func TestLoginMockAdmin(t *testing.T) {
	svc := newTestService(nil)

	user, tokens, err := svc.Login(context.Background(), LoginRequest{
		Email:    "admin@example.com",
		Password: "admin123",
	})
	assert.NoError(t, err)
	assert.Equal(t, "1", user.ID)
	assert.Equal(t, RoleAdmin, user.Role)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)

	claims, err := svc.ValidateToken(tokens.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, "1", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestLoginUnknownCredentials(t *testing.T) {
	svc := newTestService(nil)

	_, _, err := svc.Login(context.Background(), LoginRequest{
		Email:    "admin@example.com",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "admin123",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRemoteFailureFallsBackToMock(t *testing.T) {
	remote := failingDirectory{err: errors.New("connection refused")}
	svc := newTestService(remote)

	user, _, err := svc.Login(context.Background(), LoginRequest{
		Email:    "student1@example.com",
		Password: "student1",
	})
	assert.NoError(t, err)
	assert.Equal(t, "2", user.ID)
	assert.Equal(t, RoleStudent, user.Role)
}

func TestLoginEmitsSessionEvents(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := NewService(nil, NewMemoryDirectory(DefaultMockUsers()), ServiceOptions{
		TokenConfig: testTokenConfig(),
		Notifier:    notifier,
	}, zerolog.Nop())

	user, _, err := svc.Login(context.Background(), LoginRequest{
		Email:    "student2@example.com",
		Password: "student2",
	})
	assert.NoError(t, err)

	svc.Logout(*user)

	assert.Equal(t, []string{EventSignedIn, EventSignedOut}, notifier.events)
	assert.Equal(t, "3", notifier.users[0].ID)
}

func TestRefresh(t *testing.T) {
	svc := newTestService(nil)

	_, tokens, err := svc.Login(context.Background(), LoginRequest{
		Email:    "admin@example.com",
		Password: "admin123",
	})
	assert.NoError(t, err)

	fresh, err := svc.Refresh(context.Background(), tokens.RefreshToken)
	assert.NoError(t, err)
	assert.NotEmpty(t, fresh.AccessToken)

	// an access token is not a refresh token
	_, err = svc.Refresh(context.Background(), tokens.AccessToken)
	assert.Error(t, err)
}

func TestCurrentUserDegradesToStudent(t *testing.T) {
	svc := newTestService(nil)

	user := svc.CurrentUser(context.Background(), &jwt.Claims{
		UserID: "ghost-id",
		Email:  "ghost@example.com",
	})
	assert.Equal(t, "ghost-id", user.ID)
	assert.Equal(t, "ghost", user.Username)
	assert.Equal(t, RoleStudent, user.Role)
}

func TestCreateListDeleteUser(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, CreateUserRequest{
		Email:    "new@example.com",
		Password: "password123",
		Username: "newbie",
		Role:     RoleStudent,
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	users, err := svc.ListUsers(ctx)
	assert.NoError(t, err)
	assert.Len(t, users, 4)

	assert.NoError(t, svc.DeleteUser(ctx, created.ID))

	users, err = svc.ListUsers(ctx)
	assert.NoError(t, err)
	assert.Len(t, users, 3)
	for _, u := range users {
		assert.NotEqual(t, created.ID, u.ID)
	}
}

func TestCreateUserValidation(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, CreateUserRequest{Role: RoleStudent})
	assert.Error(t, err)

	_, err = svc.CreateUser(ctx, CreateUserRequest{Email: "x@example.com", Role: "superuser"})
	assert.Error(t, err)
}

func TestUpdateUserChangesUsernameAndRoleOnly(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	updated, err := svc.UpdateUser(ctx, "2", UpdateUserRequest{
		Username: "renamed",
		Role:     RoleAdmin,
	})
	assert.NoError(t, err)
	assert.Equal(t, "renamed", updated.Username)
	assert.Equal(t, RoleAdmin, updated.Role)
	assert.Equal(t, "student1@example.com", updated.Email)

	_, err = svc.UpdateUser(ctx, "missing", UpdateUserRequest{Username: "x", Role: RoleStudent})
	assert.ErrorIs(t, err, ErrUserNotFound)
}
