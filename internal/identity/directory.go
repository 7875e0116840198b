package identity

import (
	"context"
	"errors"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Directory is the injected user store behind identity resolution and the
// admin CRUD panel. One implementation is backed by the remote Postgres
// store, one by an in-process table for testing and offline use; callers
// depend only on this interface.
type Directory interface {
	// Authenticate resolves an (email, password) pair to a user record or
	// ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, password string) (User, error)

	List(ctx context.Context) ([]User, error)
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	Insert(ctx context.Context, req CreateUserRequest) (User, error)
	Update(ctx context.Context, id string, req UpdateUserRequest) (User, error)
	Delete(ctx context.Context, id string) error
}
