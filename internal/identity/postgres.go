package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/quizville/quizville/internal/db/repository"
)

// PostgresDirectory adapts the profiles repository to the Directory
// interface. The remote path only ever sees bcrypt hashes, never plaintext.
type PostgresDirectory struct {
	repo *repository.ProfileRepository
}

var _ Directory = (*PostgresDirectory)(nil)

// NewPostgresDirectory wraps a profile repository.
func NewPostgresDirectory(repo *repository.ProfileRepository) *PostgresDirectory {
	return &PostgresDirectory{repo: repo}
}

func toUser(p repository.Profile) User {
	return User{
		ID:       p.ID.String(),
		Username: p.Username,
		Email:    p.Email,
		Role:     Role(p.Role),
	}
}

// Authenticate fetches the profile by email and verifies the password hash.
func (d *PostgresDirectory) Authenticate(ctx context.Context, email, password string) (User, error) {
	p, err := d.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, fmt.Errorf("fetch profile: %w", err)
	}
	if VerifyPassword(p.PasswordHash, password) != nil {
		return User{}, ErrInvalidCredentials
	}
	return toUser(p), nil
}

// List returns all profiles.
func (d *PostgresDirectory) List(ctx context.Context) ([]User, error) {
	profiles, err := d.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	users := make([]User, 0, len(profiles))
	for _, p := range profiles {
		users = append(users, toUser(p))
	}
	return users, nil
}

// GetByID fetches a profile by id.
func (d *PostgresDirectory) GetByID(ctx context.Context, id string) (User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return User{}, ErrUserNotFound
	}
	p, err := d.repo.GetByID(ctx, uid)
	if errors.Is(err, repository.ErrProfileNotFound) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, err
	}
	return toUser(p), nil
}

// GetByEmail fetches a profile by email.
func (d *PostgresDirectory) GetByEmail(ctx context.Context, email string) (User, error) {
	p, err := d.repo.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrProfileNotFound) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, err
	}
	return toUser(p), nil
}

// Insert creates a profile with a hashed password.
func (d *PostgresDirectory) Insert(ctx context.Context, req CreateUserRequest) (User, error) {
	hash, err := HashPassword(req.Password)
	if err != nil {
		return User{}, err
	}
	p, err := d.repo.Insert(ctx, repository.Profile{
		ID:           uuid.New(),
		Username:     req.Username,
		Email:        req.Email,
		Role:         string(req.Role),
		PasswordHash: hash,
	})
	if err != nil {
		return User{}, fmt.Errorf("insert profile: %w", err)
	}
	return toUser(p), nil
}

// Update mutates username and role only.
func (d *PostgresDirectory) Update(ctx context.Context, id string, req UpdateUserRequest) (User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return User{}, ErrUserNotFound
	}
	p, err := d.repo.Update(ctx, uid, req.Username, string(req.Role))
	if errors.Is(err, repository.ErrProfileNotFound) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("update profile: %w", err)
	}
	return toUser(p), nil
}

// Delete removes a profile by id.
func (d *PostgresDirectory) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrUserNotFound
	}
	err = d.repo.Delete(ctx, uid)
	if errors.Is(err, repository.ErrProfileNotFound) {
		return ErrUserNotFound
	}
	return err
}
