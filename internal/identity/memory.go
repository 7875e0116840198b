package identity

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// DefaultMockUsers is the fixed credential table used when the remote
// identity store is unconfigured or unreachable. Development and testing
// only; passwords are plaintext and matched exactly.
func DefaultMockUsers() []User {
	return []User{
		{ID: "1", Username: "admin", Email: "admin@example.com", Role: RoleAdmin, Password: "admin123"},
		{ID: "2", Username: "student1", Email: "student1@example.com", Role: RoleStudent, Password: "student1"},
		{ID: "3", Username: "student2", Email: "student2@example.com", Role: RoleStudent, Password: "student2"},
	}
}

// MemoryDirectory is the in-process fallback user table. Single-user-at-a-time
// usage is assumed; the mutex only guards against overlapping requests.
type MemoryDirectory struct {
	mu    sync.RWMutex
	users []User
}

var _ Directory = (*MemoryDirectory)(nil)

// NewMemoryDirectory creates a directory seeded with the given users.
func NewMemoryDirectory(seed []User) *MemoryDirectory {
	users := make([]User, len(seed))
	copy(users, seed)
	return &MemoryDirectory{users: users}
}

// Authenticate scans for an exact (email, password) match.
func (d *MemoryDirectory) Authenticate(_ context.Context, email, password string) (User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, u := range d.users {
		if u.Email == email && u.Password == password {
			return u, nil
		}
	}
	return User{}, ErrInvalidCredentials
}

// List returns a copy of the user table.
func (d *MemoryDirectory) List(_ context.Context) ([]User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]User, len(d.users))
	copy(out, d.users)
	return out, nil
}

// GetByID returns the user with the given id.
func (d *MemoryDirectory) GetByID(_ context.Context, id string) (User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, u := range d.users {
		if u.ID == id {
			return u, nil
		}
	}
	return User{}, ErrUserNotFound
}

// GetByEmail returns the first user with the given email. Email uniqueness
// is not enforced by the fallback table.
func (d *MemoryDirectory) GetByEmail(_ context.Context, email string) (User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, u := range d.users {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, ErrUserNotFound
}

// Insert appends a new user with a generated mock id.
func (d *MemoryDirectory) Insert(_ context.Context, req CreateUserRequest) (User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	u := User{
		ID:       "mock-" + uuid.NewString(),
		Username: req.Username,
		Email:    req.Email,
		Role:     req.Role,
		Password: req.Password,
	}
	d.users = append(d.users, u)
	return u, nil
}

// Update mutates username and role only.
func (d *MemoryDirectory) Update(_ context.Context, id string, req UpdateUserRequest) (User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, u := range d.users {
		if u.ID == id {
			d.users[i].Username = req.Username
			d.users[i].Role = req.Role
			return d.users[i], nil
		}
	}
	return User{}, ErrUserNotFound
}

// Delete removes the user with the given id.
func (d *MemoryDirectory) Delete(_ context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, u := range d.users {
		if u.ID == id {
			d.users = append(d.users[:i], d.users[i+1:]...)
			return nil
		}
	}
	return ErrUserNotFound
}
