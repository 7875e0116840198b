package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrProfileNotFound is returned when no profile matches the lookup.
var ErrProfileNotFound = errors.New("profile not found")

// Profile is a row of the profiles table (the remote identity store).
type Profile struct {
	ID           uuid.UUID
	Username     string
	Email        string
	Role         string
	PasswordHash string
	CreatedAt    time.Time
}

// ProfileRepository exposes typed DB operations required by identity flows.
type ProfileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository wraps a pgx pool for profile-specific operations.
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

const profileColumns = `id, username, email, role, password_hash, created_at`

func scanProfile(row pgx.Row) (Profile, error) {
	var p Profile
	err := row.Scan(&p.ID, &p.Username, &p.Email, &p.Role, &p.PasswordHash, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, ErrProfileNotFound
	}
	return p, err
}

// List returns all profiles in creation order.
func (r *ProfileRepository) List(ctx context.Context) ([]Profile, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+profileColumns+` FROM profiles ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []Profile
	for rows.Next() {
		var p Profile
		if err := rows.Scan(&p.ID, &p.Username, &p.Email, &p.Role, &p.PasswordHash, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// GetByID fetches a profile by its id.
func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (Profile, error) {
	return scanProfile(r.pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id))
}

// GetByEmail fetches a profile by email if present.
func (r *ProfileRepository) GetByEmail(ctx context.Context, email string) (Profile, error) {
	return scanProfile(r.pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE email = $1`, email))
}

// Insert stores a new profile. Email uniqueness is enforced by the table.
func (r *ProfileRepository) Insert(ctx context.Context, p Profile) (Profile, error) {
	return scanProfile(r.pool.QueryRow(ctx,
		`INSERT INTO profiles (id, username, email, role, password_hash)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+profileColumns, p.ID, p.Username, p.Email, p.Role, p.PasswordHash))
}

// Update mutates username and role only; email is immutable post-creation.
func (r *ProfileRepository) Update(ctx context.Context, id uuid.UUID, username, role string) (Profile, error) {
	return scanProfile(r.pool.QueryRow(ctx,
		`UPDATE profiles SET username = $2, role = $3 WHERE id = $1
		 RETURNING `+profileColumns, id, username, role))
}

// Delete removes a profile by id.
func (r *ProfileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}
