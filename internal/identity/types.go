package identity

// Role determines which application section a session may access.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool { return r == RoleAdmin || r == RoleStudent }

// HomePath is the section a role lands on after login or a role-mismatch
// redirect.
func (r Role) HomePath() string {
	if r == RoleAdmin {
		return "/admin"
	}
	return "/student"
}

// User is the normalized user record produced by identity resolution.
// Password is only meaningful for the in-memory fallback table and is never
// serialized or sent over the network.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	Password string `json:"-"`
}

// TokenPair holds access and refresh tokens for an established session.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// LoginRequest for email/password authentication.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateUserRequest is the admin-create payload.
type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// UpdateUserRequest is the admin-edit payload. Email is immutable after
// creation, so only username and role can change.
type UpdateUserRequest struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}
