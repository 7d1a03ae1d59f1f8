package auth

import "time"

// Roles recognized by the API. There is exactly one privileged role.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is a credential record. The password hash never leaves the process:
// it is excluded from JSON and stripped before responses are written.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name,omitempty"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity is the decoded token payload attached to a request context for
// the duration of one request. It is never persisted.
type Identity struct {
	ID    string
	Email string
	Role  string
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
