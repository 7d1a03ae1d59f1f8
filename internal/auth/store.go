package auth

import "context"

// UserStore describes persistence operations required by the auth service.
type UserStore interface {
	// Create persists a new user. A duplicate email fails with
	// ErrAlreadyExists; the backing store enforces the uniqueness.
	Create(ctx context.Context, u *User) error
	Find(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
}
