package auth

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Service registers users and exchanges credentials for bearer tokens.
type Service struct {
	users  UserStore
	tokens *Tokens
}

// NewService constructs a Service over the given store and token signer.
func NewService(users UserStore, tokens *Tokens) *Service {
	return &Service{users: users, tokens: tokens}
}

// Register creates a credential record with a bcrypt-hashed password.
// A duplicate email surfaces as ErrAlreadyExists.
func (s *Service) Register(ctx context.Context, email, password, fullName string) (*User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidInput
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &User{
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(fullName),
		Role:         RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies the credentials and issues a signed token. Unknown email
// and wrong password both fail with ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (string, time.Time, *User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", time.Time{}, nil, ErrInvalidCredentials
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", time.Time{}, nil, ErrInvalidCredentials
		}
		// A store failure is not a credential problem; let the caller
		// answer 500, not 401.
		return "", time.Time{}, nil, err
	}
	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		return "", time.Time{}, nil, ErrInvalidCredentials
	}
	token, expiresAt, err := s.tokens.Generate(user)
	if err != nil {
		return "", time.Time{}, nil, err
	}
	return token, expiresAt, user, nil
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}
