package auth

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"custodia.org/internal/ids"
)

const pgUniqueViolation = "23505"

var _ UserStore = (*PGUsers)(nil)

// PGUsers implements UserStore using PostgreSQL.
type PGUsers struct {
	db *sql.DB
}

func NewPGUsers(db *sql.DB) *PGUsers {
	return &PGUsers{db: db}
}

func (s *PGUsers) Create(ctx context.Context, u *User) error {
	if u.ID == "" {
		u.ID = ids.New()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	err := s.db.QueryRowContext(ctx,
		`insert into users(id, email, password_hash, full_name, role)
		 values($1,$2,$3,$4,$5)
		 returning created_at, updated_at`,
		u.ID, u.Email, u.PasswordHash, u.FullName, u.Role,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (s *PGUsers) Find(ctx context.Context, id string) (*User, error) {
	return s.scanOne(s.db.QueryRowContext(ctx,
		`select id, email, password_hash, full_name, role, created_at, updated_at
		 from users where id=$1`, id))
}

func (s *PGUsers) FindByEmail(ctx context.Context, email string) (*User, error) {
	return s.scanOne(s.db.QueryRowContext(ctx,
		`select id, email, password_hash, full_name, role, created_at, updated_at
		 from users where email=$1`, email))
}

func (s *PGUsers) scanOne(row *sql.Row) (*User, error) {
	var (
		u        User
		fullName sql.NullString
	)
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &fullName, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if fullName.Valid {
		u.FullName = fullName.String
	}
	return &u, nil
}
