package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"hrrecords/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const userColumns = "u.id, u.username, u.email, u.first_name, u.last_name, u.is_staff, u.is_active, u.last_login, u.created_at"

func scanUser(row pgx.Row, extra ...any) (User, error) {
	var out User
	dest := []any{&out.ID, &out.Username, &out.Email, &out.FirstName, &out.LastName, &out.IsStaff, &out.IsActive, &out.LastLogin, &out.CreatedAt}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	return out, nil
}

func (s *Store) FindActiveByUsername(ctx context.Context, username string) (Credential, error) {
	var hash string
	row := querier.From(ctx, s.DB).QueryRow(ctx, `
    SELECT `+userColumns+`, u.password_hash
    FROM users u
    WHERE u.username = $1 AND u.is_active
  `, username)
	user, err := scanUser(row, &hash)
	if err != nil {
		return Credential{}, err
	}
	return Credential{User: user, PasswordHash: hash}, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (User, error) {
	row := querier.From(ctx, s.DB).QueryRow(ctx, "SELECT "+userColumns+" FROM users u WHERE u.id = $1", id)
	return scanUser(row)
}

func (s *Store) UpdateLastLogin(ctx context.Context, userID string) error {
	_, err := querier.From(ctx, s.DB).Exec(ctx, "UPDATE users SET last_login = now() WHERE id = $1", userID)
	return err
}

func (s *Store) CreateUserIfAbsent(ctx context.Context, user NewUser) (string, bool, error) {
	var id string
	err := querier.From(ctx, s.DB).QueryRow(ctx, `
    INSERT INTO users (username, email, password_hash, first_name, last_name)
    VALUES ($1,$2,$3,$4,$5)
    ON CONFLICT (username) DO NOTHING
    RETURNING id
  `, user.Username, user.Email, user.PasswordHash, user.FirstName, user.LastName).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("insert user %q: %w", user.Username, err)
	}
	return id, true, nil
}

func (s *Store) CreateSession(ctx context.Context, userID, tokenHash string, expires time.Time) error {
	_, err := querier.From(ctx, s.DB).Exec(ctx, `
    INSERT INTO portal_sessions (user_id, token_hash, expires_at)
    VALUES ($1,$2,$3)
  `, userID, tokenHash, expires)
	return err
}

func (s *Store) SessionUser(ctx context.Context, tokenHash string) (User, error) {
	row := querier.From(ctx, s.DB).QueryRow(ctx, `
    SELECT `+userColumns+`
    FROM portal_sessions ps
    JOIN users u ON u.id = ps.user_id
    WHERE ps.token_hash = $1 AND ps.revoked_at IS NULL AND ps.expires_at > now() AND u.is_active
  `, tokenHash)
	user, err := scanUser(row)
	if errors.Is(err, ErrUserNotFound) {
		return User{}, ErrSessionInvalid
	}
	return user, err
}

func (s *Store) RevokeSession(ctx context.Context, tokenHash string) error {
	_, err := querier.From(ctx, s.DB).Exec(ctx, "UPDATE portal_sessions SET revoked_at = now() WHERE token_hash = $1 AND revoked_at IS NULL", tokenHash)
	return err
}
