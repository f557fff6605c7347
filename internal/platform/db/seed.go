package db

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"hrrecords/internal/domain/auth"
	"hrrecords/internal/platform/config"
)

// Seed creates the staff credential named by SEED_ADMIN_USERNAME when it is
// missing. Existing credentials are left untouched.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	username := strings.TrimSpace(cfg.SeedAdminUsername)
	if username == "" {
		return nil
	}
	return ensureAdminUser(ctx, pool, username, cfg.SeedAdminPassword)
}

func ensureAdminUser(ctx context.Context, pool *pgxpool.Pool, username, password string) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM users WHERE username = $1", username).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
    INSERT INTO users (username, password_hash, is_staff, is_active)
    VALUES ($1, $2, true, true)
    ON CONFLICT (username) DO NOTHING
  `, username, hash)
	if err != nil {
		return err
	}
	slog.Info("seeded staff credential", "username", username)
	return nil
}
