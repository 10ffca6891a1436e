// Package repository holds the postgres-backed stores that outlive a
// match. The engine core persists nothing itself; achievements are its
// only external storage collaborator.
package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Xael/reversus1/internal/config"
)

// NewDB opens and pings a connection pool.
func NewDB(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	logger.Info("database connection pool initialized")
	return pool, nil
}

const createAchievementsTable = `
CREATE TABLE IF NOT EXISTS achievements (
	player_name TEXT NOT NULL,
	achievement TEXT NOT NULL,
	granted_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (player_name, achievement)
)`

const achievementFirstWin = "first_win"

// AchievementsRepository persists free-play milestones.
type AchievementsRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewAchievementsRepository creates the repository.
func NewAchievementsRepository(pool *pgxpool.Pool, logger *zap.Logger) *AchievementsRepository {
	return &AchievementsRepository{pool: pool, logger: logger}
}

// Init creates the schema when missing.
func (r *AchievementsRepository) Init(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, createAchievementsTable); err != nil {
		return fmt.Errorf("create achievements table: %w", err)
	}
	return nil
}

// GrantFirstWin records a player's first free-play victory. Granting an
// already-held achievement is a no-op.
func (r *AchievementsRepository) GrantFirstWin(ctx context.Context, playerName string) error {
	tag, err := r.pool.Exec(ctx,
		`INSERT INTO achievements (player_name, achievement) VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`,
		playerName, achievementFirstWin,
	)
	if err != nil {
		return fmt.Errorf("grant first win: %w", err)
	}
	if tag.RowsAffected() > 0 {
		r.logger.Info("achievement granted",
			zap.String("player", playerName),
			zap.String("achievement", achievementFirstWin),
		)
	}
	return nil
}

// HasFirstWin reports whether the player already holds the achievement.
func (r *AchievementsRepository) HasFirstWin(ctx context.Context, playerName string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM achievements WHERE player_name = $1 AND achievement = $2)`,
		playerName, achievementFirstWin,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("query first win: %w", err)
	}
	return exists, nil
}
