package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = 16
	cfg.MinConns = 2
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 10 * time.Minute
	cfg.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return pool, nil
}

// Migrate creates the game schema if it is missing. Every statement is
// idempotent so both the API and the worker can run it at boot without
// coordination.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE SCHEMA IF NOT EXISTS users`,
		`CREATE SCHEMA IF NOT EXISTS game`,
		`CREATE TABLE IF NOT EXISTS users.profiles (
			user_id     text PRIMARY KEY,
			email       text NOT NULL,
			username    text NOT NULL,
			invite_code text NOT NULL UNIQUE,
			created_at  timestamptz NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS game.seasons (
			id        bigint GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			name      text NOT NULL,
			status    text NOT NULL,
			starts_at timestamptz NOT NULL,
			ends_at   timestamptz NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS game.saves (
			user_id     text NOT NULL REFERENCES users.profiles(user_id),
			season_id   bigint NOT NULL REFERENCES game.seasons(id),
			week        integer NOT NULL DEFAULT 0,
			cash_micros bigint NOT NULL DEFAULT 0,
			fans        bigint NOT NULL DEFAULT 0,
			state       jsonb NOT NULL,
			updated_at  timestamptz NOT NULL DEFAULT now(),
			PRIMARY KEY (user_id, season_id)
		)`,
		`CREATE INDEX IF NOT EXISTS saves_season_score
			ON game.saves (season_id, cash_micros DESC)`,
		`CREATE TABLE IF NOT EXISTS game.ledger_entries (
			id          bigint GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			tx_group_id text NOT NULL,
			user_id     text NOT NULL,
			season_id   bigint NOT NULL,
			account     text NOT NULL,
			delta_micros bigint NOT NULL,
			metadata    jsonb NOT NULL DEFAULT '{}'::jsonb,
			created_at  timestamptz NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS ledger_user_season
			ON game.ledger_entries (user_id, season_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS game.idempotency_keys (
			user_id    text NOT NULL,
			key        text NOT NULL,
			action     text NOT NULL,
			created_at timestamptz NOT NULL,
			PRIMARY KEY (user_id, key)
		)`,
	}
	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
