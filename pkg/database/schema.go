package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema holds the DDL for every table the system owns. Statements are
// idempotent so EnsureSchema can run on every boot.
//
// The (campaign_id, ip_address, play_seq) uniqueness on game_sessions is the
// authoritative arbiter for play limits: the application-level eligibility
// check fails fast with a friendly error, but under a race the constraint
// decides which insert wins.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS stores (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		slug       TEXT NOT NULL UNIQUE,
		email      TEXT NOT NULL,
		phone      TEXT NOT NULL DEFAULT '',
		address    TEXT NOT NULL DEFAULT '',
		logo       TEXT NOT NULL DEFAULT '',
		active     BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS store_users (
		id            TEXT PRIMARY KEY,
		store_id      TEXT NOT NULL REFERENCES stores(id),
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		name          TEXT NOT NULL,
		role          TEXT NOT NULL,
		active        BOOLEAN NOT NULL DEFAULT TRUE,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		last_login    TIMESTAMPTZ
	)`,

	`CREATE TABLE IF NOT EXISTS admin_users (
		id            TEXT PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		name          TEXT NOT NULL,
		role          TEXT NOT NULL DEFAULT 'admin',
		active        BOOLEAN NOT NULL DEFAULT TRUE,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS campaigns (
		id                 TEXT PRIMARY KEY,
		store_id           TEXT NOT NULL REFERENCES stores(id),
		name               TEXT NOT NULL,
		slug               TEXT NOT NULL,
		description        TEXT NOT NULL DEFAULT '',
		required_fields    JSONB NOT NULL DEFAULT '[]',
		prizes             JSONB NOT NULL,
		active             BOOLEAN NOT NULL DEFAULT TRUE,
		start_date         TIMESTAMPTZ NOT NULL,
		end_date           TIMESTAMPTZ NOT NULL,
		max_plays_per_day  INTEGER,
		max_total_plays    INTEGER,
		max_plays_per_user INTEGER,
		created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (store_id, slug)
	)`,

	`CREATE TABLE IF NOT EXISTS game_sessions (
		id           TEXT PRIMARY KEY,
		campaign_id  TEXT NOT NULL REFERENCES campaigns(id),
		store_id     TEXT NOT NULL REFERENCES stores(id),
		ip_address   TEXT NOT NULL,
		user_email   TEXT NOT NULL,
		user_data    JSONB NOT NULL DEFAULT '{}',
		prize_won    TEXT,
		voucher_code TEXT UNIQUE,
		play_seq     INTEGER NOT NULL,
		played_at    TIMESTAMPTZ NOT NULL,
		UNIQUE (campaign_id, ip_address, play_seq)
	)`,

	`CREATE TABLE IF NOT EXISTS vouchers (
		code              TEXT PRIMARY KEY,
		campaign_id       TEXT NOT NULL REFERENCES campaigns(id),
		store_id          TEXT NOT NULL REFERENCES stores(id),
		session_id        TEXT NOT NULL REFERENCES game_sessions(id),
		prize_name        TEXT NOT NULL,
		prize_description TEXT NOT NULL,
		created_at        TIMESTAMPTZ NOT NULL,
		expires_at        TIMESTAMPTZ NOT NULL,
		redeemed          BOOLEAN NOT NULL DEFAULT FALSE,
		redeemed_at       TIMESTAMPTZ,
		redeemed_by       TEXT
	)`,

	`CREATE INDEX IF NOT EXISTS idx_campaigns_store ON campaigns (store_id)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_campaign ON game_sessions (campaign_id)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_campaign_played ON game_sessions (campaign_id, played_at)`,
	`CREATE INDEX IF NOT EXISTS idx_vouchers_store ON vouchers (store_id)`,
}

// EnsureSchema creates all tables and indexes if they do not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
