// Jobboard - Community Job Board with Slack and Telegram Fan-out
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobboard

package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaStatements are idempotent and applied in order.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS profiles (
		id           UUID PRIMARY KEY,
		email        TEXT NOT NULL DEFAULT '',
		username     TEXT NOT NULL DEFAULT '',
		display_name TEXT NOT NULL DEFAULT '',
		role         TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('owner', 'admin', 'user')),
		points       BIGINT NOT NULL DEFAULT 0,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS jobs (
		id           BIGSERIAL PRIMARY KEY,
		title        TEXT NOT NULL,
		company      TEXT NOT NULL,
		location     TEXT NOT NULL,
		url          TEXT NOT NULL,
		short_code   TEXT UNIQUE,
		submitted_on TIMESTAMPTZ NOT NULL DEFAULT now(),
		is_active    BOOLEAN NOT NULL DEFAULT true,
		created_by   UUID REFERENCES profiles(id) ON DELETE SET NULL,
		updated_by   UUID REFERENCES profiles(id) ON DELETE SET NULL,
		updated_at   TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_active_submitted ON jobs (is_active, submitted_on DESC)`,
	// Points only move through this function, which runs with the
	// privileges of its owner so the application role needs no UPDATE
	// grant on profiles.points.
	`CREATE OR REPLACE FUNCTION increment_points(p_user_id UUID, p_amount INTEGER)
	RETURNS BIGINT
	LANGUAGE sql
	SECURITY DEFINER
	AS $$
		UPDATE profiles
		   SET points = points + p_amount, updated_at = now()
		 WHERE id = p_user_id
		RETURNING points
	$$`,
}

// Migrate creates the tables and functions the store relies on.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for i, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
