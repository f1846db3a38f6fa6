// Jobboard - Community Job Board with Slack and Telegram Fan-out
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobboard

package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tomtom215/jobboard/internal/models"
)

// GetProfile loads a profile by user id. A malformed id is reported as
// ErrNotFound.
func (db *DB) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	const stmt = `SELECT id::text, email, username, display_name, role, points, created_at, updated_at
		FROM profiles WHERE id = $1`

	var p models.Profile
	var role string
	err := db.pool.QueryRow(ctx, stmt, userID).Scan(&p.ID, &p.Email, &p.Username,
		&p.DisplayName, &role, &p.Points, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) || isInvalidInput(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	p.Role = models.Role(role)
	return &p, nil
}

// UpsertProfile creates a profile or refreshes its identity fields and
// role. Points are never touched here.
func (db *DB) UpsertProfile(ctx context.Context, p *models.Profile) error {
	role := p.Role
	if role == "" {
		role = models.RoleUser
	}
	const stmt = `INSERT INTO profiles (id, email, username, display_name, role)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET email = EXCLUDED.email, username = EXCLUDED.username,
		    display_name = EXCLUDED.display_name, role = EXCLUDED.role, updated_at = now()`

	if _, err := db.pool.Exec(ctx, stmt, p.ID, p.Email, p.Username, p.DisplayName, string(role)); err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}
