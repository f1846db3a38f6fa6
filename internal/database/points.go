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

// PointsStore increments profile points over the elevated pool.
type PointsStore struct {
	pool *pgxpool.Pool
}

// NewPointsStore wraps the elevated pool. The caller keeps ownership.
func NewPointsStore(pool *pgxpool.Pool) *PointsStore {
	return &PointsStore{pool: pool}
}

// IncrementPoints adds amount to the user's points and returns the new
// total. A missing profile yields ErrNotFound.
func (s *PointsStore) IncrementPoints(ctx context.Context, userID string, amount int) (int64, error) {
	var total *int64
	err := s.pool.QueryRow(ctx, `SELECT increment_points($1::uuid, $2)`, userID, amount).Scan(&total)
	if isInvalidInput(err) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("increment points: %w", err)
	}
	if total == nil {
		return 0, ErrNotFound
	}
	return *total, nil
}
