// Jobboard - Community Job Board with Slack and Telegram Fan-out
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobboard

// Package points awards gamification points for job curation.
//
// Awards are best-effort. A failed increment is logged and counted, never
// returned to the caller, and never rolls back the job mutation that
// triggered it. The ledger can therefore under-count; no reconciliation
// exists.
package points

import (
	"context"

	"github.com/tomtom215/jobboard/internal/logging"
	"github.com/tomtom215/jobboard/internal/metrics"
)

// Fixed award amounts. The ledger exposes no way to award a negative or
// caller-chosen amount.
const (
	AwardCreate     = 100
	AwardDeactivate = 200
)

// Incrementer performs the atomic, elevated-privilege increment.
type Incrementer interface {
	IncrementPoints(ctx context.Context, userID string, amount int) (int64, error)
}

// Result describes one award attempt.
type Result struct {
	Awarded  int   // Points requested; 0 when nothing was due
	NewTotal int64 // Balance after the award, valid only when Known
	Known    bool
}

// Ledger is the only path that changes profile points.
type Ledger struct {
	store Incrementer
}

// NewLedger creates a ledger over the elevated store.
func NewLedger(store Incrementer) *Ledger {
	return &Ledger{store: store}
}

// ForCreate returns the award for creating a job.
func ForCreate() int {
	return AwardCreate
}

// ForUpdate returns the award for an update given the prior and new
// active flags. Only an active to inactive transition earns points.
func ForUpdate(wasActive, isActive bool) int {
	if wasActive && !isActive {
		return AwardDeactivate
	}
	return 0
}

// Award adds amount to userID's balance. Zero or negative amounts are a
// no-op. Errors are logged and swallowed.
func (l *Ledger) Award(ctx context.Context, userID string, amount int) Result {
	if amount <= 0 {
		metrics.RecordPointsAward(metrics.OutcomeSkipped)
		return Result{}
	}
	if l == nil || l.store == nil {
		metrics.RecordPointsAward(metrics.OutcomeError)
		logging.Ctx(ctx).Warn().
			Str("award_user_id", userID).
			Int("amount", amount).
			Msg("Points ledger not configured; award dropped")
		return Result{Awarded: amount}
	}

	total, err := l.store.IncrementPoints(ctx, userID, amount)
	if err != nil {
		metrics.RecordPointsAward(metrics.OutcomeError)
		logging.Ctx(ctx).Warn().Err(err).
			Str("award_user_id", userID).
			Int("amount", amount).
			Msg("Failed to award points")
		return Result{Awarded: amount}
	}

	metrics.RecordPointsAward(metrics.OutcomeSuccess)
	logging.Ctx(ctx).Debug().
		Str("award_user_id", userID).
		Int("amount", amount).
		Int64("new_total", total).
		Msg("Points awarded")
	return Result{Awarded: amount, NewTotal: total, Known: true}
}
