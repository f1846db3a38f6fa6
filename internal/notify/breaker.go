// Jobboard - Community Job Board with Slack and Telegram Fan-out
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobboard

package notify

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/jobboard/internal/logging"
	"github.com/tomtom215/jobboard/internal/metrics"
)

// BreakerConfig configures the per-channel circuit breaker.
type BreakerConfig struct {
	// FailureThreshold is the number of consecutive failures that opens
	// the breaker. Zero disables the breaker.
	FailureThreshold uint32

	// Cooldown is how long the breaker stays open before a probe.
	Cooldown time.Duration
}

// breakerChannel short-circuits a channel whose service keeps failing.
// An open breaker is reported as a channel failure; nothing is queued.
type breakerChannel struct {
	Channel
	cb *gobreaker.CircuitBreaker[struct{}]
}

// WithBreaker wraps ch in a circuit breaker. Configuration errors do not
// count towards tripping, since retrying cannot fix them.
func WithBreaker(ch Channel, cfg BreakerConfig) Channel {
	if cfg.FailureThreshold == 0 {
		return ch
	}
	name := ch.Name()
	settings := gobreaker.Settings{
		Name:        "notify_" + name,
		MaxRequests: 1,
		Timeout:     cfg.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotConfigured)
		},
		OnStateChange: func(breaker string, from, to gobreaker.State) {
			metrics.SetCircuitBreakerState(breaker, to.String())
			logging.Warn().
				Str("breaker", breaker).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Notification circuit breaker state changed")
		},
	}
	metrics.SetCircuitBreakerState(settings.Name, gobreaker.StateClosed.String())
	return &breakerChannel{Channel: ch, cb: gobreaker.NewCircuitBreaker[struct{}](settings)}
}

func (b *breakerChannel) Send(ctx context.Context, a *Announcement) error {
	_, err := b.cb.Execute(func() (struct{}, error) {
		return struct{}{}, b.Channel.Send(ctx, a)
	})
	return err
}

// State returns the breaker state: "closed", "half-open" or "open".
func (b *breakerChannel) State() string {
	return b.cb.State().String()
}
