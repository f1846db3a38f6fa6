// Jobboard - Community Job Board with Slack and Telegram Fan-out
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobboard

package middleware

import (
	"net/http"
	"time"

	"github.com/tomtom215/jobboard/internal/logging"
)

// DefaultSlowRequestThreshold is used when SlowRequests gets a zero threshold.
const DefaultSlowRequestThreshold = time.Second

// SlowRequests logs a warning for every request that takes longer than
// threshold. Latency distributions live in Prometheus; this only surfaces
// outliers with their request ID.
func SlowRequests(threshold time.Duration) func(http.Handler) http.Handler {
	if threshold <= 0 {
		threshold = DefaultSlowRequestThreshold
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapper := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapper, r)

			if elapsed := time.Since(start); elapsed > threshold {
				logging.Ctx(r.Context()).Warn().
					Str("method", r.Method).
					Str("route", RoutePattern(r)).
					Int("status", wrapper.statusCode).
					Int64("duration_ms", elapsed.Milliseconds()).
					Int64("threshold_ms", threshold.Milliseconds()).
					Msg("Slow request detected")
			}
		})
	}
}
