// Jobboard - Community Job Board with Slack and Telegram Fan-out
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobboard

package api

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/tomtom215/jobboard/internal/logging"
)

// HealthLive handles liveness probe requests (Kubernetes-style).
// Returns 200 OK if the process is alive, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style).
// Returns 200 only when every configured dependency answers a ping. Open
// notification breakers are listed but do not fail readiness; announcements
// are advisory.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	checks := make(map[string]string, len(names))
	ready := true
	for _, name := range names {
		ctx, cancel := context.WithTimeout(r.Context(), h.readyTimeout)
		err := h.checks[name].Ping(ctx)
		cancel()

		if err != nil {
			ready = false
			checks[name] = "unavailable"
			logging.Ctx(r.Context()).Warn().Err(err).Str("check", name).Msg("Readiness check failed")
			continue
		}
		checks[name] = "ok"
	}

	data := map[string]interface{}{
		"ready":  ready,
		"checks": checks,
		"uptime": time.Since(h.startTime).Seconds(),
	}
	if br, ok := h.announcer.(BreakerReporter); ok {
		data["breakers"] = br.BreakerStates()
	}
	if !ready {
		NewResponseWriter(w, r).ServiceUnavailable("service is not ready", data)
		return
	}
	NewResponseWriter(w, r).Success(data)
}
