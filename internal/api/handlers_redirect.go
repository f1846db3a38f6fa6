// Jobboard - Community Job Board with Slack and Telegram Fan-out
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobboard

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/jobboard/internal/metrics"
)

// ShortLink handles GET /j/{code}. A known code redirects to the job URL
// with attribution; anything else redirects to the home listing.
func (h *Handler) ShortLink(w http.ResponseWriter, r *http.Request) {
	target, found := h.jobs.ResolveShortCode(r.Context(), chi.URLParam(r, "code"))

	result := "home"
	if found {
		result = "job"
	}
	metrics.ShortLinkRedirects.WithLabelValues(result).Inc()

	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Referrer-Policy", "no-referrer-when-downgrade")
	http.Redirect(w, r, target, http.StatusFound)
}
