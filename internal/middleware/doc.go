// Jobboard - Community Job Board with Slack and Telegram Fan-out
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobboard

/*
Package middleware provides HTTP middleware for request tracking,
instrumentation and response compression.

All middleware uses the func(http.Handler) http.Handler shape so it plugs
directly into chi:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.SlowRequests(time.Second))

	r.Route("/api/v1", func(r chi.Router) {
	    r.Use(middleware.Compression)
	    r.Get("/jobs", h.ListJobs)
	})

Components:

  - RequestID: accepts a well-formed X-Request-ID from upstream or generates
    a UUID, echoes it on the response and stores it in the logging context.
  - PrometheusMetrics: request count, latency and in-flight gauge labelled by
    the chi route pattern, so /j/{code} is one series and not one per code.
  - SlowRequests: warns about requests slower than a threshold.
  - Compression: gzip for clients that accept it.

See Also:

  - internal/metrics: collector definitions
  - internal/api: router assembly
*/
package middleware
