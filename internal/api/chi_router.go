// Jobboard - Community Job Board with Slack and Telegram Fan-out
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobboard

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/jobboard/internal/auth"
	"github.com/tomtom215/jobboard/internal/middleware"
)

// Router assembles the chi route tree.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	authenticator auth.Authenticator
	metrics       http.Handler
}

// NewRouter creates a Router. A nil authenticator makes every request
// anonymous; a nil middleware config uses DefaultChiMiddlewareConfig.
func NewRouter(handler *Handler, mw *ChiMiddleware, authenticator auth.Authenticator) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{
		handler:       handler,
		chiMiddleware: mw,
		authenticator: authenticator,
		metrics:       promhttp.Handler(),
	}
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.SlowRequests(middleware.DefaultSlowRequestThreshold))
	r.Use(router.chiMiddleware.CORS())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).NotFound("route not found")
	})

	// ========================
	// Health and Metrics
	// ========================
	r.Route("/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})
	r.With(router.chiMiddleware.RateLimitHealth()).Handle("/metrics", router.metrics)

	// ========================
	// Public Job Links
	// ========================
	r.With(router.chiMiddleware.RateLimitRedirect()).Get("/j/{code}", router.handler.ShortLink)

	// ========================
	// Database Webhooks
	// ========================
	// Authenticated by shared secret, not by user token.
	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitWebhook())
		r.Use(APISecurityHeaders())
		r.Post("/jobs", router.handler.JobWebhook)
	})

	// ========================
	// Job API
	// ========================
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Use(middleware.Compression)
		if router.authenticator != nil {
			r.Use(auth.Middleware(router.authenticator))
		}

		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit())
			r.Get("/jobs", router.handler.ListJobs)
			r.Get("/jobs/{id}", router.handler.GetJob)
			r.Get("/admin/jobs", router.handler.ListAdminJobs)
		})

		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitWrite())
			r.Post("/jobs", router.handler.CreateJob)
			r.Put("/jobs/{id}", router.handler.UpdateJob)
			r.Post("/urls/inspect", router.handler.InspectURL)
		})
	})

	return r
}
