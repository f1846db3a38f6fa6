// Jobboard - Community Job Board with Slack and Telegram Fan-out
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobboard

// Package metrics defines the Prometheus collectors exported on /metrics.
//
// Collectors are registered on the default registry via promauto. Callers
// use the Record* helpers so label values stay consistent.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values shared by several collectors.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeSkipped = "skipped"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobboard_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jobboard_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "jobboard_api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobboard_api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"route"},
	)

	// Job Metrics
	JobsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jobboard_jobs_created_total",
			Help: "Total number of jobs created",
		},
	)

	JobsUpdatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobboard_jobs_updated_total",
			Help: "Total number of job updates",
		},
		[]string{"deactivated"},
	)

	ShortLinkRedirects = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobboard_short_link_redirects_total",
			Help: "Short link resolutions by result",
		},
		[]string{"result"}, // "job", "home"
	)

	// Points Ledger Metrics
	PointsAwardsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobboard_points_awards_total",
			Help: "Points award attempts by outcome",
		},
		[]string{"outcome"},
	)

	// Notification Metrics
	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobboard_notifications_total",
			Help: "Notification deliveries by channel and outcome",
		},
		[]string{"channel", "outcome"},
	)

	NotificationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jobboard_notification_duration_seconds",
			Help:    "Notification delivery latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"channel"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "jobboard_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	WebhookEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobboard_webhook_events_total",
			Help: "Database webhook deliveries by result",
		},
		[]string{"result"}, // "announced", "skipped", "unauthorized", "malformed", "error"
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobboard_page_cache_hits_total",
			Help: "Listing page cache hits",
		},
		[]string{"key"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobboard_page_cache_misses_total",
			Help: "Listing page cache misses",
		},
		[]string{"key"},
	)

	CacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobboard_page_cache_invalidations_total",
			Help: "Listing page cache invalidations",
		},
		[]string{"key"},
	)

	// Analytics Metrics
	AnalyticsEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobboard_analytics_events_total",
			Help: "Product analytics events by outcome",
		},
		[]string{"event", "outcome"},
	)

	AnalyticsQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "jobboard_analytics_queue_depth",
			Help: "Analytics events buffered and not yet written",
		},
	)

	AnalyticsFlushDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "jobboard_analytics_flush_duration_seconds",
			Help:    "Duration of analytics buffer flushes",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, route, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackActiveRequest tracks in-flight API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordJobUpdate counts an update, labelled by whether it deactivated the job.
func RecordJobUpdate(deactivated bool) {
	label := "false"
	if deactivated {
		label = "true"
	}
	JobsUpdatedTotal.WithLabelValues(label).Inc()
}

// RecordPointsAward counts a ledger call. Zero awards are recorded as
// skipped and never reach the database.
func RecordPointsAward(outcome string) {
	PointsAwardsTotal.WithLabelValues(outcome).Inc()
}

// RecordNotification records one channel delivery.
func RecordNotification(channel string, ok bool, duration time.Duration) {
	outcome := OutcomeSuccess
	if !ok {
		outcome = OutcomeError
	}
	NotificationsTotal.WithLabelValues(channel, outcome).Inc()
	NotificationDuration.WithLabelValues(channel).Observe(duration.Seconds())
}

// SetCircuitBreakerState publishes a breaker state as 0 closed, 1 half-open,
// 2 open.
func SetCircuitBreakerState(name, state string) {
	var v float64
	switch state {
	case "half-open":
		v = 1
	case "open":
		v = 2
	}
	CircuitBreakerState.WithLabelValues(name).Set(v)
}

// RecordCacheLookup records a page cache hit or miss.
func RecordCacheLookup(key string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(key).Inc()
	} else {
		CacheMisses.WithLabelValues(key).Inc()
	}
}

// RecordAnalyticsEvent records a capture attempt.
func RecordAnalyticsEvent(event string, ok bool) {
	outcome := OutcomeSuccess
	if !ok {
		outcome = OutcomeError
	}
	AnalyticsEventsTotal.WithLabelValues(event, outcome).Inc()
}
