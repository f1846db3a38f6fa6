// Jobboard - Community Job Board with Slack and Telegram Fan-out
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobboard

package api

import (
	"context"
	"time"

	"github.com/tomtom215/jobboard/internal/analytics"
	"github.com/tomtom215/jobboard/internal/jobs"
	"github.com/tomtom215/jobboard/internal/models"
	"github.com/tomtom215/jobboard/internal/notify"
)

// JobService is the job mutation and read surface. Implemented by
// *jobs.Service.
type JobService interface {
	Create(ctx context.Context, in jobs.CreateInput) (*jobs.Created, error)
	Update(ctx context.Context, in jobs.UpdateInput) (*jobs.Updated, error)
	Get(ctx context.Context, id int64) (*models.Job, error)
	ListPublic(ctx context.Context, filter models.JobFilter) ([]models.Job, error)
	ListAdmin(ctx context.Context, filter models.JobFilter) ([]models.Job, error)
	ResolveShortCode(ctx context.Context, code string) (string, bool)
	InspectURL(ctx context.Context, raw string) (*jobs.URLInspection, error)
}

// Announcer fans a new job out to the notification channels. Implemented
// by *notify.Notifier.
type Announcer interface {
	Notify(ctx context.Context, job *models.Job) *notify.Report
}

// BreakerReporter exposes notification circuit breaker states. An
// Announcer that implements it has the states listed by /health/ready.
type BreakerReporter interface {
	BreakerStates() map[string]string
}

// Pinger is a dependency checked by the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HandlerConfig holds the handler dependencies.
type HandlerConfig struct {
	Jobs          JobService
	Announcer     Announcer
	WebhookSecret string

	// Analytics receives a job_announced event per fan-out. Nil disables it.
	Analytics analytics.Sink

	// Checks are pinged by /health/ready, keyed by name.
	Checks map[string]Pinger

	// ReadyTimeout bounds each readiness check. Defaults to 2s.
	ReadyTimeout time.Duration
}

// Handler serves every API endpoint.
type Handler struct {
	jobs          JobService
	announcer     Announcer
	webhookSecret string
	sink          analytics.Sink
	checks        map[string]Pinger
	readyTimeout  time.Duration
	startTime     time.Time
}

// NewHandler creates a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	h := &Handler{
		jobs:          cfg.Jobs,
		announcer:     cfg.Announcer,
		webhookSecret: cfg.WebhookSecret,
		sink:          cfg.Analytics,
		checks:        cfg.Checks,
		readyTimeout:  cfg.ReadyTimeout,
		startTime:     time.Now(),
	}
	if h.readyTimeout <= 0 {
		h.readyTimeout = 2 * time.Second
	}
	if h.sink == nil {
		h.sink = analytics.NullSink{}
	}
	if h.checks == nil {
		h.checks = map[string]Pinger{}
	}
	return h
}
