// Jobboard - Community Job Board with Slack and Telegram Fan-out
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobboard

package api

import (
	"context"
	"crypto/subtle"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/jobboard/internal/analytics"
	"github.com/tomtom215/jobboard/internal/logging"
	"github.com/tomtom215/jobboard/internal/metrics"
	"github.com/tomtom215/jobboard/internal/models"
	"github.com/tomtom215/jobboard/internal/notify"
)

// WebhookSecretHeader carries the shared secret on database webhooks.
const WebhookSecretHeader = "x-webhook-secret"

// Webhook results recorded in jobboard_webhook_events_total.
const (
	webhookAnnounced    = "announced"
	webhookSkipped      = "skipped"
	webhookUnauthorized = "unauthorized"
	webhookMalformed    = "malformed"
	webhookError        = "error"
)

// JobWebhook handles POST /api/v1/webhooks/jobs.
//
// The database posts a row-change event here when a job is inserted. The
// handler checks the shared secret, parses the record and announces it on
// every notification channel. Channel failures are reported in the body but
// never change the 200 status: accepted does not mean delivered.
//
//   - 401 when the secret header is missing or wrong
//   - 400 when the body is not a valid insert event
//   - 500 when no secret is configured or the announcer is missing
//   - 200 otherwise, including ignored non-INSERT events
func (h *Handler) JobWebhook(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	ctx := r.Context()

	if h.webhookSecret == "" || h.announcer == nil {
		metrics.WebhookEventsTotal.WithLabelValues(webhookError).Inc()
		logging.Ctx(ctx).Error().Msg("Job webhook called but no webhook secret or announcer is configured")
		rw.InternalError("webhook is not configured")
		return
	}

	got := r.Header.Get(WebhookSecretHeader)
	if subtle.ConstantTimeCompare([]byte(got), []byte(h.webhookSecret)) != 1 {
		metrics.WebhookEventsTotal.WithLabelValues(webhookUnauthorized).Inc()
		logging.Ctx(ctx).Warn().
			Str("remote_addr", logging.SanitizeValue(r.RemoteAddr)).
			Bool("header_present", got != "").
			Msg("Rejected job webhook with invalid secret")
		rw.Unauthorized("invalid webhook secret")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		metrics.WebhookEventsTotal.WithLabelValues(webhookMalformed).Inc()
		rw.BadRequest("failed to read request body")
		return
	}

	var event models.JobWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		metrics.WebhookEventsTotal.WithLabelValues(webhookMalformed).Inc()
		logging.Ctx(ctx).Warn().Err(err).Msg("Malformed job webhook payload")
		rw.BadRequest("malformed webhook payload")
		return
	}

	if event.Type != "" && event.Type != models.WebhookEventInsert {
		metrics.WebhookEventsTotal.WithLabelValues(webhookSkipped).Inc()
		logging.Ctx(ctx).Debug().
			Str("type", logging.SanitizeValue(event.Type)).
			Msg("Ignoring non-insert job webhook")
		rw.Success(map[string]interface{}{"accepted": true, "skipped": true})
		return
	}

	if err := event.Validate(); err != nil {
		metrics.WebhookEventsTotal.WithLabelValues(webhookMalformed).Inc()
		logging.Ctx(ctx).Warn().Err(err).Msg("Invalid job webhook payload")
		rw.BadRequest(err.Error())
		return
	}

	job := event.Record.Job()
	report := h.announcer.Notify(ctx, &job)

	metrics.WebhookEventsTotal.WithLabelValues(webhookAnnounced).Inc()
	logging.Ctx(ctx).Info().
		Int64("job_id", job.ID).
		Bool("all_delivered", report.AllOK()).
		Int("failed_channels", len(report.Failed())).
		Msg("Job announced")

	h.recordAnnouncement(ctx, &job, report)

	rw.Success(map[string]interface{}{
		"accepted":        true,
		"job_id":          job.ID,
		"channel_results": report.Results,
	})
}

// recordAnnouncement emits job_announced with one <channel>_ok property per
// channel and <channel>_error for failures. Sink errors are logged only.
func (h *Handler) recordAnnouncement(ctx context.Context, job *models.Job, report *notify.Report) {
	props := map[string]interface{}{
		"job_id":          job.ID,
		"all_delivered":   report.AllOK(),
		"failed_channels": len(report.Failed()),
	}
	if job.ShortCode != "" {
		props["short_code"] = job.ShortCode
	}
	for _, res := range report.Results {
		props[res.Channel+"_ok"] = res.OK
		if res.Error != "" {
			props[res.Channel+"_error"] = res.Error
		}
	}

	distinctID := job.CreatedBy
	if distinctID == "" {
		distinctID = analytics.SystemDistinctID
	}
	event := analytics.NewEvent(analytics.EventJobAnnounced, distinctID, props)

	err := h.sink.Capture(ctx, event)
	metrics.RecordAnalyticsEvent(event.Name, err == nil)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).
			Int64("job_id", job.ID).
			Msg("Failed to record announcement event")
	}
}
