// Jobboard - Community Job Board with Slack and Telegram Fan-out
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobboard

package models

import (
	"errors"
	"strings"
	"time"
)

// WebhookEventInsert is the only database event type that triggers fan-out.
const WebhookEventInsert = "INSERT"

// JobWebhookEvent is the row-change payload posted by the database.
type JobWebhookEvent struct {
	Type   string     `json:"type"`
	Table  string     `json:"table,omitempty"`
	Schema string     `json:"schema,omitempty"`
	Record *JobRecord `json:"record"`
}

// JobRecord is the inserted row as serialized by the database.
type JobRecord struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Company     string  `json:"company"`
	Location    string  `json:"location"`
	URL         string  `json:"url"`
	ShortCode   *string `json:"short_code"`
	SubmittedOn string  `json:"submitted_on"` // Postgres text form, with or without zone
	IsActive    bool    `json:"is_active"`
	CreatedBy   *string `json:"created_by"`
}

// Validate rejects events that cannot be turned into a notification.
func (e *JobWebhookEvent) Validate() error {
	if e.Type == "" {
		return errors.New("missing event type")
	}
	if e.Record == nil {
		return errors.New("missing record")
	}
	if e.Record.ID <= 0 {
		return errors.New("record id must be positive")
	}
	if strings.TrimSpace(e.Record.Title) == "" {
		return errors.New("record title is required")
	}
	if strings.TrimSpace(e.Record.URL) == "" {
		return errors.New("record url is required")
	}
	return nil
}

// submittedOnLayouts covers timestamptz and timestamp text output.
var submittedOnLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999-07",
	"2006-01-02 15:04:05.999999999",
}

// Job converts the record to a Job snapshot. An unparseable submitted_on
// yields a zero SubmittedOn rather than an error.
func (r *JobRecord) Job() Job {
	job := Job{
		ID:       r.ID,
		Title:    r.Title,
		Company:  r.Company,
		Location: r.Location,
		URL:      r.URL,
		IsActive: r.IsActive,
	}
	if r.ShortCode != nil {
		job.ShortCode = *r.ShortCode
	}
	if r.CreatedBy != nil {
		job.CreatedBy = *r.CreatedBy
	}
	for _, layout := range submittedOnLayouts {
		if t, err := time.Parse(layout, r.SubmittedOn); err == nil {
			job.SubmittedOn = t.UTC()
			break
		}
	}
	return job
}
