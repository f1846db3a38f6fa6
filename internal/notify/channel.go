// Jobboard - Community Job Board with Slack and Telegram Fan-out
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobboard

// Package notify announces newly created jobs on Slack and Telegram.
//
// Each channel is attempted exactly once per job, in a fixed order, and a
// failure in one never prevents the other. Failures are recorded in the
// per-channel Result and logged; they are never returned as errors and
// never retried.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tomtom215/jobboard/internal/models"
)

// Channel names.
const (
	ChannelSlack    = "slack"
	ChannelTelegram = "telegram"
)

// ErrNotConfigured is reported when a channel is missing credentials.
var ErrNotConfigured = errors.New("channel not configured")

// Channel delivers one announcement to one external service.
type Channel interface {
	Name() string
	Send(ctx context.Context, a *Announcement) error
}

// Announcement is a job plus the links rendered into every message.
type Announcement struct {
	Job models.Job

	// HomeURL is the public job listing.
	HomeURL string

	// ApplyURL is the canonicalized job URL with attribution.
	ApplyURL string

	// ShareURL is the short redirect link when the job has a short code,
	// otherwise the canonicalized job URL.
	ShareURL string
}

// Result is the outcome of one channel.
type Result struct {
	Channel string `json:"channel"`
	OK      bool   `json:"ok"`
	Error   string `json:"error,omitempty"`
}

// Report collects the results of one fan-out, in attempt order.
type Report struct {
	Results []Result `json:"channel_results"`
}

// Failed returns the results that did not succeed.
func (r *Report) Failed() []Result {
	var failed []Result
	for _, res := range r.Results {
		if !res.OK {
			failed = append(failed, res)
		}
	}
	return failed
}

// AllOK reports whether every channel succeeded.
func (r *Report) AllOK() bool {
	return len(r.Failed()) == 0
}

// Result returns the result for a channel by name.
func (r *Report) Result(channel string) (Result, bool) {
	for _, res := range r.Results {
		if res.Channel == channel {
			return res, true
		}
	}
	return Result{}, false
}

// DeliveryError is a rejection from the remote service.
type DeliveryError struct {
	Channel     string
	StatusCode  int
	Description string
}

func (e *DeliveryError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("%s returned status %d", e.Channel, e.StatusCode)
	}
	return fmt.Sprintf("%s returned status %d: %s", e.Channel, e.StatusCode, e.Description)
}

// escapeMarkup escapes the three characters that are control characters
// in both Telegram HTML and Slack mrkdwn.
func escapeMarkup(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// truncate shortens s to at most max runes, marking the cut with an ellipsis.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return string(r[:max])
	}
	return string(r[:max-1]) + "…"
}
