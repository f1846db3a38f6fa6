// Jobboard - Community Job Board with Slack and Telegram Fan-out
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobboard

package notify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"
)

// Slack block limits.
const (
	slackHeaderMax  = 150
	slackSectionMax = 3000
)

// SlackChannel posts block messages to an incoming webhook.
type SlackChannel struct {
	client     *http.Client
	webhookURL string
}

// NewSlackChannel creates a Slack channel. An empty webhookURL yields a
// channel that reports ErrNotConfigured on every send.
func NewSlackChannel(client *http.Client, webhookURL string) *SlackChannel {
	if client == nil {
		client = http.DefaultClient
	}
	return &SlackChannel{client: client, webhookURL: webhookURL}
}

// Name returns the channel identifier.
func (c *SlackChannel) Name() string {
	return ChannelSlack
}

// SlackPayload is the incoming webhook message body.
type SlackPayload struct {
	Text   string       `json:"text"`
	Blocks []SlackBlock `json:"blocks"`
}

// SlackBlock is a layout block.
type SlackBlock struct {
	Type     string         `json:"type"`
	Text     *SlackText     `json:"text,omitempty"`
	Elements []SlackElement `json:"elements,omitempty"`
}

// SlackText is a plain_text or mrkdwn text object.
type SlackText struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Emoji bool   `json:"emoji,omitempty"`
}

// SlackElement is an interactive element. Only link buttons are used.
type SlackElement struct {
	Type     string     `json:"type"`
	Text     *SlackText `json:"text,omitempty"`
	URL      string     `json:"url,omitempty"`
	ActionID string     `json:"action_id,omitempty"`
	Style    string     `json:"style,omitempty"`
}

// Send posts the announcement. Any non-2xx response is a failure.
func (c *SlackChannel) Send(ctx context.Context, a *Announcement) error {
	if c.webhookURL == "" {
		return fmt.Errorf("slack webhook url: %w", ErrNotConfigured)
	}

	body, err := json.Marshal(BuildSlackPayload(a))
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send slack webhook: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &DeliveryError{Channel: ChannelSlack, StatusCode: resp.StatusCode, Description: string(respBody)}
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	return nil
}

// BuildSlackPayload renders the block message for a.
func BuildSlackPayload(a *Announcement) SlackPayload {
	job := &a.Job
	section := fmt.Sprintf("*%s*\n%s · %s",
		escapeMarkup(job.Title), escapeMarkup(job.Company), escapeMarkup(job.Location))

	buttons := []SlackElement{
		{
			Type:     "button",
			Text:     &SlackText{Type: "plain_text", Text: "Browse all jobs"},
			URL:      a.HomeURL,
			ActionID: "browse_jobs",
		},
		{
			Type:     "button",
			Text:     &SlackText{Type: "plain_text", Text: "Apply"},
			URL:      a.ApplyURL,
			ActionID: "apply",
			Style:    "primary",
		},
	}

	return SlackPayload{
		Text: fmt.Sprintf("New job: %s at %s", escapeMarkup(job.Title), escapeMarkup(job.Company)),
		Blocks: []SlackBlock{
			{
				Type: "header",
				Text: &SlackText{Type: "plain_text", Text: truncate("New job: "+job.Title, slackHeaderMax), Emoji: true},
			},
			{
				Type: "section",
				Text: &SlackText{Type: "mrkdwn", Text: truncate(section, slackSectionMax)},
			},
			{
				Type:     "actions",
				Elements: buttons,
			},
		},
	}
}
