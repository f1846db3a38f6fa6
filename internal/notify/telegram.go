// Jobboard - Community Job Board with Slack and Telegram Fan-out
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobboard

package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"
)

const (
	// DefaultTelegramBaseURL is the Bot API endpoint.
	DefaultTelegramBaseURL = "https://api.telegram.org"

	telegramMessageMax = 4096
)

// TelegramConfig holds Bot API credentials.
type TelegramConfig struct {
	BotToken string
	ChatID   string
	BaseURL  string

	// RatePerSecond throttles sends. Zero disables throttling.
	RatePerSecond float64
}

// TelegramChannel posts HTML messages through the Bot API sendMessage call.
type TelegramChannel struct {
	client  *http.Client
	cfg     TelegramConfig
	limiter *rate.Limiter
}

// NewTelegramChannel creates a Telegram channel. Missing credentials yield
// a channel that reports ErrNotConfigured on every send.
func NewTelegramChannel(client *http.Client, cfg TelegramConfig) *TelegramChannel {
	if client == nil {
		client = http.DefaultClient
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultTelegramBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	var limiter *rate.Limiter
	if cfg.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1)
	}
	return &TelegramChannel{client: client, cfg: cfg, limiter: limiter}
}

// Name returns the channel identifier.
func (c *TelegramChannel) Name() string {
	return ChannelTelegram
}

// TelegramSendMessageRequest is the sendMessage request body.
type TelegramSendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

// TelegramAPIResponse is the Bot API response envelope.
type TelegramAPIResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code,omitempty"`
	Description string `json:"description,omitempty"`
}

// Send posts the announcement. A response with ok false is a failure
// regardless of HTTP status.
func (c *TelegramChannel) Send(ctx context.Context, a *Announcement) error {
	if c.cfg.BotToken == "" {
		return fmt.Errorf("telegram bot token: %w", ErrNotConfigured)
	}
	if c.cfg.ChatID == "" {
		return fmt.Errorf("telegram chat id: %w", ErrNotConfigured)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("telegram rate limit wait: %w", err)
		}
	}

	body, err := json.Marshal(TelegramSendMessageRequest{
		ChatID:                c.cfg.ChatID,
		Text:                  BuildTelegramText(a),
		ParseMode:             "HTML",
		DisableWebPagePreview: true,
	})
	if err != nil {
		return fmt.Errorf("marshal telegram payload: %w", err)
	}

	endpoint := c.cfg.BaseURL + "/bot" + c.cfg.BotToken + "/sendMessage"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		// The URL embeds the token; never surface it.
		return errors.New("create telegram request: invalid base url")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send telegram message: %w", redactToken(err, c.cfg.BotToken))
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return fmt.Errorf("read telegram response: %w", err)
	}

	var apiResp TelegramAPIResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return &DeliveryError{Channel: ChannelTelegram, StatusCode: resp.StatusCode, Description: "unparseable response"}
	}
	if !apiResp.OK {
		status := apiResp.ErrorCode
		if status == 0 {
			status = resp.StatusCode
		}
		return &DeliveryError{Channel: ChannelTelegram, StatusCode: status, Description: apiResp.Description}
	}
	return nil
}

// BuildTelegramText renders the HTML message body for a.
func BuildTelegramText(a *Announcement) string {
	job := &a.Job
	var sb strings.Builder
	sb.WriteString("<b>")
	sb.WriteString(escapeMarkup(job.Title))
	sb.WriteString("</b>\n")
	sb.WriteString(escapeMarkup(job.Company))
	sb.WriteString(" · ")
	sb.WriteString(escapeMarkup(job.Location))
	sb.WriteString("\n\n")
	sb.WriteString(`<a href="`)
	sb.WriteString(strings.ReplaceAll(escapeMarkup(a.ShareURL), `"`, "&quot;"))
	sb.WriteString(`">View job</a>`)
	return truncate(sb.String(), telegramMessageMax)
}

// redactToken removes the bot token from transport errors, which quote
// the request URL.
func redactToken(err error, token string) error {
	msg := err.Error()
	if token == "" || !strings.Contains(msg, token) {
		return err
	}
	return errors.New(strings.ReplaceAll(msg, token, "<redacted>"))
}
