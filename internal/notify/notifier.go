// Jobboard - Community Job Board with Slack and Telegram Fan-out
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobboard

package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/jobboard/internal/config"
	"github.com/tomtom215/jobboard/internal/logging"
	"github.com/tomtom215/jobboard/internal/metrics"
	"github.com/tomtom215/jobboard/internal/models"
	"github.com/tomtom215/jobboard/internal/urlcanon"
)

// DefaultTimeout bounds each outbound call.
const DefaultTimeout = 10 * time.Second

// Notifier fans a job announcement out to its channels.
type Notifier struct {
	channels []Channel
	links    *LinkBuilder
	timeout  time.Duration
	logger   zerolog.Logger
}

// NewNotifier creates a notifier that attempts channels in the given order.
func NewNotifier(links *LinkBuilder, timeout time.Duration, channels ...Channel) *Notifier {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Notifier{
		channels: channels,
		links:    links,
		timeout:  timeout,
		logger:   logging.WithComponent("notify"),
	}
}

// NewFromConfig builds the Slack then Telegram notifier from configuration.
func NewFromConfig(cfg *config.Config, canon *urlcanon.Canonicalizer) *Notifier {
	n := cfg.Notifications
	client := &http.Client{Timeout: n.Timeout}
	breaker := BreakerConfig{FailureThreshold: n.BreakerThreshold, Cooldown: n.BreakerCooldown}

	slack := WithBreaker(NewSlackChannel(client, n.Slack.WebhookURL), breaker)
	telegram := WithBreaker(NewTelegramChannel(client, TelegramConfig{
		BotToken:      n.Telegram.BotToken,
		ChatID:        n.Telegram.ChatID,
		BaseURL:       n.Telegram.APIBaseURL,
		RatePerSecond: n.Telegram.RatePerSecond,
	}), breaker)

	links := NewLinkBuilder(canon, cfg.HomeURL(), cfg.ShortLinkURL)
	return NewNotifier(links, n.Timeout, slack, telegram)
}

// Notify announces job on every channel and reports each outcome. It never
// returns an error: channel failures are logged and recorded in the report.
func (n *Notifier) Notify(ctx context.Context, job *models.Job) *Report {
	a := n.links.Build(job)
	report := &Report{Results: make([]Result, 0, len(n.channels))}

	for _, ch := range n.channels {
		report.Results = append(report.Results, n.send(ctx, ch, a))
	}
	return report
}

// BreakerStates returns the circuit breaker state of every channel that has
// one, keyed by channel name.
func (n *Notifier) BreakerStates() map[string]string {
	states := make(map[string]string)
	for _, ch := range n.channels {
		if b, ok := ch.(*breakerChannel); ok {
			states[ch.Name()] = b.State()
		}
	}
	return states
}

func (n *Notifier) send(ctx context.Context, ch Channel, a *Announcement) (res Result) {
	name := ch.Name()
	res = Result{Channel: name}
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			res.OK = false
			res.Error = fmt.Sprintf("panic: %v", r)
		}
		metrics.RecordNotification(name, res.OK, time.Since(start))
		if !res.OK {
			n.logger.Warn().
				Str("channel", name).
				Int64("job_id", a.Job.ID).
				Str("error", res.Error).
				Msg("Job notification failed")
		}
	}()

	sendCtx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	if err := ch.Send(sendCtx, a); err != nil {
		res.Error = err.Error()
		return res
	}
	res.OK = true
	n.logger.Debug().Str("channel", name).Int64("job_id", a.Job.ID).Msg("Job notification delivered")
	return res
}
