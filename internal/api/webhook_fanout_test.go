// Jobboard - Community Job Board with Slack and Telegram Fan-out
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobboard

package api

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/jobboard/internal/analytics"
	"github.com/tomtom215/jobboard/internal/notify"
	"github.com/tomtom215/jobboard/internal/testinfra"
	"github.com/tomtom215/jobboard/internal/urlcanon"
)

func newFanoutNotifier(slackURL, telegramURL string) *notify.Notifier {
	client := &http.Client{Timeout: 2 * time.Second}
	links := notify.NewLinkBuilder(urlcanon.New("ref", "jobboard"), "https://jobs.example.com/", func(code string) string {
		return "https://jobs.example.com/j/" + code
	})
	return notify.NewNotifier(links, time.Second,
		notify.NewSlackChannel(client, slackURL),
		notify.NewTelegramChannel(client, notify.TelegramConfig{
			BotToken: "123:abc",
			ChatID:   "@jobs",
			BaseURL:  telegramURL,
		}),
	)
}

const fanoutBody = `{"type":"INSERT","record":{"id":21,"title":"Data Engineer","company":"Acme","location":"Remote","url":"https://acme.example.com/de?utm_source=feed","short_code":"Zx81QwE","submitted_on":"2026-03-01T10:00:00Z","is_active":true}}`

func TestJobWebhook_PartialChannelFailure(t *testing.T) {
	tests := []struct {
		name         string
		slackStatus  int
		slackBody    []byte
		telegramBody []byte
		wantSlack    bool
		wantTelegram bool
	}{
		{"slack fails", http.StatusInternalServerError, []byte("internal_error"), testinfra.TelegramOKResponse(), false, true},
		{"telegram fails", http.StatusOK, testinfra.SlackOKResponse(), testinfra.TelegramErrorResponse("Bad Request: chat not found"), true, false},
		{"both succeed", http.StatusOK, testinfra.SlackOKResponse(), testinfra.TelegramOKResponse(), true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slack := testinfra.NewCaptureServer(t)
			slack.Respond(tt.slackStatus, tt.slackBody)
			telegram := testinfra.NewCaptureServer(t)
			telegram.Respond(http.StatusOK, tt.telegramBody)

			router := newTestRouter(t, &fakeJobs{}, newFanoutNotifier(slack.URL(), telegram.URL()), testSecret)
			rec, env := do(t, router, http.MethodPost, "/api/v1/webhooks/jobs", fanoutBody,
				map[string]string{WebhookSecretHeader: testSecret})

			require.Equal(t, http.StatusOK, rec.Code)
			assert.True(t, env.Success)
			assert.Equal(t, 1, slack.Count(), "slack attempted")
			assert.Equal(t, 1, telegram.Count(), "telegram attempted regardless of slack")

			var data struct {
				Results []notify.Result `json:"channel_results"`
			}
			require.NoError(t, json.Unmarshal(env.Data, &data))
			require.Len(t, data.Results, 2)
			assert.Equal(t, notify.ChannelSlack, data.Results[0].Channel)
			assert.Equal(t, tt.wantSlack, data.Results[0].OK)
			assert.Equal(t, notify.ChannelTelegram, data.Results[1].Channel)
			assert.Equal(t, tt.wantTelegram, data.Results[1].OK)
		})
	}
}

func TestJobWebhook_AnnouncementLinks(t *testing.T) {
	slack := testinfra.NewCaptureServer(t)
	slack.Respond(http.StatusOK, testinfra.SlackOKResponse())
	telegram := testinfra.NewCaptureServer(t)
	telegram.Respond(http.StatusOK, testinfra.TelegramOKResponse())

	router := newTestRouter(t, &fakeJobs{}, newFanoutNotifier(slack.URL(), telegram.URL()), testSecret)
	rec, _ := do(t, router, http.MethodPost, "/api/v1/webhooks/jobs", fanoutBody,
		map[string]string{WebhookSecretHeader: testSecret})
	require.Equal(t, http.StatusOK, rec.Code)

	require.Equal(t, 1, slack.Count())
	slackBody := string(slack.Captures()[0].Body)
	assert.Contains(t, slackBody, "https://acme.example.com/de?ref=jobboard")
	assert.NotContains(t, slackBody, "utm_source")

	require.Equal(t, 1, telegram.Count())
	var msg notify.TelegramSendMessageRequest
	require.NoError(t, telegram.Captures()[0].Decode(&msg))
	assert.Equal(t, "HTML", msg.ParseMode)
	assert.True(t, msg.DisableWebPagePreview)
	assert.Contains(t, msg.Text, "https://jobs.example.com/j/Zx81QwE")
	assert.Equal(t, "/bot123:abc/sendMessage", telegram.Captures()[0].Path)
}

func TestJobWebhook_RecordsAnnouncementEvent(t *testing.T) {
	slack := testinfra.NewCaptureServer(t)
	slack.Respond(http.StatusInternalServerError, []byte("internal_error"))
	telegram := testinfra.NewCaptureServer(t)
	telegram.Respond(http.StatusOK, testinfra.TelegramOKResponse())

	sink := analytics.NewMemorySink()
	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitDisabled = true
	h := NewHandler(HandlerConfig{
		Jobs:          &fakeJobs{},
		Announcer:     newFanoutNotifier(slack.URL(), telegram.URL()),
		WebhookSecret: testSecret,
		Analytics:     sink,
	})
	router := NewRouter(h, NewChiMiddleware(cfg), bearerAuthenticator{}).Setup()

	body := `{"type":"INSERT","record":{"id":21,"title":"Data Engineer","company":"Acme","location":"Remote","url":"https://acme.example.com/de","short_code":"Zx81QwE","submitted_on":"2026-03-01T10:00:00Z","is_active":true,"created_by":"11111111-1111-1111-1111-111111111111"}}`
	rec, _ := do(t, router, http.MethodPost, "/api/v1/webhooks/jobs", body,
		map[string]string{WebhookSecretHeader: testSecret})
	require.Equal(t, http.StatusOK, rec.Code)

	events := sink.Named(analytics.EventJobAnnounced)
	require.Len(t, events, 1)
	ev := events[0]
	assert.Equal(t, "11111111-1111-1111-1111-111111111111", ev.DistinctID)
	assert.Equal(t, int64(21), ev.Properties["job_id"])
	assert.Equal(t, "Zx81QwE", ev.Properties["short_code"])
	assert.Equal(t, false, ev.Properties["slack_ok"])
	assert.NotEmpty(t, ev.Properties["slack_error"])
	assert.Equal(t, true, ev.Properties["telegram_ok"])
	assert.NotContains(t, ev.Properties, "telegram_error")
	assert.Equal(t, false, ev.Properties["all_delivered"])
	assert.Equal(t, 1, ev.Properties["failed_channels"])
}

func TestJobWebhook_AnnouncementEventSinkFailureIsAdvisory(t *testing.T) {
	sink := analytics.NewMemorySink()
	sink.FailWith(errors.New("analytics down"))

	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitDisabled = true
	announcer := &fakeAnnouncer{}
	h := NewHandler(HandlerConfig{
		Jobs:          &fakeJobs{},
		Announcer:     announcer,
		WebhookSecret: testSecret,
		Analytics:     sink,
	})
	router := NewRouter(h, NewChiMiddleware(cfg), bearerAuthenticator{}).Setup()

	rec, env := do(t, router, http.MethodPost, "/api/v1/webhooks/jobs", fanoutBody,
		map[string]string{WebhookSecretHeader: testSecret})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, 1, announcer.count())
}
