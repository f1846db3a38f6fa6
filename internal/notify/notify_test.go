// Jobboard - Community Job Board with Slack and Telegram Fan-out
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobboard

package notify

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/jobboard/internal/models"
	"github.com/tomtom215/jobboard/internal/testinfra"
	"github.com/tomtom215/jobboard/internal/urlcanon"
)

func testJob() *models.Job {
	return &models.Job{
		ID:        42,
		Title:     "Go <Senior> Engineer",
		Company:   "Acme & Sons",
		Location:  "Remote",
		URL:       "https://acme.example/jobs/42?utm_source=x&team=platform",
		ShortCode: "aB3dE9z",
		IsActive:  true,
	}
}

func testLinks() *LinkBuilder {
	return NewLinkBuilder(
		urlcanon.New("ref", "jobboard"),
		"https://board.example/",
		func(code string) string { return "https://board.example/j/" + code },
	)
}

func TestLinkBuilder_Build(t *testing.T) {
	a := testLinks().Build(testJob())

	assert.Equal(t, "https://board.example/", a.HomeURL)
	assert.Equal(t, "https://acme.example/jobs/42?team=platform&ref=jobboard", a.ApplyURL)
	assert.Equal(t, "https://board.example/j/aB3dE9z", a.ShareURL)

	job := testJob()
	job.ShortCode = ""
	a = testLinks().Build(job)
	assert.Equal(t, "https://acme.example/jobs/42?team=platform", a.ShareURL)
}

func TestBuildSlackPayload(t *testing.T) {
	p := BuildSlackPayload(testLinks().Build(testJob()))

	require.Len(t, p.Blocks, 3)
	assert.Equal(t, "header", p.Blocks[0].Type)
	assert.Equal(t, "section", p.Blocks[1].Type)
	assert.Contains(t, p.Blocks[1].Text.Text, "Go &lt;Senior&gt; Engineer")
	assert.Contains(t, p.Blocks[1].Text.Text, "Acme &amp; Sons")
	assert.Contains(t, p.Blocks[1].Text.Text, "Remote")

	actions := p.Blocks[2]
	assert.Equal(t, "actions", actions.Type)
	require.Len(t, actions.Elements, 2)
	assert.Equal(t, "https://board.example/", actions.Elements[0].URL)
	assert.Equal(t, "https://acme.example/jobs/42?team=platform&ref=jobboard", actions.Elements[1].URL)
}

func TestBuildTelegramText(t *testing.T) {
	text := BuildTelegramText(testLinks().Build(testJob()))

	assert.Contains(t, text, "<b>Go &lt;Senior&gt; Engineer</b>")
	assert.Contains(t, text, "Acme &amp; Sons")
	assert.Contains(t, text, `<a href="https://board.example/j/aB3dE9z">`)
	assert.NotContains(t, text, "<Senior>")
}

func TestSlackChannel_Send(t *testing.T) {
	srv := testinfra.NewCaptureServer(t)
	srv.Respond(http.StatusOK, testinfra.SlackOKResponse())

	ch := NewSlackChannel(nil, srv.URL()+"/services/T/B/X")
	require.NoError(t, ch.Send(context.Background(), testLinks().Build(testJob())))

	caps := srv.Captures()
	require.Len(t, caps, 1)
	assert.Equal(t, "/services/T/B/X", caps[0].Path)
	assert.Equal(t, "application/json", caps[0].Headers.Get("Content-Type"))

	var payload SlackPayload
	require.NoError(t, caps[0].Decode(&payload))
	assert.Len(t, payload.Blocks, 3)
}

func TestSlackChannel_Non2xxIsFailure(t *testing.T) {
	srv := testinfra.NewCaptureServer(t)
	srv.Respond(http.StatusForbidden, []byte("invalid_token"))

	err := NewSlackChannel(nil, srv.URL()).Send(context.Background(), testLinks().Build(testJob()))

	var derr *DeliveryError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, http.StatusForbidden, derr.StatusCode)
	assert.Equal(t, "invalid_token", derr.Description)
}

func TestSlackChannel_NotConfigured(t *testing.T) {
	err := NewSlackChannel(nil, "").Send(context.Background(), testLinks().Build(testJob()))
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestTelegramChannel_Send(t *testing.T) {
	srv := testinfra.NewCaptureServer(t)
	srv.Respond(http.StatusOK, testinfra.TelegramOKResponse())

	ch := NewTelegramChannel(nil, TelegramConfig{BotToken: "123:abc", ChatID: "@jobs", BaseURL: srv.URL()})
	require.NoError(t, ch.Send(context.Background(), testLinks().Build(testJob())))

	caps := srv.Captures()
	require.Len(t, caps, 1)
	assert.Equal(t, "/bot123:abc/sendMessage", caps[0].Path)

	var msg TelegramSendMessageRequest
	require.NoError(t, caps[0].Decode(&msg))
	assert.Equal(t, "@jobs", msg.ChatID)
	assert.Equal(t, "HTML", msg.ParseMode)
	assert.True(t, msg.DisableWebPagePreview)
	assert.Contains(t, msg.Text, "Acme &amp; Sons")
}

func TestTelegramChannel_OKFalseIsFailure(t *testing.T) {
	srv := testinfra.NewCaptureServer(t)
	// Telegram can answer 200 with ok:false.
	srv.Respond(http.StatusOK, testinfra.TelegramErrorResponse("Bad Request: chat not found"))

	ch := NewTelegramChannel(nil, TelegramConfig{BotToken: "123:abc", ChatID: "@jobs", BaseURL: srv.URL()})
	err := ch.Send(context.Background(), testLinks().Build(testJob()))

	var derr *DeliveryError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, 400, derr.StatusCode)
	assert.Contains(t, derr.Description, "chat not found")
}

func TestTelegramChannel_NotConfigured(t *testing.T) {
	tests := []TelegramConfig{
		{ChatID: "@jobs"},
		{BotToken: "123:abc"},
	}
	for _, cfg := range tests {
		err := NewTelegramChannel(nil, cfg).Send(context.Background(), testLinks().Build(testJob()))
		assert.ErrorIs(t, err, ErrNotConfigured)
	}
}

func TestTelegramChannel_TransportErrorRedactsToken(t *testing.T) {
	ch := NewTelegramChannel(nil, TelegramConfig{BotToken: "123:secret", ChatID: "@jobs", BaseURL: "http://127.0.0.1:1"})
	err := ch.Send(context.Background(), testLinks().Build(testJob()))
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "123:secret")
}

func TestNotifier_PartialFailure(t *testing.T) {
	slack := testinfra.NewCaptureServer(t)
	slack.Respond(http.StatusInternalServerError, []byte("boom"))
	telegram := testinfra.NewCaptureServer(t)
	telegram.Respond(http.StatusOK, testinfra.TelegramOKResponse())

	n := NewNotifier(testLinks(), time.Second,
		NewSlackChannel(nil, slack.URL()),
		NewTelegramChannel(nil, TelegramConfig{BotToken: "1:a", ChatID: "c", BaseURL: telegram.URL()}),
	)

	report := n.Notify(context.Background(), testJob())
	require.Len(t, report.Results, 2)

	s, _ := report.Result(ChannelSlack)
	tg, _ := report.Result(ChannelTelegram)
	assert.False(t, s.OK)
	assert.NotEmpty(t, s.Error)
	assert.True(t, tg.OK)
	assert.Equal(t, 1, telegram.Count(), "telegram must be attempted after slack fails")
	assert.False(t, report.AllOK())
	assert.Len(t, report.Failed(), 1)
}

func TestNotifier_MissingConfigDoesNotBlockOtherChannel(t *testing.T) {
	slack := testinfra.NewCaptureServer(t)
	slack.Respond(http.StatusOK, testinfra.SlackOKResponse())

	n := NewNotifier(testLinks(), time.Second,
		NewSlackChannel(nil, slack.URL()),
		NewTelegramChannel(nil, TelegramConfig{}),
	)
	report := n.Notify(context.Background(), testJob())

	assert.Equal(t, []Result{
		{Channel: ChannelSlack, OK: true},
		{Channel: ChannelTelegram, OK: false, Error: "telegram bot token: channel not configured"},
	}, report.Results)
}

func TestNotifier_Timeout(t *testing.T) {
	slow := testinfra.NewCaptureServer(t)
	slow.RespondWith(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		w.WriteHeader(http.StatusOK)
	})

	n := NewNotifier(testLinks(), 50*time.Millisecond, NewSlackChannel(nil, slow.URL()))
	start := time.Now()
	report := n.Notify(context.Background(), testJob())

	assert.Less(t, time.Since(start), time.Second)
	assert.False(t, report.Results[0].OK)
}

type panicChannel struct{}

func (panicChannel) Name() string { return "panic" }

func (panicChannel) Send(context.Context, *Announcement) error { panic("bad channel") }

func TestNotifier_PanicIsContained(t *testing.T) {
	tg := &stubChannel{name: ChannelTelegram}
	n := NewNotifier(testLinks(), time.Second, panicChannel{}, tg)

	report := n.Notify(context.Background(), testJob())
	assert.False(t, report.Results[0].OK)
	assert.Contains(t, report.Results[0].Error, "panic")
	assert.True(t, report.Results[1].OK)
}

type stubChannel struct {
	name  string
	err   error
	calls int
}

func (s *stubChannel) Name() string { return s.name }

func (s *stubChannel) Send(context.Context, *Announcement) error {
	s.calls++
	return s.err
}

func TestWithBreaker_OpensAfterThreshold(t *testing.T) {
	stub := &stubChannel{name: "flaky", err: errors.New("503")}
	ch := WithBreaker(stub, BreakerConfig{FailureThreshold: 2, Cooldown: time.Minute})
	a := testLinks().Build(testJob())

	for i := 0; i < 4; i++ {
		assert.Error(t, ch.Send(context.Background(), a))
	}
	assert.Equal(t, 2, stub.calls, "open breaker must not call the channel")
	assert.Equal(t, "open", ch.(*breakerChannel).State())
}

func TestWithBreaker_NotConfiguredDoesNotTrip(t *testing.T) {
	stub := &stubChannel{name: "unset", err: ErrNotConfigured}
	ch := WithBreaker(stub, BreakerConfig{FailureThreshold: 1, Cooldown: time.Minute})
	a := testLinks().Build(testJob())

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, ch.Send(context.Background(), a), ErrNotConfigured)
	}
	assert.Equal(t, 3, stub.calls)
}

func TestWithBreaker_Disabled(t *testing.T) {
	stub := &stubChannel{name: "plain"}
	assert.Same(t, Channel(stub), WithBreaker(stub, BreakerConfig{}))
}

func TestEscapeMarkup(t *testing.T) {
	assert.Equal(t, "a &amp; b &lt;c&gt;", escapeMarkup("a & b <c>"))
	assert.Equal(t, "&amp;amp;", escapeMarkup("&amp;"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
	long := strings.Repeat("x", 200)
	assert.Len(t, []rune(truncate(long, slackHeaderMax)), slackHeaderMax)
}

func TestApplyURLHasSingleAttribution(t *testing.T) {
	u, err := url.Parse(testLinks().Build(testJob()).ApplyURL)
	require.NoError(t, err)
	assert.Equal(t, []string{"jobboard"}, u.Query()["ref"])
}

func TestNotifier_BreakerStates(t *testing.T) {
	flaky := WithBreaker(&stubChannel{name: ChannelSlack, err: errors.New("503")},
		BreakerConfig{FailureThreshold: 1, Cooldown: time.Minute})
	healthy := WithBreaker(&stubChannel{name: ChannelTelegram}, BreakerConfig{FailureThreshold: 1, Cooldown: time.Minute})
	plain := &stubChannel{name: "plain"}

	n := NewNotifier(testLinks(), time.Second, flaky, healthy, plain)
	report := n.Notify(context.Background(), testJob())
	require.Len(t, report.Results, 3)

	assert.Equal(t, map[string]string{
		ChannelSlack:    "open",
		ChannelTelegram: "closed",
	}, n.BreakerStates())
}
