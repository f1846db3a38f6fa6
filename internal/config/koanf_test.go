// Jobboard - Community Job Board with Slack and Telegram Fan-out
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobboard

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testJWTSecret = "0123456789abcdef0123456789abcdef"

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Cache.Backend != "memory" {
		t.Errorf("Cache.Backend = %q, want memory", cfg.Cache.Backend)
	}
	if cfg.Notifications.Timeout != 10*time.Second {
		t.Errorf("Notifications.Timeout = %v, want 10s", cfg.Notifications.Timeout)
	}
	if cfg.Notifications.Telegram.APIBaseURL != "https://api.telegram.org" {
		t.Errorf("Telegram.APIBaseURL = %q", cfg.Notifications.Telegram.APIBaseURL)
	}
	if cfg.Site.AttributionParam != "ref" {
		t.Errorf("Site.AttributionParam = %q, want ref", cfg.Site.AttributionParam)
	}
	if cfg.Analytics.Enabled {
		t.Error("Analytics should be disabled by default")
	}
}

func TestLoadWithKoanf_EnvOverrides(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("DATABASE_URL", "postgres://app@localhost/jobs")
	t.Setenv("JWT_SECRET", testJWTSecret)
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("NOTIFY_TIMEOUT", "3s")
	t.Setenv("SLACK_WEBHOOK_URL", "https://hooks.slack.com/services/T/B/X")
	t.Setenv("TELEGRAM_CHANNEL_ID", "@jobs")
	t.Setenv("CORS_ORIGINS", "https://jobs.example.com, https://admin.example.com")
	t.Setenv("UNRELATED_VARIABLE", "ignored")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Notifications.Timeout != 3*time.Second {
		t.Errorf("Notifications.Timeout = %v, want 3s", cfg.Notifications.Timeout)
	}
	if cfg.Notifications.Slack.WebhookURL != "https://hooks.slack.com/services/T/B/X" {
		t.Errorf("Slack.WebhookURL = %q", cfg.Notifications.Slack.WebhookURL)
	}
	if cfg.Notifications.Telegram.ChatID != "@jobs" {
		t.Errorf("Telegram.ChatID = %q", cfg.Notifications.Telegram.ChatID)
	}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[1] != "https://admin.example.com" {
		t.Errorf("CORSOrigins = %v", cfg.Security.CORSOrigins)
	}
	if cfg.ElevatedDatabaseURL() != "postgres://app@localhost/jobs" {
		t.Errorf("ElevatedDatabaseURL() should fall back to DATABASE_URL, got %q", cfg.ElevatedDatabaseURL())
	}
}

func TestLoadWithKoanf_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 9090
database:
  url: postgres://app@db/jobs
  service_role_url: postgres://service@db/jobs
security:
  jwt_secret: "` + testJWTSecret + `"
notifications:
  timeout: 5s
site:
  base_url: https://jobs.example.com
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("HTTP_PORT", "9191")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9191 {
		t.Errorf("env should override file: Server.Port = %d", cfg.Server.Port)
	}
	if cfg.Notifications.Timeout != 5*time.Second {
		t.Errorf("Notifications.Timeout = %v, want 5s", cfg.Notifications.Timeout)
	}
	if cfg.ElevatedDatabaseURL() != "postgres://service@db/jobs" {
		t.Errorf("ElevatedDatabaseURL() = %q", cfg.ElevatedDatabaseURL())
	}
	if got := cfg.ShortLinkURL("abc1234"); got != "https://jobs.example.com/j/abc1234" {
		t.Errorf("ShortLinkURL() = %q", got)
	}
	if got := cfg.HomeURL(); got != "https://jobs.example.com/" {
		t.Errorf("HomeURL() = %q", got)
	}
}

func TestLoadWithKoanf_MissingDatabase(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", testJWTSecret)

	if _, err := LoadWithKoanf(); err == nil {
		t.Fatal("expected error when DATABASE_URL is missing")
	}
}

func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"TELEGRAM_BOT_TOKEN": "notifications.telegram.bot_token",
		"WEBHOOK_SECRET":     "webhook.secret",
		"log_level":          "logging.level",
		"PATH":               "",
	}
	for in, want := range tests {
		if got := envTransformFunc(in); got != want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", in, got, want)
		}
	}
}
