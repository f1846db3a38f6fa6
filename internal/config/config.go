// Jobboard - Community Job Board with Slack and Telegram Fan-out
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobboard

// Package config loads Jobboard configuration from built-in defaults, an
// optional YAML file and environment variables, in that order of precedence.
package config

import "time"

// Config is the complete application configuration.
type Config struct {
	Server        ServerConfig        `koanf:"server"`
	Database      DatabaseConfig      `koanf:"database"`
	Redis         RedisConfig         `koanf:"redis"`
	Cache         CacheConfig         `koanf:"cache"`
	Analytics     AnalyticsConfig     `koanf:"analytics"`
	Notifications NotificationsConfig `koanf:"notifications"`
	Webhook       WebhookConfig       `koanf:"webhook"`
	Security      SecurityConfig      `koanf:"security"`
	Site          SiteConfig          `koanf:"site"`
	Logging       LoggingConfig       `koanf:"logging"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development, staging, production
}

// DatabaseConfig holds Postgres connection settings.
//
// URL connects as the row-level-security constrained application role.
// ServiceRoleURL connects with elevated privilege and is used only by the
// points ledger.
type DatabaseConfig struct {
	URL            string `koanf:"url"`
	ServiceRoleURL string `koanf:"service_role_url"`
	MaxConns       int32  `koanf:"max_conns"`
	AutoMigrate    bool   `koanf:"auto_migrate"`
}

// RedisConfig holds the optional Redis connection.
type RedisConfig struct {
	Enabled bool   `koanf:"enabled"`
	URL     string `koanf:"url"`
}

// CacheConfig selects the listing page cache backend.
type CacheConfig struct {
	Backend   string        `koanf:"backend"` // memory or redis
	TTL       time.Duration `koanf:"ttl"`
	KeyPrefix string        `koanf:"key_prefix"`
}

// AnalyticsConfig controls the product analytics sink. When disabled the
// service emits into a no-op sink.
type AnalyticsConfig struct {
	Enabled       bool          `koanf:"enabled"`
	DuckDBPath    string        `koanf:"duckdb_path"`
	BufferSize    int           `koanf:"buffer_size"`
	FlushInterval time.Duration `koanf:"flush_interval"`
}

// NotificationsConfig holds the outbound channel settings. Missing channel
// credentials are not a startup error; the channel reports a configuration
// failure when a job is announced.
type NotificationsConfig struct {
	Timeout          time.Duration  `koanf:"timeout"`
	BreakerThreshold uint32         `koanf:"breaker_threshold"`
	BreakerCooldown  time.Duration  `koanf:"breaker_cooldown"`
	Slack            SlackConfig    `koanf:"slack"`
	Telegram         TelegramConfig `koanf:"telegram"`
}

// SlackConfig holds the incoming webhook URL.
type SlackConfig struct {
	WebhookURL string `koanf:"webhook_url"`
}

// TelegramConfig holds the Bot API credentials.
type TelegramConfig struct {
	BotToken      string  `koanf:"bot_token"`
	ChatID        string  `koanf:"chat_id"`
	APIBaseURL    string  `koanf:"api_base_url"`
	RatePerSecond float64 `koanf:"rate_per_second"`
}

// WebhookConfig holds the shared secret expected on database webhooks.
type WebhookConfig struct {
	Secret string `koanf:"secret"`
}

// SecurityConfig holds authentication and HTTP hardening settings.
type SecurityConfig struct {
	JWTSecret         string        `koanf:"jwt_secret"`
	JWTIssuer         string        `koanf:"jwt_issuer"`
	JWTAudience       string        `koanf:"jwt_audience"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// SiteConfig describes the public site the API serves.
type SiteConfig struct {
	BaseURL          string `koanf:"base_url"`
	HomePath         string `koanf:"home_path"`
	AdminPath        string `koanf:"admin_path"`
	AttributionParam string `koanf:"attribution_param"`
	AttributionValue string `koanf:"attribution_value"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load reads configuration using the layered koanf loader.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// ElevatedDatabaseURL returns the DSN for the points ledger, falling back to
// the application DSN outside production.
func (c *Config) ElevatedDatabaseURL() string {
	if c.Database.ServiceRoleURL != "" {
		return c.Database.ServiceRoleURL
	}
	return c.Database.URL
}

// HomeURL returns the absolute URL of the public job listing.
func (c *Config) HomeURL() string {
	return joinURL(c.Site.BaseURL, c.Site.HomePath)
}

// ShortLinkURL returns the absolute redirect link for a short code.
func (c *Config) ShortLinkURL(code string) string {
	return joinURL(c.Site.BaseURL, "/j/"+code)
}
