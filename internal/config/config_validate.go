// Jobboard - Community Job Board with Slack and Telegram Fan-out
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobboard

package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks that the configuration can start a server.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateAnalytics(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateSite(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.IsProduction() && c.Database.ServiceRoleURL == "" {
		return fmt.Errorf("DATABASE_SERVICE_ROLE_URL is required in production")
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("DATABASE_MAX_CONNS must be at least 1")
	}
	return nil
}

func (c *Config) validateCache() error {
	switch c.Cache.Backend {
	case "memory":
	case "redis":
		if !c.Redis.Enabled {
			return fmt.Errorf("CACHE_BACKEND=redis requires REDIS_ENABLED=true")
		}
	default:
		return fmt.Errorf("CACHE_BACKEND must be one of: memory, redis")
	}
	if c.Redis.Enabled && c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required when REDIS_ENABLED is true")
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}
	return nil
}

func (c *Config) validateAnalytics() error {
	if !c.Analytics.Enabled {
		return nil
	}
	if c.Analytics.DuckDBPath == "" {
		return fmt.Errorf("ANALYTICS_DUCKDB_PATH is required when analytics is enabled")
	}
	if c.Analytics.BufferSize < 1 {
		return fmt.Errorf("ANALYTICS_BUFFER_SIZE must be at least 1")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	n := c.Notifications
	if n.Timeout <= 0 || n.Timeout > 2*time.Minute {
		return fmt.Errorf("NOTIFY_TIMEOUT must be between 1ns and 2m, got %s", n.Timeout)
	}
	if n.BreakerThreshold == 0 {
		return fmt.Errorf("NOTIFY_BREAKER_THRESHOLD must be at least 1")
	}
	if n.Slack.WebhookURL != "" {
		if err := validateAbsoluteURL(n.Slack.WebhookURL, "SLACK_WEBHOOK_URL"); err != nil {
			return err
		}
	}
	if err := validateHTTPURL(n.Telegram.APIBaseURL, "TELEGRAM_API_BASE_URL"); err != nil {
		return err
	}
	if n.Telegram.RatePerSecond < 0 {
		return fmt.Errorf("TELEGRAM_RATE_PER_SECOND must not be negative")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(c.Security.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters for security")
	}
	if c.IsProduction() {
		if c.Webhook.Secret == "" {
			return fmt.Errorf("WEBHOOK_SECRET is required in production")
		}
		for _, origin := range c.Security.CORSOrigins {
			if origin == "*" {
				return fmt.Errorf("CORS_ORIGINS must not contain * in production")
			}
		}
	}
	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs < 1 || c.Security.RateLimitReqs > 100000 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be between 1 and 100000")
		}
		if c.Security.RateLimitWindow < time.Second {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be at least 1s")
		}
	}
	return nil
}

func (c *Config) validateSite() error {
	if err := validateHTTPURL(c.Site.BaseURL, "SITE_BASE_URL"); err != nil {
		return err
	}
	for name, p := range map[string]string{"SITE_HOME_PATH": c.Site.HomePath, "SITE_ADMIN_PATH": c.Site.AdminPath} {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("%s must start with /", name)
		}
	}
	if c.Site.AttributionParam == "" {
		return fmt.Errorf("ATTRIBUTION_PARAM must not be empty")
	}
	return nil
}

var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true,
}

var validLogFormats = map[string]bool{
	"json": true, "console": true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "production" || env == "prod"
}
