// Jobboard - Community Job Board with Slack and Telegram Fan-out
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobboard

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the config file locations searched in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/jobboard/config.yaml",
	"/etc/jobboard/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns the built-in defaults, overridden by file then env.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Database: DatabaseConfig{
			URL:            "",
			ServiceRoleURL: "",
			MaxConns:       10,
			AutoMigrate:    false,
		},
		Redis: RedisConfig{
			Enabled: false,
			URL:     "redis://127.0.0.1:6379/0",
		},
		Cache: CacheConfig{
			Backend:   "memory",
			TTL:       5 * time.Minute,
			KeyPrefix: "jobboard:page:",
		},
		Analytics: AnalyticsConfig{
			Enabled:       false,
			DuckDBPath:    "/data/analytics.duckdb",
			BufferSize:    1024,
			FlushInterval: 5 * time.Second,
		},
		Notifications: NotificationsConfig{
			Timeout:          10 * time.Second,
			BreakerThreshold: 5,
			BreakerCooldown:  time.Minute,
			Telegram: TelegramConfig{
				APIBaseURL:    "https://api.telegram.org",
				RatePerSecond: 1,
			},
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{"http://localhost:3000"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Site: SiteConfig{
			BaseURL:          "http://localhost:3000",
			HomePath:         "/",
			AdminPath:        "/admin",
			AttributionParam: "ref",
			AttributionValue: "jobboard",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration with precedence ENV > file > defaults,
// then validates it.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns CONFIG_PATH if it exists, else the first default path found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields splits comma-separated env values for slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variables (lowercased) to koanf paths.
var envMappings = map[string]string{
	"http_port":                 "server.port",
	"http_host":                 "server.host",
	"http_read_timeout":         "server.read_timeout",
	"http_write_timeout":        "server.write_timeout",
	"http_idle_timeout":         "server.idle_timeout",
	"shutdown_timeout":          "server.shutdown_timeout",
	"environment":               "server.environment",
	"database_url":              "database.url",
	"database_service_role_url": "database.service_role_url",
	"database_max_conns":        "database.max_conns",
	"database_auto_migrate":     "database.auto_migrate",
	"redis_enabled":             "redis.enabled",
	"redis_url":                 "redis.url",
	"cache_backend":             "cache.backend",
	"cache_ttl":                 "cache.ttl",
	"cache_key_prefix":          "cache.key_prefix",
	"analytics_enabled":         "analytics.enabled",
	"analytics_duckdb_path":     "analytics.duckdb_path",
	"analytics_buffer_size":     "analytics.buffer_size",
	"analytics_flush_interval":  "analytics.flush_interval",
	"notify_timeout":            "notifications.timeout",
	"notify_breaker_threshold":  "notifications.breaker_threshold",
	"notify_breaker_cooldown":   "notifications.breaker_cooldown",
	"slack_webhook_url":         "notifications.slack.webhook_url",
	"telegram_bot_token":        "notifications.telegram.bot_token",
	"telegram_channel_id":       "notifications.telegram.chat_id",
	"telegram_chat_id":          "notifications.telegram.chat_id",
	"telegram_api_base_url":     "notifications.telegram.api_base_url",
	"telegram_rate_per_second":  "notifications.telegram.rate_per_second",
	"webhook_secret":            "webhook.secret",
	"jwt_secret":                "security.jwt_secret",
	"jwt_issuer":                "security.jwt_issuer",
	"jwt_audience":              "security.jwt_audience",
	"cors_origins":              "security.cors_origins",
	"rate_limit_requests":       "security.rate_limit_reqs",
	"rate_limit_window":         "security.rate_limit_window",
	"disable_rate_limit":        "security.rate_limit_disabled",
	"site_base_url":             "site.base_url",
	"site_home_path":            "site.home_path",
	"site_admin_path":           "site.admin_path",
	"attribution_param":         "site.attribution_param",
	"attribution_value":         "site.attribution_value",
	"log_level":                 "logging.level",
	"log_format":                "logging.format",
	"log_caller":                "logging.caller",
}

// envTransformFunc maps an environment variable to its koanf path. Unmapped
// variables return "" and are skipped so unrelated environment does not leak
// into configuration.
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
