// Jobboard - Community Job Board with Slack and Telegram Fan-out
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobboard

/*
Package main is the entry point for the Jobboard API server.

Jobboard is a community job board. Admins post and edit jobs; each new
job is announced to a Slack channel and a Telegram channel with an
attributed link back to the posting.

# Application Architecture

	RootSupervisor ("jobboard")
	├── DataSupervisor ("data-layer")
	│   └── DuckDB analytics writer (ANALYTICS_ENABLED=true)
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Startup order:

 1. Configuration: koanf v2 (defaults, then config.yaml, then environment)
 2. Logging: zerolog, level and format from LOG_LEVEL and LOG_FORMAT
 3. Postgres: application pool, plus the service-role pool for points
 4. Page cache: memory or Redis (CACHE_BACKEND)
 5. Analytics: DuckDB sink or a no-op sink
 6. Notifier: Slack then Telegram, each behind a circuit breaker
 7. HTTP: chi router with JWT authentication and rate limiting

# Configuration

Required:
  - DATABASE_URL: Postgres DSN for the application role
  - JWT_SECRET: HMAC secret for access tokens
  - WEBHOOK_SECRET: shared secret sent by the database webhook

Production additionally requires DATABASE_SERVICE_ROLE_URL. Missing Slack
or Telegram credentials do not stop startup; the channel reports a
configuration failure for each announcement instead.

# Signal Handling

SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains for
up to SHUTDOWN_TIMEOUT, the analytics writer flushes, and the pools close.
*/
package main
