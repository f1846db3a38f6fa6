// Jobboard - Community Job Board with Slack and Telegram Fan-out
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobboard

// Command devtoken prints an access token for local development.
//
//	JWT_SECRET=dev-secret go run ./cmd/devtoken -user 6f1c... -ttl 1h
//
// The token is signed with the same JWT_SECRET, JWT_ISSUER and JWT_AUDIENCE
// the server reads, so it authenticates against a local instance.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/tomtom215/jobboard/internal/auth"
	"github.com/tomtom215/jobboard/internal/config"
	"github.com/tomtom215/jobboard/internal/logging"
)

func main() {
	userID := flag.String("user", "", "profile user id (token subject)")
	email := flag.String("email", "", "optional email claim")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	if *userID == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if cfg.IsProduction() {
		logging.Fatal().Msg("devtoken refuses to run with ENVIRONMENT=production")
	}

	manager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize JWT manager")
	}

	token, err := manager.GenerateToken(*userID, *email, *ttl)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to generate token")
	}
	fmt.Println(token)
}
