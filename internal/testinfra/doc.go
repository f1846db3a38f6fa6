// Jobboard - Community Job Board with Slack and Telegram Fan-out
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobboard

// Package testinfra provides shared test infrastructure.
//
// CaptureServer records outbound HTTP requests (Slack webhooks, Telegram
// sendMessage) and is available to every test. The container helpers for
// Postgres and Redis are built only with the integration tag:
//
//	go test -tags integration ./internal/database/...
//
//	func TestStore(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    pg, err := testinfra.NewPostgresContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, pg)
//	    pool, err := database.NewPool(ctx, pg.DSN, 4)
//	    ...
//	}
package testinfra
