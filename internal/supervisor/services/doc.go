// Jobboard - Community Job Board with Slack and Telegram Fan-out
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobboard

// Package services adapts blocking servers to suture's Serve(ctx) model.
//
// HTTPServerService runs an *http.Server until the supervisor cancels it,
// then drains in-flight requests with Shutdown.
package services
