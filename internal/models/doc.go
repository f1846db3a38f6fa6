// Jobboard - Community Job Board with Slack and Telegram Fan-out
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobboard

/*
Package models defines the data structures shared by the store, the job
service and the HTTP layer.

Key types:

  - Job: a stored posting, including its short code and owner
  - NewJob, JobUpdate: store inputs produced by the job service
  - JobFilter: listing filters with normalization and in-memory matching
  - Profile, Role: the caller's profile row and its role
  - JobWebhookEvent, JobRecord: the database webhook payload

Models carry json tags for the API and the webhook. Database scanning is
done column by column in internal/database.
*/
package models
