// Jobboard - Community Job Board with Slack and Telegram Fan-out
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobboard

/*
Package api provides the HTTP layer for Jobboard.

Routes:

	GET  /health/live             liveness probe
	GET  /health/ready            readiness probe (Postgres, Redis when enabled)
	GET  /metrics                 Prometheus exposition
	GET  /j/{code}                public job link, redirects with attribution
	GET  /api/v1/jobs             public listing (active jobs, cached)
	POST /api/v1/jobs             create a job (admin, owner)
	GET  /api/v1/jobs/{id}        one job for the edit form (admin, owner)
	PUT  /api/v1/jobs/{id}        update a job (admin, owner)
	GET  /api/v1/admin/jobs       listing including inactive jobs (admin, owner)
	POST /api/v1/urls/inspect     preview URL canonicalization (admin, owner)
	POST /api/v1/webhooks/jobs    database insert webhook, triggers fan-out

Every JSON response uses the APIResponse envelope:

	{"success": true, "data": {...}, "meta": {"request_id": "...", "timestamp": "..."}}
	{"success": false, "error": {"code": "VALIDATION_FAILED", "message": "...", "details": [...]}}

Authentication is resolved by auth.Middleware and never rejects on its own;
the jobs service decides which operations need a caller and which role.
*/
package api
