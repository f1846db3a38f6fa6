// Jobboard - Community Job Board with Slack and Telegram Fan-out
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobboard

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/jobboard/internal/jobs"
	"github.com/tomtom215/jobboard/internal/logging"
)

// writeServiceError maps the jobs failure taxonomy onto the response
// envelope. Each request gets exactly one of these outcomes.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	rw := NewResponseWriter(w, r)

	var verr *jobs.ValidationError
	var perr *jobs.PersistenceError

	switch {
	case errors.Is(err, jobs.ErrUnauthenticated):
		rw.Unauthorized("authentication required")
	case errors.Is(err, jobs.ErrUnauthorized):
		rw.Forbidden("admin or owner role required")
	case errors.As(err, &verr):
		logging.Ctx(r.Context()).Debug().
			Strs("fields", verr.FieldNames()).
			Str("path", r.URL.Path).
			Msg("Job request rejected by validation")
		rw.ValidationError(verr.Error(), map[string]interface{}{"fields": verr.Fields})
	case errors.As(err, &perr):
		rw.DatabaseError(perr.Err)
	case errors.Is(err, jobs.ErrNotFound):
		rw.NotFound("job not found")
	default:
		logging.Ctx(r.Context()).Error().Err(err).
			Str("path", r.URL.Path).
			Msg("Unhandled service error")
		rw.InternalError("internal server error")
	}
}
