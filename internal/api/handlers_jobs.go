// Jobboard - Community Job Board with Slack and Telegram Fan-out
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobboard

package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/jobboard/internal/jobs"
	"github.com/tomtom215/jobboard/internal/models"
)

// CreateJob handles POST /api/v1/jobs.
func (h *Handler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var in jobs.CreateInput
	if err := decodeJSON(w, r, &in); err != nil {
		NewResponseWriter(w, r).BadRequest(err.Error())
		return
	}

	created, err := h.jobs.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Created(created)
}

// UpdateJob handles PUT /api/v1/jobs/{id}.
func (h *Handler) UpdateJob(w http.ResponseWriter, r *http.Request) {
	id, ok := jobIDParam(w, r)
	if !ok {
		return
	}

	var req UpdateJobRequest
	if err := decodeJSON(w, r, &req); err != nil {
		NewResponseWriter(w, r).BadRequest(err.Error())
		return
	}

	updated, err := h.jobs.Update(r.Context(), jobs.UpdateInput{
		ID:       id,
		Title:    req.Title,
		Company:  req.Company,
		Location: req.Location,
		URL:      req.URL,
		IsActive: req.IsActive,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(updated)
}

// GetJob handles GET /api/v1/jobs/{id}.
func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	id, ok := jobIDParam(w, r)
	if !ok {
		return
	}

	job, err := h.jobs.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(job)
}

// ListJobs handles GET /api/v1/jobs. Anonymous callers are allowed.
func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	h.listJobs(w, r, h.jobs.ListPublic)
}

// ListAdminJobs handles GET /api/v1/admin/jobs.
func (h *Handler) ListAdminJobs(w http.ResponseWriter, r *http.Request) {
	h.listJobs(w, r, h.jobs.ListAdmin)
}

type listFunc func(ctx context.Context, filter models.JobFilter) ([]models.Job, error)

func (h *Handler) listJobs(w http.ResponseWriter, r *http.Request, list listFunc) {
	req, verr := parseListJobsRequest(r)
	if verr != nil {
		writeRequestValidation(w, r, verr)
		return
	}
	filter := req.Filter()

	result, err := list(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	NewResponseWriter(w, r).SuccessWithPagination(result, &PaginationMeta{
		Count:   len(result),
		Offset:  filter.Offset,
		Limit:   filter.Limit,
		HasMore: len(result) == filter.Limit,
	})
}

// InspectURL handles POST /api/v1/urls/inspect.
func (h *Handler) InspectURL(w http.ResponseWriter, r *http.Request) {
	var req InspectURLRequest
	if err := decodeJSON(w, r, &req); err != nil {
		NewResponseWriter(w, r).BadRequest(err.Error())
		return
	}

	res, err := h.jobs.InspectURL(r.Context(), req.URL)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(res)
}

// jobIDParam parses the {id} path parameter, writing a 400 when invalid.
func jobIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		NewResponseWriter(w, r).ValidationError("id must be a positive integer", map[string]interface{}{
			"fields": []map[string]string{{"field": "id", "tag": "gt", "message": "id must be a positive integer"}},
		})
		return 0, false
	}
	return id, true
}
