// Jobboard - Community Job Board with Slack and Telegram Fan-out
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobboard

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/jobboard/internal/models"
	"github.com/tomtom215/jobboard/internal/validation"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

var errEmptyBody = errors.New("request body is empty")

// decodeJSON reads a bounded JSON body into dst. Unknown fields are ignored.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return errEmptyBody
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// UpdateJobRequest is the body of PUT /api/v1/jobs/{id}. The id comes from
// the path.
type UpdateJobRequest struct {
	Title    string `json:"title"`
	Company  string `json:"company"`
	Location string `json:"location"`
	URL      string `json:"url"`
	IsActive *bool  `json:"is_active"`
}

// InspectURLRequest is the body of POST /api/v1/urls/inspect.
type InspectURLRequest struct {
	URL string `json:"url"`
}

// ListJobsRequest holds the validated listing query parameters.
//
// Fields:
//   - Query: matched against title and company
//   - Location: substring match on location
//   - Remote: only jobs located "Remote"
//   - Limit: page size (1-200, default 50)
//   - Offset: rows to skip
type ListJobsRequest struct {
	Query    string `json:"q" validate:"max=200"`
	Location string `json:"location" validate:"max=200"`
	Remote   bool   `json:"remote"`
	Limit    int    `json:"limit" validate:"min=0,max=200"`
	Offset   int    `json:"offset" validate:"min=0,max=100000"`
}

// Filter converts the request to a store filter.
func (req *ListJobsRequest) Filter() models.JobFilter {
	return models.JobFilter{
		Query:      req.Query,
		Location:   req.Location,
		RemoteOnly: req.Remote,
		Limit:      req.Limit,
		Offset:     req.Offset,
	}.Normalized()
}

// parseListJobsRequest reads and validates the listing query string.
func parseListJobsRequest(r *http.Request) (*ListJobsRequest, *validation.RequestValidationError) {
	q := r.URL.Query()
	req := &ListJobsRequest{
		Query:    q.Get("q"),
		Location: q.Get("location"),
	}

	var errs []validation.ValidationError
	var err error
	if req.Limit, err = intParam(q.Get("limit")); err != nil {
		errs = append(errs, validation.NewFieldError("limit", "numeric", "limit must be an integer"))
	}
	if req.Offset, err = intParam(q.Get("offset")); err != nil {
		errs = append(errs, validation.NewFieldError("offset", "numeric", "offset must be an integer"))
	}
	if req.Remote, err = boolParam(q.Get("remote")); err != nil {
		errs = append(errs, validation.NewFieldError("remote", "boolean", "remote must be true or false"))
	}

	verr := validation.ValidateStruct(req)
	if len(errs) > 0 {
		parseErr := validation.NewRequestValidationError(errs...)
		if verr != nil {
			parseErr = parseErr.Merge(verr)
		}
		return nil, parseErr
	}
	if verr != nil {
		return nil, verr
	}
	return req, nil
}

func intParam(value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	return strconv.Atoi(value)
}

func boolParam(value string) (bool, error) {
	if value == "" {
		return false, nil
	}
	return strconv.ParseBool(value)
}

// writeRequestValidation writes a 400 for invalid request parameters.
func writeRequestValidation(w http.ResponseWriter, r *http.Request, verr *validation.RequestValidationError) {
	apiErr := verr.ToAPIError()
	NewResponseWriter(w, r).ValidationError(apiErr.Message, apiErr.Details)
}
