// Jobboard - Community Job Board with Slack and Telegram Fan-out
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobboard

package jobs

import (
	"errors"
	"strings"

	"github.com/tomtom215/jobboard/internal/validation"
)

// Hard failures. Each aborts the operation before any row is written.
var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrUnauthorized    = errors.New("not allowed to manage jobs")
	ErrNotFound        = errors.New("job not found")
)

// FieldError is one invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// ValidationError lists every invalid field of a request.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return strings.Join(msgs, "; ")
}

// FieldNames returns the names of the invalid fields in order.
func (e *ValidationError) FieldNames() []string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Field
	}
	return names
}

func newFieldValidationError(field, tag, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Tag: tag, Message: message}}}
}

func fromRequestValidation(v *validation.RequestValidationError) *ValidationError {
	errs := v.Errors()
	out := &ValidationError{Fields: make([]FieldError, len(errs))}
	for i := range errs {
		out.Fields[i] = FieldError{
			Field:   errs[i].Field(),
			Tag:     errs[i].Tag(),
			Message: errs[i].Error(),
		}
	}
	return out
}

// PersistenceError wraps a data store failure. Its message is safe to
// show to users; the cause is logged server-side.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return "failed to save, try again"
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
