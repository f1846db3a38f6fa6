// Jobboard - Community Job Board with Slack and Telegram Fan-out
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobboard

package models

import (
	"strings"
	"time"
)

// LocationRemote is the conventional location value for remote roles.
const LocationRemote = "Remote"

// Job is a listing on the board. ID and SubmittedOn never change after insert,
// and URL is always stored without tracking parameters.
type Job struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location"` // City name or "Remote"
	URL         string     `json:"url"`      // Canonicalized, never carries attribution
	ShortCode   string     `json:"short_code,omitempty"`
	SubmittedOn time.Time  `json:"submitted_on"`
	IsActive    bool       `json:"is_active"`
	CreatedBy   string     `json:"created_by,omitempty"`
	UpdatedBy   string     `json:"updated_by,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// IsRemote reports whether the job's location is "Remote".
func (j *Job) IsRemote() bool {
	return strings.EqualFold(strings.TrimSpace(j.Location), LocationRemote)
}

// NewJob holds the fields written by a create.
type NewJob struct {
	Title     string
	Company   string
	Location  string
	URL       string
	CreatedBy string
}

// JobUpdate holds the fields written by an update. Every field is replaced.
type JobUpdate struct {
	ID        int64
	Title     string
	Company   string
	Location  string
	URL       string
	IsActive  bool
	UpdatedBy string
}

// JobChange is the result of an update: the row as written and the editable
// fields as they were immediately before, read under the same row lock.
// Before carries only ID, Title, Company, Location, URL and IsActive.
type JobChange struct {
	Before Job
	After  Job
}

// Deactivated reports whether the update moved the job from active to
// inactive.
func (c *JobChange) Deactivated() bool {
	return c.Before.IsActive && !c.After.IsActive
}

// Job list limits.
const (
	DefaultJobListLimit = 50
	MaxJobListLimit     = 200
)

// JobFilter narrows a job listing.
type JobFilter struct {
	Query           string // Case-insensitive match on title or company
	Location        string // Case-insensitive substring match
	RemoteOnly      bool
	IncludeInactive bool // Admin listing only
	Limit           int
	Offset          int
}

// Normalized returns a copy with whitespace trimmed and paging clamped.
func (f JobFilter) Normalized() JobFilter {
	f.Query = strings.TrimSpace(f.Query)
	f.Location = strings.TrimSpace(f.Location)
	if f.Limit <= 0 {
		f.Limit = DefaultJobListLimit
	}
	if f.Limit > MaxJobListLimit {
		f.Limit = MaxJobListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

// IsZero reports whether the filter matches the default public listing,
// which is the only listing shape worth caching.
func (f JobFilter) IsZero() bool {
	n := f.Normalized()
	return n.Query == "" && n.Location == "" && !n.RemoteOnly &&
		n.Limit == DefaultJobListLimit && n.Offset == 0
}

// Matches applies the filter to a single job in memory.
func (f JobFilter) Matches(j *Job) bool {
	n := f.Normalized()
	if !n.IncludeInactive && !j.IsActive {
		return false
	}
	if n.RemoteOnly && !j.IsRemote() {
		return false
	}
	if n.Location != "" && !strings.Contains(strings.ToLower(j.Location), strings.ToLower(n.Location)) {
		return false
	}
	if n.Query != "" {
		q := strings.ToLower(n.Query)
		if !strings.Contains(strings.ToLower(j.Title), q) && !strings.Contains(strings.ToLower(j.Company), q) {
			return false
		}
	}
	return true
}
