// Jobboard - Community Job Board with Slack and Telegram Fan-out
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobboard

package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tomtom215/jobboard/internal/database/query"
	"github.com/tomtom215/jobboard/internal/models"
)

const jobColumns = `id, title, company, location, url, COALESCE(short_code, ''),
	submitted_on, is_active, COALESCE(created_by::text, ''),
	COALESCE(updated_by::text, ''), updated_at`

func scanJob(row pgx.Row) (*models.Job, error) {
	var j models.Job
	err := row.Scan(&j.ID, &j.Title, &j.Company, &j.Location, &j.URL, &j.ShortCode,
		&j.SubmittedOn, &j.IsActive, &j.CreatedBy, &j.UpdatedBy, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// nullUUID maps an empty id to SQL NULL.
func nullUUID(id string) interface{} {
	if id == "" {
		return nil
	}
	return id
}

// InsertJob stores a new active job with a fresh short code. A short code
// collision is retried with a new code a bounded number of times.
func (db *DB) InsertJob(ctx context.Context, in models.NewJob) (*models.Job, error) {
	const stmt = `INSERT INTO jobs (title, company, location, url, short_code, is_active, created_by)
		VALUES ($1, $2, $3, $4, $5, true, $6)
		RETURNING ` + jobColumns

	var lastErr error
	for attempt := 0; attempt < shortCodeAttempts; attempt++ {
		code, err := NewShortCode()
		if err != nil {
			return nil, err
		}
		job, err := scanJob(db.pool.QueryRow(ctx, stmt,
			in.Title, in.Company, in.Location, in.URL, code, nullUUID(in.CreatedBy)))
		if err == nil {
			return job, nil
		}
		if !isUniqueViolation(err) {
			return nil, fmt.Errorf("insert job: %w", err)
		}
		lastErr = err
	}
	return nil, fmt.Errorf("insert job: short code collisions after %d attempts: %w", shortCodeAttempts, lastErr)
}

// GetJob loads a job by id.
func (db *DB) GetJob(ctx context.Context, id int64) (*models.Job, error) {
	job, err := scanJob(db.pool.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job %d: %w", id, err)
	}
	return job, nil
}

// GetJobByShortCode loads a job by its public short code.
func (db *DB) GetJobByShortCode(ctx context.Context, code string) (*models.Job, error) {
	if !ValidShortCode(code) {
		return nil, ErrNotFound
	}
	job, err := scanJob(db.pool.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE short_code = $1`, code))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job by short code: %w", err)
	}
	return job, nil
}

// UpdateJob replaces the editable fields of a job and stamps updated_at.
// id, submitted_on and short_code are never written.
//
// The prior values come from a FOR UPDATE subquery in the same statement, so
// two concurrent updates of one row serialize and the second observes the
// first one's result as its Before.
func (db *DB) UpdateJob(ctx context.Context, in models.JobUpdate) (*models.JobChange, error) {
	const stmt = `UPDATE jobs j
		SET title = $2, company = $3, location = $4, url = $5, is_active = $6,
		    updated_by = $7, updated_at = now()
		FROM (SELECT id, title, company, location, url, is_active
		      FROM jobs WHERE id = $1 FOR UPDATE) p
		WHERE j.id = p.id
		RETURNING p.title, p.company, p.location, p.url, p.is_active,
		    j.id, j.title, j.company, j.location, j.url, COALESCE(j.short_code, ''),
		    j.submitted_on, j.is_active, COALESCE(j.created_by::text, ''),
		    COALESCE(j.updated_by::text, ''), j.updated_at`

	var c models.JobChange
	b, a := &c.Before, &c.After
	err := db.pool.QueryRow(ctx, stmt,
		in.ID, in.Title, in.Company, in.Location, in.URL, in.IsActive, nullUUID(in.UpdatedBy),
	).Scan(&b.Title, &b.Company, &b.Location, &b.URL, &b.IsActive,
		&a.ID, &a.Title, &a.Company, &a.Location, &a.URL, &a.ShortCode,
		&a.SubmittedOn, &a.IsActive, &a.CreatedBy, &a.UpdatedBy, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update job %d: %w", in.ID, err)
	}
	b.ID = a.ID
	return &c, nil
}

// ListJobs returns jobs matching filter, newest first.
func (db *DB) ListJobs(ctx context.Context, filter models.JobFilter) ([]models.Job, error) {
	f := filter.Normalized()

	wb := query.NewWhereBuilder()
	if !f.IncludeInactive {
		wb.AddClause("is_active = ?", true)
	}
	if f.RemoteOnly {
		wb.AddClause("lower(location) = lower(?)", models.LocationRemote)
	}
	wb.AddContains(f.Query, "title", "company")
	wb.AddContains(f.Location, "location")
	limit := wb.Arg(f.Limit)
	offset := wb.Arg(f.Offset)
	where, args := wb.BuildWithPrefix()

	sql := `SELECT ` + jobColumns + ` FROM jobs ` + where +
		` ORDER BY submitted_on DESC, id DESC LIMIT ` + limit + ` OFFSET ` + offset

	rows, err := db.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]models.Job, 0, f.Limit)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}
