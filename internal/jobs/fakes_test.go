// Jobboard - Community Job Board with Slack and Telegram Fan-out
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobboard

package jobs

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/tomtom215/jobboard/internal/database"
	"github.com/tomtom215/jobboard/internal/models"
	"github.com/tomtom215/jobboard/internal/points"
)

// memoryStore is an in-memory JobStore and ProfileStore.
type memoryStore struct {
	mu       sync.Mutex
	nextID   int64
	jobs     map[int64]models.Job
	profiles map[string]models.Profile

	insertErr error
	updateErr error
	getErr    error
	listCalls int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		nextID:   1,
		jobs:     make(map[int64]models.Job),
		profiles: make(map[string]models.Profile),
	}
}

func (m *memoryStore) addProfile(id string, role models.Role) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[id] = models.Profile{ID: id, Email: id + "@example.com", Role: role}
}

func (m *memoryStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.jobs)
}

func (m *memoryStore) GetProfile(_ context.Context, userID string) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &p, nil
}

func (m *memoryStore) InsertJob(_ context.Context, in models.NewJob) (*models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return nil, m.insertErr
	}
	job := models.Job{
		ID:          m.nextID,
		Title:       in.Title,
		Company:     in.Company,
		Location:    in.Location,
		URL:         in.URL,
		ShortCode:   "abc123" + string(rune('A'+m.nextID%26)),
		SubmittedOn: time.Now().UTC(),
		IsActive:    true,
		CreatedBy:   in.CreatedBy,
	}
	m.jobs[job.ID] = job
	m.nextID++
	return &job, nil
}

func (m *memoryStore) GetJob(_ context.Context, id int64) (*models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	job, ok := m.jobs[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &job, nil
}

func (m *memoryStore) GetJobByShortCode(_ context.Context, code string) (*models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, job := range m.jobs {
		if job.ShortCode == code {
			j := job
			return &j, nil
		}
	}
	return nil, database.ErrNotFound
}

func (m *memoryStore) UpdateJob(_ context.Context, in models.JobUpdate) (*models.JobChange, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	job, ok := m.jobs[in.ID]
	if !ok {
		return nil, database.ErrNotFound
	}
	before := models.Job{
		ID:       job.ID,
		Title:    job.Title,
		Company:  job.Company,
		Location: job.Location,
		URL:      job.URL,
		IsActive: job.IsActive,
	}
	now := time.Now().UTC()
	job.Title = in.Title
	job.Company = in.Company
	job.Location = in.Location
	job.URL = in.URL
	job.IsActive = in.IsActive
	job.UpdatedBy = in.UpdatedBy
	job.UpdatedAt = &now
	m.jobs[in.ID] = job
	return &models.JobChange{Before: before, After: job}, nil
}

func (m *memoryStore) ListJobs(_ context.Context, filter models.JobFilter) ([]models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	var out []models.Job
	for _, job := range m.jobs {
		j := job
		if filter.Matches(&j) {
			out = append(out, j)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID > out[b].ID })
	return out, nil
}

// recordingAwarder records every award request.
type recordingAwarder struct {
	mu     sync.Mutex
	awards []int
	fail   bool
}

func (r *recordingAwarder) Award(_ context.Context, _ string, amount int) points.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.awards = append(r.awards, amount)
	if amount <= 0 || r.fail {
		return points.Result{Awarded: max(amount, 0)}
	}
	return points.Result{Awarded: amount, NewTotal: int64(amount * len(r.awards)), Known: true}
}

func (r *recordingAwarder) total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum := 0
	for _, a := range r.awards {
		sum += a
	}
	return sum
}

// failingIncrementer is a points store that is always down.
type failingIncrementer struct{}

func (failingIncrementer) IncrementPoints(context.Context, string, int) (int64, error) {
	return 0, errors.New("points backend unavailable")
}

// racingStore runs onList after reading rows and before returning them,
// simulating a write that lands while a listing read is in flight.
type racingStore struct {
	*memoryStore
	onList func()
}

func (r *racingStore) ListJobs(ctx context.Context, filter models.JobFilter) ([]models.Job, error) {
	jobs, err := r.memoryStore.ListJobs(ctx, filter)
	if hook := r.onList; hook != nil {
		r.onList = nil
		hook()
	}
	return jobs, err
}
