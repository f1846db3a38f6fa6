// Jobboard - Community Job Board with Slack and Telegram Fan-out
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobboard

// Package analytics records product events for job mutations.
//
// The sink is constructed explicitly and injected into the job service.
// When analytics is disabled the service receives a NullSink, so callers
// never check whether a client exists.
package analytics

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event names.
const (
	EventJobCreated   = "job_created"
	EventJobUpdated   = "job_updated"
	EventJobAnnounced = "job_announced"
)

// SystemDistinctID attributes events that no signed-in user triggered.
const SystemDistinctID = "system"

// ErrBufferFull is returned when an asynchronous sink cannot accept more
// events.
var ErrBufferFull = errors.New("analytics buffer full")

// Event is one product analytics event.
type Event struct {
	ID         string                 `json:"id"`
	Name       string                 `json:"name"`
	DistinctID string                 `json:"distinct_id"` // Acting user
	Timestamp  time.Time              `json:"timestamp"`
	Properties map[string]interface{} `json:"properties,omitempty"`
}

// NewEvent creates an event with a fresh ID and the current time.
func NewEvent(name, distinctID string, props map[string]interface{}) *Event {
	return &Event{
		ID:         uuid.NewString(),
		Name:       name,
		DistinctID: distinctID,
		Timestamp:  time.Now().UTC(),
		Properties: props,
	}
}

// Sink accepts analytics events. Capture must not block on I/O for long;
// callers treat every error as advisory.
type Sink interface {
	Capture(ctx context.Context, event *Event) error
}

// NullSink discards every event.
type NullSink struct{}

// Capture implements Sink.
func (NullSink) Capture(context.Context, *Event) error { return nil }

// MemorySink keeps events in memory. Used by tests and local development.
type MemorySink struct {
	mu     sync.Mutex
	events []Event
	err    error
}

// NewMemorySink creates an empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Capture implements Sink.
func (s *MemorySink) Capture(_ context.Context, event *Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, *event)
	return nil
}

// FailWith makes subsequent captures return err. Pass nil to recover.
func (s *MemorySink) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Events returns a copy of the captured events.
func (s *MemorySink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// Named returns captured events with the given name.
func (s *MemorySink) Named(name string) []Event {
	var out []Event
	for _, e := range s.Events() {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}
