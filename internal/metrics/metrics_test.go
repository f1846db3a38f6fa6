// Jobboard - Community Job Board with Slack and Telegram Fan-out
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobboard

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/metrics-test", "200"))
	RecordAPIRequest("GET", "/metrics-test", "200", 15*time.Millisecond)
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/metrics-test", "200"))

	if after-before != 1 {
		t.Errorf("APIRequestsTotal delta = %v, want 1", after-before)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("after inc = %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("after dec = %v, want %v", got, before)
	}
}

func TestRecordJobUpdate(t *testing.T) {
	tests := []struct {
		deactivated bool
		label       string
	}{
		{true, "true"},
		{false, "false"},
	}
	for _, tt := range tests {
		before := testutil.ToFloat64(JobsUpdatedTotal.WithLabelValues(tt.label))
		RecordJobUpdate(tt.deactivated)
		if got := testutil.ToFloat64(JobsUpdatedTotal.WithLabelValues(tt.label)); got != before+1 {
			t.Errorf("deactivated=%v: counter = %v, want %v", tt.deactivated, got, before+1)
		}
	}
}

func TestRecordNotification(t *testing.T) {
	before := testutil.ToFloat64(NotificationsTotal.WithLabelValues("metrics-test", OutcomeError))
	RecordNotification("metrics-test", false, time.Second)
	after := testutil.ToFloat64(NotificationsTotal.WithLabelValues("metrics-test", OutcomeError))
	if after-before != 1 {
		t.Errorf("failure delta = %v, want 1", after-before)
	}
}

func TestSetCircuitBreakerState(t *testing.T) {
	tests := map[string]float64{
		"closed":    0,
		"half-open": 1,
		"open":      2,
	}
	for state, want := range tests {
		SetCircuitBreakerState("metrics-test", state)
		if got := testutil.ToFloat64(CircuitBreakerState.WithLabelValues("metrics-test")); got != want {
			t.Errorf("state %q = %v, want %v", state, got, want)
		}
	}
}

func TestRecordCacheLookup(t *testing.T) {
	hits := testutil.ToFloat64(CacheHits.WithLabelValues("metrics-test"))
	misses := testutil.ToFloat64(CacheMisses.WithLabelValues("metrics-test"))

	RecordCacheLookup("metrics-test", true)
	RecordCacheLookup("metrics-test", false)
	RecordCacheLookup("metrics-test", false)

	if got := testutil.ToFloat64(CacheHits.WithLabelValues("metrics-test")) - hits; got != 1 {
		t.Errorf("hits delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(CacheMisses.WithLabelValues("metrics-test")) - misses; got != 2 {
		t.Errorf("misses delta = %v, want 2", got)
	}
}
