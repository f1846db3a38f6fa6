// Jobboard - Community Job Board with Slack and Telegram Fan-out
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobboard

package testinfra

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

// Capture is one recorded request.
type Capture struct {
	Method  string
	Path    string
	Headers http.Header
	Body    []byte
}

// Decode unmarshals the captured body into v.
func (c Capture) Decode(v interface{}) error {
	return json.Unmarshal(c.Body, v)
}

// CaptureServer is an httptest server that records every request and
// answers with a configurable response.
type CaptureServer struct {
	Server *httptest.Server

	mu       sync.Mutex
	captures []Capture
	status   int
	body     []byte
	handler  func(w http.ResponseWriter, r *http.Request)
}

// NewCaptureServer starts a server answering 200 with an empty body. It is
// closed when the test ends.
func NewCaptureServer(t *testing.T) *CaptureServer {
	t.Helper()

	cs := &CaptureServer{status: http.StatusOK}
	cs.Server = httptest.NewServer(http.HandlerFunc(cs.serve))
	t.Cleanup(cs.Server.Close)
	return cs
}

func (cs *CaptureServer) serve(w http.ResponseWriter, r *http.Request) {
	var body []byte
	if r.Body != nil {
		body, _ = io.ReadAll(r.Body)
		_ = r.Body.Close()
	}

	cs.mu.Lock()
	cs.captures = append(cs.captures, Capture{
		Method:  r.Method,
		Path:    r.URL.Path,
		Headers: r.Header.Clone(),
		Body:    body,
	})
	handler, status, respBody := cs.handler, cs.status, cs.body
	cs.mu.Unlock()

	if handler != nil {
		handler(w, r)
		return
	}
	w.WriteHeader(status)
	if respBody != nil {
		_, _ = w.Write(respBody)
	}
}

// URL returns the server base URL.
func (cs *CaptureServer) URL() string {
	return cs.Server.URL
}

// Respond sets the status and body returned to subsequent requests.
func (cs *CaptureServer) Respond(status int, body []byte) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.status, cs.body, cs.handler = status, body, nil
}

// RespondWith installs a custom handler. Requests are still captured.
func (cs *CaptureServer) RespondWith(fn func(w http.ResponseWriter, r *http.Request)) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.handler = fn
}

// Captures returns a copy of every recorded request.
func (cs *CaptureServer) Captures() []Capture {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	out := make([]Capture, len(cs.captures))
	copy(out, cs.captures)
	return out
}

// Count returns the number of recorded requests.
func (cs *CaptureServer) Count() int {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return len(cs.captures)
}

// WaitForCaptures polls until at least n requests arrived or timeout
// elapses.
func (cs *CaptureServer) WaitForCaptures(n int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cs.Count() >= n {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cs.Count() >= n
}

// SlackOKResponse is the body Slack incoming webhooks return on success.
func SlackOKResponse() []byte {
	return []byte("ok")
}

// TelegramOKResponse is a minimal successful sendMessage response.
func TelegramOKResponse() []byte {
	data, _ := json.Marshal(map[string]interface{}{
		"ok":     true,
		"result": map[string]interface{}{"message_id": 12345},
	})
	return data
}

// TelegramErrorResponse is a Bot API failure with description.
func TelegramErrorResponse(description string) []byte {
	data, _ := json.Marshal(map[string]interface{}{
		"ok":          false,
		"error_code":  400,
		"description": description,
	})
	return data
}
