// Jobboard - Community Job Board with Slack and Telegram Fan-out
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobboard

package analytics

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	// Registers the "duckdb" database/sql driver.
	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/goccy/go-json"

	"github.com/tomtom215/jobboard/internal/logging"
	"github.com/tomtom215/jobboard/internal/metrics"
)

// Defaults for the buffered writer.
const (
	DefaultBufferSize    = 1000
	DefaultFlushInterval = 5 * time.Second
	maxBatchSize         = 256
)

// DuckDBSink buffers events in memory and appends them to a local DuckDB
// table from a single writer goroutine. Run Serve under a supervisor.
type DuckDBSink struct {
	db            *sql.DB
	events        chan *Event
	flushInterval time.Duration
}

// OpenDuckDB opens (creating if needed) a DuckDB database file. An empty
// path opens an in-memory database.
func OpenDuckDB(path string) (*sql.DB, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	// DuckDB allows a single writer process; one connection keeps
	// appends serialized.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping duckdb: %w", err)
	}
	return db, nil
}

// NewDuckDBSink creates a sink over db. The caller owns db.
func NewDuckDBSink(db *sql.DB, bufferSize int, flushInterval time.Duration) *DuckDBSink {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	if flushInterval <= 0 {
		flushInterval = DefaultFlushInterval
	}
	return &DuckDBSink{
		db:            db,
		events:        make(chan *Event, bufferSize),
		flushInterval: flushInterval,
	}
}

// CreateTable creates the analytics_events table if it doesn't exist.
func (s *DuckDBSink) CreateTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS analytics_events (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			distinct_id TEXT NOT NULL,
			occurred_at TIMESTAMPTZ NOT NULL,
			properties JSON,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_analytics_name ON analytics_events(name);
		CREATE INDEX IF NOT EXISTS idx_analytics_occurred_at ON analytics_events(occurred_at);
	`
	for _, stmt := range strings.Split(query, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}
	return nil
}

// Capture enqueues event without blocking. A full buffer drops the event
// and returns ErrBufferFull.
func (s *DuckDBSink) Capture(_ context.Context, event *Event) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}
	select {
	case s.events <- event:
		return nil
	default:
		return ErrBufferFull
	}
}

// Pending returns the number of buffered events not yet written.
func (s *DuckDBSink) Pending() int {
	return len(s.events)
}

func (s *DuckDBSink) reportQueueDepth() {
	metrics.AnalyticsQueueDepth.Set(float64(s.Pending()))
}

// Serve implements suture.Service. It flushes on every interval and when
// a batch fills, and drains the buffer before returning on shutdown.
func (s *DuckDBSink) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.flushInterval)
	defer ticker.Stop()

	batch := make([]*Event, 0, maxBatchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		// Use a fresh context so shutdown can still persist the drain.
		flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.writeBatch(flushCtx, batch); err != nil {
			logging.Error().Err(err).Int("events", len(batch)).Msg("Failed to write analytics events")
			for _, e := range batch {
				metrics.RecordAnalyticsEvent(e.Name, false)
			}
		}
		batch = batch[:0]
	}

	for {
		select {
		case <-ctx.Done():
			for {
				select {
				case e := <-s.events:
					batch = append(batch, e)
					if len(batch) >= maxBatchSize {
						flush()
					}
				default:
					flush()
					s.reportQueueDepth()
					return ctx.Err()
				}
			}
		case e := <-s.events:
			batch = append(batch, e)
			if len(batch) >= maxBatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
			s.reportQueueDepth()
		}
	}
}

// String implements fmt.Stringer for supervisor logs.
func (s *DuckDBSink) String() string {
	return "analytics-duckdb"
}

func (s *DuckDBSink) writeBatch(ctx context.Context, batch []*Event) error {
	start := time.Now()
	defer func() { metrics.AnalyticsFlushDuration.Observe(time.Since(start).Seconds()) }()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin analytics batch: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO analytics_events (id, name, distinct_id, occurred_at, properties)
		VALUES (?, ?, ?, ?, ?) ON CONFLICT (id) DO NOTHING`)
	if err != nil {
		return fmt.Errorf("prepare analytics insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, e := range batch {
		props, err := marshalProperties(e.Properties)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, e.ID, e.Name, e.DistinctID, e.Timestamp, props); err != nil {
			return fmt.Errorf("insert analytics event %s: %w", e.ID, err)
		}
	}
	return tx.Commit()
}

func marshalProperties(props map[string]interface{}) (*string, error) {
	if len(props) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(props)
	if err != nil {
		return nil, fmt.Errorf("marshal analytics properties: %w", err)
	}
	s := string(data)
	return &s, nil
}
