// Jobboard - Community Job Board with Slack and Telegram Fan-out
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobboard

// Package cache holds rendered job listing pages.
//
// Only two pages are cached: the public home listing and the admin
// listing. Job mutations invalidate both so the next read reflects the
// change. Values are opaque JSON bytes so the memory and Redis backends
// are interchangeable.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/jobboard/internal/config"
	"github.com/tomtom215/jobboard/internal/logging"
	"github.com/tomtom215/jobboard/internal/metrics"
)

// Page keys.
const (
	KeyHome  = "page:home"
	KeyAdmin = "page:admin"
)

// ListingKeys are the pages that list jobs.
var ListingKeys = []string{KeyHome, KeyAdmin}

// Backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// PageCache stores rendered pages by key.
type PageCache interface {
	// Get returns the page and true on a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a page with the backend's TTL.
	Set(ctx context.Context, key string, value []byte) error

	// Invalidate marks pages stale.
	Invalidate(ctx context.Context, keys ...string) error
}

// Lookup reads key and records the hit or miss. Backend errors count as
// misses and are logged.
func Lookup(ctx context.Context, c PageCache, key string) ([]byte, bool) {
	data, ok, err := c.Get(ctx, key)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("Page cache read failed")
		ok = false
	}
	metrics.RecordCacheLookup(key, ok)
	return data, ok
}

// Store writes key and logs failures.
func Store(ctx context.Context, c PageCache, key string, value []byte) {
	if err := c.Set(ctx, key, value); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("Page cache write failed")
	}
}

// InvalidateListings marks every job listing page stale. Failures are
// logged and swallowed; a stale page expires with its TTL.
func InvalidateListings(ctx context.Context, c PageCache) {
	if err := c.Invalidate(ctx, ListingKeys...); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Failed to invalidate listing pages")
		return
	}
	for _, k := range ListingKeys {
		metrics.CacheInvalidations.WithLabelValues(k).Inc()
	}
}

// Nop never stores anything.
type Nop struct{}

// Get implements PageCache.
func (Nop) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

// Set implements PageCache.
func (Nop) Set(context.Context, string, []byte) error { return nil }

// Invalidate implements PageCache.
func (Nop) Invalidate(context.Context, ...string) error { return nil }

// NewFromConfig builds the configured backend. The returned close
// function releases backend resources.
func NewFromConfig(ctx context.Context, cfg *config.Config) (PageCache, func() error, error) {
	ttl := cfg.Cache.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	switch cfg.Cache.Backend {
	case BackendRedis:
		client, err := NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, nil, err
		}
		return NewRedisCache(client, cfg.Cache.KeyPrefix, ttl), client.Close, nil
	case BackendNone:
		return Nop{}, func() error { return nil }, nil
	case BackendMemory, "":
		m := NewMemoryCache(ttl)
		return m, func() error { m.Close(); return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}
