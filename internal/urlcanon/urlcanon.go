// Jobboard - Community Job Board with Slack and Telegram Fan-out
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobboard

// Package urlcanon canonicalizes job posting URLs.
//
// Submitted URLs are stored without tracking parameters (Clean). At link
// serving time a single attribution parameter is set (WithAttribution) so
// employers can see the board as a referrer. Query parameter order and
// encoding are preserved for every parameter that survives.
//
// The lenient helpers never fail: on a parse error they return their input
// unchanged. Intake validation goes through ParseStrict or CleanStrict, which
// reject anything that is not an absolute http(s) URL.
package urlcanon

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const (
	// DefaultAttributionParam is the query parameter set by WithAttribution.
	DefaultAttributionParam = "ref"

	// DefaultAttributionValue identifies the board as the referrer.
	DefaultAttributionValue = "jobboard"

	trackingPrefix = "utm_"
)

// trackingParams are removed by exact, case-sensitive name match.
var trackingParams = map[string]struct{}{
	"ref":        {},
	"fbclid":     {},
	"gclid":      {},
	"gad_source": {},
	"msclkid":    {},
	"twclid":     {},
	"li_fat_id":  {},
	"mc_eid":     {},
	"oly_enc_id": {},
	"_hsenc":     {},
	"_hsmi":      {},
	"vero_id":    {},
	"mkt_tok":    {},
}

// ErrInvalidURL is matched by every *InvalidURLError.
var ErrInvalidURL = errors.New("invalid url")

// InvalidURLError describes why a submitted URL was rejected.
type InvalidURLError struct {
	URL    string
	Reason string
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("invalid url %q: %s", e.URL, e.Reason)
}

// Unwrap lets errors.Is(err, ErrInvalidURL) match.
func (e *InvalidURLError) Unwrap() error { return ErrInvalidURL }

// IsTrackingParam reports whether a query parameter name is a known tracker.
func IsTrackingParam(name string) bool {
	if strings.HasPrefix(name, trackingPrefix) {
		return true
	}
	_, ok := trackingParams[name]
	return ok
}

// ParseStrict parses raw as an absolute http or https URL with a host.
func ParseStrict(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, &InvalidURLError{URL: raw, Reason: "empty"}
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, &InvalidURLError{URL: raw, Reason: err.Error()}
	}
	if !u.IsAbs() {
		return nil, &InvalidURLError{URL: raw, Reason: "not an absolute url"}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, &InvalidURLError{URL: raw, Reason: "scheme must be http or https"}
	}
	if u.Host == "" {
		return nil, &InvalidURLError{URL: raw, Reason: "missing host"}
	}
	return u, nil
}

// CleanStrict validates raw with ParseStrict and returns it without tracking
// parameters.
func CleanStrict(raw string) (string, error) {
	u, err := ParseStrict(raw)
	if err != nil {
		return "", err
	}
	u.RawQuery = filterQuery(u.RawQuery, func(name string) bool { return !IsTrackingParam(name) })
	u.ForceQuery = false
	return u.String(), nil
}

// Clean removes tracking parameters from raw. Non-tracking parameters keep
// their order and encoding. Clean is idempotent.
func Clean(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.RawQuery = filterQuery(u.RawQuery, func(name string) bool { return !IsTrackingParam(name) })
	u.ForceQuery = false
	return u.String()
}

// HasResidualParams reports whether raw still carries any query parameter.
func HasResidualParams(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return len(splitQuery(u.RawQuery)) > 0
}

// StripAllParams removes the whole query string.
func StripAllParams(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.RawQuery = ""
	u.ForceQuery = false
	return u.String()
}

// Canonicalizer applies a configured attribution parameter.
type Canonicalizer struct {
	param string
	value string
}

// New returns a Canonicalizer; empty arguments fall back to the defaults.
func New(param, value string) *Canonicalizer {
	if param == "" {
		param = DefaultAttributionParam
	}
	if value == "" {
		value = DefaultAttributionValue
	}
	return &Canonicalizer{param: param, value: value}
}

// Param returns the attribution parameter name.
func (c *Canonicalizer) Param() string { return c.param }

// Value returns the attribution parameter value.
func (c *Canonicalizer) Value() string { return c.value }

// Clean is the package-level Clean.
func (c *Canonicalizer) Clean(raw string) string { return Clean(raw) }

// WithAttribution sets the attribution parameter on raw, replacing any
// existing occurrences so exactly one remains. It is applied when links are
// served and is never persisted.
func (c *Canonicalizer) WithAttribution(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	kept := filterQuery(u.RawQuery, func(name string) bool { return name != c.param })
	pair := url.QueryEscape(c.param) + "=" + url.QueryEscape(c.value)
	if kept == "" {
		u.RawQuery = pair
	} else {
		u.RawQuery = kept + "&" + pair
	}
	return u.String()
}

// splitQuery returns the non-empty key[=value] segments of a raw query.
func splitQuery(rawQuery string) []string {
	if rawQuery == "" {
		return nil
	}
	parts := strings.Split(rawQuery, "&")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// filterQuery keeps the segments whose decoded name satisfies keep.
func filterQuery(rawQuery string, keep func(name string) bool) string {
	segments := splitQuery(rawQuery)
	kept := make([]string, 0, len(segments))
	for _, seg := range segments {
		name := seg
		if i := strings.IndexByte(seg, '='); i >= 0 {
			name = seg[:i]
		}
		if decoded, err := url.QueryUnescape(name); err == nil {
			name = decoded
		}
		if keep(name) {
			kept = append(kept, seg)
		}
	}
	return strings.Join(kept, "&")
}
