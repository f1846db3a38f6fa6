// Jobboard - Community Job Board with Slack and Telegram Fan-out
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobboard

package notify

import (
	"github.com/tomtom215/jobboard/internal/models"
	"github.com/tomtom215/jobboard/internal/urlcanon"
)

// LinkBuilder renders the links carried by announcements.
type LinkBuilder struct {
	canon     *urlcanon.Canonicalizer
	homeURL   string
	shortLink func(code string) string
}

// NewLinkBuilder creates a builder. shortLink maps a short code to its
// absolute redirect URL.
func NewLinkBuilder(canon *urlcanon.Canonicalizer, homeURL string, shortLink func(code string) string) *LinkBuilder {
	return &LinkBuilder{canon: canon, homeURL: homeURL, shortLink: shortLink}
}

// Build produces the announcement for job.
func (b *LinkBuilder) Build(job *models.Job) *Announcement {
	clean := urlcanon.Clean(job.URL)
	share := clean
	if job.ShortCode != "" && b.shortLink != nil {
		share = b.shortLink(job.ShortCode)
	}
	return &Announcement{
		Job:      *job,
		HomeURL:  b.homeURL,
		ApplyURL: b.canon.WithAttribution(clean),
		ShareURL: share,
	}
}
