// Jobboard - Community Job Board with Slack and Telegram Fan-out
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobboard

// Package jobs is the single authorized path for creating and changing job
// listings.
//
// Create and Update run the same sequence: authenticate, authorize,
// validate, persist, then the advisory steps (points, analytics, page cache
// invalidation). A failure in the first four steps aborts with a typed error
// and leaves no row behind. A failure in the advisory steps is logged and
// never changes the outcome.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/goccy/go-json"

	"github.com/tomtom215/jobboard/internal/analytics"
	"github.com/tomtom215/jobboard/internal/auth"
	"github.com/tomtom215/jobboard/internal/cache"
	"github.com/tomtom215/jobboard/internal/database"
	"github.com/tomtom215/jobboard/internal/logging"
	"github.com/tomtom215/jobboard/internal/metrics"
	"github.com/tomtom215/jobboard/internal/models"
	"github.com/tomtom215/jobboard/internal/points"
	"github.com/tomtom215/jobboard/internal/urlcanon"
	"github.com/tomtom215/jobboard/internal/validation"
)

// JobStore persists jobs. Implemented by *database.DB.
type JobStore interface {
	InsertJob(ctx context.Context, in models.NewJob) (*models.Job, error)
	GetJob(ctx context.Context, id int64) (*models.Job, error)
	GetJobByShortCode(ctx context.Context, code string) (*models.Job, error)
	UpdateJob(ctx context.Context, in models.JobUpdate) (*models.JobChange, error)
	ListJobs(ctx context.Context, filter models.JobFilter) ([]models.Job, error)
}

// ProfileStore loads caller profiles. Implemented by *database.DB.
type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
}

// PointsAwarder awards points without ever failing. Implemented by
// *points.Ledger.
type PointsAwarder interface {
	Award(ctx context.Context, userID string, amount int) points.Result
}

// Deps are the collaborators of a Service. Analytics and Cache may be nil.
type Deps struct {
	Jobs          JobStore
	Profiles      ProfileStore
	Points        PointsAwarder
	Analytics     analytics.Sink
	Cache         cache.PageCache
	Canonicalizer *urlcanon.Canonicalizer
	HomeURL       string
}

// Service orchestrates job mutations and reads.
type Service struct {
	jobs     JobStore
	profiles ProfileStore
	points   PointsAwarder
	sink     analytics.Sink
	cache    cache.PageCache
	canon    *urlcanon.Canonicalizer
	homeURL  string

	// listingGen advances on every listing invalidation. A listing read is
	// written back to the cache only if no invalidation happened since the
	// store read began. Writers hold the lock across the cache call.
	listingMu  sync.RWMutex
	listingGen uint64
}

// NewService creates a Service. A nil sink becomes analytics.NullSink and a
// nil cache becomes cache.Nop.
func NewService(d Deps) *Service {
	s := &Service{
		jobs:     d.Jobs,
		profiles: d.Profiles,
		points:   d.Points,
		sink:     d.Analytics,
		cache:    d.Cache,
		canon:    d.Canonicalizer,
		homeURL:  d.HomeURL,
	}
	if s.sink == nil {
		s.sink = analytics.NullSink{}
	}
	if s.cache == nil {
		s.cache = cache.Nop{}
	}
	if s.canon == nil {
		s.canon = urlcanon.New("", "")
	}
	if s.points == nil {
		s.points = points.NewLedger(nil)
	}
	if s.homeURL == "" {
		s.homeURL = "/"
	}
	return s
}

// caller is an authorized identity with its role.
type caller struct {
	UserID string
	Role   models.Role
}

// authorize resolves the caller and checks that it may manage jobs.
func (s *Service) authorize(ctx context.Context) (*caller, error) {
	id := auth.IdentityFromContext(ctx)
	if id == nil || id.UserID == "" {
		return nil, ErrUnauthenticated
	}

	profile, err := s.profiles.GetProfile(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		logging.Ctx(ctx).Error().Err(err).Msg("Failed to load caller profile")
		return nil, &PersistenceError{Op: "load profile", Err: err}
	}
	if !models.CanManageJobs(profile.Role) {
		return nil, ErrUnauthorized
	}
	return &caller{UserID: id.UserID, Role: profile.Role}, nil
}

// Create validates and stores a new job, then runs the advisory steps.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Created, error) {
	c, err := s.authorize(ctx)
	if err != nil {
		return nil, err
	}

	in.trim()
	cleanURL, verr := validateJob(&in, in.URL)
	if verr != nil {
		return nil, verr
	}

	job, err := s.jobs.InsertJob(ctx, models.NewJob{
		Title:     in.Title,
		Company:   in.Company,
		Location:  in.Location,
		URL:       cleanURL,
		CreatedBy: c.UserID,
	})
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).
			Str("title", logging.SanitizeValue(in.Title)).
			Msg("Failed to insert job")
		return nil, &PersistenceError{Op: "insert job", Err: err}
	}
	metrics.JobsCreatedTotal.Inc()

	award := s.points.Award(ctx, c.UserID, points.ForCreate())

	props := jobProperties(job, c, award)
	s.emit(ctx, analytics.NewEvent(analytics.EventJobCreated, c.UserID, props))

	s.invalidateListings(ctx)

	logging.Ctx(ctx).Info().
		Int64("job_id", job.ID).
		Str("short_code", job.ShortCode).
		Msg("Job created")

	return &Created{ID: job.ID, Title: job.Title}, nil
}

// Update replaces every editable field of an existing job. Deactivating an
// active job earns points; any other transition earns none.
func (s *Service) Update(ctx context.Context, in UpdateInput) (*Updated, error) {
	c, err := s.authorize(ctx)
	if err != nil {
		return nil, err
	}

	in.trim()
	cleanURL, verr := validateJob(&in, in.URL)
	if verr != nil {
		return nil, verr
	}

	change, err := s.jobs.UpdateJob(ctx, models.JobUpdate{
		ID:        in.ID,
		Title:     in.Title,
		Company:   in.Company,
		Location:  in.Location,
		URL:       cleanURL,
		IsActive:  *in.IsActive,
		UpdatedBy: c.UserID,
	})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, newFieldValidationError("id", "exists", "id must reference an existing job")
		}
		logging.Ctx(ctx).Error().Err(err).Int64("job_id", in.ID).Msg("Failed to update job")
		return nil, &PersistenceError{Op: "update job", Err: err}
	}

	job := &change.After
	deactivated := change.Deactivated()
	metrics.RecordJobUpdate(deactivated)

	award := s.points.Award(ctx, c.UserID, points.ForUpdate(change.Before.IsActive, job.IsActive))

	props := jobProperties(job, c, award)
	for field, changed := range changedFields(&change.Before, job) {
		props["changed_"+field] = changed
	}
	props["deactivated"] = deactivated
	s.emit(ctx, analytics.NewEvent(analytics.EventJobUpdated, c.UserID, props))

	s.invalidateListings(ctx)

	logging.Ctx(ctx).Info().
		Int64("job_id", job.ID).
		Bool("deactivated", deactivated).
		Msg("Job updated")

	return &Updated{
		ID:            job.ID,
		Title:         job.Title,
		Deactivated:   deactivated,
		PointsAwarded: award.Awarded,
	}, nil
}

// Get returns one job for the edit form. Requires a job manager.
func (s *Service) Get(ctx context.Context, id int64) (*models.Job, error) {
	if _, err := s.authorize(ctx); err != nil {
		return nil, err
	}
	job, err := s.jobs.GetJob(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get job %d: %w", id, err)
	}
	return job, nil
}

// ListPublic returns active jobs, newest first. The default listing is
// served from the home page cache entry.
func (s *Service) ListPublic(ctx context.Context, filter models.JobFilter) ([]models.Job, error) {
	filter.IncludeInactive = false
	return s.list(ctx, filter, cache.KeyHome)
}

// ListAdmin returns every job including inactive ones. Requires a job
// manager. The default listing is served from the admin page cache entry.
func (s *Service) ListAdmin(ctx context.Context, filter models.JobFilter) ([]models.Job, error) {
	if _, err := s.authorize(ctx); err != nil {
		return nil, err
	}
	filter.IncludeInactive = true
	return s.list(ctx, filter, cache.KeyAdmin)
}

func (s *Service) list(ctx context.Context, filter models.JobFilter, key string) ([]models.Job, error) {
	filter = filter.Normalized()
	cacheable := filter.IsZero()

	if cacheable {
		if data, ok := cache.Lookup(ctx, s.cache, key); ok {
			var jobs []models.Job
			if err := json.Unmarshal(data, &jobs); err == nil {
				return jobs, nil
			}
			logging.Ctx(ctx).Warn().Str("key", key).Msg("Discarding undecodable cached listing")
		}
	}

	gen := s.listingGeneration()
	jobs, err := s.jobs.ListJobs(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	if jobs == nil {
		jobs = []models.Job{}
	}

	if cacheable {
		if data, err := json.Marshal(jobs); err == nil {
			s.storeListing(ctx, key, data, gen)
		}
	}
	return jobs, nil
}

func (s *Service) listingGeneration() uint64 {
	s.listingMu.RLock()
	defer s.listingMu.RUnlock()
	return s.listingGen
}

// storeListing caches data unless the listings were invalidated after gen
// was taken.
func (s *Service) storeListing(ctx context.Context, key string, data []byte, gen uint64) {
	s.listingMu.RLock()
	defer s.listingMu.RUnlock()
	if s.listingGen != gen {
		logging.Ctx(ctx).Debug().Str("key", key).Msg("Listing changed during read, not caching")
		return
	}
	cache.Store(ctx, s.cache, key, data)
}

// invalidateListings advances the listing generation and drops the cached
// pages. A read that started earlier can no longer store its result.
func (s *Service) invalidateListings(ctx context.Context) {
	s.listingMu.Lock()
	defer s.listingMu.Unlock()
	s.listingGen++
	cache.InvalidateListings(ctx, s.cache)
}

// ResolveShortCode returns the redirect target for a public job link: the
// job's URL with attribution, or the home listing when the code is unknown.
// The second result reports whether a job was found.
func (s *Service) ResolveShortCode(ctx context.Context, code string) (string, bool) {
	if !database.ValidShortCode(code) {
		return s.homeURL, false
	}
	job, err := s.jobs.GetJobByShortCode(ctx, code)
	if err != nil {
		if !errors.Is(err, database.ErrNotFound) {
			logging.Ctx(ctx).Warn().Err(err).Str("short_code", code).Msg("Short link lookup failed")
		}
		return s.homeURL, false
	}
	return s.canon.WithAttribution(s.canon.Clean(job.URL)), true
}

// InspectURL reports what the canonicalizer does to raw so a submitter can
// review residual parameters. Requires a job manager.
func (s *Service) InspectURL(ctx context.Context, raw string) (*URLInspection, error) {
	if _, err := s.authorize(ctx); err != nil {
		return nil, err
	}
	clean, err := urlcanon.CleanStrict(raw)
	if err != nil {
		return nil, newFieldValidationError("url", "absurl", err.Error())
	}
	return &URLInspection{
		Clean:             clean,
		Stripped:          urlcanon.StripAllParams(clean),
		HasResidualParams: urlcanon.HasResidualParams(clean),
	}, nil
}

// validateJob checks the struct tags of in, then strictly parses and cleans
// the URL. All invalid fields are reported together.
func validateJob(in interface{}, rawURL string) (string, *ValidationError) {
	if verr := validation.ValidateStruct(in); verr != nil {
		return "", fromRequestValidation(verr)
	}
	clean, err := urlcanon.CleanStrict(rawURL)
	if err != nil {
		return "", newFieldValidationError("url", "absurl", err.Error())
	}
	return clean, nil
}

func (s *Service) emit(ctx context.Context, event *analytics.Event) {
	err := s.sink.Capture(ctx, event)
	metrics.RecordAnalyticsEvent(event.Name, err == nil)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).
			Str("event", event.Name).
			Msg("Failed to record analytics event")
	}
}

func jobProperties(job *models.Job, c *caller, award points.Result) map[string]interface{} {
	props := map[string]interface{}{
		"job_id":         job.ID,
		"title":          job.Title,
		"company":        job.Company,
		"location":       job.Location,
		"points_awarded": award.Awarded,
		"user_id":        c.UserID,
		"role":           string(c.Role),
	}
	if job.ShortCode != "" {
		props["short_code"] = job.ShortCode
	}
	if award.Known {
		props["new_total"] = award.NewTotal
	}
	return props
}

func changedFields(before, after *models.Job) map[string]bool {
	return map[string]bool{
		"title":     before.Title != after.Title,
		"company":   before.Company != after.Company,
		"location":  before.Location != after.Location,
		"url":       before.URL != after.URL,
		"is_active": before.IsActive != after.IsActive,
	}
}
