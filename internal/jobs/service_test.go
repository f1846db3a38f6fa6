// Jobboard - Community Job Board with Slack and Telegram Fan-out
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jobboard

package jobs

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/jobboard/internal/analytics"
	"github.com/tomtom215/jobboard/internal/auth"
	"github.com/tomtom215/jobboard/internal/cache"
	"github.com/tomtom215/jobboard/internal/models"
	"github.com/tomtom215/jobboard/internal/points"
	"github.com/tomtom215/jobboard/internal/urlcanon"
)

const (
	adminID = "11111111-1111-1111-1111-111111111111"
	ownerID = "22222222-2222-2222-2222-222222222222"
	userID  = "33333333-3333-3333-3333-333333333333"
)

type fixture struct {
	svc    *Service
	store  *memoryStore
	points *recordingAwarder
	sink   *analytics.MemorySink
	cache  *cache.MemoryCache
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := newMemoryStore()
	store.addProfile(adminID, models.RoleAdmin)
	store.addProfile(ownerID, models.RoleOwner)
	store.addProfile(userID, models.RoleUser)

	awarder := &recordingAwarder{}
	sink := analytics.NewMemorySink()
	pages := cache.NewMemoryCache(time.Minute)
	t.Cleanup(pages.Close)

	svc := NewService(Deps{
		Jobs:          store,
		Profiles:      store,
		Points:        awarder,
		Analytics:     sink,
		Cache:         pages,
		Canonicalizer: urlcanon.New("ref", "jobboard"),
		HomeURL:       "https://jobs.example.com/",
	})
	return &fixture{svc: svc, store: store, points: awarder, sink: sink, cache: pages}
}

func as(id string) context.Context {
	return auth.ContextWithIdentity(context.Background(), &auth.Identity{UserID: id})
}

func validCreate() CreateInput {
	return CreateInput{
		Title:    "Backend Engineer",
		Company:  "Acme",
		Location: "Remote",
		URL:      "https://acme.example.com/careers/42?utm_source=x&team=core&fbclid=abc",
	}
}

func boolPtr(b bool) *bool { return &b }

func TestCreate_StoresCleanURL(t *testing.T) {
	for _, caller := range []string{adminID, ownerID} {
		t.Run(caller, func(t *testing.T) {
			f := newFixture(t)
			in := validCreate()

			created, err := f.svc.Create(as(caller), in)
			require.NoError(t, err)
			assert.Equal(t, "Backend Engineer", created.Title)

			job, err := f.store.GetJob(context.Background(), created.ID)
			require.NoError(t, err)
			assert.Equal(t, urlcanon.Clean(in.URL), job.URL)
			assert.Equal(t, "https://acme.example.com/careers/42?team=core", job.URL)
			assert.True(t, job.IsActive)
			assert.Equal(t, caller, job.CreatedBy)
		})
	}
}

func TestCreate_RejectsWithoutRowPersisted(t *testing.T) {
	tests := []struct {
		name    string
		ctx     context.Context
		wantErr error
	}{
		{"anonymous", context.Background(), ErrUnauthenticated},
		{"empty identity", as(""), ErrUnauthenticated},
		{"user role", as(userID), ErrUnauthorized},
		{"no profile", as("44444444-4444-4444-4444-444444444444"), ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.svc.Create(tt.ctx, validCreate())
			require.ErrorIs(t, err, tt.wantErr)

			jobs, listErr := f.store.ListJobs(context.Background(), models.JobFilter{IncludeInactive: true})
			require.NoError(t, listErr)
			assert.Empty(t, jobs)
			assert.Empty(t, f.points.awards)
			assert.Empty(t, f.sink.Events())
		})
	}
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*CreateInput)
		wantFields []string
	}{
		{"missing title", func(in *CreateInput) { in.Title = "" }, []string{"title"}},
		{"blank title", func(in *CreateInput) { in.Title = "   " }, []string{"title"}},
		{"all missing", func(in *CreateInput) { *in = CreateInput{} }, []string{"title", "company", "location", "url"}},
		{"relative url", func(in *CreateInput) { in.URL = "/careers/42" }, []string{"url"}},
		{"non-http url", func(in *CreateInput) { in.URL = "ftp://acme.example.com/job" }, []string{"url"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			in := validCreate()
			tt.mutate(&in)

			_, err := f.svc.Create(as(adminID), in)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.ElementsMatch(t, tt.wantFields, verr.FieldNames())
			assert.Equal(t, 0, f.store.count())
		})
	}
}

func TestCreate_PersistenceFailure(t *testing.T) {
	f := newFixture(t)
	f.store.insertErr = errors.New("connection refused")

	_, err := f.svc.Create(as(adminID), validCreate())
	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "failed to save, try again", perr.Error())
	assert.EqualError(t, errors.Unwrap(err), "connection refused")
	assert.Empty(t, f.points.awards)
	assert.Empty(t, f.sink.Events())
}

func TestCreate_AwardsAndEmits(t *testing.T) {
	f := newFixture(t)

	created, err := f.svc.Create(as(adminID), validCreate())
	require.NoError(t, err)
	assert.Equal(t, []int{points.AwardCreate}, f.points.awards)

	events := f.sink.Named(analytics.EventJobCreated)
	require.Len(t, events, 1)
	props := events[0].Properties
	assert.Equal(t, adminID, events[0].DistinctID)
	assert.Equal(t, created.ID, props["job_id"])
	assert.Equal(t, "Acme", props["company"])
	assert.Equal(t, 100, props["points_awarded"])
	assert.Equal(t, "admin", props["role"])
	assert.Contains(t, props, "new_total")
	assert.Contains(t, props, "short_code")
}

func TestCreate_SoftFailures(t *testing.T) {
	store := newMemoryStore()
	store.addProfile(adminID, models.RoleAdmin)
	sink := analytics.NewMemorySink()
	sink.FailWith(errors.New("sink down"))

	svc := NewService(Deps{
		Jobs:      store,
		Profiles:  store,
		Points:    points.NewLedger(failingIncrementer{}),
		Analytics: sink,
		Cache:     brokenCache{},
	})

	created, err := svc.Create(as(adminID), validCreate())
	require.NoError(t, err)

	job, err := store.GetJob(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer", job.Title)
}

func TestUpdate_PointsByTransition(t *testing.T) {
	tests := []struct {
		name       string
		startOff   bool
		setActive  bool
		wantPoints int
		wantDeact  bool
	}{
		{"deactivate", false, false, 200, true},
		{"reactivate", true, true, 0, false},
		{"stay active", false, true, 0, false},
		{"stay inactive", true, false, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			created, err := f.svc.Create(as(adminID), validCreate())
			require.NoError(t, err)

			if tt.startOff {
				_, err = f.svc.Update(as(adminID), updateFrom(created.ID, false))
				require.NoError(t, err)
			}
			f.points.awards = nil

			res, err := f.svc.Update(as(ownerID), updateFrom(created.ID, tt.setActive))
			require.NoError(t, err)
			assert.Equal(t, tt.wantPoints, res.PointsAwarded)
			assert.Equal(t, tt.wantDeact, res.Deactivated)
			assert.Equal(t, tt.wantPoints, f.points.total())
		})
	}
}

func updateFrom(id int64, active bool) UpdateInput {
	in := validCreate()
	return UpdateInput{
		ID:       id,
		Title:    in.Title,
		Company:  in.Company,
		Location: in.Location,
		URL:      in.URL,
		IsActive: boolPtr(active),
	}
}

func TestUpdate_ChangedFieldsEvent(t *testing.T) {
	f := newFixture(t)
	created, err := f.svc.Create(as(adminID), validCreate())
	require.NoError(t, err)

	in := updateFrom(created.ID, false)
	in.Title = "Senior Backend Engineer"
	_, err = f.svc.Update(as(adminID), in)
	require.NoError(t, err)

	events := f.sink.Named(analytics.EventJobUpdated)
	require.Len(t, events, 1)
	props := events[0].Properties
	assert.Equal(t, true, props["changed_title"])
	assert.Equal(t, false, props["changed_company"])
	assert.Equal(t, false, props["changed_url"])
	assert.Equal(t, true, props["changed_is_active"])
	assert.Equal(t, true, props["deactivated"])
	assert.Equal(t, 200, props["points_awarded"])
}

func TestUpdate_Validation(t *testing.T) {
	f := newFixture(t)
	created, err := f.svc.Create(as(adminID), validCreate())
	require.NoError(t, err)

	t.Run("unknown id", func(t *testing.T) {
		_, err := f.svc.Update(as(adminID), updateFrom(9999, true))
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"id"}, verr.FieldNames())
	})

	t.Run("missing id and active flag", func(t *testing.T) {
		in := updateFrom(0, true)
		in.IsActive = nil
		_, err := f.svc.Update(as(adminID), in)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.FieldNames(), "id")
		assert.Contains(t, verr.FieldNames(), "is_active")
	})

	t.Run("user role cannot update", func(t *testing.T) {
		_, err := f.svc.Update(as(userID), updateFrom(created.ID, false))
		require.ErrorIs(t, err, ErrUnauthorized)

		job, err := f.store.GetJob(context.Background(), created.ID)
		require.NoError(t, err)
		assert.True(t, job.IsActive)
	})

	t.Run("store failure", func(t *testing.T) {
		f.store.updateErr = errors.New("deadlock detected")
		defer func() { f.store.updateErr = nil }()

		_, err := f.svc.Update(as(adminID), updateFrom(created.ID, false))
		var perr *PersistenceError
		require.ErrorAs(t, err, &perr)
	})
}

func TestList_CachesDefaultListingAndInvalidates(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Create(as(adminID), validCreate())
	require.NoError(t, err)

	jobs, err := f.svc.ListPublic(context.Background(), models.JobFilter{})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, 1, f.store.listCalls)

	_, err = f.svc.ListPublic(context.Background(), models.JobFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, f.store.listCalls, "second read should hit the cache")

	_, err = f.svc.Create(as(adminID), validCreate())
	require.NoError(t, err)

	jobs, err = f.svc.ListPublic(context.Background(), models.JobFilter{})
	require.NoError(t, err)
	assert.Len(t, jobs, 2)
	assert.Equal(t, 2, f.store.listCalls)
}

func TestList_FilteredListingIsNotCached(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.ListPublic(context.Background(), models.JobFilter{Query: "acme"})
	require.NoError(t, err)
	_, err = f.svc.ListPublic(context.Background(), models.JobFilter{Query: "acme"})
	require.NoError(t, err)
	assert.Equal(t, 2, f.store.listCalls)
	assert.Equal(t, 0, f.cache.Len())
}

func TestList_WriteDuringReadIsNotCached(t *testing.T) {
	store := newMemoryStore()
	store.addProfile(adminID, models.RoleAdmin)
	pages := cache.NewMemoryCache(time.Minute)
	t.Cleanup(pages.Close)

	racing := &racingStore{memoryStore: store}
	svc := NewService(Deps{Jobs: racing, Profiles: store, Points: &recordingAwarder{}, Cache: pages})

	racing.onList = func() {
		_, err := svc.Create(as(adminID), validCreate())
		require.NoError(t, err)
	}

	// The in-flight read saw no rows and must not pin that result.
	jobs, err := svc.ListPublic(context.Background(), models.JobFilter{})
	require.NoError(t, err)
	assert.Empty(t, jobs)
	assert.Equal(t, 0, pages.Len())

	jobs, err = svc.ListPublic(context.Background(), models.JobFilter{})
	require.NoError(t, err)
	assert.Len(t, jobs, 1)

	// With no writer in between, the next default read is cached again.
	_, err = svc.ListPublic(context.Background(), models.JobFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, store.listCalls)
}

func TestUpdate_ConcurrentDeactivationAwardsOnce(t *testing.T) {
	f := newFixture(t)
	created, err := f.svc.Create(as(adminID), validCreate())
	require.NoError(t, err)
	f.points.awards = nil

	const callers = 16
	var wg sync.WaitGroup
	results := make([]*Updated, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := f.svc.Update(as(ownerID), updateFrom(created.ID, false))
			assert.NoError(t, err)
			results[i] = res
		}(i)
	}
	wg.Wait()

	deactivations := 0
	for _, res := range results {
		if res != nil && res.Deactivated {
			deactivations++
		}
	}
	assert.Equal(t, 1, deactivations)
	assert.Equal(t, points.ForUpdate(true, false), f.points.total())
	assert.Len(t, f.sink.Named(analytics.EventJobUpdated), callers)
}

func TestListAdmin_IncludesInactive(t *testing.T) {
	f := newFixture(t)
	created, err := f.svc.Create(as(adminID), validCreate())
	require.NoError(t, err)
	_, err = f.svc.Update(as(adminID), updateFrom(created.ID, false))
	require.NoError(t, err)

	public, err := f.svc.ListPublic(context.Background(), models.JobFilter{})
	require.NoError(t, err)
	assert.Empty(t, public)

	all, err := f.svc.ListAdmin(as(adminID), models.JobFilter{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].IsActive)

	_, err = f.svc.ListAdmin(as(userID), models.JobFilter{})
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestGet(t *testing.T) {
	f := newFixture(t)
	created, err := f.svc.Create(as(adminID), validCreate())
	require.NoError(t, err)

	job, err := f.svc.Get(as(ownerID), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, job.ID)

	_, err = f.svc.Get(as(ownerID), 404)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.Get(context.Background(), created.ID)
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestResolveShortCode(t *testing.T) {
	f := newFixture(t)
	created, err := f.svc.Create(as(adminID), validCreate())
	require.NoError(t, err)
	job, err := f.store.GetJob(context.Background(), created.ID)
	require.NoError(t, err)

	target, found := f.svc.ResolveShortCode(context.Background(), job.ShortCode)
	require.True(t, found)
	u, err := url.Parse(target)
	require.NoError(t, err)
	assert.Equal(t, []string{"jobboard"}, u.Query()["ref"])
	assert.Equal(t, "core", u.Query().Get("team"))

	for _, code := range []string{"zzzzzzz", "", "bad code!", "toolongcode123"} {
		target, found = f.svc.ResolveShortCode(context.Background(), code)
		assert.False(t, found, code)
		assert.Equal(t, "https://jobs.example.com/", target, code)
	}
}

func TestInspectURL(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.InspectURL(as(adminID), "https://acme.example.com/job?utm_medium=mail&id=7")
	require.NoError(t, err)
	assert.Equal(t, "https://acme.example.com/job?id=7", res.Clean)
	assert.Equal(t, "https://acme.example.com/job", res.Stripped)
	assert.True(t, res.HasResidualParams)

	_, err = f.svc.InspectURL(as(adminID), "not a url")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"url"}, verr.FieldNames())

	_, err = f.svc.InspectURL(as(userID), "https://acme.example.com/job")
	require.ErrorIs(t, err, ErrUnauthorized)
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("cache down")
}

func (brokenCache) Set(context.Context, string, []byte) error { return errors.New("cache down") }

func (brokenCache) Invalidate(context.Context, ...string) error { return errors.New("cache down") }
