package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/drseanwing/trolleys/internal/domain"
)

type fakeLocationRepo struct {
	active []domain.Location

	recordedLocation   string
	recordedAt         time.Time
	recordedCompliance decimal.Decimal
}

func (f *fakeLocationRepo) Get(ctx context.Context, locationID string) (*domain.Location, error) {
	for i := range f.active {
		if f.active[i].ID == locationID {
			return &f.active[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeLocationRepo) ListActive(ctx context.Context) ([]domain.Location, error) {
	return f.active, nil
}

func (f *fakeLocationRepo) RecordAudit(ctx context.Context, locationID string, auditedAt time.Time, compliance decimal.Decimal) error {
	f.recordedLocation = locationID
	f.recordedAt = auditedAt
	f.recordedCompliance = compliance
	return nil
}

type fakeSelectionRepo struct {
	batches []*domain.SelectionBatch
	items   map[string][]domain.SelectionItem
	seq     int
}

func newFakeSelectionRepo() *fakeSelectionRepo {
	return &fakeSelectionRepo{items: make(map[string][]domain.SelectionItem)}
}

func (f *fakeSelectionRepo) CreateBatch(ctx context.Context, batch *domain.SelectionBatch, items []domain.SelectionItem) error {
	for _, prior := range f.batches {
		prior.Active = false
	}
	f.seq++
	batch.ID = fmt.Sprintf("batch-%d", f.seq)
	for i := range items {
		items[i].BatchID = batch.ID
	}
	f.batches = append(f.batches, batch)
	f.items[batch.ID] = items
	return nil
}

func (f *fakeSelectionRepo) ActiveBatch(ctx context.Context) (*domain.SelectionBatch, []domain.SelectionItem, error) {
	for _, batch := range f.batches {
		if batch.Active {
			return batch, f.items[batch.ID], nil
		}
	}
	return nil, nil, domain.ErrNotFound
}

func (f *fakeSelectionRepo) CompleteItemForLocation(ctx context.Context, locationID string, status domain.SelectionItemStatus) error {
	batch, items, err := f.ActiveBatch(ctx)
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].LocationID == locationID && items[i].Status == domain.SelectionPending {
			items[i].Status = status
			f.items[batch.ID] = items
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeSelectionRepo) activeCount() int {
	n := 0
	for _, batch := range f.batches {
		if batch.Active {
			n++
		}
	}
	return n
}

type fakeSelectionCache struct {
	batch       *domain.SelectionBatch
	items       []domain.SelectionItem
	sets        int
	invalidates int
}

func (f *fakeSelectionCache) Get(ctx context.Context) (*domain.SelectionBatch, []domain.SelectionItem, bool) {
	if f.batch == nil {
		return nil, nil, false
	}
	return f.batch, f.items, true
}

func (f *fakeSelectionCache) Set(ctx context.Context, batch *domain.SelectionBatch, items []domain.SelectionItem) {
	f.batch = batch
	f.items = items
	f.sets++
}

func (f *fakeSelectionCache) Invalidate(ctx context.Context) {
	f.batch = nil
	f.items = nil
	f.invalidates++
}

// selectorEpoch is a Monday.
var selectorEpoch = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

func newTestSelector(locations *fakeLocationRepo, batches *fakeSelectionRepo, seed int64) *RandomAuditSelector {
	s := NewRandomAuditSelector(locations, batches, rand.New(rand.NewSource(seed)))
	s.Clock = func() time.Time { return selectorEpoch }
	return s
}

func locationAuditedDaysAgo(id, serviceLine string, daysAgo int) domain.Location {
	last := selectorEpoch.AddDate(0, 0, -daysAgo)
	return domain.Location{
		ID:            id,
		ServiceLine:   serviceLine,
		DisplayName:   id,
		Status:        domain.LocationActive,
		LastAuditDate: &last,
	}
}

func TestPriorityScore(t *testing.T) {
	s := newTestSelector(&fakeLocationRepo{}, newFakeSelectionRepo(), 1)

	t.Run("never audited", func(t *testing.T) {
		score, days := s.PriorityScore(domain.Location{ID: "new"})
		require.Equal(t, 1000, score)
		require.Nil(t, days)
	})

	tests := []struct {
		daysAgo int
		want    int
	}{
		{200, 700}, // 500 + 200
		{100, 350}, // 250 + 100
		{61, 161},  // 100 + 61
		{31, 81},   // 50 + 31
		{30, 40},   // threshold not exceeded, recent base
		{10, 20},
		{0, 10},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d days ago", tt.daysAgo), func(t *testing.T) {
			loc := locationAuditedDaysAgo("ward-1", "Medicine", tt.daysAgo)
			score, days := s.PriorityScore(loc)
			require.Equal(t, tt.want, score)
			require.NotNil(t, days)
			require.Equal(t, tt.daysAgo, *days)
		})
	}
}

func TestGenerateBatchCoversEveryServiceLine(t *testing.T) {
	locations := &fakeLocationRepo{active: []domain.Location{
		locationAuditedDaysAgo("icu-1", "Critical Care", 200),
		locationAuditedDaysAgo("icu-2", "Critical Care", 10),
		locationAuditedDaysAgo("med-1", "Medicine", 95),
		locationAuditedDaysAgo("med-2", "Medicine", 40),
		locationAuditedDaysAgo("surg-1", "Surgery", 5),
	}}
	batches := newFakeSelectionRepo()
	s := newTestSelector(locations, batches, 1)

	_, items, err := s.GenerateBatch(context.Background(), nil, "scheduler", 3)
	require.NoError(t, err)
	require.Len(t, items, 3)

	// One representative per line, each the line's highest scorer.
	byLine := make(map[string]string)
	for _, item := range items {
		byLine[item.ServiceLine] = item.LocationID
	}
	require.Equal(t, map[string]string{
		"Critical Care": "icu-1",
		"Medicine":      "med-1",
		"Surgery":       "surg-1",
	}, byLine)

	for i, item := range items {
		require.Equal(t, i+1, item.Rank)
		require.Equal(t, domain.SelectionPending, item.Status)
	}
}

func TestGenerateBatchShortPool(t *testing.T) {
	locations := &fakeLocationRepo{active: []domain.Location{
		locationAuditedDaysAgo("a", "Medicine", 200),
		locationAuditedDaysAgo("b", "Medicine", 100),
		locationAuditedDaysAgo("c", "Surgery", 50),
	}}
	s := newTestSelector(locations, newFakeSelectionRepo(), 1)

	batch, items, err := s.GenerateBatch(context.Background(), nil, "scheduler", 10)
	require.NoError(t, err)
	require.Len(t, items, 3)
	require.Equal(t, "Priority-weighted selection of 10 from 3 active locations", batch.Criteria)
}

func TestGenerateBatchDefaultsToNextMonday(t *testing.T) {
	locations := &fakeLocationRepo{active: []domain.Location{
		locationAuditedDaysAgo("a", "Medicine", 200),
	}}
	s := newTestSelector(locations, newFakeSelectionRepo(), 1)

	// Generating on a Monday targets the following week.
	batch, _, err := s.GenerateBatch(context.Background(), nil, "scheduler", 0)
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), batch.WeekStart)
	require.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), batch.WeekEnd)

	// A Sunday clock lands on the very next day.
	s.Clock = func() time.Time { return time.Date(2026, 3, 8, 16, 0, 0, 0, time.UTC) }
	batch, _, err = s.GenerateBatch(context.Background(), nil, "scheduler", 0)
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), batch.WeekStart)
}

func TestGenerateBatchHonorsExplicitWeekStart(t *testing.T) {
	locations := &fakeLocationRepo{active: []domain.Location{
		locationAuditedDaysAgo("a", "Medicine", 200),
	}}
	s := newTestSelector(locations, newFakeSelectionRepo(), 1)

	start := time.Date(2026, 4, 6, 11, 45, 0, 0, time.UTC)
	batch, _, err := s.GenerateBatch(context.Background(), &start, "scheduler", 0)
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC), batch.WeekStart)
}

func TestGenerateBatchLeavesSingleActiveBatch(t *testing.T) {
	locations := &fakeLocationRepo{active: []domain.Location{
		locationAuditedDaysAgo("a", "Medicine", 200),
		locationAuditedDaysAgo("b", "Surgery", 100),
	}}
	batches := newFakeSelectionRepo()
	s := newTestSelector(locations, batches, 1)
	ctx := context.Background()

	first, _, err := s.GenerateBatch(ctx, nil, "scheduler", 0)
	require.NoError(t, err)
	second, _, err := s.GenerateBatch(ctx, nil, "scheduler", 0)
	require.NoError(t, err)

	require.Equal(t, 1, batches.activeCount())
	require.False(t, first.Active)
	require.True(t, second.Active)
}

func TestShuffleWithinTiersIsDeterministicPerSeed(t *testing.T) {
	var pool []domain.Location
	for i := 0; i < 12; i++ {
		// All in one tier band, two service lines, so the fill phase
		// has real shuffling to do.
		line := "Medicine"
		if i%2 == 0 {
			line = "Surgery"
		}
		pool = append(pool, locationAuditedDaysAgo(fmt.Sprintf("loc-%02d", i), line, 200+i))
	}

	order := func(seed int64) []string {
		locations := &fakeLocationRepo{active: pool}
		s := newTestSelector(locations, newFakeSelectionRepo(), seed)
		_, items, err := s.GenerateBatch(context.Background(), nil, "scheduler", 8)
		require.NoError(t, err)
		ids := make([]string, len(items))
		for i, item := range items {
			ids[i] = item.LocationID
		}
		return ids
	}

	require.Equal(t, order(42), order(42))
}

func TestActiveBatchReadsThroughCache(t *testing.T) {
	locations := &fakeLocationRepo{active: []domain.Location{
		locationAuditedDaysAgo("a", "Medicine", 200),
	}}
	batches := newFakeSelectionRepo()
	cache := &fakeSelectionCache{}
	s := newTestSelector(locations, batches, 1)
	s.Cache = cache
	ctx := context.Background()

	_, _, err := s.GenerateBatch(ctx, nil, "scheduler", 0)
	require.NoError(t, err)
	require.Equal(t, 1, cache.invalidates)

	// First read misses the cache and fills it.
	batch, items, err := s.ActiveBatch(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, 1, cache.sets)

	// Second read is served from the cache.
	again, _, err := s.ActiveBatch(ctx)
	require.NoError(t, err)
	require.Same(t, batch, again)
	require.Equal(t, 1, cache.sets)
}

func TestCompleteItemForAudit(t *testing.T) {
	locations := &fakeLocationRepo{active: []domain.Location{
		locationAuditedDaysAgo("a", "Medicine", 200),
	}}
	batches := newFakeSelectionRepo()
	cache := &fakeSelectionCache{}
	s := newTestSelector(locations, batches, 1)
	s.Cache = cache
	ctx := context.Background()

	_, _, err := s.GenerateBatch(ctx, nil, "scheduler", 0)
	require.NoError(t, err)

	require.NoError(t, s.CompleteItemForAudit(ctx, "a"))
	_, items, err := batches.ActiveBatch(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.SelectionCompleted, items[0].Status)
	require.Equal(t, 2, cache.invalidates)

	// Auditing a location outside the batch is not an error.
	require.NoError(t, s.CompleteItemForAudit(ctx, "unplanned"))
	require.Equal(t, 2, cache.invalidates)
}
