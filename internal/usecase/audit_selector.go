package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/drseanwing/trolleys/internal/domain"
)

// DefaultSelectionCount is the weekly batch size when the caller does
// not specify one.
const DefaultSelectionCount = 10

// neverAuditedScore is the sentinel priority for locations with no
// audit on record.
const neverAuditedScore = 1000

// priorityTiers maps days-since-last-audit thresholds to base scores,
// evaluated in descending order; the first threshold exceeded wins.
var priorityTiers = []struct {
	days int
	base int
}{
	{180, 500},
	{90, 250},
	{60, 100},
	{30, 50},
}

const recentBase = 10

// scoredLocation pairs a candidate with its frozen priority snapshot.
type scoredLocation struct {
	loc       domain.Location
	score     int
	daysSince *int
}

// RandomAuditSelector picks a fixed-size, service-line-balanced,
// priority-weighted sample of active locations each week. The only
// nondeterminism is the injected Shuffler, applied strictly within
// priority tiers.
type RandomAuditSelector struct {
	Locations LocationRepository
	Batches   SelectionRepository
	Cache     SelectionCache
	Clock     func() time.Time
	Rand      Shuffler
}

func NewRandomAuditSelector(locations LocationRepository, batches SelectionRepository, rand Shuffler) *RandomAuditSelector {
	return &RandomAuditSelector{
		Locations: locations,
		Batches:   batches,
		Clock:     time.Now,
		Rand:      rand,
	}
}

// PriorityScore computes a location's selection priority and its
// days-since-audit snapshot. Never-audited locations score the 1000
// sentinel with a nil day count.
func (s *RandomAuditSelector) PriorityScore(loc domain.Location) (int, *int) {
	if loc.LastAuditDate == nil {
		return neverAuditedScore, nil
	}
	today := dateOnly(s.now())
	last := dateOnly(*loc.LastAuditDate)
	days := int(today.Sub(last).Hours() / 24)

	base := recentBase
	for _, tier := range priorityTiers {
		if days > tier.days {
			base = tier.base
			break
		}
	}
	// Linear bonus so locations inside one tier still rank by actual
	// recency.
	score := base + days
	return score, &days
}

// GenerateBatch scores every active location, runs the two selection
// phases and persists a new active batch, deactivating all prior ones.
// weekStart nil defaults to the next Monday; count <= 0 defaults to
// DefaultSelectionCount. A pool smaller than count yields a short
// batch, never an error.
func (s *RandomAuditSelector) GenerateBatch(ctx context.Context, weekStart *time.Time, generatedBy string, count int) (*domain.SelectionBatch, []domain.SelectionItem, error) {
	if count <= 0 {
		count = DefaultSelectionCount
	}

	start := s.nextMonday()
	if weekStart != nil {
		start = dateOnly(*weekStart)
	}
	end := start.AddDate(0, 0, 6)

	active, err := s.Locations.ListActive(ctx)
	if err != nil {
		return nil, nil, err
	}

	scored := s.scoreLocations(active)
	selected := s.selectWithCoverage(scored, count)

	batch := &domain.SelectionBatch{
		WeekStart:   start,
		WeekEnd:     end,
		GeneratedAt: s.now(),
		GeneratedBy: generatedBy,
		Criteria:    fmt.Sprintf("Priority-weighted selection of %d from %d active locations", count, len(scored)),
		Active:      true,
	}

	items := make([]domain.SelectionItem, 0, len(selected))
	for rank, sl := range selected {
		items = append(items, domain.SelectionItem{
			LocationID:     sl.loc.ID,
			Location:       sl.loc.DisplayName,
			ServiceLine:    sl.loc.ServiceLine,
			Rank:           rank + 1,
			PriorityScore:  sl.score,
			DaysSinceAudit: sl.daysSince,
			Status:         domain.SelectionPending,
		})
	}

	if err := s.Batches.CreateBatch(ctx, batch, items); err != nil {
		return nil, nil, err
	}
	if s.Cache != nil {
		s.Cache.Invalidate(ctx)
	}
	return batch, items, nil
}

// ActiveBatch returns the current week's batch, through the cache when
// one is configured.
func (s *RandomAuditSelector) ActiveBatch(ctx context.Context) (*domain.SelectionBatch, []domain.SelectionItem, error) {
	if s.Cache != nil {
		if batch, items, ok := s.Cache.Get(ctx); ok {
			return batch, items, nil
		}
	}
	batch, items, err := s.Batches.ActiveBatch(ctx)
	if err != nil {
		return nil, nil, err
	}
	if s.Cache != nil {
		s.Cache.Set(ctx, batch, items)
	}
	return batch, items, nil
}

// CompleteItemForAudit marks the active batch's pending item for the
// audited location Completed. A location outside the batch is not an
// error; the update is best-effort.
func (s *RandomAuditSelector) CompleteItemForAudit(ctx context.Context, locationID string) error {
	err := s.Batches.CompleteItemForLocation(ctx, locationID, domain.SelectionCompleted)
	if err != nil && err != domain.ErrNotFound {
		return err
	}
	if err == nil && s.Cache != nil {
		s.Cache.Invalidate(ctx)
	}
	return nil
}

// scoreLocations scores the pool and sorts it descending by score.
// Ties keep a stable order; tier shuffling happens later.
func (s *RandomAuditSelector) scoreLocations(locations []domain.Location) []scoredLocation {
	scored := make([]scoredLocation, 0, len(locations))
	for _, loc := range locations {
		score, days := s.PriorityScore(loc)
		scored = append(scored, scoredLocation{loc: loc, score: score, daysSince: days})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	return scored
}

// selectWithCoverage runs the two phases: one representative per
// service line first, then a tier-shuffled fill from the remainder.
func (s *RandomAuditSelector) selectWithCoverage(scored []scoredLocation, count int) []scoredLocation {
	selected := coveragePhase(scored, count)

	if len(selected) < count {
		chosen := make(map[string]struct{}, len(selected))
		for _, sl := range selected {
			chosen[sl.loc.ID] = struct{}{}
		}
		remaining := make([]scoredLocation, 0, len(scored))
		for _, sl := range scored {
			if _, ok := chosen[sl.loc.ID]; !ok {
				remaining = append(remaining, sl)
			}
		}
		for _, sl := range shuffleWithinTiers(remaining, s.Rand) {
			if len(selected) >= count {
				break
			}
			selected = append(selected, sl)
		}
	}

	if len(selected) > count {
		selected = selected[:count]
	}
	return selected
}

// coveragePhase takes each service line's single highest-scoring
// location, lines visited in name order for determinism, until every
// line is represented or capacity runs out.
func coveragePhase(scored []scoredLocation, count int) []scoredLocation {
	byLine := make(map[string][]scoredLocation)
	for _, sl := range scored {
		byLine[sl.loc.ServiceLine] = append(byLine[sl.loc.ServiceLine], sl)
	}
	lines := make([]string, 0, len(byLine))
	for name := range byLine {
		lines = append(lines, name)
	}
	sort.Strings(lines)

	selected := make([]scoredLocation, 0, count)
	for _, name := range lines {
		if len(selected) >= count {
			break
		}
		// Input is sorted by score, so the first entry is the line's best.
		selected = append(selected, byLine[name][0])
	}
	return selected
}

// shuffleWithinTiers buckets by score/10 and shuffles inside each
// bucket only; higher tiers are always exhausted before lower ones.
func shuffleWithinTiers(scored []scoredLocation, rand Shuffler) []scoredLocation {
	if len(scored) == 0 {
		return scored
	}

	tiers := make(map[int][]scoredLocation)
	for _, sl := range scored {
		key := sl.score / 10
		tiers[key] = append(tiers[key], sl)
	}

	keys := make([]int, 0, len(tiers))
	for key := range tiers {
		keys = append(keys, key)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(keys)))

	result := make([]scoredLocation, 0, len(scored))
	for _, key := range keys {
		tier := tiers[key]
		if rand != nil {
			rand.Shuffle(len(tier), func(i, j int) {
				tier[i], tier[j] = tier[j], tier[i]
			})
		}
		result = append(result, tier...)
	}
	return result
}

// nextMonday is the strictly next Monday: generating on a Monday
// targets the following week.
func (s *RandomAuditSelector) nextMonday() time.Time {
	today := dateOnly(s.now())
	daysUntil := (8 - int(today.Weekday())) % 7
	if daysUntil == 0 {
		daysUntil = 7
	}
	return today.AddDate(0, 0, daysUntil)
}

func (s *RandomAuditSelector) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
