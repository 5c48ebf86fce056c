package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/drseanwing/trolleys/internal/domain"
)

type fakeAuditRepo struct {
	audit     *domain.AuditRecord
	published []domain.AuditScores
	submitted bool
}

func (f *fakeAuditRepo) GetAudit(ctx context.Context, auditID string) (*domain.AuditRecord, error) {
	if f.audit == nil {
		return nil, domain.ErrNotFound
	}
	return f.audit, nil
}

func (f *fakeAuditRepo) PublishScores(ctx context.Context, auditID string, scores domain.AuditScores) error {
	f.published = append(f.published, scores)
	return nil
}

func (f *fakeAuditRepo) MarkSubmitted(ctx context.Context, auditID string, completedAt time.Time) error {
	f.submitted = true
	return nil
}

func allCurrentDocuments() domain.DocumentCheck {
	return domain.DocumentCheck{
		RecordStatus:        domain.DocumentCurrent,
		GuidelinesStatus:    domain.DocumentCurrent,
		PosterPresent:       true,
		EquipmentListStatus: domain.DocumentCurrent,
	}
}

func TestDocumentationScore(t *testing.T) {
	scorer := NewComplianceScorer(nil)

	tests := []struct {
		name string
		doc  domain.DocumentCheck
		want string
	}{
		{"all passing", allCurrentDocuments(), "100"},
		{"all failing", domain.DocumentCheck{
			RecordStatus:        domain.DocumentMissing,
			GuidelinesStatus:    domain.DocumentMissing,
			PosterPresent:       false,
			EquipmentListStatus: domain.DocumentMissing,
		}, "0"},
		{"two passing", domain.DocumentCheck{
			RecordStatus:        domain.DocumentCurrent,
			GuidelinesStatus:    domain.DocumentExpired,
			PosterPresent:       true,
			EquipmentListStatus: domain.DocumentMissing,
		}, "50"},
		{"expired gets no partial credit", domain.DocumentCheck{
			RecordStatus:        domain.DocumentExpired,
			GuidelinesStatus:    domain.DocumentExpired,
			PosterPresent:       true,
			EquipmentListStatus: domain.DocumentExpired,
		}, "25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scorer.DocumentationScore(tt.doc)
			require.Equal(t, tt.want+".00", got.Round(2).StringFixed(2))
		})
	}
}

func TestConditionScore(t *testing.T) {
	scorer := NewComplianceScorer(nil)

	allGood := domain.ConditionCheck{
		Clean: true, WorkingOrder: true, RubberBandsUsed: true,
		O2TubingCorrect: true, InhaloCylinderOK: true,
	}
	require.Equal(t, "100.00", scorer.ConditionScore(allGood).Round(2).StringFixed(2))
	require.Equal(t, "0.00", scorer.ConditionScore(domain.ConditionCheck{}).Round(2).StringFixed(2))

	threeOfFive := domain.ConditionCheck{Clean: true, WorkingOrder: true, RubberBandsUsed: true}
	require.Equal(t, "60.00", scorer.ConditionScore(threeOfFive).Round(2).StringFixed(2))
}

func TestCheckScore(t *testing.T) {
	scorer := NewComplianceScorer(nil)

	t.Run("count not available is a hard fail", func(t *testing.T) {
		checks := domain.RoutineCheckRecord{
			OutsideCount: 90, ExpectedOutside: 90,
			InsideCount: 4, ExpectedInside: 4,
			CountNotAvailable: true,
		}
		require.Equal(t, "0.00", scorer.CheckScore(checks).StringFixed(2))
	})

	t.Run("full compliance", func(t *testing.T) {
		checks := domain.RoutineCheckRecord{
			OutsideCount: 90, ExpectedOutside: 90,
			InsideCount: 4, ExpectedInside: 4,
		}
		require.Equal(t, "100.00", scorer.CheckScore(checks).Round(2).StringFixed(2))
	})

	t.Run("half outside full inside", func(t *testing.T) {
		checks := domain.RoutineCheckRecord{
			OutsideCount: 45, ExpectedOutside: 90,
			InsideCount: 4, ExpectedInside: 4,
		}
		require.Equal(t, "75.00", scorer.CheckScore(checks).Round(2).StringFixed(2))
	})

	t.Run("overcount is capped at 100", func(t *testing.T) {
		checks := domain.RoutineCheckRecord{
			OutsideCount: 120, ExpectedOutside: 90,
			InsideCount: 8, ExpectedInside: 4,
		}
		require.Equal(t, "100.00", scorer.CheckScore(checks).Round(2).StringFixed(2))
	})

	t.Run("zero expected counts pass vacuously", func(t *testing.T) {
		checks := domain.RoutineCheckRecord{}
		require.Equal(t, "100.00", scorer.CheckScore(checks).Round(2).StringFixed(2))
	})
}

func equipResult(critical, passes bool) domain.EquipmentCheckResult {
	r := domain.EquipmentCheckResult{
		Critical:         critical,
		Present:          true,
		QuantityFound:    1,
		QuantityExpected: 1,
		ExpiryOK:         true,
	}
	if !passes {
		r.Present = false
	}
	return r
}

func TestEquipmentScore(t *testing.T) {
	scorer := NewComplianceScorer(nil)

	t.Run("no critical items, all non-critical passing", func(t *testing.T) {
		results := []domain.EquipmentCheckResult{
			equipResult(false, true), equipResult(false, true), equipResult(false, true),
		}
		require.Equal(t, "100.00", scorer.EquipmentScore(results).Round(2).StringFixed(2))
	})

	t.Run("half critical passing, no non-critical items", func(t *testing.T) {
		results := []domain.EquipmentCheckResult{
			equipResult(true, true), equipResult(true, false),
		}
		// 50*0.60 + 100*0.40
		require.Equal(t, "70.00", scorer.EquipmentScore(results).Round(2).StringFixed(2))
	})

	t.Run("empty result set passes vacuously", func(t *testing.T) {
		require.Equal(t, "100.00", scorer.EquipmentScore(nil).Round(2).StringFixed(2))
	})

	t.Run("expiry only counts when tracking required", func(t *testing.T) {
		expired := domain.EquipmentCheckResult{
			Critical: true, Present: true,
			QuantityFound: 1, QuantityExpected: 1,
			ExpiryOK: false, RequiresExpiryCheck: true,
		}
		untracked := expired
		untracked.RequiresExpiryCheck = false

		require.Equal(t, "40.00", scorer.EquipmentScore([]domain.EquipmentCheckResult{expired}).Round(2).StringFixed(2))
		require.Equal(t, "100.00", scorer.EquipmentScore([]domain.EquipmentCheckResult{untracked}).Round(2).StringFixed(2))
	})

	t.Run("short quantity fails", func(t *testing.T) {
		short := domain.EquipmentCheckResult{
			Critical: false, Present: true,
			QuantityFound: 1, QuantityExpected: 2, ExpiryOK: true,
		}
		require.Equal(t, "60.00", scorer.EquipmentScore([]domain.EquipmentCheckResult{short}).Round(2).StringFixed(2))
	})
}

func fullyCompliantAudit() *domain.AuditRecord {
	docs := allCurrentDocuments()
	cond := domain.ConditionCheck{
		Clean: true, WorkingOrder: true, RubberBandsUsed: true,
		O2TubingCorrect: true, InhaloCylinderOK: true,
	}
	checks := domain.RoutineCheckRecord{
		OutsideCount: 90, ExpectedOutside: 90,
		InsideCount: 4, ExpectedInside: 4,
	}
	return &domain.AuditRecord{
		ID:        "audit-1",
		Status:    domain.AuditInProgress,
		Documents: &docs,
		Condition: &cond,
		Checks:    &checks,
		EquipmentChecks: []domain.EquipmentCheckResult{
			equipResult(true, true), equipResult(false, true),
		},
	}
}

func TestOverallScore(t *testing.T) {
	t.Run("fully compliant audit scores 100", func(t *testing.T) {
		repo := &fakeAuditRepo{}
		scorer := NewComplianceScorer(repo)

		overall, err := scorer.OverallScore(context.Background(), fullyCompliantAudit())
		require.NoError(t, err)
		require.Equal(t, "100.00", overall.StringFixed(2))
		require.Len(t, repo.published, 1)
		require.Equal(t, "100.00", repo.published[0].Overall.StringFixed(2))
	})

	t.Run("absent sections contribute zero without failing", func(t *testing.T) {
		repo := &fakeAuditRepo{}
		scorer := NewComplianceScorer(repo)

		audit := &domain.AuditRecord{ID: "audit-2", Status: domain.AuditDraft}
		overall, err := scorer.OverallScore(context.Background(), audit)
		require.NoError(t, err)
		// Equipment is vacuously 100 (no items); the other three are 0.
		require.Equal(t, "40.00", overall.StringFixed(2))
		require.Equal(t, "0.00", audit.DocumentScore.StringFixed(2))
		require.Equal(t, "100.00", audit.EquipmentScore.StringFixed(2))
		require.Equal(t, "0.00", audit.ConditionScore.StringFixed(2))
		require.Equal(t, "0.00", audit.CheckScore.StringFixed(2))
	})

	t.Run("weighted composite", func(t *testing.T) {
		repo := &fakeAuditRepo{}
		scorer := NewComplianceScorer(repo)

		audit := fullyCompliantAudit()
		// Drop documentation to 50: two of four checks pass.
		audit.Documents.GuidelinesStatus = domain.DocumentExpired
		audit.Documents.EquipmentListStatus = domain.DocumentMissing

		overall, err := scorer.OverallScore(context.Background(), audit)
		require.NoError(t, err)
		// 50*0.25 + 100*0.40 + 100*0.15 + 100*0.20
		require.Equal(t, "87.50", overall.StringFixed(2))
	})

	t.Run("idempotent over an unchanged audit", func(t *testing.T) {
		repo := &fakeAuditRepo{}
		scorer := NewComplianceScorer(repo)

		audit := fullyCompliantAudit()
		first, err := scorer.OverallScore(context.Background(), audit)
		require.NoError(t, err)
		second, err := scorer.OverallScore(context.Background(), audit)
		require.NoError(t, err)

		require.True(t, first.Equal(second))
		require.Len(t, repo.published, 2)
		require.True(t, repo.published[0].Overall.Equal(repo.published[1].Overall))
		require.True(t, repo.published[0].Document.Equal(repo.published[1].Document))
	})
}
