package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/drseanwing/trolleys/internal/domain"
)

func TestSubmitScoresAndFreezes(t *testing.T) {
	audit := fullyCompliantAudit()
	audit.LocationID = "icu-1"
	audits := &fakeAuditRepo{audit: audit}
	locations := &fakeLocationRepo{active: []domain.Location{
		{ID: "icu-1", ServiceLine: "Critical Care", DisplayName: "ICU Trolley 1", Status: domain.LocationActive},
	}}

	submittedAt := time.Date(2026, 3, 4, 14, 0, 0, 0, time.UTC)
	sub := NewAuditSubmission(audits, locations, NewComplianceScorer(audits), nil)
	sub.Clock = func() time.Time { return submittedAt }

	overall, err := sub.Submit(context.Background(), "audit-1")
	require.NoError(t, err)
	require.Equal(t, "100.00", overall.StringFixed(2))

	require.True(t, audits.submitted)
	require.Len(t, audits.published, 1)
	require.Equal(t, domain.AuditSubmitted, audit.Status)
	require.NotNil(t, audit.CompletedAt)

	require.Equal(t, "icu-1", locations.recordedLocation)
	require.Equal(t, submittedAt, locations.recordedAt)
	require.Equal(t, "100.00", locations.recordedCompliance.StringFixed(2))
}

func TestSubmitRejectsSubmittedAudit(t *testing.T) {
	audit := fullyCompliantAudit()
	audit.Status = domain.AuditSubmitted
	audits := &fakeAuditRepo{audit: audit}

	sub := NewAuditSubmission(audits, &fakeLocationRepo{}, NewComplianceScorer(audits), nil)

	_, err := sub.Submit(context.Background(), "audit-1")
	require.ErrorIs(t, err, domain.ErrAuditSubmitted)
	require.Empty(t, audits.published)
}

func TestSubmitCompletesSelectionItem(t *testing.T) {
	audit := fullyCompliantAudit()
	audit.LocationID = "icu-1"
	audits := &fakeAuditRepo{audit: audit}
	locations := &fakeLocationRepo{active: []domain.Location{
		locationAuditedDaysAgo("icu-1", "Critical Care", 200),
	}}
	batches := newFakeSelectionRepo()
	selector := newTestSelector(locations, batches, 1)
	ctx := context.Background()

	_, _, err := selector.GenerateBatch(ctx, nil, "scheduler", 0)
	require.NoError(t, err)

	sub := NewAuditSubmission(audits, locations, NewComplianceScorer(audits), selector)
	_, err = sub.Submit(ctx, "audit-1")
	require.NoError(t, err)

	_, items, err := batches.ActiveBatch(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.SelectionCompleted, items[0].Status)
}

func TestSubmitToleratesLocationOutsideBatch(t *testing.T) {
	audit := fullyCompliantAudit()
	audit.LocationID = "unplanned"
	audits := &fakeAuditRepo{audit: audit}
	locations := &fakeLocationRepo{active: []domain.Location{
		locationAuditedDaysAgo("icu-1", "Critical Care", 200),
	}}
	batches := newFakeSelectionRepo()
	selector := newTestSelector(locations, batches, 1)
	ctx := context.Background()

	_, _, err := selector.GenerateBatch(ctx, nil, "scheduler", 0)
	require.NoError(t, err)

	sub := NewAuditSubmission(audits, locations, NewComplianceScorer(audits), selector)
	_, err = sub.Submit(ctx, "audit-1")
	require.NoError(t, err)
}
