package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/drseanwing/trolleys/internal/domain"
)

// AuditSubmission drives the submit step of an audit: compute and
// publish the scores, freeze the audit, then push the outcome onto the
// location and the weekly selection. The last two writes are
// best-effort follow-ups of the submitting call, not synchronous
// dependencies of the scorer.
type AuditSubmission struct {
	Audits    AuditRepository
	Locations LocationRepository
	Scorer    *ComplianceScorer
	Selector  *RandomAuditSelector
	Clock     func() time.Time
}

func NewAuditSubmission(audits AuditRepository, locations LocationRepository, scorer *ComplianceScorer, selector *RandomAuditSelector) *AuditSubmission {
	return &AuditSubmission{
		Audits:    audits,
		Locations: locations,
		Scorer:    scorer,
		Selector:  selector,
		Clock:     time.Now,
	}
}

// Submit scores and freezes the audit. Once an audit is Submitted its
// scores are immutable; a second submit fails with ErrAuditSubmitted.
func (s *AuditSubmission) Submit(ctx context.Context, auditID string) (decimal.Decimal, error) {
	audit, err := s.Audits.GetAudit(ctx, auditID)
	if err != nil {
		return decimal.Zero, err
	}
	if audit.Status == domain.AuditSubmitted || audit.Status == domain.AuditReviewed {
		return decimal.Zero, domain.ErrAuditSubmitted
	}

	overall, err := s.Scorer.OverallScore(ctx, audit)
	if err != nil {
		return decimal.Zero, err
	}

	now := s.now()
	if err := s.Audits.MarkSubmitted(ctx, auditID, now); err != nil {
		return decimal.Zero, err
	}
	audit.Status = domain.AuditSubmitted
	audit.CompletedAt = &now

	if err := s.Locations.RecordAudit(ctx, audit.LocationID, now, overall); err != nil {
		return decimal.Zero, err
	}

	if s.Selector != nil {
		if err := s.Selector.CompleteItemForAudit(ctx, audit.LocationID); err != nil {
			return decimal.Zero, err
		}
	}

	return overall, nil
}

func (s *AuditSubmission) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}
