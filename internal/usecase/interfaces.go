package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/drseanwing/trolleys/internal/domain"
)

// AuditRepository loads audit aggregates and publishes scoring results.
type AuditRepository interface {
	// GetAudit returns the audit with whichever section sub-records
	// exist; absent sections are left nil.
	GetAudit(ctx context.Context, auditID string) (*domain.AuditRecord, error)
	// PublishScores writes the four component scores and the overall
	// score in a single transaction.
	PublishScores(ctx context.Context, auditID string, scores domain.AuditScores) error
	// MarkSubmitted freezes the audit: status Submitted plus the
	// completion timestamp.
	MarkSubmitted(ctx context.Context, auditID string, completedAt time.Time) error
}

// IssueRepository persists issues and their append-only comment trail.
type IssueRepository interface {
	Create(ctx context.Context, issue *domain.Issue) error
	Get(ctx context.Context, issueID string) (*domain.Issue, error)
	// ListOpen returns every issue not yet Resolved or Closed.
	ListOpen(ctx context.Context) ([]*domain.Issue, error)
	// SaveTransition persists the mutated issue together with the
	// transition comment in one transaction.
	SaveTransition(ctx context.Context, issue *domain.Issue, comment domain.IssueComment) error
	SetTargetResolutionDate(ctx context.Context, issueID string, target time.Time) error
	ListComments(ctx context.Context, issueID string) ([]domain.IssueComment, error)
}

// LocationRepository supplies the selector's candidate pool and records
// audit outcomes back onto locations.
type LocationRepository interface {
	Get(ctx context.Context, locationID string) (*domain.Location, error)
	ListActive(ctx context.Context) ([]domain.Location, error)
	RecordAudit(ctx context.Context, locationID string, auditedAt time.Time, compliance decimal.Decimal) error
}

// SelectionRepository persists weekly batches. CreateBatch deactivates
// all prior active batches, creates the batch and its items in one
// transaction.
type SelectionRepository interface {
	CreateBatch(ctx context.Context, batch *domain.SelectionBatch, items []domain.SelectionItem) error
	ActiveBatch(ctx context.Context) (*domain.SelectionBatch, []domain.SelectionItem, error)
	// CompleteItemForLocation moves the active batch's Pending item for
	// the location to the given status. Returns domain.ErrNotFound when
	// the location is not part of the active batch.
	CompleteItemForLocation(ctx context.Context, locationID string, status domain.SelectionItemStatus) error
}

// SelectionCache is an optional read-through cache for the active
// batch. Implementations live in infra/cache.
type SelectionCache interface {
	Get(ctx context.Context) (*domain.SelectionBatch, []domain.SelectionItem, bool)
	Set(ctx context.Context, batch *domain.SelectionBatch, items []domain.SelectionItem)
	Invalidate(ctx context.Context)
}

// Shuffler is the selector's injectable randomness source.
// *math/rand.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}
