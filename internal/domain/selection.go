package domain

import "time"

type SelectionItemStatus string

const (
	SelectionPending   SelectionItemStatus = "Pending"
	SelectionCompleted SelectionItemStatus = "Completed"
	SelectionSkipped   SelectionItemStatus = "Skipped"
)

// SelectionBatch is one week's random audit sample. At most one batch
// is active system-wide; generating a new batch deactivates the rest.
type SelectionBatch struct {
	ID          string
	WeekStart   time.Time
	WeekEnd     time.Time
	GeneratedAt time.Time
	GeneratedBy string
	Criteria    string
	Active      bool
}

// SelectionItem is a ranked location within a batch. Rank, score and
// days-since-audit are frozen at generation time; only Status moves,
// to Completed or Skipped, once the linked audit is dealt with.
type SelectionItem struct {
	ID             string
	BatchID        string
	LocationID     string
	Location       string
	ServiceLine    string
	Rank           int
	PriorityScore  int
	DaysSinceAudit *int
	Status         SelectionItemStatus
}
