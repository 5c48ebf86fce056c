package domain

import "time"

type IssueSeverity string

const (
	SeverityCritical IssueSeverity = "Critical"
	SeverityHigh     IssueSeverity = "High"
	SeverityMedium   IssueSeverity = "Medium"
	SeverityLow      IssueSeverity = "Low"
)

type IssueStatus string

const (
	IssueOpen                IssueStatus = "Open"
	IssueAssigned            IssueStatus = "Assigned"
	IssueInProgress          IssueStatus = "InProgress"
	IssuePendingVerification IssueStatus = "PendingVerification"
	IssueResolved            IssueStatus = "Resolved"
	IssueClosed              IssueStatus = "Closed"
	IssueEscalated           IssueStatus = "Escalated"
)

// Issue is a defect raised against a trolley location. All
// status-affecting mutations go through the workflow service.
type Issue struct {
	ID         string
	Number     string
	LocationID string
	AuditID    string
	Category   string
	Severity   IssueSeverity
	Status     IssueStatus

	Title       string
	Description string

	ReportedBy string
	ReportedAt time.Time

	AssignedTo string
	AssignedAt *time.Time

	TargetResolutionDate *time.Time

	ResolutionSummary string
	ResolvedAt        *time.Time
	VerifiedBy        string
	ClosedAt          *time.Time

	ReopenCount     int
	EscalationLevel int
}

// IssueComment is one entry of the issue's append-only audit trail.
// Transition comments are internal; the workflow never edits or
// deletes them.
type IssueComment struct {
	ID        string
	IssueID   string
	Text      string
	Author    string
	Internal  bool
	CreatedAt time.Time
}
