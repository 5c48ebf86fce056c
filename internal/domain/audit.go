package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type AuditStatus string

const (
	AuditDraft      AuditStatus = "Draft"
	AuditInProgress AuditStatus = "InProgress"
	AuditSubmitted  AuditStatus = "Submitted"
	AuditReviewed   AuditStatus = "Reviewed"
)

type DocumentItemStatus string

const (
	DocumentCurrent       DocumentItemStatus = "Current"
	DocumentExpired       DocumentItemStatus = "Expired"
	DocumentMissing       DocumentItemStatus = "Missing"
	DocumentNotApplicable DocumentItemStatus = "N/A"
)

// DocumentCheck records the four documentation checks of an audit.
type DocumentCheck struct {
	ID                  string
	AuditID             string
	RecordStatus        DocumentItemStatus
	GuidelinesStatus    DocumentItemStatus
	PosterPresent       bool
	EquipmentListStatus DocumentItemStatus
}

// ConditionCheck records the five physical-condition flags of an audit.
type ConditionCheck struct {
	ID               string
	AuditID          string
	Clean            bool
	WorkingOrder     bool
	RubberBandsUsed  bool
	O2TubingCorrect  bool
	InhaloCylinderOK bool
	IssueType        string
	IssueDescription string
}

// RoutineCheckRecord records outside/inside check counts against the
// expected counts for the audit period.
type RoutineCheckRecord struct {
	ID                string
	AuditID           string
	OutsideCount      int
	InsideCount       int
	ExpectedOutside   int
	ExpectedInside    int
	CountNotAvailable bool
}

// AuditScores is the publish-once result of a scoring run: the four
// component scores plus the weighted overall, all 2-decimal fixed.
type AuditScores struct {
	Document  decimal.Decimal
	Equipment decimal.Decimal
	Condition decimal.Decimal
	Check     decimal.Decimal
	Overall   decimal.Decimal
}

// AuditRecord is one audit event for a location within a period. The
// section sub-records are optional until the relevant wizard step has
// been saved; the scorer tolerates their absence. Score fields stay nil
// until computed and are immutable once the audit is Submitted.
type AuditRecord struct {
	ID          string
	LocationID  string
	PeriodID    string
	AuditorName string
	Status      AuditStatus
	StartedAt   time.Time
	CompletedAt *time.Time

	DocumentScore  *decimal.Decimal
	EquipmentScore *decimal.Decimal
	ConditionScore *decimal.Decimal
	CheckScore     *decimal.Decimal
	OverallScore   *decimal.Decimal

	Documents       *DocumentCheck
	Condition       *ConditionCheck
	Checks          *RoutineCheckRecord
	EquipmentChecks []EquipmentCheckResult
}

// ApplyScores copies a scoring result onto the in-memory record.
func (a *AuditRecord) ApplyScores(s AuditScores) {
	doc, equip, cond, check, overall := s.Document, s.Equipment, s.Condition, s.Check, s.Overall
	a.DocumentScore = &doc
	a.EquipmentScore = &equip
	a.ConditionScore = &cond
	a.CheckScore = &check
	a.OverallScore = &overall
}
