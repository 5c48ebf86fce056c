package db

import (
	"time"

	"github.com/shopspring/decimal"
)

type ServiceLineModel struct {
	ID           string    `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"uniqueIndex;not null"`
	Abbreviation string    `gorm:"not null"`
	ContactEmail string
	Active       bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time `gorm:"not null"`
}

func (ServiceLineModel) TableName() string {
	return "service_lines"
}

type LocationModel struct {
	ID             string `gorm:"type:uuid;primaryKey"`
	ServiceLineID  string `gorm:"type:uuid;index;not null"`
	DepartmentName string `gorm:"not null"`
	DisplayName    string `gorm:"not null"`
	Building       string
	Level          string

	LastAuditDate       *time.Time
	LastAuditCompliance *decimal.Decimal `gorm:"type:decimal(5,2)"`

	Status             string `gorm:"index;not null"`
	StatusChangeReason string
	CreatedAt          time.Time `gorm:"not null"`
	UpdatedAt          time.Time `gorm:"not null"`
}

func (LocationModel) TableName() string {
	return "trolley_locations"
}

type EquipmentModel struct {
	ID               string `gorm:"type:uuid;primaryKey"`
	CategoryID       string `gorm:"type:uuid;index"`
	ItemName         string `gorm:"not null"`
	ShortName        string
	StandardQuantity int    `gorm:"not null;default:1"`

	RequiresExpiryCheck bool `gorm:"not null"`
	Critical            bool `gorm:"not null"`

	Active    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (EquipmentModel) TableName() string {
	return "equipment_items"
}

type AuditModel struct {
	ID          string `gorm:"type:uuid;primaryKey"`
	LocationID  string `gorm:"type:uuid;index;not null"`
	PeriodID    string `gorm:"type:uuid;index"`
	AuditorName string
	Status      string    `gorm:"index;not null"`
	StartedAt   time.Time `gorm:"not null"`
	CompletedAt *time.Time

	DocumentScore  *decimal.Decimal `gorm:"type:decimal(5,2)"`
	EquipmentScore *decimal.Decimal `gorm:"type:decimal(5,2)"`
	ConditionScore *decimal.Decimal `gorm:"type:decimal(5,2)"`
	CheckScore     *decimal.Decimal `gorm:"type:decimal(5,2)"`
	OverallScore   *decimal.Decimal `gorm:"type:decimal(5,2)"`
}

func (AuditModel) TableName() string {
	return "audits"
}

type DocumentCheckModel struct {
	ID                  string `gorm:"type:uuid;primaryKey"`
	AuditID             string `gorm:"type:uuid;uniqueIndex;not null"`
	RecordStatus        string `gorm:"not null"`
	GuidelinesStatus    string `gorm:"not null"`
	PosterPresent       bool   `gorm:"not null"`
	EquipmentListStatus string `gorm:"not null"`
}

func (DocumentCheckModel) TableName() string {
	return "audit_document_checks"
}

type ConditionCheckModel struct {
	ID               string `gorm:"type:uuid;primaryKey"`
	AuditID          string `gorm:"type:uuid;uniqueIndex;not null"`
	Clean            bool   `gorm:"not null"`
	WorkingOrder     bool   `gorm:"not null"`
	RubberBandsUsed  bool   `gorm:"not null"`
	O2TubingCorrect  bool   `gorm:"column:o2_tubing_correct;not null"`
	InhaloCylinderOK bool   `gorm:"column:inhalo_cylinder_ok;not null"`
	IssueType        string
	IssueDescription string
}

func (ConditionCheckModel) TableName() string {
	return "audit_condition_checks"
}

type RoutineCheckModel struct {
	ID                string `gorm:"type:uuid;primaryKey"`
	AuditID           string `gorm:"type:uuid;uniqueIndex;not null"`
	OutsideCount      int    `gorm:"not null"`
	InsideCount       int    `gorm:"not null"`
	ExpectedOutside   int    `gorm:"not null"`
	ExpectedInside    int    `gorm:"not null"`
	CountNotAvailable bool   `gorm:"not null"`
}

func (RoutineCheckModel) TableName() string {
	return "audit_routine_checks"
}

type AuditEquipmentModel struct {
	ID          string `gorm:"type:uuid;primaryKey"`
	AuditID     string `gorm:"type:uuid;index;not null"`
	EquipmentID string `gorm:"type:uuid;index;not null"`

	Present          bool `gorm:"not null"`
	QuantityFound    int  `gorm:"not null"`
	QuantityExpected int  `gorm:"not null"`
	ExpiryOK         bool `gorm:"column:expiry_ok;not null"`
	Notes            string

	Critical            bool `gorm:"not null"`
	RequiresExpiryCheck bool `gorm:"not null"`
}

func (AuditEquipmentModel) TableName() string {
	return "audit_equipment_checks"
}

type IssueModel struct {
	ID         string `gorm:"type:uuid;primaryKey"`
	Number     string `gorm:"uniqueIndex;not null"`
	LocationID string `gorm:"type:uuid;index"`
	AuditID    string `gorm:"type:uuid;index"`
	Category   string
	Severity   string `gorm:"index;not null"`
	Status     string `gorm:"index;not null"`

	Title       string `gorm:"not null"`
	Description string

	ReportedBy string
	ReportedAt time.Time `gorm:"not null"`

	AssignedTo string
	AssignedAt *time.Time

	TargetResolutionDate *time.Time

	ResolutionSummary string
	ResolvedAt        *time.Time
	VerifiedBy        string
	ClosedAt          *time.Time

	ReopenCount     int `gorm:"not null"`
	EscalationLevel int `gorm:"not null"`
}

func (IssueModel) TableName() string {
	return "issues"
}

type IssueCommentModel struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	IssueID   string    `gorm:"type:uuid;index;not null"`
	Text      string    `gorm:"not null"`
	Author    string
	Internal  bool      `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (IssueCommentModel) TableName() string {
	return "issue_comments"
}

type SelectionBatchModel struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	WeekStart   time.Time `gorm:"index;not null"`
	WeekEnd     time.Time `gorm:"not null"`
	GeneratedAt time.Time `gorm:"not null"`
	GeneratedBy string
	Criteria    string
	Active      bool `gorm:"index;not null"`
}

func (SelectionBatchModel) TableName() string {
	return "selection_batches"
}

type SelectionItemModel struct {
	ID             string `gorm:"type:uuid;primaryKey"`
	BatchID        string `gorm:"type:uuid;index;not null"`
	LocationID     string `gorm:"type:uuid;index;not null"`
	LocationName   string
	ServiceLine    string
	Rank           int    `gorm:"not null"`
	PriorityScore  int    `gorm:"not null"`
	DaysSinceAudit *int
	Status         string `gorm:"index;not null"`
}

func (SelectionItemModel) TableName() string {
	return "selection_items"
}
