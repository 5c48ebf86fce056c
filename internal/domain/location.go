package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type LocationStatus string

const (
	LocationActive         LocationStatus = "Active"
	LocationInactive       LocationStatus = "Inactive"
	LocationDecommissioned LocationStatus = "Decommissioned"
)

// ServiceLine is the organisational unit a trolley location belongs to.
// The selector balances weekly batches across service lines by name.
type ServiceLine struct {
	ID           string
	Name         string
	Abbreviation string
	ContactEmail string
	Active       bool
	CreatedAt    time.Time
}

type Location struct {
	ID             string
	ServiceLineID  string
	ServiceLine    string
	DepartmentName string
	DisplayName    string
	Building       string
	Level          string

	LastAuditDate       *time.Time
	LastAuditCompliance *decimal.Decimal

	Status             LocationStatus
	StatusChangeReason string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
