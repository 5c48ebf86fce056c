package domain

import "time"

// Equipment is a catalog item from the trolley equipment list. Critical
// and RequiresExpiryCheck drive the weighting and pass rules of the
// equipment score; the catalog owns them and the scorer only reads them.
type Equipment struct {
	ID               string
	CategoryID       string
	ItemName         string
	ShortName        string
	StandardQuantity int

	RequiresExpiryCheck bool
	Critical            bool

	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EquipmentCheckResult is one per-audit, per-item observation.
type EquipmentCheckResult struct {
	ID          string
	AuditID     string
	EquipmentID string

	Present          bool
	QuantityFound    int
	QuantityExpected int
	ExpiryOK         bool
	Notes            string

	// Snapshot of the catalog flags at check time.
	Critical            bool
	RequiresExpiryCheck bool
}

// Passes reports whether this item counts as compliant: present, found
// at least the expected quantity, and in date when expiry tracking
// applies.
func (r EquipmentCheckResult) Passes() bool {
	passes := r.Present && r.QuantityFound >= r.QuantityExpected
	if r.RequiresExpiryCheck {
		passes = passes && r.ExpiryOK
	}
	return passes
}
