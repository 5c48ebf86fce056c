package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/drseanwing/trolleys/internal/domain"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// GetAudit loads the audit with whichever section sub-records exist.
// Sections the wizard has not saved yet come back nil.
func (r *AuditRepository) GetAudit(ctx context.Context, auditID string) (*domain.AuditRecord, error) {
	var model AuditModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", auditID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	audit := auditFromModel(model)

	var doc DocumentCheckModel
	err = r.db.WithContext(ctx).First(&doc, "audit_id = ?", auditID).Error
	if err == nil {
		d := documentCheckFromModel(doc)
		audit.Documents = &d
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var cond ConditionCheckModel
	err = r.db.WithContext(ctx).First(&cond, "audit_id = ?", auditID).Error
	if err == nil {
		c := conditionCheckFromModel(cond)
		audit.Condition = &c
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var checks RoutineCheckModel
	err = r.db.WithContext(ctx).First(&checks, "audit_id = ?", auditID).Error
	if err == nil {
		c := routineCheckFromModel(checks)
		audit.Checks = &c
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var equipment []AuditEquipmentModel
	if err := r.db.WithContext(ctx).
		Where("audit_id = ?", auditID).
		Find(&equipment).Error; err != nil {
		return nil, err
	}
	for _, item := range equipment {
		audit.EquipmentChecks = append(audit.EquipmentChecks, equipmentCheckFromModel(item))
	}

	return &audit, nil
}

// PublishScores writes the four component scores and the overall score
// in one statement so readers never observe a partial result.
func (r *AuditRepository) PublishScores(ctx context.Context, auditID string, scores domain.AuditScores) error {
	res := r.db.WithContext(ctx).
		Model(&AuditModel{}).
		Where("id = ?", auditID).
		Updates(map[string]any{
			"document_score":  scores.Document,
			"equipment_score": scores.Equipment,
			"condition_score": scores.Condition,
			"check_score":     scores.Check,
			"overall_score":   scores.Overall,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkSubmitted freezes the audit. The status guard in the WHERE clause
// makes a concurrent double submit lose cleanly.
func (r *AuditRepository) MarkSubmitted(ctx context.Context, auditID string, completedAt time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&AuditModel{}).
		Where("id = ? AND status NOT IN ?", auditID,
			[]string{string(domain.AuditSubmitted), string(domain.AuditReviewed)}).
		Updates(map[string]any{
			"status":       string(domain.AuditSubmitted),
			"completed_at": completedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&AuditModel{}).
			Where("id = ?", auditID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domain.ErrNotFound
		}
		return domain.ErrAuditSubmitted
	}
	return nil
}

func auditFromModel(model AuditModel) domain.AuditRecord {
	return domain.AuditRecord{
		ID:             model.ID,
		LocationID:     model.LocationID,
		PeriodID:       model.PeriodID,
		AuditorName:    model.AuditorName,
		Status:         domain.AuditStatus(model.Status),
		StartedAt:      model.StartedAt,
		CompletedAt:    model.CompletedAt,
		DocumentScore:  model.DocumentScore,
		EquipmentScore: model.EquipmentScore,
		ConditionScore: model.ConditionScore,
		CheckScore:     model.CheckScore,
		OverallScore:   model.OverallScore,
	}
}

func documentCheckFromModel(model DocumentCheckModel) domain.DocumentCheck {
	return domain.DocumentCheck{
		ID:                  model.ID,
		AuditID:             model.AuditID,
		RecordStatus:        domain.DocumentItemStatus(model.RecordStatus),
		GuidelinesStatus:    domain.DocumentItemStatus(model.GuidelinesStatus),
		PosterPresent:       model.PosterPresent,
		EquipmentListStatus: domain.DocumentItemStatus(model.EquipmentListStatus),
	}
}

func conditionCheckFromModel(model ConditionCheckModel) domain.ConditionCheck {
	return domain.ConditionCheck{
		ID:               model.ID,
		AuditID:          model.AuditID,
		Clean:            model.Clean,
		WorkingOrder:     model.WorkingOrder,
		RubberBandsUsed:  model.RubberBandsUsed,
		O2TubingCorrect:  model.O2TubingCorrect,
		InhaloCylinderOK: model.InhaloCylinderOK,
		IssueType:        model.IssueType,
		IssueDescription: model.IssueDescription,
	}
}

func routineCheckFromModel(model RoutineCheckModel) domain.RoutineCheckRecord {
	return domain.RoutineCheckRecord{
		ID:                model.ID,
		AuditID:           model.AuditID,
		OutsideCount:      model.OutsideCount,
		InsideCount:       model.InsideCount,
		ExpectedOutside:   model.ExpectedOutside,
		ExpectedInside:    model.ExpectedInside,
		CountNotAvailable: model.CountNotAvailable,
	}
}

func equipmentCheckFromModel(model AuditEquipmentModel) domain.EquipmentCheckResult {
	return domain.EquipmentCheckResult{
		ID:                  model.ID,
		AuditID:             model.AuditID,
		EquipmentID:         model.EquipmentID,
		Present:             model.Present,
		QuantityFound:       model.QuantityFound,
		QuantityExpected:    model.QuantityExpected,
		ExpiryOK:            model.ExpiryOK,
		Notes:               model.Notes,
		Critical:            model.Critical,
		RequiresExpiryCheck: model.RequiresExpiryCheck,
	}
}
