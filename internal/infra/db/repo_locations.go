package db

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/drseanwing/trolleys/internal/domain"
)

type LocationRepository struct {
	db *gorm.DB
}

func NewLocationRepository(db *gorm.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

func (r *LocationRepository) Get(ctx context.Context, locationID string) (*domain.Location, error) {
	var model LocationModel
	err := r.db.WithContext(ctx).
		First(&model, "id = ?", locationID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	loc, err := r.locationFromModel(ctx, model)
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

func (r *LocationRepository) ListActive(ctx context.Context) ([]domain.Location, error) {
	var models []LocationModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", string(domain.LocationActive)).
		Order("display_name ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}

	lines, err := r.serviceLineNames(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Location, 0, len(models))
	for _, model := range models {
		out = append(out, locationFromModel(model, lines[model.ServiceLineID]))
	}
	return out, nil
}

func (r *LocationRepository) RecordAudit(ctx context.Context, locationID string, auditedAt time.Time, compliance decimal.Decimal) error {
	res := r.db.WithContext(ctx).
		Model(&LocationModel{}).
		Where("id = ?", locationID).
		Updates(map[string]any{
			"last_audit_date":       auditedAt,
			"last_audit_compliance": compliance,
			"updated_at":            time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *LocationRepository) locationFromModel(ctx context.Context, model LocationModel) (domain.Location, error) {
	var line ServiceLineModel
	err := r.db.WithContext(ctx).
		First(&line, "id = ?", model.ServiceLineID).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Location{}, err
	}
	return locationFromModel(model, line.Name), nil
}

func (r *LocationRepository) serviceLineNames(ctx context.Context) (map[string]string, error) {
	var lines []ServiceLineModel
	if err := r.db.WithContext(ctx).Find(&lines).Error; err != nil {
		return nil, err
	}
	names := make(map[string]string, len(lines))
	for _, line := range lines {
		names[line.ID] = line.Name
	}
	return names, nil
}

func locationFromModel(model LocationModel, serviceLine string) domain.Location {
	return domain.Location{
		ID:                  model.ID,
		ServiceLineID:       model.ServiceLineID,
		ServiceLine:         serviceLine,
		DepartmentName:      model.DepartmentName,
		DisplayName:         model.DisplayName,
		Building:            model.Building,
		Level:               model.Level,
		LastAuditDate:       model.LastAuditDate,
		LastAuditCompliance: model.LastAuditCompliance,
		Status:              domain.LocationStatus(model.Status),
		StatusChangeReason:  model.StatusChangeReason,
		CreatedAt:           model.CreatedAt,
		UpdatedAt:           model.UpdatedAt,
	}
}
