package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/drseanwing/trolleys/internal/domain"
)

type SelectionRepository struct {
	db *gorm.DB
}

func NewSelectionRepository(db *gorm.DB) *SelectionRepository {
	return &SelectionRepository{db: db}
}

// CreateBatch deactivates every prior batch and inserts the new batch
// with its items in one transaction, keeping at most one batch active.
func (r *SelectionRepository) CreateBatch(ctx context.Context, batch *domain.SelectionBatch, items []domain.SelectionItem) error {
	if batch.ID == "" {
		batch.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&SelectionBatchModel{}).
			Where("active = ?", true).
			Update("active", false).Error; err != nil {
			return err
		}

		batchModel := selectionBatchModelFromDomain(*batch)
		if err := tx.Create(&batchModel).Error; err != nil {
			return err
		}

		if len(items) == 0 {
			return nil
		}
		itemModels := make([]SelectionItemModel, 0, len(items))
		for i := range items {
			if items[i].ID == "" {
				items[i].ID = uuid.NewString()
			}
			items[i].BatchID = batch.ID
			itemModels = append(itemModels, selectionItemModelFromDomain(items[i]))
		}
		return tx.Create(&itemModels).Error
	})
}

func (r *SelectionRepository) ActiveBatch(ctx context.Context) (*domain.SelectionBatch, []domain.SelectionItem, error) {
	var batchModel SelectionBatchModel
	err := r.db.WithContext(ctx).
		First(&batchModel, "active = ?", true).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	var itemModels []SelectionItemModel
	if err := r.db.WithContext(ctx).
		Where("batch_id = ?", batchModel.ID).
		Order("rank ASC").
		Find(&itemModels).Error; err != nil {
		return nil, nil, err
	}

	batch := selectionBatchFromModel(batchModel)
	items := make([]domain.SelectionItem, 0, len(itemModels))
	for _, model := range itemModels {
		items = append(items, selectionItemFromModel(model))
	}
	return &batch, items, nil
}

// CompleteItemForLocation moves the active batch's pending item for the
// location to the given status. domain.ErrNotFound means the location
// is not on this week's list, which callers treat as fine.
func (r *SelectionRepository) CompleteItemForLocation(ctx context.Context, locationID string, status domain.SelectionItemStatus) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var batchModel SelectionBatchModel
		err := tx.First(&batchModel, "active = ?", true).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		if err != nil {
			return err
		}

		res := tx.Model(&SelectionItemModel{}).
			Where("batch_id = ? AND location_id = ? AND status = ?",
				batchModel.ID, locationID, string(domain.SelectionPending)).
			Update("status", string(status))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

func selectionBatchModelFromDomain(batch domain.SelectionBatch) SelectionBatchModel {
	return SelectionBatchModel{
		ID:          batch.ID,
		WeekStart:   batch.WeekStart,
		WeekEnd:     batch.WeekEnd,
		GeneratedAt: batch.GeneratedAt,
		GeneratedBy: batch.GeneratedBy,
		Criteria:    batch.Criteria,
		Active:      batch.Active,
	}
}

func selectionBatchFromModel(model SelectionBatchModel) domain.SelectionBatch {
	return domain.SelectionBatch{
		ID:          model.ID,
		WeekStart:   model.WeekStart,
		WeekEnd:     model.WeekEnd,
		GeneratedAt: model.GeneratedAt,
		GeneratedBy: model.GeneratedBy,
		Criteria:    model.Criteria,
		Active:      model.Active,
	}
}

func selectionItemModelFromDomain(item domain.SelectionItem) SelectionItemModel {
	return SelectionItemModel{
		ID:             item.ID,
		BatchID:        item.BatchID,
		LocationID:     item.LocationID,
		LocationName:   item.Location,
		ServiceLine:    item.ServiceLine,
		Rank:           item.Rank,
		PriorityScore:  item.PriorityScore,
		DaysSinceAudit: item.DaysSinceAudit,
		Status:         string(item.Status),
	}
}

func selectionItemFromModel(model SelectionItemModel) domain.SelectionItem {
	return domain.SelectionItem{
		ID:             model.ID,
		BatchID:        model.BatchID,
		LocationID:     model.LocationID,
		Location:       model.LocationName,
		ServiceLine:    model.ServiceLine,
		Rank:           model.Rank,
		PriorityScore:  model.PriorityScore,
		DaysSinceAudit: model.DaysSinceAudit,
		Status:         domain.SelectionItemStatus(model.Status),
	}
}
