package repositoryImp

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"gardencare/entities"
	"gardencare/pkg/planting/repository"
)

type plantingRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.PlantingRepository { return &plantingRepo{db} }

func (r *plantingRepo) Create(ctx context.Context, p *entities.PlantingEvent) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *plantingRepo) FindByID(ctx context.Context, id uint) (*entities.PlantingEvent, error) {
	var p entities.PlantingEvent
	if err := r.db.WithContext(ctx).Where("planting_id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("planting %d: %w", id, entities.ErrNotFound)
		}
		return nil, err
	}
	return &p, nil
}

func (r *plantingRepo) ListByGarden(ctx context.Context, gardenID uint) ([]entities.PlantingEvent, error) {
	var out []entities.PlantingEvent
	if err := r.db.WithContext(ctx).Where("garden_id = ?", gardenID).Order("planting_id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *plantingRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("planting_id = ?", id).Delete(&entities.PlantingEvent{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("planting %d: %w", id, entities.ErrNotFound)
		}
		return tx.Where("planting_id = ?", id).Delete(&entities.CareTask{}).Error
	})
}
