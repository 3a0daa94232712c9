package repositoryImp

import (
	"context"

	"gorm.io/gorm"

	"gardencare/entities"
	"gardencare/pkg/seedbatch/repository"
)

type seedBatchRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.SeedBatchRepository { return &seedBatchRepo{db} }

func (r *seedBatchRepo) Create(ctx context.Context, b *entities.SeedBatch) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *seedBatchRepo) ListByGarden(ctx context.Context, gardenID uint) ([]entities.SeedBatch, error) {
	var out []entities.SeedBatch
	if err := r.db.WithContext(ctx).Where("garden_id = ?", gardenID).Order("batch_id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
