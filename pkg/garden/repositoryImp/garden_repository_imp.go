package repositoryImp

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"gardencare/entities"
	"gardencare/pkg/garden/repository"
)

type gardenRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.GardenRepository { return &gardenRepo{db} }

func (r *gardenRepo) Create(ctx context.Context, g *entities.Garden) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *gardenRepo) FindByID(ctx context.Context, id uint) (*entities.Garden, error) {
	var g entities.Garden
	if err := r.db.WithContext(ctx).Where("garden_id = ?", id).First(&g).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("garden %d: %w", id, entities.ErrNotFound)
		}
		return nil, err
	}
	return &g, nil
}

func (r *gardenRepo) List(ctx context.Context) ([]entities.Garden, error) {
	var out []entities.Garden
	if err := r.db.WithContext(ctx).Order("garden_id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
