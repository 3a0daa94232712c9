package repositoryImp

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gardencare/entities"
	"gardencare/pkg/catalog/repository"
)

type varietyRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.VarietyRepository { return &varietyRepo{db} }

func (r *varietyRepo) FindByID(ctx context.Context, id uint) (*entities.PlantVarietyProfile, error) {
	var v entities.PlantVarietyProfile
	if err := r.db.WithContext(ctx).Where("variety_id = ?", id).First(&v).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("variety %d: %w", id, entities.ErrNotFound)
		}
		return nil, err
	}
	return &v, nil
}

func (r *varietyRepo) FindByIDs(ctx context.Context, ids []uint) (map[uint]entities.PlantVarietyProfile, error) {
	out := make(map[uint]entities.PlantVarietyProfile, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var vs []entities.PlantVarietyProfile
	if err := r.db.WithContext(ctx).Where("variety_id IN ?", ids).Find(&vs).Error; err != nil {
		return nil, err
	}
	for _, v := range vs {
		out[v.VarietyID] = v
	}
	return out, nil
}

func (r *varietyRepo) List(ctx context.Context) ([]entities.PlantVarietyProfile, error) {
	var out []entities.PlantVarietyProfile
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *varietyRepo) Upsert(ctx context.Context, vs []entities.PlantVarietyProfile) error {
	if len(vs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"species", "germination_days_min", "germination_days_max", "days_to_harvest", "spacing_cm",
			"water_requirement", "sun_requirement", "ph_min", "ph_max", "ec_min", "ec_max", "stage_ranges", "updated_at",
		}),
	}).Create(&vs).Error
}
