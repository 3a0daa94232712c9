package repositoryImp

import (
	"context"
	"time"

	"gorm.io/gorm"

	"gardencare/entities"
	"gardencare/pkg/observation/repository"
)

type observationRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.ObservationRepository { return &observationRepo{db} }

func (r *observationRepo) CreateSoilSample(ctx context.Context, s *entities.SoilSample) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *observationRepo) CreateSensorReading(ctx context.Context, rd *entities.SensorReading) error {
	return r.db.WithContext(ctx).Create(rd).Error
}

func (r *observationRepo) CreateIrrigation(ctx context.Context, e *entities.IrrigationEvent) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *observationRepo) SoilSamplesSince(ctx context.Context, gardenID uint, since time.Time) ([]entities.SoilSample, error) {
	var out []entities.SoilSample
	err := r.db.WithContext(ctx).
		Where("garden_id = ? AND sampled_at >= ?", gardenID, since).
		Order("sampled_at ASC, sample_id ASC").Find(&out).Error
	return out, err
}

func (r *observationRepo) SensorReadingsSince(ctx context.Context, gardenID uint, since time.Time) ([]entities.SensorReading, error) {
	var out []entities.SensorReading
	err := r.db.WithContext(ctx).
		Where("garden_id = ? AND recorded_at >= ?", gardenID, since).
		Order("recorded_at ASC, reading_id ASC").Find(&out).Error
	return out, err
}

func (r *observationRepo) IrrigationsSince(ctx context.Context, gardenID uint, since time.Time) ([]entities.IrrigationEvent, error) {
	var out []entities.IrrigationEvent
	err := r.db.WithContext(ctx).
		Where("garden_id = ? AND irrigated_at >= ?", gardenID, since).
		Order("irrigated_at ASC, irrigation_id ASC").Find(&out).Error
	return out, err
}
