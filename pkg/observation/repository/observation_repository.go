package repository

import (
	"context"
	"time"

	"gardencare/entities"
)

// ObservationRepository is append-only: there is no update or delete.
type ObservationRepository interface {
	CreateSoilSample(ctx context.Context, s *entities.SoilSample) error
	CreateSensorReading(ctx context.Context, r *entities.SensorReading) error
	CreateIrrigation(ctx context.Context, e *entities.IrrigationEvent) error

	SoilSamplesSince(ctx context.Context, gardenID uint, since time.Time) ([]entities.SoilSample, error)
	SensorReadingsSince(ctx context.Context, gardenID uint, since time.Time) ([]entities.SensorReading, error)
	IrrigationsSince(ctx context.Context, gardenID uint, since time.Time) ([]entities.IrrigationEvent, error)
}
