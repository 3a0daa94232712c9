package repository

import (
	"context"

	"gardencare/entities"
)

type PlantingRepository interface {
	Create(ctx context.Context, p *entities.PlantingEvent) error
	FindByID(ctx context.Context, id uint) (*entities.PlantingEvent, error)
	ListByGarden(ctx context.Context, gardenID uint) ([]entities.PlantingEvent, error)
	// Delete removes the planting together with its care tasks.
	Delete(ctx context.Context, id uint) error
}
