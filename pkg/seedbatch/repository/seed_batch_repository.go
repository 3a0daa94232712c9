package repository

import (
	"context"

	"gardencare/entities"
)

type SeedBatchRepository interface {
	Create(ctx context.Context, b *entities.SeedBatch) error
	ListByGarden(ctx context.Context, gardenID uint) ([]entities.SeedBatch, error)
}
