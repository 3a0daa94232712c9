package repository

import (
	"context"

	"gardencare/entities"
)

type GardenRepository interface {
	Create(ctx context.Context, g *entities.Garden) error
	FindByID(ctx context.Context, id uint) (*entities.Garden, error)
	List(ctx context.Context) ([]entities.Garden, error)
}
