package repository

import (
	"context"

	"gardencare/entities"
)

type VarietyRepository interface {
	FindByID(ctx context.Context, id uint) (*entities.PlantVarietyProfile, error)
	FindByIDs(ctx context.Context, ids []uint) (map[uint]entities.PlantVarietyProfile, error)
	List(ctx context.Context) ([]entities.PlantVarietyProfile, error)
	// Upsert inserts or refreshes profiles keyed by name.
	Upsert(ctx context.Context, vs []entities.PlantVarietyProfile) error
}
