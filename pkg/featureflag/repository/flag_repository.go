package repository

import (
	"context"

	"gardencare/entities"
)

type FlagRepository interface {
	List(ctx context.Context) ([]entities.FeatureFlag, error)
	Set(ctx context.Context, name string, enabled bool) error
	// EnsureDefaults inserts flags that have no row yet; existing rows are untouched.
	EnsureDefaults(ctx context.Context, defaults map[string]bool) error
}
