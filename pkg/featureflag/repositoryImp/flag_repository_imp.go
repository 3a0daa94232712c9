package repositoryImp

import (
	"context"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gardencare/entities"
	"gardencare/pkg/featureflag/repository"
)

type flagRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.FlagRepository { return &flagRepo{db} }

func (r *flagRepo) List(ctx context.Context) ([]entities.FeatureFlag, error) {
	var out []entities.FeatureFlag
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *flagRepo) Set(ctx context.Context, name string, enabled bool) error {
	f := entities.FeatureFlag{Name: name, Enabled: enabled}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"enabled", "updated_at"}),
	}).Create(&f).Error
}

func (r *flagRepo) EnsureDefaults(ctx context.Context, defaults map[string]bool) error {
	if len(defaults) == 0 {
		return nil
	}
	names := make([]string, 0, len(defaults))
	for n := range defaults {
		names = append(names, n)
	}
	sort.Strings(names)
	rows := make([]entities.FeatureFlag, 0, len(names))
	for _, n := range names {
		rows = append(rows, entities.FeatureFlag{Name: n, Enabled: defaults[n]})
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}
