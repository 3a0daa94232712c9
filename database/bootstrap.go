package database

import (
	"fmt"
	"strings"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gardencare/entities"
)

// Models is every table the service owns, in migration order.
var Models = []any{
	&entities.Garden{},
	&entities.PlantVarietyProfile{},
	&entities.PlantingEvent{},
	&entities.SeedBatch{},
	&entities.SoilSample{},
	&entities.SensorReading{},
	&entities.IrrigationEvent{},
	&entities.CareTask{},
	&entities.FeatureFlag{},
}

func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
}

// OpenSQLite opens (or creates) the database at path and migrates the schema.
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn(path)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if err := db.AutoMigrate(Models...); err != nil {
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	return db, nil
}
