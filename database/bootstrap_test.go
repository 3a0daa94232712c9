package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLiteMigrates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garden.db")
	db, err := OpenSQLite(path)
	require.NoError(t, err)

	for _, table := range []string{"gardens", "planting_events", "plant_variety_profiles", "seed_batches",
		"soil_samples", "sensor_readings", "irrigation_events", "care_tasks", "feature_flags"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}

	// reopening an existing file is a no-op migration
	_, err = OpenSQLite(path)
	require.NoError(t, err)
}
