package repositoryImp

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gardencare/database"
	"gardencare/entities"
)

func TestUpsertByName(t *testing.T) {
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "v.db"))
	require.NoError(t, err)
	repo := New(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, []entities.PlantVarietyProfile{
		{Name: "Genovese", Species: "basil", DaysToHarvest: 60, WaterRequirement: entities.WaterMedium},
		{Name: "Nantes", Species: "carrot", DaysToHarvest: 70, WaterRequirement: entities.WaterLow},
	}))
	require.NoError(t, repo.Upsert(ctx, []entities.PlantVarietyProfile{
		{Name: "Genovese", Species: "basil", DaysToHarvest: 55, WaterRequirement: entities.WaterHigh,
			StageRanges: []entities.StageRange{{Stage: "germination"}}},
	}))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Genovese", all[0].Name)
	assert.Equal(t, 55, all[0].DaysToHarvest)
	assert.Equal(t, entities.WaterHigh, all[0].WaterRequirement)
	require.Len(t, all[0].StageRanges, 1)

	byID, err := repo.FindByIDs(ctx, []uint{all[1].VarietyID, 999})
	require.NoError(t, err)
	assert.Len(t, byID, 1)
	assert.Equal(t, "Nantes", byID[all[1].VarietyID].Name)

	_, err = repo.FindByID(ctx, 999)
	assert.ErrorIs(t, err, entities.ErrNotFound)
}
