package repositoryImp

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"gardencare/database"
	"gardencare/entities"
	"gardencare/pkg/task/repository"
)

var due = time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "tasks.db"))
	require.NoError(t, err)
	return db
}

func watering(planting uint, d time.Time) entities.CareTask {
	return entities.CareTask{
		GardenID: 1, PlantingID: &planting, Type: entities.TaskWatering, Title: "Water", DueDate: d,
		Priority: entities.PriorityMedium, Status: entities.StatusPending, Source: entities.SourceAutoGenerated,
	}
}

func TestCreateBatchDedup(t *testing.T) {
	repo := New(openDB(t))
	ctx := context.Background()

	first, err := repo.CreateBatch(ctx, []entities.CareTask{
		watering(1, due), watering(1, due), watering(1, due.AddDate(0, 0, 4)), watering(2, due),
	})
	require.NoError(t, err)
	assert.Len(t, first, 3, "in-batch duplicate collapsed")
	for _, task := range first {
		assert.NotZero(t, task.TaskID)
	}

	second, err := repo.CreateBatch(ctx, []entities.CareTask{watering(1, due), watering(1, due.AddDate(0, 0, 8))})
	require.NoError(t, err)
	require.Len(t, second, 1, "pending duplicate skipped")
	assert.True(t, second[0].DueDate.Equal(due.AddDate(0, 0, 8)))

	// a completed task no longer blocks a new one with the same key
	_, err = repo.Complete(ctx, first[0].TaskID, due, "", nil)
	require.NoError(t, err)
	third, err := repo.CreateBatch(ctx, []entities.CareTask{watering(1, due)})
	require.NoError(t, err)
	assert.Len(t, third, 1)
}

func TestCreateBatchDedupNullKeys(t *testing.T) {
	repo := New(openDB(t))
	ctx := context.Background()
	gardenWide := entities.CareTask{GardenID: 1, Type: entities.TaskDrainage, Title: "Drain", DueDate: due,
		Priority: entities.PriorityHigh, Status: entities.StatusPending, Source: entities.SourceAutoGenerated}

	_, err := repo.CreateBatch(ctx, []entities.CareTask{gardenWide})
	require.NoError(t, err)
	again, err := repo.CreateBatch(ctx, []entities.CareTask{gardenWide, watering(3, due)})
	require.NoError(t, err)
	require.Len(t, again, 1)
	assert.Equal(t, entities.TaskWatering, again[0].Type)
}

func TestCreateBatchIsAtomic(t *testing.T) {
	repo := New(openDB(t))
	ctx := context.Background()
	bad := watering(1, due.AddDate(0, 0, 1))
	bad.IsRecurring = true

	_, err := repo.CreateBatch(ctx, []entities.CareTask{watering(1, due), bad})
	assert.ErrorIs(t, err, entities.ErrInvalidRecurrence)

	all, err := repo.ListByGarden(ctx, 1, "")
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestListByGardenFilters(t *testing.T) {
	repo := New(openDB(t))
	ctx := context.Background()
	ts, err := repo.CreateBatch(ctx, []entities.CareTask{watering(1, due.AddDate(0, 0, 4)), watering(1, due)})
	require.NoError(t, err)
	_, err = repo.Skip(ctx, ts[0].TaskID, "rained")
	require.NoError(t, err)

	pending, err := repo.ListByGarden(ctx, 1, entities.StatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, ts[1].TaskID, pending[0].TaskID)

	all, err := repo.ListByGarden(ctx, 1, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.True(t, all[0].DueDate.Before(all[1].DueDate), "ordered by due date")

	other, err := repo.ListByGarden(ctx, 2, "")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestSkip(t *testing.T) {
	repo := New(openDB(t))
	ctx := context.Background()
	task := watering(1, due)
	require.NoError(t, repo.Create(ctx, &task))

	skipped, err := repo.Skip(ctx, task.TaskID, "rained")
	require.NoError(t, err)
	assert.Equal(t, entities.StatusSkipped, skipped.Status)
	assert.Equal(t, "rained", skipped.CompletionNote)

	_, err = repo.Skip(ctx, task.TaskID, "")
	assert.ErrorIs(t, err, repository.ErrNotPending)
	_, err = repo.Skip(ctx, 404, "")
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestDeleteLeavesChildren(t *testing.T) {
	repo := New(openDB(t))
	ctx := context.Background()
	weekly := entities.FrequencyWeekly
	parent := watering(1, due)
	parent.IsRecurring, parent.RecurrenceFrequency = true, &weekly
	require.NoError(t, repo.Create(ctx, &parent))

	c, err := repo.Complete(ctx, parent.TaskID, due, "", func(done entities.CareTask) *entities.CareTask {
		n := done
		n.TaskID, n.Status, n.CompletedAt = 0, entities.StatusPending, nil
		n.DueDate = done.DueDate.AddDate(0, 0, 7)
		n.ParentTaskID = &done.TaskID
		return &n
	})
	require.NoError(t, err)
	require.NotNil(t, c.Next)
	require.NoError(t, c.NextErr)

	require.NoError(t, repo.Delete(ctx, parent.TaskID))
	child, err := repo.FindByID(ctx, c.Next.TaskID)
	require.NoError(t, err)
	assert.Equal(t, parent.TaskID, *child.ParentTaskID)

	assert.ErrorIs(t, repo.Delete(ctx, parent.TaskID), entities.ErrNotFound)
}

func TestCompleteRecordsFollowUpValidationError(t *testing.T) {
	repo := New(openDB(t))
	ctx := context.Background()
	task := watering(1, due)
	require.NoError(t, repo.Create(ctx, &task))

	c, err := repo.Complete(ctx, task.TaskID, due, "ok", func(done entities.CareTask) *entities.CareTask {
		return &entities.CareTask{GardenID: 1, IsRecurring: true}
	})
	require.NoError(t, err)
	assert.ErrorIs(t, c.NextErr, entities.ErrInvalidRecurrence)
	assert.Nil(t, c.Next)
	assert.Equal(t, entities.StatusCompleted, c.Task.Status)
	require.NotNil(t, c.Task.CompletedAt)
}
