package serviceImp

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"gardencare/database"
	"gardencare/entities"
	catalogRepo "gardencare/pkg/catalog/repositoryImp"
	gardenRepo "gardencare/pkg/garden/repositoryImp"
	obsRepo "gardencare/pkg/observation/repositoryImp"
	plantingRepo "gardencare/pkg/planting/repositoryImp"
	"gardencare/pkg/rulecontext"
	"gardencare/pkg/rules"
	taskRepo "gardencare/pkg/task/repository"
	taskRepoImp "gardencare/pkg/task/repositoryImp"
)

type staticFlags map[string]bool

func (f staticFlags) Enabled(name string) bool {
	on, ok := f[name]
	return !ok || on
}

type fixture struct {
	db      *gorm.DB
	garden  entities.Garden
	variety entities.PlantVarietyProfile
	builder *rulecontext.Builder
	tasks   taskRepo.TaskRepository
	now     time.Time
}

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "gen.db"))
	require.NoError(t, err)
	ctx := context.Background()

	g := entities.Garden{Name: "Backyard"}
	require.NoError(t, gardenRepo.New(db).Create(ctx, &g))
	v := entities.PlantVarietyProfile{
		Name: "Roma", Species: "tomato", GerminationDaysMin: 5, GerminationDaysMax: 10,
		DaysToHarvest: 80, WaterRequirement: entities.WaterMedium,
	}
	vr := catalogRepo.New(db)
	require.NoError(t, vr.Upsert(ctx, []entities.PlantVarietyProfile{v}))
	all, err := vr.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	f := &fixture{db: db, garden: g, variety: all[0], tasks: taskRepoImp.New(db), now: now}
	f.builder = rulecontext.NewBuilder(gardenRepo.New(db), plantingRepo.New(db), vr, obsRepo.New(db), nil,
		rulecontext.WithClock(func() time.Time { return f.now }))
	return f
}

func (f *fixture) plant(t *testing.T, date time.Time, health entities.HealthStatus) entities.PlantingEvent {
	t.Helper()
	p := entities.PlantingEvent{GardenID: f.garden.GardenID, VarietyID: f.variety.VarietyID, PlantingDate: date, PlantCount: 6, HealthStatus: health}
	require.NoError(t, plantingRepo.New(f.db).Create(context.Background(), &p))
	return p
}

func TestOnPlantingCreated_ScenarioA(t *testing.T) {
	f := newFixture(t, day("2026-01-01").Add(10*time.Hour))
	p := f.plant(t, day("2026-01-01"), entities.HealthHealthy)
	svc := New(f.builder, nil, f.tasks, staticFlags{}, nil, nil)

	out, err := svc.OnPlantingCreated(context.Background(), p.PlantingID)
	require.NoError(t, err)
	require.Len(t, out.Tasks, 5)
	assert.Len(t, out.TaskIDs(), 5)

	stored, err := f.tasks.ListByGarden(context.Background(), f.garden.GardenID, entities.StatusPending)
	require.NoError(t, err)
	require.Len(t, stored, 5)

	var harvest, water int
	for _, task := range stored {
		assert.Equal(t, entities.SourceAutoGenerated, task.Source)
		require.NotNil(t, task.PlantingID)
		assert.Equal(t, p.PlantingID, *task.PlantingID)
		switch task.Type {
		case entities.TaskHarvest:
			harvest++
			assert.True(t, task.DueDate.Equal(day("2026-03-22")))
			assert.Equal(t, entities.PriorityHigh, task.Priority)
		case entities.TaskWatering:
			water++
			assert.Equal(t, entities.PriorityMedium, task.Priority)
		}
	}
	assert.Equal(t, 1, harvest)
	assert.Equal(t, 4, water)

	// running the same trigger again does not duplicate pending tasks
	again, err := svc.OnPlantingCreated(context.Background(), p.PlantingID)
	require.NoError(t, err)
	assert.Empty(t, again.Tasks)
}

func TestOnPlantingCreated_Disabled(t *testing.T) {
	f := newFixture(t, day("2026-01-01"))
	p := f.plant(t, day("2026-01-01"), entities.HealthHealthy)
	svc := New(f.builder, nil, f.tasks, staticFlags{"task_generator": false}, nil, nil)

	out, err := svc.OnPlantingCreated(context.Background(), p.PlantingID)
	require.NoError(t, err)
	assert.True(t, out.Disabled)
	assert.Empty(t, out.Tasks)

	stored, err := f.tasks.ListByGarden(context.Background(), f.garden.GardenID, "")
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestOnPlantingCreated_FaultyPlanting(t *testing.T) {
	f := newFixture(t, day("2026-01-01"))
	p := f.plant(t, day("2026-01-01"), entities.HealthHealthy)
	require.NoError(t, f.db.Model(&entities.PlantingEvent{}).Where("planting_id = ?", p.PlantingID).
		Update("plant_count", -3).Error)

	out, err := New(f.builder, nil, f.tasks, nil, nil, nil).OnPlantingCreated(context.Background(), p.PlantingID)
	require.NoError(t, err)
	assert.Empty(t, out.Tasks)
	require.Len(t, out.Faults, 1)
	assert.Equal(t, "planting", out.Faults[0].Entity)
}

func TestOnPlantingCreated_UnknownPlanting(t *testing.T) {
	f := newFixture(t, day("2026-01-01"))
	_, err := New(f.builder, nil, f.tasks, nil, nil, nil).OnPlantingCreated(context.Background(), 999)
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

type failingTasks struct {
	taskRepo.TaskRepository
	batches int
}

func (f *failingTasks) CreateBatch(context.Context, []entities.CareTask) ([]entities.CareTask, error) {
	f.batches++
	return nil, errors.New("disk full")
}

func TestOnPlantingCreated_WritesOneBatch(t *testing.T) {
	f := newFixture(t, day("2026-01-01"))
	p := f.plant(t, day("2026-01-01"), entities.HealthHealthy)
	tasks := &failingTasks{}

	_, err := New(f.builder, nil, tasks, nil, nil, nil).OnPlantingCreated(context.Background(), p.PlantingID)
	require.Error(t, err)
	assert.Equal(t, 1, tasks.batches)
}

// Scenario C: a three-year-old batch gets a single low-priority test task.
func TestOnSeedBatchCreated(t *testing.T) {
	f := newFixture(t, day("2026-05-10").Add(8*time.Hour))
	svc := New(f.builder, nil, f.tasks, nil, nil, nil)

	old := entities.SeedBatch{BatchID: 7, GardenID: f.garden.GardenID, VarietyID: f.variety.VarietyID, HarvestYear: 2023}
	out, err := svc.OnSeedBatchCreated(context.Background(), old)
	require.NoError(t, err)
	require.Len(t, out.Tasks, 1)
	task := out.Tasks[0]
	assert.Equal(t, entities.TaskSeedViability, task.Type)
	assert.Equal(t, entities.PriorityLow, task.Priority)
	assert.True(t, task.DueDate.Equal(day("2026-05-10")))
	require.NotNil(t, task.SeedBatchID)
	assert.Equal(t, uint(7), *task.SeedBatchID)
	assert.Nil(t, task.PlantingID)

	fresh := entities.SeedBatch{BatchID: 8, GardenID: f.garden.GardenID, HarvestYear: 2025}
	out, err = svc.OnSeedBatchCreated(context.Background(), fresh)
	require.NoError(t, err)
	assert.Empty(t, out.Tasks)
}

func (f *fixture) record(t *testing.T, at time.Time, moisture float64) entities.SensorReading {
	t.Helper()
	r := entities.SensorReading{GardenID: f.garden.GardenID, RecordedAt: at, MoisturePct: &moisture}
	require.NoError(t, obsRepo.New(f.db).CreateSensorReading(context.Background(), &r))
	return r
}

func TestOnSensorReading(t *testing.T) {
	f := newFixture(t, day("2026-04-02").Add(7*time.Hour))
	f.plant(t, day("2026-03-01"), entities.HealthHealthy)
	moisture, temp := 9.0, 30.0
	r := entities.SensorReading{GardenID: f.garden.GardenID, RecordedAt: f.now.Add(-time.Hour), MoisturePct: &moisture, TemperatureF: &temp}
	require.NoError(t, obsRepo.New(f.db).CreateSensorReading(context.Background(), &r))

	out, err := New(f.builder, nil, f.tasks, nil, nil, nil).OnSensorReading(context.Background(), r)
	require.NoError(t, err)
	require.Len(t, out.Tasks, 2)
	types := []entities.TaskType{out.Tasks[0].Type, out.Tasks[1].Type}
	assert.ElementsMatch(t, []entities.TaskType{entities.TaskWatering, entities.TaskProtection}, types)
	for _, task := range out.Tasks {
		assert.Equal(t, entities.PriorityHigh, task.Priority)
		assert.Equal(t, "task.sensor_alert", task.RuleID)
		assert.True(t, task.DueDate.Equal(day("2026-04-02")))
	}
}

func TestOnSensorReadingJudgesSubmittedReading(t *testing.T) {
	cases := []struct {
		name   string
		offset time.Duration
	}{
		{"recorded slightly ahead of the clock", 2 * time.Minute},
		{"arrives after a newer normal reading", -2 * time.Hour},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, day("2026-04-02").Add(7*time.Hour))
			f.plant(t, day("2026-03-01"), entities.HealthHealthy)
			f.record(t, f.now.Add(-time.Hour), 45)
			dry := f.record(t, f.now.Add(tc.offset), 5)

			out, err := New(f.builder, nil, f.tasks, nil, nil, nil).OnSensorReading(context.Background(), dry)
			require.NoError(t, err)
			require.Len(t, out.Tasks, 1)
			assert.Equal(t, entities.TaskWatering, out.Tasks[0].Type)
			assert.True(t, out.Tasks[0].DueDate.Equal(day("2026-04-02")))
		})
	}
}

func TestOnSensorReadingSkipsBadReading(t *testing.T) {
	f := newFixture(t, day("2026-04-02"))
	bad := 140.0
	out, err := New(f.builder, nil, f.tasks, nil, nil, nil).OnSensorReading(context.Background(),
		entities.SensorReading{GardenID: f.garden.GardenID, RecordedAt: f.now, MoisturePct: &bad})
	require.NoError(t, err)
	assert.Empty(t, out.Tasks)
	require.Len(t, out.Faults, 1)
	assert.Equal(t, "sensor_reading", out.Faults[0].Entity)
}

func TestToTasksCarriesRecurrence(t *testing.T) {
	weekly := entities.FrequencyWeekly
	got := toTasks(3, nil, nil, []rules.TaskDescriptor{{RuleID: "x", Type: entities.TaskGeneral, IsRecurring: true, Frequency: &weekly}})
	require.Len(t, got, 1)
	assert.True(t, got[0].IsRecurring)
	assert.Equal(t, &weekly, got[0].RecurrenceFrequency)
	assert.NoError(t, got[0].Validate())
}
