package rulecontext

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gardencare/entities"
	"gardencare/pkg/rules"
)

type fakeStore struct {
	gardens   map[uint]entities.Garden
	plantings []entities.PlantingEvent
	varieties map[uint]entities.PlantVarietyProfile
	soil      []entities.SoilSample
	sensors   []entities.SensorReading
	irr       []entities.IrrigationEvent

	since      time.Time
	soilLoads  int
	plantLists int
}

type gardens struct{ *fakeStore }

func (g gardens) FindByID(_ context.Context, id uint) (*entities.Garden, error) {
	gd, ok := g.gardens[id]
	if !ok {
		return nil, fmt.Errorf("garden %d: %w", id, entities.ErrNotFound)
	}
	return &gd, nil
}

type plantings struct{ *fakeStore }

func (p plantings) FindByID(_ context.Context, id uint) (*entities.PlantingEvent, error) {
	for _, pl := range p.plantings {
		if pl.PlantingID == id {
			return &pl, nil
		}
	}
	return nil, fmt.Errorf("planting %d: %w", id, entities.ErrNotFound)
}

func (p plantings) ListByGarden(_ context.Context, gardenID uint) ([]entities.PlantingEvent, error) {
	p.plantLists++
	var out []entities.PlantingEvent
	for _, pl := range p.plantings {
		if pl.GardenID == gardenID {
			out = append(out, pl)
		}
	}
	return out, nil
}

func (f *fakeStore) FindByIDs(_ context.Context, ids []uint) (map[uint]entities.PlantVarietyProfile, error) {
	out := map[uint]entities.PlantVarietyProfile{}
	for _, id := range ids {
		if v, ok := f.varieties[id]; ok {
			out[id] = v
		}
	}
	return out, nil
}

func (f *fakeStore) SoilSamplesSince(_ context.Context, _ uint, since time.Time) ([]entities.SoilSample, error) {
	f.soilLoads++
	f.since = since
	return f.soil, nil
}

func (f *fakeStore) SensorReadingsSince(context.Context, uint, time.Time) ([]entities.SensorReading, error) {
	return f.sensors, nil
}

func (f *fakeStore) IrrigationsSince(context.Context, uint, time.Time) ([]entities.IrrigationEvent, error) {
	return f.irr, nil
}

var now = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func f64(v float64) *float64 { return &v }

func newStore() *fakeStore {
	return &fakeStore{
		gardens: map[uint]entities.Garden{1: {GardenID: 1, Name: "Plot"}},
		varieties: map[uint]entities.PlantVarietyProfile{
			10: {VarietyID: 10, Name: "Lacinato", Species: "kale", DaysToHarvest: 60},
			20: {VarietyID: 20, Name: "Jalapeno", Species: "pepper", DaysToHarvest: 75},
		},
		plantings: []entities.PlantingEvent{
			{PlantingID: 3, GardenID: 1, VarietyID: 20, PlantingDate: now.AddDate(0, 0, -10), PlantCount: 2},
			{PlantingID: 1, GardenID: 1, VarietyID: 10, PlantingDate: now.AddDate(0, 0, -30), PlantCount: 5},
			{PlantingID: 2, GardenID: 1, VarietyID: 10, PlantingDate: now.AddDate(0, 0, -5), PlantCount: -1},
			{PlantingID: 4, GardenID: 1, VarietyID: 99, PlantingDate: now.AddDate(0, 0, -5), PlantCount: 1},
		},
		soil: []entities.SoilSample{
			{SampleID: 1, GardenID: 1, SampledAt: now.Add(-time.Hour), MoisturePct: f64(130)},
			{SampleID: 2, GardenID: 1, SampledAt: now.Add(-2 * time.Hour), MoisturePct: f64(35)},
		},
	}
}

func newTestBuilder(s *fakeStore, opts ...Option) *Builder {
	opts = append([]Option{WithClock(func() time.Time { return now })}, opts...)
	return NewBuilder(gardens{s}, plantings{s}, s, s, nil, opts...)
}

func TestForGarden(t *testing.T) {
	s := newStore()
	bundle, err := newTestBuilder(s).ForGarden(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 1, s.soilLoads, "history is loaded once per garden")
	assert.Equal(t, 1, s.plantLists)
	assert.Equal(t, now.Add(-DefaultWindow), s.since)

	require.Len(t, bundle.Plantings, 3, "negative plant count is skipped")
	var ids []uint
	for _, pc := range bundle.Plantings {
		p, ok := pc.Planting()
		require.True(t, ok)
		ids = append(ids, p.PlantingID)
	}
	assert.Equal(t, []uint{1, 3, 4}, ids)

	assert.Equal(t, 20.0, bundle.Plantings[0].Thresholds().FrostF, "kale")
	assert.Equal(t, 40.0, bundle.Plantings[1].Thresholds().FrostF, "pepper")
	_, ok := bundle.Plantings[2].Variety()
	assert.False(t, ok, "unknown variety leaves the profile empty")

	assert.Equal(t, 40.0, bundle.GardenContext.Thresholds().FrostF, "garden uses the strictest frost line")
	m, ok := bundle.GardenContext.LatestMoisture()
	require.True(t, ok)
	assert.Equal(t, 35.0, m.Value, "out-of-range sample is dropped")

	byEntity := map[string]int{}
	for _, f := range bundle.Faults {
		byEntity[f.Entity]++
	}
	assert.Equal(t, map[string]int{"planting": 2, "soil_sample": 1}, byEntity)
}

func TestForGardenWindow(t *testing.T) {
	s := newStore()
	_, err := newTestBuilder(s, WithWindow(7*24*time.Hour)).ForGarden(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(0, 0, -7), s.since)

	short := newStore()
	_, err = newTestBuilder(short, WithWindow(2*24*time.Hour)).ForGarden(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, now.Add(-rules.IrrigationWindow), short.since, "never shorter than the irrigation window")
}

func TestForReading(t *testing.T) {
	s := newStore()
	s.sensors = []entities.SensorReading{{ReadingID: 1, GardenID: 1, RecordedAt: now.Add(-time.Hour), MoisturePct: f64(45)}}
	b := newTestBuilder(s)

	late := entities.SensorReading{ReadingID: 2, GardenID: 1, RecordedAt: now.Add(-3 * time.Hour), MoisturePct: f64(5)}
	c, _, err := b.ForReading(context.Background(), late)
	require.NoError(t, err)
	require.NotNil(t, c)
	got, ok := c.SubmittedReading()
	require.True(t, ok)
	assert.Equal(t, uint(2), got.ReadingID)
	latest, ok := c.LatestReading()
	require.True(t, ok)
	assert.Equal(t, uint(1), latest.ReadingID, "history is unchanged")
	assert.Equal(t, 40.0, c.Thresholds().FrostF, "garden-wide strictest thresholds")

	c, faults, err := b.ForReading(context.Background(), entities.SensorReading{ReadingID: 3, GardenID: 1, LightHours: f64(30)})
	require.NoError(t, err)
	assert.Nil(t, c)
	require.Len(t, faults, 1)
	assert.Equal(t, "sensor_reading", faults[0].Entity)

	_, _, err = b.ForReading(context.Background(), entities.SensorReading{GardenID: 9})
	assert.True(t, errors.Is(err, entities.ErrNotFound))
}

func TestForGardenUnknown(t *testing.T) {
	_, err := newTestBuilder(newStore()).ForGarden(context.Background(), 7)
	assert.True(t, errors.Is(err, entities.ErrNotFound))
}

func TestForPlanting(t *testing.T) {
	s := newStore()
	b := newTestBuilder(s)

	c, faults, err := b.ForPlanting(context.Background(), 3)
	require.NoError(t, err)
	require.NotNil(t, c)
	v, ok := c.Variety()
	require.True(t, ok)
	assert.Equal(t, "pepper", v.Species)
	assert.Len(t, faults, 1, "the bad soil sample")

	c, faults, err = b.ForPlanting(context.Background(), 2)
	require.NoError(t, err)
	assert.Nil(t, c)
	require.Len(t, faults, 1)
	assert.Equal(t, uint(2), faults[0].ID)

	_, _, err = b.ForPlanting(context.Background(), 50)
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestForSeedBatch(t *testing.T) {
	s := newStore()
	b := newTestBuilder(s)

	c, faults, err := b.ForSeedBatch(context.Background(), entities.SeedBatch{BatchID: 1, GardenID: 1, VarietyID: 10, HarvestYear: 2022})
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Empty(t, faults)
	assert.Equal(t, 0, s.soilLoads, "seed rules need no history")
	sb, ok := c.SeedBatch()
	require.True(t, ok)
	assert.Equal(t, 2022, sb.HarvestYear)

	c, faults, err = b.ForSeedBatch(context.Background(), entities.SeedBatch{BatchID: 2, GardenID: 1, HarvestYear: 2031})
	require.NoError(t, err)
	assert.Nil(t, c)
	require.Len(t, faults, 1)
	assert.Contains(t, faults[0].Reason, "future")
}

func TestCheckFunctions(t *testing.T) {
	assert.NoError(t, CheckSensorReading(entities.SensorReading{MoisturePct: f64(50), LightHours: f64(12)}))
	assert.Error(t, CheckSensorReading(entities.SensorReading{LightHours: f64(25)}))
	assert.Error(t, CheckSoilSample(entities.SoilSample{PH: f64(15)}))
	assert.Error(t, CheckSoilSample(entities.SoilSample{NitrogenPPM: f64(-1)}))
	assert.Error(t, CheckIrrigation(entities.IrrigationEvent{VolumeLiters: f64(-2)}))
	assert.Error(t, CheckPlanting(entities.PlantingEvent{PlantCount: 1}), "missing date")
	assert.Error(t, CheckPlanting(entities.PlantingEvent{PlantCount: 1, PlantingDate: now, HealthStatus: "wilted"}))
	assert.NoError(t, CheckSeedBatch(entities.SeedBatch{HarvestYear: 2026}, now))

	var f Fault
	require.True(t, errors.As(CheckSoilSample(entities.SoilSample{SampleID: 9, PH: f64(-1)}), &f))
	assert.Equal(t, "soil_sample", f.Entity)
	assert.Equal(t, uint(9), f.ID)
}

func TestContextsAreIndependent(t *testing.T) {
	s := newStore()
	bundle, err := newTestBuilder(s).ForGarden(context.Background(), 1)
	require.NoError(t, err)

	s.soil[1].MoisturePct = f64(1)
	m, _ := bundle.GardenContext.LatestMoisture()
	assert.Equal(t, 35.0, m.Value)
}
