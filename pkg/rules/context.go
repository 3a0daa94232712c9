package rules

import (
	"sort"
	"time"

	"gardencare/entities"
)

// Snapshot carries the raw inputs for one context. NewContext copies it, so the
// caller may reuse or mutate its slices afterwards.
type Snapshot struct {
	Now            time.Time
	Garden         entities.Garden
	Planting       *entities.PlantingEvent
	Variety        *entities.PlantVarietyProfile
	SeedBatch      *entities.SeedBatch
	Reading        *entities.SensorReading
	Thresholds     SpeciesThresholds
	SoilSamples    []entities.SoilSample
	SensorReadings []entities.SensorReading
	Irrigations    []entities.IrrigationEvent
}

// Context is the read-only view a rule evaluates. All fields are private and
// every accessor returns a copy.
type Context struct {
	now        time.Time
	garden     entities.Garden
	planting   *entities.PlantingEvent
	variety    *entities.PlantVarietyProfile
	seedBatch  *entities.SeedBatch
	reading    *entities.SensorReading
	thresholds SpeciesThresholds
	soil       []entities.SoilSample
	sensors    []entities.SensorReading
	irrigation []entities.IrrigationEvent
}

func NewContext(s Snapshot) *Context {
	c := &Context{
		now:        s.Now,
		garden:     s.Garden,
		thresholds: s.Thresholds,
	}
	if s.Planting != nil {
		p := *s.Planting
		c.planting = &p
	}
	if s.Variety != nil {
		v := *s.Variety
		v.StageRanges = append([]entities.StageRange(nil), s.Variety.StageRanges...)
		c.variety = &v
	}
	if s.SeedBatch != nil {
		b := *s.SeedBatch
		c.seedBatch = &b
	}
	if s.Reading != nil {
		r := *s.Reading
		c.reading = &r
	}

	c.soil = append([]entities.SoilSample(nil), s.SoilSamples...)
	sort.SliceStable(c.soil, func(i, j int) bool { return c.soil[i].SampledAt.Before(c.soil[j].SampledAt) })
	c.sensors = append([]entities.SensorReading(nil), s.SensorReadings...)
	sort.SliceStable(c.sensors, func(i, j int) bool { return c.sensors[i].RecordedAt.Before(c.sensors[j].RecordedAt) })
	c.irrigation = append([]entities.IrrigationEvent(nil), s.Irrigations...)
	sort.SliceStable(c.irrigation, func(i, j int) bool { return c.irrigation[i].IrrigatedAt.Before(c.irrigation[j].IrrigatedAt) })
	return c
}

func (c *Context) Now() time.Time                { return c.now }
func (c *Context) Garden() entities.Garden       { return c.garden }
func (c *Context) Thresholds() SpeciesThresholds { return c.thresholds }

func (c *Context) Planting() (entities.PlantingEvent, bool) {
	if c.planting == nil {
		return entities.PlantingEvent{}, false
	}
	return *c.planting, true
}

func (c *Context) Variety() (entities.PlantVarietyProfile, bool) {
	if c.variety == nil {
		return entities.PlantVarietyProfile{}, false
	}
	return *c.variety, true
}

func (c *Context) SeedBatch() (entities.SeedBatch, bool) {
	if c.seedBatch == nil {
		return entities.SeedBatch{}, false
	}
	return *c.seedBatch, true
}

func (c *Context) plantingID() *uint {
	if c.planting == nil {
		return nil
	}
	id := c.planting.PlantingID
	return &id
}

// Measurement is the latest recorded value of one quantity.
type Measurement struct {
	Value float64
	At    time.Time
}

func latest[T any](items []T, at func(T) time.Time, val func(T) *float64, now time.Time) (Measurement, bool) {
	for i := len(items) - 1; i >= 0; i-- {
		t := at(items[i])
		if t.After(now) {
			continue
		}
		if v := val(items[i]); v != nil {
			return Measurement{Value: *v, At: t}, true
		}
	}
	return Measurement{}, false
}

func soilAt(s entities.SoilSample) time.Time      { return s.SampledAt }
func sensorAt(r entities.SensorReading) time.Time { return r.RecordedAt }

// newer picks the more recent of two optional measurements; on equal timestamps
// the sensor value (b) wins.
func newer(a Measurement, aok bool, b Measurement, bok bool) (Measurement, bool) {
	switch {
	case aok && bok:
		if a.At.After(b.At) {
			return a, true
		}
		return b, true
	case aok:
		return a, true
	case bok:
		return b, true
	}
	return Measurement{}, false
}

// LatestMoisture looks at both soil samples and sensor readings.
func (c *Context) LatestMoisture() (Measurement, bool) {
	a, aok := latest(c.soil, soilAt, func(s entities.SoilSample) *float64 { return s.MoisturePct }, c.now)
	b, bok := latest(c.sensors, sensorAt, func(r entities.SensorReading) *float64 { return r.MoisturePct }, c.now)
	return newer(a, aok, b, bok)
}

func (c *Context) LatestEC() (Measurement, bool) {
	a, aok := latest(c.soil, soilAt, func(s entities.SoilSample) *float64 { return s.ECdSm }, c.now)
	b, bok := latest(c.sensors, sensorAt, func(r entities.SensorReading) *float64 { return r.ECdSm }, c.now)
	return newer(a, aok, b, bok)
}

func (c *Context) LatestPH() (Measurement, bool) {
	return latest(c.soil, soilAt, func(s entities.SoilSample) *float64 { return s.PH }, c.now)
}

func (c *Context) LatestNitrogen() (Measurement, bool) {
	return latest(c.soil, soilAt, func(s entities.SoilSample) *float64 { return s.NitrogenPPM }, c.now)
}

func (c *Context) LatestTemperature() (Measurement, bool) {
	return latest(c.sensors, sensorAt, func(r entities.SensorReading) *float64 { return r.TemperatureF }, c.now)
}

func (c *Context) LatestLightHours() (Measurement, bool) {
	return latest(c.sensors, sensorAt, func(r entities.SensorReading) *float64 { return r.LightHours }, c.now)
}

// LatestReading is the most recent sensor reading, whatever it measured.
func (c *Context) LatestReading() (entities.SensorReading, bool) {
	for i := len(c.sensors) - 1; i >= 0; i-- {
		if !c.sensors[i].RecordedAt.After(c.now) {
			return c.sensors[i], true
		}
	}
	return entities.SensorReading{}, false
}

// SubmittedReading is the reading that triggered this evaluation. It is
// returned as submitted, even when its timestamp is after Now or older than
// the stored history.
func (c *Context) SubmittedReading() (entities.SensorReading, bool) {
	if c.reading == nil {
		return entities.SensorReading{}, false
	}
	return *c.reading, true
}

// WithReading returns a copy of c carrying r as the submitted reading.
func (c *Context) WithReading(r entities.SensorReading) *Context {
	out := *c
	out.reading = &r
	return &out
}

// IrrigationsWithin counts irrigation events in the rolling window (now-d, now].
func (c *Context) IrrigationsWithin(d time.Duration) int {
	from := c.now.Add(-d)
	n := 0
	for _, e := range c.irrigation {
		if e.IrrigatedAt.After(from) && !e.IrrigatedAt.After(c.now) {
			n++
		}
	}
	return n
}

// Day truncates t to its calendar date in UTC.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(Day(to).Sub(Day(from)).Hours() / 24)
}

// DaysSincePlanting is the number of whole calendar days since the planting date.
func (c *Context) DaysSincePlanting() (int, bool) {
	if c.planting == nil || c.planting.PlantingDate.IsZero() {
		return 0, false
	}
	return daysBetween(c.planting.PlantingDate, c.now), true
}

type Stage string

const (
	StageGermination Stage = "germination"
	StageVegetative  Stage = "vegetative"
	StageMature      Stage = "mature"
	StageHarvest     Stage = "harvest"
)

// GrowthStage derives the current stage from elapsed days and the variety profile.
func (c *Context) GrowthStage() (Stage, bool) {
	days, ok := c.DaysSincePlanting()
	if !ok || c.variety == nil || c.variety.DaysToHarvest <= 0 || days < 0 {
		return "", false
	}
	v := c.variety
	switch {
	case days >= v.DaysToHarvest:
		return StageHarvest, true
	case days >= v.DaysToHarvest*6/10:
		return StageMature, true
	case v.GerminationDaysMax > 0 && days < v.GerminationDaysMax:
		return StageGermination, true
	}
	return StageVegetative, true
}

// Range is an inclusive optimal band.
type Range struct {
	Min, Max float64
}

func (r Range) Contains(v float64) bool { return v >= r.Min && v <= r.Max }

// Distance is how far v lies outside the band; zero inside it.
func (r Range) Distance(v float64) float64 {
	switch {
	case v < r.Min:
		return r.Min - v
	case v > r.Max:
		return v - r.Max
	}
	return 0
}

// PHRange resolves the optimal pH band: the current stage's range first, then the
// variety's, then the species table.
func (c *Context) PHRange() (Range, bool) {
	if c.variety != nil {
		if st, ok := c.GrowthStage(); ok {
			for _, sr := range c.variety.StageRanges {
				if Stage(sr.Stage) == st && sr.PHMin != nil && sr.PHMax != nil {
					return Range{Min: *sr.PHMin, Max: *sr.PHMax}, true
				}
			}
		}
		if c.variety.PHMin != nil && c.variety.PHMax != nil {
			return Range{Min: *c.variety.PHMin, Max: *c.variety.PHMax}, true
		}
	}
	if c.thresholds.PHMax > 0 && c.thresholds.PHMax >= c.thresholds.PHMin {
		return Range{Min: c.thresholds.PHMin, Max: c.thresholds.PHMax}, true
	}
	return Range{}, false
}

// ECRange resolves the optimal EC band the same way as PHRange. It always
// yields a band: with nothing configured it is 0 up to the salinity line.
func (c *Context) ECRange() Range {
	if c.variety != nil {
		if st, ok := c.GrowthStage(); ok {
			for _, sr := range c.variety.StageRanges {
				if Stage(sr.Stage) == st && sr.ECMax != nil {
					return Range{Min: deref(sr.ECMin), Max: *sr.ECMax}
				}
			}
		}
		if c.variety.ECMax != nil {
			return Range{Min: deref(c.variety.ECMin), Max: *c.variety.ECMax}
		}
	}
	if c.thresholds.ECMax > 0 && c.thresholds.ECMax >= c.thresholds.ECMin {
		return Range{Min: c.thresholds.ECMin, Max: c.thresholds.ECMax}
	}
	return Range{Max: SalinityECdSm}
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
