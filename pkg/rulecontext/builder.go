// Package rulecontext assembles the immutable rule contexts. Building a context is
// the only I/O an evaluation performs; everything downstream is pure.
package rulecontext

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gardencare/entities"
	"gardencare/pkg/rules"
)

type GardenReader interface {
	FindByID(ctx context.Context, id uint) (*entities.Garden, error)
}

type PlantingReader interface {
	FindByID(ctx context.Context, id uint) (*entities.PlantingEvent, error)
	ListByGarden(ctx context.Context, gardenID uint) ([]entities.PlantingEvent, error)
}

type VarietyReader interface {
	FindByIDs(ctx context.Context, ids []uint) (map[uint]entities.PlantVarietyProfile, error)
}

type ObservationReader interface {
	SoilSamplesSince(ctx context.Context, gardenID uint, since time.Time) ([]entities.SoilSample, error)
	SensorReadingsSince(ctx context.Context, gardenID uint, since time.Time) ([]entities.SensorReading, error)
	IrrigationsSince(ctx context.Context, gardenID uint, since time.Time) ([]entities.IrrigationEvent, error)
}

const DefaultWindow = 30 * 24 * time.Hour

type Builder struct {
	gardens      GardenReader
	plantings    PlantingReader
	varieties    VarietyReader
	observations ObservationReader
	thresholds   *rules.ThresholdTable
	window       time.Duration
	now          func() time.Time
}

type Option func(*Builder)

func WithClock(now func() time.Time) Option { return func(b *Builder) { b.now = now } }

// WithWindow bounds how far back observations are loaded. It is never shorter
// than rules.IrrigationWindow.
func WithWindow(d time.Duration) Option {
	return func(b *Builder) {
		if d <= 0 {
			return
		}
		b.window = max(d, rules.IrrigationWindow)
	}
}

func NewBuilder(g GardenReader, p PlantingReader, v VarietyReader, o ObservationReader, t *rules.ThresholdTable, opts ...Option) *Builder {
	if t == nil {
		t = rules.DefaultThresholdTable()
	}
	b := &Builder{gardens: g, plantings: p, varieties: v, observations: o, thresholds: t, window: DefaultWindow, now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Builder) Now() time.Time { return b.now() }

// GardenBundle is everything one garden-wide evaluation needs.
type GardenBundle struct {
	Garden        entities.Garden
	GardenContext *rules.Context
	Plantings     []*rules.Context
	Faults        []Fault
}

type history struct {
	soil       []entities.SoilSample
	sensors    []entities.SensorReading
	irrigation []entities.IrrigationEvent
}

func (b *Builder) loadHistory(ctx context.Context, gardenID uint, now time.Time) (history, []Fault, error) {
	since := now.Add(-b.window)
	soil, err := b.observations.SoilSamplesSince(ctx, gardenID, since)
	if err != nil {
		return history{}, nil, fmt.Errorf("load soil samples: %w", err)
	}
	sensors, err := b.observations.SensorReadingsSince(ctx, gardenID, since)
	if err != nil {
		return history{}, nil, fmt.Errorf("load sensor readings: %w", err)
	}
	irr, err := b.observations.IrrigationsSince(ctx, gardenID, since)
	if err != nil {
		return history{}, nil, fmt.Errorf("load irrigation events: %w", err)
	}

	var h history
	var faults []Fault
	for _, s := range soil {
		if f, bad := checkSoil(s); bad {
			faults = append(faults, f)
			continue
		}
		h.soil = append(h.soil, s)
	}
	for _, r := range sensors {
		if f, bad := checkReading(r); bad {
			faults = append(faults, f)
			continue
		}
		h.sensors = append(h.sensors, r)
	}
	for _, e := range irr {
		if f, bad := checkIrrigation(e); bad {
			faults = append(faults, f)
			continue
		}
		h.irrigation = append(h.irrigation, e)
	}
	return h, faults, nil
}

func (b *Builder) snapshot(now time.Time, g entities.Garden, h history) rules.Snapshot {
	return rules.Snapshot{
		Now:            now,
		Garden:         g,
		SoilSamples:    h.soil,
		SensorReadings: h.sensors,
		Irrigations:    h.irrigation,
	}
}

func (b *Builder) loadVarieties(ctx context.Context, ps []entities.PlantingEvent) (map[uint]entities.PlantVarietyProfile, error) {
	ids := make([]uint, 0, len(ps))
	seen := map[uint]struct{}{}
	for _, p := range ps {
		if _, ok := seen[p.VarietyID]; !ok {
			seen[p.VarietyID] = struct{}{}
			ids = append(ids, p.VarietyID)
		}
	}
	if len(ids) == 0 {
		return map[uint]entities.PlantVarietyProfile{}, nil
	}
	out, err := b.varieties.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load varieties: %w", err)
	}
	return out, nil
}

// ForGarden loads the garden, its plantings and the observation window once and
// returns one garden-scoped context plus one context per valid planting.
func (b *Builder) ForGarden(ctx context.Context, gardenID uint) (*GardenBundle, error) {
	now := b.now()
	g, err := b.gardens.FindByID(ctx, gardenID)
	if err != nil {
		return nil, fmt.Errorf("load garden %d: %w", gardenID, err)
	}
	ps, err := b.plantings.ListByGarden(ctx, gardenID)
	if err != nil {
		return nil, fmt.Errorf("load plantings: %w", err)
	}
	sort.SliceStable(ps, func(i, j int) bool { return ps[i].PlantingID < ps[j].PlantingID })

	varieties, err := b.loadVarieties(ctx, ps)
	if err != nil {
		return nil, err
	}
	h, faults, err := b.loadHistory(ctx, gardenID, now)
	if err != nil {
		return nil, err
	}

	bundle := &GardenBundle{Garden: *g}
	var species []string
	for i := range ps {
		p := ps[i]
		if f, bad := checkPlanting(p); bad {
			faults = append(faults, f)
			continue
		}
		snap := b.snapshot(now, *g, h)
		snap.Planting = &p
		if v, ok := varieties[p.VarietyID]; ok {
			snap.Variety = &v
			snap.Thresholds = b.thresholds.Lookup(v.Species)
			species = append(species, v.Species)
		} else {
			faults = append(faults, Fault{Entity: "planting", ID: p.PlantingID, Reason: fmt.Sprintf("variety %d not found", p.VarietyID)})
			snap.Thresholds = b.thresholds.Lookup("")
		}
		bundle.Plantings = append(bundle.Plantings, rules.NewContext(snap))
	}

	gs := b.snapshot(now, *g, h)
	gs.Thresholds = b.thresholds.Strictest(species)
	bundle.GardenContext = rules.NewContext(gs)
	bundle.Faults = faults
	return bundle, nil
}

// ForReading is the garden-wide context with r attached as the submitted
// reading. A reading that fails the integrity checks yields a nil context.
func (b *Builder) ForReading(ctx context.Context, r entities.SensorReading) (*rules.Context, []Fault, error) {
	if f, bad := checkReading(r); bad {
		return nil, []Fault{f}, nil
	}
	bundle, err := b.ForGarden(ctx, r.GardenID)
	if err != nil {
		return nil, nil, err
	}
	return bundle.GardenContext.WithReading(r), bundle.Faults, nil
}

// ForPlanting builds the context for one planting. A planting that fails the
// integrity checks yields a nil context and its fault.
func (b *Builder) ForPlanting(ctx context.Context, plantingID uint) (*rules.Context, []Fault, error) {
	now := b.now()
	p, err := b.plantings.FindByID(ctx, plantingID)
	if err != nil {
		return nil, nil, fmt.Errorf("load planting %d: %w", plantingID, err)
	}
	if f, bad := checkPlanting(*p); bad {
		return nil, []Fault{f}, nil
	}
	g, err := b.gardens.FindByID(ctx, p.GardenID)
	if err != nil {
		return nil, nil, fmt.Errorf("load garden %d: %w", p.GardenID, err)
	}
	varieties, err := b.loadVarieties(ctx, []entities.PlantingEvent{*p})
	if err != nil {
		return nil, nil, err
	}
	h, faults, err := b.loadHistory(ctx, p.GardenID, now)
	if err != nil {
		return nil, nil, err
	}
	snap := b.snapshot(now, *g, h)
	snap.Planting = p
	if v, ok := varieties[p.VarietyID]; ok {
		snap.Variety = &v
		snap.Thresholds = b.thresholds.Lookup(v.Species)
	} else {
		faults = append(faults, Fault{Entity: "planting", ID: p.PlantingID, Reason: fmt.Sprintf("variety %d not found", p.VarietyID)})
		snap.Thresholds = b.thresholds.Lookup("")
	}
	return rules.NewContext(snap), faults, nil
}

// ForSeedBatch builds the context for a newly created seed batch. Seed rules only
// read the batch and its variety, so no observation history is loaded.
func (b *Builder) ForSeedBatch(ctx context.Context, batch entities.SeedBatch) (*rules.Context, []Fault, error) {
	now := b.now()
	if f, bad := checkSeedBatch(batch, now); bad {
		return nil, []Fault{f}, nil
	}
	g, err := b.gardens.FindByID(ctx, batch.GardenID)
	if err != nil {
		return nil, nil, fmt.Errorf("load garden %d: %w", batch.GardenID, err)
	}
	snap := rules.Snapshot{Now: now, Garden: *g, SeedBatch: &batch, Thresholds: b.thresholds.Lookup("")}
	var faults []Fault
	if batch.VarietyID != 0 {
		vs, err := b.varieties.FindByIDs(ctx, []uint{batch.VarietyID})
		if err != nil {
			return nil, nil, fmt.Errorf("load varieties: %w", err)
		}
		if v, ok := vs[batch.VarietyID]; ok {
			snap.Variety = &v
			snap.Thresholds = b.thresholds.Lookup(v.Species)
		} else {
			faults = append(faults, Fault{Entity: "seed_batch", ID: batch.BatchID, Reason: fmt.Sprintf("variety %d not found", batch.VarietyID)})
		}
	}
	return rules.NewContext(snap), faults, nil
}
