package rulecontext

import (
	"fmt"
	"time"

	"gardencare/entities"
)

// Fault is a data-integrity problem in stored data. The offending entity is left
// out of the context; evaluation carries on for everything else.
type Fault struct {
	Entity string
	ID     uint
	Reason string
}

func (f Fault) Error() string { return fmt.Sprintf("%s %d: %s", f.Entity, f.ID, f.Reason) }

func outside(v *float64, lo, hi float64) bool { return v != nil && (*v < lo || *v > hi) }

func negative(v *float64) bool { return v != nil && *v < 0 }

func checkPlanting(p entities.PlantingEvent) (Fault, bool) {
	fault := func(reason string) (Fault, bool) {
		return Fault{Entity: "planting", ID: p.PlantingID, Reason: reason}, true
	}
	switch {
	case p.PlantCount < 0:
		return fault(fmt.Sprintf("negative plant count %d", p.PlantCount))
	case p.PlantingDate.IsZero():
		return fault("missing planting date")
	}
	switch p.HealthStatus {
	case "", entities.HealthHealthy, entities.HealthStressed, entities.HealthDiseased:
	default:
		return fault(fmt.Sprintf("unknown health status %q", p.HealthStatus))
	}
	return Fault{}, false
}

func checkSoil(s entities.SoilSample) (Fault, bool) {
	var reason string
	switch {
	case outside(s.PH, 0, 14):
		reason = fmt.Sprintf("pH %.2f outside 0-14", *s.PH)
	case outside(s.MoisturePct, 0, 100):
		reason = fmt.Sprintf("moisture %.1f%% outside 0-100", *s.MoisturePct)
	case negative(s.NitrogenPPM), negative(s.PhosphorusPPM), negative(s.PotassiumPPM):
		reason = "negative nutrient concentration"
	case negative(s.ECdSm):
		reason = "negative EC"
	default:
		return Fault{}, false
	}
	return Fault{Entity: "soil_sample", ID: s.SampleID, Reason: reason}, true
}

func checkReading(r entities.SensorReading) (Fault, bool) {
	var reason string
	switch {
	case outside(r.MoisturePct, 0, 100):
		reason = fmt.Sprintf("moisture %.1f%% outside 0-100", *r.MoisturePct)
	case outside(r.HumidityPct, 0, 100):
		reason = fmt.Sprintf("humidity %.1f%% outside 0-100", *r.HumidityPct)
	case outside(r.LightHours, 0, 24):
		reason = fmt.Sprintf("light hours %.1f outside 0-24", *r.LightHours)
	case negative(r.ECdSm):
		reason = "negative EC"
	default:
		return Fault{}, false
	}
	return Fault{Entity: "sensor_reading", ID: r.ReadingID, Reason: reason}, true
}

func checkIrrigation(e entities.IrrigationEvent) (Fault, bool) {
	if negative(e.VolumeLiters) {
		return Fault{Entity: "irrigation_event", ID: e.IrrigationID, Reason: "negative volume"}, true
	}
	return Fault{}, false
}

func checkSeedBatch(b entities.SeedBatch, now time.Time) (Fault, bool) {
	if b.HarvestYear > now.Year() {
		return Fault{Entity: "seed_batch", ID: b.BatchID, Reason: fmt.Sprintf("harvest year %d is in the future", b.HarvestYear)}, true
	}
	if b.Quantity < 0 {
		return Fault{Entity: "seed_batch", ID: b.BatchID, Reason: fmt.Sprintf("negative quantity %d", b.Quantity)}, true
	}
	return Fault{}, false
}

// The Check functions run the same integrity checks on input before it is
// stored. They return the Fault as an error, or nil.

func CheckPlanting(p entities.PlantingEvent) error { return asErr(checkPlanting(p)) }

func CheckSoilSample(s entities.SoilSample) error { return asErr(checkSoil(s)) }

func CheckSensorReading(r entities.SensorReading) error { return asErr(checkReading(r)) }

func CheckIrrigation(e entities.IrrigationEvent) error { return asErr(checkIrrigation(e)) }

func CheckSeedBatch(b entities.SeedBatch, now time.Time) error { return asErr(checkSeedBatch(b, now)) }

func asErr(f Fault, bad bool) error {
	if !bad {
		return nil
	}
	return f
}
