package rules

import (
	"fmt"

	"gardencare/entities"
)

const (
	WateringOccurrences   = 4
	SeedViabilityMaxYears = 3
)

// WateringCadenceDays maps a water-requirement tier to days between waterings.
func WateringCadenceDays(tier entities.WaterTier) (int, bool) {
	switch tier {
	case entities.WaterHigh:
		return 2, true
	case entities.WaterMedium:
		return 4, true
	case entities.WaterLow:
		return 7, true
	}
	return 0, false
}

func HarvestReminder() Generator {
	return Generator{ID: "task.harvest_reminder", Trigger: TriggerPlantingCreated, Generate: harvestReminder}
}

func WateringSchedule() Generator {
	return Generator{ID: "task.watering_schedule", Trigger: TriggerPlantingCreated, Generate: wateringSchedule}
}

func SeedViability() Generator {
	return Generator{ID: "task.seed_viability", Trigger: TriggerSeedBatchCreated, Generate: seedViability}
}

func SensorAlert() Generator {
	return Generator{ID: "task.sensor_alert", Trigger: TriggerSensorReading, Generate: sensorAlert}
}

func usablePlanting(c *Context) (entities.PlantingEvent, entities.PlantVarietyProfile, bool) {
	p, ok := c.Planting()
	if !ok || p.PlantCount < 0 || p.PlantingDate.IsZero() {
		return p, entities.PlantVarietyProfile{}, false
	}
	v, ok := c.Variety()
	return p, v, ok
}

func harvestReminder(c *Context) []TaskDescriptor {
	p, v, ok := usablePlanting(c)
	if !ok || v.DaysToHarvest <= 0 {
		return nil
	}
	return []TaskDescriptor{{
		Type:        entities.TaskHarvest,
		Title:       fmt.Sprintf("Harvest %s", v.Name),
		Description: fmt.Sprintf("%s planted %s should be ready after %d days.", v.Name, Day(p.PlantingDate).Format("2006-01-02"), v.DaysToHarvest),
		DueDate:     Day(p.PlantingDate).AddDate(0, 0, v.DaysToHarvest),
		Priority:    entities.PriorityHigh,
	}}
}

func wateringSchedule(c *Context) []TaskDescriptor {
	p, v, ok := usablePlanting(c)
	if !ok {
		return nil
	}
	cadence, ok := WateringCadenceDays(v.WaterRequirement)
	if !ok {
		return nil
	}
	prio := entities.PriorityMedium
	if p.HealthStatus.NeedsAttention() {
		prio = entities.PriorityHigh
	}
	start := Day(p.PlantingDate)
	out := make([]TaskDescriptor, 0, WateringOccurrences)
	for k := 1; k <= WateringOccurrences; k++ {
		out = append(out, TaskDescriptor{
			Type:        entities.TaskWatering,
			Title:       fmt.Sprintf("Water %s", v.Name),
			Description: fmt.Sprintf("Watering %d of %d; %s needs water every %d days.", k, WateringOccurrences, v.Name, cadence),
			DueDate:     start.AddDate(0, 0, k*cadence),
			Priority:    prio,
		})
	}
	return out
}

func seedViability(c *Context) []TaskDescriptor {
	b, ok := c.SeedBatch()
	if !ok || b.HarvestYear <= 0 {
		return nil
	}
	age := c.Now().Year() - b.HarvestYear
	if age < SeedViabilityMaxYears {
		return nil
	}
	name := "seed batch"
	if v, ok := c.Variety(); ok && v.Name != "" {
		name = v.Name + " seeds"
	}
	return []TaskDescriptor{{
		Type:  entities.TaskSeedViability,
		Title: fmt.Sprintf("Test germination of %s", name),
		Description: fmt.Sprintf("Seeds harvested in %d are %d years old; run a paper-towel germination test "+
			"before sowing.", b.HarvestYear, age),
		DueDate:  Day(c.Now()),
		Priority: entities.PriorityLow,
	}}
}

// sensorAlert turns a critical reading into same-day work. It judges the
// submitted reading when there is one, else the latest stored reading.
func sensorAlert(c *Context) []TaskDescriptor {
	r, ok := c.SubmittedReading()
	if !ok {
		r, ok = c.LatestReading()
	}
	if !ok {
		return nil
	}
	var out []TaskDescriptor
	today := Day(c.Now())
	if r.MoisturePct != nil && *r.MoisturePct < UnderWateringPct {
		out = append(out, TaskDescriptor{
			Type:        entities.TaskWatering,
			Title:       "Water now: soil is critically dry",
			Description: fmt.Sprintf("Sensor reported %.1f%% soil moisture.", *r.MoisturePct),
			DueDate:     today,
			Priority:    entities.PriorityHigh,
		})
	}
	if r.MoisturePct != nil && *r.MoisturePct > OverWateringPct {
		out = append(out, TaskDescriptor{
			Type:        entities.TaskDrainage,
			Title:       "Check drainage: soil is waterlogged",
			Description: fmt.Sprintf("Sensor reported %.1f%% soil moisture.", *r.MoisturePct),
			DueDate:     today,
			Priority:    entities.PriorityHigh,
		})
	}
	if r.TemperatureF != nil && *r.TemperatureF < c.Thresholds().FrostF {
		out = append(out, TaskDescriptor{
			Type:        entities.TaskProtection,
			Title:       "Protect plants from frost",
			Description: fmt.Sprintf("Sensor reported %.1f°F, below the %.0f°F frost line.", *r.TemperatureF, c.Thresholds().FrostF),
			DueDate:     today,
			Priority:    entities.PriorityHigh,
		})
	}
	return out
}
