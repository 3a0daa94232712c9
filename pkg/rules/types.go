// Package rules holds the pure evaluation core: the immutable rule context, the
// diagnostic and task-generating rules grouped by category, and the species
// threshold table they read. Nothing in this package performs I/O.
package rules

import (
	"sort"
	"time"

	"gardencare/entities"
)

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Rank orders severities critical > warning > info. Unknown severities rank lowest.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 3
	case SeverityWarning:
		return 2
	case SeverityInfo:
		return 1
	}
	return 0
}

type Category string

// Declaration order doubles as the tie-break order for results of equal severity.
const (
	CategoryWater       Category = "water"
	CategorySoil        Category = "soil"
	CategoryTemperature Category = "temperature"
	CategoryLight       Category = "light"
	CategoryGrowthStage Category = "growth_stage"
)

var categoryOrder = map[Category]int{
	CategoryWater:       0,
	CategorySoil:        1,
	CategoryTemperature: 2,
	CategoryLight:       3,
	CategoryGrowthStage: 4,
}

func (c Category) order() int {
	if o, ok := categoryOrder[c]; ok {
		return o
	}
	return len(categoryOrder)
}

// Scope says which context a diagnostic runs against: once per garden, or once
// per planting.
type Scope int

const (
	ScopeGarden Scope = iota
	ScopePlanting
)

type Trigger string

const (
	TriggerPlantingCreated  Trigger = "planting_created"
	TriggerSeedBatchCreated Trigger = "seed_batch_created"
	TriggerSensorReading    Trigger = "sensor_reading_submitted"
)

// Result is one triggered diagnostic. It is rebuilt on every evaluation and never stored.
type Result struct {
	RuleID              string   `json:"rule_id"`
	Category            Category `json:"category"`
	Title               string   `json:"title"`
	Severity            Severity `json:"severity"`
	Confidence          float64  `json:"confidence"`
	Explanation         string   `json:"explanation"`
	ScientificRationale string   `json:"scientific_rationale"`
	RecommendedAction   string   `json:"recommended_action"`
	MeasuredValue       *float64 `json:"measured_value,omitempty"`
	Unit                string   `json:"unit,omitempty"`
	OptimalRange        string   `json:"optimal_range,omitempty"`
	References          []string `json:"references,omitempty"`
	GardenID            uint     `json:"garden_id"`
	PlantingID          *uint    `json:"planting_id,omitempty"`
}

// TaskDescriptor is what a generator rule proposes; the task generator turns it
// into a persisted CareTask.
type TaskDescriptor struct {
	RuleID      string
	Type        entities.TaskType
	Title       string
	Description string
	DueDate     time.Time
	Priority    entities.Priority
	IsRecurring bool
	Frequency   *entities.Frequency
}

// SeverityCounts is the per-severity tally of a result set.
type SeverityCounts struct {
	Critical int `json:"critical"`
	Warning  int `json:"warning"`
	Info     int `json:"info"`
}

func CountBySeverity(results []Result) SeverityCounts {
	var out SeverityCounts
	for _, r := range results {
		switch r.Severity {
		case SeverityCritical:
			out.Critical++
		case SeverityWarning:
			out.Warning++
		case SeverityInfo:
			out.Info++
		}
	}
	return out
}

// SortResults orders critical→warning→info, breaking ties by category
// declaration order. The sort is stable so rule registration order survives.
func SortResults(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		ri, rj := results[i].Severity.Rank(), results[j].Severity.Rank()
		if ri != rj {
			return ri > rj
		}
		return results[i].Category.order() < results[j].Category.order()
	})
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func ptr[T any](v T) *T { return &v }
