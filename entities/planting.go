package entities

import "time"

type HealthStatus string

const (
	HealthHealthy  HealthStatus = "healthy"
	HealthStressed HealthStatus = "stressed"
	HealthDiseased HealthStatus = "diseased"
)

// NeedsAttention reports whether the planting is stressed or diseased.
func (h HealthStatus) NeedsAttention() bool {
	return h == HealthStressed || h == HealthDiseased
}

type WaterTier string

const (
	WaterLow    WaterTier = "low"
	WaterMedium WaterTier = "medium"
	WaterHigh   WaterTier = "high"
)

type PlantingEvent struct {
	PlantingID   uint         `gorm:"primaryKey" json:"planting_id"`
	GardenID     uint         `gorm:"index" json:"garden_id"`
	VarietyID    uint         `gorm:"index" json:"variety_id"`
	PlantingDate time.Time    `json:"planting_date"`
	PlantCount   int          `json:"plant_count"`
	HealthStatus HealthStatus `json:"health_status"` // healthy|stressed|diseased
	Notes        string       `json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StageRange narrows the chemistry bounds of a variety for one growth stage.
type StageRange struct {
	Stage string   `json:"stage"`
	PHMin *float64 `json:"ph_min,omitempty"`
	PHMax *float64 `json:"ph_max,omitempty"`
	ECMin *float64 `json:"ec_min,omitempty"`
	ECMax *float64 `json:"ec_max,omitempty"`
}

// PlantVarietyProfile is reference data; the engine never writes it.
type PlantVarietyProfile struct {
	VarietyID          uint      `gorm:"primaryKey" json:"variety_id"`
	Name               string    `gorm:"uniqueIndex" json:"name"`
	Species            string    `gorm:"index" json:"species"`
	GerminationDaysMin int       `json:"germination_days_min"`
	GerminationDaysMax int       `json:"germination_days_max"`
	DaysToHarvest      int       `json:"days_to_harvest"`
	SpacingCM          float64   `json:"spacing_cm"`
	WaterRequirement   WaterTier `json:"water_requirement"` // low|medium|high
	SunRequirement     string    `json:"sun_requirement"`   // full_sun|partial_shade|shade
	PHMin              *float64  `json:"ph_min,omitempty"`
	PHMax              *float64  `json:"ph_max,omitempty"`
	ECMin              *float64  `json:"ec_min,omitempty"`
	ECMax              *float64  `json:"ec_max,omitempty"`

	StageRanges []StageRange `gorm:"serializer:json" json:"stage_ranges,omitempty"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

type SeedBatch struct {
	BatchID     uint   `gorm:"primaryKey" json:"batch_id"`
	GardenID    uint   `gorm:"index" json:"garden_id"`
	VarietyID   uint   `gorm:"index" json:"variety_id"`
	HarvestYear int    `json:"harvest_year"`
	Quantity    int    `json:"quantity"`
	Notes       string `json:"notes"`

	CreatedAt time.Time `json:"created_at"`
}
