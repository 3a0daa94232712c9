package entities

import "time"

// Observations are append-only. Every measurement is optional; rules abstain when
// the value they need was not recorded.

type SoilSample struct {
	SampleID      uint      `gorm:"primaryKey" json:"sample_id"`
	GardenID      uint      `gorm:"index" json:"garden_id"`
	SampledAt     time.Time `gorm:"index" json:"sampled_at"`
	PH            *float64  `json:"ph"`
	NitrogenPPM   *float64  `json:"nitrogen_ppm"`
	PhosphorusPPM *float64  `json:"phosphorus_ppm"`
	PotassiumPPM  *float64  `json:"potassium_ppm"`
	MoisturePct   *float64  `json:"moisture_pct"`
	ECdSm         *float64  `json:"ec_ds_m"`
	Note          string    `json:"note"`
	CreatedAt     time.Time `json:"-"`
}

type SensorReading struct {
	ReadingID    uint      `gorm:"primaryKey" json:"reading_id"`
	GardenID     uint      `gorm:"index" json:"garden_id"`
	RecordedAt   time.Time `gorm:"index" json:"recorded_at"`
	MoisturePct  *float64  `json:"moisture_pct"`
	TemperatureF *float64  `json:"temperature_f"`
	HumidityPct  *float64  `json:"humidity_pct"`
	LightHours   *float64  `json:"light_hours"`
	ECdSm        *float64  `json:"ec_ds_m"`
	CreatedAt    time.Time `json:"-"`
}

type IrrigationEvent struct {
	IrrigationID uint      `gorm:"primaryKey" json:"irrigation_id"`
	GardenID     uint      `gorm:"index" json:"garden_id"`
	IrrigatedAt  time.Time `gorm:"index" json:"irrigated_at"`
	VolumeLiters *float64  `json:"volume_liters"`
	Method       string    `json:"method"` // drip|sprinkler|hand
	CreatedAt    time.Time `json:"-"`
}
