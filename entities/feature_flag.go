package entities

import "time"

type FeatureFlag struct {
	Name      string    `gorm:"primaryKey" json:"name"`
	Enabled   bool      `json:"enabled"`
	UpdatedAt time.Time `json:"updated_at"`
}
