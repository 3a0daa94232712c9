package entities

import "time"

type Garden struct {
	GardenID uint   `gorm:"primaryKey" json:"garden_id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	IsIndoor bool   `json:"is_indoor"` // indoor gardens run under artificial light

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
