package models

import "time"

// ClinicService is a catalog entry consumed read-only for duration lookups.
type ClinicService struct {
	ID              int64     `json:"id"`
	CategoryID      *int64    `json:"category_id"`
	Name            string    `json:"name"`
	DurationMinutes *int      `json:"duration_minutes"`
	Price           *float64  `json:"price"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
