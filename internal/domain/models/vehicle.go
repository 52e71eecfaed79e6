package models

import "carrental/internal/domain"

// Vehicle is a car in the rental fleet.
type Vehicle struct {
	ID             int64                `json:"id"`
	Code           string               `json:"code"`
	Name           string               `json:"name"`
	Brand          string               `json:"brand"`
	Type           string               `json:"type"` // mpv, suv, sedan, minibus ...
	Transmission   string               `json:"transmission"`
	Seats          int                  `json:"seats"`
	PlateNumber    string               `json:"plateNumber"`
	Color          string               `json:"color,omitempty"`
	Year           int                  `json:"year,omitempty"`
	DailyRate      int64                `json:"dailyRate"`
	WithDriverRate int64                `json:"withDriverRate"`
	Status         domain.VehicleStatus `json:"status"`
	ImageURL       string               `json:"imageUrl,omitempty"`
	Kilometers     *int                 `json:"kilometers,omitempty"`  // nullable
	LastService    string               `json:"lastService,omitempty"` // YYYY-MM-DD atau ""
}

// VehicleFilter drives the inventory list.
type VehicleFilter struct {
	Q      string
	Status domain.VehicleStatus
	Type   string
	Page   domain.Pagination
}
