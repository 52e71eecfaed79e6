package models

import "time"

type Customer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address,omitempty"`
	IDNumber  string    `json:"idNumber,omitempty"` // KTP / SIM
	CreatedAt time.Time `json:"createdAt"`
}

// CustomerSummary adds booking aggregates for the customer table.
type CustomerSummary struct {
	Customer
	BookingCount int   `json:"bookingCount"`
	TotalSpent   int64 `json:"totalSpent"`
}
