package models

import (
	"time"

	"carrental/internal/domain"
	"carrental/internal/pricing"
)

// Booking is one rental of one vehicle. Price columns are a snapshot of
// the breakdown computed at checkout.
type Booking struct {
	ID             int64                `json:"id"`
	Code           string               `json:"code"`
	CustomerID     int64                `json:"customerId"`
	VehicleID      int64                `json:"vehicleId"`
	PickupDate     time.Time            `json:"pickupDate"`
	ReturnDate     time.Time            `json:"returnDate"`
	PickupLocation pricing.LocationType `json:"pickupLocation"`
	PickupAddress  string               `json:"pickupAddress,omitempty"`
	ReturnLocation pricing.LocationType `json:"returnLocation"`
	ReturnAddress  string               `json:"returnAddress,omitempty"`
	Price          pricing.Breakdown    `json:"price"`
	Status         domain.BookingStatus `json:"status"`
	PaymentStatus  domain.PaymentStatus `json:"paymentStatus"`
	PaymentMethod  string               `json:"paymentMethod,omitempty"`
	Notes          string               `json:"notes,omitempty"`
	CreatedAt      time.Time            `json:"createdAt"`

	// Read-side joins.
	CustomerName  string `json:"customerName,omitempty"`
	CustomerPhone string `json:"customerPhone,omitempty"`
	CustomerEmail string `json:"customerEmail,omitempty"`
	VehicleName   string `json:"vehicleName,omitempty"`
	VehicleCode   string `json:"vehicleCode,omitempty"`
	PlateNumber   string `json:"plateNumber,omitempty"`
}

// BookingFilter selects bookings overlapping [Start, End].
type BookingFilter struct {
	Start      *time.Time
	End        *time.Time
	Status     domain.BookingStatus
	VehicleID  int64
	CustomerID int64
	Limit      int
}

// CalendarDay groups pickups and returns for the schedule calendar.
type CalendarDay struct {
	Date    string    `json:"date"`
	Pickups []Booking `json:"pickups"`
	Returns []Booking `json:"returns"`
}
