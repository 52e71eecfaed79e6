package domain

import "strings"

// VehicleStatus is the inventory state of a car.
type VehicleStatus string

const (
	VehicleAvailable   VehicleStatus = "available"
	VehicleRented      VehicleStatus = "rented"
	VehicleMaintenance VehicleStatus = "maintenance"
	VehicleInactive    VehicleStatus = "inactive"
)

func (s VehicleStatus) Valid() bool {
	switch s {
	case VehicleAvailable, VehicleRented, VehicleMaintenance, VehicleInactive:
		return true
	}
	return false
}

// BookingStatus tracks a rental from checkout to return.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingActive    BookingStatus = "active"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingActive, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

// Blocking reports whether a booking in this status holds the vehicle.
func (s BookingStatus) Blocking() bool {
	return s == BookingPending || s == BookingConfirmed || s == BookingActive
}

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingActive, BookingCancelled},
	BookingActive:    {BookingCompleted},
}

// CanTransition reports whether from -> to is an allowed status change.
// Same-status updates are allowed so a PUT can touch other fields.
func CanTransition(from, to BookingStatus) bool {
	if from == to {
		return true
	}
	for _, next := range bookingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// BlockingStatuses lists booking statuses that occupy a vehicle.
func BlockingStatuses() []BookingStatus {
	return []BookingStatus{BookingPending, BookingConfirmed, BookingActive}
}

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentUnpaid, PaymentPaid, PaymentRefunded:
		return true
	}
	return false
}

// NormalizePaymentMethod returns cash/transfer/qris or "" for anything else.
func NormalizePaymentMethod(s string) string {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case "cash", "transfer", "qris":
		return v
	}
	return ""
}

// Role is a dashboard user role. There is no permission table; the
// router decides per group which roles may write.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleStaff  Role = "staff"
	RoleViewer Role = "viewer"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleStaff, RoleViewer:
		return true
	}
	return false
}

// Roles returns every role in display order.
func Roles() []Role {
	return []Role{RoleAdmin, RoleStaff, RoleViewer}
}

// Pagination carries paging params and totals.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// Normalize clamps page/limit to the same bounds the list endpoints use.
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 50
	}
	if p.Limit > 200 {
		p.Limit = 200
	}
	return p
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}
