package models

// KPI is the dashboard header card set.
type KPI struct {
	TotalVehicles       int     `json:"totalVehicles"`
	AvailableVehicles   int     `json:"availableVehicles"`
	RentedVehicles      int     `json:"rentedVehicles"`
	MaintenanceVehicles int     `json:"maintenanceVehicles"`
	InactiveVehicles    int     `json:"inactiveVehicles"`
	ActiveBookings      int     `json:"activeBookings"`
	PendingBookings     int     `json:"pendingBookings"`
	TodayPickups        int     `json:"todayPickups"`
	TodayReturns        int     `json:"todayReturns"`
	MonthRevenue        int64   `json:"monthRevenue"`
	UtilizationRate     float64 `json:"utilizationRate"`
}

type ServiceTypeRevenue struct {
	ServiceType  string `json:"serviceType"`
	BookingCount int    `json:"bookingCount"`
	Revenue      int64  `json:"revenue"`
}

type MonthlyRevenue struct {
	Month        string `json:"month"` // YYYY-MM
	BookingCount int    `json:"bookingCount"`
	Revenue      int64  `json:"revenue"`
	Tax          int64  `json:"tax"`
}

// FinancialSummary backs the financial report screen.
type FinancialSummary struct {
	StartDate           string               `json:"startDate"`
	EndDate             string               `json:"endDate"`
	GrossRevenue        int64                `json:"grossRevenue"`
	RentalRevenue       int64                `json:"rentalRevenue"`
	FeeRevenue          int64                `json:"feeRevenue"`
	TaxCollected        int64                `json:"taxCollected"`
	BookingCount        int                  `json:"bookingCount"`
	AverageBookingValue int64                `json:"averageBookingValue"`
	ByServiceType       []ServiceTypeRevenue `json:"byServiceType"`
	Monthly             []MonthlyRevenue     `json:"monthly"`
}

type VehicleUtilization struct {
	VehicleID       int64   `json:"vehicleId"`
	VehicleCode     string  `json:"vehicleCode"`
	VehicleName     string  `json:"vehicleName"`
	BookedDays      int     `json:"bookedDays"`
	BookingCount    int     `json:"bookingCount"`
	Revenue         int64   `json:"revenue"`
	UtilizationRate float64 `json:"utilizationRate"`
}
