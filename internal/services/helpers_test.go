package services

import (
	"database/sql"
	"testing"
	"time"

	"carrental/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
)

var vehicleCols = []string{
	"id", "code", "name", "brand", "type", "transmission", "seats", "plate_number", "color", "year",
	"daily_rate", "with_driver_rate", "status", "image_url", "kilometers", "last_service",
}

var bookingCols = []string{
	"id", "code", "customer_id", "vehicle_id", "service_type", "pickup_date", "return_date",
	"pickup_location", "pickup_address", "return_location", "return_address",
	"duration_days", "rate_per_day", "subtotal", "delivery_fee", "return_fee", "driver_fee",
	"insurance_fee", "service_fee", "total_before_tax", "tax", "total",
	"status", "payment_status", "payment_method", "notes", "created_at",
	"customer_name", "customer_phone", "customer_email", "vehicle_name", "vehicle_code", "plate_number",
}

var customerCols = []string{"id", "name", "email", "phone", "address", "id_number", "created_at"}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func avanzaRow(status string) *sqlmock.Rows {
	return sqlmock.NewRows(vehicleCols).AddRow(
		3, "AVZ-01", "Toyota Avanza", "Toyota", "mpv", "manual", 7, "BM 1234 AB", "Silver", 2022,
		350000, 550000, status, "", nil, nil,
	)
}

// bookingRow mirrors a 3-day self-drive Avanza rental for customer 7.
func bookingRow(id int64, code, status, payment string, pickup, ret time.Time) *sqlmock.Rows {
	return sqlmock.NewRows(bookingCols).AddRow(
		id, code, 7, 3, "self_drive", pickup, ret,
		"office", "", "office", "",
		3, 350000, 1050000, 0, 0, 0,
		52500, 25000, 1127500, 124025, 1251525,
		status, payment, "transfer", "", pickup.Add(-24*time.Hour),
		"Budi", "+628112345678", "budi@example.com", "Toyota Avanza", "AVZ-01", "BM 1234 AB",
	)
}

func fixedNow() time.Time {
	return time.Date(2025, 6, 1, 8, 0, 0, 0, time.Local)
}

func repos(db *sql.DB) (repositories.VehicleRepository, repositories.BookingRepository, repositories.CustomerRepository) {
	return repositories.VehicleRepository{DB: db}, repositories.BookingRepository{DB: db}, repositories.CustomerRepository{DB: db}
}
