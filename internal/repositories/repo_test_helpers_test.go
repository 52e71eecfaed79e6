package repositories

import (
	"database/sql"
	"testing"
	"time"

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

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func bookingRow(rows *sqlmock.Rows, id int64, code, status string, pickup, ret time.Time) *sqlmock.Rows {
	return rows.AddRow(
		id, code, 7, 3, "self_drive", pickup, ret,
		"office", "", "custom", "Jl. Sudirman 1",
		3, 350000, 1050000, 0, 50000, 0,
		52500, 25000, 1177500, 129525, 1307025,
		status, "unpaid", "transfer", "", pickup.Add(-48*time.Hour),
		"Budi", "+62811", "budi@example.com", "Avanza", "AVZ-01", "BM 1234 AB",
	)
}
