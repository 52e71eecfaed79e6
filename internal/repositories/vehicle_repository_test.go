package repositories

import (
	"context"
	"testing"
	"time"

	"carrental/internal/domain"
	"carrental/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
)

func TestVehicleListAppliesFiltersAndPaging(t *testing.T) {
	db, mock := newMock(t)
	repo := VehicleRepository{DB: db}

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM vehicles v WHERE \(v.code LIKE \? OR v.name LIKE \? OR v.plate_number LIKE \?\) AND v.status = \?`).
		WithArgs("%avz%", "%avz%", "%avz%", "available").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`FROM vehicles v\s+WHERE .* ORDER BY v.id DESC LIMIT \? OFFSET \?`).
		WithArgs("%avz%", "%avz%", "%avz%", "available", 10, 10).
		WillReturnRows(sqlmock.NewRows(vehicleCols).AddRow(
			3, "AVZ-01", "Toyota Avanza", "Toyota", "mpv", "manual", 7, "BM 1234 AB", "Silver", 2022,
			350000, 550000, "available", "", nil, "2025-01-10",
		))

	list, total, err := repo.List(context.Background(), models.VehicleFilter{
		Q:      "avz",
		Status: domain.VehicleAvailable,
		Page:   domain.Pagination{Page: 2, Limit: 10},
	})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if total != 1 || len(list) != 1 {
		t.Fatalf("total=%d len=%d", total, len(list))
	}
	v := list[0]
	if v.Code != "AVZ-01" || v.WithDriverRate != 550000 || v.Status != domain.VehicleAvailable {
		t.Fatalf("unexpected vehicle %+v", v)
	}
	if v.Kilometers != nil {
		t.Fatalf("kilometers should stay nil for NULL")
	}
	if v.LastService != "2025-01-10" {
		t.Fatalf("last service = %q", v.LastService)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestVehicleGetByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`FROM vehicles v\s+WHERE v.id = \?`).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(vehicleCols))

	_, err := VehicleRepository{DB: db}.GetByID(context.Background(), 99)
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestVehicleSearchAvailableExcludesOverlaps(t *testing.T) {
	db, mock := newMock(t)
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.Local)
	end := time.Date(2025, 6, 4, 9, 0, 0, 0, time.Local)

	mock.ExpectQuery(`WHERE v.status = \? AND v.type = \?\s+AND NOT EXISTS`).
		WithArgs("available", "suv", "pending", "confirmed", "active", end, start).
		WillReturnRows(sqlmock.NewRows(vehicleCols).AddRow(
			5, "FRT-01", "Fortuner", "Toyota", "suv", "automatic", 7, "BM 5555 XY", "", 0,
			900000, 0, "available", "", 42000, nil,
		))

	list, err := VehicleRepository{DB: db}.SearchAvailable(context.Background(), start, end, "suv")
	if err != nil {
		t.Fatalf("SearchAvailable error: %v", err)
	}
	if len(list) != 1 || list[0].Kilometers == nil || *list[0].Kilometers != 42000 {
		t.Fatalf("unexpected result %+v", list)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestVehicleCreateDuplicateIsConflict(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec("INSERT INTO vehicles").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'AVZ-01'"})

	_, err := VehicleRepository{DB: db}.Create(context.Background(), models.Vehicle{
		Code: "AVZ-01", Name: "Avanza", PlateNumber: "bm 1234 ab", DailyRate: 350000, Status: domain.VehicleAvailable,
	})
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestVehicleCreateUppercasesPlate(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec("INSERT INTO vehicles").
		WithArgs("AVZ-01", "Avanza", nil, "mpv", nil, 7, "BM 1234 AB", nil, nil,
			int64(350000), nil, "available", nil, nil, nil).
		WillReturnResult(sqlmock.NewResult(12, 1))

	id, err := VehicleRepository{DB: db}.Create(context.Background(), models.Vehicle{
		Code: "AVZ-01", Name: "Avanza", Type: "mpv", Seats: 7, PlateNumber: " bm 1234 ab ",
		DailyRate: 350000, Status: domain.VehicleAvailable,
	})
	if err != nil || id != 12 {
		t.Fatalf("Create = %d, %v", id, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestVehicleDeleteWithBookingsIsConflict(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec("DELETE FROM vehicles").
		WithArgs(int64(3)).
		WillReturnError(&mysql.MySQLError{Number: 1451, Message: "foreign key constraint fails"})

	if err := (VehicleRepository{DB: db}).Delete(context.Background(), 3); !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestVehicleUpdateStatusMissingRow(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec("UPDATE vehicles SET status").
		WithArgs("maintenance", int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := VehicleRepository{DB: db}.UpdateStatus(context.Background(), 404, domain.VehicleMaintenance)
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
