package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"carrental/internal/domain/models"
	"carrental/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
)

type fakeKPICache struct {
	kpi    models.KPI
	hit    bool
	getErr error
	sets   int
}

func (f *fakeKPICache) Get(context.Context) (models.KPI, bool, error) {
	return f.kpi, f.hit, f.getErr
}

func (f *fakeKPICache) Set(_ context.Context, k models.KPI) error {
	f.kpi = k
	f.sets++
	return nil
}

func expectKPIQueries(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(`SELECT status, COUNT\(\*\) FROM vehicles GROUP BY status`).
		WillReturnRows(sqlmock.NewRows([]string{"status", "n"}).
			AddRow("available", 5).
			AddRow("rented", 3).
			AddRow("maintenance", 1).
			AddRow("inactive", 1))
	mock.ExpectQuery(`SELECT status, COUNT\(\*\) FROM bookings GROUP BY status`).
		WillReturnRows(sqlmock.NewRows([]string{"status", "n"}).
			AddRow("active", 3).
			AddRow("pending", 2).
			AddRow("completed", 10))
	mock.ExpectQuery(`pickup_date BETWEEN`).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(2))
	mock.ExpectQuery(`return_date BETWEEN`).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))
	mock.ExpectQuery(`SUM\(total\)`).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(int64(7_500_000)))
}

func TestDashboardKPIComputesAndCaches(t *testing.T) {
	db, mock := newMock(t)
	expectKPIQueries(mock)
	cache := &fakeKPICache{}

	svc := DashboardService{
		Reports: repositories.ReportRepository{DB: db},
		Cache:   cache,
		Now:     func() time.Time { return fixedNow() },
	}
	k, err := svc.KPI(context.Background())
	if err != nil {
		t.Fatalf("KPI error: %v", err)
	}
	if k.TotalVehicles != 10 || k.AvailableVehicles != 5 || k.RentedVehicles != 3 {
		t.Fatalf("vehicle counts wrong: %+v", k)
	}
	// 3 rented of 9 non-inactive
	if k.UtilizationRate != 33.3 {
		t.Fatalf("utilization = %v", k.UtilizationRate)
	}
	if k.ActiveBookings != 3 || k.PendingBookings != 2 || k.TodayPickups != 2 || k.TodayReturns != 1 {
		t.Fatalf("booking counts wrong: %+v", k)
	}
	if k.MonthRevenue != 7_500_000 {
		t.Fatalf("revenue = %d", k.MonthRevenue)
	}
	if cache.sets != 1 {
		t.Fatalf("expected one cache write, got %d", cache.sets)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDashboardKPIServesCacheHit(t *testing.T) {
	cache := &fakeKPICache{hit: true, kpi: models.KPI{TotalVehicles: 42}}
	k, err := DashboardService{Cache: cache}.KPI(context.Background())
	if err != nil {
		t.Fatalf("KPI error: %v", err)
	}
	if k.TotalVehicles != 42 || cache.sets != 0 {
		t.Fatalf("expected cached value, got %+v (sets=%d)", k, cache.sets)
	}
}

func TestDashboardKPIFallsBackWhenCacheFails(t *testing.T) {
	db, mock := newMock(t)
	expectKPIQueries(mock)
	cache := &fakeKPICache{getErr: errors.New("redis down")}

	svc := DashboardService{Reports: repositories.ReportRepository{DB: db}, Cache: cache, Now: fixedNow}
	if _, err := svc.KPI(context.Background()); err != nil {
		t.Fatalf("KPI error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRecentBookingsClampsLimit(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`LIMIT \?`).WithArgs(50).WillReturnRows(sqlmock.NewRows(bookingCols))

	svc := DashboardService{Bookings: repositories.BookingRepository{DB: db}}
	if _, err := svc.RecentBookings(context.Background(), 500); err != nil {
		t.Fatalf("RecentBookings error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
