package services

import (
	"context"
	"fmt"
	"time"

	"carrental/internal/domain"
	"carrental/internal/domain/models"
	"carrental/internal/repositories"
	"carrental/internal/utils"
)

// KPICache is implemented by cache.KPICache (Redis).
type KPICache interface {
	Get(ctx context.Context) (models.KPI, bool, error)
	Set(ctx context.Context, k models.KPI) error
}

type DashboardService struct {
	Reports   repositories.ReportRepository
	Bookings  repositories.BookingRepository
	Cache     KPICache
	Now       func() time.Time
	RequestID string
}

func (s DashboardService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// KPI returns the header cards, from cache when possible. Cache errors are
// logged and the numbers are computed from the database.
func (s DashboardService) KPI(ctx context.Context) (models.KPI, error) {
	if s.Cache != nil {
		k, ok, err := s.Cache.Get(ctx)
		if err != nil {
			utils.LogEvent(s.RequestID, "dashboard", "cache_get", err.Error())
		} else if ok {
			return k, nil
		}
	}

	k, err := s.computeKPI(ctx)
	if err != nil {
		return models.KPI{}, domain.InternalError{Msg: "gagal menghitung KPI", Err: err}
	}

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, k); err != nil {
			utils.LogEvent(s.RequestID, "dashboard", "cache_set", err.Error())
		}
	}
	return k, nil
}

func (s DashboardService) computeKPI(ctx context.Context) (models.KPI, error) {
	var k models.KPI
	vehicles, err := s.Reports.VehicleStatusCounts(ctx)
	if err != nil {
		return k, fmt.Errorf("vehicle counts: %w", err)
	}
	for _, n := range vehicles {
		k.TotalVehicles += n
	}
	k.AvailableVehicles = vehicles[domain.VehicleAvailable]
	k.RentedVehicles = vehicles[domain.VehicleRented]
	k.MaintenanceVehicles = vehicles[domain.VehicleMaintenance]
	k.InactiveVehicles = vehicles[domain.VehicleInactive]
	k.UtilizationRate = utils.Percent(int64(k.RentedVehicles), int64(k.TotalVehicles-k.InactiveVehicles))

	bookings, err := s.Reports.BookingStatusCounts(ctx)
	if err != nil {
		return k, fmt.Errorf("booking counts: %w", err)
	}
	k.ActiveBookings = bookings[domain.BookingActive]
	k.PendingBookings = bookings[domain.BookingPending]

	now := s.now()
	dayStart, dayEnd := utils.StartOfDay(now), utils.EndOfDay(now)
	if k.TodayPickups, err = s.Reports.CountPickups(ctx, dayStart, dayEnd); err != nil {
		return k, fmt.Errorf("today pickups: %w", err)
	}
	if k.TodayReturns, err = s.Reports.CountReturns(ctx, dayStart, dayEnd); err != nil {
		return k, fmt.Errorf("today returns: %w", err)
	}

	monthStart, monthEnd := utils.MonthRange(now)
	if k.MonthRevenue, err = s.Reports.Revenue(ctx, monthStart, monthEnd); err != nil {
		return k, fmt.Errorf("month revenue: %w", err)
	}
	return k, nil
}

const (
	defaultRecentLimit = 10
	maxRecentLimit     = 50
)

// RecentBookings lists the newest bookings for the dashboard table.
func (s DashboardService) RecentBookings(ctx context.Context, limit int) ([]models.Booking, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}
	list, err := s.Bookings.List(ctx, models.BookingFilter{Limit: limit})
	if err != nil {
		return nil, domain.InternalError{Msg: "gagal mengambil booking terbaru", Err: err}
	}
	return list, nil
}
