package services

import (
	"context"
	"strings"
	"time"

	"carrental/internal/domain"
	"carrental/internal/domain/models"
	"carrental/internal/pricing"
	"carrental/internal/repositories"
	"carrental/internal/utils"
)

type ReportFilter struct {
	StartDate string
	EndDate   string
}

type ReportsService struct {
	Reports  repositories.ReportRepository
	Vehicles repositories.VehicleRepository
	Bookings repositories.BookingRepository
	Now      func() time.Time
}

func (s ReportsService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// window resolves the filter to [start 00:00, end 23:59:59]; an empty
// filter means the current month.
func (s ReportsService) window(f ReportFilter) (time.Time, time.Time, error) {
	start, end := utils.MonthRange(s.now())
	if v := strings.TrimSpace(f.StartDate); v != "" {
		t, err := utils.ParseDate(v)
		if err != nil {
			return start, end, domain.ValidationError{Field: "start_date", Msg: "format harus YYYY-MM-DD", Err: err}
		}
		start = t
		if strings.TrimSpace(f.EndDate) == "" {
			_, end = utils.MonthRange(t)
		}
	}
	if v := strings.TrimSpace(f.EndDate); v != "" {
		t, err := utils.ParseDate(v)
		if err != nil {
			return start, end, domain.ValidationError{Field: "end_date", Msg: "format harus YYYY-MM-DD", Err: err}
		}
		end = utils.EndOfDay(t)
	}
	if end.Before(start) {
		return start, end, domain.ValidationError{Field: "end_date", Msg: "lebih awal dari start_date"}
	}
	return start, end, nil
}

// FinancialSummary totals paid, non-cancelled bookings by pickup date.
func (s ReportsService) FinancialSummary(ctx context.Context, f ReportFilter) (models.FinancialSummary, error) {
	start, end, err := s.window(f)
	if err != nil {
		return models.FinancialSummary{}, err
	}

	sum, err := s.Reports.FinancialTotals(ctx, start, end)
	if err != nil {
		return models.FinancialSummary{}, domain.InternalError{Msg: "gagal menghitung laporan", Err: err}
	}
	if sum.ByServiceType, err = s.Reports.RevenueByServiceType(ctx, start, end); err != nil {
		return models.FinancialSummary{}, domain.InternalError{Msg: "gagal menghitung laporan", Err: err}
	}
	if sum.Monthly, err = s.Reports.MonthlyRevenue(ctx, start, end); err != nil {
		return models.FinancialSummary{}, domain.InternalError{Msg: "gagal menghitung laporan", Err: err}
	}

	sum.StartDate = utils.FormatDate(start)
	sum.EndDate = utils.FormatDate(end)
	if sum.BookingCount > 0 {
		n := int64(sum.BookingCount)
		sum.AverageBookingValue = (sum.GrossRevenue + n/2) / n
	}
	return sum, nil
}

// VehicleUtilization reports, per vehicle, how many days in the window it
// was held by a non-cancelled booking. Bookings are clipped to the window.
// Revenue follows FinancialSummary: paid bookings picked up in the window.
func (s ReportsService) VehicleUtilization(ctx context.Context, f ReportFilter) ([]models.VehicleUtilization, error) {
	start, end, err := s.window(f)
	if err != nil {
		return nil, err
	}
	windowDays, err := pricing.DurationDays(start, end)
	if err != nil {
		return nil, err
	}
	// end is 23:59:59 of the last day, so the window itself spans one more day
	if !utils.StartOfDay(start).Equal(utils.StartOfDay(end)) {
		windowDays++
	}

	vehicles, err := s.Vehicles.All(ctx)
	if err != nil {
		return nil, domain.InternalError{Msg: "gagal mengambil kendaraan", Err: err}
	}
	bookings, err := s.Bookings.List(ctx, models.BookingFilter{Start: &start, End: &end})
	if err != nil {
		return nil, domain.InternalError{Msg: "gagal mengambil booking", Err: err}
	}

	byVehicle := make(map[int64]*models.VehicleUtilization, len(vehicles))
	out := make([]models.VehicleUtilization, len(vehicles))
	for i, v := range vehicles {
		out[i] = models.VehicleUtilization{VehicleID: v.ID, VehicleCode: v.Code, VehicleName: v.Name}
		byVehicle[v.ID] = &out[i]
	}

	for _, b := range bookings {
		u, ok := byVehicle[b.VehicleID]
		if !ok || b.Status == domain.BookingCancelled {
			continue
		}
		days := bookedDaysIn(b.PickupDate, b.ReturnDate, start, end)
		if days == 0 {
			continue
		}
		u.BookedDays += days
		u.BookingCount++
		if b.PaymentStatus == domain.PaymentPaid && !b.PickupDate.Before(start) && !b.PickupDate.After(end) {
			u.Revenue += b.Price.Total
		}
	}

	for i := range out {
		if out[i].BookedDays > windowDays {
			out[i].BookedDays = windowDays
		}
		out[i].UtilizationRate = utils.Percent(int64(out[i].BookedDays), int64(windowDays))
	}
	return out, nil
}

// bookedDaysIn clips [pickup, ret) to the window and counts the calendar
// days held. A booking cut at the window end keeps the last day whole; one
// that only touches the window edge counts zero.
func bookedDaysIn(pickup, ret, start, end time.Time) int {
	from, to := pickup, ret
	if from.Before(start) {
		from = start
	}
	if to.After(end) {
		to = utils.StartOfDay(end).AddDate(0, 0, 1)
	}
	if !to.After(from) {
		return 0
	}
	days, err := pricing.DurationDays(from, to)
	if err != nil {
		return 0
	}
	return days
}
