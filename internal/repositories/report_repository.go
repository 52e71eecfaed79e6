package repositories

import (
	"context"
	"time"

	intconfig "carrental/internal/config"
	intdb "carrental/internal/db"
	"carrental/internal/domain"
	"carrental/internal/domain/models"
)

// ReportRepository holds the aggregate queries behind the dashboard and
// the financial report. Revenue is recognised on pickup date, for paid,
// non-cancelled bookings.
type ReportRepository struct {
	DB intdb.Querier
}

func (r ReportRepository) q() intdb.Querier {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const revenueWhere = `
	WHERE payment_status = 'paid'
	  AND status <> 'cancelled'
	  AND pickup_date BETWEEN ? AND ?
`

func (r ReportRepository) VehicleStatusCounts(ctx context.Context) (map[domain.VehicleStatus]int, error) {
	rows, err := r.q().QueryContext(ctx, `SELECT status, COUNT(*) FROM vehicles GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[domain.VehicleStatus]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[domain.VehicleStatus(status)] = n
	}
	return out, rows.Err()
}

func (r ReportRepository) BookingStatusCounts(ctx context.Context) (map[domain.BookingStatus]int, error) {
	rows, err := r.q().QueryContext(ctx, `SELECT status, COUNT(*) FROM bookings GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[domain.BookingStatus]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[domain.BookingStatus(status)] = n
	}
	return out, rows.Err()
}

// CountPickups counts non-cancelled bookings picked up in [start, end].
func (r ReportRepository) CountPickups(ctx context.Context, start, end time.Time) (int, error) {
	var n int
	err := r.q().QueryRowContext(ctx, `
		SELECT COUNT(*) FROM bookings
		WHERE status <> 'cancelled' AND pickup_date BETWEEN ? AND ?
	`, start, end).Scan(&n)
	return n, err
}

// CountReturns counts non-cancelled bookings due back in [start, end].
func (r ReportRepository) CountReturns(ctx context.Context, start, end time.Time) (int, error) {
	var n int
	err := r.q().QueryRowContext(ctx, `
		SELECT COUNT(*) FROM bookings
		WHERE status <> 'cancelled' AND return_date BETWEEN ? AND ?
	`, start, end).Scan(&n)
	return n, err
}

func (r ReportRepository) Revenue(ctx context.Context, start, end time.Time) (int64, error) {
	var total int64
	err := r.q().QueryRowContext(ctx, `SELECT COALESCE(SUM(total), 0) FROM bookings`+revenueWhere, start, end).Scan(&total)
	return total, err
}

// FinancialTotals fills the headline numbers of a summary.
func (r ReportRepository) FinancialTotals(ctx context.Context, start, end time.Time) (models.FinancialSummary, error) {
	var s models.FinancialSummary
	err := r.q().QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(total), 0),
			COALESCE(SUM(subtotal), 0),
			COALESCE(SUM(delivery_fee + return_fee + driver_fee + insurance_fee + service_fee), 0),
			COALESCE(SUM(tax), 0)
		FROM bookings
	`+revenueWhere, start, end).Scan(
		&s.BookingCount,
		&s.GrossRevenue,
		&s.RentalRevenue,
		&s.FeeRevenue,
		&s.TaxCollected,
	)
	return s, err
}

func (r ReportRepository) RevenueByServiceType(ctx context.Context, start, end time.Time) ([]models.ServiceTypeRevenue, error) {
	rows, err := r.q().QueryContext(ctx, `
		SELECT service_type, COUNT(*), COALESCE(SUM(total), 0)
		FROM bookings
	`+revenueWhere+`
		GROUP BY service_type
		ORDER BY service_type ASC
	`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.ServiceTypeRevenue{}
	for rows.Next() {
		var s models.ServiceTypeRevenue
		if err := rows.Scan(&s.ServiceType, &s.BookingCount, &s.Revenue); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r ReportRepository) MonthlyRevenue(ctx context.Context, start, end time.Time) ([]models.MonthlyRevenue, error) {
	rows, err := r.q().QueryContext(ctx, `
		SELECT DATE_FORMAT(pickup_date, '%Y-%m') AS ym, COUNT(*), COALESCE(SUM(total), 0), COALESCE(SUM(tax), 0)
		FROM bookings
	`+revenueWhere+`
		GROUP BY ym
		ORDER BY ym ASC
	`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.MonthlyRevenue{}
	for rows.Next() {
		var m models.MonthlyRevenue
		if err := rows.Scan(&m.Month, &m.BookingCount, &m.Revenue, &m.Tax); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
