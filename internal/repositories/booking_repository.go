package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	intconfig "carrental/internal/config"
	intdb "carrental/internal/db"
	"carrental/internal/domain"
	"carrental/internal/domain/models"
	"carrental/internal/pricing"
)

const bookingSelect = `
	SELECT
		b.id,
		b.code,
		b.customer_id,
		b.vehicle_id,
		b.service_type,
		b.pickup_date,
		b.return_date,
		b.pickup_location,
		COALESCE(b.pickup_address, ''),
		b.return_location,
		COALESCE(b.return_address, ''),
		b.duration_days,
		b.rate_per_day,
		b.subtotal,
		b.delivery_fee,
		b.return_fee,
		b.driver_fee,
		b.insurance_fee,
		b.service_fee,
		b.total_before_tax,
		b.tax,
		b.total,
		b.status,
		b.payment_status,
		COALESCE(b.payment_method, ''),
		COALESCE(b.notes, ''),
		b.created_at,
		COALESCE(c.name, ''),
		COALESCE(c.phone, ''),
		COALESCE(c.email, ''),
		COALESCE(v.name, ''),
		COALESCE(v.code, ''),
		COALESCE(v.plate_number, '')
	FROM bookings b
	LEFT JOIN customers c ON c.id = b.customer_id
	LEFT JOIN vehicles v ON v.id = b.vehicle_id
`

type BookingRepository struct {
	DB intdb.Querier
}

func (r BookingRepository) q() intdb.Querier {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r BookingRepository) WithTx(tx *sql.Tx) BookingRepository {
	return BookingRepository{DB: tx}
}

func scanBooking(s rowScanner) (models.Booking, error) {
	var b models.Booking
	var service, pickupLoc, returnLoc, status, paymentStatus string
	if err := s.Scan(
		&b.ID,
		&b.Code,
		&b.CustomerID,
		&b.VehicleID,
		&service,
		&b.PickupDate,
		&b.ReturnDate,
		&pickupLoc,
		&b.PickupAddress,
		&returnLoc,
		&b.ReturnAddress,
		&b.Price.DurationDays,
		&b.Price.RatePerDay,
		&b.Price.Subtotal,
		&b.Price.DeliveryFee,
		&b.Price.ReturnFee,
		&b.Price.DriverFee,
		&b.Price.InsuranceFee,
		&b.Price.ServiceFee,
		&b.Price.TotalBeforeTax,
		&b.Price.Tax,
		&b.Price.Total,
		&status,
		&paymentStatus,
		&b.PaymentMethod,
		&b.Notes,
		&b.CreatedAt,
		&b.CustomerName,
		&b.CustomerPhone,
		&b.CustomerEmail,
		&b.VehicleName,
		&b.VehicleCode,
		&b.PlateNumber,
	); err != nil {
		return models.Booking{}, err
	}
	b.Price.ServiceType = pricing.ServiceType(service)
	b.PickupLocation = pricing.LocationType(pickupLoc)
	b.ReturnLocation = pricing.LocationType(returnLoc)
	b.Status = domain.BookingStatus(status)
	b.PaymentStatus = domain.PaymentStatus(paymentStatus)
	return b, nil
}

// List returns bookings overlapping the filter window, soonest pickup first.
// Without a window the newest bookings come first.
func (r BookingRepository) List(ctx context.Context, f models.BookingFilter) ([]models.Booking, error) {
	where := []string{}
	args := []any{}
	if f.End != nil {
		where = append(where, "b.pickup_date <= ?")
		args = append(args, *f.End)
	}
	if f.Start != nil {
		where = append(where, "b.return_date >= ?")
		args = append(args, *f.Start)
	}
	if f.Status != "" {
		where = append(where, "b.status = ?")
		args = append(args, string(f.Status))
	}
	if f.VehicleID > 0 {
		where = append(where, "b.vehicle_id = ?")
		args = append(args, f.VehicleID)
	}
	if f.CustomerID > 0 {
		where = append(where, "b.customer_id = ?")
		args = append(args, f.CustomerID)
	}

	query := bookingSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	if f.Start != nil || f.End != nil {
		query += " ORDER BY b.pickup_date ASC, b.id ASC"
	} else {
		query += " ORDER BY b.created_at DESC, b.id DESC"
	}
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := r.q().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

func (r BookingRepository) GetByID(ctx context.Context, id int64) (models.Booking, error) {
	b, err := scanBooking(r.q().QueryRowContext(ctx, bookingSelect+" WHERE b.id = ? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Booking{}, domain.NotFoundError{Resource: "booking", Err: err}
	}
	return b, err
}

func (r BookingRepository) GetByCode(ctx context.Context, code string) (models.Booking, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	b, err := scanBooking(r.q().QueryRowContext(ctx, bookingSelect+" WHERE b.code = ? LIMIT 1", code))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Booking{}, domain.NotFoundError{Resource: "booking", Err: err}
	}
	return b, err
}

// HasOverlap reports whether another blocking booking holds the vehicle
// in [start, end). excludeID skips the booking being edited.
func (r BookingRepository) HasOverlap(ctx context.Context, vehicleID int64, start, end time.Time, excludeID int64) (bool, error) {
	blocking := domain.BlockingStatuses()
	args := []any{vehicleID}
	for _, s := range blocking {
		args = append(args, string(s))
	}
	args = append(args, end, start, excludeID)

	var found int64
	err := r.q().QueryRowContext(ctx, `
		SELECT id FROM bookings
		WHERE vehicle_id = ?
		  AND status IN (`+intdb.Placeholders(len(blocking))+`)
		  AND pickup_date < ?
		  AND return_date > ?
		  AND id <> ?
		LIMIT 1
	`, args...).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r BookingRepository) Create(ctx context.Context, b models.Booking) (int64, error) {
	res, err := r.q().ExecContext(ctx, `
		INSERT INTO bookings
			(code, customer_id, vehicle_id, service_type, pickup_date, return_date,
			 pickup_location, pickup_address, return_location, return_address,
			 duration_days, rate_per_day, subtotal, delivery_fee, return_fee, driver_fee,
			 insurance_fee, service_fee, total_before_tax, tax, total,
			 status, payment_status, payment_method, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW())
	`,
		b.Code,
		b.CustomerID,
		b.VehicleID,
		string(b.Price.ServiceType),
		b.PickupDate,
		b.ReturnDate,
		string(b.PickupLocation),
		intdb.NullIfEmpty(b.PickupAddress),
		string(b.ReturnLocation),
		intdb.NullIfEmpty(b.ReturnAddress),
		b.Price.DurationDays,
		b.Price.RatePerDay,
		b.Price.Subtotal,
		b.Price.DeliveryFee,
		b.Price.ReturnFee,
		b.Price.DriverFee,
		b.Price.InsuranceFee,
		b.Price.ServiceFee,
		b.Price.TotalBeforeTax,
		b.Price.Tax,
		b.Price.Total,
		string(b.Status),
		string(b.PaymentStatus),
		intdb.NullIfEmpty(b.PaymentMethod),
		intdb.NullIfEmpty(b.Notes),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Update rewrites every mutable column, including the price snapshot.
func (r BookingRepository) Update(ctx context.Context, b models.Booking) error {
	res, err := r.q().ExecContext(ctx, `
		UPDATE bookings
		SET vehicle_id = ?, service_type = ?, pickup_date = ?, return_date = ?,
		    pickup_location = ?, pickup_address = ?, return_location = ?, return_address = ?,
		    duration_days = ?, rate_per_day = ?, subtotal = ?, delivery_fee = ?, return_fee = ?,
		    driver_fee = ?, insurance_fee = ?, service_fee = ?, total_before_tax = ?, tax = ?, total = ?,
		    status = ?, payment_status = ?, payment_method = ?, notes = ?
		WHERE id = ?
	`,
		b.VehicleID,
		string(b.Price.ServiceType),
		b.PickupDate,
		b.ReturnDate,
		string(b.PickupLocation),
		intdb.NullIfEmpty(b.PickupAddress),
		string(b.ReturnLocation),
		intdb.NullIfEmpty(b.ReturnAddress),
		b.Price.DurationDays,
		b.Price.RatePerDay,
		b.Price.Subtotal,
		b.Price.DeliveryFee,
		b.Price.ReturnFee,
		b.Price.DriverFee,
		b.Price.InsuranceFee,
		b.Price.ServiceFee,
		b.Price.TotalBeforeTax,
		b.Price.Tax,
		b.Price.Total,
		string(b.Status),
		string(b.PaymentStatus),
		intdb.NullIfEmpty(b.PaymentMethod),
		intdb.NullIfEmpty(b.Notes),
		b.ID,
	)
	if err != nil {
		return err
	}
	return requireAffected(res, "booking")
}
