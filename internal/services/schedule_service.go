package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	intconfig "carrental/internal/config"
	intdb "carrental/internal/db"
	"carrental/internal/domain"
	"carrental/internal/domain/models"
	"carrental/internal/pricing"
	"carrental/internal/repositories"
	"carrental/internal/utils"
)

// ScheduleService is the admin side of bookings: list, manual create,
// edit with status transitions, and the pickup/return calendar.
type ScheduleService struct {
	DB        *sql.DB
	Vehicles  repositories.VehicleRepository
	Bookings  repositories.BookingRepository
	Customers repositories.CustomerRepository
	Rules     pricing.Rules
	Now       func() time.Time
	NewCode   func(time.Time) string
	RequestID string
}

func (s ScheduleService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s ScheduleService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

type ScheduleQuery struct {
	StartDate string
	EndDate   string
	Status    string
	VehicleID int64
}

// List returns bookings overlapping [start_date, end_date]. Both dates are
// optional; end_date is inclusive.
func (s ScheduleService) List(ctx context.Context, q ScheduleQuery) ([]models.Booking, error) {
	var f models.BookingFilter
	if v := strings.TrimSpace(q.StartDate); v != "" {
		t, err := utils.ParseDate(v)
		if err != nil {
			return nil, domain.ValidationError{Field: "start_date", Msg: "format harus YYYY-MM-DD", Err: err}
		}
		f.Start = &t
	}
	if v := strings.TrimSpace(q.EndDate); v != "" {
		t, err := utils.ParseDate(v)
		if err != nil {
			return nil, domain.ValidationError{Field: "end_date", Msg: "format harus YYYY-MM-DD", Err: err}
		}
		t = utils.EndOfDay(t)
		f.End = &t
	}
	if f.Start != nil && f.End != nil && f.End.Before(*f.Start) {
		return nil, domain.ValidationError{Field: "end_date", Msg: "lebih awal dari start_date"}
	}
	if v := strings.ToLower(strings.TrimSpace(q.Status)); v != "" {
		st := domain.BookingStatus(v)
		if !st.Valid() {
			return nil, domain.ValidationError{Field: "status", Msg: "status tidak dikenal"}
		}
		f.Status = st
	}
	f.VehicleID = q.VehicleID

	list, err := s.Bookings.List(ctx, f)
	if err != nil {
		return nil, domain.InternalError{Msg: "gagal mengambil jadwal", Err: err}
	}
	return list, nil
}

// ScheduleCreateRequest is the admin booking form. Either CustomerID or
// Customer must be set.
type ScheduleCreateRequest struct {
	RentalRequest
	CustomerID    int64         `json:"customerId"`
	Customer      CustomerInput `json:"customer"`
	Status        string        `json:"status"`
	PaymentStatus string        `json:"paymentStatus"`
	PaymentMethod string        `json:"paymentMethod"`
	Notes         string        `json:"notes"`
}

func (s ScheduleService) Create(ctx context.Context, req ScheduleCreateRequest) (models.Booking, error) {
	r, err := parseRental(req.RentalRequest)
	if err != nil {
		return models.Booking{}, err
	}

	status := domain.BookingPending
	if v := strings.ToLower(strings.TrimSpace(req.Status)); v != "" {
		status = domain.BookingStatus(v)
	}
	if !status.Blocking() {
		return models.Booking{}, domain.ValidationError{Field: "status", Msg: "booking baru harus pending, confirmed atau active"}
	}
	payment, err := parsePaymentStatus(req.PaymentStatus)
	if err != nil {
		return models.Booking{}, err
	}

	nb := newBooking{
		Rental:        r,
		CustomerID:    req.CustomerID,
		Status:        status,
		PaymentStatus: payment,
		PaymentMethod: domain.NormalizePaymentMethod(req.PaymentMethod),
		Notes:         req.Notes,
	}
	if req.CustomerID <= 0 {
		if nb.Customer, err = req.Customer.normalize(); err != nil {
			return models.Booking{}, err
		}
	}

	code := s.NewCode
	if code == nil {
		code = utils.NewBookingCode
	}
	w := bookingWriter{
		DB:        s.db(),
		Vehicles:  s.Vehicles,
		Bookings:  s.Bookings,
		Customers: s.Customers,
		Rules:     s.Rules,
		Now:       s.now,
		NewCode:   code,
	}
	b, err := w.create(ctx, nb)
	if err != nil {
		return models.Booking{}, wrapWriteErr("gagal menyimpan booking", err)
	}
	utils.LogEvent(s.RequestID, "schedule", "create", fmt.Sprintf("code=%s vehicle_id=%d status=%s", b.Code, b.VehicleID, b.Status))
	return b, nil
}

func parsePaymentStatus(v string) (domain.PaymentStatus, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return domain.PaymentUnpaid, nil
	}
	ps := domain.PaymentStatus(v)
	if !ps.Valid() {
		return "", domain.ValidationError{Field: "paymentStatus", Msg: "status pembayaran tidak dikenal"}
	}
	return ps, nil
}

// ScheduleUpdateRequest: nil fields are left unchanged.
type ScheduleUpdateRequest struct {
	VehicleID      *int64  `json:"vehicleId"`
	PickupDate     *string `json:"pickupDate"`
	ReturnDate     *string `json:"returnDate"`
	ServiceType    *string `json:"serviceType"`
	PickupLocation *string `json:"pickupLocation"`
	PickupAddress  *string `json:"pickupAddress"`
	ReturnLocation *string `json:"returnLocation"`
	ReturnAddress  *string `json:"returnAddress"`
	Status         *string `json:"status"`
	PaymentStatus  *string `json:"paymentStatus"`
	PaymentMethod  *string `json:"paymentMethod"`
	Notes          *string `json:"notes"`
}

func (u ScheduleUpdateRequest) touchesRental() bool {
	return u.VehicleID != nil || u.PickupDate != nil || u.ReturnDate != nil || u.ServiceType != nil ||
		u.PickupLocation != nil || u.PickupAddress != nil || u.ReturnLocation != nil || u.ReturnAddress != nil
}

// mergeRental overlays the update onto the stored booking.
func (u ScheduleUpdateRequest) mergeRental(b models.Booking) RentalRequest {
	req := RentalRequest{
		VehicleID:      b.VehicleID,
		PickupDate:     utils.FormatDateTime(b.PickupDate),
		ReturnDate:     utils.FormatDateTime(b.ReturnDate),
		ServiceType:    string(b.Price.ServiceType),
		PickupLocation: string(b.PickupLocation),
		PickupAddress:  b.PickupAddress,
		ReturnLocation: string(b.ReturnLocation),
		ReturnAddress:  b.ReturnAddress,
	}
	if u.VehicleID != nil {
		req.VehicleID = *u.VehicleID
	}
	if u.PickupDate != nil {
		req.PickupDate = *u.PickupDate
	}
	if u.ReturnDate != nil {
		req.ReturnDate = *u.ReturnDate
	}
	if u.ServiceType != nil {
		req.ServiceType = *u.ServiceType
	}
	if u.PickupLocation != nil {
		req.PickupLocation = *u.PickupLocation
	}
	if u.PickupAddress != nil {
		req.PickupAddress = *u.PickupAddress
	}
	if u.ReturnLocation != nil {
		req.ReturnLocation = *u.ReturnLocation
	}
	if u.ReturnAddress != nil {
		req.ReturnAddress = *u.ReturnAddress
	}
	return req
}

// Update edits a booking in one transaction. Rental changes re-price the
// booking and re-check overlap; status changes follow CanTransition and
// move the vehicle between available and rented.
func (s ScheduleService) Update(ctx context.Context, id int64, req ScheduleUpdateRequest) (models.Booking, error) {
	if id <= 0 {
		return models.Booking{}, domain.ValidationError{Field: "id", Msg: "id tidak valid"}
	}

	var out models.Booking
	var from domain.BookingStatus
	err := intdb.WithTx(ctx, s.db(), func(tx *sql.Tx) error {
		vehicles := s.Vehicles.WithTx(tx)
		bookings := s.Bookings.WithTx(tx)

		cur, err := bookings.GetByID(ctx, id)
		if err != nil {
			return err
		}
		from = cur.Status
		next := cur

		if req.Status != nil {
			to := domain.BookingStatus(strings.ToLower(strings.TrimSpace(*req.Status)))
			if !to.Valid() {
				return domain.ValidationError{Field: "status", Msg: "status tidak dikenal"}
			}
			if !domain.CanTransition(cur.Status, to) {
				return domain.ValidationError{Field: "status", Msg: fmt.Sprintf("tidak bisa mengubah status %s ke %s", cur.Status, to)}
			}
			next.Status = to
		}
		if req.PaymentStatus != nil {
			ps, err := parsePaymentStatus(*req.PaymentStatus)
			if err != nil {
				return err
			}
			next.PaymentStatus = ps
		}
		if req.PaymentMethod != nil {
			next.PaymentMethod = domain.NormalizePaymentMethod(*req.PaymentMethod)
		}
		if req.Notes != nil {
			next.Notes = strings.TrimSpace(*req.Notes)
		}

		if req.touchesRental() {
			if !cur.Status.Blocking() {
				return domain.ValidationError{Field: "status", Msg: "booking yang sudah selesai atau batal tidak bisa diubah jadwalnya"}
			}
			r, err := parseRental(req.mergeRental(cur))
			if err != nil {
				return err
			}
			v, err := vehicles.LockByID(ctx, r.VehicleID)
			if err != nil {
				return err
			}
			if v.ID != cur.VehicleID && v.Status != domain.VehicleAvailable {
				return domain.ConflictError{Resource: "kendaraan", Msg: "sedang tidak tersedia untuk disewa"}
			}
			price, err := priceRental(s.Rules, v, r)
			if err != nil {
				return err
			}
			next.VehicleID = v.ID
			next.PickupDate, next.ReturnDate = r.Pickup, r.Return
			next.PickupLocation, next.PickupAddress = r.PickupLocation, r.PickupAddress
			next.ReturnLocation, next.ReturnAddress = r.ReturnLocation, r.ReturnAddress
			next.Price = price
		} else if next.Status.Blocking() {
			// status-only update still serialises on the vehicle row
			if _, err := vehicles.LockByID(ctx, cur.VehicleID); err != nil {
				return err
			}
		}

		if next.Status.Blocking() {
			busy, err := bookings.HasOverlap(ctx, next.VehicleID, next.PickupDate, next.ReturnDate, cur.ID)
			if err != nil {
				return err
			}
			if busy {
				return domain.ConflictError{Resource: "kendaraan", Msg: "sudah dibooking pada tanggal tersebut"}
			}
		}

		if err := bookings.Update(ctx, next); err != nil {
			return err
		}
		if err := syncVehicleStatus(ctx, vehicles, cur, next); err != nil {
			return err
		}

		out, err = bookings.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return models.Booking{}, wrapWriteErr("gagal mengubah booking", err)
	}
	utils.LogEvent(s.RequestID, "schedule", "update", fmt.Sprintf("id=%d status=%s->%s total=%d", id, from, out.Status, out.Price.Total))
	return out, nil
}

// syncVehicleStatus: going active rents the car; leaving active frees it.
func syncVehicleStatus(ctx context.Context, vehicles repositories.VehicleRepository, cur, next models.Booking) error {
	switch {
	case next.Status == domain.BookingActive && (cur.Status != domain.BookingActive || cur.VehicleID != next.VehicleID):
		if cur.Status == domain.BookingActive && cur.VehicleID != next.VehicleID {
			if err := vehicles.UpdateStatus(ctx, cur.VehicleID, domain.VehicleAvailable); err != nil {
				return err
			}
		}
		return vehicles.UpdateStatus(ctx, next.VehicleID, domain.VehicleRented)
	case cur.Status == domain.BookingActive && (next.Status == domain.BookingCompleted || next.Status == domain.BookingCancelled):
		return vehicles.UpdateStatus(ctx, cur.VehicleID, domain.VehicleAvailable)
	}
	return nil
}

// Calendar groups a month's pickups and returns per day. Days without
// activity are omitted.
func (s ScheduleService) Calendar(ctx context.Context, month string) ([]models.CalendarDay, error) {
	ref := s.now()
	if v := strings.TrimSpace(month); v != "" {
		t, err := time.ParseInLocation(utils.LayoutMonth, v, time.Local)
		if err != nil {
			return nil, domain.ValidationError{Field: "month", Msg: "format harus YYYY-MM", Err: err}
		}
		ref = t
	}
	start, end := utils.MonthRange(ref)

	list, err := s.Bookings.List(ctx, models.BookingFilter{Start: &start, End: &end})
	if err != nil {
		return nil, domain.InternalError{Msg: "gagal mengambil kalender", Err: err}
	}

	days := map[string]*models.CalendarDay{}
	day := func(t time.Time) *models.CalendarDay {
		key := utils.FormatDate(t)
		d, ok := days[key]
		if !ok {
			d = &models.CalendarDay{Date: key, Pickups: []models.Booking{}, Returns: []models.Booking{}}
			days[key] = d
		}
		return d
	}
	inMonth := func(t time.Time) bool { return !t.Before(start) && !t.After(end) }

	for _, b := range list {
		if b.Status == domain.BookingCancelled {
			continue
		}
		if inMonth(b.PickupDate) {
			d := day(b.PickupDate)
			d.Pickups = append(d.Pickups, b)
		}
		if inMonth(b.ReturnDate) {
			d := day(b.ReturnDate)
			d.Returns = append(d.Returns, b)
		}
	}

	out := make([]models.CalendarDay, 0, len(days))
	for _, d := range days {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}
