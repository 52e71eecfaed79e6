package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	intconfig "carrental/internal/config"
	"carrental/internal/domain"
	"carrental/internal/domain/models"
	"carrental/internal/pricing"
	"carrental/internal/repositories"
	"carrental/internal/utils"
)

// CheckoutService backs the public booking portal:
// search -> detail -> quote -> checkout -> confirmation.
type CheckoutService struct {
	DB        *sql.DB
	Vehicles  repositories.VehicleRepository
	Bookings  repositories.BookingRepository
	Customers repositories.CustomerRepository
	Rules     pricing.Rules
	Now       func() time.Time
	NewCode   func(time.Time) string
	RequestID string
}

func (s CheckoutService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s CheckoutService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s CheckoutService) writer() bookingWriter {
	code := s.NewCode
	if code == nil {
		code = utils.NewBookingCode
	}
	return bookingWriter{
		DB:        s.db(),
		Vehicles:  s.Vehicles,
		Bookings:  s.Bookings,
		Customers: s.Customers,
		Rules:     s.Rules,
		Now:       s.now,
		NewCode:   code,
	}
}

// SearchQuery is the first step of the portal.
type SearchQuery struct {
	PickupDate  string
	ReturnDate  string
	Type        string
	ServiceType string
}

// VehicleOffer is a vehicle card with the office-to-office price for the
// requested dates.
type VehicleOffer struct {
	Vehicle models.Vehicle     `json:"vehicle"`
	Quote   *pricing.Breakdown `json:"quote,omitempty"`
}

// Search lists vehicles free for the whole requested period.
func (s CheckoutService) Search(ctx context.Context, q SearchQuery) ([]VehicleOffer, error) {
	r, err := parseWindow(q.PickupDate, q.ReturnDate, q.ServiceType)
	if err != nil {
		return nil, err
	}
	if err := s.checkNotPast(r.Pickup); err != nil {
		return nil, err
	}

	vehicles, err := s.Vehicles.SearchAvailable(ctx, r.Pickup, r.Return, strings.ToLower(strings.TrimSpace(q.Type)))
	if err != nil {
		return nil, domain.InternalError{Msg: "gagal mencari kendaraan", Err: err}
	}

	out := make([]VehicleOffer, 0, len(vehicles))
	for _, v := range vehicles {
		offer := VehicleOffer{Vehicle: v}
		if price, err := priceRental(s.Rules, v, r); err == nil {
			offer.Quote = &price
		}
		out = append(out, offer)
	}
	utils.LogEvent(s.RequestID, "checkout", "search", fmt.Sprintf("results=%d days=%d", len(out), r.Days))
	return out, nil
}

// Detail returns one vehicle; with dates it also prices the rental and
// reports whether the car is free.
func (s CheckoutService) Detail(ctx context.Context, id int64, q SearchQuery) (VehicleDetail, error) {
	v, err := s.Vehicles.GetByID(ctx, id)
	if err != nil {
		return VehicleDetail{}, err
	}
	if v.Status == domain.VehicleInactive {
		return VehicleDetail{}, domain.NotFoundError{Resource: "kendaraan"}
	}
	out := VehicleDetail{VehicleOffer: VehicleOffer{Vehicle: v}, Available: v.Status == domain.VehicleAvailable}
	if strings.TrimSpace(q.PickupDate) == "" || strings.TrimSpace(q.ReturnDate) == "" {
		return out, nil
	}

	r, err := parseRental(RentalRequest{
		VehicleID:   id,
		PickupDate:  q.PickupDate,
		ReturnDate:  q.ReturnDate,
		ServiceType: q.ServiceType,
	})
	if err != nil {
		return VehicleDetail{}, err
	}
	price, err := priceRental(s.Rules, v, r)
	if err != nil {
		return VehicleDetail{}, err
	}
	out.Quote = &price

	if out.Available {
		busy, err := s.Bookings.HasOverlap(ctx, id, r.Pickup, r.Return, 0)
		if err != nil {
			return VehicleDetail{}, domain.InternalError{Msg: "gagal cek ketersediaan", Err: err}
		}
		out.Available = !busy
	}
	return out, nil
}

type VehicleDetail struct {
	VehicleOffer
	Available bool `json:"available"`
}

// QuoteResult is what the checkout summary panel renders.
type QuoteResult struct {
	VehicleID      int64                `json:"vehicleId"`
	VehicleName    string               `json:"vehicleName"`
	PickupDate     string               `json:"pickupDate"`
	ReturnDate     string               `json:"returnDate"`
	PickupLocation pricing.LocationType `json:"pickupLocation"`
	ReturnLocation pricing.LocationType `json:"returnLocation"`
	Available      bool                 `json:"available"`
	Price          pricing.Breakdown    `json:"price"`
}

// Quote prices a rental without reserving anything.
func (s CheckoutService) Quote(ctx context.Context, req RentalRequest) (QuoteResult, error) {
	r, err := parseRental(req)
	if err != nil {
		return QuoteResult{}, err
	}
	v, err := s.Vehicles.GetByID(ctx, r.VehicleID)
	if err != nil {
		return QuoteResult{}, err
	}
	price, err := priceRental(s.Rules, v, r)
	if err != nil {
		return QuoteResult{}, err
	}
	available := v.Status == domain.VehicleAvailable
	if available {
		busy, err := s.Bookings.HasOverlap(ctx, v.ID, r.Pickup, r.Return, 0)
		if err != nil {
			return QuoteResult{}, domain.InternalError{Msg: "gagal cek ketersediaan", Err: err}
		}
		available = !busy
	}
	return QuoteResult{
		VehicleID:      v.ID,
		VehicleName:    v.Name,
		PickupDate:     utils.FormatDateTime(r.Pickup),
		ReturnDate:     utils.FormatDateTime(r.Return),
		PickupLocation: r.PickupLocation,
		ReturnLocation: r.ReturnLocation,
		Available:      available,
		Price:          price,
	}, nil
}

// CheckoutRequest is the final form submission. TotalAmount is accepted
// for compatibility with the portal but the server always re-prices.
type CheckoutRequest struct {
	RentalRequest
	Customer      CustomerInput `json:"customer"`
	PaymentMethod string        `json:"paymentMethod"`
	Notes         string        `json:"notes"`
	TotalAmount   int64         `json:"totalAmount"`
}

// Confirmation is shown on the last step of the portal.
type Confirmation struct {
	BookingCode   string               `json:"bookingCode"`
	Status        domain.BookingStatus `json:"status"`
	PaymentStatus domain.PaymentStatus `json:"paymentStatus"`
	PaymentMethod string               `json:"paymentMethod,omitempty"`
	CustomerName  string               `json:"customerName"`
	VehicleName   string               `json:"vehicleName"`
	PlateNumber   string               `json:"plateNumber"`
	PickupDate    string               `json:"pickupDate"`
	ReturnDate    string               `json:"returnDate"`
	PickupAddress string               `json:"pickupAddress,omitempty"`
	ReturnAddress string               `json:"returnAddress,omitempty"`
	Price         pricing.Breakdown    `json:"price"`
	TotalLabel    string               `json:"totalLabel"`
}

func confirmationOf(b models.Booking) Confirmation {
	return Confirmation{
		BookingCode:   b.Code,
		Status:        b.Status,
		PaymentStatus: b.PaymentStatus,
		PaymentMethod: b.PaymentMethod,
		CustomerName:  b.CustomerName,
		VehicleName:   b.VehicleName,
		PlateNumber:   b.PlateNumber,
		PickupDate:    utils.FormatDateTime(b.PickupDate),
		ReturnDate:    utils.FormatDateTime(b.ReturnDate),
		PickupAddress: utils.Or(b.PickupAddress, "Kantor"),
		ReturnAddress: utils.Or(b.ReturnAddress, "Kantor"),
		Price:         b.Price,
		TotalLabel:    utils.FormatRupiah(b.Price.Total),
	}
}

// Checkout creates a pending, unpaid booking for a public customer.
func (s CheckoutService) Checkout(ctx context.Context, req CheckoutRequest) (Confirmation, error) {
	r, err := parseRental(req.RentalRequest)
	if err != nil {
		return Confirmation{}, err
	}
	if err := s.checkNotPast(r.Pickup); err != nil {
		return Confirmation{}, err
	}
	customer, err := req.Customer.normalize()
	if err != nil {
		return Confirmation{}, err
	}

	b, err := s.writer().create(ctx, newBooking{
		Rental:        r,
		Customer:      customer,
		FillBlankOnly: true,
		Status:        domain.BookingPending,
		PaymentStatus: domain.PaymentUnpaid,
		PaymentMethod: domain.NormalizePaymentMethod(req.PaymentMethod),
		Notes:         req.Notes,
	})
	if err != nil {
		return Confirmation{}, wrapWriteErr("gagal menyimpan booking", err)
	}

	if req.TotalAmount > 0 && req.TotalAmount != b.Price.Total {
		utils.LogEvent(s.RequestID, "checkout", "total_mismatch",
			fmt.Sprintf("code=%s client=%d server=%d", b.Code, req.TotalAmount, b.Price.Total))
	}
	utils.LogEvent(s.RequestID, "checkout", "create", fmt.Sprintf("code=%s vehicle_id=%d total=%d", b.Code, b.VehicleID, b.Price.Total))
	return confirmationOf(b), nil
}

// Confirmation looks a booking up by its public code.
func (s CheckoutService) Confirmation(ctx context.Context, code string) (Confirmation, error) {
	if strings.TrimSpace(code) == "" {
		return Confirmation{}, domain.ValidationError{Field: "code", Msg: "wajib diisi"}
	}
	b, err := s.Bookings.GetByCode(ctx, code)
	if err != nil {
		return Confirmation{}, err
	}
	return confirmationOf(b), nil
}

func (s CheckoutService) checkNotPast(pickup time.Time) error {
	if pickup.Before(utils.StartOfDay(s.now())) {
		return domain.ValidationError{Field: "pickupDate", Msg: "tidak boleh tanggal yang sudah lewat"}
	}
	return nil
}
