package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	intdb "carrental/internal/db"
	"carrental/internal/domain"
	"carrental/internal/domain/models"
	"carrental/internal/pricing"
	"carrental/internal/repositories"
	"carrental/internal/utils"
)

// RentalRequest is the part of a booking form that decides the price.
type RentalRequest struct {
	VehicleID      int64  `json:"vehicleId"`
	PickupDate     string `json:"pickupDate"` // YYYY-MM-DD atau YYYY-MM-DD HH:MM
	ReturnDate     string `json:"returnDate"`
	ServiceType    string `json:"serviceType"`
	PickupLocation string `json:"pickupLocation"` // office / custom
	PickupAddress  string `json:"pickupAddress"`
	ReturnLocation string `json:"returnLocation"`
	ReturnAddress  string `json:"returnAddress"`
}

// rental is a RentalRequest after parsing and validation.
type rental struct {
	VehicleID      int64
	Pickup         time.Time
	Return         time.Time
	Days           int
	ServiceType    pricing.ServiceType
	PickupLocation pricing.LocationType
	PickupAddress  string
	ReturnLocation pricing.LocationType
	ReturnAddress  string
}

func parseRental(req RentalRequest) (rental, error) {
	if req.VehicleID <= 0 {
		return rental{}, domain.ValidationError{Field: "vehicleId", Msg: "wajib diisi"}
	}
	r, err := parseWindow(req.PickupDate, req.ReturnDate, req.ServiceType)
	if err != nil {
		return r, err
	}
	r.VehicleID = req.VehicleID

	if r.PickupLocation, err = pricing.ParseLocationType(req.PickupLocation); err != nil {
		return r, err
	}
	if r.ReturnLocation, err = pricing.ParseLocationType(req.ReturnLocation); err != nil {
		return r, err
	}
	r.PickupAddress = utils.NormalizeSpace(req.PickupAddress)
	r.ReturnAddress = utils.NormalizeSpace(req.ReturnAddress)
	if r.PickupLocation == pricing.LocationCustom && r.PickupAddress == "" {
		return r, domain.ValidationError{Field: "pickupAddress", Msg: "alamat antar wajib diisi"}
	}
	if r.ReturnLocation == pricing.LocationCustom && r.ReturnAddress == "" {
		return r, domain.ValidationError{Field: "returnAddress", Msg: "alamat jemput wajib diisi"}
	}
	if r.PickupLocation == pricing.LocationOffice {
		r.PickupAddress = ""
	}
	if r.ReturnLocation == pricing.LocationOffice {
		r.ReturnAddress = ""
	}
	return r, nil
}

// parseWindow parses the dates and service type; locations default to office.
func parseWindow(pickupDate, returnDate, serviceType string) (rental, error) {
	r := rental{PickupLocation: pricing.LocationOffice, ReturnLocation: pricing.LocationOffice}
	pickup, err := utils.ParseDateOrDateTime(pickupDate)
	if err != nil {
		return r, domain.ValidationError{Field: "pickupDate", Msg: "format harus YYYY-MM-DD atau YYYY-MM-DD HH:MM", Err: err}
	}
	ret, err := utils.ParseDateOrDateTime(returnDate)
	if err != nil {
		return r, domain.ValidationError{Field: "returnDate", Msg: "format harus YYYY-MM-DD atau YYYY-MM-DD HH:MM", Err: err}
	}
	switch {
	case ret.Equal(pickup):
		// sewa 1 hari tanpa jam: kembali di akhir hari
		ret = utils.EndOfDay(ret)
	case ret.Before(pickup):
		return r, domain.ValidationError{Field: "returnDate", Msg: "tanggal kembali sebelum tanggal ambil"}
	}
	days, err := pricing.DurationDays(pickup, ret)
	if err != nil {
		return r, err
	}
	r.Pickup, r.Return, r.Days = pickup, ret, days

	if r.ServiceType, err = pricing.ParseServiceType(serviceType); err != nil {
		return r, err
	}
	return r, nil
}

func priceRental(rules pricing.Rules, v models.Vehicle, r rental) (pricing.Breakdown, error) {
	return rules.Compute(pricing.Input{
		DailyRate:      v.DailyRate,
		WithDriverRate: v.WithDriverRate,
		ServiceType:    r.ServiceType,
		PickupLocation: r.PickupLocation,
		ReturnLocation: r.ReturnLocation,
		DurationDays:   r.Days,
	})
}

// CustomerInput is the renter's contact block on the checkout form.
type CustomerInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	IDNumber string `json:"idNumber"`
}

func (in CustomerInput) normalize() (models.Customer, error) {
	c := models.Customer{
		Name:     utils.NormalizeSpace(in.Name),
		Email:    strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:    utils.NormalizePhone(in.Phone),
		Address:  utils.NormalizeSpace(in.Address),
		IDNumber: strings.TrimSpace(in.IDNumber),
	}
	if c.Name == "" {
		return c, domain.ValidationError{Field: "customer.name", Msg: "wajib diisi"}
	}
	if len(strings.TrimPrefix(c.Phone, "+")) < 8 {
		return c, domain.ValidationError{Field: "customer.phone", Msg: "nomor HP tidak valid"}
	}
	if c.Email != "" && !strings.Contains(c.Email, "@") {
		return c, domain.ValidationError{Field: "customer.email", Msg: "format email tidak valid"}
	}
	return c, nil
}

// bookingWriter holds everything needed to insert one booking in a tx.
type bookingWriter struct {
	DB        *sql.DB
	Vehicles  repositories.VehicleRepository
	Bookings  repositories.BookingRepository
	Customers repositories.CustomerRepository
	Rules     pricing.Rules
	Now       func() time.Time
	NewCode   func(time.Time) string
}

type newBooking struct {
	Rental     rental
	Customer   models.Customer
	CustomerID int64 // admin may pick an existing customer
	// FillBlankOnly: a matched customer only gets empty fields filled in
	FillBlankOnly bool
	Status        domain.BookingStatus
	PaymentStatus domain.PaymentStatus
	PaymentMethod string
	Notes         string
}

const maxCodeAttempts = 3

// create locks the vehicle row, re-checks availability and inserts the
// booking. Two checkouts for the same car serialise on the row lock.
func (w bookingWriter) create(ctx context.Context, nb newBooking) (models.Booking, error) {
	var out models.Booking
	err := intdb.WithTx(ctx, w.DB, func(tx *sql.Tx) error {
		vehicles := w.Vehicles.WithTx(tx)
		bookings := w.Bookings.WithTx(tx)
		customers := w.Customers.WithTx(tx)

		v, err := vehicles.LockByID(ctx, nb.Rental.VehicleID)
		if err != nil {
			return err
		}
		if v.Status != domain.VehicleAvailable {
			return domain.ConflictError{Resource: "kendaraan", Msg: "sedang tidak tersedia untuk disewa"}
		}
		busy, err := bookings.HasOverlap(ctx, v.ID, nb.Rental.Pickup, nb.Rental.Return, 0)
		if err != nil {
			return err
		}
		if busy {
			return domain.ConflictError{Resource: "kendaraan", Msg: "sudah dibooking pada tanggal tersebut, silakan pilih tanggal atau mobil lain"}
		}

		price, err := priceRental(w.Rules, v, nb.Rental)
		if err != nil {
			return err
		}

		customerID := nb.CustomerID
		if customerID > 0 {
			if _, err := customers.GetByID(ctx, customerID); err != nil {
				return err
			}
		} else {
			existing, found, err := customers.FindByContact(ctx, nb.Customer.Email, nb.Customer.Phone)
			if err != nil {
				return err
			}
			if found {
				customerID = existing.ID
				nb.Customer.ID = existing.ID
				update := customers.UpdateContact
				if nb.FillBlankOnly {
					update = customers.FillBlankContact
				}
				if err := update(ctx, nb.Customer); err != nil {
					return err
				}
			} else if customerID, err = customers.Create(ctx, nb.Customer); err != nil {
				return err
			}
		}

		now := w.Now()
		b := models.Booking{
			CustomerID:     customerID,
			VehicleID:      v.ID,
			PickupDate:     nb.Rental.Pickup,
			ReturnDate:     nb.Rental.Return,
			PickupLocation: nb.Rental.PickupLocation,
			PickupAddress:  nb.Rental.PickupAddress,
			ReturnLocation: nb.Rental.ReturnLocation,
			ReturnAddress:  nb.Rental.ReturnAddress,
			Price:          price,
			Status:         nb.Status,
			PaymentStatus:  nb.PaymentStatus,
			PaymentMethod:  nb.PaymentMethod,
			Notes:          strings.TrimSpace(nb.Notes),
		}

		var id int64
		for attempt := 1; ; attempt++ {
			b.Code = w.NewCode(now)
			id, err = bookings.Create(ctx, b)
			if err == nil {
				break
			}
			if !intdb.IsDuplicateKey(err) || attempt >= maxCodeAttempts {
				return fmt.Errorf("insert booking: %w", err)
			}
		}

		if nb.Status == domain.BookingActive {
			if err := vehicles.UpdateStatus(ctx, v.ID, domain.VehicleRented); err != nil {
				return err
			}
		}

		out, err = bookings.GetByID(ctx, id)
		return err
	})
	return out, err
}

// wrapWriteErr keeps domain errors as they are and hides driver errors
// behind an InternalError.
func wrapWriteErr(msg string, err error) error {
	if err == nil {
		return nil
	}
	if domain.IsValidation(err) || domain.IsNotFound(err) || domain.IsConflict(err) ||
		domain.IsForbidden(err) || domain.IsUnauthorized(err) || domain.IsInternal(err) {
		return err
	}
	return domain.InternalError{Msg: msg, Err: err}
}
