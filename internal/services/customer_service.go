package services

import (
	"context"

	"carrental/internal/domain"
	"carrental/internal/domain/models"
	"carrental/internal/repositories"
)

type CustomerService struct {
	Customers repositories.CustomerRepository
	Bookings  repositories.BookingRepository
}

// CustomerDetail is a customer with their booking history, newest first.
type CustomerDetail struct {
	models.Customer
	Bookings []models.Booking `json:"bookings"`
}

func (s CustomerService) List(ctx context.Context, q string, page, limit int) ([]models.CustomerSummary, error) {
	list, err := s.Customers.List(ctx, q, domain.Pagination{Page: page, Limit: limit})
	if err != nil {
		return nil, domain.InternalError{Msg: "gagal mengambil customer", Err: err}
	}
	return list, nil
}

func (s CustomerService) Get(ctx context.Context, id int64) (CustomerDetail, error) {
	if id <= 0 {
		return CustomerDetail{}, domain.ValidationError{Field: "id", Msg: "id tidak valid"}
	}
	c, err := s.Customers.GetByID(ctx, id)
	if err != nil {
		return CustomerDetail{}, err
	}
	history, err := s.Bookings.List(ctx, models.BookingFilter{CustomerID: id})
	if err != nil {
		return CustomerDetail{}, domain.InternalError{Msg: "gagal mengambil riwayat booking", Err: err}
	}
	return CustomerDetail{Customer: c, Bookings: history}, nil
}
