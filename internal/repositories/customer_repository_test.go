package repositories

import (
	"context"
	"testing"
	"time"

	"carrental/internal/domain"
	"carrental/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
)

var customerCols = []string{"id", "name", "email", "phone", "address", "id_number", "created_at"}

func TestCustomerListSearchesAndAggregates(t *testing.T) {
	db, mock := newMock(t)
	repo := CustomerRepository{DB: db}
	created := time.Date(2025, 5, 1, 10, 0, 0, 0, time.Local)

	cols := append(append([]string{}, customerCols...), "booking_count", "total_spent")
	mock.ExpectQuery(`FROM customers c LEFT JOIN bookings b ON b.customer_id = c.id WHERE \(c.name LIKE \? OR c.email LIKE \? OR c.phone LIKE \?\) GROUP BY .* ORDER BY c.id DESC LIMIT \? OFFSET \?`).
		WithArgs("cancelled", "%budi%", "%budi%", "%budi%", 20, 20).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(7, "Budi", "budi@example.com", "+628112345678", "", "", created, 3, 2_503_050).
			AddRow(5, "Budiman", "", "+628129999999", "Pekanbaru", "1471", created, 0, 0))

	list, err := repo.List(context.Background(), " budi ", domain.Pagination{Page: 2, Limit: 20})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d", len(list))
	}
	if list[0].ID != 7 || list[0].BookingCount != 3 || list[0].TotalSpent != 2_503_050 {
		t.Fatalf("unexpected first row %+v", list[0])
	}
	if list[1].BookingCount != 0 || list[1].TotalSpent != 0 || list[1].Address != "Pekanbaru" {
		t.Fatalf("unexpected second row %+v", list[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCustomerListWithoutSearchUsesDefaultPage(t *testing.T) {
	db, mock := newMock(t)
	repo := CustomerRepository{DB: db}

	cols := append(append([]string{}, customerCols...), "booking_count", "total_spent")
	mock.ExpectQuery(`LEFT JOIN bookings b ON b.customer_id = c.id GROUP BY`).
		WithArgs("cancelled", 50, 0).
		WillReturnRows(sqlmock.NewRows(cols))

	list, err := repo.List(context.Background(), "", domain.Pagination{})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", list)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCustomerGetByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`FROM customers WHERE id = \? LIMIT 1`).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows(customerCols))

	_, err := CustomerRepository{DB: db}.GetByID(context.Background(), 404)
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCustomerFillBlankContactKeepsStoredValues(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(`UPDATE customers SET email = COALESCE\(NULLIF\(email, ''\), \?\), address = COALESCE\(NULLIF\(address, ''\), \?\), id_number = COALESCE\(NULLIF\(id_number, ''\), \?\) WHERE id = \?`).
		WithArgs("budi@example.com", "Jl. Sudirman 1", nil, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := CustomerRepository{DB: db}.FillBlankContact(context.Background(), customerFixture())
	if err != nil {
		t.Fatalf("FillBlankContact error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func customerFixture() models.Customer {
	return models.Customer{ID: 7, Name: "Orang Lain", Email: "Budi@Example.com", Phone: "+628000000000", Address: "Jl. Sudirman 1"}
}
