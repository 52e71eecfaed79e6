package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	intconfig "carrental/internal/config"
	intdb "carrental/internal/db"
	"carrental/internal/domain"
	"carrental/internal/domain/models"
)

const customerSelect = `
	SELECT id, name, COALESCE(email, ''), phone, COALESCE(address, ''), COALESCE(id_number, ''), created_at
	FROM customers
`

type CustomerRepository struct {
	DB intdb.Querier
}

func (r CustomerRepository) q() intdb.Querier {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r CustomerRepository) WithTx(tx *sql.Tx) CustomerRepository {
	return CustomerRepository{DB: tx}
}

func scanCustomer(s rowScanner) (models.Customer, error) {
	var c models.Customer
	err := s.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.IDNumber, &c.CreatedAt)
	return c, err
}

func (r CustomerRepository) GetByID(ctx context.Context, id int64) (models.Customer, error) {
	c, err := scanCustomer(r.q().QueryRowContext(ctx, customerSelect+" WHERE id = ? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Customer{}, domain.NotFoundError{Resource: "customer", Err: err}
	}
	return c, err
}

// FindByContact looks a returning customer up by email first, then phone.
func (r CustomerRepository) FindByContact(ctx context.Context, email, phone string) (models.Customer, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email != "" {
		c, err := scanCustomer(r.q().QueryRowContext(ctx, customerSelect+" WHERE email = ? ORDER BY id ASC LIMIT 1", email))
		if err == nil {
			return c, true, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return models.Customer{}, false, err
		}
	}
	if phone != "" {
		c, err := scanCustomer(r.q().QueryRowContext(ctx, customerSelect+" WHERE phone = ? ORDER BY id ASC LIMIT 1", phone))
		if err == nil {
			return c, true, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return models.Customer{}, false, err
		}
	}
	return models.Customer{}, false, nil
}

func (r CustomerRepository) Create(ctx context.Context, c models.Customer) (int64, error) {
	res, err := r.q().ExecContext(ctx, `
		INSERT INTO customers (name, email, phone, address, id_number, created_at)
		VALUES (?, ?, ?, ?, ?, NOW())
	`,
		strings.TrimSpace(c.Name),
		intdb.NullIfEmpty(strings.ToLower(c.Email)),
		c.Phone,
		intdb.NullIfEmpty(c.Address),
		intdb.NullIfEmpty(c.IDNumber),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UpdateContact fills in details a returning customer typed at checkout.
// Blank values keep what is stored.
func (r CustomerRepository) UpdateContact(ctx context.Context, c models.Customer) error {
	_, err := r.q().ExecContext(ctx, `
		UPDATE customers
		SET name = COALESCE(?, name),
		    email = COALESCE(?, email),
		    address = COALESCE(?, address),
		    id_number = COALESCE(?, id_number)
		WHERE id = ?
	`,
		intdb.NullIfEmpty(c.Name),
		intdb.NullIfEmpty(strings.ToLower(c.Email)),
		intdb.NullIfEmpty(c.Address),
		intdb.NullIfEmpty(c.IDNumber),
		c.ID,
	)
	return err
}

// FillBlankContact only completes columns that are still empty. Name and
// phone are never touched, so an anonymous checkout cannot rewrite a
// returning customer's record.
func (r CustomerRepository) FillBlankContact(ctx context.Context, c models.Customer) error {
	_, err := r.q().ExecContext(ctx, `
		UPDATE customers
		SET email = COALESCE(NULLIF(email, ''), ?),
		    address = COALESCE(NULLIF(address, ''), ?),
		    id_number = COALESCE(NULLIF(id_number, ''), ?)
		WHERE id = ?
	`,
		intdb.NullIfEmpty(strings.ToLower(c.Email)),
		intdb.NullIfEmpty(c.Address),
		intdb.NullIfEmpty(c.IDNumber),
		c.ID,
	)
	return err
}

// List returns customers with booking aggregates; cancelled bookings are
// not counted as spend.
func (r CustomerRepository) List(ctx context.Context, q string, page domain.Pagination) ([]models.CustomerSummary, error) {
	page = page.Normalize()
	args := []any{string(domain.BookingCancelled)}
	where := ""
	if q = strings.TrimSpace(q); q != "" {
		like := "%" + q + "%"
		where = " WHERE (c.name LIKE ? OR c.email LIKE ? OR c.phone LIKE ?)"
		args = append(args, like, like, like)
	}
	args = append(args, page.Limit, page.Offset())

	rows, err := r.q().QueryContext(ctx, `
		SELECT
			c.id, c.name, COALESCE(c.email, ''), c.phone, COALESCE(c.address, ''), COALESCE(c.id_number, ''), c.created_at,
			COUNT(b.id),
			COALESCE(SUM(CASE WHEN b.status <> ? THEN b.total ELSE 0 END), 0)
		FROM customers c
		LEFT JOIN bookings b ON b.customer_id = c.id
	`+where+`
		GROUP BY c.id, c.name, c.email, c.phone, c.address, c.id_number, c.created_at
		ORDER BY c.id DESC
		LIMIT ? OFFSET ?
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []models.CustomerSummary{}
	for rows.Next() {
		var s models.CustomerSummary
		if err := rows.Scan(
			&s.ID, &s.Name, &s.Email, &s.Phone, &s.Address, &s.IDNumber, &s.CreatedAt,
			&s.BookingCount, &s.TotalSpent,
		); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
