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

	"github.com/go-sql-driver/mysql"
)

const vehicleSelect = `
	SELECT
		v.id,
		v.code,
		v.name,
		COALESCE(v.brand, ''),
		COALESCE(v.type, ''),
		COALESCE(v.transmission, ''),
		v.seats,
		v.plate_number,
		COALESCE(v.color, ''),
		COALESCE(v.year, 0),
		v.daily_rate,
		COALESCE(v.with_driver_rate, 0),
		v.status,
		COALESCE(v.image_url, ''),
		v.kilometers,
		CASE
			WHEN v.last_service IS NULL THEN NULL
			ELSE DATE_FORMAT(v.last_service, '%Y-%m-%d')
		END AS last_service
	FROM vehicles v
`

type VehicleRepository struct {
	DB intdb.Querier
}

func (r VehicleRepository) q() intdb.Querier {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// WithTx returns a copy bound to tx.
func (r VehicleRepository) WithTx(tx *sql.Tx) VehicleRepository {
	return VehicleRepository{DB: tx}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVehicle(s rowScanner) (models.Vehicle, error) {
	var (
		v      models.Vehicle
		status string
		km     sql.NullInt64
		last   sql.NullString
	)
	if err := s.Scan(
		&v.ID,
		&v.Code,
		&v.Name,
		&v.Brand,
		&v.Type,
		&v.Transmission,
		&v.Seats,
		&v.PlateNumber,
		&v.Color,
		&v.Year,
		&v.DailyRate,
		&v.WithDriverRate,
		&status,
		&v.ImageURL,
		&km,
		&last,
	); err != nil {
		return models.Vehicle{}, err
	}
	v.Status = domain.VehicleStatus(status)
	if km.Valid {
		x := int(km.Int64)
		v.Kilometers = &x
	}
	if last.Valid {
		v.LastService = last.String
	}
	return v, nil
}

func collectVehicles(rows *sql.Rows) ([]models.Vehicle, error) {
	defer rows.Close()
	list := []models.Vehicle{}
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

// List returns one page of vehicles plus the unpaged total.
func (r VehicleRepository) List(ctx context.Context, f models.VehicleFilter) ([]models.Vehicle, int, error) {
	where := []string{}
	args := []any{}
	if q := strings.TrimSpace(f.Q); q != "" {
		like := "%" + q + "%"
		where = append(where, "(v.code LIKE ? OR v.name LIKE ? OR v.plate_number LIKE ?)")
		args = append(args, like, like, like)
	}
	if f.Status != "" {
		where = append(where, "v.status = ?")
		args = append(args, string(f.Status))
	}
	if t := strings.TrimSpace(f.Type); t != "" {
		where = append(where, "v.type = ?")
		args = append(args, t)
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.q().QueryRowContext(ctx, `SELECT COUNT(*) FROM vehicles v`+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page := f.Page.Normalize()
	rows, err := r.q().QueryContext(ctx,
		vehicleSelect+clause+" ORDER BY v.id DESC LIMIT ? OFFSET ?",
		append(args, page.Limit, page.Offset())...,
	)
	if err != nil {
		return nil, 0, err
	}
	list, err := collectVehicles(rows)
	return list, total, err
}

// All returns the whole fleet ordered by code, for reports.
func (r VehicleRepository) All(ctx context.Context) ([]models.Vehicle, error) {
	rows, err := r.q().QueryContext(ctx, vehicleSelect+" ORDER BY v.code ASC")
	if err != nil {
		return nil, err
	}
	return collectVehicles(rows)
}

func (r VehicleRepository) GetByID(ctx context.Context, id int64) (models.Vehicle, error) {
	v, err := scanVehicle(r.q().QueryRowContext(ctx, vehicleSelect+" WHERE v.id = ? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Vehicle{}, domain.NotFoundError{Resource: "kendaraan", Err: err}
	}
	return v, err
}

// LockByID reads the vehicle with a row lock; only meaningful inside a tx.
func (r VehicleRepository) LockByID(ctx context.Context, id int64) (models.Vehicle, error) {
	v, err := scanVehicle(r.q().QueryRowContext(ctx, vehicleSelect+" WHERE v.id = ? LIMIT 1 FOR UPDATE", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Vehicle{}, domain.NotFoundError{Resource: "kendaraan", Err: err}
	}
	return v, err
}

// SearchAvailable lists available vehicles with no blocking booking that
// overlaps [start, end). Back-to-back rentals do not overlap. Service type
// is not a filter here; every car can be rented with or without a driver.
func (r VehicleRepository) SearchAvailable(ctx context.Context, start, end time.Time, vehicleType string) ([]models.Vehicle, error) {
	blocking := domain.BlockingStatuses()
	args := []any{string(domain.VehicleAvailable)}
	typeClause := ""
	if t := strings.TrimSpace(vehicleType); t != "" {
		typeClause = " AND v.type = ?"
		args = append(args, t)
	}
	for _, s := range blocking {
		args = append(args, string(s))
	}
	args = append(args, end, start)

	rows, err := r.q().QueryContext(ctx, vehicleSelect+`
		WHERE v.status = ?`+typeClause+`
		  AND NOT EXISTS (
			SELECT 1 FROM bookings b
			WHERE b.vehicle_id = v.id
			  AND b.status IN (`+intdb.Placeholders(len(blocking))+`)
			  AND b.pickup_date < ?
			  AND b.return_date > ?
		  )
		ORDER BY v.daily_rate ASC, v.id ASC
	`, args...)
	if err != nil {
		return nil, err
	}
	return collectVehicles(rows)
}

func (r VehicleRepository) Create(ctx context.Context, v models.Vehicle) (int64, error) {
	res, err := r.q().ExecContext(ctx, `
		INSERT INTO vehicles
			(code, name, brand, type, transmission, seats, plate_number, color, year,
			 daily_rate, with_driver_rate, status, image_url, kilometers, last_service)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, vehicleArgs(v)...)
	if err != nil {
		if intdb.IsDuplicateKey(err) {
			return 0, domain.ConflictError{Resource: "kendaraan", Msg: "kode atau plat nomor sudah terdaftar", Err: err}
		}
		return 0, err
	}
	return res.LastInsertId()
}

func (r VehicleRepository) Update(ctx context.Context, v models.Vehicle) error {
	args := append(vehicleArgs(v), v.ID)
	res, err := r.q().ExecContext(ctx, `
		UPDATE vehicles
		SET code = ?, name = ?, brand = ?, type = ?, transmission = ?, seats = ?, plate_number = ?,
		    color = ?, year = ?, daily_rate = ?, with_driver_rate = ?, status = ?, image_url = ?,
		    kilometers = ?, last_service = ?
		WHERE id = ?
	`, args...)
	if err != nil {
		if intdb.IsDuplicateKey(err) {
			return domain.ConflictError{Resource: "kendaraan", Msg: "kode atau plat nomor sudah terdaftar", Err: err}
		}
		return err
	}
	return requireAffected(res, "kendaraan")
}

func (r VehicleRepository) UpdateStatus(ctx context.Context, id int64, status domain.VehicleStatus) error {
	res, err := r.q().ExecContext(ctx, `UPDATE vehicles SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return err
	}
	return requireAffected(res, "kendaraan")
}

func (r VehicleRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.q().ExecContext(ctx, `DELETE FROM vehicles WHERE id = ?`, id)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1451 {
			return domain.ConflictError{Resource: "kendaraan", Msg: "masih memiliki riwayat booking, ubah status menjadi inactive", Err: err}
		}
		return err
	}
	return requireAffected(res, "kendaraan")
}

func vehicleArgs(v models.Vehicle) []any {
	var lastService any
	if strings.TrimSpace(v.LastService) != "" {
		lastService = v.LastService
	}
	var km any
	if v.Kilometers != nil {
		km = *v.Kilometers
	}
	return []any{
		strings.TrimSpace(v.Code),
		strings.TrimSpace(v.Name),
		intdb.NullIfEmpty(v.Brand),
		intdb.NullIfEmpty(v.Type),
		intdb.NullIfEmpty(v.Transmission),
		v.Seats,
		strings.ToUpper(strings.TrimSpace(v.PlateNumber)),
		intdb.NullIfEmpty(v.Color),
		intdb.NullIfZero(int64(v.Year)),
		v.DailyRate,
		intdb.NullIfZero(v.WithDriverRate),
		string(v.Status),
		intdb.NullIfEmpty(v.ImageURL),
		km,
		lastService,
	}
}

// requireAffected maps "no rows touched" to a not-found error.
func requireAffected(res sql.Result, resource string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.NotFoundError{Resource: resource}
	}
	return nil
}
