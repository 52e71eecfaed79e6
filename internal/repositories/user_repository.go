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

const userSelect = `
	SELECT id, name, username, email, COALESCE(phone, ''), password_hash, role, status, created_at, updated_at
	FROM users
`

type UserRepository struct {
	DB intdb.Querier
}

func (r UserRepository) q() intdb.Querier {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func scanUser(s rowScanner) (models.User, error) {
	var u models.User
	var role string
	err := s.Scan(&u.ID, &u.Name, &u.Username, &u.Email, &u.Phone, &u.PasswordHash, &role, &u.Status, &u.CreatedAt, &u.UpdatedAt)
	u.Role = domain.Role(role)
	return u, err
}

// FindByLogin matches either email or username.
func (r UserRepository) FindByLogin(ctx context.Context, login string) (models.User, error) {
	login = strings.TrimSpace(login)
	u, err := scanUser(r.q().QueryRowContext(ctx, userSelect+" WHERE email = ? OR username = ? LIMIT 1", strings.ToLower(login), login))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, domain.NotFoundError{Resource: "user", Err: err}
	}
	return u, err
}

func (r UserRepository) GetByID(ctx context.Context, id int64) (models.User, error) {
	u, err := scanUser(r.q().QueryRowContext(ctx, userSelect+" WHERE id = ? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, domain.NotFoundError{Resource: "user", Err: err}
	}
	return u, err
}

func (r UserRepository) List(ctx context.Context, q string, role domain.Role) ([]models.User, error) {
	where := []string{}
	args := []any{}
	if q = strings.TrimSpace(q); q != "" {
		like := "%" + q + "%"
		where = append(where, "(name LIKE ? OR username LIKE ? OR email LIKE ?)")
		args = append(args, like, like, like)
	}
	if role != "" {
		where = append(where, "role = ?")
		args = append(args, string(role))
	}
	query := userSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id DESC"

	rows, err := r.q().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

func (r UserRepository) Create(ctx context.Context, u models.User) (int64, error) {
	res, err := r.q().ExecContext(ctx, `
		INSERT INTO users (name, username, email, phone, password_hash, role, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, NOW(), NOW())
	`, u.Name, u.Username, strings.ToLower(u.Email), intdb.NullIfEmpty(u.Phone), u.PasswordHash, string(u.Role), u.Status)
	if err != nil {
		if intdb.IsDuplicateKey(err) {
			return 0, domain.ConflictError{Resource: "user", Msg: "email atau username sudah terdaftar", Err: err}
		}
		return 0, err
	}
	return res.LastInsertId()
}

// Update writes profile fields; the password hash is only touched when set.
func (r UserRepository) Update(ctx context.Context, u models.User) error {
	sets := []string{"name = ?", "username = ?", "email = ?", "phone = ?", "role = ?", "status = ?"}
	args := []any{u.Name, u.Username, strings.ToLower(u.Email), intdb.NullIfEmpty(u.Phone), string(u.Role), u.Status}
	if u.PasswordHash != "" {
		sets = append(sets, "password_hash = ?")
		args = append(args, u.PasswordHash)
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, u.ID)

	res, err := r.q().ExecContext(ctx, `UPDATE users SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		if intdb.IsDuplicateKey(err) {
			return domain.ConflictError{Resource: "user", Msg: "email atau username sudah terdaftar", Err: err}
		}
		return err
	}
	return requireAffected(res, "user")
}

func (r UserRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.q().ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res, "user")
}

func (r UserRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.q().QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}
