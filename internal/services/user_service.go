package services

import (
	"context"
	"fmt"
	"strings"

	"carrental/internal/domain"
	"carrental/internal/domain/models"
	"carrental/internal/repositories"
	"carrental/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 8

type UserService struct {
	Users     repositories.UserRepository
	RequestID string
}

// UserInput: Password is required on create and optional on update.
type UserInput struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

func (in UserInput) toModel(requirePassword bool) (models.User, error) {
	u := models.User{
		Name:     utils.NormalizeSpace(in.Name),
		Username: strings.TrimSpace(in.Username),
		Email:    strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:    strings.TrimSpace(in.Phone),
		Role:     domain.Role(strings.ToLower(strings.TrimSpace(in.Role))),
		Status:   strings.ToLower(strings.TrimSpace(in.Status)),
	}
	if u.Role == "" {
		u.Role = domain.RoleStaff
	}
	if u.Status == "" {
		u.Status = userStatusActive
	}
	switch {
	case u.Name == "":
		return u, domain.ValidationError{Field: "name", Msg: "wajib diisi"}
	case u.Username == "":
		return u, domain.ValidationError{Field: "username", Msg: "wajib diisi"}
	case u.Email == "" || !strings.Contains(u.Email, "@"):
		return u, domain.ValidationError{Field: "email", Msg: "format email tidak valid"}
	case !u.Role.Valid():
		return u, domain.ValidationError{Field: "role", Msg: "role tidak dikenal"}
	case u.Status != userStatusActive && u.Status != "inactive":
		return u, domain.ValidationError{Field: "status", Msg: "harus active atau inactive"}
	}

	if in.Password != "" || requirePassword {
		if len(in.Password) < minPasswordLen {
			return u, domain.ValidationError{Field: "password", Msg: fmt.Sprintf("minimal %d karakter", minPasswordLen)}
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return u, domain.InternalError{Msg: "gagal meng-hash password", Err: err}
		}
		u.PasswordHash = string(hash)
	}
	return u, nil
}

func (s UserService) List(ctx context.Context, q, role string) ([]models.PublicUser, error) {
	r := domain.Role(strings.ToLower(strings.TrimSpace(role)))
	if r != "" && !r.Valid() {
		return nil, domain.ValidationError{Field: "role", Msg: "role tidak dikenal"}
	}
	users, err := s.Users.List(ctx, q, r)
	if err != nil {
		return nil, domain.InternalError{Msg: "gagal mengambil user", Err: err}
	}
	out := make([]models.PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.ToPublic())
	}
	return out, nil
}

func (s UserService) Get(ctx context.Context, id int64) (models.PublicUser, error) {
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		return models.PublicUser{}, err
	}
	return u.ToPublic(), nil
}

func (s UserService) Create(ctx context.Context, in UserInput) (models.PublicUser, error) {
	u, err := in.toModel(true)
	if err != nil {
		return models.PublicUser{}, err
	}
	id, err := s.Users.Create(ctx, u)
	if err != nil {
		return models.PublicUser{}, wrapWriteErr("gagal menyimpan user", err)
	}
	utils.LogEvent(s.RequestID, "users", "create", fmt.Sprintf("id=%d role=%s", id, u.Role))
	return s.Get(ctx, id)
}

func (s UserService) Update(ctx context.Context, id int64, in UserInput) (models.PublicUser, error) {
	u, err := in.toModel(false)
	if err != nil {
		return models.PublicUser{}, err
	}
	u.ID = id
	if err := s.Users.Update(ctx, u); err != nil {
		return models.PublicUser{}, wrapWriteErr("gagal mengubah user", err)
	}
	utils.LogEvent(s.RequestID, "users", "update", fmt.Sprintf("id=%d role=%s", id, u.Role))
	return s.Get(ctx, id)
}

// Delete refuses to remove the caller's own account.
func (s UserService) Delete(ctx context.Context, id, actorID int64) error {
	if id == actorID {
		return domain.ValidationError{Field: "id", Msg: "tidak bisa menghapus akun sendiri"}
	}
	if err := s.Users.Delete(ctx, id); err != nil {
		return wrapWriteErr("gagal menghapus user", err)
	}
	utils.LogEvent(s.RequestID, "users", "delete", fmt.Sprintf("id=%d by=%d", id, actorID))
	return nil
}

// EnsureAdmin creates the first admin account on an empty users table.
func (s UserService) EnsureAdmin(ctx context.Context, email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil
	}
	n, err := s.Users.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	username := email
	if at := strings.Index(email, "@"); at > 0 {
		username = email[:at]
	}
	_, err = s.Create(ctx, UserInput{
		Name:     "Administrator",
		Username: username,
		Email:    email,
		Password: password,
		Role:     string(domain.RoleAdmin),
	})
	return err
}
