package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"carrental/internal/domain"
	"carrental/internal/domain/models"
	"carrental/internal/repositories"
	"carrental/internal/utils"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const userStatusActive = "active"

// AuthService issues and verifies stateless HS256 bearer tokens.
type AuthService struct {
	Users     repositories.UserRepository
	Secret    []byte
	TTL       time.Duration
	Now       func() time.Time
	RequestID string
}

// Claims is what the auth middleware puts on the gin context.
type Claims struct {
	UserID int64
	Role   domain.Role
}

type LoginResult struct {
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expiresAt"`
	User      models.PublicUser `json:"user"`
}

func (s AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s AuthService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return 24 * time.Hour
}

var errBadLogin = domain.UnauthorizedError{Msg: "Email/username atau password salah"}

// Login accepts email or username.
func (s AuthService) Login(ctx context.Context, login, password string) (LoginResult, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return LoginResult{}, domain.ValidationError{Field: "email", Msg: "email/username dan password wajib diisi"}
	}
	u, err := s.Users.FindByLogin(ctx, login)
	if err != nil {
		if domain.IsNotFound(err) {
			return LoginResult{}, errBadLogin
		}
		return LoginResult{}, domain.InternalError{Msg: "gagal query user", Err: err}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return LoginResult{}, errBadLogin
	}
	if u.Status != userStatusActive {
		return LoginResult{}, domain.ForbiddenError{Msg: "akun tidak aktif"}
	}

	token, exp, err := s.IssueToken(u)
	if err != nil {
		return LoginResult{}, domain.InternalError{Msg: "gagal membuat token", Err: err}
	}
	utils.LogEvent(s.RequestID, "auth", "login", fmt.Sprintf("user_id=%d role=%s", u.ID, u.Role))
	return LoginResult{Token: token, ExpiresAt: exp, User: u.ToPublic()}, nil
}

func (s AuthService) IssueToken(u models.User) (string, time.Time, error) {
	exp := s.now().Add(s.ttl())
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": u.ID,
		"role":    string(u.Role),
		"exp":     exp.Unix(),
	})
	signed, err := token.SignedString(s.Secret)
	return signed, exp, err
}

// ParseToken validates signature, algorithm and expiry.
func (s AuthService) ParseToken(raw string) (Claims, error) {
	parsed, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		return s.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, domain.UnauthorizedError{Msg: "token kedaluwarsa", Err: err}
		}
		return Claims{}, domain.UnauthorizedError{Msg: "token tidak valid", Err: err}
	}
	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, domain.UnauthorizedError{Msg: "token tidak valid"}
	}
	// angka JSON di-decode sebagai float64
	id, _ := mc["user_id"].(float64)
	role, _ := mc["role"].(string)
	c := Claims{UserID: int64(id), Role: domain.Role(role)}
	if c.UserID <= 0 || !c.Role.Valid() {
		return Claims{}, domain.UnauthorizedError{Msg: "token tidak valid"}
	}
	return c, nil
}
