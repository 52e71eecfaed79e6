package services

import (
	"context"
	"testing"
	"time"

	"carrental/internal/domain"
	"carrental/internal/domain/models"
	"carrental/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"golang.org/x/crypto/bcrypt"
)

var userCols = []string{"id", "name", "username", "email", "phone", "password_hash", "role", "status", "created_at", "updated_at"}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	db, mock := newMock(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("rahasia123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt error: %v", err)
	}
	mock.ExpectQuery(`WHERE email = \? OR username = \?`).
		WithArgs("admin@rental.id", "Admin@Rental.id").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(
			1, "Admin", "admin", "admin@rental.id", "", string(hash), "admin", "active", fixedNow(), fixedNow(),
		))

	svc := AuthService{Users: repositories.UserRepository{DB: db}, Secret: []byte("test-secret"), Now: fixedNow}
	res, err := svc.Login(context.Background(), "Admin@Rental.id", "rahasia123")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if res.Token == "" || res.User.Role != domain.RoleAdmin {
		t.Fatalf("unexpected result %+v", res)
	}
	if !res.ExpiresAt.Equal(fixedNow().Add(24 * time.Hour)) {
		t.Fatalf("expiry = %v", res.ExpiresAt)
	}

	claims, err := svc.ParseToken(res.Token)
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}
	if claims.UserID != 1 || claims.Role != domain.RoleAdmin {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestLoginWrongPasswordIsUnauthorized(t *testing.T) {
	db, mock := newMock(t)
	hash, _ := bcrypt.GenerateFromPassword([]byte("rahasia123"), bcrypt.MinCost)
	mock.ExpectQuery(`FROM users`).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(
			1, "Admin", "admin", "admin@rental.id", "", string(hash), "admin", "active", fixedNow(), fixedNow(),
		))
	mock.ExpectQuery(`FROM users`).
		WillReturnRows(sqlmock.NewRows(userCols))

	svc := AuthService{Users: repositories.UserRepository{DB: db}, Secret: []byte("test-secret")}
	if _, err := svc.Login(context.Background(), "admin", "salah"); !domain.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "nobody", "whatever1"); !domain.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized for unknown user, got %v", err)
	}
}

func TestParseTokenRejectsExpiredAndForeign(t *testing.T) {
	issuer := AuthService{Secret: []byte("test-secret"), TTL: time.Hour, Now: fixedNow}
	token, _, err := issuer.IssueToken(models.User{ID: 5, Role: domain.RoleStaff})
	if err != nil {
		t.Fatalf("IssueToken error: %v", err)
	}

	later := AuthService{Secret: []byte("test-secret"), Now: func() time.Time { return fixedNow().Add(2 * time.Hour) }}
	if _, err := later.ParseToken(token); !domain.IsUnauthorized(err) {
		t.Fatalf("expected expired token to be rejected, got %v", err)
	}

	other := AuthService{Secret: []byte("other-secret"), Now: fixedNow}
	if _, err := other.ParseToken(token); !domain.IsUnauthorized(err) {
		t.Fatalf("expected foreign signature to be rejected, got %v", err)
	}

	if _, err := issuer.ParseToken("not-a-jwt"); !domain.IsUnauthorized(err) {
		t.Fatalf("expected garbage to be rejected, got %v", err)
	}
}
