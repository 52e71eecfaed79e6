package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"carrental/internal/pricing"

	"github.com/caarlos0/env/v11"
)

// Env holds every runtime setting, read from environment variables.
type Env struct {
	AppAddr string `env:"APP_ADDR" envDefault:":8080"`
	GinMode string `env:"GIN_MODE"`

	DBUser     string `env:"DB_USER" envDefault:"root"`
	DBPassword string `env:"DB_PASSWORD"`
	DBHost     string `env:"DB_HOST" envDefault:"127.0.0.1:3306"`
	DBName     string `env:"DB_NAME" envDefault:"car_rental"`

	MigrateOnStart bool `env:"MIGRATE_ON_START" envDefault:"true"`

	JWTSecret string        `env:"JWT_SECRET" envDefault:"super-secret-key-change-me"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"24h"`

	// akun admin pertama, hanya dibuat bila tabel users kosong
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173,http://127.0.0.1:5173"`

	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	KPICacheTTL   time.Duration `env:"KPI_CACHE_TTL" envDefault:"30s"`

	Pricing PricingEnv `envPrefix:"PRICING_"`
}

// PricingEnv overrides the checkout surcharges. Zero is a legal value,
// so defaults live in the tags rather than in code.
type PricingEnv struct {
	DeliveryFee      int64 `env:"DELIVERY_FEE" envDefault:"50000"`
	ReturnFee        int64 `env:"RETURN_FEE" envDefault:"50000"`
	DriverFeePerDay  int64 `env:"DRIVER_FEE_PER_DAY" envDefault:"100000"`
	InsurancePercent int64 `env:"INSURANCE_PERCENT" envDefault:"5"`
	ServiceFee       int64 `env:"SERVICE_FEE" envDefault:"25000"`
	TaxPercent       int64 `env:"TAX_PERCENT" envDefault:"11"`
}

func (p PricingEnv) Rules() pricing.Rules {
	return pricing.Rules{
		DeliveryFee:      p.DeliveryFee,
		ReturnFee:        p.ReturnFee,
		DriverFeePerDay:  p.DriverFeePerDay,
		InsurancePercent: p.InsurancePercent,
		ServiceFee:       p.ServiceFee,
		TaxPercent:       p.TaxPercent,
	}
}

// DSN builds the go-sql-driver/mysql connection string.
func (e Env) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=Local&charset=utf8mb4&multiStatements=true&clientFoundRows=true&timeout=5s&readTimeout=30s&writeTimeout=30s",
		e.DBUser,
		e.DBPassword,
		e.DBHost,
		e.DBName,
	)
}

// defaultJWTSecret must match the envDefault of JWTSecret.
const defaultJWTSecret = "super-secret-key-change-me"

// ParseEnv is LoadEnv without the fatal exit. In release mode the JWT secret
// has to be set explicitly.
func ParseEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	if strings.EqualFold(strings.TrimSpace(e.GinMode), "release") {
		secret := strings.TrimSpace(e.JWTSecret)
		if secret == "" || secret == defaultJWTSecret {
			return Env{}, fmt.Errorf("JWT_SECRET wajib diisi (bukan nilai default) saat GIN_MODE=release")
		}
	}
	return e, nil
}

func LoadEnv() Env {
	e, err := ParseEnv()
	if err != nil {
		log.Fatalf("Gagal membaca konfigurasi: %v", err)
	}
	return e
}
