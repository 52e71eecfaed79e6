package config

import (
	"strings"
	"testing"
	"time"
)

func TestParseEnvDefaults(t *testing.T) {
	e, err := ParseEnv()
	if err != nil {
		t.Fatalf("ParseEnv error: %v", err)
	}
	if e.AppAddr != ":8080" {
		t.Fatalf("AppAddr = %q", e.AppAddr)
	}
	if e.JWTTTL != 24*time.Hour {
		t.Fatalf("JWTTTL = %v", e.JWTTTL)
	}
	r := e.Pricing.Rules()
	if r.DeliveryFee != 50000 || r.TaxPercent != 11 || r.ServiceFee != 25000 {
		t.Fatalf("pricing defaults wrong: %+v", r)
	}
	if len(e.CORSAllowedOrigins) == 0 {
		t.Fatalf("expected default CORS origins")
	}
}

func TestParseEnvOverrides(t *testing.T) {
	t.Setenv("APP_ADDR", ":9090")
	t.Setenv("PRICING_TAX_PERCENT", "12")
	t.Setenv("PRICING_SERVICE_FEE", "0")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://rental.example,https://admin.rental.example")
	t.Setenv("DB_NAME", "rental_test")

	e, err := ParseEnv()
	if err != nil {
		t.Fatalf("ParseEnv error: %v", err)
	}
	if e.AppAddr != ":9090" {
		t.Fatalf("AppAddr = %q", e.AppAddr)
	}
	if e.Pricing.TaxPercent != 12 || e.Pricing.ServiceFee != 0 {
		t.Fatalf("pricing overrides not applied: %+v", e.Pricing)
	}
	if len(e.CORSAllowedOrigins) != 2 {
		t.Fatalf("origins = %v", e.CORSAllowedOrigins)
	}
	if !strings.Contains(e.DSN(), "/rental_test?") {
		t.Fatalf("DSN missing db name: %s", e.DSN())
	}
}

func TestParseEnvReleaseNeedsJWTSecret(t *testing.T) {
	t.Setenv("GIN_MODE", "release")

	if _, err := ParseEnv(); err == nil {
		t.Fatalf("expected error for default secret in release mode")
	}

	t.Setenv("JWT_SECRET", "  ")
	if _, err := ParseEnv(); err == nil {
		t.Fatalf("expected error for blank secret in release mode")
	}

	t.Setenv("JWT_SECRET", "f3a9c1d7e2b84c60a5d9")
	e, err := ParseEnv()
	if err != nil {
		t.Fatalf("ParseEnv error: %v", err)
	}
	if e.JWTSecret != "f3a9c1d7e2b84c60a5d9" {
		t.Fatalf("JWTSecret = %q", e.JWTSecret)
	}

	t.Setenv("GIN_MODE", "debug")
	t.Setenv("JWT_SECRET", defaultJWTSecret)
	if _, err := ParseEnv(); err != nil {
		t.Fatalf("debug mode should accept the default secret: %v", err)
	}
}
