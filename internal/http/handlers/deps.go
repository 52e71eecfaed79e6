package handlers

import (
	"sync"
	"time"

	"carrental/internal/pricing"
	"carrental/internal/services"
)

// Deps carries the runtime settings handlers need to build services.
type Deps struct {
	Rules     pricing.Rules
	JWTSecret []byte
	JWTTTL    time.Duration
	KPICache  services.KPICache
}

var (
	depsMu sync.RWMutex
	deps   = Deps{Rules: pricing.DefaultRules()}
)

// Configure is called once from main before the server starts.
func Configure(d Deps) {
	depsMu.Lock()
	defer depsMu.Unlock()
	deps = d
}

func currentDeps() Deps {
	depsMu.RLock()
	defer depsMu.RUnlock()
	return deps
}

// AuthService builds the token service from the configured secret.
func AuthService() services.AuthService {
	d := currentDeps()
	return services.AuthService{Secret: d.JWTSecret, TTL: d.JWTTTL}
}

// ParseToken is handed to the bearer middleware; it reads the secret on
// every call so Configure may run after the router is built.
func ParseToken(raw string) (services.Claims, error) {
	return AuthService().ParseToken(raw)
}
