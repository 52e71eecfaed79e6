package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	intconfig "carrental/internal/config"
	"carrental/internal/domain"
	"carrental/internal/domain/models"
	h "carrental/internal/http/handlers"
	"carrental/internal/pricing"

	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h.Configure(h.Deps{Rules: pricing.DefaultRules(), JWTSecret: []byte("test-secret")})
	r := NewRouter(intconfig.Env{})
	h.SetRouter(r)
	return r
}

func tokenFor(t *testing.T, role domain.Role) string {
	t.Helper()
	tok, _, err := h.AuthService().IssueToken(models.User{ID: 9, Role: role})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return tok
}

func do(r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthAndRouteListing(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodGet, "/api/health", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("health status=%d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected X-Request-ID header")
	}

	w = do(r, http.MethodGet, "/api/routes", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("routes status=%d", w.Code)
	}
	for _, p := range []string{"/api/public/bookings", "/api/schedules/bookings/:id", "/api/reports/financial-summary.pdf", "/metrics"} {
		if !strings.Contains(w.Body.String(), p) {
			t.Fatalf("route %s not listed", p)
		}
	}
}

func TestUnknownRouteIsJSON404(t *testing.T) {
	r := newTestRouter(t)
	w := do(r, http.MethodGet, "/api/nope", "", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("body not json: %v", err)
	}
	if body["path"] != "/api/nope" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	r := newTestRouter(t)

	if w := do(r, http.MethodGet, "/api/vehicles", "", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status=%d", w.Code)
	}
	if w := do(r, http.MethodGet, "/api/dashboard/kpi", "not-a-jwt", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: status=%d", w.Code)
	}

	other, _, err := h.AuthService().IssueToken(models.User{ID: 9, Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	h.Configure(h.Deps{Rules: pricing.DefaultRules(), JWTSecret: []byte("rotated")})
	if w := do(r, http.MethodGet, "/api/roles", other, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("token signed with old secret: status=%d", w.Code)
	}
}

func TestRoleChecksOnWrites(t *testing.T) {
	r := newTestRouter(t)

	viewer := tokenFor(t, domain.RoleViewer)
	if w := do(r, http.MethodPost, "/api/vehicles", viewer, `{"code":"X"}`); w.Code != http.StatusForbidden {
		t.Fatalf("viewer create vehicle: status=%d", w.Code)
	}
	if w := do(r, http.MethodPut, "/api/schedules/bookings/1", viewer, `{"status":"confirmed"}`); w.Code != http.StatusForbidden {
		t.Fatalf("viewer update booking: status=%d", w.Code)
	}

	staff := tokenFor(t, domain.RoleStaff)
	if w := do(r, http.MethodPost, "/api/users", staff, `{"name":"A"}`); w.Code != http.StatusForbidden {
		t.Fatalf("staff create user: status=%d", w.Code)
	}
	// staff may write vehicles; the bad id fails before any query
	if w := do(r, http.MethodPut, "/api/vehicles/abc", staff, `{"code":"X"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("staff update vehicle bad id: status=%d", w.Code)
	}
}

func TestRolesListing(t *testing.T) {
	r := newTestRouter(t)
	w := do(r, http.MethodGet, "/api/roles", tokenFor(t, domain.RoleViewer), "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var roles []map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &roles); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(roles) != 3 || roles[0]["id"] != "admin" {
		t.Fatalf("unexpected roles %v", roles)
	}
}

func TestPublicQuoteValidatesBeforeDB(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/public/bookings/quote", "", `{"vehicleId":3,"pickupDate":"2025-06-10","returnDate":"2025-06-08"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["code"] != "validation_error" || body["request_id"] == "" {
		t.Fatalf("unexpected body %v", body)
	}

	if w := do(r, http.MethodPost, "/api/public/bookings", "", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("empty checkout body: status=%d", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(t)
	do(r, http.MethodGet, "/api/health", "", "")

	w := do(r, http.MethodGet, "/metrics", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `carrental_api_http_requests_total{method="GET",route="/api/health",status="200"}`) {
		t.Fatalf("health request not counted")
	}
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(intconfig.Env{CORSAllowedOrigins: []string{"http://localhost:5173"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/public/vehicles", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("allow-origin=%q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("foreign origin: status=%d", w.Code)
	}
}
