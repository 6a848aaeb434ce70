package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRootRedirectsToIntakePage(t *testing.T) {
	s := &Server{}
	r := gin.New()
	r.GET("/", s.rootHandler)

	req, err := http.NewRequest("GET", "/", nil)
	if err != nil {
		t.Fatal(err)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusFound {
		t.Errorf("Handler returned wrong status code: got %v want %v", status, http.StatusFound)
	}
	if location := rr.Header().Get("Location"); location != "/web" {
		t.Errorf("Handler returned unexpected location: got %v want %v", location, "/web")
	}
}

func TestSwaggerRouteRegistered(t *testing.T) {
	s := &Server{}
	r := s.RegisterRoutes()

	engine, ok := r.(*gin.Engine)
	if !ok {
		t.Fatalf("expected *gin.Engine, got %T", r)
	}

	found := false
	for _, route := range engine.Routes() {
		if route.Method == http.MethodGet && route.Path == "/swagger/*any" {
			found = true
			break
		}
	}

	if !found {
		t.Fatal("expected swagger route GET /swagger/*any to be registered")
	}
}

func TestMetricsRouteServesPrometheusFormat(t *testing.T) {
	s := &Server{}
	r := s.RegisterRoutes()

	req, err := http.NewRequest(http.MethodGet, "/metrics", nil)
	if err != nil {
		t.Fatal(err)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "go_goroutines") {
		t.Fatal("expected default Go collectors in metrics output")
	}
}

func TestHealthWithoutDatabaseIsUnavailable(t *testing.T) {
	s := &Server{}
	r := s.RegisterRoutes()

	req, err := http.NewRequest(http.MethodGet, "/health", nil)
	if err != nil {
		t.Fatal(err)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status %d, got %d", http.StatusServiceUnavailable, rr.Code)
	}
}

func TestStylesheetServedFromAssets(t *testing.T) {
	s := &Server{}
	r := s.RegisterRoutes()

	req, err := http.NewRequest(http.MethodGet, "/assets/css/intake.css", nil)
	if err != nil {
		t.Fatal(err)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
}

func TestPanicRecoveryReturnsGenericError(t *testing.T) {
	s := &Server{}
	engine, ok := s.RegisterRoutes().(*gin.Engine)
	if !ok {
		t.Fatal("expected *gin.Engine")
	}
	engine.GET("/boom", func(c *gin.Context) {
		panic("ledger handle is nil")
	})

	req, err := http.NewRequest(http.MethodGet, "/boom", nil)
	if err != nil {
		t.Fatal(err)
	}
	rr := httptest.NewRecorder()
	engine.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, rr.Code)
	}
	if got := strings.TrimSpace(rr.Body.String()); got != `{"error":"internal server error"}` {
		t.Fatalf("expected generic error body, got %s", got)
	}
	if strings.Contains(rr.Body.String(), "ledger handle") {
		t.Fatalf("expected panic value to stay out of the response, got %s", rr.Body.String())
	}
}
