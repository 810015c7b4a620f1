package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/edusight/gradescan-backend/internal/config"
	"github.com/edusight/gradescan-backend/internal/handler"
	"github.com/edusight/gradescan-backend/internal/model"
	"github.com/edusight/gradescan-backend/internal/service"
)

type unreachableExtractor struct{}

func (unreachableExtractor) Extract(context.Context, []byte, string) ([]model.StudentRecord, error) {
	return nil, errors.New("no upstream in router tests")
}

type unusedWriter struct{}

func (unusedWriter) Write([]model.StudentSummary, []model.StudentRecord) (string, error) {
	return "", errors.New("no exports in router tests")
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		GinMode:       gin.TestMode,
		ExportDir:     t.TempDir(),
		RatePerMinute: 100,
	}
}

func newTestRouter(cfg *config.Config) *gin.Engine {
	log := zerolog.Nop()
	reports := service.NewReportService(unreachableExtractor{}, unusedWriter{}, log)
	return SetupRouter(&Handlers{
		Report: handler.NewReportHandler(reports, log),
	}, cfg)
}

func TestHealthEndpoint(t *testing.T) {
	engine := newTestRouter(testConfig(t))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q", body["status"])
	}
}

func TestEveryResponseCarriesRequestID(t *testing.T) {
	engine := newTestRouter(testConfig(t))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	engine.ServeHTTP(w, req)

	if w.Header().Get("X-Request-ID") == "" {
		t.Error("response missing X-Request-ID header")
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "trace-7")
	engine.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "trace-7" {
		t.Errorf("X-Request-ID = %q, want caller value honored", got)
	}
}

func TestCORSPreflightAllowsAllByDefault(t *testing.T) {
	engine := newTestRouter(testConfig(t))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/reports/analyze", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d, want 204", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}

func TestCORSRestrictsConfiguredOrigins(t *testing.T) {
	cfg := testConfig(t)
	cfg.AllowedOrigins = []string{"https://app.example.com"}
	engine := newTestRouter(cfg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/reports/analyze", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("preflight from unknown origin: status = %d, want 403", w.Code)
	}
}

func TestReportsGroupRateLimited(t *testing.T) {
	cfg := testConfig(t)
	cfg.RatePerMinute = 1
	engine := newTestRouter(cfg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports/analyze", nil)
	req.RemoteAddr = "10.1.1.1:7000"
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("first request: status = %d, want 500 from empty upload", w.Code)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/reports/analyze", nil)
	req.RemoteAddr = "10.1.1.1:7000"
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: status = %d, want 429", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] != "too many requests" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestExportsServedStatically(t *testing.T) {
	cfg := testConfig(t)
	name := "grades_students_20260825_101500.xlsx"
	if err := os.WriteFile(filepath.Join(cfg.ExportDir, name), []byte("workbook-bytes"), 0o644); err != nil {
		t.Fatalf("seed export file: %v", err)
	}
	engine := newTestRouter(cfg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/exports/"+name, nil)
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if w.Body.String() != "workbook-bytes" {
		t.Errorf("body = %q", w.Body.String())
	}
	if got := w.Header().Get("Cache-Control"); got != "public, max-age=3600" {
		t.Errorf("Cache-Control = %q", got)
	}
}
