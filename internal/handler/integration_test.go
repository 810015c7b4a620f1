package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/edusight/gradescan-backend/internal/config"
	"github.com/edusight/gradescan-backend/internal/exporter"
	"github.com/edusight/gradescan-backend/internal/gemini"
	"github.com/edusight/gradescan-backend/internal/handler"
	"github.com/edusight/gradescan-backend/internal/model"
	"github.com/edusight/gradescan-backend/internal/router"
	"github.com/edusight/gradescan-backend/internal/service"
)

// newStack wires the real client, service, exporter and router against the
// given upstream URL, mirroring the wiring in cmd/server.
func newStack(t *testing.T, upstreamURL string) (*gin.Engine, string) {
	t.Helper()
	exportDir := t.TempDir()
	cfg := &config.Config{
		GinMode:        gin.TestMode,
		GeminiAPIKey:   "test-key",
		GeminiEndpoint: upstreamURL,
		ExportDir:      exportDir,
		RatePerMinute:  100,
	}

	log := zerolog.Nop()
	client := gemini.NewClient(cfg, log)
	writer := exporter.NewExcelWriter(cfg, log)
	reports := service.NewReportService(client, writer, log)

	engine := router.SetupRouter(&router.Handlers{
		Report: handler.NewReportHandler(reports, log),
	}, cfg)
	return engine, exportDir
}

func TestReportPipelineEndToEnd(t *testing.T) {
	answer := "```json\n" +
		`[{"name":"Ana Souza","attendances":[96,95,90,100,100,100,100],"grades":[85,89,89,80,60,85,86]},` +
		`{"name":"Bruno Lima","attendances":[0],"grades":[0]}]` +
		"\n```"

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Goog-Api-Key") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		resp := gemini.GenerateResponse{
			Candidates: []gemini.Candidate{{
				Content: gemini.CandidateContent{Parts: []gemini.CandidatePart{{Text: answer}}},
			}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer upstream.Close()

	engine, exportDir := newStack(t, upstream.URL)

	t.Run("Analyze", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := uploadRequest(t, "/api/v1/reports/analyze", []byte("page-bytes"), "image/png")
		engine.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}

		var result model.AnalysisResult
		if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
			t.Fatalf("decode envelope: %v", err)
		}
		if len(result.Payload) != 2 {
			t.Fatalf("payload = %+v", result.Payload)
		}
		if result.Payload[1].Name != "Bruno Lima" || result.Payload[1].MeanGrade != 0 {
			t.Errorf("withdrawn student = %+v", result.Payload[1])
		}

		entries, err := os.ReadDir(exportDir)
		if err != nil {
			t.Fatalf("read export dir: %v", err)
		}
		if len(entries) != 0 {
			t.Errorf("analyze wrote %d files, want none", len(entries))
		}
	})

	t.Run("Export", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := uploadRequest(t, "/api/v1/reports/export", []byte("page-bytes"), "image/png")
		engine.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}

		var result model.AnalysisResult
		if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
			t.Fatalf("decode envelope: %v", err)
		}
		if result.Payload[0].MeanAttendance != 97.29 {
			t.Errorf("mean attendance = %v, want 97.29", result.Payload[0].MeanAttendance)
		}

		entries, err := os.ReadDir(exportDir)
		if err != nil {
			t.Fatalf("read export dir: %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("export dir holds %d files, want 1", len(entries))
		}
		name := entries[0].Name()
		if !strings.HasPrefix(name, "grades_students_") || filepath.Ext(name) != ".xlsx" {
			t.Errorf("workbook name = %q", name)
		}
	})
}

func TestReportPipelineUpstreamRejection(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"status":"RESOURCE_EXHAUSTED"}}`))
	}))
	defer upstream.Close()

	engine, _ := newStack(t, upstream.URL)

	w := httptest.NewRecorder()
	req := uploadRequest(t, "/api/v1/reports/analyze", []byte("page-bytes"), "image/png")
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500 regardless of upstream status", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] != "processing failed" {
		t.Errorf("error = %q", body["error"])
	}
	if !strings.Contains(body["detail"], "RESOURCE_EXHAUSTED") {
		t.Errorf("detail = %q, want raw upstream body", body["detail"])
	}
}
