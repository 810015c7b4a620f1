package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/edusight/gradescan-backend/internal/gemini"
	"github.com/edusight/gradescan-backend/internal/model"
	"github.com/edusight/gradescan-backend/internal/response"
	"github.com/edusight/gradescan-backend/internal/service"
)

// ReportHandler handles grade report analysis endpoints.
type ReportHandler struct {
	reports *service.ReportService
	log     zerolog.Logger
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reports *service.ReportService, log zerolog.Logger) *ReportHandler {
	return &ReportHandler{
		reports: reports,
		log:     log.With().Str("component", "report_handler").Logger(),
	}
}

// AnalyzeReport godoc
// POST /api/v1/reports/analyze
// Extracts student records from an uploaded grade report image and returns
// per-student means alongside the raw records.
func (h *ReportHandler) AnalyzeReport(c *gin.Context) {
	h.process(c, h.reports.Analyze)
}

// ExportReport godoc
// POST /api/v1/reports/export
// Same pipeline as AnalyzeReport, with means rounded to two decimals and a
// summary/detail workbook written server-side. The response never carries
// the written path.
func (h *ReportHandler) ExportReport(c *gin.Context) {
	h.process(c, h.reports.AnalyzeAndExport)
}

func (h *ReportHandler) process(c *gin.Context, run func(context.Context, []byte, string) (*model.AnalysisResult, error)) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.fail(c, fmt.Errorf("read upload: %w", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.fail(c, fmt.Errorf("read upload: %w", err))
		return
	}

	// The declared part media type rides along unvalidated; the upstream
	// service is the one that interprets it.
	result, err := run(c.Request.Context(), data, header.Header.Get("Content-Type"))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// fail collapses any pipeline error to the flat public shape. An upstream
// non-200 picks the detail form with the raw upstream body; everything
// else is a single-field error.
func (h *ReportHandler) fail(c *gin.Context, err error) {
	h.log.Error().
		Err(err).
		Str("kind", string(service.KindOf(err))).
		Str("path", c.FullPath()).
		Msg("Report processing failed")

	var statusErr *gemini.StatusError
	if errors.As(err, &statusErr) {
		response.ErrorWithDetail(c, "processing failed", statusErr.Body)
		return
	}
	response.Error(c, err.Error())
}
