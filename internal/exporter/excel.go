package exporter

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/edusight/gradescan-backend/internal/config"
	"github.com/edusight/gradescan-backend/internal/model"
)

// FilePrefix starts every workbook filename. The cleanup worker matches on
// it so foreign files in the export directory are never touched.
const FilePrefix = "grades_students_"

// Workbook layout.
const (
	summarySheet    = "Summary"
	detailSheet     = "Detail"
	timestampLayout = "20060102_150405"
)

// ExcelWriter persists analysis results as a two-sheet xlsx workbook under
// the configured export directory.
type ExcelWriter struct {
	dir string
	log zerolog.Logger
}

// NewExcelWriter creates an ExcelWriter.
func NewExcelWriter(cfg *config.Config, log zerolog.Logger) *ExcelWriter {
	return &ExcelWriter{
		dir: cfg.ExportDir,
		log: log.With().Str("component", "excel_writer").Logger(),
	}
}

// Write renders the Summary and Detail sheets and saves the workbook.
// Returns the written path. Filenames carry second granularity: two writes
// within the same second target the same file and the later one wins.
func (w *ExcelWriter) Write(summaries []model.StudentSummary, records []model.StudentRecord) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return "", fmt.Errorf("rename summary sheet: %w", err)
	}
	if err := f.SetSheetRow(summarySheet, "A1", &[]interface{}{"name", "mean_attendance", "mean_grade"}); err != nil {
		return "", fmt.Errorf("write summary header: %w", err)
	}
	for i, s := range summaries {
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(summarySheet, cell, &[]interface{}{s.Name, s.MeanAttendance, s.MeanGrade}); err != nil {
			return "", fmt.Errorf("write summary row %d: %w", i+2, err)
		}
	}

	if _, err := f.NewSheet(detailSheet); err != nil {
		return "", fmt.Errorf("create detail sheet: %w", err)
	}
	if err := f.SetSheetRow(detailSheet, "A1", &[]interface{}{"name", "attendances", "grades"}); err != nil {
		return "", fmt.Errorf("write detail header: %w", err)
	}
	for i, r := range records {
		cell := fmt.Sprintf("A%d", i+2)
		row := []interface{}{r.Name, formatSeries(r.Attendances), formatSeries(r.Grades)}
		if err := f.SetSheetRow(detailSheet, cell, &row); err != nil {
			return "", fmt.Errorf("write detail row %d: %w", i+2, err)
		}
	}

	// Ensure export directory exists.
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	path := filepath.Join(w.dir, FilePrefix+time.Now().Format(timestampLayout)+".xlsx")
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}

	w.log.Debug().Str("path", path).Msg("Workbook saved")
	return path, nil
}

// formatSeries renders a numeric series the way the detail sheet shows it,
// e.g. [96, 95, 100].
func formatSeries(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
