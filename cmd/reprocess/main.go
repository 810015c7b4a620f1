package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/edusight/gradescan-backend/internal/config"
	"github.com/edusight/gradescan-backend/internal/exporter"
	"github.com/edusight/gradescan-backend/internal/gemini"
	"github.com/edusight/gradescan-backend/internal/logger"
	"github.com/edusight/gradescan-backend/internal/model"
	"github.com/edusight/gradescan-backend/internal/service"
)

// Rebuilds a workbook from a saved extraction result without calling the
// upstream service. The input is either a raw_data array from an analyze
// response or a fenced model answer saved verbatim.
func main() {
	inputPath := flag.String("input", "", "path to a saved records JSON file")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg)

	if *inputPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	raw, err := os.ReadFile(*inputPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read input")
	}

	var records []model.StudentRecord
	if err := json.Unmarshal([]byte(gemini.StripFences(string(raw))), &records); err != nil {
		log.Fatal().Err(err).Str("input", *inputPath).Msg("Failed to decode records")
	}

	// The extraction adapter is wired but never called on this path.
	reports := service.NewReportService(gemini.NewClient(cfg, log), exporter.NewExcelWriter(cfg, log), log)

	fmt.Printf("=== Reprocessing %d students ===\n", len(records))

	result, err := reports.Reprocess(records)
	if err != nil {
		log.Fatal().Err(err).Msg("Reprocess failed")
	}

	for _, s := range result.Payload {
		fmt.Printf("%-30s attendance %6.2f  grade %6.2f\n", s.Name, s.MeanAttendance, s.MeanGrade)
	}
	fmt.Printf("\nWorkbook written under %s\n", cfg.ExportDir)
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
