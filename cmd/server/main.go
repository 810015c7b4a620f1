package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/edusight/gradescan-backend/internal/config"
	"github.com/edusight/gradescan-backend/internal/exporter"
	"github.com/edusight/gradescan-backend/internal/gemini"
	"github.com/edusight/gradescan-backend/internal/handler"
	"github.com/edusight/gradescan-backend/internal/logger"
	"github.com/edusight/gradescan-backend/internal/router"
	"github.com/edusight/gradescan-backend/internal/service"
	"github.com/edusight/gradescan-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Str("export_dir", cfg.ExportDir).
		Msg("Starting GradeScan Backend")

	// ─── Initialize Extraction Adapter ─────────────────────────────────
	geminiClient := gemini.NewClient(cfg, log)

	// ─── Initialize Services ──────────────────────────────────────────
	excelWriter := exporter.NewExcelWriter(cfg, log)
	reportService := service.NewReportService(geminiClient, excelWriter, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Report: handler.NewReportHandler(reportService, log),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, cfg)

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	if cfg.ExportRetentionDays > 0 {
		cleanupWorker := worker.NewCleanupWorker(cfg, log)
		go cleanupWorker.Start(workerCtx)
	}

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// Stop background workers.
	workerCancel()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
