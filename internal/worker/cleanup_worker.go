package worker

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/edusight/gradescan-backend/internal/config"
	"github.com/edusight/gradescan-backend/internal/exporter"
)

const sweepInterval = time.Hour

// CleanupWorker prunes exported workbooks past the retention window. Export
// responses never carry the written path, so nothing references an expired
// workbook once it is gone.
type CleanupWorker struct {
	dir       string
	retention time.Duration
	log       zerolog.Logger
}

// NewCleanupWorker creates a new CleanupWorker.
func NewCleanupWorker(cfg *config.Config, log zerolog.Logger) *CleanupWorker {
	return &CleanupWorker{
		dir:       cfg.ExportDir,
		retention: time.Duration(cfg.ExportRetentionDays) * 24 * time.Hour,
		log:       log.With().Str("component", "cleanup_worker").Logger(),
	}
}

// Start begins the sweep loop. Call in a goroutine.
func (w *CleanupWorker) Start(ctx context.Context) {
	w.log.Info().Dur("retention", w.retention).Msg("Worker started")

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	w.sweep(time.Now())

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopped")
			return
		case <-ticker.C:
			w.sweep(time.Now())
		}
	}
}

// sweep removes workbooks whose modification time predates the retention
// cutoff. Only regular files matching the exporter's naming are touched.
func (w *CleanupWorker) sweep(now time.Time) int {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		// The directory appears with the first export.
		if !os.IsNotExist(err) {
			w.log.Error().Err(err).Str("dir", w.dir).Msg("Read export dir failed")
		}
		return 0
	}

	cutoff := now.Add(-w.retention)
	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, exporter.FilePrefix) || !strings.HasSuffix(name, ".xlsx") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(w.dir, name)); err != nil {
			w.log.Error().Err(err).Str("file", name).Msg("Remove failed")
			continue
		}
		removed++
	}

	if removed > 0 {
		w.log.Info().Int("count", removed).Msg("Pruned expired workbooks")
	}
	return removed
}
