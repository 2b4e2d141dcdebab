package workers

import (
	"context"
	"time"

	"github.com/tetralog/tetralog/internal/db"
	"github.com/tetralog/tetralog/internal/importer"
	"github.com/tetralog/tetralog/internal/logging"
)

// Runner is the import surface the worker drives. Implemented by
// *importer.Service.
type Runner interface {
	Run(ctx context.Context) (importer.Result, error)
}

// SessionImporter periodically pulls new sessions from the export feed
type SessionImporter struct {
	service  Runner
	interval time.Duration
}

// NewSessionImporter creates a new import worker
func NewSessionImporter(service Runner, interval time.Duration) *SessionImporter {
	return &SessionImporter{
		service:  service,
		interval: interval,
	}
}

// Run starts the import worker. It imports once immediately, then on every
// tick until the context is cancelled.
func (s *SessionImporter) Run(ctx context.Context) {
	log := logging.Logger
	log.Info().Dur("interval", s.interval).Msg("session importer started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.importOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("session importer stopped")
			return
		case <-ticker.C:
			s.importOnce(ctx)
		}
	}
}

func (s *SessionImporter) importOnce(ctx context.Context) {
	log := logging.Logger

	result, err := s.service.Run(ctx)
	if err != nil {
		// A failed import leaves the store as it was; the next tick retries.
		log.Error().Err(err).Str("batch_id", result.BatchID).Msg("session import failed")
		return
	}

	if result.Fetched == 0 {
		log.Debug().Str("batch_id", result.BatchID).Msg("no new sessions to import")
		return
	}

	log.Info().
		Str("batch_id", result.BatchID).
		Int("fetched", result.Fetched).
		Int("imported", result.Imported).
		Int("skipped", result.Skipped).
		Msg("session import completed")
}

// LogDatabaseStats logs current per-discipline session counts
func LogDatabaseStats(ctx context.Context, queries *db.Queries) {
	log := logging.Logger

	rides, err := queries.CountRides(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to count rides")
		return
	}
	runs, _ := queries.CountRuns(ctx)
	swims, _ := queries.CountSwims(ctx)
	shoots, _ := queries.CountShoots(ctx)

	total := rides + runs + swims + shoots
	if total == 0 {
		log.Info().Int64("total_sessions", 0).Msg("database statistics")
		return
	}

	newest, _ := queries.LatestSessionStart(ctx)
	newestStr := "unknown"
	if newest.Valid {
		newestStr = newest.Time.Format(time.RFC3339)
	}

	log.Info().
		Int64("total_sessions", total).
		Int64("rides", rides).
		Int64("runs", runs).
		Int64("swims", swims).
		Int64("shoots", shoots).
		Str("newest_session", newestStr).
		Msg("database statistics")
}
