package importer

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tetralog/tetralog/internal/db"
	"github.com/tetralog/tetralog/internal/logging"
	"github.com/tetralog/tetralog/internal/training"
)

// Store is the write surface the importer needs. Implemented by *db.Queries.
type Store interface {
	CreateRide(ctx context.Context, arg db.CreateRideParams) (int64, error)
	CreateRun(ctx context.Context, arg db.CreateRunParams) (int64, error)
	CreateSwim(ctx context.Context, arg db.CreateSwimParams) (int64, error)
	CreateShoot(ctx context.Context, arg db.CreateShootParams) (int64, error)
	LatestSessionStart(ctx context.Context) (sql.NullTime, error)
}

// Fetcher is the export feed surface the importer pulls from. Implemented by
// *Client.
type Fetcher interface {
	FetchAllSessions(ctx context.Context) ([]ExportSession, error)
	FetchSessionsSince(ctx context.Context, since time.Time) ([]ExportSession, error)
}

// Service pulls sessions from an export feed into the local database
type Service struct {
	store  Store
	client Fetcher
}

// Result summarizes one import run
type Result struct {
	BatchID  string
	Fetched  int
	Imported int
	Skipped  int
}

// NewService creates a new import service
func NewService(store Store, client Fetcher) *Service {
	return &Service{store: store, client: client}
}

// Run performs one import. The first run pulls the full feed; later runs pull
// only sessions newer than the latest stored start time.
func (s *Service) Run(ctx context.Context) (Result, error) {
	batchID := uuid.New().String()
	result := Result{BatchID: batchID}

	latest, err := s.store.LatestSessionStart(ctx)
	if err != nil {
		return result, fmt.Errorf("reading latest session start: %w", err)
	}

	var sessions []ExportSession
	if latest.Valid {
		logging.Info("starting delta import", "batch_id", batchID, "since", latest.Time)
		sessions, err = s.client.FetchSessionsSince(ctx, latest.Time)
	} else {
		logging.Info("starting full import", "batch_id", batchID)
		sessions, err = s.client.FetchAllSessions(ctx)
	}
	if err != nil {
		return result, fmt.Errorf("fetching sessions: %w", err)
	}
	result.Fetched = len(sessions)

	for _, session := range sessions {
		if err := s.importSession(ctx, session); err != nil {
			if _, ok := err.(unknownDisciplineError); ok {
				logging.Warn("skipping session with unknown type", "batch_id", batchID, "type", session.Type, "name", session.Name)
				result.Skipped++
				continue
			}
			return result, fmt.Errorf("importing session %q: %w", session.Name, err)
		}
		result.Imported++
	}

	logging.Info("import finished", "batch_id", batchID,
		"fetched", result.Fetched, "imported", result.Imported, "skipped", result.Skipped)
	return result, nil
}

type unknownDisciplineError struct {
	err error
}

func (e unknownDisciplineError) Error() string { return e.err.Error() }

func (s *Service) importSession(ctx context.Context, session ExportSession) error {
	discipline, err := training.ParseDiscipline(session.Type)
	if err != nil {
		return unknownDisciplineError{err: err}
	}

	switch discipline {
	case training.DisciplineRide:
		_, err = s.store.CreateRide(ctx, db.CreateRideParams{
			Name:           session.Name,
			StartTime:      session.StartTime,
			DurationSecs:   session.DurationSecs,
			DistanceM:      session.DistanceM,
			ElevationGainM: toNullFloat64(session.ElevationGainM),
			AvgHeartRate:   toNullFloat64(session.AvgHeartRate),
		})
	case training.DisciplineRun:
		_, err = s.store.CreateRun(ctx, db.CreateRunParams{
			Name:         session.Name,
			StartTime:    session.StartTime,
			DurationSecs: session.DurationSecs,
			DistanceM:    session.DistanceM,
			Cadence:      toNullFloat64(session.Cadence),
			AvgHeartRate: toNullFloat64(session.AvgHeartRate),
		})
	case training.DisciplineSwim:
		_, err = s.store.CreateSwim(ctx, db.CreateSwimParams{
			Name:         session.Name,
			StartTime:    session.StartTime,
			DurationSecs: session.DurationSecs,
			DistanceM:    session.DistanceM,
			PoolLengthM:  toNullFloat64(session.PoolLengthM),
		})
	case training.DisciplineShoot:
		_, err = s.store.CreateShoot(ctx, db.CreateShootParams{
			Name:         session.Name,
			StartTime:    session.StartTime,
			DurationSecs: session.DurationSecs,
			Shots:        session.Shots,
			Hits:         toNullInt64(session.Hits),
			Score:        session.Score,
		})
	}
	return err
}

func toNullFloat64(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: v != 0}
}

func toNullInt64(v int64) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: v != 0}
}
