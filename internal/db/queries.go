package db

import (
	"context"
	"database/sql"
	"time"
)

// Ride queries

// CreateRideParams holds the insertable fields for a ride.
type CreateRideParams struct {
	Name           string
	StartTime      time.Time
	DurationSecs   int64
	DistanceM      float64
	ElevationGainM sql.NullFloat64
	AvgHeartRate   sql.NullFloat64
}

// CreateRide inserts a ride and returns its ID.
func (q *Queries) CreateRide(ctx context.Context, arg CreateRideParams) (int64, error) {
	const query = `INSERT INTO rides (name, start_time, duration_secs, distance_m, elevation_gain_m, avg_heart_rate)
VALUES (?, ?, ?, ?, ?, ?)`
	res, err := q.db.ExecContext(ctx, query,
		arg.Name, arg.StartTime, arg.DurationSecs, arg.DistanceM, arg.ElevationGainM, arg.AvgHeartRate)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListRides returns all rides, newest first.
func (q *Queries) ListRides(ctx context.Context) ([]Ride, error) {
	const query = `SELECT id, name, start_time, duration_secs, distance_m, elevation_gain_m, avg_heart_rate, created_at
FROM rides ORDER BY start_time DESC`
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Ride
	for rows.Next() {
		var r Ride
		if err := rows.Scan(&r.ID, &r.Name, &r.StartTime, &r.DurationSecs, &r.DistanceM,
			&r.ElevationGainM, &r.AvgHeartRate, &r.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

// GetRide returns a single ride by ID.
func (q *Queries) GetRide(ctx context.Context, id int64) (Ride, error) {
	const query = `SELECT id, name, start_time, duration_secs, distance_m, elevation_gain_m, avg_heart_rate, created_at
FROM rides WHERE id = ?`
	var r Ride
	err := q.db.QueryRowContext(ctx, query, id).Scan(&r.ID, &r.Name, &r.StartTime, &r.DurationSecs,
		&r.DistanceM, &r.ElevationGainM, &r.AvgHeartRate, &r.CreatedAt)
	return r, err
}

// CountRides returns the total number of rides.
func (q *Queries) CountRides(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rides`).Scan(&count)
	return count, err
}

// LatestRideStart returns the newest ride start time.
func (q *Queries) LatestRideStart(ctx context.Context) (sql.NullTime, error) {
	var t sql.NullTime
	err := q.db.QueryRowContext(ctx, `SELECT MAX(start_time) FROM rides`).Scan(&t)
	return t, err
}

// Run queries

// CreateRunParams holds the insertable fields for a run.
type CreateRunParams struct {
	Name         string
	StartTime    time.Time
	DurationSecs int64
	DistanceM    float64
	Cadence      sql.NullFloat64
	AvgHeartRate sql.NullFloat64
}

// CreateRun inserts a run and returns its ID.
func (q *Queries) CreateRun(ctx context.Context, arg CreateRunParams) (int64, error) {
	const query = `INSERT INTO runs (name, start_time, duration_secs, distance_m, cadence, avg_heart_rate)
VALUES (?, ?, ?, ?, ?, ?)`
	res, err := q.db.ExecContext(ctx, query,
		arg.Name, arg.StartTime, arg.DurationSecs, arg.DistanceM, arg.Cadence, arg.AvgHeartRate)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListRuns returns all runs, newest first.
func (q *Queries) ListRuns(ctx context.Context) ([]Run, error) {
	const query = `SELECT id, name, start_time, duration_secs, distance_m, cadence, avg_heart_rate, created_at
FROM runs ORDER BY start_time DESC`
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Name, &r.StartTime, &r.DurationSecs, &r.DistanceM,
			&r.Cadence, &r.AvgHeartRate, &r.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

// GetRun returns a single run by ID.
func (q *Queries) GetRun(ctx context.Context, id int64) (Run, error) {
	const query = `SELECT id, name, start_time, duration_secs, distance_m, cadence, avg_heart_rate, created_at
FROM runs WHERE id = ?`
	var r Run
	err := q.db.QueryRowContext(ctx, query, id).Scan(&r.ID, &r.Name, &r.StartTime, &r.DurationSecs,
		&r.DistanceM, &r.Cadence, &r.AvgHeartRate, &r.CreatedAt)
	return r, err
}

// CountRuns returns the total number of runs.
func (q *Queries) CountRuns(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&count)
	return count, err
}

// LatestRunStart returns the newest run start time.
func (q *Queries) LatestRunStart(ctx context.Context) (sql.NullTime, error) {
	var t sql.NullTime
	err := q.db.QueryRowContext(ctx, `SELECT MAX(start_time) FROM runs`).Scan(&t)
	return t, err
}

// Swim queries

// CreateSwimParams holds the insertable fields for a swim.
type CreateSwimParams struct {
	Name         string
	StartTime    time.Time
	DurationSecs int64
	DistanceM    float64
	PoolLengthM  sql.NullFloat64
}

// CreateSwim inserts a swim and returns its ID.
func (q *Queries) CreateSwim(ctx context.Context, arg CreateSwimParams) (int64, error) {
	const query = `INSERT INTO swims (name, start_time, duration_secs, distance_m, pool_length_m)
VALUES (?, ?, ?, ?, ?)`
	res, err := q.db.ExecContext(ctx, query,
		arg.Name, arg.StartTime, arg.DurationSecs, arg.DistanceM, arg.PoolLengthM)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListSwims returns all swims, newest first.
func (q *Queries) ListSwims(ctx context.Context) ([]Swim, error) {
	const query = `SELECT id, name, start_time, duration_secs, distance_m, pool_length_m, created_at
FROM swims ORDER BY start_time DESC`
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Swim
	for rows.Next() {
		var s Swim
		if err := rows.Scan(&s.ID, &s.Name, &s.StartTime, &s.DurationSecs, &s.DistanceM,
			&s.PoolLengthM, &s.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

// GetSwim returns a single swim by ID.
func (q *Queries) GetSwim(ctx context.Context, id int64) (Swim, error) {
	const query = `SELECT id, name, start_time, duration_secs, distance_m, pool_length_m, created_at
FROM swims WHERE id = ?`
	var s Swim
	err := q.db.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.Name, &s.StartTime, &s.DurationSecs,
		&s.DistanceM, &s.PoolLengthM, &s.CreatedAt)
	return s, err
}

// CountSwims returns the total number of swims.
func (q *Queries) CountSwims(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM swims`).Scan(&count)
	return count, err
}

// LatestSwimStart returns the newest swim start time.
func (q *Queries) LatestSwimStart(ctx context.Context) (sql.NullTime, error) {
	var t sql.NullTime
	err := q.db.QueryRowContext(ctx, `SELECT MAX(start_time) FROM swims`).Scan(&t)
	return t, err
}

// Shoot queries

// CreateShootParams holds the insertable fields for a shooting session.
type CreateShootParams struct {
	Name         string
	StartTime    time.Time
	DurationSecs int64
	Shots        int64
	Hits         sql.NullInt64
	Score        float64
}

// CreateShoot inserts a shooting session and returns its ID.
func (q *Queries) CreateShoot(ctx context.Context, arg CreateShootParams) (int64, error) {
	const query = `INSERT INTO shoots (name, start_time, duration_secs, shots, hits, score)
VALUES (?, ?, ?, ?, ?, ?)`
	res, err := q.db.ExecContext(ctx, query,
		arg.Name, arg.StartTime, arg.DurationSecs, arg.Shots, arg.Hits, arg.Score)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListShoots returns all shooting sessions, newest first.
func (q *Queries) ListShoots(ctx context.Context) ([]Shoot, error) {
	const query = `SELECT id, name, start_time, duration_secs, shots, hits, score, created_at
FROM shoots ORDER BY start_time DESC`
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Shoot
	for rows.Next() {
		var s Shoot
		if err := rows.Scan(&s.ID, &s.Name, &s.StartTime, &s.DurationSecs, &s.Shots,
			&s.Hits, &s.Score, &s.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

// GetShoot returns a single shooting session by ID.
func (q *Queries) GetShoot(ctx context.Context, id int64) (Shoot, error) {
	const query = `SELECT id, name, start_time, duration_secs, shots, hits, score, created_at
FROM shoots WHERE id = ?`
	var s Shoot
	err := q.db.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.Name, &s.StartTime, &s.DurationSecs,
		&s.Shots, &s.Hits, &s.Score, &s.CreatedAt)
	return s, err
}

// CountShoots returns the total number of shooting sessions.
func (q *Queries) CountShoots(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM shoots`).Scan(&count)
	return count, err
}

// LatestShootStart returns the newest shooting session start time.
func (q *Queries) LatestShootStart(ctx context.Context) (sql.NullTime, error) {
	var t sql.NullTime
	err := q.db.QueryRowContext(ctx, `SELECT MAX(start_time) FROM shoots`).Scan(&t)
	return t, err
}

// LatestSessionStart returns the newest start time across all four session
// tables, or an invalid NullTime when the store is empty. Used for delta
// imports.
func (q *Queries) LatestSessionStart(ctx context.Context) (sql.NullTime, error) {
	const query = `SELECT MAX(t) FROM (
    SELECT MAX(start_time) AS t FROM rides
    UNION ALL SELECT MAX(start_time) FROM runs
    UNION ALL SELECT MAX(start_time) FROM swims
    UNION ALL SELECT MAX(start_time) FROM shoots
)`
	var t sql.NullTime
	err := q.db.QueryRowContext(ctx, query).Scan(&t)
	return t, err
}
