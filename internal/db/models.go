package db

import (
	"database/sql"
	"time"
)

// Ride is a cycling session row.
type Ride struct {
	ID             int64
	Name           string
	StartTime      time.Time
	DurationSecs   int64
	DistanceM      float64
	ElevationGainM sql.NullFloat64
	AvgHeartRate   sql.NullFloat64
	CreatedAt      sql.NullTime
}

// Run is a running session row.
type Run struct {
	ID           int64
	Name         string
	StartTime    time.Time
	DurationSecs int64
	DistanceM    float64
	Cadence      sql.NullFloat64
	AvgHeartRate sql.NullFloat64
	CreatedAt    sql.NullTime
}

// Swim is a swimming session row.
type Swim struct {
	ID           int64
	Name         string
	StartTime    time.Time
	DurationSecs int64
	DistanceM    float64
	PoolLengthM  sql.NullFloat64
	CreatedAt    sql.NullTime
}

// Shoot is a shooting session row. Shooting sessions carry no distance;
// their metrics are shot counts and score.
type Shoot struct {
	ID           int64
	Name         string
	StartTime    time.Time
	DurationSecs int64
	Shots        int64
	Hits         sql.NullInt64
	Score        float64
	CreatedAt    sql.NullTime
}
