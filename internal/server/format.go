package server

import (
	"fmt"

	"github.com/tetralog/tetralog/internal/db"
)

// convertRides maps ride rows to display summaries, keeping ride-specific
// fields the merged view drops.
func convertRides(rides []db.Ride) []SessionSummary {
	result := make([]SessionSummary, len(rides))
	for i, r := range rides {
		result[i] = SessionSummary{
			Discipline: "ride",
			ID:         r.ID,
			Name:       r.Name,
			Date:       r.StartTime.Format("2006-01-02"),
			Duration:   formatDuration(r.DurationSecs),
		}
		if r.DistanceM > 0 {
			result[i].Distance = formatDistance(r.DistanceM)
			if r.DurationSecs > 0 {
				result[i].Pace = formatPace(r.DistanceM / float64(r.DurationSecs))
			}
		}
	}
	return result
}

func convertRuns(runs []db.Run) []SessionSummary {
	result := make([]SessionSummary, len(runs))
	for i, r := range runs {
		result[i] = SessionSummary{
			Discipline: "run",
			ID:         r.ID,
			Name:       r.Name,
			Date:       r.StartTime.Format("2006-01-02"),
			Duration:   formatDuration(r.DurationSecs),
		}
		if r.DistanceM > 0 {
			result[i].Distance = formatDistance(r.DistanceM)
			if r.DurationSecs > 0 {
				result[i].Pace = formatPace(r.DistanceM / float64(r.DurationSecs))
			}
		}
	}
	return result
}

func convertSwims(swims []db.Swim) []SessionSummary {
	result := make([]SessionSummary, len(swims))
	for i, s := range swims {
		result[i] = SessionSummary{
			Discipline: "swim",
			ID:         s.ID,
			Name:       s.Name,
			Date:       s.StartTime.Format("2006-01-02"),
			Duration:   formatDuration(s.DurationSecs),
		}
		if s.DistanceM > 0 {
			result[i].Distance = formatDistance(s.DistanceM)
		}
	}
	return result
}

func convertShoots(shoots []db.Shoot) []SessionSummary {
	result := make([]SessionSummary, len(shoots))
	for i, s := range shoots {
		result[i] = SessionSummary{
			Discipline: "shoot",
			ID:         s.ID,
			Name:       s.Name,
			Date:       s.StartTime.Format("2006-01-02"),
			Duration:   formatDuration(s.DurationSecs),
			Shots:      s.Shots,
			Hits:       s.Hits.Int64,
		}
		if s.Score > 0 {
			result[i].Score = fmt.Sprintf("%.1f", s.Score)
		}
	}
	return result
}

// formatDistance converts meters to human-readable format
func formatDistance(meters float64) string {
	km := meters / 1000
	if km >= 1 {
		return fmt.Sprintf("%.2f km", km)
	}
	return fmt.Sprintf("%.0f m", meters)
}

// formatDuration converts seconds to human-readable format
func formatDuration(seconds int64) string {
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, secs)
	}
	return fmt.Sprintf("%ds", secs)
}

// formatPace converts m/s to min/km pace
func formatPace(mps float64) string {
	if mps <= 0 {
		return ""
	}
	secPerKm := 1000 / mps
	mins := int(secPerKm) / 60
	secs := int(secPerKm) % 60
	return fmt.Sprintf("%d:%02d/km", mins, secs)
}

// formatAccuracy renders hits over shots as a percentage
func formatAccuracy(hits, shots int64) string {
	if shots <= 0 {
		return ""
	}
	return fmt.Sprintf("%.0f%%", float64(hits)/float64(shots)*100)
}
