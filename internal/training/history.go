package training

import (
	"time"

	"github.com/tetralog/tetralog/internal/db"
)

// HistoryItem is a discipline-tagged projection of one session record into a
// common shape used for unified chronological display and aggregation. Items
// are built fresh per query and never persisted; the ID refers back to the
// source row in that discipline's table.
type HistoryItem struct {
	Discipline   Discipline `json:"discipline"`
	ID           int64      `json:"id"`
	Name         string     `json:"name,omitempty"`
	StartTime    time.Time  `json:"start_time"`
	DurationSecs int64      `json:"duration_secs"`
	DistanceM    float64    `json:"distance_m,omitempty"`

	// Shooting metrics, zero for the other disciplines.
	Shots int64   `json:"shots,omitempty"`
	Hits  int64   `json:"hits,omitempty"`
	Score float64 `json:"score,omitempty"`
}

// Distance returns the session distance in meters and whether the discipline
// carries one. Shooting sessions return (0, false).
func (it HistoryItem) Distance() (float64, bool) {
	if !it.Discipline.HasDistance() {
		return 0, false
	}
	return it.DistanceM, true
}

func projectRide(r db.Ride) HistoryItem {
	return HistoryItem{
		Discipline:   DisciplineRide,
		ID:           r.ID,
		Name:         r.Name,
		StartTime:    r.StartTime,
		DurationSecs: r.DurationSecs,
		DistanceM:    r.DistanceM,
	}
}

func projectRun(r db.Run) HistoryItem {
	return HistoryItem{
		Discipline:   DisciplineRun,
		ID:           r.ID,
		Name:         r.Name,
		StartTime:    r.StartTime,
		DurationSecs: r.DurationSecs,
		DistanceM:    r.DistanceM,
	}
}

func projectSwim(s db.Swim) HistoryItem {
	return HistoryItem{
		Discipline:   DisciplineSwim,
		ID:           s.ID,
		Name:         s.Name,
		StartTime:    s.StartTime,
		DurationSecs: s.DurationSecs,
		DistanceM:    s.DistanceM,
	}
}

func projectShoot(s db.Shoot) HistoryItem {
	return HistoryItem{
		Discipline:   DisciplineShoot,
		ID:           s.ID,
		Name:         s.Name,
		StartTime:    s.StartTime,
		DurationSecs: s.DurationSecs,
		Shots:        s.Shots,
		Hits:         s.Hits.Int64,
		Score:        s.Score,
	}
}

// mergeHistory combines per-discipline item lists, each already sorted
// descending by start time, into one descending sequence. A 4-way merge keeps
// this O(n) and makes tie behavior explicit: on equal start times the list
// earlier in discipline enumeration order wins.
func mergeHistory(lists ...[]HistoryItem) []HistoryItem {
	total := 0
	for _, l := range lists {
		total += len(l)
	}

	merged := make([]HistoryItem, 0, total)
	heads := make([]int, len(lists))

	for len(merged) < total {
		best := -1
		for i, l := range lists {
			if heads[i] >= len(l) {
				continue
			}
			// Strict After keeps the earlier list on ties.
			if best < 0 || l[heads[i]].StartTime.After(lists[best][heads[best]].StartTime) {
				best = i
			}
		}
		merged = append(merged, lists[best][heads[best]])
		heads[best]++
	}

	return merged
}

// truncateHistory applies the limit semantics: nil means unbounded, zero or
// negative means no items, otherwise at most limit leading (most recent) items.
func truncateHistory(items []HistoryItem, limit *int) []HistoryItem {
	if limit == nil {
		return items
	}
	if *limit <= 0 {
		return []HistoryItem{}
	}
	if *limit < len(items) {
		return items[:*limit]
	}
	return items
}
