package training

// DisciplineTotals is the per-discipline slice of an Aggregate.
type DisciplineTotals struct {
	Sessions     int64   `json:"sessions"`
	DurationSecs int64   `json:"duration_secs"`
	DistanceM    float64 `json:"distance_m"`

	// Shooting only.
	Shots    int64   `json:"shots,omitempty"`
	Hits     int64   `json:"hits,omitempty"`
	AvgScore float64 `json:"avg_score,omitempty"`
}

// Aggregate is the computed summary over a filtered session set. It is a pure
// derivation of its inputs, built fresh per call and never stored.
//
// TotalDistanceM sums only distance-bearing disciplines; shooting sessions
// count toward sessions and duration but contribute zero distance.
// AvgDistanceM is scoped to distance-bearing sessions. Averages are 0 when
// the relevant count is 0.
type Aggregate struct {
	Sessions        int64   `json:"sessions"`
	TotalDuration   int64   `json:"total_duration_secs"`
	TotalDistanceM  float64 `json:"total_distance_m"`
	AvgDurationSecs float64 `json:"avg_duration_secs"`
	AvgDistanceM    float64 `json:"avg_distance_m"`

	ByDiscipline map[Discipline]DisciplineTotals `json:"by_discipline"`

	// Degraded names disciplines whose fetch failed; their sessions are
	// absent from every total above.
	Degraded []Discipline `json:"degraded,omitempty"`
}

// Summarize reduces a mixed set of history items to an Aggregate. Each item
// contributes to exactly one discipline subtotal and once to the grand
// totals.
func Summarize(items []HistoryItem) Aggregate {
	agg := Aggregate{
		ByDiscipline: make(map[Discipline]DisciplineTotals),
	}

	var distanceSessions int64
	totalScore := make(map[Discipline]float64)

	for _, it := range items {
		agg.Sessions++
		agg.TotalDuration += it.DurationSecs

		t := agg.ByDiscipline[it.Discipline]
		t.Sessions++
		t.DurationSecs += it.DurationSecs

		if dist, ok := it.Distance(); ok {
			agg.TotalDistanceM += dist
			t.DistanceM += dist
			distanceSessions++
		}

		if it.Discipline == DisciplineShoot {
			t.Shots += it.Shots
			t.Hits += it.Hits
			totalScore[it.Discipline] += it.Score
		}

		agg.ByDiscipline[it.Discipline] = t
	}

	if agg.Sessions > 0 {
		agg.AvgDurationSecs = float64(agg.TotalDuration) / float64(agg.Sessions)
	}
	if distanceSessions > 0 {
		agg.AvgDistanceM = agg.TotalDistanceM / float64(distanceSessions)
	}

	for d, score := range totalScore {
		t := agg.ByDiscipline[d]
		if t.Sessions > 0 {
			t.AvgScore = score / float64(t.Sessions)
		}
		agg.ByDiscipline[d] = t
	}

	return agg
}
