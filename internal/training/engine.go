package training

import (
	"context"
	"sort"
	"time"

	"github.com/tetralog/tetralog/internal/db"
	"github.com/tetralog/tetralog/internal/logging"
)

// Store is the per-discipline retrieval surface the engine queries. Each list
// is expected newest-first; the engine re-sorts defensively in case a store
// cannot guarantee order. Implemented by *db.Queries.
type Store interface {
	ListRides(ctx context.Context) ([]db.Ride, error)
	ListRuns(ctx context.Context) ([]db.Run, error)
	ListSwims(ctx context.Context) ([]db.Swim, error)
	ListShoots(ctx context.Context) ([]db.Shoot, error)
}

// Filter selects which sessions a query covers. The zero value selects
// everything: all disciplines, unbounded past.
type Filter struct {
	// Discipline restricts the query to one discipline; nil means all four.
	Discipline *Discipline
	// Since keeps only sessions starting at or after this time; nil means no
	// lower bound.
	Since *time.Time
}

// Breakdown holds the filtered per-discipline session lists. Unselected
// disciplines contribute empty lists, never a sentinel. Degraded names the
// disciplines whose store fetch failed and were replaced by an empty list.
type Breakdown struct {
	Rides  []db.Ride
	Runs   []db.Run
	Swims  []db.Swim
	Shoots []db.Shoot

	Degraded []Discipline
}

// Engine unifies the four session tables behind one query surface: merged
// chronological history and summary statistics over arbitrary filtered
// subsets.
//
// The engine keeps no state between calls, so concurrent use is safe as long
// as the Store is; *db.Queries over the single-connection SQLite pool
// serializes all statements.
type Engine struct {
	store Store
}

// NewEngine creates an Engine over the given store.
func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

func (f Filter) wants(d Discipline) bool {
	return f.Discipline == nil || *f.Discipline == d
}

// FetchByDiscipline retrieves the filtered session lists, one per discipline.
// A fetch failure for one discipline degrades that discipline to an empty
// list and never aborts the other three; failures are logged and recorded in
// Breakdown.Degraded but do not surface as an error.
func (e *Engine) FetchByDiscipline(ctx context.Context, f Filter) Breakdown {
	var b Breakdown

	if f.wants(DisciplineRide) {
		rides, err := e.store.ListRides(ctx)
		if err != nil {
			logging.Warn("ride fetch failed, continuing without rides", "error", err)
			b.Degraded = append(b.Degraded, DisciplineRide)
		} else {
			b.Rides = filterSortRides(rides, f.Since)
		}
	}
	if b.Rides == nil {
		b.Rides = []db.Ride{}
	}

	if f.wants(DisciplineRun) {
		runs, err := e.store.ListRuns(ctx)
		if err != nil {
			logging.Warn("run fetch failed, continuing without runs", "error", err)
			b.Degraded = append(b.Degraded, DisciplineRun)
		} else {
			b.Runs = filterSortRuns(runs, f.Since)
		}
	}
	if b.Runs == nil {
		b.Runs = []db.Run{}
	}

	if f.wants(DisciplineSwim) {
		swims, err := e.store.ListSwims(ctx)
		if err != nil {
			logging.Warn("swim fetch failed, continuing without swims", "error", err)
			b.Degraded = append(b.Degraded, DisciplineSwim)
		} else {
			b.Swims = filterSortSwims(swims, f.Since)
		}
	}
	if b.Swims == nil {
		b.Swims = []db.Swim{}
	}

	if f.wants(DisciplineShoot) {
		shoots, err := e.store.ListShoots(ctx)
		if err != nil {
			logging.Warn("shoot fetch failed, continuing without shoots", "error", err)
			b.Degraded = append(b.Degraded, DisciplineShoot)
		} else {
			b.Shoots = filterSortShoots(shoots, f.Since)
		}
	}
	if b.Shoots == nil {
		b.Shoots = []db.Shoot{}
	}

	return b
}

// FetchHistory returns the filtered sessions of all selected disciplines
// merged into one sequence, newest first. limit semantics: nil = unbounded,
// <= 0 = empty, otherwise the limit most recent items. An empty result is a
// valid result, never an error.
func (e *Engine) FetchHistory(ctx context.Context, f Filter, limit *int) []HistoryItem {
	return e.FetchByDiscipline(ctx, f).History(limit)
}

// History merges the breakdown's lists into one descending sequence and
// applies the limit semantics of FetchHistory.
func (b Breakdown) History(limit *int) []HistoryItem {
	merged := mergeHistory(
		projectRides(b.Rides),
		projectRuns(b.Runs),
		projectSwims(b.Swims),
		projectShoots(b.Shoots),
	)
	return truncateHistory(merged, limit)
}

// Statistics reduces the filtered sessions to a summary Aggregate. Same
// fail-soft contract as FetchByDiscipline: a failed discipline contributes
// nothing and is named in Aggregate.Degraded.
func (e *Engine) Statistics(ctx context.Context, f Filter) Aggregate {
	b := e.FetchByDiscipline(ctx, f)

	items := make([]HistoryItem, 0, len(b.Rides)+len(b.Runs)+len(b.Swims)+len(b.Shoots))
	items = append(items, projectRides(b.Rides)...)
	items = append(items, projectRuns(b.Runs)...)
	items = append(items, projectSwims(b.Swims)...)
	items = append(items, projectShoots(b.Shoots)...)

	agg := Summarize(items)
	agg.Degraded = b.Degraded
	return agg
}

func projectRides(rides []db.Ride) []HistoryItem {
	items := make([]HistoryItem, len(rides))
	for i, r := range rides {
		items[i] = projectRide(r)
	}
	return items
}

func projectRuns(runs []db.Run) []HistoryItem {
	items := make([]HistoryItem, len(runs))
	for i, r := range runs {
		items[i] = projectRun(r)
	}
	return items
}

func projectSwims(swims []db.Swim) []HistoryItem {
	items := make([]HistoryItem, len(swims))
	for i, s := range swims {
		items[i] = projectSwim(s)
	}
	return items
}

func projectShoots(shoots []db.Shoot) []HistoryItem {
	items := make([]HistoryItem, len(shoots))
	for i, s := range shoots {
		items[i] = projectShoot(s)
	}
	return items
}

func filterSortRides(rides []db.Ride, since *time.Time) []db.Ride {
	out := make([]db.Ride, 0, len(rides))
	for _, r := range rides {
		if since == nil || !r.StartTime.Before(*since) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	return out
}

func filterSortRuns(runs []db.Run, since *time.Time) []db.Run {
	out := make([]db.Run, 0, len(runs))
	for _, r := range runs {
		if since == nil || !r.StartTime.Before(*since) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	return out
}

func filterSortSwims(swims []db.Swim, since *time.Time) []db.Swim {
	out := make([]db.Swim, 0, len(swims))
	for _, s := range swims {
		if since == nil || !s.StartTime.Before(*since) {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	return out
}

func filterSortShoots(shoots []db.Shoot, since *time.Time) []db.Shoot {
	out := make([]db.Shoot, 0, len(shoots))
	for _, s := range shoots {
		if since == nil || !s.StartTime.Before(*since) {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	return out
}
