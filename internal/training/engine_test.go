package training

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/tetralog/tetralog/internal/db"
)

// mockStore implements the Store interface for testing. Any of the four
// fetches can be made to fail independently.
type mockStore struct {
	rides  []db.Ride
	runs   []db.Run
	swims  []db.Swim
	shoots []db.Shoot

	rideErr  error
	runErr   error
	swimErr  error
	shootErr error
}

func (m *mockStore) ListRides(ctx context.Context) ([]db.Ride, error) {
	return m.rides, m.rideErr
}

func (m *mockStore) ListRuns(ctx context.Context) ([]db.Run, error) {
	return m.runs, m.runErr
}

func (m *mockStore) ListSwims(ctx context.Context) ([]db.Swim, error) {
	return m.swims, m.swimErr
}

func (m *mockStore) ListShoots(ctx context.Context) ([]db.Shoot, error) {
	return m.shoots, m.shootErr
}

var baseTime = time.Date(2025, 3, 10, 7, 0, 0, 0, time.UTC)

func testRide(id int64, start time.Time, durationSecs int64, distanceM float64) db.Ride {
	return db.Ride{ID: id, Name: fmt.Sprintf("ride %d", id), StartTime: start, DurationSecs: durationSecs, DistanceM: distanceM}
}

func testRun(id int64, start time.Time, durationSecs int64, distanceM float64) db.Run {
	return db.Run{ID: id, Name: fmt.Sprintf("run %d", id), StartTime: start, DurationSecs: durationSecs, DistanceM: distanceM}
}

func testSwim(id int64, start time.Time, durationSecs int64, distanceM float64) db.Swim {
	return db.Swim{ID: id, Name: fmt.Sprintf("swim %d", id), StartTime: start, DurationSecs: durationSecs, DistanceM: distanceM}
}

func testShoot(id int64, start time.Time, durationSecs int64, shots int64, score float64) db.Shoot {
	return db.Shoot{ID: id, Name: fmt.Sprintf("shoot %d", id), StartTime: start, DurationSecs: durationSecs, Shots: shots, Score: score}
}

func fullStore() *mockStore {
	return &mockStore{
		rides: []db.Ride{
			testRide(1, baseTime.Add(48*time.Hour), 3600, 30000),
			testRide(2, baseTime, 5400, 42000),
		},
		runs: []db.Run{
			testRun(10, baseTime.Add(24*time.Hour), 1800, 5000),
		},
		swims: []db.Swim{
			testSwim(20, baseTime.Add(12*time.Hour), 2400, 2000),
		},
		shoots: []db.Shoot{
			testShoot(30, baseTime.Add(36*time.Hour), 900, 50, 470),
		},
	}
}

func TestFetchByDisciplineAll(t *testing.T) {
	t.Parallel()

	engine := NewEngine(fullStore())
	b := engine.FetchByDiscipline(context.Background(), Filter{})

	if len(b.Rides) != 2 || len(b.Runs) != 1 || len(b.Swims) != 1 || len(b.Shoots) != 1 {
		t.Errorf("expected 2/1/1/1 sessions, got %d/%d/%d/%d",
			len(b.Rides), len(b.Runs), len(b.Swims), len(b.Shoots))
	}
	if len(b.Degraded) != 0 {
		t.Errorf("expected no degraded disciplines, got %v", b.Degraded)
	}
}

func TestFetchByDisciplineSingleSelection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		discipline Discipline
		wantCounts [4]int // rides, runs, swims, shoots
	}{
		{DisciplineRide, [4]int{2, 0, 0, 0}},
		{DisciplineRun, [4]int{0, 1, 0, 0}},
		{DisciplineSwim, [4]int{0, 0, 1, 0}},
		{DisciplineShoot, [4]int{0, 0, 0, 1}},
	}

	engine := NewEngine(fullStore())

	for _, tc := range tests {
		d := tc.discipline
		b := engine.FetchByDiscipline(context.Background(), Filter{Discipline: &d})

		got := [4]int{len(b.Rides), len(b.Runs), len(b.Swims), len(b.Shoots)}
		if got != tc.wantCounts {
			t.Errorf("discipline %s: expected counts %v, got %v", d, tc.wantCounts, got)
		}
	}
}

func TestFetchByDisciplineSinceFilter(t *testing.T) {
	t.Parallel()

	engine := NewEngine(fullStore())

	// Keeps only sessions starting at or after since.
	since := baseTime.Add(24 * time.Hour)
	b := engine.FetchByDiscipline(context.Background(), Filter{Since: &since})

	if len(b.Rides) != 1 {
		t.Errorf("expected 1 ride after since, got %d", len(b.Rides))
	}
	if len(b.Runs) != 1 {
		t.Errorf("expected 1 run at exactly since (inclusive bound), got %d", len(b.Runs))
	}
	if len(b.Swims) != 0 {
		t.Errorf("expected 0 swims after since, got %d", len(b.Swims))
	}
	if len(b.Shoots) != 1 {
		t.Errorf("expected 1 shoot after since, got %d", len(b.Shoots))
	}
}

func TestFetchByDisciplineFailSoft(t *testing.T) {
	t.Parallel()

	store := fullStore()
	store.swimErr = fmt.Errorf("database is locked")
	engine := NewEngine(store)

	b := engine.FetchByDiscipline(context.Background(), Filter{})

	if len(b.Swims) != 0 {
		t.Errorf("expected empty swims after fetch failure, got %d", len(b.Swims))
	}
	if b.Swims == nil {
		t.Error("degraded discipline should yield an empty list, not nil")
	}
	if len(b.Rides) != 2 || len(b.Runs) != 1 || len(b.Shoots) != 1 {
		t.Errorf("other disciplines should be unaffected, got %d/%d/%d",
			len(b.Rides), len(b.Runs), len(b.Shoots))
	}
	if len(b.Degraded) != 1 || b.Degraded[0] != DisciplineSwim {
		t.Errorf("expected degraded=[swim], got %v", b.Degraded)
	}
}

func TestFetchByDisciplineResortsUnorderedStore(t *testing.T) {
	t.Parallel()

	// Store returns rides oldest-first; the engine must not trust it.
	store := &mockStore{
		rides: []db.Ride{
			testRide(1, baseTime, 3600, 30000),
			testRide(2, baseTime.Add(time.Hour), 3600, 30000),
			testRide(3, baseTime.Add(2*time.Hour), 3600, 30000),
		},
	}
	engine := NewEngine(store)

	b := engine.FetchByDiscipline(context.Background(), Filter{})
	for i := 1; i < len(b.Rides); i++ {
		if b.Rides[i].StartTime.After(b.Rides[i-1].StartTime) {
			t.Fatalf("rides not descending at index %d", i)
		}
	}
}

func TestFetchHistoryMergedOrder(t *testing.T) {
	t.Parallel()

	engine := NewEngine(fullStore())
	items := engine.FetchHistory(context.Background(), Filter{}, nil)

	if len(items) != 5 {
		t.Fatalf("expected 5 history items, got %d", len(items))
	}
	for i := 1; i < len(items); i++ {
		if items[i].StartTime.After(items[i-1].StartTime) {
			t.Errorf("history not descending at index %d: %v after %v",
				i, items[i].StartTime, items[i-1].StartTime)
		}
	}

	// Newest first: ride(+48h), shoot(+36h), run(+24h), swim(+12h), ride(0).
	wantOrder := []Discipline{DisciplineRide, DisciplineShoot, DisciplineRun, DisciplineSwim, DisciplineRide}
	for i, want := range wantOrder {
		if items[i].Discipline != want {
			t.Errorf("item %d: expected discipline %s, got %s", i, want, items[i].Discipline)
		}
	}
}

func TestFetchHistoryTagMatchesSource(t *testing.T) {
	t.Parallel()

	engine := NewEngine(fullStore())
	items := engine.FetchHistory(context.Background(), Filter{}, nil)

	rideIDs := map[int64]bool{1: true, 2: true}
	for _, it := range items {
		switch it.Discipline {
		case DisciplineRide:
			if !rideIDs[it.ID] {
				t.Errorf("ride-tagged item has unknown ID %d", it.ID)
			}
		case DisciplineRun:
			if it.ID != 10 {
				t.Errorf("run-tagged item has unknown ID %d", it.ID)
			}
		case DisciplineSwim:
			if it.ID != 20 {
				t.Errorf("swim-tagged item has unknown ID %d", it.ID)
			}
		case DisciplineShoot:
			if it.ID != 30 {
				t.Errorf("shoot-tagged item has unknown ID %d", it.ID)
			}
		}
	}
}

func TestFetchHistoryTieBreak(t *testing.T) {
	t.Parallel()

	// Same start time across all four disciplines: enumeration order wins.
	store := &mockStore{
		rides:  []db.Ride{testRide(1, baseTime, 3600, 30000)},
		runs:   []db.Run{testRun(2, baseTime, 1800, 5000)},
		swims:  []db.Swim{testSwim(3, baseTime, 2400, 2000)},
		shoots: []db.Shoot{testShoot(4, baseTime, 900, 50, 470)},
	}
	engine := NewEngine(store)

	items := engine.FetchHistory(context.Background(), Filter{}, nil)
	want := []Discipline{DisciplineRide, DisciplineRun, DisciplineSwim, DisciplineShoot}
	for i, d := range want {
		if items[i].Discipline != d {
			t.Errorf("tie position %d: expected %s, got %s", i, d, items[i].Discipline)
		}
	}
}

func TestFetchHistoryLimit(t *testing.T) {
	t.Parallel()

	engine := NewEngine(fullStore())

	tests := []struct {
		name    string
		limit   int
		wantLen int
	}{
		{"zero yields empty", 0, 0},
		{"negative yields empty", -3, 0},
		{"smaller than total", 2, 2},
		{"equal to total", 5, 5},
		{"larger than total", 50, 5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			items := engine.FetchHistory(context.Background(), Filter{}, &tc.limit)
			if len(items) != tc.wantLen {
				t.Errorf("limit %d: expected %d items, got %d", tc.limit, tc.wantLen, len(items))
			}
		})
	}

	// Limit keeps the most recent items.
	limit := 2
	items := engine.FetchHistory(context.Background(), Filter{}, &limit)
	if items[0].Discipline != DisciplineRide || items[0].ID != 1 {
		t.Errorf("expected newest ride first, got %s %d", items[0].Discipline, items[0].ID)
	}
	if items[1].Discipline != DisciplineShoot {
		t.Errorf("expected shoot second, got %s", items[1].Discipline)
	}
}

func TestFetchHistorySinceAfterEverything(t *testing.T) {
	t.Parallel()

	engine := NewEngine(fullStore())
	since := baseTime.Add(100 * 24 * time.Hour)

	items := engine.FetchHistory(context.Background(), Filter{Since: &since}, nil)
	if len(items) != 0 {
		t.Errorf("expected empty history, got %d items", len(items))
	}
}

func TestFetchHistoryEmptyStore(t *testing.T) {
	t.Parallel()

	engine := NewEngine(&mockStore{})
	items := engine.FetchHistory(context.Background(), Filter{}, nil)
	if len(items) != 0 {
		t.Errorf("expected empty history from empty store, got %d items", len(items))
	}
}

func TestStatisticsFailSoft(t *testing.T) {
	t.Parallel()

	store := fullStore()
	store.rideErr = fmt.Errorf("disk I/O error")
	engine := NewEngine(store)

	agg := engine.Statistics(context.Background(), Filter{})

	// 3 sessions remain: run, swim, shoot.
	if agg.Sessions != 3 {
		t.Errorf("expected 3 sessions with rides degraded, got %d", agg.Sessions)
	}
	if _, ok := agg.ByDiscipline[DisciplineRide]; ok {
		t.Error("degraded discipline should have no subtotal")
	}
	if len(agg.Degraded) != 1 || agg.Degraded[0] != DisciplineRide {
		t.Errorf("expected degraded=[ride], got %v", agg.Degraded)
	}
}

func TestStatisticsTwoSessionScenario(t *testing.T) {
	t.Parallel()

	// One ride at T0 (3600s, 20km), one run at T0+10s (1800s, 5km).
	store := &mockStore{
		rides: []db.Ride{testRide(1, baseTime, 3600, 20000)},
		runs:  []db.Run{testRun(2, baseTime.Add(10*time.Second), 1800, 5000)},
	}
	engine := NewEngine(store)

	limit := 1
	items := engine.FetchHistory(context.Background(), Filter{}, &limit)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Discipline != DisciplineRun || items[0].ID != 2 {
		t.Errorf("expected the more recent run, got %s %d", items[0].Discipline, items[0].ID)
	}

	agg := engine.Statistics(context.Background(), Filter{})
	if agg.Sessions != 2 {
		t.Errorf("expected 2 sessions, got %d", agg.Sessions)
	}
	if agg.TotalDuration != 5400 {
		t.Errorf("expected total duration 5400, got %d", agg.TotalDuration)
	}
	if agg.TotalDistanceM != 25000 {
		t.Errorf("expected total distance 25000, got %f", agg.TotalDistanceM)
	}
	if agg.AvgDurationSecs != 2700 {
		t.Errorf("expected avg duration 2700, got %f", agg.AvgDurationSecs)
	}
}
