package server

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/tetralog/tetralog/internal/db"
)

// MockQuerier implements the Querier interface for testing
type MockQuerier struct {
	rides  []db.Ride
	runs   []db.Run
	swims  []db.Swim
	shoots []db.Shoot

	listErr error
}

func (m *MockQuerier) ListRides(ctx context.Context) ([]db.Ride, error) {
	return m.rides, m.listErr
}

func (m *MockQuerier) ListRuns(ctx context.Context) ([]db.Run, error) {
	return m.runs, nil
}

func (m *MockQuerier) ListSwims(ctx context.Context) ([]db.Swim, error) {
	return m.swims, nil
}

func (m *MockQuerier) ListShoots(ctx context.Context) ([]db.Shoot, error) {
	return m.shoots, nil
}

func (m *MockQuerier) GetRide(ctx context.Context, id int64) (db.Ride, error) {
	for _, r := range m.rides {
		if r.ID == id {
			return r, nil
		}
	}
	return db.Ride{}, sql.ErrNoRows
}

func (m *MockQuerier) GetRun(ctx context.Context, id int64) (db.Run, error) {
	for _, r := range m.runs {
		if r.ID == id {
			return r, nil
		}
	}
	return db.Run{}, sql.ErrNoRows
}

func (m *MockQuerier) GetSwim(ctx context.Context, id int64) (db.Swim, error) {
	for _, s := range m.swims {
		if s.ID == id {
			return s, nil
		}
	}
	return db.Swim{}, sql.ErrNoRows
}

func (m *MockQuerier) GetShoot(ctx context.Context, id int64) (db.Shoot, error) {
	for _, s := range m.shoots {
		if s.ID == id {
			return s, nil
		}
	}
	return db.Shoot{}, sql.ErrNoRows
}

func (m *MockQuerier) CountRides(ctx context.Context) (int64, error) {
	return int64(len(m.rides)), nil
}

func (m *MockQuerier) CountRuns(ctx context.Context) (int64, error) {
	return int64(len(m.runs)), nil
}

func (m *MockQuerier) CountSwims(ctx context.Context) (int64, error) {
	return int64(len(m.swims)), nil
}

func (m *MockQuerier) CountShoots(ctx context.Context) (int64, error) {
	return int64(len(m.shoots)), nil
}

var testStart = time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

func seededMock() *MockQuerier {
	return &MockQuerier{
		rides: []db.Ride{
			{ID: 1, Name: "Morning Ride", StartTime: testStart, DurationSecs: 3600, DistanceM: 20000},
		},
		runs: []db.Run{
			{ID: 2, Name: "Tempo Run", StartTime: testStart.Add(10 * time.Second), DurationSecs: 1800, DistanceM: 5000},
		},
		swims: []db.Swim{
			{ID: 3, Name: "Pool Intervals", StartTime: testStart.Add(-24 * time.Hour), DurationSecs: 2400, DistanceM: 2000},
		},
		shoots: []db.Shoot{
			{ID: 4, Name: "Range Session", StartTime: testStart.Add(-48 * time.Hour), DurationSecs: 900, Shots: 50, Hits: sql.NullInt64{Int64: 42, Valid: true}, Score: 470},
		},
	}
}

func TestServerNew(t *testing.T) {
	t.Parallel()

	mock := &MockQuerier{}
	srv := New(mock)

	if srv == nil {
		t.Fatal("expected non-nil server")
	}
	if srv.mcp == nil {
		t.Error("expected non-nil MCP server")
	}
	if srv.engine == nil {
		t.Error("expected non-nil engine")
	}
	if srv.queries == nil {
		t.Error("expected non-nil queries")
	}
}

func TestServerMCPServer(t *testing.T) {
	t.Parallel()

	mock := &MockQuerier{}
	srv := New(mock)

	mcpServer := srv.MCPServer()
	if mcpServer == nil {
		t.Error("expected non-nil MCP server from MCPServer()")
	}
	if mcpServer != srv.mcp {
		t.Error("expected MCPServer() to return the internal mcp server")
	}
}

func TestFetchHistoryTool(t *testing.T) {
	t.Parallel()

	srv := New(seededMock())

	_, output, err := srv.fetchHistory(context.Background(), nil, FetchHistoryInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(output.Sessions) != 4 {
		t.Fatalf("expected 4 sessions, got %d", len(output.Sessions))
	}
	// Newest first: run, ride, swim, shoot.
	if output.Sessions[0].Discipline != "run" || output.Sessions[0].ID != 2 {
		t.Errorf("expected run first, got %s %d", output.Sessions[0].Discipline, output.Sessions[0].ID)
	}
	if output.Sessions[3].Discipline != "shoot" {
		t.Errorf("expected shoot last, got %s", output.Sessions[3].Discipline)
	}
	if output.Degraded != nil {
		t.Errorf("expected no degraded disciplines, got %v", output.Degraded)
	}
}

func TestFetchHistoryToolLimit(t *testing.T) {
	t.Parallel()

	srv := New(seededMock())

	limit := 1
	_, output, err := srv.fetchHistory(context.Background(), nil, FetchHistoryInput{Limit: &limit})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(output.Sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(output.Sessions))
	}
	if output.Sessions[0].ID != 2 {
		t.Errorf("expected most recent session (run 2), got ID %d", output.Sessions[0].ID)
	}

	zero := 0
	_, output, err = srv.fetchHistory(context.Background(), nil, FetchHistoryInput{Limit: &zero})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(output.Sessions) != 0 {
		t.Errorf("limit 0 should return no sessions, got %d", len(output.Sessions))
	}
}

func TestFetchHistoryToolInvalidDiscipline(t *testing.T) {
	t.Parallel()

	srv := New(seededMock())

	_, _, err := srv.fetchHistory(context.Background(), nil, FetchHistoryInput{Discipline: "rowing"})
	if err == nil {
		t.Fatal("expected error for unknown discipline")
	}
	toolErr, ok := err.(*ToolError)
	if !ok {
		t.Fatalf("expected *ToolError, got %T", err)
	}
	if toolErr.Code != ErrInvalidInput {
		t.Errorf("expected code %s, got %s", ErrInvalidInput, toolErr.Code)
	}
}

func TestFetchHistoryToolDegraded(t *testing.T) {
	t.Parallel()

	mock := seededMock()
	mock.listErr = sql.ErrConnDone
	srv := New(mock)

	_, output, err := srv.fetchHistory(context.Background(), nil, FetchHistoryInput{})
	if err != nil {
		t.Fatalf("degraded fetch must not error: %v", err)
	}
	if len(output.Sessions) != 3 {
		t.Errorf("expected 3 sessions without rides, got %d", len(output.Sessions))
	}
	if len(output.Degraded) != 1 || output.Degraded[0] != "ride" {
		t.Errorf("expected degraded=[ride], got %v", output.Degraded)
	}
}

func TestGetSessionsByDisciplineTool(t *testing.T) {
	t.Parallel()

	srv := New(seededMock())

	_, output, err := srv.getSessionsByDiscipline(context.Background(), nil, SessionsByDisciplineInput{Discipline: "swim"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(output.Swims) != 1 {
		t.Errorf("expected 1 swim, got %d", len(output.Swims))
	}
	if len(output.Rides) != 0 || len(output.Runs) != 0 || len(output.Shoots) != 0 {
		t.Error("unselected disciplines should be empty")
	}
	if output.Rides == nil || output.Shoots == nil {
		t.Error("unselected disciplines should be empty lists, not nil")
	}
}

func TestGetStatisticsTool(t *testing.T) {
	t.Parallel()

	// Only the ride and the run: since filter excludes the older swim and shoot.
	srv := New(seededMock())

	_, output, err := srv.getStatistics(context.Background(), nil, StatisticsInput{Since: "2026-02-01"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output.Sessions != 2 {
		t.Errorf("expected 2 sessions, got %d", output.Sessions)
	}
	if output.TotalDuration != "1h 30m" {
		t.Errorf("expected total duration '1h 30m', got %q", output.TotalDuration)
	}
	if output.TotalDistance != "25.00 km" {
		t.Errorf("expected total distance '25.00 km', got %q", output.TotalDistance)
	}
	if output.AvgDuration != "45m 0s" {
		t.Errorf("expected avg duration '45m 0s', got %q", output.AvgDuration)
	}
	if _, ok := output.ByDiscipline["ride"]; !ok {
		t.Error("expected ride subtotal")
	}
	if _, ok := output.ByDiscipline["shoot"]; ok {
		t.Error("shoot should be excluded by the since filter")
	}
}

func TestGetStatisticsToolShootSubtotal(t *testing.T) {
	t.Parallel()

	srv := New(seededMock())

	_, output, err := srv.getStatistics(context.Background(), nil, StatisticsInput{Discipline: "shoot"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output.Sessions != 1 {
		t.Fatalf("expected 1 session, got %d", output.Sessions)
	}
	shoot := output.ByDiscipline["shoot"]
	if shoot.Shots != 50 || shoot.Hits != 42 {
		t.Errorf("expected 50 shots and 42 hits, got %d and %d", shoot.Shots, shoot.Hits)
	}
	if shoot.AvgScore != "470.0" {
		t.Errorf("expected avg score '470.0', got %q", shoot.AvgScore)
	}
	if shoot.TotalDistance != "" {
		t.Errorf("shoot subtotal must not carry a distance, got %q", shoot.TotalDistance)
	}
}

func TestGetStatisticsToolInvalidSince(t *testing.T) {
	t.Parallel()

	srv := New(seededMock())

	_, _, err := srv.getStatistics(context.Background(), nil, StatisticsInput{Since: "02/01/2026"})
	if err == nil {
		t.Fatal("expected error for malformed since date")
	}
}

func TestCountSessionsTool(t *testing.T) {
	t.Parallel()

	srv := New(seededMock())

	_, output, err := srv.countSessions(context.Background(), nil, CountSessionsInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output.Rides != 1 || output.Runs != 1 || output.Swims != 1 || output.Shoots != 1 {
		t.Errorf("expected 1/1/1/1, got %d/%d/%d/%d", output.Rides, output.Runs, output.Swims, output.Shoots)
	}
	if output.Total != 4 {
		t.Errorf("expected total 4, got %d", output.Total)
	}
}

func TestGetSessionRecordsTool(t *testing.T) {
	t.Parallel()

	srv := New(seededMock())

	_, output, err := srv.getSessionRecords(context.Background(), nil, GetSessionRecordsInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(output.Records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(output.Records))
	}

	byCategory := make(map[string]SessionRecord)
	for _, r := range output.Records {
		byCategory[r.Category] = r
	}
	if rec := byCategory["longest_duration"]; rec.Session.ID != 1 {
		t.Errorf("longest duration should be the ride, got ID %d", rec.Session.ID)
	}
	if rec := byCategory["longest_distance"]; rec.Session.ID != 1 {
		t.Errorf("longest distance should be the ride, got ID %d", rec.Session.ID)
	}
	if rec := byCategory["best_score"]; rec.Session.ID != 4 {
		t.Errorf("best score should be the shoot, got ID %d", rec.Session.ID)
	}
}

func TestGetSessionRecordsToolCategories(t *testing.T) {
	t.Parallel()

	srv := New(seededMock())

	_, output, err := srv.getSessionRecords(context.Background(), nil, GetSessionRecordsInput{
		Categories: []string{"best_score"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(output.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(output.Records))
	}
	if output.Records[0].Category != "best_score" {
		t.Errorf("expected best_score, got %s", output.Records[0].Category)
	}
	if output.Records[0].RecordValue != "470.0" {
		t.Errorf("expected record value '470.0', got %q", output.Records[0].RecordValue)
	}
}

func TestGetSessionRecordsToolEmpty(t *testing.T) {
	t.Parallel()

	srv := New(&MockQuerier{})

	_, output, err := srv.getSessionRecords(context.Background(), nil, GetSessionRecordsInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(output.Records) != 0 {
		t.Errorf("expected no records from empty store, got %d", len(output.Records))
	}
}

func TestParseFilter(t *testing.T) {
	t.Parallel()

	f, err := parseFilter("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Discipline != nil || f.Since != nil {
		t.Error("empty inputs should produce the zero filter")
	}

	f, err = parseFilter("run", "2026-01-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Discipline == nil || f.Discipline.String() != "run" {
		t.Error("expected run discipline filter")
	}
	if f.Since == nil || !f.Since.Equal(time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("expected since 2026-01-15, got %v", f.Since)
	}

	if _, err = parseFilter("fencing", ""); err == nil {
		t.Error("expected error for unknown discipline")
	}
	if _, err = parseFilter("", "not-a-date"); err == nil {
		t.Error("expected error for malformed date")
	}
}
