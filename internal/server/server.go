package server

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/tetralog/tetralog/internal/db"
	"github.com/tetralog/tetralog/internal/logging"
	"github.com/tetralog/tetralog/internal/training"
)

// ptr returns a pointer to the given value - useful for optional fields in structs
func ptr[T any](v T) *T {
	return &v
}

// Querier defines the database surface the MCP server needs. It is a superset
// of training.Store so the same *db.Queries backs both the engine and the
// per-row lookups. Implemented by *db.Queries.
type Querier interface {
	training.Store

	GetRide(ctx context.Context, id int64) (db.Ride, error)
	GetRun(ctx context.Context, id int64) (db.Run, error)
	GetSwim(ctx context.Context, id int64) (db.Swim, error)
	GetShoot(ctx context.Context, id int64) (db.Shoot, error)

	CountRides(ctx context.Context) (int64, error)
	CountRuns(ctx context.Context) (int64, error)
	CountSwims(ctx context.Context) (int64, error)
	CountShoots(ctx context.Context) (int64, error)
}

// Server wraps the MCP server, the aggregation engine, and database queries.
type Server struct {
	mcp     *mcp.Server
	engine  *training.Engine
	queries Querier
}

// MCPServer returns the underlying MCP server (for use with HTTP/SSE transport)
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

// New creates a new MCP server with training session query tools
func New(queries Querier) *Server {
	logging.Info("MCP server initializing", "name", "tetralog", "version", "1.0.0")

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    "tetralog",
		Version: "1.0.0",
	}, nil)

	s := &Server{
		mcp:     mcpServer,
		engine:  training.NewEngine(queries),
		queries: queries,
	}

	logging.Debug("Registering MCP tools")
	s.registerTools()
	s.registerRecordsTools()

	logging.Debug("Registering MCP resources")
	s.registerResources()

	logging.Debug("Registering MCP prompts")
	s.registerPrompts()

	logging.Info("MCP server initialized", "tools_registered", 5, "resources_registered", 3, "prompts_registered", 2)
	return s
}

// Run starts the MCP server over stdio transport
func (s *Server) Run(ctx context.Context) error {
	logging.Info("MCP server starting")
	defer logging.Info("MCP server stopped")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	logging.Debug("Registering tool", "name", "fetch_history")
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name: "fetch_history",
		Description: `Retrieve training sessions from all four disciplines (riding, running, swimming, shooting) merged into one chronological list, newest first.

Use when:
- User asks "What was my last session?" or "Show my recent training"
- User wants a unified timeline across disciplines
- User asks for recent sessions of one discipline

Parameters:
- discipline (string): Restrict to one discipline: "ride", "run", "swim", or "shoot". Leave empty for all four.
- since (string): Include only sessions starting on or after this date. Format: YYYY-MM-DD.
- limit (integer): Maximum number of sessions to return, most recent first. 0 returns nothing. Omit for no limit.

Returns: Merged session list ordered newest first, each with discipline, id, name, date, duration, and distance (or shots and score for shooting). Disciplines whose data could not be read are listed under "degraded" and simply contribute no sessions.

Example: {"limit": 5} or {"discipline": "run", "since": "2026-01-01"}`,
		Annotations: &mcp.ToolAnnotations{
			Title:           "Fetch Training History",
			ReadOnlyHint:    true,
			IdempotentHint:  true,
			OpenWorldHint:   ptr(false),
			DestructiveHint: ptr(false),
		},
	}, s.fetchHistory)

	logging.Debug("Registering tool", "name", "get_sessions_by_discipline")
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name: "get_sessions_by_discipline",
		Description: `Retrieve training sessions grouped per discipline instead of merged, keeping each discipline's own metrics.

Use when:
- User asks "Show my rides and my swims separately"
- User wants discipline-specific fields (pool length, cadence, shot counts)
- A per-discipline view is easier to present than a merged timeline

Parameters:
- discipline (string): Restrict to one discipline: "ride", "run", "swim", or "shoot". Leave empty for all four.
- since (string): Include only sessions starting on or after this date. Format: YYYY-MM-DD.

Returns: Four lists (rides, runs, swims, shoots), each newest first. Unselected disciplines are empty lists. Disciplines whose data could not be read appear under "degraded" with an empty list.

Example: {} or {"discipline": "swim", "since": "2026-03-01"}`,
		Annotations: &mcp.ToolAnnotations{
			Title:           "Get Sessions by Discipline",
			ReadOnlyHint:    true,
			IdempotentHint:  true,
			OpenWorldHint:   ptr(false),
			DestructiveHint: ptr(false),
		},
	}, s.getSessionsByDiscipline)

	logging.Debug("Registering tool", "name", "get_statistics")
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name: "get_statistics",
		Description: `Compute summary statistics over training sessions: counts, total and average duration, total and average distance, plus per-discipline subtotals.

Use when:
- User asks "How much have I trained?" or "Total distance this year?"
- User wants per-discipline volume breakdown
- User asks about shooting accuracy or average score

Parameters:
- discipline (string): Restrict statistics to one discipline: "ride", "run", "swim", or "shoot". Leave empty for all four.
- since (string): Include only sessions starting on or after this date. Format: YYYY-MM-DD.

Returns: Session count, total duration, total distance, average duration and distance, and a per-discipline breakdown. Shooting sessions count toward sessions and duration but contribute no distance; their subtotal carries shots, hits, and average score instead. Averages are 0 when nothing matches.

Example: {} or {"discipline": "ride", "since": "2026-01-01"}`,
		Annotations: &mcp.ToolAnnotations{
			Title:           "Get Training Statistics",
			ReadOnlyHint:    true,
			IdempotentHint:  true,
			OpenWorldHint:   ptr(false),
			DestructiveHint: ptr(false),
		},
	}, s.getStatistics)

	logging.Debug("Registering tool", "name", "count_sessions")
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name: "count_sessions",
		Description: `Count stored training sessions per discipline straight from the database.

Use when:
- User asks "How many sessions do I have?"
- User wants a quick inventory before deeper analysis

Parameters: none.

Returns: Per-discipline row counts and the grand total.

Example: {}`,
		Annotations: &mcp.ToolAnnotations{
			Title:           "Count Sessions",
			ReadOnlyHint:    true,
			IdempotentHint:  true,
			OpenWorldHint:   ptr(false),
			DestructiveHint: ptr(false),
		},
	}, s.countSessions)
}

// Tool input/output types

// FetchHistoryInput - input for the merged history query
type FetchHistoryInput struct {
	Discipline string `json:"discipline,omitempty" jsonschema:"Restrict to one discipline. Valid values: ride, run, swim, shoot. Leave empty for all four."`
	Since      string `json:"since,omitempty" jsonschema:"Include only sessions starting on or after this date. Format: YYYY-MM-DD (e.g., 2026-01-15)."`
	Limit      *int   `json:"limit,omitempty" jsonschema:"Maximum number of sessions to return, most recent first. 0 returns an empty list. Omit for no limit."`
}

// FetchHistoryOutput - output for the merged history query
type FetchHistoryOutput struct {
	Sessions         []SessionSummary  `json:"sessions"`
	TotalMatching    int               `json:"total_matching"`
	Degraded         []string          `json:"degraded,omitempty"`
	Insights         []Insight         `json:"insights,omitempty"`
	SuggestedActions []SuggestedAction `json:"suggested_actions,omitempty"`
}

// SessionsByDisciplineInput - input for the per-discipline query
type SessionsByDisciplineInput struct {
	Discipline string `json:"discipline,omitempty" jsonschema:"Restrict to one discipline. Valid values: ride, run, swim, shoot. Leave empty for all four."`
	Since      string `json:"since,omitempty" jsonschema:"Include only sessions starting on or after this date. Format: YYYY-MM-DD."`
}

// SessionsByDisciplineOutput - output for the per-discipline query
type SessionsByDisciplineOutput struct {
	Rides    []SessionSummary `json:"rides"`
	Runs     []SessionSummary `json:"runs"`
	Swims    []SessionSummary `json:"swims"`
	Shoots   []SessionSummary `json:"shoots"`
	Degraded []string         `json:"degraded,omitempty"`
}

// StatisticsInput - input for the statistics query
type StatisticsInput struct {
	Discipline string `json:"discipline,omitempty" jsonschema:"Restrict statistics to one discipline. Valid values: ride, run, swim, shoot. Leave empty for all four."`
	Since      string `json:"since,omitempty" jsonschema:"Include only sessions starting on or after this date. Format: YYYY-MM-DD."`
}

// StatisticsOutput - output for the statistics query
type StatisticsOutput struct {
	Sessions         int64                        `json:"sessions"`
	TotalDuration    string                       `json:"total_duration"`
	TotalDistance    string                       `json:"total_distance"`
	AvgDuration      string                       `json:"avg_duration"`
	AvgDistance      string                       `json:"avg_distance"`
	ByDiscipline     map[string]DisciplineSummary `json:"by_discipline"`
	Degraded         []string                     `json:"degraded,omitempty"`
	Insights         []Insight                    `json:"insights,omitempty"`
	SuggestedActions []SuggestedAction            `json:"suggested_actions,omitempty"`
}

// DisciplineSummary is one discipline's slice of StatisticsOutput
type DisciplineSummary struct {
	Sessions      int64  `json:"sessions"`
	TotalDuration string `json:"total_duration"`
	TotalDistance string `json:"total_distance,omitempty"`
	Shots         int64  `json:"shots,omitempty"`
	Hits          int64  `json:"hits,omitempty"`
	AvgScore      string `json:"avg_score,omitempty"`
}

// CountSessionsInput - input for the session count tool (none)
type CountSessionsInput struct{}

// CountSessionsOutput - output for the session count tool
type CountSessionsOutput struct {
	Rides  int64 `json:"rides"`
	Runs   int64 `json:"runs"`
	Swims  int64 `json:"swims"`
	Shoots int64 `json:"shoots"`
	Total  int64 `json:"total"`
}

// SessionSummary is the display form of one session shared by every tool
type SessionSummary struct {
	Discipline string `json:"discipline"`
	ID         int64  `json:"id"`
	Name       string `json:"name,omitempty"`
	Date       string `json:"date"`
	Duration   string `json:"duration"`
	Distance   string `json:"distance,omitempty"`
	Pace       string `json:"pace,omitempty"`
	Shots      int64  `json:"shots,omitempty"`
	Hits       int64  `json:"hits,omitempty"`
	Score      string `json:"score,omitempty"`
}

// Tool handlers

// fetchHistory - merged chronological history handler
func (s *Server) fetchHistory(ctx context.Context, req *mcp.CallToolRequest, input FetchHistoryInput) (*mcp.CallToolResult, FetchHistoryOutput, error) {
	logging.Info("MCP tool call", "tool", "fetch_history", "discipline", input.Discipline, "since", input.Since)
	if logging.IsVerbose() {
		logging.Debug("MCP request params", "tool", "fetch_history", "input", logging.ToJSON(input))
	}

	filter, err := parseFilter(input.Discipline, input.Since)
	if err != nil {
		return nil, FetchHistoryOutput{}, err
	}

	b := s.engine.FetchByDiscipline(ctx, filter)
	items := b.History(input.Limit)

	output := FetchHistoryOutput{
		Sessions:         convertItems(items),
		TotalMatching:    len(items),
		Degraded:         disciplineNames(b.Degraded),
		SuggestedActions: SuggestNextActions("history"),
	}

	logging.Info("MCP tool completed", "tool", "fetch_history", "returned", len(output.Sessions))
	if logging.IsVerbose() {
		logging.Debug("MCP response", "tool", "fetch_history", "output", logging.ToJSON(output))
	}
	return nil, output, nil
}

// getSessionsByDiscipline - per-discipline session list handler
func (s *Server) getSessionsByDiscipline(ctx context.Context, req *mcp.CallToolRequest, input SessionsByDisciplineInput) (*mcp.CallToolResult, SessionsByDisciplineOutput, error) {
	logging.Info("MCP tool call", "tool", "get_sessions_by_discipline", "discipline", input.Discipline, "since", input.Since)
	if logging.IsVerbose() {
		logging.Debug("MCP request params", "tool", "get_sessions_by_discipline", "input", logging.ToJSON(input))
	}

	filter, err := parseFilter(input.Discipline, input.Since)
	if err != nil {
		return nil, SessionsByDisciplineOutput{}, err
	}

	b := s.engine.FetchByDiscipline(ctx, filter)

	output := SessionsByDisciplineOutput{
		Rides:    convertRides(b.Rides),
		Runs:     convertRuns(b.Runs),
		Swims:    convertSwims(b.Swims),
		Shoots:   convertShoots(b.Shoots),
		Degraded: disciplineNames(b.Degraded),
	}

	logging.Info("MCP tool completed", "tool", "get_sessions_by_discipline",
		"rides", len(output.Rides), "runs", len(output.Runs), "swims", len(output.Swims), "shoots", len(output.Shoots))
	return nil, output, nil
}

// getStatistics - summary statistics handler
func (s *Server) getStatistics(ctx context.Context, req *mcp.CallToolRequest, input StatisticsInput) (*mcp.CallToolResult, StatisticsOutput, error) {
	logging.Info("MCP tool call", "tool", "get_statistics", "discipline", input.Discipline, "since", input.Since)
	if logging.IsVerbose() {
		logging.Debug("MCP request params", "tool", "get_statistics", "input", logging.ToJSON(input))
	}

	filter, err := parseFilter(input.Discipline, input.Since)
	if err != nil {
		return nil, StatisticsOutput{}, err
	}

	agg := s.engine.Statistics(ctx, filter)

	output := StatisticsOutput{
		Sessions:         agg.Sessions,
		TotalDuration:    formatDuration(agg.TotalDuration),
		TotalDistance:    formatDistance(agg.TotalDistanceM),
		AvgDuration:      formatDuration(int64(agg.AvgDurationSecs)),
		AvgDistance:      formatDistance(agg.AvgDistanceM),
		ByDiscipline:     make(map[string]DisciplineSummary, len(agg.ByDiscipline)),
		Degraded:         disciplineNames(agg.Degraded),
		Insights:         GenerateBalanceInsights(agg),
		SuggestedActions: SuggestNextActions("statistics"),
	}

	for d, totals := range agg.ByDiscipline {
		summary := DisciplineSummary{
			Sessions:      totals.Sessions,
			TotalDuration: formatDuration(totals.DurationSecs),
		}
		if d.HasDistance() {
			summary.TotalDistance = formatDistance(totals.DistanceM)
		} else {
			summary.Shots = totals.Shots
			summary.Hits = totals.Hits
			summary.AvgScore = fmt.Sprintf("%.1f", totals.AvgScore)
		}
		output.ByDiscipline[d.String()] = summary
	}

	logging.Info("MCP tool completed", "tool", "get_statistics", "sessions", agg.Sessions)
	if logging.IsVerbose() {
		logging.Debug("MCP response", "tool", "get_statistics", "output", logging.ToJSON(output))
	}
	return nil, output, nil
}

// countSessions - per-table row count handler
func (s *Server) countSessions(ctx context.Context, req *mcp.CallToolRequest, input CountSessionsInput) (*mcp.CallToolResult, CountSessionsOutput, error) {
	logging.Info("MCP tool call", "tool", "count_sessions")

	var output CountSessionsOutput
	var err error

	if output.Rides, err = s.queries.CountRides(ctx); err != nil {
		return nil, CountSessionsOutput{}, NewDatabaseErrorWithContext("ride count", err)
	}
	if output.Runs, err = s.queries.CountRuns(ctx); err != nil {
		return nil, CountSessionsOutput{}, NewDatabaseErrorWithContext("run count", err)
	}
	if output.Swims, err = s.queries.CountSwims(ctx); err != nil {
		return nil, CountSessionsOutput{}, NewDatabaseErrorWithContext("swim count", err)
	}
	if output.Shoots, err = s.queries.CountShoots(ctx); err != nil {
		return nil, CountSessionsOutput{}, NewDatabaseErrorWithContext("shoot count", err)
	}
	output.Total = output.Rides + output.Runs + output.Swims + output.Shoots

	logging.Info("MCP tool completed", "tool", "count_sessions", "total", output.Total)
	return nil, output, nil
}

// Helper functions

// parseFilter builds a training.Filter from the shared discipline and since
// tool parameters.
func parseFilter(discipline, since string) (training.Filter, error) {
	var f training.Filter

	if discipline != "" {
		d, err := training.ParseDiscipline(discipline)
		if err != nil {
			return f, NewInvalidInputError(err.Error())
		}
		f.Discipline = &d
	}

	if since != "" {
		t, err := time.Parse("2006-01-02", since)
		if err != nil {
			return f, NewInvalidInputErrorWithDetails("invalid since date, expected YYYY-MM-DD", err.Error())
		}
		f.Since = &t
	}

	return f, nil
}

func disciplineNames(ds []training.Discipline) []string {
	if len(ds) == 0 {
		return nil
	}
	names := make([]string, len(ds))
	for i, d := range ds {
		names[i] = d.String()
	}
	return names
}

func convertItems(items []training.HistoryItem) []SessionSummary {
	result := make([]SessionSummary, len(items))
	for i, it := range items {
		result[i] = convertItem(it)
	}
	return result
}

func convertItem(it training.HistoryItem) SessionSummary {
	summary := SessionSummary{
		Discipline: it.Discipline.String(),
		ID:         it.ID,
		Name:       it.Name,
		Date:       it.StartTime.Format("2006-01-02"),
		Duration:   formatDuration(it.DurationSecs),
	}

	if dist, ok := it.Distance(); ok {
		if dist > 0 {
			summary.Distance = formatDistance(dist)
		}
		if dist > 0 && it.DurationSecs > 0 {
			summary.Pace = formatPace(dist / float64(it.DurationSecs))
		}
	} else {
		summary.Shots = it.Shots
		summary.Hits = it.Hits
		if it.Score > 0 {
			summary.Score = fmt.Sprintf("%.1f", it.Score)
		}
	}

	return summary
}
