package server

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/tetralog/tetralog/internal/logging"
	"github.com/tetralog/tetralog/internal/training"
)

// GetSessionRecordsInput - input for retrieving per-discipline records
type GetSessionRecordsInput struct {
	Discipline string   `json:"discipline,omitempty" jsonschema:"Restrict records to one discipline. Valid values: ride, run, swim, shoot. Leave empty for records across all four."`
	Categories []string `json:"categories,omitempty" jsonschema:"Which record categories to include. Valid values: 'longest_duration' (most time), 'longest_distance' (furthest, distance disciplines only), 'best_score' (highest shooting score). Omit for all categories."`
}

// GetSessionRecordsOutput - output for the records tool
type GetSessionRecordsOutput struct {
	Records          []SessionRecord   `json:"records"`
	Degraded         []string          `json:"degraded,omitempty"`
	Insights         []Insight         `json:"insights,omitempty"`
	SuggestedActions []SuggestedAction `json:"suggested_actions,omitempty"`
}

// SessionRecord is one personal best
type SessionRecord struct {
	Category    string         `json:"category"`
	Session     SessionSummary `json:"session"`
	RecordValue string         `json:"record_value"`
}

// registerRecordsTools registers the personal records tool
func (s *Server) registerRecordsTools() {
	logging.Debug("Registering tool", "name", "get_session_records")
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name: "get_session_records",
		Description: `Get personal best sessions per discipline: longest duration, longest distance, and best shooting score.

Use when:
- User asks "What's my longest ride?" or "My best shooting score?"
- User wants to see all-time best performances
- User asks for PRs across disciplines

Parameters:
- discipline (string): Restrict records to one discipline (ride, run, swim, shoot). Leave empty for all four.
- categories (array): Which record categories to include: "longest_duration", "longest_distance", "best_score". Omit for all.

Returns: List of records, each naming the category, the session (discipline, id, name, date, metrics), and the record value.

Example: {"discipline": "ride"} or {"categories": ["best_score"]}`,
		Annotations: &mcp.ToolAnnotations{
			Title:           "Get Session Records",
			ReadOnlyHint:    true,
			IdempotentHint:  true,
			OpenWorldHint:   ptr(false),
			DestructiveHint: ptr(false),
		},
	}, s.getSessionRecords)
}

// getSessionRecords computes personal bests over the stored sessions. Records
// are derived in memory from the full fetch rather than dedicated queries,
// which keeps the record definitions in one place.
func (s *Server) getSessionRecords(ctx context.Context, req *mcp.CallToolRequest, input GetSessionRecordsInput) (*mcp.CallToolResult, GetSessionRecordsOutput, error) {
	logging.Info("MCP tool call", "tool", "get_session_records", "discipline", input.Discipline, "categories", input.Categories)
	if logging.IsVerbose() {
		logging.Debug("MCP request params", "tool", "get_session_records", "input", logging.ToJSON(input))
	}

	filter, err := parseFilter(input.Discipline, "")
	if err != nil {
		return nil, GetSessionRecordsOutput{}, err
	}

	wanted := map[string]bool{}
	for _, c := range input.Categories {
		wanted[c] = true
	}
	wants := func(category string) bool {
		return len(wanted) == 0 || wanted[category]
	}

	b := s.engine.FetchByDiscipline(ctx, filter)
	items := b.History(nil)

	output := GetSessionRecordsOutput{
		Records:          []SessionRecord{},
		Degraded:         disciplineNames(b.Degraded),
		SuggestedActions: SuggestNextActions("records"),
	}

	if wants("longest_duration") {
		if best, ok := longestDuration(items); ok {
			output.Records = append(output.Records, SessionRecord{
				Category:    "longest_duration",
				Session:     convertItem(best),
				RecordValue: formatDuration(best.DurationSecs),
			})
		}
	}

	if wants("longest_distance") {
		if best, ok := longestDistance(items); ok {
			output.Records = append(output.Records, SessionRecord{
				Category:    "longest_distance",
				Session:     convertItem(best),
				RecordValue: formatDistance(best.DistanceM),
			})
		}
	}

	if wants("best_score") {
		if best, ok := bestScore(items); ok {
			output.Records = append(output.Records, SessionRecord{
				Category:    "best_score",
				Session:     convertItem(best),
				RecordValue: fmt.Sprintf("%.1f", best.Score),
			})
		}
	}

	if len(output.Records) > 0 {
		output.Insights = []Insight{
			{Type: "achievement", Message: "Personal bests computed over all stored sessions"},
		}
	}

	logging.Info("MCP tool completed", "tool", "get_session_records", "records", len(output.Records))
	return nil, output, nil
}

func longestDuration(items []training.HistoryItem) (training.HistoryItem, bool) {
	var best training.HistoryItem
	found := false
	for _, it := range items {
		if !found || it.DurationSecs > best.DurationSecs {
			best = it
			found = true
		}
	}
	return best, found
}

func longestDistance(items []training.HistoryItem) (training.HistoryItem, bool) {
	var best training.HistoryItem
	found := false
	for _, it := range items {
		dist, ok := it.Distance()
		if !ok {
			continue
		}
		if !found || dist > best.DistanceM {
			best = it
			found = true
		}
	}
	return best, found
}

func bestScore(items []training.HistoryItem) (training.HistoryItem, bool) {
	var best training.HistoryItem
	found := false
	for _, it := range items {
		if it.Discipline != training.DisciplineShoot {
			continue
		}
		if !found || it.Score > best.Score {
			best = it
			found = true
		}
	}
	return best, found
}
