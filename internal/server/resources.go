package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/tetralog/tetralog/internal/db"
	"github.com/tetralog/tetralog/internal/logging"
	"github.com/tetralog/tetralog/internal/training"
)

// registerResources registers all MCP resources for the server
func (s *Server) registerResources() {
	logging.Debug("Registering MCP resources")

	// Static resource: Latest session across all disciplines
	s.mcp.AddResource(&mcp.Resource{
		URI:         "tetralog://history/latest",
		Name:        "latest_session",
		Description: "The most recent training session across all four disciplines",
		MIMEType:    "application/json",
	}, s.readLatestSession)

	// Static resource: All-time statistics
	s.mcp.AddResource(&mcp.Resource{
		URI:         "tetralog://statistics/all",
		Name:        "all_time_statistics",
		Description: "Summary statistics over every stored session, with per-discipline subtotals",
		MIMEType:    "application/json",
	}, s.readAllTimeStatistics)

	// Resource template: Session by discipline and ID
	s.mcp.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "tetralog://sessions/{discipline}/{id}",
		Name:        "session_by_id",
		Description: "Fetch a specific session by discipline and row ID",
		MIMEType:    "application/json",
	}, s.readSessionByID)

	logging.Debug("MCP resources registered", "count", 3)
}

// readLatestSession returns the most recent session in any discipline
func (s *Server) readLatestSession(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	logging.Info("MCP resource read", "resource", "latest_session")

	limit := 1
	items := s.engine.FetchHistory(ctx, training.Filter{}, &limit)
	if len(items) == 0 {
		return jsonResource("tetralog://history/latest", `{"error": "No sessions found"}`), nil
	}

	jsonData, err := json.MarshalIndent(convertItem(items[0]), "", "  ")
	if err != nil {
		return nil, NewInternalErrorWithCause("failed to marshal session", err)
	}
	return jsonResource("tetralog://history/latest", string(jsonData)), nil
}

// readAllTimeStatistics returns the unfiltered aggregate
func (s *Server) readAllTimeStatistics(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	logging.Info("MCP resource read", "resource", "all_time_statistics")

	agg := s.engine.Statistics(ctx, training.Filter{})
	jsonData, err := json.MarshalIndent(agg, "", "  ")
	if err != nil {
		return nil, NewInternalErrorWithCause("failed to marshal statistics", err)
	}
	return jsonResource("tetralog://statistics/all", string(jsonData)), nil
}

// readSessionByID resolves the tetralog://sessions/{discipline}/{id} template
func (s *Server) readSessionByID(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI
	logging.Info("MCP resource read", "resource", "session_by_id", "uri", uri)

	rest, ok := strings.CutPrefix(uri, "tetralog://sessions/")
	if !ok {
		return nil, NewInvalidInputError("unrecognized session URI")
	}
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 {
		return nil, NewInvalidInputError("session URI must be tetralog://sessions/{discipline}/{id}")
	}

	discipline, err := training.ParseDiscipline(parts[0])
	if err != nil {
		return nil, NewInvalidInputError(err.Error())
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return nil, NewInvalidInputErrorWithDetails("invalid session id", err.Error())
	}

	var summary SessionSummary
	switch discipline {
	case training.DisciplineRide:
		ride, err := s.queries.GetRide(ctx, id)
		if err != nil {
			return nil, sessionLookupError("ride", id, err)
		}
		summary = convertRides([]db.Ride{ride})[0]
	case training.DisciplineRun:
		run, err := s.queries.GetRun(ctx, id)
		if err != nil {
			return nil, sessionLookupError("run", id, err)
		}
		summary = convertRuns([]db.Run{run})[0]
	case training.DisciplineSwim:
		swim, err := s.queries.GetSwim(ctx, id)
		if err != nil {
			return nil, sessionLookupError("swim", id, err)
		}
		summary = convertSwims([]db.Swim{swim})[0]
	case training.DisciplineShoot:
		shoot, err := s.queries.GetShoot(ctx, id)
		if err != nil {
			return nil, sessionLookupError("shoot", id, err)
		}
		summary = convertShoots([]db.Shoot{shoot})[0]
	}

	jsonData, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return nil, NewInternalErrorWithCause("failed to marshal session", err)
	}
	return jsonResource(uri, string(jsonData)), nil
}

func sessionLookupError(discipline string, id int64, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return NewNotFoundErrorWithID(discipline+" session", id)
	}
	logging.Error("session lookup failed", "discipline", discipline, "id", id, "error", err)
	return NewDatabaseError(err)
}

func jsonResource(uri, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: "application/json",
				Text:     text,
			},
		},
	}
}
