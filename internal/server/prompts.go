package server

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/tetralog/tetralog/internal/logging"
)

// registerPrompts registers all MCP prompts for the server
func (s *Server) registerPrompts() {
	logging.Debug("Registering MCP prompts")

	// Weekly review prompt
	s.mcp.AddPrompt(&mcp.Prompt{
		Name:        "weekly_review",
		Description: "Generate a training review across all four disciplines with insights and recommendations",
		Arguments: []*mcp.PromptArgument{
			{
				Name:        "since",
				Description: "Review sessions starting on or after this date. Format: YYYY-MM-DD. Defaults to the last 7 days.",
				Required:    false,
			},
		},
	}, s.weeklyReviewPrompt)

	// Discipline focus prompt
	s.mcp.AddPrompt(&mcp.Prompt{
		Name:        "discipline_focus",
		Description: "Deep-dive into one discipline's recent sessions, volume, and records",
		Arguments: []*mcp.PromptArgument{
			{
				Name:        "discipline",
				Description: "Which discipline to analyze: 'ride', 'run', 'swim', or 'shoot'",
				Required:    true,
			},
		},
	}, s.disciplineFocusPrompt)

	logging.Debug("MCP prompts registered", "count", 2)
}

// weeklyReviewPrompt generates a prompt for a cross-discipline training review
func (s *Server) weeklyReviewPrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	since := "the last 7 days"
	sinceArg := ""
	if req.Params.Arguments != nil {
		if v, ok := req.Params.Arguments["since"]; ok && v != "" {
			since = "since " + v
			sinceArg = v
		}
	}

	logging.Info("MCP prompt requested", "prompt", "weekly_review", "since", sinceArg)

	promptText := fmt.Sprintf(`Please review my training for %s across riding, running, swimming, and shooting.

Use the following tools to gather data:
1. **get_statistics** (with since="%s" if a date was given) for totals and the per-discipline breakdown
2. **fetch_history** with the same range to list the individual sessions
3. **get_session_records** to see whether any session set a personal best

Then provide:
- **Summary**: Sessions completed per discipline, total duration and distance
- **Balance**: Which disciplines got attention and which were neglected
- **Shooting**: Accuracy and score trend, if shooting sessions exist
- **Highlights**: Longest or best sessions of the period
- **Recommendations**: What to prioritize next week

Please be specific with numbers and use the actual data from the tools.`, since, sinceArg)

	return &mcp.GetPromptResult{
		Description: "Cross-discipline training review",
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: promptText},
			},
		},
	}, nil
}

// disciplineFocusPrompt generates a prompt analyzing a single discipline
func (s *Server) disciplineFocusPrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	discipline := ""
	if req.Params.Arguments != nil {
		discipline = req.Params.Arguments["discipline"]
	}
	if discipline == "" {
		return nil, NewInvalidInputError("discipline argument is required")
	}

	logging.Info("MCP prompt requested", "prompt", "discipline_focus", "discipline", discipline)

	promptText := fmt.Sprintf(`Please analyze my %s training in depth.

Use the following tools to gather data:
1. **get_sessions_by_discipline** with discipline="%s" for the full session list with discipline-specific metrics
2. **get_statistics** with discipline="%s" for volume totals
3. **get_session_records** with discipline="%s" for personal bests

Then provide:
- **Volume**: Session count, total time, and total distance (or shots and score for shooting)
- **Consistency**: Gaps between sessions and frequency trend
- **Progress**: Whether recent sessions are longer, faster, or higher scoring than earlier ones
- **Recommendations**: Concrete next steps for this discipline

Please be specific with numbers and use the actual data from the tools.`, discipline, discipline, discipline, discipline)

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Deep-dive into %s training", discipline),
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: promptText},
			},
		},
	}, nil
}
