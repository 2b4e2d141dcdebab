package server

import (
	"fmt"

	"github.com/tetralog/tetralog/internal/training"
)

// Insight represents a single AI-friendly insight about the data
type Insight struct {
	Type    string `json:"type"`    // e.g., "trend", "achievement", "warning", "suggestion"
	Message string `json:"message"` // Human-readable insight
}

// SuggestedAction represents a suggested next tool call
type SuggestedAction struct {
	Tool        string `json:"tool"`        // Tool name to call
	Description string `json:"description"` // Why this action is suggested
	Priority    string `json:"priority"`    // "high", "medium", "low"
}

// GenerateBalanceInsights derives insights about how training volume is
// spread across the four disciplines.
func GenerateBalanceInsights(agg training.Aggregate) []Insight {
	var insights []Insight

	if agg.Sessions == 0 {
		insights = append(insights, Insight{
			Type:    "suggestion",
			Message: "No sessions match this query",
		})
		return insights
	}

	// Flag disciplines with no sessions at all when the query spans all four.
	if len(agg.ByDiscipline) > 1 {
		for _, d := range training.AllDisciplines() {
			if _, ok := agg.ByDiscipline[d]; !ok {
				insights = append(insights, Insight{
					Type:    "suggestion",
					Message: fmt.Sprintf("No %s sessions in this period", d),
				})
			}
		}
	}

	// Flag a single discipline dominating the total duration.
	for d, totals := range agg.ByDiscipline {
		share := float64(totals.DurationSecs) / float64(agg.TotalDuration)
		if len(agg.ByDiscipline) > 1 && share > 0.6 {
			insights = append(insights, Insight{
				Type:    "trend",
				Message: fmt.Sprintf("%s accounts for %.0f%% of training time", d, share*100),
			})
		}
	}

	// Shooting accuracy when hit data is present.
	if totals, ok := agg.ByDiscipline[training.DisciplineShoot]; ok && totals.Shots > 0 && totals.Hits > 0 {
		insights = append(insights, Insight{
			Type:    "trend",
			Message: fmt.Sprintf("Shooting accuracy %s over %d shots", formatAccuracy(totals.Hits, totals.Shots), totals.Shots),
		})
	}

	if len(agg.Degraded) > 0 {
		insights = append(insights, Insight{
			Type:    "warning",
			Message: fmt.Sprintf("Data for %d discipline(s) could not be read and is excluded from these totals", len(agg.Degraded)),
		})
	}

	return insights
}

// SuggestNextActions returns context-aware suggestions for follow-up tool calls
func SuggestNextActions(context string) []SuggestedAction {
	suggestions := make([]SuggestedAction, 0)

	switch context {
	case "history":
		suggestions = append(suggestions,
			SuggestedAction{
				Tool:        "get_statistics",
				Description: "Get aggregate stats for these sessions",
				Priority:    "medium",
			},
			SuggestedAction{
				Tool:        "get_session_records",
				Description: "See personal bests per discipline",
				Priority:    "low",
			},
		)
	case "statistics":
		suggestions = append(suggestions,
			SuggestedAction{
				Tool:        "fetch_history",
				Description: "List the sessions behind these numbers",
				Priority:    "medium",
			},
			SuggestedAction{
				Tool:        "get_session_records",
				Description: "See personal bests per discipline",
				Priority:    "medium",
			},
		)
	case "records":
		suggestions = append(suggestions,
			SuggestedAction{
				Tool:        "fetch_history",
				Description: "See recent sessions around these records",
				Priority:    "medium",
			},
			SuggestedAction{
				Tool:        "get_statistics",
				Description: "Put records in context of overall volume",
				Priority:    "low",
			},
		)
	}

	return suggestions
}
