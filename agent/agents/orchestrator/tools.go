package orchestrator

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/huddle/agent/contract"
	nodex "github.com/tanpawarit/huddle/agent/nodes"
	statex "github.com/tanpawarit/huddle/agent/state"
)

// Function names the model calls tools by.
const (
	toolTriviaQuestion   = "get_trivia_question"
	toolSearchHighlights = "search_highlights"
	toolLiveStats        = "get_live_stats"
	toolFootballHistory  = "get_football_history"
)

// toolSpecs advertises one function per configured capability. The
// descriptions carry the routing knowledge the rule classifier encodes as
// keywords, including the football-only limit of the history tool.
func (o *Orchestrator) toolSpecs() []contractx.ToolSpec {
	specs := make([]contractx.ToolSpec, 0, 4)

	if o.caps.Trivia != nil {
		specs = append(specs, contractx.ToolSpec{
			Name:        toolTriviaQuestion,
			Description: "Fetch a fresh multiple-choice college football trivia question. Relay the question and its lettered options to the fan verbatim.",
			Parameters: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		})
	}
	if o.caps.Clips != nil {
		specs = append(specs, contractx.ToolSpec{
			Name:        toolSearchHighlights,
			Description: "Search for highlight clips and replays of college games and plays.",
			Parameters:  queryParameters("the team, game, or play to find clips of"),
		})
	}
	if o.caps.Live != nil {
		specs = append(specs, contractx.ToolSpec{
			Name:        toolLiveStats,
			Description: "Look up current college sports data: live scores, today's games, schedules, standings, and rankings.",
			Parameters:  queryParameters("the score, schedule, or standings question"),
		})
	}
	if o.caps.Historical != nil {
		specs = append(specs, contractx.ToolSpec{
			Name:        toolFootballHistory,
			Description: "Look up college football history: past seasons, all-time records, head-to-head series, bowls, and recruiting classes. College football only, never basketball or any other sport.",
			Parameters:  queryParameters("the historical question"),
		})
	}
	return specs
}

func queryParameters(description string) map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": description,
			},
		},
		"required": []string{"query"},
	}
}

// execTool runs one requested call and returns display-ready text for the
// model to ground its answer in. A model that garbles the query argument
// still gets the user's own words.
func (o *Orchestrator) execTool(ctx context.Context, sess *statex.Session, userText string, call contractx.ToolUse) string {
	query, _ := call.Args["query"].(string)
	if strings.TrimSpace(query) == "" {
		query = userText
	}

	switch call.Name {
	case toolTriviaQuestion:
		return nodex.AskTrivia(ctx, sess, o.caps.Trivia)
	case toolSearchHighlights:
		return nodex.FindClips(ctx, query, o.caps.Clips)
	case toolLiveStats:
		return nodex.QueryStats(ctx, query, o.caps.Live, "live stats")
	case toolFootballHistory:
		return nodex.QueryStats(ctx, query, o.caps.Historical, "history")
	default:
		return fmt.Sprintf("unknown tool %q", call.Name)
	}
}
