package toolcall

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tanpawarit/huddle/agent/teams"
)

// Context carries the facts parsed out of one query. Builders draw from it
// instead of re-parsing the raw text.
type Context struct {
	Raw      string
	Team     string
	Opponent string
	Sport    string
}

// ParseQuery extracts team, opponent and sport from the raw text.
func ParseQuery(ix *teams.Index, raw string) Context {
	qc := Context{Raw: strings.TrimSpace(raw)}
	qc.Sport, _ = teams.DetectSport(raw)

	if team, opp, ok := ix.Matchup(raw); ok {
		qc.Team, qc.Opponent = team, opp
		return qc
	}
	if team, ok := ix.Find(raw); ok {
		qc.Team = team
	}
	return qc
}

// Builder is one candidate argument shape. Build reports false when the
// query lacks what the shape needs, and the shape is skipped.
type Builder struct {
	Name  string
	Build func(qc Context) (map[string]any, bool)
}

// DefaultBuilders is the ordered shape list tried against a remote tool:
// shapes derived from parsed facts first, then the whole query under the
// parameter names seen in the wild.
func DefaultBuilders() []Builder {
	return []Builder{
		{Name: "team-sport", Build: func(qc Context) (map[string]any, bool) {
			if qc.Team == "" {
				return nil, false
			}
			return map[string]any{"team": qc.Team, "sport": qc.Sport}, true
		}},
		{Name: "team-opponent", Build: func(qc Context) (map[string]any, bool) {
			if qc.Team == "" || qc.Opponent == "" {
				return nil, false
			}
			return map[string]any{"team": qc.Team, "opponent": qc.Opponent}, true
		}},
		{Name: "team", Build: func(qc Context) (map[string]any, bool) {
			if qc.Team == "" {
				return nil, false
			}
			return map[string]any{"team": qc.Team}, true
		}},
		{Name: "raw-team", Build: rawShape("team")},
		{Name: "raw-query", Build: rawShape("query")},
		{Name: "raw-text", Build: rawShape("text")},
		{Name: "raw-message", Build: rawShape("message")},
		{Name: "raw-q", Build: rawShape("q")},
		{Name: "raw-input", Build: rawShape("input")},
	}
}

func rawShape(key string) func(Context) (map[string]any, bool) {
	return func(qc Context) (map[string]any, bool) {
		if qc.Raw == "" {
			return nil, false
		}
		return map[string]any{key: qc.Raw}, true
	}
}

// BuildCandidates runs the builders in order and drops duplicate shapes.
func BuildCandidates(builders []Builder, qc Context) []map[string]any {
	var out []map[string]any
	seen := make(map[string]bool, len(builders))
	for _, b := range builders {
		args, ok := b.Build(qc)
		if !ok || len(args) == 0 {
			continue
		}
		key := shapeKey(args)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, args)
	}
	return out
}

func shapeKey(args map[string]any) string {
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%v;", k, args[k])
	}
	return b.String()
}
