package toolcall

import "strings"

// Hint steers tool selection: when the query mentions one of the Triggers,
// prefer a tool whose name contains Pattern.
type Hint struct {
	Triggers []string
	Pattern  string
}

// genericVerbs catch the common naming conventions of retrieval tools when
// no hint applies.
var genericVerbs = []string{"query", "search", "get", "fetch"}

// SelectTool picks the discovered tool that best matches the query. Hints
// are tried in order, then generic retrieval verbs, then the first tool.
func SelectTool(tools []string, query string, hints []Hint) string {
	if len(tools) == 0 {
		return ""
	}
	lower := strings.ToLower(query)

	for _, h := range hints {
		if !mentionsAny(lower, h.Triggers) {
			continue
		}
		if tool, ok := firstContaining(tools, h.Pattern); ok {
			return tool
		}
	}
	for _, verb := range genericVerbs {
		if tool, ok := firstContaining(tools, verb); ok {
			return tool
		}
	}
	return tools[0]
}

func mentionsAny(lower string, triggers []string) bool {
	for _, t := range triggers {
		if strings.Contains(lower, strings.ToLower(t)) {
			return true
		}
	}
	return false
}

func firstContaining(tools []string, fragment string) (string, bool) {
	fragment = strings.ToLower(fragment)
	for _, tool := range tools {
		if strings.Contains(strings.ToLower(tool), fragment) {
			return tool, true
		}
	}
	return "", false
}
