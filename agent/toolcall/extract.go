package toolcall

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
)

// Remote tools do not agree on a reply envelope. ExtractText flattens the
// shapes seen in the wild into one display string: bare strings, nested
// result objects, MCP-style content block lists, and single-key wrappers.
// Anything unrecognized is pretty-printed rather than dropped.

const maxExtractDepth = 4

func ExtractText(raw json.RawMessage) string {
	return extractText(raw, 0)
}

func extractText(raw json.RawMessage, depth int) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) || depth > maxExtractDepth {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return prettyJSON(raw)
	}

	if inner, ok := obj["result"]; ok {
		if text := extractText(inner, depth+1); text != "" {
			return text
		}
	}

	if content, ok := obj["content"]; ok {
		if text := joinContentBlocks(content); text != "" {
			return text
		}
	}

	for _, key := range []string{"response", "reply", "output", "message", "text"} {
		v, ok := obj[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err == nil && s != "" {
			return s
		}
	}

	return prettyJSON(raw)
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func joinContentBlocks(raw json.RawMessage) string {
	var blocks []contentBlock
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return ""
	}
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if b.Text != "" {
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, "\n")
}

func prettyJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}

// noDataPattern matches the stock phrasings tools answer with when the
// lookup succeeded but matched nothing.
var noDataPattern = regexp.MustCompile(`(?i)\b(?:no (?:data|results?|records?|games?|information)(?: found| available)?|not(?:hing)? found)\b`)

// noDataMaxLen keeps the sentinel check from misfiring on long replies that
// merely mention a miss in passing.
const noDataMaxLen = 100

// IsNoData reports whether text is a "nothing matched" sentinel rather than
// a usable answer.
func IsNoData(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return true
	}
	return len(trimmed) <= noDataMaxLen && noDataPattern.MatchString(trimmed)
}
