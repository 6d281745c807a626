// Package teams resolves the team names and nicknames fans type into
// canonical names shared by every provider.
package teams

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/aliases.yaml
var aliasesYAML []byte

type Team struct {
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases"`
}

type aliasEntry struct {
	token string
	name  string
}

// Index answers "which teams does this text mention" without any network.
type Index struct {
	teams   []Team
	ordered []aliasEntry // longest token first, so "ohio state" beats "ohio"
}

// Load parses the embedded alias table.
func Load() (*Index, error) {
	var doc struct {
		Teams []Team `yaml:"teams"`
	}
	if err := yaml.Unmarshal(aliasesYAML, &doc); err != nil {
		return nil, fmt.Errorf("parse team aliases: %w", err)
	}
	if len(doc.Teams) == 0 {
		return nil, fmt.Errorf("team alias table is empty")
	}

	ix := &Index{teams: doc.Teams}
	for _, team := range doc.Teams {
		ix.ordered = append(ix.ordered, aliasEntry{token: strings.ToLower(team.Name), name: team.Name})
		for _, alias := range team.Aliases {
			alias = strings.ToLower(strings.TrimSpace(alias))
			if alias != "" {
				ix.ordered = append(ix.ordered, aliasEntry{token: alias, name: team.Name})
			}
		}
	}
	sort.SliceStable(ix.ordered, func(i, j int) bool {
		return len(ix.ordered[i].token) > len(ix.ordered[j].token)
	})
	return ix, nil
}

// MustLoad is for wiring paths where a broken embedded table is fatal.
func MustLoad() *Index {
	ix, err := Load()
	if err != nil {
		panic(err)
	}
	return ix
}

// Len reports how many teams the table knows.
func (ix *Index) Len() int { return len(ix.teams) }

// Find returns the first team the text mentions.
func (ix *Index) Find(text string) (string, bool) {
	ms := ix.mentions(strings.ToLower(text))
	if len(ms) == 0 {
		return "", false
	}
	return ms[0].name, true
}

// Matchup returns the first two distinct teams the text mentions, in order
// of appearance. The second team is the opponent.
func (ix *Index) Matchup(text string) (team, opponent string, ok bool) {
	var names []string
	for _, m := range ix.mentions(strings.ToLower(text)) {
		if len(names) > 0 && names[len(names)-1] == m.name {
			continue
		}
		seen := false
		for _, n := range names {
			if n == m.name {
				seen = true
				break
			}
		}
		if !seen {
			names = append(names, m.name)
		}
		if len(names) == 2 {
			return names[0], names[1], true
		}
	}
	return "", "", false
}

// Rewrite lowercases the text and expands every nickname to its canonical
// name, which search backends match far better than "dawgs".
func (ix *Index) Rewrite(text string) string {
	lower := strings.ToLower(text)
	ms := ix.mentions(lower)
	if len(ms) == 0 {
		return lower
	}

	var b strings.Builder
	last := 0
	for _, m := range ms {
		b.WriteString(lower[last:m.start])
		b.WriteString(strings.ToLower(m.name))
		last = m.end
	}
	b.WriteString(lower[last:])
	return b.String()
}

type span struct {
	start, end int
	name       string
}

func (ix *Index) mentions(lower string) []span {
	var out []span
	taken := make([]bool, len(lower))

	for _, entry := range ix.ordered {
		from := 0
		for {
			i := strings.Index(lower[from:], entry.token)
			if i < 0 {
				break
			}
			start := from + i
			end := start + len(entry.token)
			from = start + 1

			if start > 0 && isWordByte(lower[start-1]) {
				continue
			}
			if end < len(lower) && isWordByte(lower[end]) {
				continue
			}
			if overlapsTaken(taken, start, end) {
				continue
			}
			for k := start; k < end; k++ {
				taken[k] = true
			}
			out = append(out, span{start: start, end: end, name: entry.name})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].start < out[j].start })
	return out
}

func overlapsTaken(taken []bool, start, end int) bool {
	for k := start; k < end; k++ {
		if taken[k] {
			return true
		}
	}
	return false
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9' || b == '\''
}

var sportKeywords = map[string][]string{
	"football":   {"football", "quarterback", "qb", "touchdown", "bowl", "gridiron", "rushing", "passing yards"},
	"basketball": {"basketball", "hoops", "march madness", "three-pointer", "tip-off"},
	"baseball":   {"baseball", "home run", "pitcher", "inning"},
}

// DetectSport picks the sport a query is about. The service leans football,
// so that is the fallback when nothing is explicit.
func DetectSport(text string) (sport string, explicit bool) {
	lower := strings.ToLower(text)
	for _, name := range []string{"football", "basketball", "baseball"} {
		for _, kw := range sportKeywords[name] {
			if strings.Contains(lower, kw) {
				return name, true
			}
		}
	}
	return "football", false
}
