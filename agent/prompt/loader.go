package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/persona.txt
	personaRaw string

	//go:embed template/router.txt
	routerRaw string
)

// PromptSet holds loaded prompt content.
type PromptSet struct {
	Persona string
	Router  string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
// This is safe to call concurrently; the embed is compile-time, and trimming is cheap.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Persona: strings.TrimSpace(personaRaw),
		Router:  strings.TrimSpace(routerRaw),
	}
}
