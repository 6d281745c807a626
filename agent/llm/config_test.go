package llm

import (
	"errors"
	"testing"

	contractx "github.com/tanpawarit/huddle/agent/contract"
)

func TestOpenRouterForRouterOverrides(t *testing.T) {
	t.Parallel()

	cfg := Config{
		APIKey:            "key",
		Model:             "openai/gpt-4o-mini",
		Temperature:       0.5,
		RouterModel:       "openai/gpt-4o",
		RouterTemperature: 0.1,
	}

	chat := cfg.OpenRouterFor(RoleChat)
	if chat.Model != "openai/gpt-4o-mini" || chat.Temperature != 0.5 {
		t.Fatalf("chat config = %q/%v", chat.Model, chat.Temperature)
	}

	router := cfg.OpenRouterFor(RoleRouter)
	if router.Model != "openai/gpt-4o" || router.Temperature != 0.1 {
		t.Fatalf("router config = %q/%v", router.Model, router.Temperature)
	}
}

func TestOpenRouterForFallsBackToSharedDefaults(t *testing.T) {
	t.Parallel()

	cfg := Config{APIKey: "key", Model: "openai/gpt-4o-mini", Temperature: 0.7, RouterTemperature: -1}
	router := cfg.OpenRouterFor(RoleRouter)
	if router.Model != "openai/gpt-4o-mini" || router.Temperature != 0.7 {
		t.Fatalf("router config = %q/%v, want shared defaults", router.Model, router.Temperature)
	}
}

func TestValidateRequiresAPIKey(t *testing.T) {
	t.Parallel()

	err := Config{Model: "openai/gpt-4o-mini"}.Validate()
	if !errors.Is(err, contractx.ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
	if (Config{}).Enabled() {
		t.Fatal("empty config reports enabled")
	}
}
