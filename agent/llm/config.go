package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/huddle/agent/contract"
	openrouterx "github.com/tanpawarit/huddle/pkg/openrouter"
)

// Role selects which tuning a completion runs with.
type Role string

const (
	// RoleChat answers small talk with the persona prompt.
	RoleChat Role = "chat"
	// RoleRouter drives the tool-calling loop.
	RoleRouter Role = "router"
)

type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" default:"openai/gpt-4o-mini"`
	MaxCompletionToken int64         `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float64       `envconfig:"TEMPERATURE" split_words:"true" default:"0.5"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`

	RouterModel       string  `envconfig:"ROUTER_MODEL" split_words:"true"`
	RouterTemperature float64 `envconfig:"ROUTER_TEMPERATURE" split_words:"true" default:"-1"`
}

// Enabled reports whether a model is configured at all. Without one the
// service still runs; generative features answer with canned text.
func (c Config) Enabled() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: openrouter api key is required", contractx.ErrNotConfigured)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: default model is required", contractx.ErrNotConfigured)
	}
	return nil
}

// OpenRouterFor resolves the model and temperature for one role, falling
// back to the shared defaults when no override is set.
func (c Config) OpenRouterFor(role Role) openrouterx.Config {
	modelName := strings.TrimSpace(c.Model)
	temp := c.Temperature

	if role == RoleRouter {
		if v := strings.TrimSpace(c.RouterModel); v != "" {
			modelName = v
		}
		if c.RouterTemperature >= 0 {
			temp = c.RouterTemperature
		}
	}

	return openrouterx.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              modelName,
		MaxCompletionToken: c.MaxCompletionToken,
		Temperature:        temp,
		Timeout:            c.Timeout,
		SiteURL:            strings.TrimSpace(c.SiteURL),
		SiteName:           strings.TrimSpace(c.SiteName),
	}
}
