package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openaisdk "github.com/openai/openai-go"
	"github.com/rs/zerolog"

	contractx "github.com/tanpawarit/huddle/agent/contract"
	statex "github.com/tanpawarit/huddle/agent/state"
	logx "github.com/tanpawarit/huddle/pkg/logger"
	openrouterx "github.com/tanpawarit/huddle/pkg/openrouter"
)

// Client implements the generative model surface over an OpenRouter
// compatible chat completion API.
type Client struct {
	api    *openaisdk.Client
	chat   openrouterx.Config
	router openrouterx.Config
	log    zerolog.Logger
}

var _ contractx.ChatModel = (*Client)(nil)

func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	chatCfg := cfg.OpenRouterFor(RoleChat)
	api := openrouterx.NewClient(chatCfg)
	if api == nil {
		return nil, fmt.Errorf("%w: openrouter client", contractx.ErrNotConfigured)
	}

	return &Client{
		api:    api,
		chat:   chatCfg,
		router: cfg.OpenRouterFor(RoleRouter),
		log:    logx.Component("llm"),
	}, nil
}

// Complete runs one persona completion over the prior transcript.
func (c *Client) Complete(ctx context.Context, system string, history []statex.Turn, user string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.chat.Timeout)
	defer cancel()

	completion, err := c.api.Chat.Completions.New(callCtx, openaisdk.ChatCompletionNewParams{
		Model:       openaisdk.ChatModel(c.chat.Model),
		Messages:    buildMessages(system, history, user),
		MaxTokens:   openaisdk.Int(c.chat.MaxCompletionToken),
		Temperature: openaisdk.Float(c.chat.Temperature),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: completion returned no choices", contractx.ErrModelInvoke)
	}
	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}

// StartToolChat opens a function-calling conversation. The transcript
// accretes inside the returned chat as turns and tool results arrive.
func (c *Client) StartToolChat(system string, history []statex.Turn, user string, tools []contractx.ToolSpec) contractx.ToolChat {
	return &toolChat{
		client: c,
		params: openaisdk.ChatCompletionNewParams{
			Model:       openaisdk.ChatModel(c.router.Model),
			Messages:    buildMessages(system, history, user),
			MaxTokens:   openaisdk.Int(c.router.MaxCompletionToken),
			Temperature: openaisdk.Float(c.router.Temperature),
			Tools:       toToolParams(tools),
		},
	}
}

type toolChat struct {
	client *Client
	params openaisdk.ChatCompletionNewParams
}

func (tc *toolChat) Step(ctx context.Context) (contractx.ModelTurn, error) {
	callCtx, cancel := context.WithTimeout(ctx, tc.client.router.Timeout)
	defer cancel()

	completion, err := tc.client.api.Chat.Completions.New(callCtx, tc.params)
	if err != nil {
		return contractx.ModelTurn{}, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
	}
	if len(completion.Choices) == 0 {
		return contractx.ModelTurn{}, fmt.Errorf("%w: completion returned no choices", contractx.ErrModelInvoke)
	}

	msg := completion.Choices[0].Message
	tc.params.Messages = append(tc.params.Messages, msg.ToParam())

	turn := contractx.ModelTurn{Text: strings.TrimSpace(msg.Content)}
	for _, call := range msg.ToolCalls {
		args := map[string]any{}
		if raw := call.Function.Arguments; raw != "" {
			if err := json.Unmarshal([]byte(raw), &args); err != nil {
				tc.client.log.Warn().Err(err).Str("tool", call.Function.Name).Msg("unparseable tool arguments from model")
			}
		}
		turn.Calls = append(turn.Calls, contractx.ToolUse{
			ID:   call.ID,
			Name: call.Function.Name,
			Args: args,
		})
	}
	return turn, nil
}

func (tc *toolChat) AddToolResult(callID, name, content string) {
	// The wire format carries the call ID, not the tool name; name is part
	// of the contract for backends that need it.
	tc.params.Messages = append(tc.params.Messages, openaisdk.ToolMessage(content, callID))
}

func buildMessages(system string, history []statex.Turn, user string) []openaisdk.ChatCompletionMessageParamUnion {
	msgs := make([]openaisdk.ChatCompletionMessageParamUnion, 0, len(history)+2)
	if system != "" {
		msgs = append(msgs, openaisdk.SystemMessage(system))
	}
	for _, turn := range history {
		switch turn.Role {
		case statex.RoleAssistant:
			msgs = append(msgs, openaisdk.AssistantMessage(turn.Content))
		default:
			msgs = append(msgs, openaisdk.UserMessage(turn.Content))
		}
	}
	if user != "" {
		msgs = append(msgs, openaisdk.UserMessage(user))
	}
	return msgs
}

func toToolParams(tools []contractx.ToolSpec) []openaisdk.ChatCompletionToolUnionParam {
	out := make([]openaisdk.ChatCompletionToolUnionParam, 0, len(tools))
	for _, t := range tools {
		out = append(out, openaisdk.ChatCompletionFunctionTool(openaisdk.FunctionDefinitionParam{
			Name:        t.Name,
			Description: openaisdk.String(t.Description),
			Parameters:  openaisdk.FunctionParameters(t.Parameters),
		}))
	}
	return out
}
