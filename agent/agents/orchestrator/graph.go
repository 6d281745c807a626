package orchestrator

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	nodex "github.com/tanpawarit/huddle/agent/nodes"
)

func (o *Orchestrator) compileHandleMessageGraph(
	ctx context.Context,
) (compose.Runnable[nodex.GraphInput, nodex.GraphOutput], error) {
	graph := compose.NewGraph[nodex.GraphInput, nodex.GraphOutput]()

	if err := graph.AddLambdaNode("validate_request",
		compose.InvokableLambda(func(ctx context.Context, in nodex.GraphInput) (*nodex.GraphState, error) {
			return nodex.ValidateRequest(in, o.now)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_request: %w", err)
	}

	if err := graph.AddLambdaNode("load_session",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.LoadSession(ctx, in, o.store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node load_session: %w", err)
	}

	if err := graph.AddLambdaNode("classify_intent",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.ClassifyIntent(in, o.classifier)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node classify_intent: %w", err)
	}

	if err := graph.AddLambdaNode("dispatch",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.Dispatch(ctx, in, o.caps)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node dispatch: %w", err)
	}

	if err := graph.AddLambdaNode("touch_session",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.TouchSession(ctx, in, o.store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node touch_session: %w", err)
	}

	if err := graph.AddLambdaNode("finalize_reply",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (nodex.GraphOutput, error) {
			return nodex.FinalizeReply(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize_reply: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_request"},
		{"validate_request", "load_session"},
		{"load_session", "classify_intent"},
		{"classify_intent", "dispatch"},
		{"dispatch", "touch_session"},
		{"touch_session", "finalize_reply"},
		{"finalize_reply", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("orchestrator.handle_message"))
	if err != nil {
		return nil, fmt.Errorf("compile orchestrator graph: %w", err)
	}
	return runner, nil
}
