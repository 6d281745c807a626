package orchestratornode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/huddle/agent/contract"
	statex "github.com/tanpawarit/huddle/agent/state"
)

func LoadSession(ctx context.Context, in *GraphState, store statex.Store) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	in.Session = store.GetOrCreate(ctx, in.SessionID)
	return in, nil
}
