package orchestratornode

import (
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/huddle/agent/contract"
	replyx "github.com/tanpawarit/huddle/agent/reply"
)

// FinalizeReply is the last gate before text leaves the graph: trim,
// sanitize, and never hand back an empty string.
func FinalizeReply(in *GraphState) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	text := replyx.Sanitize(strings.TrimSpace(in.Reply))
	if text == "" {
		text = replyx.Apology
	}
	return GraphOutput{Reply: text}, nil
}
