package orchestratornode

import (
	"fmt"

	contractx "github.com/tanpawarit/huddle/agent/contract"
)

func ClassifyIntent(in *GraphState, classifier contractx.Classifier) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph state is missing a session", contractx.ErrValidation)
	}

	in.Intent = classifier.Classify(in.Text, in.Session.AwaitingAnswer())
	return in, nil
}
