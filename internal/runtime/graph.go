package runtime

import "github.com/aretw0/ticketchat/pkg/domain"

// Graph returns the controller's transitions for introspection.
func Graph() []domain.Edge {
	return []domain.Edge{
		{From: domain.StepAgent, To: domain.StepTools, Label: "list"},
		{From: domain.StepAgent, To: domain.StepSummarizer, Label: "summarize"},
		{From: domain.StepAgent, To: domain.StepDone, Label: "chat / noop"},
		{From: domain.StepTools, To: domain.StepDone},
		{From: domain.StepSummarizer, To: domain.StepDone},
	}
}

// Graph implements ports.TurnEngine.
func (c *Controller) Graph() []domain.Edge {
	return Graph()
}
