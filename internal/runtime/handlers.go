package runtime

import (
	"context"

	"github.com/aretw0/ticketchat/pkg/domain"
)

// listHandler lists tickets for the pending filter (or all tickets when greeted).
func (c *Controller) listHandler(ctx context.Context, state *domain.DialogueState) (domain.Step, error) {
	if !state.Greeted && state.StatusFilter == "" {
		return "", &StepError{Step: domain.StepTools, Op: "list_tickets", Err: domain.ErrMissingScratch}
	}

	var text string
	err := c.call(ctx, domain.StepTools, "tickets", "list_tickets", func() error {
		var err error
		text, err = c.tickets.ListTickets(ctx, state.StatusFilter)
		return err
	})
	if err != nil {
		return "", err
	}

	state.Append(domain.AssistantMessage(text))
	state.ClearScratch()
	return domain.StepDone, nil
}

// summarizeHandler summarizes the pending ticket key.
func (c *Controller) summarizeHandler(ctx context.Context, state *domain.DialogueState) (domain.Step, error) {
	key := state.TicketToSummarize
	if key == "" {
		return "", &StepError{Step: domain.StepSummarizer, Op: "summarize_ticket", Err: domain.ErrMissingScratch}
	}

	var text string
	err := c.call(ctx, domain.StepSummarizer, "tickets", "summarize_ticket", func() error {
		var err error
		text, err = c.tickets.SummarizeTicket(ctx, key)
		return err
	})
	if err != nil {
		return "", err
	}

	state.Append(domain.AssistantMessage(text))
	state.ClearScratch()
	return domain.StepDone, nil
}

// chatHandler forwards the Human messages to the language model.
// With no Human content left there is nothing to ask, so the turn ends silently.
func (c *Controller) chatHandler(ctx context.Context, state *domain.DialogueState) error {
	human := state.HumanMessages()
	if len(human) == 0 {
		return nil
	}
	if c.model == nil {
		return &StepError{Step: domain.StepAgent, Op: "generate", Err: domain.ErrNoCollaborator}
	}

	var reply domain.Message
	err := c.call(ctx, domain.StepAgent, "model", "generate", func() error {
		var err error
		reply, err = c.model.Generate(ctx, human)
		return err
	})
	if err != nil {
		return err
	}

	// Replies are always attributed to the assistant regardless of what the model reports.
	state.Append(domain.AssistantMessage(reply.Content))
	return nil
}
