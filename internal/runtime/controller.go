package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/ticketchat/internal/intent"
	"github.com/aretw0/ticketchat/internal/logging"
	"github.com/aretw0/ticketchat/pkg/domain"
	"github.com/aretw0/ticketchat/pkg/ports"
)

// Controller is the turn-based dialogue state machine.
// It holds only collaborator handles and is safe for concurrent use as long as
// each conversation passes its own DialogueState.
type Controller struct {
	tickets ports.TicketSource
	model   ports.LanguageModel
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
	now     func() time.Time
}

var _ ports.TurnEngine = (*Controller)(nil)

// Option configures the Controller.
type Option func(*Controller)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Controller) {
		c.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the controller.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewController creates a controller over the given collaborators.
func NewController(tickets ports.TicketSource, model ports.LanguageModel, opts ...Option) *Controller {
	c := &Controller{
		tickets: tickets,
		model:   model,
		logger:  logging.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tickets returns the ticket collaborator.
func (c *Controller) Tickets() ports.TicketSource {
	return c.tickets
}

// Classify fetches the current status vocabulary and classifies msg.
func (c *Controller) Classify(ctx context.Context, msg string) (domain.Intent, error) {
	statuses, err := c.statuses(ctx, domain.StepAgent)
	if err != nil {
		return domain.Intent{}, err
	}
	return intent.Classify(msg, statuses), nil
}

// Turn appends msg to a copy of prior and runs the state machine until done.
// The prior state is never modified. On error the turn is aborted and nil is returned.
func (c *Controller) Turn(ctx context.Context, prior *domain.DialogueState, msg string) (*domain.DialogueState, error) {
	state := prior.Snapshot()
	// Scratch never crosses turns, even if the caller hands back a dirty state.
	state.ClearScratch()
	state.Path = state.Path[:0]
	state.Append(domain.HumanMessage(msg))

	step := domain.StepAgent
	for step != domain.StepDone {
		state.Path = append(state.Path, step)

		next, err := c.run(ctx, step, state)
		if err != nil {
			c.logger.Error("turn aborted",
				"step", step,
				"history_len", len(state.History),
				"err", err,
			)
			return nil, err
		}
		step = next
	}
	state.Path = append(state.Path, domain.StepDone)

	c.logger.Debug("turn complete", "path", state.Path, "history_len", len(state.History))
	return state, nil
}

// run executes one step and returns the next one.
func (c *Controller) run(ctx context.Context, step domain.Step, state *domain.DialogueState) (domain.Step, error) {
	ev := &domain.StepEvent{EventBase: c.event(domain.EventStepEnter), Step: step}
	c.emitStepEnter(ctx, ev)

	var (
		next domain.Step
		err  error
	)
	switch step {
	case domain.StepAgent:
		next, ev.Intent, err = c.agent(ctx, state)
	case domain.StepTools:
		next, err = c.listHandler(ctx, state)
	case domain.StepSummarizer:
		next, err = c.summarizeHandler(ctx, state)
	default:
		err = fmt.Errorf("unknown step %q", step)
	}
	if err != nil {
		return "", err
	}

	ev.EventBase = c.event(domain.EventStepLeave)
	c.emitStepLeave(ctx, ev)
	return next, nil
}

// agent classifies the latest message and routes it.
func (c *Controller) agent(ctx context.Context, state *domain.DialogueState) (domain.Step, domain.Intent, error) {
	last, _ := state.Last()

	statuses, err := c.statuses(ctx, domain.StepAgent)
	if err != nil {
		return "", domain.Intent{}, err
	}
	in := intent.Classify(last.Content, statuses)
	c.logger.Debug("classified", "intent", in.String())

	switch in.Kind {
	case domain.IntentListAll:
		state.Append(domain.AssistantMessage("Fetching your tickets..."))
		state.Greeted = true
		return domain.StepTools, in, nil

	case domain.IntentListByStatus:
		state.Append(domain.AssistantMessage(fmt.Sprintf("Fetching your '%s' tickets...", in.Status)))
		state.StatusFilter = in.Status
		return domain.StepTools, in, nil

	case domain.IntentSummarize:
		state.Append(domain.AssistantMessage(fmt.Sprintf("Summarizing ticket %s...", in.TicketKey)))
		state.TicketToSummarize = in.TicketKey
		return domain.StepSummarizer, in, nil

	case domain.IntentChat:
		if err := c.chatHandler(ctx, state); err != nil {
			return "", in, err
		}
		return domain.StepDone, in, nil

	default:
		return domain.StepDone, in, nil
	}
}

func (c *Controller) statuses(ctx context.Context, step domain.Step) ([]string, error) {
	if c.tickets == nil {
		return nil, &StepError{Step: step, Op: "list_statuses", Err: domain.ErrNoCollaborator}
	}
	var statuses []string
	err := c.call(ctx, step, "tickets", "list_statuses", func() error {
		var err error
		statuses, err = c.tickets.ListStatuses(ctx)
		return err
	})
	return statuses, err
}

// call wraps one collaborator invocation with hooks and error context.
func (c *Controller) call(ctx context.Context, step domain.Step, collaborator, op string, fn func() error) error {
	ev := &domain.CollaboratorEvent{
		EventBase:    c.event(domain.EventCollaboratorCall),
		Step:         step,
		Collaborator: collaborator,
		Operation:    op,
	}
	if c.hooks.OnCollaboratorCall != nil {
		c.hooks.OnCollaboratorCall(ctx, ev)
	}

	start := c.now()
	err := fn()

	ev.EventBase = c.event(domain.EventCollaboratorReturn)
	ev.Duration = c.now().Sub(start)
	ev.Err = err
	if c.hooks.OnCollaboratorReturn != nil {
		c.hooks.OnCollaboratorReturn(ctx, ev)
	}

	if err != nil {
		return &StepError{Step: step, Op: op, Err: err}
	}
	return nil
}

func (c *Controller) event(t domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: c.now(), Type: t}
}

func (c *Controller) emitStepEnter(ctx context.Context, ev *domain.StepEvent) {
	if c.hooks.OnStepEnter != nil {
		c.hooks.OnStepEnter(ctx, ev)
	}
}

func (c *Controller) emitStepLeave(ctx context.Context, ev *domain.StepEvent) {
	if c.hooks.OnStepLeave != nil {
		c.hooks.OnStepLeave(ctx, ev)
	}
}
