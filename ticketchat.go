package ticketchat

import (
	"context"
	"log/slog"

	"github.com/aretw0/ticketchat/internal/runtime"
	"github.com/aretw0/ticketchat/pkg/domain"
	"github.com/aretw0/ticketchat/pkg/ports"
)

// Engine is the high-level entry point for the library.
// It wraps the internal controller and is safe for concurrent use.
type Engine struct {
	controller *runtime.Controller
	tickets    ports.TicketSource
	model      ports.LanguageModel
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
}

var _ ports.TurnEngine = (*Engine)(nil)

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithTicketSource sets the issue-tracker collaborator.
func WithTicketSource(src ports.TicketSource) Option {
	return func(e *Engine) {
		e.tickets = src
	}
}

// WithLanguageModel sets the chat model collaborator.
func WithLanguageModel(model ports.LanguageModel) Option {
	return func(e *Engine) {
		e.model = model
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New creates an Engine. Turns fail with domain.ErrNoCollaborator until
// a ticket source (and, for free-form chat, a language model) is provided.
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}

	rtOpts := []runtime.Option{runtime.WithLifecycleHooks(e.hooks)}
	if e.logger != nil {
		rtOpts = append(rtOpts, runtime.WithLogger(e.logger))
	}
	e.controller = runtime.NewController(e.tickets, e.model, rtOpts...)
	return e
}

// Turn processes one user message on top of prior (nil starts a conversation)
// and returns the new state. prior is never modified.
func (e *Engine) Turn(ctx context.Context, prior *domain.DialogueState, msg string) (*domain.DialogueState, error) {
	return e.controller.Turn(ctx, prior, msg)
}

// Classify reports the intent msg would be routed to.
func (e *Engine) Classify(ctx context.Context, msg string) (domain.Intent, error) {
	return e.controller.Classify(ctx, msg)
}

// Tickets returns the configured ticket source.
func (e *Engine) Tickets() ports.TicketSource {
	return e.controller.Tickets()
}

// Graph describes the controller's transitions.
func (e *Engine) Graph() []domain.Edge {
	return e.controller.Graph()
}
