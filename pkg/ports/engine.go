package ports

import (
	"context"

	"github.com/aretw0/ticketchat/pkg/domain"
)

// TurnEngine is the interface consumed by adapters (HTTP, MCP, runner).
// Implementations keep no per-conversation state: the caller owns the DialogueState.
type TurnEngine interface {
	// Turn runs one controller pass for msg on top of prior (nil for the first turn).
	Turn(ctx context.Context, prior *domain.DialogueState, msg string) (*domain.DialogueState, error)

	// Classify returns the intent msg would be routed to, without running a handler.
	Classify(ctx context.Context, msg string) (domain.Intent, error)

	// Tickets exposes the ticket collaborator for direct tool access.
	Tickets() TicketSource

	// Graph describes the state machine's transitions.
	Graph() []domain.Edge
}
