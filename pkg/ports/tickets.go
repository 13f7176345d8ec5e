package ports

import "context"

// TicketSource is the issue-tracker collaborator.
// Formatting is the source's concern: every method returns user-facing text.
type TicketSource interface {
	// ListStatuses returns the status names configured upstream.
	// The order is significant: intent classification picks the first status found in the message.
	ListStatuses(ctx context.Context) ([]string, error)

	// ListTickets returns a newline-joined enumeration of the user's tickets.
	// An empty status lists every ticket. When nothing matches, a "no tickets"
	// sentence is returned instead of an empty string.
	ListTickets(ctx context.Context, status string) (string, error)

	// SummarizeTicket returns a summary of the ticket identified by key.
	// Upstream failures are reported as diagnostic text rather than errors.
	SummarizeTicket(ctx context.Context, key string) (string, error)
}
