package runner

import (
	"context"

	"github.com/aretw0/ticketchat/pkg/domain"
)

// IOHandler defines how the runner talks to the user.
type IOHandler interface {
	// Input reads the next user line. io.EOF ends the session.
	Input(ctx context.Context) (string, error)

	// Output presents the assistant replies produced by one turn.
	Output(ctx context.Context, replies []domain.Message) error

	// SystemOutput presents a meta-message, such as a failed turn.
	SystemOutput(ctx context.Context, msg string) error
}

// ContentRenderer transforms reply text before it is printed (e.g. markdown to ANSI).
type ContentRenderer func(string) (string, error)
