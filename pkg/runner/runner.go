package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aretw0/ticketchat/internal/logging"
	"github.com/aretw0/ticketchat/pkg/domain"
	"github.com/aretw0/ticketchat/pkg/ports"
)

// DefaultExitWord ends the chat loop.
const DefaultExitWord = "exit"

// Runner drives a conversation through a TurnEngine.
type Runner struct {
	// Handler is the strategy for IO. Defaults to a TextHandler on stdin/stdout.
	Handler IOHandler

	// Logger is used for internal debug logging. Defaults to a no-op logger.
	Logger *slog.Logger

	engine    ports.TurnEngine
	state     *domain.DialogueState
	exitWord  string
	store     ports.ConversationStore
	sessionID string
}

// NewRunner creates a Runner for engine.
func NewRunner(engine ports.TurnEngine, opts ...Option) *Runner {
	r := &Runner{
		engine:   engine,
		exitWord: DefaultExitWord,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.Handler == nil {
		r.Handler = NewTextHandler(nil, nil)
	}
	if r.Logger == nil {
		r.Logger = logging.NewNop()
	}
	return r
}

// State returns the conversation as of the last successful turn.
func (r *Runner) State() *domain.DialogueState {
	return r.state
}

// Run reads lines until EOF, the exit word or ctx cancellation.
// Only IO failures are returned; a failed turn is reported to the handler
// and the conversation continues from the previous state.
func (r *Runner) Run(ctx context.Context) error {
	for {
		// 1. Read
		line, err := r.Handler.Input(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("input error: %w", err)
		}
		if strings.EqualFold(strings.TrimSpace(line), r.exitWord) {
			return nil
		}

		// 2. Turn
		next, err := r.engine.Turn(ctx, r.state, line)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			r.Logger.Error("turn failed", "err", err)
			if err := r.Handler.SystemOutput(ctx, "An error occurred: "+err.Error()); err != nil {
				return fmt.Errorf("output error: %w", err)
			}
			continue
		}

		// 3. Print what this turn added
		replies := domain.AssistantReplies(domain.NewMessages(r.state, next))
		r.Logger.Debug("turn complete", "history_len", len(next.History), "replies", len(replies), "path", next.Path)
		if err := r.Handler.Output(ctx, replies); err != nil {
			return fmt.Errorf("output error: %w", err)
		}

		r.state = next

		// 4. Persist
		if r.store != nil {
			if err := r.store.Save(ctx, r.sessionID, next); err != nil {
				r.Logger.Warn("session not saved", "session_id", r.sessionID, "err", err)
				if err := r.Handler.SystemOutput(ctx, "Warning: conversation not saved: "+err.Error()); err != nil {
					return fmt.Errorf("output error: %w", err)
				}
			}
		}
	}
}
