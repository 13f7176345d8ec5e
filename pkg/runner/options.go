package runner

import (
	"log/slog"

	"github.com/aretw0/ticketchat/pkg/domain"
	"github.com/aretw0/ticketchat/pkg/ports"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithInputHandler configures a custom IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithInitialState resumes an existing conversation instead of starting empty.
func WithInitialState(state *domain.DialogueState) Option {
	return func(r *Runner) {
		r.state = state
	}
}

// WithExitWord overrides the word that ends the session (compared case-insensitively).
func WithExitWord(word string) Option {
	return func(r *Runner) {
		r.exitWord = word
	}
}

// WithStore persists the conversation under sessionID after every successful turn.
func WithStore(store ports.ConversationStore, sessionID string) Option {
	return func(r *Runner) {
		r.store = store
		r.sessionID = sessionID
	}
}
