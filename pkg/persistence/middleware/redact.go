package middleware

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aretw0/ticketchat/pkg/domain"
	"github.com/aretw0/ticketchat/pkg/ports"
)

// Mask replaces redacted text.
const Mask = "***"

// DefaultRedactionPatterns cover e-mail addresses and inline credentials.
var DefaultRedactionPatterns = []string{
	`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`,
	`(?i)\b(?:api[_-]?key|token|password|secret)\s*[:=]\s*\S+`,
}

type redactionMiddleware struct {
	next     ports.ConversationStore
	patterns []*regexp.Regexp
}

// NewRedactionMiddleware masks every match of patterns in message content before saving.
// The caller's in-memory state is left untouched; only the persisted copy is masked.
func NewRedactionMiddleware(patterns []string) (Middleware, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid redaction pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}
	return func(next ports.ConversationStore) ports.ConversationStore {
		return &redactionMiddleware{next: next, patterns: compiled}
	}, nil
}

func (m *redactionMiddleware) Save(ctx context.Context, sessionID string, state *domain.DialogueState) error {
	cloned := state.Snapshot()
	for i := range cloned.History {
		cloned.History[i].Content = m.mask(cloned.History[i].Content)
	}
	return m.next.Save(ctx, sessionID, cloned)
}

func (m *redactionMiddleware) mask(s string) string {
	for _, p := range m.patterns {
		s = p.ReplaceAllString(s, Mask)
	}
	return s
}

func (m *redactionMiddleware) Load(ctx context.Context, sessionID string) (*domain.DialogueState, error) {
	return m.next.Load(ctx, sessionID)
}

func (m *redactionMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *redactionMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
