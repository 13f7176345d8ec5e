package tickets

import (
	"context"
	"log/slog"
	"strings"

	"github.com/aretw0/ticketchat/internal/logging"
	"github.com/aretw0/ticketchat/pkg/domain"
	"github.com/aretw0/ticketchat/pkg/ports"
)

const summaryPrompt = "Summarize the following issue-tracker ticket for its assignee in at most five sentences. " +
	"Mention the current status, what is being asked and any blocker raised in the comments.\n\n"

// Summarizer turns a ticket into summary text.
// Without a language model it returns the ticket digest as is.
type Summarizer struct {
	model  ports.LanguageModel
	logger *slog.Logger
}

// NewSummarizer creates a Summarizer. model may be nil.
func NewSummarizer(model ports.LanguageModel, logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Summarizer{model: model, logger: logger}
}

// Summarize returns a summary of t. It never fails: a model error degrades to the digest.
func (s *Summarizer) Summarize(ctx context.Context, t domain.Ticket) string {
	digest := Digest(t)
	if s == nil || s.model == nil {
		return digest
	}

	reply, err := s.model.Generate(ctx, []domain.Message{domain.HumanMessage(summaryPrompt + digest)})
	if err != nil || strings.TrimSpace(reply.Content) == "" {
		s.logger.Warn("model summary unavailable, using digest", "ticket", t.Key, "err", err)
		return digest
	}
	return "[" + t.Key + "] " + t.Summary + "\n\n" + strings.TrimSpace(reply.Content)
}
