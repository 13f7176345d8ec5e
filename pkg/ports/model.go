package ports

import (
	"context"

	"github.com/aretw0/ticketchat/pkg/domain"
)

// LanguageModel is the generative collaborator used for free-form chat.
type LanguageModel interface {
	// Generate sends the ordered messages and returns exactly one Assistant reply.
	Generate(ctx context.Context, messages []domain.Message) (domain.Message, error)
}

// LanguageModelFunc adapts a plain function to LanguageModel.
type LanguageModelFunc func(ctx context.Context, messages []domain.Message) (domain.Message, error)

func (f LanguageModelFunc) Generate(ctx context.Context, messages []domain.Message) (domain.Message, error) {
	return f(ctx, messages)
}
