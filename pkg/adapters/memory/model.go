package memory

import (
	"context"

	"github.com/aretw0/ticketchat/pkg/domain"
)

// StaticModel implements ports.LanguageModel without any network access.
// With an empty Reply it echoes the last message back.
type StaticModel struct {
	Reply string
}

// Generate returns the canned reply.
func (m StaticModel) Generate(ctx context.Context, messages []domain.Message) (domain.Message, error) {
	if m.Reply != "" {
		return domain.AssistantMessage(m.Reply), nil
	}
	if len(messages) == 0 {
		return domain.Message{}, domain.ErrEmptyReply
	}
	return domain.AssistantMessage("(offline) You said: " + messages[len(messages)-1].Content), nil
}
