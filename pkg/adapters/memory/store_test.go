package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/ticketchat/pkg/adapters/memory"
	"github.com/aretw0/ticketchat/pkg/domain"
	"github.com/aretw0/ticketchat/pkg/ports"
	"github.com/stretchr/testify/assert"
)

func TestMemoryStore_Contract(t *testing.T) {
	ports.RunConversationStoreContract(t, memory.NewStore())
}

func TestMemoryStore_RejectsInvalidID(t *testing.T) {
	err := memory.NewStore().Save(context.Background(), "../x", domain.NewDialogueState())
	assert.ErrorIs(t, err, domain.ErrInvalidSessionID)
}
