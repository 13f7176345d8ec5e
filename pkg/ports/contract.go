package ports

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/aretw0/ticketchat/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TicketSourceFixture describes the data a source under contract test is seeded with.
type TicketSourceFixture struct {
	// Statuses is the expected status order.
	Statuses []string
	// Status is a status with at least one ticket; MatchingKey is one of those tickets.
	Status      string
	MatchingKey string
	// EmptyStatus is a known status with no tickets.
	EmptyStatus string
	// MissingKey does not exist upstream.
	MissingKey string
}

// RunTicketSourceContract runs a suite of tests to verify that a TicketSource implementation
// adheres to the defined interface contract.
func RunTicketSourceContract(t *testing.T, source TicketSource, fx TicketSourceFixture) {
	ctx := context.Background()

	t.Run("Statuses keep upstream order", func(t *testing.T) {
		statuses, err := source.ListStatuses(ctx)
		require.NoError(t, err)
		assert.Equal(t, fx.Statuses, statuses)
	})

	t.Run("List all", func(t *testing.T) {
		out, err := source.ListTickets(ctx, "")
		require.NoError(t, err)
		assert.Contains(t, out, "["+fx.MatchingKey+"]")
		assert.True(t, strings.HasPrefix(out, "1. "), "listing should be numbered from 1")
	})

	t.Run("List by status", func(t *testing.T) {
		out, err := source.ListTickets(ctx, fx.Status)
		require.NoError(t, err)
		assert.Contains(t, out, "["+fx.MatchingKey+"]")
	})

	t.Run("Empty status yields sentinel", func(t *testing.T) {
		out, err := source.ListTickets(ctx, fx.EmptyStatus)
		require.NoError(t, err)
		assert.Equal(t, "No tickets found for status '"+fx.EmptyStatus+"'.", out)
	})

	t.Run("Summarize", func(t *testing.T) {
		out, err := source.SummarizeTicket(ctx, fx.MatchingKey)
		require.NoError(t, err)
		assert.Contains(t, out, fx.MatchingKey)
	})

	t.Run("Summarize missing key is text, not error", func(t *testing.T) {
		out, err := source.SummarizeTicket(ctx, fx.MissingKey)
		require.NoError(t, err)
		assert.Contains(t, out, fx.MissingKey)
		assert.NotEmpty(t, out)
	})
}

// RunConversationStoreContract runs a suite of tests to verify that a ConversationStore
// implementation adheres to the defined interface contract.
// The store must start empty.
func RunConversationStoreContract(t *testing.T, store ConversationStore) {
	ctx := context.Background()

	t.Run("Load missing session", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent")
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Save and load", func(t *testing.T) {
		state := domain.NewDialogueState()
		state.Append(domain.HumanMessage("show me my tickets"), domain.AssistantMessage("Fetching your tickets..."))
		state.Path = []domain.Step{domain.StepAgent, domain.StepTools, domain.StepDone}

		require.NoError(t, store.Save(ctx, "session-1", state))

		loaded, err := store.Load(ctx, "session-1")
		require.NoError(t, err)
		assert.Equal(t, state.History, loaded.History)
		assert.Equal(t, state.Path, loaded.Path)
	})

	t.Run("Save overwrites", func(t *testing.T) {
		state := domain.NewDialogueState()
		state.Append(domain.HumanMessage("hi"))
		require.NoError(t, store.Save(ctx, "session-1", state))

		loaded, err := store.Load(ctx, "session-1")
		require.NoError(t, err)
		require.Len(t, loaded.History, 1)
		assert.Equal(t, "hi", loaded.History[0].Content)
	})

	t.Run("Loaded state is independent", func(t *testing.T) {
		loaded, err := store.Load(ctx, "session-1")
		require.NoError(t, err)
		loaded.Append(domain.AssistantMessage("not saved"))

		again, err := store.Load(ctx, "session-1")
		require.NoError(t, err)
		assert.Len(t, again.History, 1)
	})

	t.Run("List", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "session-2", domain.NewDialogueState()))

		ids, err := store.List(ctx)
		require.NoError(t, err)
		sort.Strings(ids)
		assert.Equal(t, []string{"session-1", "session-2"}, ids)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "session-1"))
		_, err := store.Load(ctx, "session-1")
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)

		// Idempotent
		assert.NoError(t, store.Delete(ctx, "session-1"))

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"session-2"}, ids)
	})
}
