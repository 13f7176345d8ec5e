package middleware_test

import (
	"context"
	"crypto/rand"
	"io"
	"strings"
	"testing"

	"github.com/aretw0/ticketchat/pkg/adapters/memory"
	"github.com/aretw0/ticketchat/pkg/domain"
	"github.com/aretw0/ticketchat/pkg/persistence/middleware"
	"github.com/aretw0/ticketchat/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateKey(t *testing.T) []byte {
	t.Helper()
	k := make([]byte, middleware.KeySize)
	_, err := io.ReadFull(rand.Reader, k)
	require.NoError(t, err)
	return k
}

func encrypted(t *testing.T, inner ports.ConversationStore, cfg middleware.EncryptionConfig) ports.ConversationStore {
	t.Helper()
	mw, err := middleware.NewEncryptionMiddleware(cfg)
	require.NoError(t, err)
	return mw(inner)
}

func conversation() *domain.DialogueState {
	state := domain.NewDialogueState()
	state.Append(
		domain.HumanMessage("summarize ticket SEC-9"),
		domain.AssistantMessage("SEC-9 leaks the admin password"),
	)
	return state
}

func TestEncryption_Contract(t *testing.T) {
	store := encrypted(t, memory.NewStore(), middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	ports.RunConversationStoreContract(t, store)
}

func TestEncryption_Roundtrip(t *testing.T) {
	inner := memory.NewStore()
	store := encrypted(t, inner, middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "s1", conversation()))

	raw, err := inner.Load(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, raw.History, 1)
	assert.NotContains(t, raw.History[0].Content, "password")

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, conversation().History, loaded.History)
}

func TestEncryption_KeyRotation(t *testing.T) {
	inner := memory.NewStore()
	oldKey, newKey := generateKey(t), generateKey(t)
	ctx := context.Background()

	require.NoError(t, encrypted(t, inner, middleware.EncryptionConfig{ActiveKey: oldKey}).Save(ctx, "s1", conversation()))

	rotated := encrypted(t, inner, middleware.EncryptionConfig{ActiveKey: newKey, FallbackKeys: [][]byte{oldKey}})
	loaded, err := rotated.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, loaded.History, 2)

	withoutOld := encrypted(t, inner, middleware.EncryptionConfig{ActiveKey: newKey})
	_, err = withoutOld.Load(ctx, "s1")
	assert.Error(t, err)
}

func TestEncryption_BoundToSession(t *testing.T) {
	inner := memory.NewStore()
	store := encrypted(t, inner, middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "alice", conversation()))
	raw, err := inner.Load(ctx, "alice")
	require.NoError(t, err)
	require.NoError(t, inner.Save(ctx, "mallory", raw))

	_, err = store.Load(ctx, "mallory")
	assert.Error(t, err)
}

func TestEncryption_RejectsPlaintext(t *testing.T) {
	inner := memory.NewStore()
	require.NoError(t, inner.Save(context.Background(), "plain", conversation()))

	store := encrypted(t, inner, middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	_, err := store.Load(context.Background(), "plain")
	assert.ErrorIs(t, err, middleware.ErrNotSealed)
}

func TestEncryption_InvalidKeys(t *testing.T) {
	_, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short")})
	assert.Error(t, err)

	_, err = middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    generateKey(t),
		FallbackKeys: [][]byte{[]byte("short")},
	})
	assert.Error(t, err)
}

func TestRedaction(t *testing.T) {
	inner := memory.NewStore()
	mw, err := middleware.NewRedactionMiddleware(middleware.DefaultRedactionPatterns)
	require.NoError(t, err)
	store := mw(inner)
	ctx := context.Background()

	state := domain.NewDialogueState()
	state.Append(domain.HumanMessage("mail jane.doe@example.com, api_key=abc123 and summarize ticket X-1"))
	require.NoError(t, store.Save(ctx, "s1", state))

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	content := loaded.History[0].Content
	assert.NotContains(t, content, "jane.doe@example.com")
	assert.NotContains(t, content, "abc123")
	assert.Contains(t, content, "summarize ticket X-1")
	assert.Equal(t, 2, strings.Count(content, middleware.Mask))

	// The caller's copy is untouched.
	assert.Contains(t, state.History[0].Content, "jane.doe@example.com")
}

func TestRedaction_InvalidPattern(t *testing.T) {
	_, err := middleware.NewRedactionMiddleware([]string{"("})
	assert.Error(t, err)
}

func TestWrap_Order(t *testing.T) {
	inner := memory.NewStore()
	redact, err := middleware.NewRedactionMiddleware(middleware.DefaultRedactionPatterns)
	require.NoError(t, err)
	encrypt, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	require.NoError(t, err)

	// Redact first, then encrypt what remains.
	store := middleware.Wrap(inner, redact, encrypt)
	ctx := context.Background()

	state := domain.NewDialogueState()
	state.Append(domain.HumanMessage("token: hunter2"))
	require.NoError(t, store.Save(ctx, "s1", state))

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "***", loaded.History[0].Content)
}
