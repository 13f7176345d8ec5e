package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/ticketchat/pkg/adapters/redis"
	"github.com/aretw0/ticketchat/pkg/domain"
	"github.com/aretw0/ticketchat/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStore_Contract(t *testing.T) {
	_, client := setup(t)
	ports.RunConversationStoreContract(t, redis.NewStore(client))
}

func TestRedisStore_TTL(t *testing.T) {
	mr, client := setup(t)
	store := redis.NewStore(client, redis.WithSessionTTL(time.Minute), redis.WithSessionPrefix("test:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "s1", domain.NewDialogueState()))
	assert.Equal(t, time.Minute, mr.TTL("test:s1"))

	mr.FastForward(2 * time.Minute)
	_, err := store.Load(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestRedisStore_NoTTLByDefault(t *testing.T) {
	mr, client := setup(t)
	store := redis.NewStore(client)

	require.NoError(t, store.Save(context.Background(), "s1", domain.NewDialogueState()))
	assert.Zero(t, mr.TTL(redis.DefaultSessionPrefix+"s1"))
	assert.True(t, mr.Exists(redis.DefaultSessionPrefix+"index"))
}

func TestRedisStore_Errors(t *testing.T) {
	mr, client := setup(t)
	store := redis.NewStore(client)
	ctx := context.Background()

	assert.ErrorIs(t, store.Save(ctx, "bad id", domain.NewDialogueState()), domain.ErrInvalidSessionID)

	require.NoError(t, mr.Set(redis.DefaultSessionPrefix+"corrupt", "{nope"))
	_, err := store.Load(ctx, "corrupt")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSessionNotFound)

	mr.Close()
	_, err = store.List(ctx)
	assert.Error(t, err)
}
