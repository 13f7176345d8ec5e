package ports

import (
	"context"
	"time"

	"github.com/aretw0/ticketchat/pkg/domain"
)

// ConversationStore persists dialogue states by session ID.
// Hosts use it to resume a conversation without carrying the history themselves.
type ConversationStore interface {
	// Save replaces the stored state for sessionID.
	Save(ctx context.Context, sessionID string, state *domain.DialogueState) error
	// Load returns domain.ErrSessionNotFound when nothing is stored for sessionID.
	Load(ctx context.Context, sessionID string) (*domain.DialogueState, error)
	// Delete is idempotent.
	Delete(ctx context.Context, sessionID string) error
	// List returns the stored session IDs.
	List(ctx context.Context) ([]string, error)
}

// UnlockFunc releases a lock obtained from a DistributedLocker.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker serializes work on a key across processes.
type DistributedLocker interface {
	// Lock blocks until the lock is held or ctx is done. The lock expires after ttl.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}

// SessionTurner runs a turn on top of a stored conversation and stores the result.
type SessionTurner interface {
	Turn(ctx context.Context, engine TurnEngine, sessionID, msg string) (prior, next *domain.DialogueState, err error)
}
