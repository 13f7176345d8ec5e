package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/ticketchat/pkg/domain"
	"github.com/aretw0/ticketchat/pkg/ports"
)

// Store implements ports.ConversationStore in memory. Sessions are lost on exit.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*domain.DialogueState
}

var _ ports.ConversationStore = (*Store)(nil)

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*domain.DialogueState)}
}

func (s *Store) Save(ctx context.Context, sessionID string, state *domain.DialogueState) error {
	if err := domain.ValidateSessionID(sessionID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = state.Snapshot()
	return nil
}

func (s *Store) Load(ctx context.Context, sessionID string) (*domain.DialogueState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.sessions[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return state.Snapshot(), nil
}

func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
