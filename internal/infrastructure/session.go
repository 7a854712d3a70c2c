package infrastructure

import (
	"context"
	"fmt"
	"sync"
	"time"

	"project_turnos/internal/entities"
)

// MemoryStateStore keeps dialog state in process memory. A janitor sweeps
// out entries idle past twice the dialog TTL; the logical 5-minute expiry
// stays visible to the engine so it can tell the caller the session ended.
type MemoryStateStore struct {
	states map[string]*entities.ConversationState
	mu     sync.RWMutex
	stop   chan struct{}
}

func NewMemoryStateStore() *MemoryStateStore {
	s := &MemoryStateStore{
		states: make(map[string]*entities.ConversationState),
		stop:   make(chan struct{}),
	}
	go s.janitor()
	return s
}

func stateKey(tenantID int, phone string) string {
	return fmt.Sprintf("%d:%s", tenantID, phone)
}

func (s *MemoryStateStore) Get(_ context.Context, tenantID int, phone string) (*entities.ConversationState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.states[stateKey(tenantID, phone)]
	if !ok {
		return nil, nil
	}
	copied := *state
	return &copied, nil
}

func (s *MemoryStateStore) Put(_ context.Context, state *entities.ConversationState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *state
	s.states[stateKey(state.TenantID, state.Phone)] = &copied
	return nil
}

func (s *MemoryStateStore) Delete(_ context.Context, tenantID int, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.states, stateKey(tenantID, phone))
	return nil
}

func (s *MemoryStateStore) Close() {
	close(s.stop)
}

func (s *MemoryStateStore) janitor() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-2 * entities.DialogTTL)
			s.mu.Lock()
			for key, state := range s.states {
				if state.LastTouched.Before(cutoff) {
					delete(s.states, key)
				}
			}
			s.mu.Unlock()
		}
	}
}
