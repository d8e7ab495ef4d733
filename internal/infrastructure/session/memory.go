package session

import (
	"context"
	"sync"

	"github.com/smarthomeo/fxclient/internal/core/domain"
)

// MemoryStore keeps the session slot in process memory. Used by tests and by
// runs that should leave nothing on disk.
type MemoryStore struct {
	mu   sync.Mutex
	sess *domain.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(_ context.Context) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess == nil {
		return nil, nil
	}
	copy := *s.sess
	return &copy, nil
}

func (s *MemoryStore) Save(_ context.Context, sess *domain.Session) error {
	if !sess.Complete() {
		return domain.ErrSessionIncomplete
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copy := *sess
	s.sess = &copy
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = nil
	return nil
}
