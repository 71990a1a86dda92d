package session

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/smartquiz/smartquiz-backend/internal/model"
)

// MemoryStore is an in-memory Store used in tests and single-node dev runs.
// It never expires entries.
type MemoryStore struct {
	mu       sync.RWMutex
	attempts map[Key]*model.Attempt
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{attempts: make(map[Key]*model.Attempt)}
}

func (s *MemoryStore) Get(_ context.Context, key Key) (*model.Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	attempt, ok := s.attempts[key]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *attempt
	return &cp, nil
}

func (s *MemoryStore) Put(_ context.Context, key Key, attempt *model.Attempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *attempt
	s.attempts[key] = &cp
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, key Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.attempts, key)
	return nil
}

func (s *MemoryStore) ListByQuiz(_ context.Context, quizID uuid.UUID) ([]*model.Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var attempts []*model.Attempt
	for key, attempt := range s.attempts {
		if key.QuizID == quizID {
			cp := *attempt
			attempts = append(attempts, &cp)
		}
	}
	return attempts, nil
}
