package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/casedesk/caseline/internal/domain"
)

// Memory is an in-memory MessageStore. Reads hand out deep copies so
// aggregation never races with delivery transitions; writes to one message
// are serialized by a per-message lock.
type Memory struct {
	mu      sync.RWMutex
	byID    map[string]*entry
	ordered []*entry
	threads map[string][]*entry
}

type entry struct {
	mu  sync.Mutex
	msg *domain.Message
}

func NewMemory() *Memory {
	return &Memory{
		byID:    make(map[string]*entry),
		threads: make(map[string][]*entry),
	}
}

func (s *Memory) Append(ctx context.Context, msg *domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[msg.ID]; exists {
		return fmt.Errorf("store: duplicate message id %s", msg.ID)
	}
	e := &entry{msg: msg.Clone()}
	s.byID[msg.ID] = e
	s.ordered = append(s.ordered, e)
	s.threads[msg.ThreadID] = append(s.threads[msg.ThreadID], e)
	return nil
}

func (s *Memory) Get(ctx context.Context, id string) (*domain.Message, error) {
	s.mu.RLock()
	e, ok := s.byID[id]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrMessageNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.msg.Clone(), nil
}

func (s *Memory) Thread(ctx context.Context, threadID string) ([]*domain.Message, error) {
	s.mu.RLock()
	entries := append([]*entry(nil), s.threads[threadID]...)
	s.mu.RUnlock()

	return snapshot(entries), nil
}

func (s *Memory) All(ctx context.Context) ([]*domain.Message, error) {
	s.mu.RLock()
	entries := append([]*entry(nil), s.ordered...)
	s.mu.RUnlock()

	return snapshot(entries), nil
}

func (s *Memory) Mutate(ctx context.Context, id string, fn func(*domain.Message) error) error {
	s.mu.RLock()
	e, ok := s.byID[id]
	s.mu.RUnlock()
	if !ok {
		return domain.ErrMessageNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.msg)
}

func snapshot(entries []*entry) []*domain.Message {
	out := make([]*domain.Message, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		out = append(out, e.msg.Clone())
		e.mu.Unlock()
	}
	return out
}
