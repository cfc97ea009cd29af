package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStore хранит сессии в памяти процесса. Состояние хранится в
// сериализованном виде, поэтому вызывающий код не разделяет срезы с хранилищем.
type MemoryStore struct {
	mu       sync.RWMutex
	ttl      time.Duration
	sessions map[string]memoryEntry
	now      func() time.Time
}

// NewMemoryStore создает хранилище; ttl <= 0 означает хранение без срока
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		sessions: make(map[string]memoryEntry),
		now:      time.Now,
	}
}

func (s *MemoryStore) Load(ctx context.Context, id string) (state State, err error) {
	defer func() { observe("memory", "load", err) }()

	s.mu.RLock()
	entry, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok || s.expired(entry) {
		return State{}, ErrNotFound
	}
	return decode(entry.data)
}

func (s *MemoryStore) Save(ctx context.Context, id string, state State) (err error) {
	defer func() { observe("memory", "save", err) }()

	data, err := encode(state)
	if err != nil {
		return err
	}

	entry := memoryEntry{data: data}
	if s.ttl > 0 {
		entry.expiresAt = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = entry
	s.cleanupLocked()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	observe("memory", "delete", nil)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

// Len количество неистекших сессий
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, entry := range s.sessions {
		if !s.expired(entry) {
			n++
		}
	}
	return n
}

func (s *MemoryStore) expired(entry memoryEntry) bool {
	return !entry.expiresAt.IsZero() && s.now().After(entry.expiresAt)
}

func (s *MemoryStore) cleanupLocked() {
	for id, entry := range s.sessions {
		if s.expired(entry) {
			delete(s.sessions, id)
		}
	}
}
