// Package devotp keeps plaintext verification codes by phone so they can be read back in dev OTP mode.
package devotp

import (
	"context"
	"sync"
	"time"
)

// Store holds plain codes by phone for dev-only retrieval. Not used in production.
type Store interface {
	// Put stores code for phone until expiresAt, replacing any previous code.
	Put(ctx context.Context, phone, code string, expiresAt time.Time)
	// Get returns the code for phone if present and not expired.
	Get(ctx context.Context, phone string) (code string, ok bool)
	// Delete drops the code for phone.
	Delete(ctx context.Context, phone string)
}

type entry struct {
	code      string
	expiresAt time.Time
}

// MemoryStore is an in-memory Store implementation.
type MemoryStore struct {
	mu   sync.RWMutex
	m    map[string]entry
	nowF func() time.Time
}

// NewMemoryStore returns a new in-memory dev OTP store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		m:    make(map[string]entry),
		nowF: time.Now,
	}
}

func (s *MemoryStore) Put(ctx context.Context, phone, code string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[phone] = entry{code: code, expiresAt: expiresAt}
}

func (s *MemoryStore) Get(ctx context.Context, phone string) (string, bool) {
	s.mu.RLock()
	e, ok := s.m[phone]
	s.mu.RUnlock()
	if !ok {
		return "", false
	}
	if s.nowF().After(e.expiresAt) {
		s.mu.Lock()
		delete(s.m, phone)
		s.mu.Unlock()
		return "", false
	}
	return e.code, true
}

func (s *MemoryStore) Delete(ctx context.Context, phone string) {
	s.mu.Lock()
	delete(s.m, phone)
	s.mu.Unlock()
}
