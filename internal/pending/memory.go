package pending

import (
	"context"
	"sync"
	"time"
)

// DefaultSweepInterval is how often MemoryStore evicts stale registrations.
const DefaultSweepInterval = 10 * time.Minute

type record struct {
	reg       Registration
	expiresAt time.Time
}

// MemoryStore is an in-process Store whose janitor evicts registrations older than the TTL.
type MemoryStore struct {
	mu   sync.Mutex
	m    map[string]record
	ttl  time.Duration
	nowF func() time.Time

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock overrides the time source.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) { s.nowF = now }
}

// NewMemoryStore returns a MemoryStore. Close stops its janitor.
func NewMemoryStore(ttl, sweep time.Duration, opts ...MemoryOption) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if sweep <= 0 {
		sweep = DefaultSweepInterval
	}
	s := &MemoryStore{
		m:    make(map[string]record),
		ttl:  ttl,
		nowF: time.Now,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	go s.janitor(sweep)
	return s
}

// live returns the record for email, dropping it if stale. Caller holds mu.
func (s *MemoryStore) live(email string) (record, bool) {
	r, ok := s.m[email]
	if !ok {
		return record{}, false
	}
	if s.nowF().After(r.expiresAt) {
		delete(s.m, email)
		return record{}, false
	}
	return r, true
}

func (s *MemoryStore) Begin(ctx context.Context, reg Registration, replace bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.live(reg.Email); ok && !replace {
		return ErrAlreadyStarted
	}
	now := s.nowF()
	if reg.CreatedAt.IsZero() {
		reg.CreatedAt = now
	}
	s.m[reg.Email] = record{reg: reg, expiresAt: now.Add(s.ttl)}
	return nil
}

func (s *MemoryStore) BindPhone(ctx context.Context, email, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.live(email)
	if !ok {
		return ErrNotStarted
	}
	r.reg.Phone = phone
	s.m[email] = r
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, email string) (*Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.live(email)
	if !ok {
		return nil, ErrNotFound
	}
	reg := r.reg
	return &reg, nil
}

func (s *MemoryStore) Take(ctx context.Context, email string) (*Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.live(email)
	if !ok {
		return nil, ErrNotFound
	}
	delete(s.m, email)
	reg := r.reg
	return &reg, nil
}

// Restore re-inserts reg with a fresh TTL unless a newer registration took its place.
func (s *MemoryStore) Restore(ctx context.Context, reg Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.live(reg.Email); ok {
		return nil
	}
	s.m[reg.Email] = record{reg: reg, expiresAt: s.nowF().Add(s.ttl)}
	return nil
}

// Len returns the number of stored registrations.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}

// Sweep removes stale registrations and returns how many were removed.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.nowF()
	n := 0
	for email, r := range s.m {
		if now.After(r.expiresAt) {
			delete(s.m, email)
			n++
		}
	}
	return n
}

func (s *MemoryStore) janitor(every time.Duration) {
	defer close(s.done)
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			s.Sweep()
		case <-s.stop:
			return
		}
	}
}

// Close stops the janitor.
func (s *MemoryStore) Close() error {
	s.closeOnce.Do(func() { close(s.stop) })
	<-s.done
	return nil
}
