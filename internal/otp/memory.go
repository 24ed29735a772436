package otp

import (
	"context"
	"sync"
	"time"
)

// DefaultSweepInterval is how often MemoryStore evicts expired challenges.
const DefaultSweepInterval = time.Minute

type entry struct {
	hash      string
	expiresAt time.Time
}

// MemoryStore is an in-process Store. A janitor goroutine evicts expired challenges;
// call Close to stop it.
type MemoryStore struct {
	mu   sync.Mutex
	m    map[string]entry
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

// NewMemoryStore returns a MemoryStore whose challenges live for ttl and whose janitor runs every sweep.
func NewMemoryStore(ttl, sweep time.Duration, opts ...MemoryOption) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if sweep <= 0 {
		sweep = DefaultSweepInterval
	}
	s := &MemoryStore{
		m:    make(map[string]entry),
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

// Issue creates a challenge for phone unless a live one exists.
func (s *MemoryStore) Issue(ctx context.Context, phone string) (*Challenge, error) {
	code, err := Generate()
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.nowF()
	if e, ok := s.m[phone]; ok && !now.After(e.expiresAt) {
		return nil, ErrAlreadyPending
	}
	expiresAt := now.Add(s.ttl)
	s.m[phone] = entry{hash: HashOTP(code), expiresAt: expiresAt}
	return &Challenge{Phone: phone, Code: code, ExpiresAt: expiresAt}, nil
}

// Verify consumes the challenge for phone when code matches and it has not expired.
func (s *MemoryStore) Verify(ctx context.Context, phone, code string) error {
	code, ok := Canonicalize(code)
	if !ok {
		return ErrInvalidOrExpired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.m[phone]
	if !ok {
		return ErrInvalidOrExpired
	}
	if s.nowF().After(e.expiresAt) {
		delete(s.m, phone)
		return ErrInvalidOrExpired
	}
	if !OTPEqual(code, e.hash) {
		return ErrInvalidOrExpired
	}
	delete(s.m, phone)
	return nil
}

// Len returns the number of stored challenges, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}

// Sweep removes expired challenges and returns how many were removed.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.nowF()
	n := 0
	for phone, e := range s.m {
		if now.After(e.expiresAt) {
			delete(s.m, phone)
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

// Close stops the janitor and waits for it to exit.
func (s *MemoryStore) Close() error {
	s.closeOnce.Do(func() { close(s.stop) })
	<-s.done
	return nil
}
