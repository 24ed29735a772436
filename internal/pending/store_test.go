package pending

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// storeContract runs the behaviour every Store must share.
func storeContract(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()
	jane := Registration{Name: "Jane", Email: "jane@x.com", PasswordHash: "hash-1"}

	t.Run("begin then get", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Begin(ctx, jane, false))
		got, err := s.Get(ctx, "jane@x.com")
		require.NoError(t, err)
		assert.Equal(t, "Jane", got.Name)
		assert.Equal(t, "hash-1", got.PasswordHash)
		assert.Empty(t, got.Phone)
		assert.False(t, got.CreatedAt.IsZero())
	})

	t.Run("begin policy", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Begin(ctx, jane, false))
		again := jane
		again.PasswordHash = "hash-2"
		assert.ErrorIs(t, s.Begin(ctx, again, false), ErrAlreadyStarted)

		require.NoError(t, s.Begin(ctx, again, true))
		got, err := s.Get(ctx, "jane@x.com")
		require.NoError(t, err)
		assert.Equal(t, "hash-2", got.PasswordHash)
	})

	t.Run("bind phone", func(t *testing.T) {
		s := newStore(t)
		assert.ErrorIs(t, s.BindPhone(ctx, "jane@x.com", "+15551234567"), ErrNotStarted)
		require.NoError(t, s.Begin(ctx, jane, false))
		require.NoError(t, s.BindPhone(ctx, "jane@x.com", "+15551234567"))
		got, err := s.Get(ctx, "jane@x.com")
		require.NoError(t, err)
		assert.Equal(t, "+15551234567", got.Phone)
	})

	t.Run("take is destructive", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Begin(ctx, jane, false))
		got, err := s.Take(ctx, "jane@x.com")
		require.NoError(t, err)
		assert.Equal(t, "jane@x.com", got.Email)

		_, err = s.Take(ctx, "jane@x.com")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = s.Get(ctx, "jane@x.com")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("restore", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Begin(ctx, jane, false))
		require.NoError(t, s.BindPhone(ctx, "jane@x.com", "+15551234567"))
		taken, err := s.Take(ctx, "jane@x.com")
		require.NoError(t, err)
		require.NoError(t, s.Restore(ctx, *taken))
		got, err := s.Get(ctx, "jane@x.com")
		require.NoError(t, err)
		assert.Equal(t, "+15551234567", got.Phone)
	})

	t.Run("concurrent take has one winner", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Begin(ctx, jane, false))
		var wins atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := s.Take(ctx, "jane@x.com"); err == nil {
					wins.Add(1)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), wins.Load())
	})
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, func(t *testing.T) Store {
		s := NewMemoryStore(time.Hour, time.Hour)
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestRedisStore(t *testing.T) {
	storeContract(t, func(t *testing.T) Store {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = client.Close() })
		return NewRedisStore(client, time.Hour)
	})
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	s := NewMemoryStore(time.Hour, time.Hour, WithClock(clock))
	defer s.Close()

	require.NoError(t, s.Begin(ctx, Registration{Email: "a@x.com"}, false))
	require.NoError(t, s.Begin(ctx, Registration{Email: "b@x.com"}, false))

	mu.Lock()
	now = now.Add(2 * time.Hour)
	mu.Unlock()

	_, err := s.Get(ctx, "a@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, s.Sweep())
	assert.Equal(t, 0, s.Len())
	assert.NoError(t, s.Begin(ctx, Registration{Email: "a@x.com"}, false), "stale record does not block a new begin")
}

func TestRedisStore_TTL(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	s := NewRedisStore(client, time.Hour)

	require.NoError(t, s.Begin(ctx, Registration{Name: "Jane", Email: "jane@x.com"}, false))
	assert.Equal(t, time.Hour, mr.TTL("pending:jane@x.com"))
	assert.Equal(t, "Jane", mr.HGet("pending:jane@x.com", "name"))

	mr.FastForward(time.Hour + time.Second)
	_, err := s.Get(ctx, "jane@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
}
