package otp

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "otp:"

// verifyScript deletes the challenge only when the stored hash matches.
// Returns -1 when absent, 0 on mismatch, 1 when consumed.
var verifyScript = redis.NewScript(`
local v = redis.call('GET', KEYS[1])
if not v then
  return -1
end
if v ~= ARGV[1] then
  return 0
end
redis.call('DEL', KEYS[1])
return 1
`)

// RedisStore keeps challenge hashes in Redis with a PX expiry, so abandoned challenges are evicted by Redis.
type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
	nowF   func() time.Time
}

// NewRedisStore returns a RedisStore using client.
func NewRedisStore(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl, nowF: time.Now}
}

func redisKey(phone string) string { return redisKeyPrefix + phone }

// Issue stores a new challenge with SET NX so only one live challenge exists per phone.
func (s *RedisStore) Issue(ctx context.Context, phone string) (*Challenge, error) {
	code, err := Generate()
	if err != nil {
		return nil, err
	}
	now := s.nowF()
	ok, err := s.client.SetNX(ctx, redisKey(phone), HashOTP(code), s.ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAlreadyPending
	}
	return &Challenge{Phone: phone, Code: code, ExpiresAt: now.Add(s.ttl)}, nil
}

// Verify atomically compares and deletes the challenge for phone.
func (s *RedisStore) Verify(ctx context.Context, phone, code string) error {
	code, ok := Canonicalize(code)
	if !ok {
		return ErrInvalidOrExpired
	}
	res, err := verifyScript.Run(ctx, s.client, []string{redisKey(phone)}, HashOTP(code)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrInvalidOrExpired
		}
		return err
	}
	if res != 1 {
		return ErrInvalidOrExpired
	}
	return nil
}
