package pending

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "pending:"

// beginScript writes the registration hash. ARGV[1] is "1" to overwrite, ARGV[2] the TTL in
// milliseconds, the rest field/value pairs. Returns 0 when a record exists and overwrite is off.
var beginScript = redis.NewScript(`
if ARGV[1] == '0' and redis.call('EXISTS', KEYS[1]) == 1 then
  return 0
end
redis.call('DEL', KEYS[1])
redis.call('HSET', KEYS[1], unpack(ARGV, 3))
redis.call('PEXPIRE', KEYS[1], ARGV[2])
return 1
`)

var bindScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
  return 0
end
redis.call('HSET', KEYS[1], 'phone', ARGV[1])
return 1
`)

// RedisStore keeps each registration in a hash pending:<email> that Redis expires after the TTL.
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

func redisKey(email string) string { return redisKeyPrefix + email }

func (s *RedisStore) write(ctx context.Context, reg Registration, replace bool) (bool, error) {
	if reg.CreatedAt.IsZero() {
		reg.CreatedAt = s.nowF()
	}
	flag := "0"
	if replace {
		flag = "1"
	}
	args := []any{
		flag, strconv.FormatInt(s.ttl.Milliseconds(), 10),
		"name", reg.Name,
		"email", reg.Email,
		"password_hash", reg.PasswordHash,
		"phone", reg.Phone,
		"created_at", reg.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	n, err := beginScript.Run(ctx, s.client, []string{redisKey(reg.Email)}, args...).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *RedisStore) Begin(ctx context.Context, reg Registration, replace bool) error {
	ok, err := s.write(ctx, reg, replace)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAlreadyStarted
	}
	return nil
}

func (s *RedisStore) BindPhone(ctx context.Context, email, phone string) error {
	n, err := bindScript.Run(ctx, s.client, []string{redisKey(email)}, phone).Int()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotStarted
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, email string) (*Registration, error) {
	fields, err := s.client.HGetAll(ctx, redisKey(email)).Result()
	if err != nil {
		return nil, err
	}
	return fromHash(fields)
}

// Take reads and deletes the hash in one MULTI/EXEC so concurrent callers cannot both win.
func (s *RedisStore) Take(ctx context.Context, email string) (*Registration, error) {
	var get *redis.MapStringStringCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		get = pipe.HGetAll(ctx, redisKey(email))
		pipe.Del(ctx, redisKey(email))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fromHash(get.Val())
}

// Restore puts reg back unless a newer registration already exists.
func (s *RedisStore) Restore(ctx context.Context, reg Registration) error {
	_, err := s.write(ctx, reg, false)
	return err
}

func fromHash(fields map[string]string) (*Registration, error) {
	if len(fields) == 0 {
		return nil, ErrNotFound
	}
	reg := &Registration{
		Name:         fields["name"],
		Email:        fields["email"],
		PasswordHash: fields["password_hash"],
		Phone:        fields["phone"],
	}
	if ts := fields["created_at"]; ts != "" {
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			reg.CreatedAt = t
		}
	}
	return reg, nil
}
