// Package lock provides single-writer guards for operations that must not
// overlap, backed by Redis when available and by a process mutex otherwise.
package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNotAcquired is returned when another holder owns the lock.
var ErrNotAcquired = errors.New("lock is held by another owner")

// Locker hands out exclusive leases on a named key.
type Locker interface {
	// TryAcquire returns a release func on success and ErrNotAcquired when
	// the key is already held. It never waits.
	TryAcquire(ctx context.Context, key string) (release func(context.Context) error, err error)
}

// releaseScript deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type redisLocker struct {
	rdb redis.UniversalClient
	ttl time.Duration
}

// NewRedisLocker returns a Locker built on SET NX PX. The ttl bounds how long
// a crashed holder can block others.
func NewRedisLocker(rdb redis.UniversalClient, ttl time.Duration) Locker {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &redisLocker{rdb: rdb, ttl: ttl}
}

func (l *redisLocker) TryAcquire(ctx context.Context, key string) (func(context.Context) error, error) {
	token := uuid.NewString()

	wasSet, err := l.rdb.SetNX(ctx, lockKey(key), token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock in redis: %w", err)
	}
	if !wasSet {
		return nil, ErrNotAcquired
	}

	return func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, l.rdb, []string{lockKey(key)}, token).Err(); err != nil {
			return fmt.Errorf("failed to release lock in redis: %w", err)
		}
		return nil
	}, nil
}

func lockKey(key string) string {
	return "lock:" + key
}

type localLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewLocalLocker returns a Locker that only guards within this process.
func NewLocalLocker() Locker {
	return &localLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *localLocker) TryAcquire(_ context.Context, key string) (func(context.Context) error, error) {
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	if !m.TryLock() {
		return nil, ErrNotAcquired
	}

	var once sync.Once
	return func(context.Context) error {
		once.Do(m.Unlock)
		return nil
	}, nil
}
