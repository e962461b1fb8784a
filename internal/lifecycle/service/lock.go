package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	dErrors "wasl/pkg/domain-errors"
	"wasl/pkg/platform/circuit"
	"wasl/pkg/platform/sentinel"
)

// LocalLocker is an in-process keyed mutex. Waiters give up when their
// context ends.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	sem  chan struct{}
	refs int
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[string]*keyLock)}
}

func (l *LocalLocker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	kl, ok := l.locks[key]
	if !ok {
		kl = &keyLock{sem: make(chan struct{}, 1)}
		l.locks[key] = kl
	}
	kl.refs++
	l.mu.Unlock()

	select {
	case kl.sem <- struct{}{}:
	case <-ctx.Done():
		l.release(key, kl)
		return nil, dErrors.Wrap(ctx.Err(), dErrors.CodeTimeout, "timed out waiting for candidate lock")
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-kl.sem
			l.release(key, kl)
		})
	}, nil
}

func (l *LocalLocker) release(key string, kl *keyLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	kl.refs--
	if kl.refs == 0 {
		delete(l.locks, key)
	}
}

// unlockScript deletes the key only if we still own it.
var unlockScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

const (
	defaultLockTTL   = 10 * time.Second
	defaultLockWait  = 5 * time.Second
	defaultLockRetry = 25 * time.Millisecond
	lockKeyPrefix    = "wasl:lock:"
)

// RedisLocker holds candidate locks in Redis so several server processes
// serialise on the same candidate. When Redis keeps failing the breaker
// opens and locks fall back to the in-process locker.
type RedisLocker struct {
	client   goredis.UniversalClient
	ttl      time.Duration
	wait     time.Duration
	retry    time.Duration
	fallback *LocalLocker
	breaker  *circuit.Breaker
	logger   *slog.Logger
}

type RedisLockerOption func(*RedisLocker)

func WithLockTTL(d time.Duration) RedisLockerOption {
	return func(l *RedisLocker) {
		if d > 0 {
			l.ttl = d
		}
	}
}

func WithLockWait(d time.Duration) RedisLockerOption {
	return func(l *RedisLocker) {
		if d > 0 {
			l.wait = d
		}
	}
}

func WithLockLogger(logger *slog.Logger) RedisLockerOption {
	return func(l *RedisLocker) { l.logger = logger }
}

func NewRedisLocker(client goredis.UniversalClient, opts ...RedisLockerOption) *RedisLocker {
	l := &RedisLocker{
		client:   client,
		ttl:      defaultLockTTL,
		wait:     defaultLockWait,
		retry:    defaultLockRetry,
		fallback: NewLocalLocker(),
		breaker:  circuit.New("redis-lock"),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	token, err := newLockToken()
	if err != nil {
		return nil, err
	}
	redisKey := lockKeyPrefix + key

	waitCtx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	for {
		ok, err := l.client.SetNX(waitCtx, redisKey, token, l.ttl).Result()
		if err != nil && waitCtx.Err() == nil {
			return l.degrade(ctx, key, err)
		}
		if err == nil {
			l.recordSuccess(ctx)
			if ok {
				return l.unlocker(redisKey, token), nil
			}
		}

		select {
		case <-waitCtx.Done():
			if ctx.Err() != nil {
				return nil, dErrors.Wrap(ctx.Err(), dErrors.CodeTimeout, "timed out waiting for candidate lock")
			}
			return nil, dErrors.Wrap(sentinel.ErrLockHeld, dErrors.CodeConflict, "candidate is being updated by another request")
		case <-time.After(l.retry):
		}
	}
}

func (l *RedisLocker) unlocker(redisKey, token string) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := unlockScript.Run(ctx, l.client, []string{redisKey}, token).Err(); err != nil {
				// The TTL frees the key if this delete never lands.
				l.logger.Warn("failed to release candidate lock", "key", redisKey, "error", err)
			}
		})
	}
}

func (l *RedisLocker) degrade(ctx context.Context, key string, cause error) (func(), error) {
	_, change := l.breaker.RecordFailure()
	if change.Opened {
		l.logger.ErrorContext(ctx, "redis lock circuit opened, using in-process locks", "error", cause)
	} else {
		l.logger.WarnContext(ctx, "redis lock failed, using in-process lock", "key", key, "error", cause)
	}
	return l.fallback.Lock(ctx, key)
}

func (l *RedisLocker) recordSuccess(ctx context.Context) {
	if _, change := l.breaker.RecordSuccess(); change.Closed {
		l.logger.InfoContext(ctx, "redis lock circuit closed")
	}
}

func newLockToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
