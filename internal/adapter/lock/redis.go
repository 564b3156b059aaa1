package lock

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"github.com/heartmarshall/catalog-compliance/internal/config"
	"github.com/heartmarshall/catalog-compliance/internal/domain"
)

// Redis is a distributed lock backed by bsm/redislock.
type Redis struct {
	locker    *redislock.Client
	ttl       time.Duration
	retry     time.Duration
	waitLimit time.Duration
	log       *slog.Logger
}

// defaultLockTTL applies when no TTL is configured.
const defaultLockTTL = 10 * time.Second

// NewRedis creates a Redis-backed locker.
func NewRedis(client redis.UniversalClient, cfg config.RedisConfig, logger *slog.Logger) *Redis {
	ttl := cfg.LockTTL
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &Redis{
		locker:    redislock.New(client),
		ttl:       ttl,
		retry:     cfg.LockRetry,
		waitLimit: cfg.LockWaitLimit,
		log:       logger.With("adapter", "redis_lock"),
	}
}

// Acquire blocks until the key is obtained, the wait limit elapses or ctx is
// done. A key that cannot be obtained in time yields domain.ErrConflict.
// The lock's TTL is extended every half TTL until release, so a holder that
// outlives one TTL keeps the key.
func (l *Redis) Acquire(ctx context.Context, key string) (release func(), err error) {
	waitCtx, cancel := context.WithTimeout(ctx, l.waitLimit)
	defer cancel()

	lk, err := l.locker.Obtain(waitCtx, key, l.ttl, &redislock.Options{
		RetryStrategy: redislock.LinearBackoff(l.retry),
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, keyError(key, ctx.Err())
		}
		if errors.Is(err, redislock.ErrNotObtained) || errors.Is(err, context.DeadlineExceeded) {
			return nil, keyError(key, domain.ErrConflict)
		}
		return nil, keyError(key, err)
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go l.keepAlive(lk, key, stop, done)

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			<-done
			l.release(lk, key)
		})
	}, nil
}

// keepAlive refreshes lk until stop is closed or a refresh fails.
func (l *Redis) keepAlive(lk *redislock.Lock, key string, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(l.ttl / 2)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), l.ttl/2)
			err := lk.Refresh(ctx, l.ttl, nil)
			cancel()
			if err != nil {
				l.log.Warn("refresh lock failed",
					slog.String("key", key),
					slog.String("error", err.Error()),
				)
				return
			}
		}
	}
}

// release uses a fresh context so a cancelled caller still frees the key.
func (l *Redis) release(lk *redislock.Lock, key string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := lk.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
		l.log.Warn("release lock failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}
