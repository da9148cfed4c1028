package lock

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultTTL           = 35 * time.Second
	DefaultRetryDelay    = 10 * time.Millisecond
	DefaultMaxRetryDelay = 500 * time.Millisecond
)

// снимаем ключ, только если он всё ещё наш
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker: блокировки между несколькими экземплярами сервиса (SET NX PX).
type RedisLocker struct {
	client        *redis.Client
	ttl           time.Duration
	retryDelay    time.Duration
	maxRetryDelay time.Duration
}

func NewRedisLocker(client *redis.Client, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisLocker{client: client, ttl: ttl, retryDelay: DefaultRetryDelay, maxRetryDelay: DefaultMaxRetryDelay}
}

func (l *RedisLocker) Lock(ctx context.Context, keys ...string) (Unlock, error) {
	keys = normalizeKeys(keys)
	token := uuid.NewString()
	held := make([]string, 0, len(keys))

	for _, k := range keys {
		if err := l.acquire(ctx, k, token); err != nil {
			l.release(held, token)
			return nil, err
		}
		held = append(held, k)
	}

	return func() { l.release(held, token) }, nil
}

func (l *RedisLocker) acquire(ctx context.Context, key, token string) error {
	delay := l.retryDelay
	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return fmt.Errorf("redis setnx %s: %w", key, err)
		}
		if ok {
			return nil
		}

		t := time.NewTimer(jitter(delay))
		select {
		case <-ctx.Done():
			t.Stop()
			return fmt.Errorf("%w: %s: %w", ErrNotAcquired, key, ctx.Err())
		case <-t.C:
		}
		delay = nextDelay(delay, l.maxRetryDelay)
	}
}

// nextDelay удваивает паузу между попытками, но не выше limit.
func nextDelay(d, limit time.Duration) time.Duration {
	if d >= limit/2 {
		return limit
	}
	return d * 2
}

// jitter: случайная пауза в [d/2, d), чтобы конкуренты не просыпались одновременно.
func jitter(d time.Duration) time.Duration {
	if d <= 1 {
		return d
	}
	half := d / 2
	return half + rand.N(d-half)
}

func (l *RedisLocker) release(keys []string, token string) {
	// контекст запроса уже может быть отменён, а ключи снять нужно
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for _, k := range keys {
		_ = releaseScript.Run(ctx, l.client, []string{k}, token).Err()
	}
}
