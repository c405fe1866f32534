package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisPollInterval = 50 * time.Millisecond

// releaseScript deletes the key only if it still carries our token, so an
// expired holder cannot release a lock that has since been taken by another.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type redisLocker struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedis returns a Locker backed by a Redis key. ttl bounds how long a
// crashed holder can keep the lock.
func NewRedis(client *redis.Client, key string, ttl time.Duration) Locker {
	return &redisLocker{client: client, key: "lock:" + key, ttl: ttl}
}

func (l *redisLocker) Lock(ctx context.Context) (func(), error) {
	token := uuid.NewString()

	ticker := time.NewTicker(redisPollInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
		if err != nil {
			return nil, waitErr(ctx, fmt.Errorf("redis SETNX failed: %w", err))
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, waitErr(ctx, ctx.Err())
		case <-ticker.C:
		}
	}

	unlock := func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		// Best effort; the TTL expires the key if this fails.
		_ = releaseScript.Run(releaseCtx, l.client, []string{l.key}, token).Err()
	}

	return unlock, nil
}
