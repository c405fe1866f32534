package lock

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type pgAdvisoryLocker struct {
	pool *pgxpool.Pool
	key  int64
}

// NewPgAdvisory returns a Locker backed by a Postgres session advisory lock.
// Every server instance pointing at the same database shares the lock.
func NewPgAdvisory(pool *pgxpool.Pool, name string) Locker {
	return &pgAdvisoryLocker{pool: pool, key: advisoryKey(name)}
}

func advisoryKey(name string) int64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	return int64(h.Sum64())
}

func (l *pgAdvisoryLocker) Lock(ctx context.Context) (func(), error) {
	// Session locks belong to a connection, so one is held until unlock.
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return nil, waitErr(ctx, fmt.Errorf("acquire lock connection failed: %w", err))
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", l.key); err != nil {
		// A cancelled wait leaves the connection in an unknown state.
		conn.Conn().Close(context.Background())
		conn.Release()
		return nil, waitErr(ctx, fmt.Errorf("pg_advisory_lock failed: %w", err))
	}

	unlock := func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := conn.Exec(releaseCtx, "SELECT pg_advisory_unlock($1)", l.key); err != nil {
			// Closing the session drops the lock server side.
			conn.Conn().Close(releaseCtx)
		}
		conn.Release()
	}

	return unlock, nil
}
