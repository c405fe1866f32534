package lock

import (
	"context"
	"errors"
	"fmt"
)

// ErrTimeout is returned when the lock could not be obtained before the
// context was done.
var ErrTimeout = errors.New("timed out waiting for lock")

// Locker is a single mutual-exclusion lock. Lock blocks until the lock is held
// or ctx is done. The returned unlock func must be called exactly once.
type Locker interface {
	Lock(ctx context.Context) (unlock func(), err error)
}

// waitErr converts a context failure into ErrTimeout while keeping the cause.
func waitErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: %w", ErrTimeout, ctxErr)
	}
	return err
}

type localLocker struct {
	ch chan struct{}
}

// NewLocal returns an in-process Locker. It only serializes callers that share
// the same instance, so it is suitable for a single server process.
func NewLocal() Locker {
	return &localLocker{ch: make(chan struct{}, 1)}
}

func (l *localLocker) Lock(ctx context.Context) (func(), error) {
	select {
	case l.ch <- struct{}{}:
		return func() { <-l.ch }, nil
	case <-ctx.Done():
		return nil, waitErr(ctx, ctx.Err())
	}
}
