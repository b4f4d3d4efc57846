package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a previously acquired lock.
type UnlockFunc func(ctx context.Context) error

// Locker provides mutual exclusion per conversation key across replicas.
// A single-process deployment can run without one; the session manager still
// serializes turns locally.
type Locker interface {
	// Lock blocks until the lock for key is held, the context is canceled,
	// or the TTL elapses on a stale holder. The returned UnlockFunc MUST be
	// called to release the lock.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
