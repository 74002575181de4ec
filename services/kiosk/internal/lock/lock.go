// Package lock provides per-key mutual exclusion for user-scoped mutations.
package lock

import (
	"context"
	"errors"
)

var ErrLockTimeout = errors.New("lock wait timed out")

// Locker serializes work on a key. Lock blocks until the key is free or ctx
// is done; the returned func releases it and is safe to call more than once.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

func UserKey(userID string) string {
	return "user:" + userID
}

func waitErr(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrLockTimeout
	}
	return ctx.Err()
}
