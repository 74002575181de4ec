package service

import (
	"context"
	"time"

	"github.com/Skotchmaster/kiosk/services/kiosk/internal/lock"
)

const defaultLockTimeout = 5 * time.Second

// withUserLock runs fn while holding the user's mutation lock. Cart changes
// and checkout share this lock.
func withUserLock(ctx context.Context, l lock.Locker, timeout time.Duration, userID string, fn func() error) error {
	if l == nil {
		return fn()
	}
	if timeout <= 0 {
		timeout = defaultLockTimeout
	}

	lockCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	unlock, err := l.Lock(lockCtx, lock.UserKey(userID))
	if err != nil {
		return err
	}
	defer unlock()

	return fn()
}
