package bookings

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ShowLocks serializes booking transactions per show. Two concurrent
// BookSeats calls for the same show never interleave their
// conflict-check-then-write steps; calls for different shows proceed
// concurrently. Waiters are bounded: past the timeout the acquire fails with
// ErrBookingTimeout instead of hanging.
type ShowLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*showLock
}

type showLock struct {
	// ch has capacity 1; holding the token means holding the lock.
	ch   chan struct{}
	refs int
}

func NewShowLocks() *ShowLocks {
	return &ShowLocks{
		locks: make(map[uuid.UUID]*showLock),
	}
}

// Acquire takes the lock for showID, waiting at most timeout. On success it
// returns a release function that must be called exactly once. Abandoning
// the wait (timeout or context cancellation) has no side effects.
func (sl *ShowLocks) Acquire(ctx context.Context, showID uuid.UUID, timeout time.Duration) (func(), error) {
	sl.mu.Lock()
	lock, ok := sl.locks[showID]
	if !ok {
		lock = &showLock{ch: make(chan struct{}, 1)}
		sl.locks[showID] = lock
	}
	lock.refs++
	sl.mu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case lock.ch <- struct{}{}:
		return func() {
			<-lock.ch
			sl.release(showID, lock)
		}, nil
	case <-timer.C:
		sl.release(showID, lock)
		return nil, ErrBookingTimeout
	case <-ctx.Done():
		sl.release(showID, lock)
		return nil, ctx.Err()
	}
}

// release drops one reference and evicts the entry once nobody holds or
// waits on it, so the map does not grow with every show ever booked.
func (sl *ShowLocks) release(showID uuid.UUID, lock *showLock) {
	sl.mu.Lock()
	defer sl.mu.Unlock()

	lock.refs--
	if lock.refs == 0 {
		delete(sl.locks, showID)
	}
}
