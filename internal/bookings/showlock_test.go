package bookings

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShowLocksMutualExclusion(t *testing.T) {
	locks := NewShowLocks()
	showID := uuid.New()
	ctx := context.Background()

	var (
		mu      sync.Mutex
		inside  int
		maxSeen int
		wg      sync.WaitGroup
	)

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			release, err := locks.Acquire(ctx, showID, 5*time.Second)
			require.NoError(t, err)
			defer release()

			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen, "critical section must never admit two holders")
}

func TestShowLocksDifferentShowsDoNotBlock(t *testing.T) {
	locks := NewShowLocks()
	ctx := context.Background()

	releaseA, err := locks.Acquire(ctx, uuid.New(), time.Second)
	require.NoError(t, err)
	defer releaseA()

	// A different show must acquire immediately even while A is held.
	releaseB, err := locks.Acquire(ctx, uuid.New(), 10*time.Millisecond)
	require.NoError(t, err)
	releaseB()
}

func TestShowLocksTimeout(t *testing.T) {
	locks := NewShowLocks()
	showID := uuid.New()
	ctx := context.Background()

	release, err := locks.Acquire(ctx, showID, time.Second)
	require.NoError(t, err)
	defer release()

	_, err = locks.Acquire(ctx, showID, 20*time.Millisecond)
	assert.ErrorIs(t, err, ErrBookingTimeout)
}

func TestShowLocksContextCancellation(t *testing.T) {
	locks := NewShowLocks()
	showID := uuid.New()

	release, err := locks.Acquire(context.Background(), showID, time.Second)
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = locks.Acquire(ctx, showID, time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestShowLocksEntryEvictedWhenIdle(t *testing.T) {
	locks := NewShowLocks()
	showID := uuid.New()

	release, err := locks.Acquire(context.Background(), showID, time.Second)
	require.NoError(t, err)
	release()

	locks.mu.Lock()
	defer locks.mu.Unlock()
	assert.Empty(t, locks.locks, "idle lock entries must be evicted")
}
