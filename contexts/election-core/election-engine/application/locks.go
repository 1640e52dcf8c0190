package application

import (
	"context"
	"sync"
	"time"

	domainerrors "electorate/contexts/election-core/election-engine/domain/errors"

	"golang.org/x/sync/semaphore"
)

// KeyedLocks serializes commands per election key. Each key gets its own
// weighted semaphore so voting on one election never blocks voting on
// another. Acquisition waits at most the configured timeout and then fails
// with a definite outcome instead of spinning. Entries are reference-counted
// and dropped once the last holder or waiter is gone, so deleted elections
// and invented keys do not accumulate in the registry.
type KeyedLocks struct {
	mu      sync.Mutex
	locks   map[string]*keyedLock
	timeout time.Duration
}

type keyedLock struct {
	sem  *semaphore.Weighted
	refs int
}

func NewKeyedLocks(timeout time.Duration) *KeyedLocks {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &KeyedLocks{
		locks:   make(map[string]*keyedLock),
		timeout: timeout,
	}
}

// Acquire takes the exclusive region for key and returns its release
// function. Returns ErrElectionBusy when the region stays contended past the
// bounded wait.
func (l *KeyedLocks) Acquire(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	entry, ok := l.locks[key]
	if !ok {
		entry = &keyedLock{sem: semaphore.NewWeighted(1)}
		l.locks[key] = entry
	}
	entry.refs++
	l.mu.Unlock()

	waitCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	if err := entry.sem.Acquire(waitCtx, 1); err != nil {
		l.drop(key, entry)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, domainerrors.ErrElectionBusy
	}
	return func() {
		entry.sem.Release(1)
		l.drop(key, entry)
	}, nil
}

// drop decrements the entry and evicts it once no holder or waiter remains.
// The identity check guards against a concurrent evict-and-recreate of the
// same key.
func (l *KeyedLocks) drop(key string, entry *keyedLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry.refs--
	if entry.refs == 0 && l.locks[key] == entry {
		delete(l.locks, key)
	}
}

func (l *KeyedLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
