package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	domainerrors "electorate/contexts/election-core/election-engine/domain/errors"
)

func TestKeyedLocksEvictsIdleEntries(t *testing.T) {
	locks := NewKeyedLocks(time.Second)

	for i := 0; i < 20; i++ {
		release, err := locks.Acquire(context.Background(), fmt.Sprintf("election-%d", i))
		if err != nil {
			t.Fatalf("acquire failed: %v", err)
		}
		release()
	}
	if got := locks.size(); got != 0 {
		t.Fatalf("expected empty registry after releases, got %d entries", got)
	}

	release, err := locks.Acquire(context.Background(), "held")
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	if got := locks.size(); got != 1 {
		t.Fatalf("expected one entry while held, got %d", got)
	}
	release()
	if got := locks.size(); got != 0 {
		t.Fatalf("expected entry to be dropped on release, got %d", got)
	}
}

func TestKeyedLocksTimeoutDoesNotLeakEntries(t *testing.T) {
	locks := NewKeyedLocks(50 * time.Millisecond)

	release, err := locks.Acquire(context.Background(), "contended")
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	if _, err := locks.Acquire(context.Background(), "contended"); !errors.Is(err, domainerrors.ErrElectionBusy) {
		t.Fatalf("expected ErrElectionBusy on timeout, got %v", err)
	}
	// The failed waiter must not pin the entry beyond the holder.
	if got := locks.size(); got != 1 {
		t.Fatalf("expected only the holder's entry, got %d", got)
	}
	release()
	if got := locks.size(); got != 0 {
		t.Fatalf("expected empty registry after release, got %d", got)
	}
}

func TestKeyedLocksChurnLeavesNothingBehind(t *testing.T) {
	locks := NewKeyedLocks(time.Second)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				key := fmt.Sprintf("election-%d", i%5)
				release, err := locks.Acquire(context.Background(), key)
				if err != nil {
					t.Errorf("acquire %s failed: %v", key, err)
					return
				}
				release()
			}
		}()
	}
	wg.Wait()
	if got := locks.size(); got != 0 {
		t.Fatalf("expected empty registry after churn, got %d entries", got)
	}
}
