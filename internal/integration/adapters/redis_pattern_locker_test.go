package adapters

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestLocker(t *testing.T) (*RedisPatternLocker, *miniredis.Miniredis) {
	t.Helper()

	server, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(server.Close)

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisPatternLocker(client), server
}

func TestRedisPatternLocker(t *testing.T) {
	t.Run("runs the critical section and releases the lock", func(t *testing.T) {
		locker, server := newTestLocker(t)

		ran := false
		err := locker.WithLock(context.Background(), "recurring:lock:netflix:-15.99", func(context.Context) error {
			ran = true
			if !server.Exists("recurring:lock:netflix:-15.99") {
				t.Errorf("expected lock key to exist inside the critical section")
			}
			return nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ran {
			t.Fatalf("critical section did not run")
		}
		if server.Exists("recurring:lock:netflix:-15.99") {
			t.Errorf("expected lock key released")
		}
	})

	t.Run("releases the lock when the critical section fails", func(t *testing.T) {
		locker, server := newTestLocker(t)
		sentinel := errors.New("boom")

		err := locker.WithLock(context.Background(), "recurring:lock:gym:-40.00", func(context.Context) error {
			return sentinel
		})
		if !errors.Is(err, sentinel) {
			t.Fatalf("expected sentinel error, got %v", err)
		}
		if server.Exists("recurring:lock:gym:-40.00") {
			t.Errorf("expected lock key released after failure")
		}
	})

	t.Run("serializes concurrent callers on the same key", func(t *testing.T) {
		locker, _ := newTestLocker(t)

		var mu sync.Mutex
		inCritical := 0
		maxInCritical := 0

		var wg sync.WaitGroup
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := locker.WithLock(context.Background(), "recurring:lock:spotify:-9.99", func(context.Context) error {
					mu.Lock()
					inCritical++
					if inCritical > maxInCritical {
						maxInCritical = inCritical
					}
					mu.Unlock()

					time.Sleep(5 * time.Millisecond)

					mu.Lock()
					inCritical--
					mu.Unlock()
					return nil
				})
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			}()
		}
		wg.Wait()

		if maxInCritical != 1 {
			t.Errorf("expected at most 1 caller in the critical section, saw %d", maxInCritical)
		}
	})

	t.Run("gives up when the context ends before acquisition", func(t *testing.T) {
		locker, server := newTestLocker(t)
		server.Set("recurring:lock:held:-1.00", "someone-else")

		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		err := locker.WithLock(ctx, "recurring:lock:held:-1.00", func(context.Context) error {
			t.Errorf("critical section ran despite a held lock")
			return nil
		})
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("expected context.DeadlineExceeded, got %v", err)
		}
	})

	t.Run("does not release a lock it lost to expiry", func(t *testing.T) {
		locker, server := newTestLocker(t)

		err := locker.WithLock(context.Background(), "recurring:lock:slow:-2.00", func(context.Context) error {
			// Simulate the TTL firing mid-section and another process
			// taking the lock over.
			server.Set("recurring:lock:slow:-2.00", "new-owner")
			return nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		value, getErr := server.Get("recurring:lock:slow:-2.00")
		if getErr != nil {
			t.Fatalf("expected the new owner's lock to survive: %v", getErr)
		}
		if value != "new-owner" {
			t.Errorf("expected new-owner to keep the lock, got %q", value)
		}
	})
}
