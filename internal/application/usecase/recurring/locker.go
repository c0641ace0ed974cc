package recurring

import (
	"context"
	"sync"

	"github.com/budget-planner/backend/internal/application/adapter"
)

// InMemoryPatternLocker is a simple in-process implementation of
// PatternLocker. It serializes writers inside one process only, which is
// enough when the server runs as a single instance or when Redis is not
// configured.
type InMemoryPatternLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewInMemoryPatternLocker creates a new in-memory pattern locker.
func NewInMemoryPatternLocker() *InMemoryPatternLocker {
	return &InMemoryPatternLocker{
		locks: make(map[string]*sync.Mutex),
	}
}

// WithLock runs fn while holding the mutex for key.
func (l *InMemoryPatternLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	keyLock := l.lockFor(key)
	keyLock.Lock()
	defer keyLock.Unlock()

	return fn(ctx)
}

func (l *InMemoryPatternLocker) lockFor(key string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	keyLock, ok := l.locks[key]
	if !ok {
		keyLock = &sync.Mutex{}
		l.locks[key] = keyLock
	}
	return keyLock
}

var _ adapter.PatternLocker = (*InMemoryPatternLocker)(nil)
