package adapter

import "context"

// PatternLocker serializes read-modify-write sequences on one pattern
// identity. The batch merge step and the live matcher both update the same
// (merchant, amount) rows; running fn under the identity's lock prevents the
// lost-update race between them.
type PatternLocker interface {
	// WithLock runs fn while holding the lock for key. It blocks until the
	// lock is acquired or ctx is done.
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}
