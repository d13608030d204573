package ports

import (
	"context"
	"time"
)

// Lease is a held distributed lock.
type Lease interface {
	// Refresh extends the lease to ttl from now. It fails with an error
	// wrapping domain.ErrWorldLocked once another holder has taken the key.
	Refresh(ctx context.Context, ttl time.Duration) error
	// Unlock releases the lease. Releasing twice, or releasing a lease that
	// was taken over, is not an error and leaves the new holder untouched.
	Unlock(ctx context.Context) error
}

// DistributedLocker defines the interface for run-level concurrency control.
// Export and import hold the lock of their world for the whole chain so two
// invocations never drive the same editing context at once.
type DistributedLocker interface {
	// Lock attempts to acquire a lock for the given key (the world name).
	// It blocks until the lock is acquired, the context is canceled, or the
	// implementation gives up, in which case the error wraps domain.ErrWorldLocked.
	// The returned Lease MUST be unlocked; runs longer than ttl refresh it.
	Lock(ctx context.Context, key string, ttl time.Duration) (Lease, error)
}
