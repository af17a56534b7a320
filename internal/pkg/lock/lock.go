// Package lock provides the named, cluster-wide mutual-exclusion
// primitive used to keep scheduled jobs single-flight across any number
// of running instances.
package lock

import "context"

// Lease is a held lock; Release must be safe to call exactly once and
// must run on every exit path of the protected section.
type Lease interface {
	Release(ctx context.Context) error
}

// ClusterLock hands out leases by name. TryAcquire never blocks: a nil
// Lease with a nil error means the lock is held elsewhere.
type ClusterLock interface {
	TryAcquire(ctx context.Context, name string) (Lease, error)
}
