package lock

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres implements ClusterLock over session-scoped advisory locks.
// Each lease pins one pooled connection for its lifetime; the lock dies
// with the session, so a crashed holder frees it without cleanup.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) TryAcquire(ctx context.Context, name string) (Lease, error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	key := lockKey(name)
	var got bool
	if err := conn.QueryRow(ctx, `SELECT pg_try_advisory_lock($1)`, key).Scan(&got); err != nil {
		conn.Release()
		return nil, fmt.Errorf("try advisory lock %q: %w", name, err)
	}
	if !got {
		conn.Release()
		return nil, nil
	}

	return &postgresLease{conn: conn, key: key}, nil
}

type postgresLease struct {
	conn *pgxpool.Conn
	key  int64
	once sync.Once
}

func (l *postgresLease) Release(ctx context.Context) error {
	var err error
	l.once.Do(func() {
		// The caller's context may already be cancelled; the unlock
		// must still run or the session keeps the lock.
		unlockCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		defer l.conn.Release()

		var released bool
		if scanErr := l.conn.QueryRow(unlockCtx, `SELECT pg_advisory_unlock($1)`, l.key).Scan(&released); scanErr != nil {
			// A session whose unlock failed still holds the lock; close
			// the underlying connection so the pool cannot hand it out.
			_ = l.conn.Conn().Close(unlockCtx)
			err = fmt.Errorf("advisory unlock: %w", scanErr)
			return
		}
		if !released {
			err = fmt.Errorf("advisory lock %d was not held", l.key)
		}
	})
	return err
}

// lockKey maps a lock name to the bigint keyspace advisory locks use.
func lockKey(name string) int64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	return int64(h.Sum64())
}

var _ ClusterLock = (*Postgres)(nil)
