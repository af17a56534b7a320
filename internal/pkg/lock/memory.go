package lock

import (
	"context"
	"sync"
)

// Memory is a process-local ClusterLock, good enough for single-node
// deployments and for tests.
type Memory struct {
	mu   sync.Mutex
	held map[string]bool
}

func NewMemory() *Memory {
	return &Memory{held: make(map[string]bool)}
}

func (m *Memory) TryAcquire(ctx context.Context, name string) (Lease, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held[name] {
		return nil, nil
	}
	m.held[name] = true
	return &memoryLease{owner: m, name: name}, nil
}

type memoryLease struct {
	owner *Memory
	name  string
	once  sync.Once
}

func (l *memoryLease) Release(ctx context.Context) error {
	l.once.Do(func() {
		l.owner.mu.Lock()
		delete(l.owner.held, l.name)
		l.owner.mu.Unlock()
	})
	return nil
}
