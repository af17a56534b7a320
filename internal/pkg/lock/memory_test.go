package lock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLock_Exclusive(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	lease, err := m.TryAcquire(ctx, "payroll")
	require.NoError(t, err)
	require.NotNil(t, lease)

	second, err := m.TryAcquire(ctx, "payroll")
	require.NoError(t, err)
	assert.Nil(t, second, "second acquire should report busy")

	// Unrelated names are independent.
	other, err := m.TryAcquire(ctx, "reports")
	require.NoError(t, err)
	require.NotNil(t, other)
	require.NoError(t, other.Release(ctx))

	require.NoError(t, lease.Release(ctx))

	third, err := m.TryAcquire(ctx, "payroll")
	require.NoError(t, err)
	assert.NotNil(t, third, "lock should be reacquirable after release")
	require.NoError(t, third.Release(ctx))
}

func TestMemoryLock_ReleaseIdempotent(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	lease, err := m.TryAcquire(ctx, "payroll")
	require.NoError(t, err)

	require.NoError(t, lease.Release(ctx))
	require.NoError(t, lease.Release(ctx))

	again, err := m.TryAcquire(ctx, "payroll")
	require.NoError(t, err)
	assert.NotNil(t, again)
}
