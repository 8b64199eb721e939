package arena

import (
	"testing"

	"obmatch/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderArenaAllocFreeReuse(t *testing.T) {
	a := NewOrderArena(2)

	ix1, o1, ok := a.Alloc()
	require.True(t, ok)
	o1.ID = 1
	assert.Equal(t, 1, a.Live())

	ix2, o2, ok := a.Alloc()
	require.True(t, ok)
	o2.ID = 2
	assert.Equal(t, 2, a.Live())

	_, _, ok = a.Alloc()
	assert.False(t, ok, "third alloc should exhaust a 2-slot arena")

	a.Free(ix1)
	assert.Equal(t, 1, a.Live())

	ix3, o3, ok := a.Alloc()
	require.True(t, ok)
	assert.Equal(t, ix1, ix3, "freed slot should be reused")
	assert.Equal(t, uint64(0), o3.ID, "reused slot must be zeroed")

	_ = ix2
	_ = o2
}

func TestOrderResetClearsLinks(t *testing.T) {
	a := NewOrderArena(1)
	ix, o, ok := a.Alloc()
	require.True(t, ok)
	o.Prev = 7
	o.Next = 8
	o.Level = 9

	a.Free(ix)
	_, fresh, ok := a.Alloc()
	require.True(t, ok)
	assert.Equal(t, domain.NoOrder, fresh.Prev)
	assert.Equal(t, domain.NoOrder, fresh.Next)
	assert.Equal(t, domain.NoLevel, fresh.Level)
}

func TestOrderArenaCapacity(t *testing.T) {
	a := NewOrderArena(10)
	assert.Equal(t, 10, a.Capacity())
	assert.Equal(t, 0, a.Live())
}
