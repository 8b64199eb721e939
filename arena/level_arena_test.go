package arena

import (
	"testing"

	"obmatch/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelArenaAllocSetsPrice(t *testing.T) {
	a := NewLevelArena(4)
	ix, level, ok := a.Alloc(50000)
	require.True(t, ok)
	assert.Equal(t, int64(50000), level.Price)
	assert.Equal(t, domain.NoOrder, level.Head)
	assert.Equal(t, domain.NoOrder, level.Tail)
	assert.Equal(t, 1, a.Live())
	_ = ix
}

func TestLevelArenaExhaustion(t *testing.T) {
	a := NewLevelArena(1)
	_, _, ok := a.Alloc(1)
	require.True(t, ok)

	_, _, ok = a.Alloc(2)
	assert.False(t, ok)
}

func TestLevelArenaFreeRecycles(t *testing.T) {
	a := NewLevelArena(1)
	ix, _, ok := a.Alloc(1)
	require.True(t, ok)

	a.Free(ix)
	assert.Equal(t, 0, a.Live())

	ix2, level, ok := a.Alloc(2)
	require.True(t, ok)
	assert.Equal(t, ix, ix2)
	assert.Equal(t, int64(2), level.Price)
}
