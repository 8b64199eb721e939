package avl

import (
	"math/rand"
	"testing"

	"obmatch/arena"
	"obmatch/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTree(capacity int) *Tree {
	return New(arena.NewLevelArena(capacity))
}

func TestInsertOrFindCreatesAndReuses(t *testing.T) {
	tree := newTestTree(16)

	ix1, level1, ok := tree.InsertOrFind(100)
	require.True(t, ok)
	assert.Equal(t, int64(100), level1.Price)

	ix2, level2, ok := tree.InsertOrFind(100)
	require.True(t, ok)
	assert.Equal(t, ix1, ix2)
	assert.Same(t, level1, level2)
}

func TestMinMaxOrdering(t *testing.T) {
	tree := newTestTree(16)
	prices := []int64{50, 10, 70, 30, 90, 20}
	for _, p := range prices {
		_, _, ok := tree.InsertOrFind(p)
		require.True(t, ok)
	}

	minLevel := tree.At(tree.Min())
	maxLevel := tree.At(tree.Max())
	assert.Equal(t, int64(10), minLevel.Price)
	assert.Equal(t, int64(90), maxLevel.Price)
}

func TestRemoveKeepsBalanceAndOrdering(t *testing.T) {
	tree := newTestTree(64)
	prices := []int64{50, 30, 70, 20, 40, 60, 80, 10, 90, 35, 65}
	for _, p := range prices {
		_, _, ok := tree.InsertOrFind(p)
		require.True(t, ok)
	}

	tree.Remove(50) // remove the root, forcing a successor relink
	tree.Remove(20)
	tree.Remove(90)

	var inorder []int64
	var walk func(ix domain.LevelIx)
	walk = func(ix domain.LevelIx) {
		if ix == domain.NoLevel {
			return
		}
		n := tree.At(ix)
		walk(n.Left)
		inorder = append(inorder, n.Price)
		walk(n.Right)
	}
	walk(tree.root)

	assert.Equal(t, []int64{10, 30, 35, 40, 60, 65, 70, 80}, inorder)
	assertBalanced(t, tree, tree.root)
}

func TestRemoveOnEmptyTreeIsNoop(t *testing.T) {
	tree := newTestTree(4)
	assert.NotPanics(t, func() { tree.Remove(123) })
	assert.True(t, tree.Empty())
}

func TestInsertOrFindReportsExhaustion(t *testing.T) {
	tree := newTestTree(2)
	_, _, ok := tree.InsertOrFind(1)
	require.True(t, ok)
	_, _, ok = tree.InsertOrFind(2)
	require.True(t, ok)

	_, _, ok = tree.InsertOrFind(3)
	assert.False(t, ok, "third distinct price should fail against a 2-slot arena")
}

// TestRandomizedInvariants drives a large randomized insert/remove
// sequence and checks the AVL balance invariant after every mutation —
// every node's recorded height must equal 1 + max(height(left),
// height(right)) and its balance factor must lie in {-1, 0, 1}.
func TestRandomizedInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	tree := newTestTree(4096)
	live := make(map[int64]bool)

	for i := 0; i < 5000; i++ {
		price := int64(rng.Intn(500))
		if live[price] {
			tree.Remove(price)
			delete(live, price)
		} else {
			_, _, ok := tree.InsertOrFind(price)
			require.True(t, ok)
			live[price] = true
		}
		assertBalanced(t, tree, tree.root)
	}
}

func assertBalanced(t *testing.T, tree *Tree, ix domain.LevelIx) int32 {
	t.Helper()
	if ix == domain.NoLevel {
		return 0
	}
	n := tree.At(ix)
	lh := assertBalanced(t, tree, n.Left)
	rh := assertBalanced(t, tree, n.Right)

	height := lh + 1
	if rh > lh {
		height = rh + 1
	}
	require.Equal(t, height, n.Height, "recorded height mismatch at price %d", n.Price)

	balance := lh - rh
	require.True(t, balance >= -1 && balance <= 1, "balance factor %d out of range at price %d", balance, n.Price)

	return height
}
