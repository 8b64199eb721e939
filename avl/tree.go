// Package avl implements the engine's self-balancing price-level tree
// (spec §4.3): an AVL tree keyed by int64 price, operating over a
// *arena.LevelArena instead of pointers. Every node is a domain.PriceLevel
// slot; Left/Right/Height live on the slot itself, so the tree never
// allocates beyond what the arena already owns.
package avl

import (
	"obmatch/arena"
	"obmatch/domain"
)

// Tree is a plain ascending BST over price: Min() is the lowest price,
// Max() the highest. Callers pick whichever matches their side — the
// resting-buy tree calls Max() for the best bid, resting-sell calls Min()
// for the best ask, and the stop trees scan from Max()/Min() downward or
// upward during the trigger pass.
type Tree struct {
	levels *arena.LevelArena
	root   domain.LevelIx
}

// New returns an empty tree backed by the given level arena. Multiple
// trees (resting-buy, resting-sell, stop-buy, stop-sell) share one arena.
func New(levels *arena.LevelArena) *Tree {
	return &Tree{levels: levels, root: domain.NoLevel}
}

// Empty reports whether the tree holds no price levels.
func (t *Tree) Empty() bool {
	return t.root == domain.NoLevel
}

func (t *Tree) height(ix domain.LevelIx) int32 {
	if ix == domain.NoLevel {
		return 0
	}
	return t.levels.At(ix).Height
}

func (t *Tree) updateHeight(level *domain.PriceLevel) {
	lh, rh := t.height(level.Left), t.height(level.Right)
	if lh > rh {
		level.Height = 1 + lh
	} else {
		level.Height = 1 + rh
	}
}

func (t *Tree) balanceFactor(level *domain.PriceLevel) int32 {
	return t.height(level.Left) - t.height(level.Right)
}

// rotateRight pivots y's left child up; y becomes x's right child.
func (t *Tree) rotateRight(yIx domain.LevelIx, y *domain.PriceLevel) domain.LevelIx {
	xIx := y.Left
	x := t.levels.At(xIx)
	y.Left = x.Right
	x.Right = yIx
	t.updateHeight(y)
	t.updateHeight(x)
	return xIx
}

// rotateLeft pivots x's right child up; x becomes y's left child.
func (t *Tree) rotateLeft(xIx domain.LevelIx, x *domain.PriceLevel) domain.LevelIx {
	yIx := x.Right
	y := t.levels.At(yIx)
	x.Right = y.Left
	y.Left = xIx
	t.updateHeight(x)
	t.updateHeight(y)
	return yIx
}

// rebalance recomputes n's height and applies the single or double
// rotation its balance factor calls for, returning the (possibly new)
// subtree root. Must be called on every node along a mutated path.
func (t *Tree) rebalance(ix domain.LevelIx, n *domain.PriceLevel) domain.LevelIx {
	t.updateHeight(n)
	balance := t.balanceFactor(n)

	if balance > 1 {
		left := t.levels.At(n.Left)
		if t.balanceFactor(left) < 0 {
			n.Left = t.rotateLeft(n.Left, left) // left-right case
		}
		return t.rotateRight(ix, n)
	}
	if balance < -1 {
		right := t.levels.At(n.Right)
		if t.balanceFactor(right) > 0 {
			n.Right = t.rotateRight(n.Right, right) // right-left case
		}
		return t.rotateLeft(ix, n)
	}
	return ix
}

// InsertOrFind returns the level at price, creating and linking a new one
// via the arena if absent. Returns ok=false only when the arena is
// exhausted, in which case the tree is left unmodified.
func (t *Tree) InsertOrFind(price int64) (domain.LevelIx, *domain.PriceLevel, bool) {
	newRoot, target, ok := t.insert(t.root, price)
	if !ok {
		return domain.NoLevel, nil, false
	}
	t.root = newRoot
	return target, t.levels.At(target), true
}

func (t *Tree) insert(ix domain.LevelIx, price int64) (newRoot, target domain.LevelIx, ok bool) {
	if ix == domain.NoLevel {
		newIx, leaf, allocated := t.levels.Alloc(price)
		if !allocated {
			return domain.NoLevel, domain.NoLevel, false
		}
		leaf.Height = 1
		return newIx, newIx, true
	}

	n := t.levels.At(ix)
	switch {
	case price < n.Price:
		var newLeft domain.LevelIx
		newLeft, target, ok = t.insert(n.Left, price)
		if !ok {
			return ix, domain.NoLevel, false
		}
		n.Left = newLeft
	case price > n.Price:
		var newRight domain.LevelIx
		newRight, target, ok = t.insert(n.Right, price)
		if !ok {
			return ix, domain.NoLevel, false
		}
		n.Right = newRight
	default:
		return ix, ix, true
	}
	return t.rebalance(ix, n), target, true
}

// Remove deletes the level at price. The caller is responsible for only
// calling this once the level's FIFO is already empty (spec: "An empty
// price level... must be removed from its tree immediately").
func (t *Tree) Remove(price int64) {
	t.root = t.remove(t.root, price)
}

// remove deletes price from the subtree rooted at ix and returns the new
// subtree root. The two-children case relinks the in-order successor
// node into the victim's structural position instead of copying the
// successor's payload into the victim, so no order's Level index ever
// has to be rewritten. The successor
// is detached from its original spot with detach, which never frees or
// resets its slot, so the relinked node keeps its own Price/Head/Tail;
// only the victim's slot (ix) is ever freed.
func (t *Tree) remove(ix domain.LevelIx, price int64) domain.LevelIx {
	if ix == domain.NoLevel {
		return domain.NoLevel
	}
	n := t.levels.At(ix)

	switch {
	case price < n.Price:
		n.Left = t.remove(n.Left, price)
	case price > n.Price:
		n.Right = t.remove(n.Right, price)
	default:
		if n.Left == domain.NoLevel || n.Right == domain.NoLevel {
			child := n.Left
			if child == domain.NoLevel {
				child = n.Right
			}
			t.levels.Free(ix)
			return child
		}

		succIx := t.min(n.Right)
		succ := t.levels.At(succIx)
		newRight := t.detach(n.Right, succIx)

		succ.Left = n.Left
		succ.Right = newRight
		t.levels.Free(ix)
		return t.rebalance(succIx, succ)
	}
	return t.rebalance(ix, n)
}

// detach removes target from the subtree rooted at ix and returns the new
// subtree root, without freeing or resetting target's slot — the caller
// relinks that slot elsewhere and reuses its Price/Head/Tail as-is. target
// is always the leftmost node of ix's subtree (see remove's use via
// t.min), so it never has a left child and detaching it just splices in
// its right child where it hung.
func (t *Tree) detach(ix, target domain.LevelIx) domain.LevelIx {
	n := t.levels.At(ix)
	if ix == target {
		return n.Right
	}
	n.Left = t.detach(n.Left, target)
	return t.rebalance(ix, n)
}

func (t *Tree) min(ix domain.LevelIx) domain.LevelIx {
	if ix == domain.NoLevel {
		return domain.NoLevel
	}
	n := t.levels.At(ix)
	for n.Left != domain.NoLevel {
		ix = n.Left
		n = t.levels.At(ix)
	}
	return ix
}

func (t *Tree) max(ix domain.LevelIx) domain.LevelIx {
	if ix == domain.NoLevel {
		return domain.NoLevel
	}
	n := t.levels.At(ix)
	for n.Right != domain.NoLevel {
		ix = n.Right
		n = t.levels.At(ix)
	}
	return ix
}

// Min returns the lowest-priced level, or NoLevel if the tree is empty.
func (t *Tree) Min() domain.LevelIx {
	return t.min(t.root)
}

// Max returns the highest-priced level, or NoLevel if the tree is empty.
func (t *Tree) Max() domain.LevelIx {
	return t.max(t.root)
}

// At exposes the underlying level for an index returned by this tree, so
// callers can read Head/Tail/Price without a second lookup.
func (t *Tree) At(ix domain.LevelIx) *domain.PriceLevel {
	return t.levels.At(ix)
}

// Height reports a node's recorded height (1 for a leaf, 0 for NoLevel).
// Exposed for invariant testing (spec §8: "every tree node's recorded
// height equals 1 + max(h(left), h(right))").
func (t *Tree) Height(ix domain.LevelIx) int32 {
	return t.height(ix)
}

// BalanceFactor reports height(left) - height(right) for the node at ix.
// Exposed for invariant testing (spec §8: "balance factor lies in {-1,0,1}").
func (t *Tree) BalanceFactor(ix domain.LevelIx) int32 {
	if ix == domain.NoLevel {
		return 0
	}
	return t.balanceFactor(t.levels.At(ix))
}
