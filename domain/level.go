package domain

// PriceLevel is a slab-allocated AVL tree node keyed by Price. It owns the
// head/tail of a FIFO of resting orders at that price and the usual
// left/right/height bookkeeping for AVL balancing. Left, Right and NextFree
// are indices into the same LevelArena slab; a level is never reachable
// from a tree once its FIFO (Head) goes empty.
type PriceLevel struct {
	Price int64

	Head, Tail OrderIx

	Left, Right LevelIx
	Height      int32

	NextFree LevelIx
}

// Reset zeroes a slot before it re-enters circulation.
func (l *PriceLevel) Reset() {
	*l = PriceLevel{Head: NoOrder, Tail: NoOrder, Left: NoLevel, Right: NoLevel, NextFree: NoLevel}
}

// Empty reports whether the level's FIFO has no resting orders. An empty
// level must never remain reachable from its owning tree (spec invariant).
func (l *PriceLevel) Empty() bool {
	return l.Head == NoOrder
}
