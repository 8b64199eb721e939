package domain

// Order is a slab-allocated resting or armed-stop order. It carries no
// pointers: Prev/Next link it into its price level's FIFO, Level is the
// back-reference to that level, and NextFree threads it onto the arena's
// free list once returned. NextFree is only meaningful while the slot is
// free — a live order never reads it.
//
// Memory layout: hot fields used on every match (Remaining, LimitPrice,
// Side) sit first; the FIFO/tree plumbing follows.
type Order struct {
	ID         uint64
	Side       Side
	Type       OrderType
	Remaining  uint32
	LimitPrice int64
	StopPrice  int64

	Prev, Next OrderIx
	Level      LevelIx

	NextFree OrderIx
}

// Reset zeroes a slot before it re-enters circulation, matching the
// arena's "hands out zero-initialized objects" contract.
func (o *Order) Reset() {
	*o = Order{Prev: NoOrder, Next: NoOrder, Level: NoLevel, NextFree: NoOrder}
}
