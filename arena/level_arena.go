package arena

import "obmatch/domain"

// LevelArena is a contiguous, fixed-size pool of domain.PriceLevel slots,
// sized by the caller at roughly 1/5th the order pool (spec §4.1) since
// many orders typically share a handful of price levels.
type LevelArena struct {
	slots []domain.PriceLevel
	free  domain.LevelIx
	live  int
}

// NewLevelArena builds a price-level pool of the given capacity.
func NewLevelArena(capacity int) *LevelArena {
	a := &LevelArena{
		slots: make([]domain.PriceLevel, capacity),
		free:  domain.NoLevel,
	}
	for i := capacity - 1; i >= 0; i-- {
		a.slots[i].NextFree = a.free
		a.free = domain.LevelIx(i)
	}
	return a
}

// Alloc hands out a zero-initialized level slot with Price pre-set, or
// ok=false if the pool is exhausted.
func (a *LevelArena) Alloc(price int64) (ix domain.LevelIx, level *domain.PriceLevel, ok bool) {
	if a.free == domain.NoLevel {
		return domain.NoLevel, nil, false
	}
	ix = a.free
	level = &a.slots[ix]
	a.free = level.NextFree
	level.Reset()
	level.Price = price
	a.live++
	return ix, level, true
}

// Free clears and recycles the slot at ix. Callers must only free levels
// whose FIFO is already empty (spec invariant: a non-empty level is never
// removed from its tree).
func (a *LevelArena) Free(ix domain.LevelIx) {
	level := &a.slots[ix]
	level.Reset()
	level.NextFree = a.free
	a.free = ix
	a.live--
}

// At returns the slot at ix.
func (a *LevelArena) At(ix domain.LevelIx) *domain.PriceLevel {
	return &a.slots[ix]
}

// Live returns the number of currently allocated (non-free) slots.
func (a *LevelArena) Live() int {
	return a.live
}

// Capacity returns the total number of slots in the pool.
func (a *LevelArena) Capacity() int {
	return len(a.slots)
}
