// Package arena implements the engine's two fixed-capacity object pools:
// a slab of Order slots and a slab of PriceLevel slots, each threaded
// through a singly-linked free list via a dedicated "next-free" field.
// Neither slab ever grows or relocates a live object; exhaustion hands
// back the NoOrder / NoLevel sentinel instead of allocating.
package arena

import "obmatch/domain"

// OrderArena is a contiguous, fixed-size pool of domain.Order slots.
type OrderArena struct {
	slots []domain.Order
	free  domain.OrderIx
	live  int
}

// NewOrderArena builds an order pool of the given capacity, threading every
// slot onto the free list up front.
func NewOrderArena(capacity int) *OrderArena {
	a := &OrderArena{
		slots: make([]domain.Order, capacity),
		free:  domain.NoOrder,
	}
	for i := capacity - 1; i >= 0; i-- {
		a.slots[i].NextFree = a.free
		a.free = domain.OrderIx(i)
	}
	return a
}

// Alloc unlinks the head of the free list and returns a zero-initialized
// slot, or ok=false if the pool is exhausted. The caller must treat a
// false return as a drop, not a partial success.
func (a *OrderArena) Alloc() (ix domain.OrderIx, order *domain.Order, ok bool) {
	if a.free == domain.NoOrder {
		return domain.NoOrder, nil, false
	}
	ix = a.free
	order = &a.slots[ix]
	a.free = order.NextFree
	order.Reset()
	a.live++
	return ix, order, true
}

// Free clears the slot's links and pushes it back onto the free list.
func (a *OrderArena) Free(ix domain.OrderIx) {
	order := &a.slots[ix]
	order.Reset()
	order.NextFree = a.free
	a.free = ix
	a.live--
}

// At returns the slot at ix. The caller must only pass indices it holds
// from Alloc or from a live order's own links.
func (a *OrderArena) At(ix domain.OrderIx) *domain.Order {
	return &a.slots[ix]
}

// Live returns the number of currently allocated (non-free) slots.
func (a *OrderArena) Live() int {
	return a.live
}

// Capacity returns the total number of slots in the pool.
func (a *OrderArena) Capacity() int {
	return len(a.slots)
}
