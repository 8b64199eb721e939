package orderbook

import (
	"obmatch/arena"
	"obmatch/domain"
)

// appendFIFO links order ix onto the tail of level's FIFO, preserving
// time priority (spec: "head is the earliest to arrive, tail the latest").
func appendFIFO(orders *arena.OrderArena, level *domain.PriceLevel, ix domain.OrderIx, order *domain.Order) {
	order.Prev = level.Tail
	order.Next = domain.NoOrder
	if level.Tail == domain.NoOrder {
		level.Head = ix
	} else {
		orders.At(level.Tail).Next = ix
	}
	level.Tail = ix
}

// unlinkFIFO removes order ix from level's FIFO, repairing the head or
// tail pointer if the order sat at either end.
func unlinkFIFO(orders *arena.OrderArena, level *domain.PriceLevel, order *domain.Order) {
	if order.Prev != domain.NoOrder {
		orders.At(order.Prev).Next = order.Next
	} else {
		level.Head = order.Next
	}
	if order.Next != domain.NoOrder {
		orders.At(order.Next).Prev = order.Prev
	} else {
		level.Tail = order.Prev
	}
}
