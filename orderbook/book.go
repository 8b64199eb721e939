// Package orderbook implements the matching engine's core: the arena-backed
// AVL price-level trees (resting-buy, resting-sell, stop-buy, stop-sell),
// the order index, and the Submit/Cancel/Modify/stop-trigger algorithm.
// A Book is single-threaded by contract — every method must be called
// from the one thread that owns it (spec §5).
package orderbook

import (
	"obmatch/arena"
	"obmatch/avl"
	"obmatch/domain"

	"github.com/rs/zerolog"
)

// TradeSink is the trade-channel boundary a Book publishes fills through.
// Publish returns false if the channel was full; the Book logs the drop
// and counts it but never blocks or retries (spec §7).
type TradeSink interface {
	Publish(domain.TradeRecord) bool
}

// Config sizes the two arenas backing a Book. OrderCapacity should be
// sized to the expected resting-order population; LevelCapacity is
// conventionally about a fifth of that (spec §4.1) since many orders
// typically share a handful of price levels.
type Config struct {
	OrderCapacity int
	LevelCapacity int
}

// DefaultConfig mirrors the spec's benchmark sizing: a million orders,
// a fifth as many distinct price levels.
func DefaultConfig() Config {
	return Config{OrderCapacity: 1_000_000, LevelCapacity: 200_000}
}

// Book owns both arenas, the four price-level trees, and the two order
// indices for a single instrument.
type Book struct {
	orders *arena.OrderArena
	levels *arena.LevelArena

	restingBuy, restingSell *avl.Tree
	stopBuy, stopSell       *avl.Tree

	restingIndex map[uint64]domain.OrderIx
	stopIndex    map[uint64]domain.OrderIx

	sink TradeSink
	log  zerolog.Logger

	sequence   uint64
	internalID uint64

	droppedOrders uint64
	droppedTrades uint64
}

// New builds an empty book. sink receives every emitted trade; log
// receives one structured event per silent drop (arena exhaustion,
// trade-channel-full).
func New(cfg Config, sink TradeSink, log zerolog.Logger) *Book {
	orders := arena.NewOrderArena(cfg.OrderCapacity)
	levels := arena.NewLevelArena(cfg.LevelCapacity)
	return &Book{
		orders:       orders,
		levels:       levels,
		restingBuy:   avl.New(levels),
		restingSell:  avl.New(levels),
		stopBuy:      avl.New(levels),
		stopSell:     avl.New(levels),
		restingIndex: make(map[uint64]domain.OrderIx),
		stopIndex:    make(map[uint64]domain.OrderIx),
		sink:         sink,
		log:          log,
		internalID:   internalIDBase,
	}
}

// internalIDBase seeds the counter that mints ids for re-submitted
// triggered stops in the upper half of the uint64 range, above the ids
// callers assign, so a converted stop never takes a caller order's slot
// in the resting index.
const internalIDBase uint64 = 1 << 63

func (b *Book) restingTree(side domain.Side) *avl.Tree {
	if side == domain.Buy {
		return b.restingBuy
	}
	return b.restingSell
}

func (b *Book) oppositeRestingTree(side domain.Side) *avl.Tree {
	if side == domain.Buy {
		return b.restingSell
	}
	return b.restingBuy
}

func (b *Book) stopTree(side domain.Side) *avl.Tree {
	if side == domain.Buy {
		return b.stopBuy
	}
	return b.stopSell
}

// RestingCount returns the number of resting (non-stop) orders in the
// book (spec §4.7).
func (b *Book) RestingCount() int {
	return len(b.restingIndex)
}

// StopCount returns the number of armed stop orders in the book.
func (b *Book) StopCount() int {
	return len(b.stopIndex)
}

// DroppedOrders returns how many submit/modify attempts were silently
// dropped due to arena exhaustion since the book was created.
func (b *Book) DroppedOrders() uint64 {
	return b.droppedOrders
}

// DroppedTrades returns how many trade records were silently dropped
// because the trade channel was full since the book was created.
func (b *Book) DroppedTrades() uint64 {
	return b.droppedTrades
}

// Submit is the engine's main entry point (spec §4.4): arms a stop order,
// or matches a market/limit order against the opposite book and rests
// any residual.
func (b *Book) Submit(id uint64, side domain.Side, typ domain.OrderType, qty uint32, price, stopPrice int64) {
	b.submit(id, side, typ, qty, price, stopPrice, true)
}

func (b *Book) submit(id uint64, side domain.Side, typ domain.OrderType, qty uint32, price, stopPrice int64, checkStops bool) {
	if typ == domain.Stop || typ == domain.StopLimit {
		b.armStop(id, side, typ, qty, price, stopPrice)
		return
	}

	ix, taker, ok := b.orders.Alloc()
	if !ok {
		b.droppedOrders++
		b.log.Warn().Uint64("order_id", id).Str("side", side.String()).Msg("order arena exhausted, dropping submit")
		return
	}
	taker.ID = id
	taker.Side = side
	taker.Type = typ
	taker.Remaining = qty
	taker.LimitPrice = price
	taker.StopPrice = stopPrice

	lastPrice, tradedAny := b.match(taker)

	var triggered []domain.TriggeredStop
	if checkStops && tradedAny {
		triggered = b.checkStops(lastPrice, side)
	}

	if taker.Remaining > 0 && typ == domain.Limit {
		b.rest(ix, taker)
	} else {
		b.orders.Free(ix)
	}

	for _, ts := range triggered {
		b.internalID++
		b.submit(b.internalID, ts.Side, ts.ConvertTo, ts.Qty, ts.LimitPrice, 0, false)
	}
}

// match walks the opposite side's best levels, crossing the taker against
// resting makers in price-time priority until the taker is filled or no
// more crossing liquidity remains. Returns the last executed price (0 if
// nothing traded) and whether any trade occurred.
func (b *Book) match(taker *domain.Order) (lastPrice int64, tradedAny bool) {
	makerTree := b.oppositeRestingTree(taker.Side)

	for taker.Remaining > 0 {
		var bestIx domain.LevelIx
		if taker.Side == domain.Buy {
			bestIx = makerTree.Min()
		} else {
			bestIx = makerTree.Max()
		}
		if bestIx == domain.NoLevel {
			break
		}
		best := makerTree.At(bestIx)
		if taker.Side == domain.Buy && taker.LimitPrice < best.Price {
			break
		}
		if taker.Side == domain.Sell && taker.LimitPrice > best.Price {
			break
		}

		makerIx := best.Head
		for makerIx != domain.NoOrder && taker.Remaining > 0 {
			maker := b.orders.At(makerIx)
			tradeQty := min(taker.Remaining, maker.Remaining)
			taker.Remaining -= tradeQty
			maker.Remaining -= tradeQty

			trade := domain.TradeRecord{
				TakerID:   taker.ID,
				MakerID:   maker.ID,
				Qty:       tradeQty,
				Price:     best.Price,
				Timestamp: b.sequence,
			}
			b.sequence++
			lastPrice = best.Price
			tradedAny = true
			if !b.sink.Publish(trade) {
				b.droppedTrades++
				b.log.Warn().Uint64("taker_id", trade.TakerID).Uint64("maker_id", trade.MakerID).
					Msg("trade channel full, dropping trade record")
			}

			if maker.Remaining == 0 {
				next := maker.Next
				unlinkFIFO(b.orders, best, maker)
				delete(b.restingIndex, maker.ID)
				b.orders.Free(makerIx)
				makerIx = next
			}
		}

		if best.Empty() {
			makerTree.Remove(best.Price)
		}
	}
	return lastPrice, tradedAny
}

// rest places a limit order's residual quantity at the tail of its own
// side's price level, creating the level if necessary. Arena exhaustion
// on the level pool drops the residual entirely.
func (b *Book) rest(ix domain.OrderIx, order *domain.Order) {
	tree := b.restingTree(order.Side)
	levelIx, level, ok := tree.InsertOrFind(order.LimitPrice)
	if !ok {
		b.orders.Free(ix)
		b.droppedOrders++
		b.log.Warn().Uint64("order_id", order.ID).Msg("level arena exhausted, dropping residual")
		return
	}
	appendFIFO(b.orders, level, ix, order)
	order.Level = levelIx
	b.restingIndex[order.ID] = ix
}

func (b *Book) armStop(id uint64, side domain.Side, typ domain.OrderType, qty uint32, price, stopPrice int64) {
	ix, order, ok := b.orders.Alloc()
	if !ok {
		b.droppedOrders++
		b.log.Warn().Uint64("order_id", id).Msg("order arena exhausted, dropping stop")
		return
	}
	order.ID = id
	order.Side = side
	order.Type = typ
	order.Remaining = qty
	order.LimitPrice = price
	order.StopPrice = stopPrice

	tree := b.stopTree(side)
	levelIx, level, ok := tree.InsertOrFind(stopPrice)
	if !ok {
		b.orders.Free(ix)
		b.droppedOrders++
		b.log.Warn().Uint64("order_id", id).Msg("level arena exhausted, dropping stop")
		return
	}
	appendFIFO(b.orders, level, ix, order)
	order.Level = levelIx
	b.stopIndex[id] = ix
}

// checkStops implements the post-match trigger pass (spec §4.6): a sell
// aggressor sweeps the stop-sell tree from the highest price down while
// level price >= lastPrice; a buy aggressor sweeps stop-buy from the
// lowest price up while level price <= lastPrice.
func (b *Book) checkStops(lastPrice int64, aggressor domain.Side) []domain.TriggeredStop {
	var triggered []domain.TriggeredStop
	if aggressor == domain.Sell {
		for {
			ix := b.stopSell.Max()
			if ix == domain.NoLevel {
				break
			}
			level := b.stopSell.At(ix)
			if level.Price < lastPrice {
				break
			}
			triggered = append(triggered, b.drainStopLevel(level)...)
			b.stopSell.Remove(level.Price)
		}
	} else {
		for {
			ix := b.stopBuy.Min()
			if ix == domain.NoLevel {
				break
			}
			level := b.stopBuy.At(ix)
			if level.Price > lastPrice {
				break
			}
			triggered = append(triggered, b.drainStopLevel(level)...)
			b.stopBuy.Remove(level.Price)
		}
	}
	return triggered
}

// drainStopLevel converts every order at a triggered stop level into a
// TriggeredStop descriptor and returns all of them to the arena.
func (b *Book) drainStopLevel(level *domain.PriceLevel) []domain.TriggeredStop {
	var out []domain.TriggeredStop
	ix := level.Head
	for ix != domain.NoOrder {
		order := b.orders.At(ix)
		convertTo := domain.Market
		if order.Type == domain.StopLimit {
			convertTo = domain.Limit
		}
		out = append(out, domain.TriggeredStop{
			OriginalID: order.ID,
			Side:       order.Side,
			ConvertTo:  convertTo,
			Qty:        order.Remaining,
			LimitPrice: order.LimitPrice,
		})
		delete(b.stopIndex, order.ID)
		next := order.Next
		b.orders.Free(ix)
		ix = next
	}
	level.Head, level.Tail = domain.NoOrder, domain.NoOrder
	return out
}

// Cancel removes a resting or armed-stop order (spec §4.5). Returns false
// if id is unknown to either index.
func (b *Book) Cancel(id uint64) bool {
	if ix, ok := b.restingIndex[id]; ok {
		order := b.orders.At(ix)
		tree := b.restingTree(order.Side)
		level := tree.At(order.Level)
		unlinkFIFO(b.orders, level, order)
		if level.Empty() {
			tree.Remove(level.Price)
		}
		delete(b.restingIndex, id)
		b.orders.Free(ix)
		return true
	}
	if ix, ok := b.stopIndex[id]; ok {
		order := b.orders.At(ix)
		tree := b.stopTree(order.Side)
		level := tree.At(order.Level)
		unlinkFIFO(b.orders, level, order)
		if level.Empty() {
			tree.Remove(level.Price)
		}
		delete(b.stopIndex, id)
		b.orders.Free(ix)
		return true
	}
	return false
}

// Modify repositions a resting order (spec §4.5). Only resting (non-stop)
// orders may be modified; stops and unknown ids return false. A same-price
// modify preserves time priority; any other price loses it and re-homes
// the order at the tail of its new level.
func (b *Book) Modify(id uint64, newQty uint32, newPrice int64) bool {
	ix, ok := b.restingIndex[id]
	if !ok {
		return false
	}
	order := b.orders.At(ix)

	if newPrice == order.LimitPrice {
		order.Remaining = newQty
		return true
	}

	tree := b.restingTree(order.Side)
	oldLevel := tree.At(order.Level)
	unlinkFIFO(b.orders, oldLevel, order)
	if oldLevel.Empty() {
		tree.Remove(oldLevel.Price)
	}

	order.LimitPrice = newPrice
	order.Remaining = newQty

	newLevelIx, newLevel, allocated := tree.InsertOrFind(newPrice)
	if !allocated {
		delete(b.restingIndex, id)
		b.orders.Free(ix)
		b.droppedOrders++
		b.log.Warn().Uint64("order_id", id).Msg("level arena exhausted during modify, order lost")
		return false
	}
	appendFIFO(b.orders, newLevel, ix, order)
	order.Level = newLevelIx
	return true
}
