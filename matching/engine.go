package matching

import (
	"fmt"
	"sync"
	"sync/atomic"

	"obmatch/domain"
	"obmatch/orderbook"

	rbt "github.com/emirpasic/gods/v2/trees/redblacktree"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Engine pairs one instrument's Book with the TradeChannel its fills are
// published onto. Submit/Cancel/Modify run synchronously on the caller's
// goroutine (spec §5: "the action API has no suspension points") — the
// only concurrency boundary here is the TradeChannel itself, which a
// separate consumer goroutine may drain via Trades().TryPop.
type Engine struct {
	Symbol string
	id     uuid.UUID

	book   *orderbook.Book
	trades *TradeChannel
	log    zerolog.Logger
}

// NewEngine builds an engine for one symbol. tradeCapacity is rounded up
// to a power of two by the underlying TradeChannel.
func NewEngine(symbol string, cfg orderbook.Config, tradeCapacity int, log zerolog.Logger) *Engine {
	id := uuid.New()
	logger := log.With().Str("symbol", symbol).Str("engine_id", id.String()).Logger()
	trades := NewTradeChannel(tradeCapacity)
	return &Engine{
		Symbol: symbol,
		id:     id,
		book:   orderbook.New(cfg, trades, logger),
		trades: trades,
		log:    logger,
	}
}

// ID returns the engine's correlation id, used to tag log lines and
// metrics across the lifetime of one running instrument.
func (e *Engine) ID() uuid.UUID {
	return e.id
}

// Submit, Cancel and Modify forward to the underlying Book.
func (e *Engine) Submit(id uint64, side domain.Side, typ domain.OrderType, qty uint32, price, stopPrice int64) {
	e.book.Submit(id, side, typ, qty, price, stopPrice)
}

func (e *Engine) Cancel(id uint64) bool {
	return e.book.Cancel(id)
}

func (e *Engine) Modify(id uint64, newQty uint32, newPrice int64) bool {
	return e.book.Modify(id, newQty, newPrice)
}

// Trades exposes the engine's outgoing trade channel for a consumer to
// drain (see cmd/demo, cmd/benchmark).
func (e *Engine) Trades() *TradeChannel {
	return e.trades
}

// Book exposes the underlying order book for inspection (counters,
// invariant checks in tests).
func (e *Engine) Book() *orderbook.Book {
	return e.book
}

// Exchange is a multi-instrument registry of Engines, one per symbol.
// Reads are lock-free via atomic.Value holding an immutable snapshot (a
// gods/v2 red-black tree, which keeps symbols in sorted order for
// Symbols()); writes — registering a new symbol — copy the whole
// snapshot, which is fine since new-symbol registration is rare compared
// to order traffic.
type Exchange struct {
	snapshot atomic.Value // *rbt.Tree[string, *Engine]
	mu       sync.Mutex
	cfg      orderbook.Config
	tradeCap int
	log      zerolog.Logger
}

func symbolComparator(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// NewExchange builds an empty exchange. Every symbol registered through
// it shares cfg's arena sizing and tradeCap's channel capacity.
func NewExchange(cfg orderbook.Config, tradeCap int, log zerolog.Logger) *Exchange {
	ex := &Exchange{cfg: cfg, tradeCap: tradeCap, log: log}
	ex.snapshot.Store(rbt.NewWith[string, *Engine](symbolComparator))
	return ex
}

// Engine returns the registered engine for symbol, creating one on first
// use.
func (ex *Exchange) Engine(symbol string) *Engine {
	tree := ex.snapshot.Load().(*rbt.Tree[string, *Engine])
	if engine, found := tree.Get(symbol); found {
		return engine
	}

	ex.mu.Lock()
	defer ex.mu.Unlock()

	tree = ex.snapshot.Load().(*rbt.Tree[string, *Engine])
	if engine, found := tree.Get(symbol); found {
		return engine
	}

	engine := NewEngine(symbol, ex.cfg, ex.tradeCap, ex.log)

	next := rbt.NewWith[string, *Engine](symbolComparator)
	it := tree.Iterator()
	for it.Next() {
		next.Put(it.Key(), it.Value())
	}
	next.Put(symbol, engine)
	ex.snapshot.Store(next)

	ex.log.Info().Str("symbol", symbol).Msg("registered new instrument")
	return engine
}

// Symbols returns every registered symbol in sorted order.
func (ex *Exchange) Symbols() []string {
	tree := ex.snapshot.Load().(*rbt.Tree[string, *Engine])
	return tree.Keys()
}

// Submit routes an order to symbol's engine, registering it first if
// this is the symbol's first order.
func (ex *Exchange) Submit(symbol string, id uint64, side domain.Side, typ domain.OrderType, qty uint32, price, stopPrice int64) {
	ex.Engine(symbol).Submit(id, side, typ, qty, price, stopPrice)
}

// Cancel routes a cancel to symbol's engine. Returns an error if symbol
// was never registered.
func (ex *Exchange) Cancel(symbol string, id uint64) (bool, error) {
	tree := ex.snapshot.Load().(*rbt.Tree[string, *Engine])
	engine, found := tree.Get(symbol)
	if !found {
		return false, fmt.Errorf("matching: unknown symbol %q", symbol)
	}
	return engine.Cancel(id), nil
}

// Modify routes a modify to symbol's engine. Returns an error if symbol
// was never registered.
func (ex *Exchange) Modify(symbol string, id uint64, newQty uint32, newPrice int64) (bool, error) {
	tree := ex.snapshot.Load().(*rbt.Tree[string, *Engine])
	engine, found := tree.Get(symbol)
	if !found {
		return false, fmt.Errorf("matching: unknown symbol %q", symbol)
	}
	return engine.Modify(id, newQty, newPrice), nil
}
