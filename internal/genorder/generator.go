// Package genorder implements the synthetic order generator used by the
// benchmark and profiling drivers. It is not part of the matching core
// (spec §1: the generator is "external to the book, synthetic traffic
// only") — it exists purely to produce a realistic, reproducible order
// stream to drive a Book or Engine under load.
package genorder

import (
	"math"
	"math/rand"

	"obmatch/domain"
)

// Generator draws orders from a fixed statistical mix: half limit orders
// clustered around a normally-distributed center price, 30% market
// orders, 10% stop orders and 10% stop-limit orders, each stop priced a
// fraction of a standard deviation away from center. Deterministic given
// the same seed, so a benchmark run is reproducible.
type Generator struct {
	rng        *rand.Rand
	center     float64
	stdDev     float64
	nextID     uint64
	allowStops bool
}

// Option configures a Generator at construction time.
type Option func(*Generator)

// WithoutStops disables stop/stop-limit generation, useful for warming
// up a book before a stop-triggering scenario.
func WithoutStops() Option {
	return func(g *Generator) { g.allowStops = false }
}

// New builds a generator seeded deterministically, centered at
// centerPrice with the given price standard deviation.
func New(seed int64, centerPrice, stdDev float64, opts ...Option) *Generator {
	g := &Generator{
		rng:        rand.New(rand.NewSource(seed)),
		center:     centerPrice,
		stdDev:     stdDev,
		nextID:     1,
		allowStops: true,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generated is one synthetic order ready to pass to Book.Submit or
// Engine.Submit.
type Generated struct {
	ID        uint64
	Side      domain.Side
	Type      domain.OrderType
	Qty       uint32
	Price     int64
	StopPrice int64
}

// Next draws the next order in the mix and assigns it a fresh,
// monotonically increasing id.
func (g *Generator) Next() Generated {
	id := g.nextID
	g.nextID++

	qty := uint32(g.rng.Intn(100) + 1)
	r := g.rng.Float64()

	side := domain.Buy
	if g.rng.Float64() < 0.5 {
		side = domain.Sell
	}

	switch {
	case r < 0.50:
		// Passive limit: buys sit a touch below center, sells a touch above.
		base := g.normal()
		price := g.nudge(side, base, 0.1)
		return Generated{ID: id, Side: side, Type: domain.Limit, Qty: qty, Price: price}

	case r < 0.80:
		price := int64(domain.MaxBuyPrice)
		if side == domain.Sell {
			price = domain.MinSellPrice
		}
		return Generated{ID: id, Side: side, Type: domain.Market, Qty: qty, Price: price}

	case g.allowStops && r < 0.90:
		// Stop: triggers on a move away from center, so the stop price
		// sits on the opposite side of center from a passive limit.
		base := g.normal()
		stop := g.nudge(side, base, -0.3)
		price := int64(domain.MaxBuyPrice)
		if side == domain.Sell {
			price = domain.MinSellPrice
		}
		return Generated{ID: id, Side: side, Type: domain.Stop, Qty: qty, Price: price, StopPrice: stop}

	case g.allowStops:
		base := g.normal()
		stop := g.nudge(side, base, -0.25)
		limit := g.nudge(side, base, -0.35)
		return Generated{ID: id, Side: side, Type: domain.StopLimit, Qty: qty, Price: limit, StopPrice: stop}

	default:
		return Generated{ID: id, Side: domain.Buy, Type: domain.Limit, Qty: qty, Price: int64(g.center)}
	}
}

// normal draws from the generator's configured price distribution.
func (g *Generator) normal() float64 {
	return g.center + g.rng.NormFloat64()*g.stdDev
}

// nudge offsets a base price by fraction standard deviations: positive
// fraction pushes buys down and sells up (toward a passive limit);
// negative fraction pushes buys up and sells down (toward a stop
// trigger). Floored at 1 so no order ever carries a non-positive price.
func (g *Generator) nudge(side domain.Side, base float64, fraction float64) int64 {
	offset := g.stdDev * fraction
	if side == domain.Buy {
		return int64(math.Max(1.0, base-offset))
	}
	return int64(math.Max(1.0, base+offset))
}
