package domain

import "math"

// Side identifies which side of the book an order rests or aggresses on.
type Side int8

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Buy {
		return "buy"
	}
	return "sell"
}

// OrderType distinguishes the four order shapes the engine understands.
// Stop and StopLimit never rest in the resting-order trees directly; they
// arm in the stop trees and convert to Market / Limit respectively once
// triggered (see the stop-trigger subsystem).
type OrderType int8

const (
	Market OrderType = iota
	Limit
	Stop
	StopLimit
)

func (t OrderType) String() string {
	switch t {
	case Market:
		return "market"
	case Limit:
		return "limit"
	case Stop:
		return "stop"
	case StopLimit:
		return "stop-limit"
	default:
		return "unknown"
	}
}

// Market orders carry sentinel limit prices so the cross test in the
// matching loop never has to special-case them: a buy market is willing to
// pay anything, a sell market is willing to accept anything.
const (
	MaxBuyPrice  int64 = math.MaxInt64
	MinSellPrice int64 = 0
)
