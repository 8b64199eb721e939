package orderbook

import "obmatch/domain"

// recordingSink collects every published trade in order and can simulate
// a full channel by capping how many it accepts.
type recordingSink struct {
	trades []domain.TradeRecord
	cap    int // 0 means unbounded
}

func (s *recordingSink) Publish(t domain.TradeRecord) bool {
	if s.cap > 0 && len(s.trades) >= s.cap {
		return false
	}
	s.trades = append(s.trades, t)
	return true
}
