package matching

import (
	"sync/atomic"

	"obmatch/domain"
)

// cacheLineSize is the typical padding unit used to keep the producer's
// write position and the consumer's read position on separate cache
// lines, avoiding false sharing between the matching goroutine and
// whatever drains the channel.
const cacheLineSize = 64

// TradeChannel is a bounded, lock-free single-producer/single-consumer
// ring buffer of domain.TradeRecord. Unlike a blocking ring buffer, Publish
// and TryPop never spin or block: a full buffer fails Publish, an empty
// buffer fails TryPop (spec §4.2, §5 — "the matching thread never suspends
// waiting for a consumer"). Capacity is rounded up to the next power of two
// so index wrapping is a plain mask.
type TradeChannel struct {
	mask uint64
	buf  []domain.TradeRecord

	_pad1    [cacheLineSize - 8]byte
	writePos uint64
	_pad2    [cacheLineSize - 8]byte
	readPos  uint64
	_pad3    [cacheLineSize - 8]byte
}

// NewTradeChannel builds a channel holding at least capacity records.
func NewTradeChannel(capacity int) *TradeChannel {
	size := nextPowerOfTwo(capacity)
	return &TradeChannel{
		mask: uint64(size - 1),
		buf:  make([]domain.TradeRecord, size),
	}
}

func nextPowerOfTwo(n int) int {
	if n < 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// Publish appends a trade record. Reports false without blocking if the
// channel is full; the caller (orderbook.Book) counts and logs the drop.
// Safe only when called from the single producer.
func (c *TradeChannel) Publish(t domain.TradeRecord) bool {
	write := atomic.LoadUint64(&c.writePos)
	read := atomic.LoadUint64(&c.readPos)
	if write-read >= uint64(len(c.buf)) {
		return false
	}
	c.buf[write&c.mask] = t
	atomic.StoreUint64(&c.writePos, write+1)
	return true
}

// TryPop removes and returns the oldest unread trade record. Reports
// false without blocking if the channel is empty. Safe only when called
// from the single consumer.
func (c *TradeChannel) TryPop() (domain.TradeRecord, bool) {
	read := atomic.LoadUint64(&c.readPos)
	write := atomic.LoadUint64(&c.writePos)
	if read == write {
		return domain.TradeRecord{}, false
	}
	t := c.buf[read&c.mask]
	atomic.StoreUint64(&c.readPos, read+1)
	return t, true
}

// Size reports the number of unread records currently buffered.
func (c *TradeChannel) Size() int {
	write := atomic.LoadUint64(&c.writePos)
	read := atomic.LoadUint64(&c.readPos)
	return int(write - read)
}

// Capacity returns the channel's fixed slot count (a power of two).
func (c *TradeChannel) Capacity() int {
	return len(c.buf)
}
