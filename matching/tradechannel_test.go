package matching

import (
	"testing"

	"obmatch/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTradeChannelRoundsCapacityToPowerOfTwo(t *testing.T) {
	c := NewTradeChannel(10)
	assert.Equal(t, 16, c.Capacity())
}

func TestTradeChannelPublishAndPop(t *testing.T) {
	c := NewTradeChannel(4)
	for i := uint64(0); i < 4; i++ {
		require.True(t, c.Publish(domain.TradeRecord{TakerID: i}))
	}
	assert.Equal(t, 4, c.Size())

	assert.False(t, c.Publish(domain.TradeRecord{TakerID: 99}), "channel at capacity should reject without blocking")

	for i := uint64(0); i < 4; i++ {
		trade, ok := c.TryPop()
		require.True(t, ok)
		assert.Equal(t, i, trade.TakerID)
	}

	_, ok := c.TryPop()
	assert.False(t, ok, "empty channel should fail without blocking")
}

func TestTradeChannelWrapsAround(t *testing.T) {
	c := NewTradeChannel(2)
	require.True(t, c.Publish(domain.TradeRecord{TakerID: 1}))
	require.True(t, c.Publish(domain.TradeRecord{TakerID: 2}))

	trade, ok := c.TryPop()
	require.True(t, ok)
	assert.Equal(t, uint64(1), trade.TakerID)

	require.True(t, c.Publish(domain.TradeRecord{TakerID: 3}))

	trade, ok = c.TryPop()
	require.True(t, ok)
	assert.Equal(t, uint64(2), trade.TakerID)

	trade, ok = c.TryPop()
	require.True(t, ok)
	assert.Equal(t, uint64(3), trade.TakerID)
}
