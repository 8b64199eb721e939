package matching

import (
	"testing"

	"obmatch/domain"
	"obmatch/orderbook"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() orderbook.Config {
	return orderbook.Config{OrderCapacity: 256, LevelCapacity: 64}
}

func TestEngineSubmitAndTrades(t *testing.T) {
	engine := NewEngine("BTCUSDT", testConfig(), 16, zerolog.Nop())

	engine.Submit(1, domain.Sell, domain.Limit, 10, 100, 0)
	engine.Submit(2, domain.Buy, domain.Limit, 4, 100, 0)

	trade, ok := engine.Trades().TryPop()
	require.True(t, ok)
	assert.Equal(t, uint64(2), trade.TakerID)
	assert.Equal(t, uint64(1), trade.MakerID)
	assert.EqualValues(t, 4, trade.Qty)

	assert.Equal(t, 1, engine.Book().RestingCount())
}

func TestExchangeRegistersSymbolsOnFirstUse(t *testing.T) {
	ex := NewExchange(testConfig(), 16, zerolog.Nop())

	ex.Submit("BTCUSDT", 1, domain.Sell, domain.Limit, 10, 100, 0)
	ex.Submit("ETHUSDT", 1, domain.Sell, domain.Limit, 10, 50, 0)

	assert.Equal(t, []string{"BTCUSDT", "ETHUSDT"}, ex.Symbols())
}

func TestExchangeCancelUnknownSymbolErrors(t *testing.T) {
	ex := NewExchange(testConfig(), 16, zerolog.Nop())
	_, err := ex.Cancel("DOES-NOT-EXIST", 1)
	assert.Error(t, err)
}

func TestExchangeRoutesByRegisteredSymbol(t *testing.T) {
	ex := NewExchange(testConfig(), 16, zerolog.Nop())

	ex.Submit("BTCUSDT", 1, domain.Buy, domain.Limit, 5, 100, 0)
	ok, err := ex.Modify("BTCUSDT", 1, 5, 100)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ex.Cancel("BTCUSDT", 1)
	require.NoError(t, err)
	assert.True(t, ok)

	engine := ex.Engine("BTCUSDT")
	assert.Equal(t, 0, engine.Book().RestingCount())
}
