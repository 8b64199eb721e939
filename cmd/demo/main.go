// Command demo walks through a handful of resting, crossing and
// stop-triggering orders on a single BTCUSDT exchange instance and
// prints every trade as it is produced.
package main

import (
	"fmt"
	"os"
	"time"

	"obmatch/domain"
	"obmatch/matching"
	"obmatch/orderbook"

	"github.com/rs/zerolog"
	"gopkg.in/tomb.v2"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).With().Timestamp().Logger()

	exchange := matching.NewExchange(orderbook.DefaultConfig(), 1024, log)
	engine := exchange.Engine("BTCUSDT")
	fmt.Println("exchange started, BTCUSDT engine registered")

	var tb tomb.Tomb
	tb.Go(func() error {
		trades := engine.Trades()
		for {
			select {
			case <-tb.Dying():
				return nil
			default:
			}
			if t, ok := trades.TryPop(); ok {
				fmt.Printf("trade: taker=%d maker=%d qty=%d price=%d seq=%d\n",
					t.TakerID, t.MakerID, t.Qty, t.Price, t.Timestamp)
			}
		}
	})

	// Rest a sell order: 1 BTC @ 50000.
	exchange.Submit("BTCUSDT", 1, domain.Sell, domain.Limit, 100_000_000, 50000, 0)
	fmt.Println("submitted: sell 1 BTC @ 50000")

	// Cross it with a partial buy: 0.5 BTC @ 50000.
	exchange.Submit("BTCUSDT", 2, domain.Buy, domain.Limit, 50_000_000, 50000, 0)
	fmt.Println("submitted: buy 0.5 BTC @ 50000")

	// Arm a stop-buy at 50100 that triggers once the last trade clears it.
	// Plain Stop orders convert to Market on trigger, so the price argument
	// must carry the same-side market sentinel up front.
	exchange.Submit("BTCUSDT", 3, domain.Buy, domain.Stop, 10_000_000, domain.MaxBuyPrice, 50100)
	fmt.Println("submitted: stop-buy 0.1 BTC, trigger @ 50100")

	// Rest another sell above the stop, then buy through both resting sells
	// (the 0.5 BTC left @ 50000 and the 0.1 BTC @ 50150) so the last trade
	// prints at 50150, past the stop trigger.
	exchange.Submit("BTCUSDT", 4, domain.Sell, domain.Limit, 10_000_000, 50150, 0)
	exchange.Submit("BTCUSDT", 5, domain.Buy, domain.Limit, 60_000_000, 50150, 0)
	fmt.Println("submitted: buy 0.6 BTC @ 50150, last trade @ 50150 should trigger the stop-buy")

	time.Sleep(50 * time.Millisecond)
	tb.Kill(nil)
	_ = tb.Wait()

	book := engine.Book()
	fmt.Printf("\nfinal state: resting=%d stops=%d dropped_orders=%d dropped_trades=%d\n",
		book.RestingCount(), book.StopCount(), book.DroppedOrders(), book.DroppedTrades())
}
