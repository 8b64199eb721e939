// Command benchmark drives one Book with a fixed duration of synthetic
// order flow and reports throughput. The book itself is single-threaded
// (spec §5); the only concurrency here is a tomb-supervised goroutine
// draining the trade channel so Publish never backs up against a dropped
// consumer.
package main

import (
	"fmt"
	"os"
	"time"

	"obmatch/internal/genorder"
	"obmatch/matching"
	"obmatch/orderbook"

	"github.com/rs/zerolog"
	"gopkg.in/tomb.v2"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	trades := matching.NewTradeChannel(1 << 16)
	book := orderbook.New(orderbook.DefaultConfig(), trades, log)

	var tb tomb.Tomb
	var drained uint64
	tb.Go(func() error {
		for {
			select {
			case <-tb.Dying():
				return nil
			default:
			}
			if _, ok := trades.TryPop(); ok {
				drained++
			}
		}
	})

	gen := genorder.New(42, 300.0, 50.0)
	testDuration := 5 * time.Second

	fmt.Println("=== matching engine throughput benchmark ===")
	fmt.Printf("test duration: %v\n\n", testDuration)

	start := time.Now()
	var submitted uint64
	deadline := start.Add(testDuration)
	for time.Now().Before(deadline) {
		o := gen.Next()
		book.Submit(o.ID, o.Side, o.Type, o.Qty, o.Price, o.StopPrice)
		submitted++
	}
	elapsed := time.Since(start)

	tb.Kill(nil)
	_ = tb.Wait()
	for {
		if _, ok := trades.TryPop(); !ok {
			break
		}
		drained++
	}

	qps := float64(submitted) / elapsed.Seconds()
	fmt.Println("=== results ===")
	fmt.Printf("elapsed:          %v\n", elapsed)
	fmt.Printf("orders submitted: %d\n", submitted)
	fmt.Printf("trades drained:   %d\n", drained)
	fmt.Printf("throughput:       %.0f orders/sec\n", qps)
	fmt.Printf("resting orders:   %d\n", book.RestingCount())
	fmt.Printf("armed stops:      %d\n", book.StopCount())
	fmt.Printf("dropped orders:   %d\n", book.DroppedOrders())
	fmt.Printf("dropped trades:   %d\n", book.DroppedTrades())
}
