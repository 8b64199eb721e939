// Command profile runs the same synthetic load as cmd/benchmark under
// pprof, for finding hot spots in the matching path.
package main

import (
	"fmt"
	"os"
	"runtime/pprof"
	"time"

	"obmatch/internal/genorder"
	"obmatch/matching"
	"obmatch/orderbook"

	"github.com/rs/zerolog"
	"gopkg.in/tomb.v2"
)

func main() {
	cpuFile, err := os.Create("cpu.prof")
	if err != nil {
		panic(err)
	}
	defer cpuFile.Close()

	if err := pprof.StartCPUProfile(cpuFile); err != nil {
		panic(err)
	}
	defer pprof.StopCPUProfile()

	fmt.Println("=== profiling run ===")
	fmt.Println("writing cpu.prof")

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

	gen := genorder.New(7, 300.0, 50.0)
	duration := 10 * time.Second

	start := time.Now()
	var submitted uint64
	deadline := start.Add(duration)
	for time.Now().Before(deadline) {
		o := gen.Next()
		book.Submit(o.ID, o.Side, o.Type, o.Qty, o.Price, o.StopPrice)
		submitted++
	}
	elapsed := time.Since(start)

	tb.Kill(nil)
	_ = tb.Wait()

	fmt.Println("\n=== results ===")
	fmt.Printf("orders submitted: %d\n", submitted)
	fmt.Printf("trades drained:   %d\n", drained)
	fmt.Printf("throughput:       %.0f orders/sec\n", float64(submitted)/elapsed.Seconds())
	fmt.Println("\nanalyze with: go tool pprof -http=:8080 cpu.prof")
}
