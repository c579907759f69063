// metadump prints the instrument grid (price tick, size step, minimum
// size) for a set of coins straight from the exchange info endpoint.
// Handy for checking what the executor will quantize against.
//
//	go run ./cmd/metadump BTC ETH SOL
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sidemix/signals-hyperliquid/internal/infra"
	"github.com/sidemix/signals-hyperliquid/internal/infra/hyper"
	"github.com/sidemix/signals-hyperliquid/pkg/quant"
)

func main() {
	apiURL := flag.String("url", infra.DefaultAPIURL, "info endpoint base URL")
	flag.Parse()

	cfg := &infra.Config{}
	cfg.API.URL = *apiURL
	cfg.API.TimeoutSec = infra.DefaultTimeoutSec

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := hyper.NewClient(cfg, nil)
	universe, err := client.Meta(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ meta fetch failed: %v\n", err)
		os.Exit(1)
	}

	want := make(map[string]bool)
	for _, c := range flag.Args() {
		want[strings.ToUpper(c)] = true
	}

	fmt.Printf("=== Instrument Universe (%d assets) ===\n\n", len(universe))
	fmt.Printf("%-10s %12s %12s %12s\n", "COIN", "PRICE_TICK", "SIZE_STEP", "MIN_SIZE")
	shown := 0
	for _, a := range universe {
		if len(want) > 0 && !want[strings.ToUpper(a.Name)] {
			continue
		}
		tick := quant.StepForDecimals(a.PxDecimals)
		step := quant.StepForDecimals(a.SzDecimals)
		fmt.Printf("%-10s %12s %12s %12s\n",
			a.Name,
			quant.FormatDecimal(tick, quant.DecimalsForStep(tick)),
			quant.FormatDecimal(step, quant.DecimalsForStep(step)),
			orDash(a.MinSz))
		shown++
	}
	if shown == 0 {
		fmt.Println("(no matching coins)")
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
