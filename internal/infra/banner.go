package infra

import (
	"fmt"
	"strings"
)

// ANSI color codes for the startup banner.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorCyan   = "\033[36m"
	colorYellow = "\033[33m"
)

// PrintBanner displays the startup banner with a mode-specific warning
// so a LIVE process is never mistaken for a dry run.
func PrintBanner(cfg *Config) {
	mode, color := "LIVE", colorRed
	if cfg.Trading.DryRun {
		mode, color = "DRY-RUN", colorCyan
	}

	allow := "ALL SYMBOLS"
	if n := len(cfg.Trading.AllowedSymbols); n > 0 {
		allow = strings.Join(cfg.Trading.AllowedSymbols, ", ")
		if len(allow) > 34 {
			allow = fmt.Sprintf("%d symbols", n)
		}
	}

	fmt.Println()
	fmt.Printf("%s#########################################################%s\n", color, colorReset)
	fmt.Printf("%s#        Hyperliquid Signal Executor %-18s #%s\n", color, cfg.App.Version, colorReset)
	fmt.Printf("%s#   MODE:      %-40s #%s\n", color, mode, colorReset)
	fmt.Printf("%s#   ALLOWED:   %-40s #%s\n", color, allow, colorReset)
	fmt.Printf("%s#   TIF:       %-40s #%s\n", color, string(cfg.DefaultTIF()), colorReset)
	if !cfg.Trading.DryRun {
		fmt.Printf("%s#   ⚠️  ORDERS WILL REACH THE EXCHANGE                   #%s\n", colorYellow, colorReset)
	}
	fmt.Printf("%s#########################################################%s\n", color, colorReset)
	fmt.Println()
}
