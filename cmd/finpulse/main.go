// FinPulse: finance news dashboard with sentiment scoring and
// per-headline company fundamentals.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/finpulse/internal/chart"
	"github.com/seenimoa/finpulse/internal/config"
	"github.com/seenimoa/finpulse/internal/dashboard"
	"github.com/seenimoa/finpulse/internal/market"
	"github.com/seenimoa/finpulse/internal/news"
	"github.com/seenimoa/finpulse/internal/sentiment"
	"github.com/seenimoa/finpulse/internal/ticker"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "finpulse",
	Short: "FinPulse: finance news, sentiment, and fundamentals",
	Long: `FinPulse fetches the past week's finance and stock market news,
scores each headline's sentiment, and looks up live company
fundamentals and price charts for tickers mentioned in headlines.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(newsCmd)
	rootCmd.AddCommand(fundamentalsCmd)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("FinPulse %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Serve Command (Dashboard) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := cfg.Server.Addr()
		fmt.Printf("🌐 Starting FinPulse dashboard on %s\n", addr)
		return dashboard.NewServer(cfg).ListenAndServe(addr)
	},
}

// --- News Command ---

var newsCmd = &cobra.Command{
	Use:   "news",
	Short: "Print recent headlines with sentiment scores",
	RunE: func(cmd *cobra.Command, args []string) error {
		query, _ := cmd.Flags().GetString("query")
		if query == "" {
			query = cfg.News.Query
		}
		maxItems, _ := cmd.Flags().GetInt("max")
		if maxItems <= 0 {
			maxItems = cfg.News.MaxItems
		}

		fetcher := news.NewFetcher()
		articles, err := fetcher.Fetch(cmd.Context(), query, cfg.News.Days, maxItems)
		if err != nil {
			return fmt.Errorf("news fetch failed: %w", err)
		}
		if len(articles) == 0 {
			fmt.Println("No recent news found. Try a different query.")
			return nil
		}

		for _, a := range articles {
			res := sentiment.Score(a.Title)
			fmt.Printf("[%s %+.3f] %s\n", res.Label, res.Polarity, a.Title)
			fmt.Printf("    📅 %s  %s\n", a.Published, a.Link)
			if summary := a.PlainSummary(); summary != "" {
				fmt.Printf("    %s\n", summary)
			}
			fmt.Println()
		}
		return nil
	},
}

func init() {
	newsCmd.Flags().StringP("query", "q", "", "news search query (default from config)")
	newsCmd.Flags().Int("max", 0, "maximum headlines to print (default from config)")
}

// --- Fundamentals Command ---

var fundamentalsCmd = &cobra.Command{
	Use:   "fundamentals [ticker]",
	Short: "Show live fundamentals for a stock",
	Long: `Look up a company snapshot from Yahoo Finance. Plain NSE symbols
get the .NS suffix (RELIANCE becomes RELIANCE.NS); pass a suffixed
symbol to target another exchange.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		symbol := ticker.ToYahoo(ticker.Normalize(args[0]))
		chartOut, _ := cmd.Flags().GetString("chart")

		ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
		defer cancel()

		client := market.NewClientWith(
			time.Duration(cfg.Market.CacheTTLSec)*time.Second,
			cfg.Market.RatePerSec,
		)

		var (
			snap    *market.Snapshot
			candles []market.Candle
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			snap, err = client.Fundamentals(gctx, symbol)
			return err
		})
		g.Go(func() error {
			var err error
			candles, err = client.History(gctx, symbol, 90*24*time.Hour)
			if err != nil {
				// History is best effort; the snapshot alone is useful.
				candles = nil
			}
			return nil
		})
		if err := g.Wait(); err != nil {
			return fmt.Errorf("lookup failed for %s: %w", symbol, err)
		}

		fmt.Printf("🏢 %s (%s)\n\n", snap.Company, snap.Symbol)
		for _, m := range snap.Metrics {
			fmt.Printf("  %-16s %s\n", m.Name+":", m.Value)
		}

		if chartOut != "" {
			png, err := chart.Render(symbol, candles, chart.Config{
				Width:  cfg.Chart.Width,
				Height: cfg.Chart.Height,
			})
			if err != nil {
				fmt.Printf("\n⚠️  Chart unavailable for %s\n", symbol)
				return nil
			}
			if err := os.WriteFile(chartOut, png, 0o644); err != nil {
				return fmt.Errorf("write chart: %w", err)
			}
			fmt.Printf("\n📈 Chart written to %s\n", chartOut)
		}
		return nil
	},
}

func init() {
	fundamentalsCmd.Flags().String("chart", "", "write the 3-month trend chart PNG to this path")
}
