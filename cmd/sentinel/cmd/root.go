package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"SignalSentinel/internal/barstore"
	"SignalSentinel/internal/collector"
	"SignalSentinel/internal/config"
	"SignalSentinel/internal/ranking"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "sentinel",
	Short: "Ranks a stock universe by signal score and sizes a trade plan for each",
	Long: `Sentinel scores every symbol of a configured universe from daily and
hourly price history, grades it, derives an ATR-based entry/stop/target and
a risk-sized share count, and reports the best candidate plus a ranked table.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	def := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		def = v
	}
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", def, "config file (env CONFIG_PATH)")
}

// app holds the wired components shared by the subcommands.
type app struct {
	cfg       *config.Config
	store     barstore.Store
	collector *collector.Collector
	evaluator *ranking.Evaluator
}

func newApp() (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	ev, err := ranking.New(cfg.ScoringPolicy(), cfg.RiskAccount())
	if err != nil {
		return nil, err
	}

	var store barstore.Store = barstore.NewNoopStore()
	if cfg.Database.SQLitePath != "" {
		sq, err := barstore.NewSQLiteStore(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite bar store failed, caching disabled: %v", err)
		} else {
			store = sq
		}
	}

	var fetcher collector.Fetcher = collector.NewYahooFetcher(cfg.Proxy, cfg.DataSource.CoarseRange, cfg.DataSource.FineRange)
	fetcher = collector.NewCachingFetcher(fetcher, store, cfg.DataSource.CacheMaxAge)
	log.Printf("[INFO] data source: %s", fetcher.Name())

	return &app{
		cfg:       cfg,
		store:     store,
		collector: collector.NewCollector(fetcher, cfg.Universe, cfg.DataSource.Concurrency),
		evaluator: ev,
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		log.Printf("[WARN] close bar store: %v", err)
	}
}
