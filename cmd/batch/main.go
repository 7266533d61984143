package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx driver
	"github.com/zeromicro/go-zero/core/stores/sqlx"

	"ashare-data/internal/cli"
	"ashare-data/internal/config"
	barspersist "ashare-data/internal/persistence/bars"
	csvpersist "ashare-data/internal/persistence/csv"
	"ashare-data/pkg/chart"
	marketpkg "ashare-data/pkg/market"

	// Import for side-effects: registers the eastmoney provider.
	_ "ashare-data/pkg/market/exchanges/eastmoney"
)

var configFile = flag.String("f", "etc/ashare.yaml", "config file")

func main() {
	flag.Parse()
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	log.Println("[main] Starting batch pipeline...")

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("[main] Failed to load config: %v", err)
	}

	log.Printf("[main] Configuration loaded:")
	for _, line := range cli.ConfigSummaryLines(cfg) {
		log.Printf("  - %s", line)
	}

	if len(cfg.Symbols) == 0 {
		log.Fatalf("[main] No symbols configured")
	}
	if err := cfg.EnsureDirs(); err != nil {
		log.Fatalf("[main] %v", err)
	}
	start, end, err := cfg.DateRange()
	if err != nil {
		log.Fatalf("[main] %v", err)
	}

	marketCfg := cfg.Market.Value
	if marketCfg == nil {
		marketCfg = marketpkg.MustLoad()
	}
	providers, err := marketCfg.BuildProviders()
	if err != nil {
		log.Fatalf("[main] Failed to build market providers: %v", err)
	}
	provider, ok := providers[marketCfg.Default]
	if !ok {
		log.Fatalf("[main] Default market provider %q not found", marketCfg.Default)
	}

	sinks := []marketpkg.Sink{
		csvpersist.NewWriter(cfg.DataDir),
		chart.NewRenderer(cfg.PlotDir),
	}
	if cfg.Postgres.DSN != "" {
		conn := sqlx.NewSqlConn("pgx", cfg.Postgres.DSN)
		if bars := barspersist.NewService(conn); bars != nil {
			sinks = append(sinks, bars)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	orchestrator := marketpkg.NewOrchestrator(marketpkg.OrchestratorConfig{
		Symbols: cfg.Symbols,
		Workers: cfg.Workers,
		Start:   start,
		End:     end,
	}, marketpkg.NewFetcher(provider, cfg.MaxFetchAttempts), sinks...)

	summary, _ := orchestrator.Run(ctx)
	log.Printf("[main] Batch complete: %s", summary)
}
