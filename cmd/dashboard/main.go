package main

import (
	"flag"
	"log"

	"github.com/zeromicro/go-zero/rest"

	"ashare-data/internal/cli"
	"ashare-data/internal/config"
	"ashare-data/internal/dashboard"
	"ashare-data/internal/svc"

	// Import for side-effects: registers the eastmoney provider.
	_ "ashare-data/pkg/market/exchanges/eastmoney"
)

var configFile = flag.String("f", "etc/ashare.yaml", "config file")

func main() {
	flag.Parse()
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	log.Println("[main] Starting dashboard...")

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("[main] Failed to load config: %v", err)
	}
	cli.LogConfigSummary(cfg)

	svcCtx := svc.NewServiceContext(cfg)

	server := rest.MustNewServer(cfg.RestConf)
	defer server.Stop()

	dashboard.RegisterHandlers(server, svcCtx)

	log.Printf("[main] Dashboard listening on %s:%d", cfg.Host, cfg.Port)
	server.Start()
}
