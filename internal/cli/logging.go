package cli

import (
	"fmt"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	"ashare-data/internal/config"
)

// ConfigSummaryLines returns human readable lines describing the loaded
// app config.
func ConfigSummaryLines(cfg *config.Config) []string {
	if cfg == nil {
		return []string{"Configuration: <nil>"}
	}

	endDate := cfg.EndDate
	if strings.TrimSpace(endDate) == "" {
		endDate = "today"
	}

	lines := []string{
		fmt.Sprintf("Environment: %s", cfg.Env),
		fmt.Sprintf("Symbols: %d configured", len(cfg.Symbols)),
		fmt.Sprintf("Date range: %s .. %s", cfg.StartDate, endDate),
		fmt.Sprintf("Data dir: %s", cfg.DataDir),
		fmt.Sprintf("Plot dir: %s", cfg.PlotDir),
		fmt.Sprintf("Workers: %d", cfg.Workers),
		fmt.Sprintf("Postgres: %s", presence(cfg.Postgres.DSN != "")),
		fmt.Sprintf("Redis: %s", presence(strings.TrimSpace(cfg.Redis.Host) != "")),
		fmt.Sprintf("TTL (short/medium/long): %ds / %ds / %ds", cfg.TTL.Short, cfg.TTL.Medium, cfg.TTL.Long),
		marketLine(cfg),
	}
	return lines
}

// LogConfigSummary emits the configuration summary using logx.
func LogConfigSummary(cfg *config.Config) {
	lines := ConfigSummaryLines(cfg)
	if len(lines) == 0 {
		return
	}
	logx.Info("configuration summary")
	for _, line := range lines {
		logx.Infof("config • %s", line)
	}
}

func presence(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}

func marketLine(cfg *config.Config) string {
	switch {
	case strings.TrimSpace(cfg.Market.File) != "":
		return fmt.Sprintf("Market config: %s", cfg.Market.File)
	case cfg.Market.Value != nil:
		return "Market config: inline"
	default:
		return "Market config: not configured"
	}
}
