package market

import (
	"context"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/core/logx"
)

// DefaultMaxAttempts bounds the sequential fetch attempts per symbol.
const DefaultMaxAttempts = 3

// Fetcher retrieves one symbol's raw daily series from a provider with
// bounded retry. Attempts are immediate: the upstream failures this
// guards against (flaky quote endpoints) clear on reconnect, not on
// wait.
type Fetcher struct {
	provider    Provider
	maxAttempts int
}

// NewFetcher constructs a Fetcher. maxAttempts values below 1 fall back
// to the default of 3.
func NewFetcher(provider Provider, maxAttempts int) *Fetcher {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Fetcher{provider: provider, maxAttempts: maxAttempts}
}

// NormalizeSymbol strips an exchange-suffix segment from a symbol, e.g.
// "600519.SH" becomes "600519". Only the bare identifier goes to the
// provider.
func NormalizeSymbol(symbol string) string {
	symbol = strings.TrimSpace(symbol)
	if i := strings.IndexByte(symbol, '.'); i >= 0 {
		return symbol[:i]
	}
	return symbol
}

// Fetch retrieves the full back-adjusted daily history for the symbol.
// The outcome is always a value, never a raised error: a non-empty
// series on success, Empty when the provider returned zero rows, or a
// FetchError once every attempt has failed. Each attempt is
// independent; the first successful attempt's result is used as-is.
func (f *Fetcher) Fetch(ctx context.Context, symbol string) FetchOutcome {
	return f.FetchRange(ctx, symbol, time.Time{}, time.Time{})
}

// FetchRange is Fetch with explicit date bounds, used by the dashboard.
func (f *Fetcher) FetchRange(ctx context.Context, symbol string, start, end time.Time) FetchOutcome {
	code := NormalizeSymbol(symbol)
	for attempt := 1; attempt <= f.maxAttempts; attempt++ {
		bars, err := f.provider.History(ctx, code, start, end)
		if err != nil {
			if attempt < f.maxAttempts {
				logx.WithContext(ctx).Slowf("fetch %s: attempt %d/%d failed, retrying: %v", code, attempt, f.maxAttempts, err)
				continue
			}
			logx.WithContext(ctx).Errorf("fetch %s: giving up after %d attempts: %v", code, f.maxAttempts, err)
			return FetchOutcome{Err: &FetchError{Symbol: code, Attempts: f.maxAttempts, Message: err.Error()}}
		}
		if len(bars) == 0 {
			// An empty result set is not expected to become non-empty
			// on retry; report it immediately without burning attempts.
			logx.WithContext(ctx).Slowf("fetch %s: provider returned no rows", code)
			return FetchOutcome{Empty: true, Series: Series{Symbol: code}}
		}
		series := Series{Symbol: code, Bars: bars}
		if err := series.Validate(); err != nil {
			logx.WithContext(ctx).Errorf("fetch %s: invalid series: %v", code, err)
			return FetchOutcome{Err: &FetchError{Symbol: code, Attempts: attempt, Message: err.Error()}}
		}
		logx.WithContext(ctx).Infof("fetch %s: %d bars retrieved", code, len(bars))
		return FetchOutcome{Series: series}
	}
	// Unreachable with maxAttempts >= 1; keep the compiler honest.
	return FetchOutcome{Err: &FetchError{Symbol: code, Attempts: f.maxAttempts, Message: "no attempts made"}}
}
