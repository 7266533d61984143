package dashboard

import (
	"context"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zeromicro/go-zero/core/logx"

	cachekeys "ashare-data/internal/cache"
	"ashare-data/internal/svc"
	"ashare-data/pkg/market"
)

// Repo produces enriched history for the dashboard, caching computed
// payloads in Redis so repeated parameter changes over the same window
// do not re-fetch from the provider. Values are msgpack-encoded; the
// cache key carries symbol and date range only, since the cached value
// always holds every indicator column.
type Repo struct {
	svc *svc.ServiceContext
}

func NewRepo(svcCtx *svc.ServiceContext) *Repo {
	return &Repo{svc: svcCtx}
}

// History fetches, cleans, and enriches the requested window. An empty
// series (unknown symbol, halted range, all rows anomalous) comes back
// as an empty EnrichedSeries with a nil error.
func (r *Repo) History(ctx context.Context, symbol string, start, end time.Time) (market.EnrichedSeries, error) {
	key := cachekeys.HistoryKey(market.NormalizeSymbol(symbol),
		start.Format("20060102"), end.Format("20060102"))

	if cached, ok := r.getCache(ctx, key); ok {
		return cached, nil
	}

	outcome := r.svc.Fetcher.FetchRange(ctx, symbol, start, end)
	if outcome.Err != nil {
		return market.EnrichedSeries{}, outcome.Err
	}
	cleaned, ok := market.Clean(outcome)
	if !ok {
		return market.EnrichedSeries{Series: cleaned}, nil
	}

	enriched := market.EnrichWithBollinger(cleaned)
	r.setCache(ctx, key, enriched)
	return enriched, nil
}

func (r *Repo) getCache(ctx context.Context, key string) (market.EnrichedSeries, bool) {
	if r.svc.Cache == nil {
		return market.EnrichedSeries{}, false
	}
	raw, err := r.svc.Cache.GetCtx(ctx, key)
	if err != nil || raw == "" {
		return market.EnrichedSeries{}, false
	}
	var series market.EnrichedSeries
	if err := msgpack.Unmarshal([]byte(raw), &series); err != nil {
		logx.WithContext(ctx).Errorf("decode cached history %s: %v", key, err)
		return market.EnrichedSeries{}, false
	}
	return series, true
}

func (r *Repo) setCache(ctx context.Context, key string, series market.EnrichedSeries) {
	if r.svc.Cache == nil {
		return
	}
	payload, err := msgpack.Marshal(series)
	if err != nil {
		logx.WithContext(ctx).Errorf("encode history %s: %v", key, err)
		return
	}
	ttl := int(r.svc.TTL.Medium.Seconds())
	if ttl <= 0 {
		return
	}
	if err := r.svc.Cache.SetexCtx(ctx, key, string(payload), ttl); err != nil {
		logx.WithContext(ctx).Errorf("set cache %s: %v", key, err)
	}
}
