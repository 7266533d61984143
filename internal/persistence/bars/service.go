package barspersist

import (
	"context"
	"fmt"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/stores/sqlx"

	"ashare-data/pkg/market"
)

// Service mirrors enriched series into Postgres. It is an optional
// sink: the batch wires it only when a DSN is configured.
//
// Expected schema:
//
//	CREATE TABLE daily_bars (
//	    symbol     text NOT NULL,
//	    trade_date date NOT NULL,
//	    open   double precision NOT NULL,
//	    high   double precision NOT NULL,
//	    low    double precision NOT NULL,
//	    close  double precision NOT NULL,
//	    volume bigint NOT NULL,
//	    ma5, ma10, ma20, macd, signal, hist, rsi double precision,
//	    updated_at timestamptz NOT NULL DEFAULT now(),
//	    PRIMARY KEY (symbol, trade_date)
//	);
type Service struct {
	sqlConn sqlx.SqlConn
}

var _ market.Sink = (*Service)(nil)

// NewService wires a Postgres bar sink. Returns nil when the
// connection is missing so callers can skip wiring it.
func NewService(conn sqlx.SqlConn) *Service {
	if conn == nil {
		return nil
	}
	return &Service{sqlConn: conn}
}

const upsertBar = `
INSERT INTO daily_bars (
    symbol, trade_date, open, high, low, close, volume,
    ma5, ma10, ma20, macd, signal, hist, rsi, updated_at
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW()
)
ON CONFLICT (symbol, trade_date) DO UPDATE SET
    open = EXCLUDED.open,
    high = EXCLUDED.high,
    low = EXCLUDED.low,
    close = EXCLUDED.close,
    volume = EXCLUDED.volume,
    ma5 = EXCLUDED.ma5,
    ma10 = EXCLUDED.ma10,
    ma20 = EXCLUDED.ma20,
    macd = EXCLUDED.macd,
    signal = EXCLUDED.signal,
    hist = EXCLUDED.hist,
    rsi = EXCLUDED.rsi,
    updated_at = NOW()`

// WriteSeries upserts every bar of the series keyed (symbol, date).
func (s *Service) WriteSeries(ctx context.Context, series market.EnrichedSeries) error {
	if s == nil || s.sqlConn == nil || series.Empty() {
		return nil
	}

	err := s.sqlConn.TransactCtx(ctx, func(ctx context.Context, session sqlx.Session) error {
		for i, bar := range series.Bars {
			_, err := session.ExecCtx(ctx, upsertBar,
				series.Symbol, bar.Date.Format("2006-01-02"),
				bar.Open, bar.High, bar.Low, bar.Close, bar.Volume,
				series.MA5[i], series.MA10[i], series.MA20[i],
				series.MACD[i], series.Signal[i], series.Hist[i], series.RSI[i],
			)
			if err != nil {
				return fmt.Errorf("upsert %s %s: %w", series.Symbol, bar.Date.Format("2006-01-02"), err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("bars persist: %w", err)
	}

	logx.WithContext(ctx).Infof("bars persist %s: upserted %d rows", series.Symbol, len(series.Bars))
	return nil
}
