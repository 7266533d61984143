package eastmoney

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"ashare-data/pkg/market"
)

const (
	klinePath = "/api/qt/stock/kline/get"

	// klt=101 selects daily bars; fqt=2 selects back-adjustment, so
	// historical levels stay comparable across splits and dividends.
	// Both are fixed: the pipeline has no other sampling or adjustment
	// mode.
	periodDaily      = "101"
	adjustBackwards  = "2"
	openEndedEndDate = "20500101"
)

// DailyHistory fetches back-adjusted daily bars for a bare security
// code within [start, end]. Zero time bounds widen the range to the
// full available history. A known code with no rows yields an empty
// slice; an unknown code yields ErrSymbolNotFound.
func (c *Client) DailyHistory(ctx context.Context, code string, start, end time.Time) ([]market.Bar, error) {
	query := url.Values{}
	query.Set("secid", secIDFor(code))
	query.Set("fields1", "f1,f2,f3,f4,f5,f6")
	query.Set("fields2", "f51,f52,f53,f54,f55,f56,f57")
	query.Set("klt", periodDaily)
	query.Set("fqt", adjustBackwards)
	if start.IsZero() {
		query.Set("beg", "0")
	} else {
		query.Set("beg", start.Format("20060102"))
	}
	if end.IsZero() {
		query.Set("end", openEndedEndDate)
	} else {
		query.Set("end", end.Format("20060102"))
	}

	var response klineResponse
	if err := c.doRequest(ctx, klinePath, query, &response); err != nil {
		return nil, err
	}
	if response.Data == nil {
		return nil, fmt.Errorf("%w: %s", ErrSymbolNotFound, code)
	}

	bars := make([]market.Bar, 0, len(response.Data.Klines))
	for _, row := range response.Data.Klines {
		bar, err := parseKline(row)
		if err != nil {
			return nil, fmt.Errorf("eastmoney: %s: %w", code, err)
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

// parseKline maps one comma-joined localized row onto canonical bar
// fields. The upstream column order is date, open, close, high, low,
// volume, amount; note close before high and low.
func parseKline(row string) (market.Bar, error) {
	fields := strings.Split(row, ",")
	if len(fields) < 6 {
		return market.Bar{}, fmt.Errorf("malformed kline row %q", row)
	}

	date, err := time.Parse("2006-01-02", fields[0])
	if err != nil {
		return market.Bar{}, fmt.Errorf("parse date %q: %w", fields[0], err)
	}

	prices := make([]float64, 4)
	for i := 0; i < 4; i++ {
		v, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return market.Bar{}, fmt.Errorf("parse price %q: %w", fields[i+1], err)
		}
		prices[i] = v
	}

	volume, err := strconv.ParseInt(fields[5], 10, 64)
	if err != nil {
		return market.Bar{}, fmt.Errorf("parse volume %q: %w", fields[5], err)
	}

	return market.Bar{
		Date:   date,
		Open:   prices[0],
		Close:  prices[1],
		High:   prices[2],
		Low:    prices[3],
		Volume: volume,
	}, nil
}

// secIDFor prefixes a bare code with its exchange segment: 1 for
// Shanghai-listed codes, 0 for Shenzhen and the rest.
func secIDFor(code string) string {
	if strings.HasPrefix(code, "6") || strings.HasPrefix(code, "5") || strings.HasPrefix(code, "9") {
		return "1." + code
	}
	return "0." + code
}
