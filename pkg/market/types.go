package market

import (
	"fmt"
	"time"
)

// Bar is one daily OHLCV record. Prices are back-adjusted so that
// historical levels stay comparable across splits and dividends.
type Bar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// Series is a time-ordered run of daily bars for one symbol.
type Series struct {
	Symbol string
	Bars   []Bar
}

// Empty reports whether the series carries no bars.
func (s Series) Empty() bool { return len(s.Bars) == 0 }

// Closes returns the close column as a slice, oldest first.
func (s Series) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}

// Validate enforces the series ordering invariant: dates must be unique
// and strictly increasing. A series violating this is rejected outright
// rather than silently reordered.
func (s Series) Validate() error {
	for i := 1; i < len(s.Bars); i++ {
		prev, cur := s.Bars[i-1].Date, s.Bars[i].Date
		if !cur.After(prev) {
			return fmt.Errorf("series %s: date %s at row %d is not after %s",
				s.Symbol, cur.Format("2006-01-02"), i, prev.Format("2006-01-02"))
		}
	}
	return nil
}

// EnrichedSeries pairs a cleaned series with its derived indicator
// columns. Every derived slice has the same length and date index as
// Bars; rows that would carry an undefined derived cell are trimmed
// before the value is returned to callers.
type EnrichedSeries struct {
	Series
	MA5    []float64
	MA10   []float64
	MA20   []float64
	MACD   []float64
	Signal []float64
	Hist   []float64
	RSI    []float64

	// Bollinger bands are computed on demand for the dashboard and may
	// be nil for batch output.
	BollUpper []float64
	BollMid   []float64
	BollLower []float64
}

// FetchError is the terminal form of a failed fetch: every retry
// attempt raised, and the last error's description is preserved.
type FetchError struct {
	Symbol   string
	Attempts int
	Message  string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %d attempts failed: %s", e.Symbol, e.Attempts, e.Message)
}

// FetchOutcome is the per-symbol result of the fetch stage. Exactly one
// of the three states holds: a non-empty series, an explicit empty
// result, or a terminal error.
type FetchOutcome struct {
	Series Series
	Empty  bool
	Err    *FetchError
}

// OK reports whether the outcome carries usable rows.
func (o FetchOutcome) OK() bool { return o.Err == nil && !o.Empty && !o.Series.Empty() }
