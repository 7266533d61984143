package market

import (
	"context"
	"errors"
	"time"
)

// testBars builds n valid consecutive daily bars starting at basePrice,
// close stepping up by one each day.
func testBars(n int, basePrice float64) []Bar {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]Bar, n)
	for i := range bars {
		px := basePrice + float64(i)
		bars[i] = Bar{
			Date:   start.AddDate(0, 0, i),
			Open:   px - 0.5,
			High:   px + 1,
			Low:    px - 1,
			Close:  px,
			Volume: 10_000 + int64(i),
		}
	}
	return bars
}

// scriptedProvider fails a fixed number of leading calls, then serves
// its bars.
type scriptedProvider struct {
	failures int
	bars     []Bar
	calls    int
}

func (p *scriptedProvider) History(_ context.Context, _ string, _, _ time.Time) ([]Bar, error) {
	p.calls++
	if p.calls <= p.failures {
		return nil, errors.New("connection reset")
	}
	return p.bars, nil
}

// symbolProvider routes each symbol to its own canned response.
type symbolProvider struct {
	bars map[string][]Bar
	errs map[string]error
}

func (p *symbolProvider) History(_ context.Context, symbol string, _, _ time.Time) ([]Bar, error) {
	if err, ok := p.errs[symbol]; ok {
		return nil, err
	}
	return p.bars[symbol], nil
}

// memorySink collects series and is safe for concurrent use.
type memorySink struct {
	ch chan EnrichedSeries
}

func newMemorySink(capacity int) *memorySink {
	return &memorySink{ch: make(chan EnrichedSeries, capacity)}
}

func (s *memorySink) WriteSeries(_ context.Context, series EnrichedSeries) error {
	s.ch <- series
	return nil
}

func (s *memorySink) collect() []EnrichedSeries {
	close(s.ch)
	out := make([]EnrichedSeries, 0, len(s.ch))
	for series := range s.ch {
		out = append(out, series)
	}
	return out
}
