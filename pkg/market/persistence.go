package market

import "context"

// Sink receives the terminal artifact of one symbol's pipeline.
// Implementations must be safe for concurrent use: the orchestrator
// invokes them from multiple worker goroutines, one symbol per call.
type Sink interface {
	WriteSeries(ctx context.Context, series EnrichedSeries) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, series EnrichedSeries) error

func (f SinkFunc) WriteSeries(ctx context.Context, series EnrichedSeries) error {
	return f(ctx, series)
}
