package market

import (
	"context"
	"time"
)

// Provider exposes a daily price-history source.
type Provider interface {
	// History returns back-adjusted daily bars for the symbol within
	// [start, end], oldest first. A zero start or end means "no bound"
	// on that side. Zero rows is a valid response, not an error.
	History(ctx context.Context, symbol string, start, end time.Time) ([]Bar, error)
}
