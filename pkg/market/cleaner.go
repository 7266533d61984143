package market

import (
	"math"

	"github.com/zeromicro/go-zero/core/logx"
)

// Clean applies the validity filters to a fetch outcome and returns the
// surviving series. The second return is false when there is nothing
// usable: the fetch already failed or came back empty, or every row was
// anomalous.
//
// Rules, applied in order over the survivors of the previous rule:
//  1. drop rows where every field is missing
//  2. drop rows with volume <= 0 (trading halts)
//  3. drop rows with any non-positive price
//
// That is the whole contract. No single-day move threshold is applied.
func Clean(outcome FetchOutcome) (Series, bool) {
	if outcome.Err != nil || outcome.Empty || outcome.Series.Empty() {
		return Series{Symbol: outcome.Series.Symbol}, false
	}

	src := outcome.Series
	kept := make([]Bar, 0, len(src.Bars))
	for _, bar := range src.Bars {
		if allMissing(bar) {
			continue
		}
		if bar.Volume <= 0 {
			continue
		}
		if bar.Open <= 0 || bar.High <= 0 || bar.Low <= 0 || bar.Close <= 0 {
			continue
		}
		kept = append(kept, bar)
	}

	if len(kept) == 0 {
		logx.Slowf("clean %s: no rows survived cleaning, all %d rows anomalous", src.Symbol, len(src.Bars))
		return Series{Symbol: src.Symbol}, false
	}
	return Series{Symbol: src.Symbol, Bars: kept}, true
}

// allMissing reports a row whose every field is absent: NaN prices and
// zero volume. Providers that omit a row's payload decode to exactly
// this shape.
func allMissing(bar Bar) bool {
	return math.IsNaN(bar.Open) && math.IsNaN(bar.High) &&
		math.IsNaN(bar.Low) && math.IsNaN(bar.Close) && bar.Volume == 0
}
