package market

import (
	"math"

	"ashare-data/pkg/market/indicators"
)

// Enrich derives the standard indicator columns from a cleaned series.
// It is a pure function: no I/O, deterministic for a given input, and
// it neither adds nor removes dates during computation. After all
// columns are computed, the leading rows whose slowest-converging
// indicator is still undefined are trimmed, so the returned series has
// no undefined cell in any derived column.
func Enrich(series Series) EnrichedSeries {
	return enrich(series, false)
}

// EnrichWithBollinger is Enrich plus the 20-bar 2-sigma Bollinger
// bands requested by the dashboard's indicator toggle.
func EnrichWithBollinger(series Series) EnrichedSeries {
	return enrich(series, true)
}

func enrich(series Series, bollinger bool) EnrichedSeries {
	if series.Empty() {
		return EnrichedSeries{Series: series}
	}

	closes := series.Closes()
	enriched := EnrichedSeries{
		Series: series,
		MA5:    indicators.SMA(closes, 5),
		MA10:   indicators.SMA(closes, 10),
		MA20:   indicators.SMA(closes, 20),
		RSI:    indicators.RSI(closes, 14),
	}
	enriched.MACD, enriched.Signal, enriched.Hist = indicators.MACD(closes)
	if bollinger {
		enriched.BollUpper, enriched.BollMid, enriched.BollLower = indicators.Bollinger(closes, 20, 2)
	}
	return enriched.trim()
}

// trim removes every row that still carries an undefined derived value.
// With seeded EMAs the MACD family is defined from bar 0, so the cut is
// governed by whichever of the MA20 and RSI windows converges last.
func (e EnrichedSeries) trim() EnrichedSeries {
	first := len(e.Bars)
	for i := 0; i < len(e.Bars); i++ {
		if e.rowDefined(i) {
			first = i
			break
		}
	}
	// Undefined cells can also appear mid-series (a flat RSI window
	// divides 0/0); collect the defined rows rather than slicing.
	out := EnrichedSeries{Series: Series{Symbol: e.Symbol}}
	for i := first; i < len(e.Bars); i++ {
		if !e.rowDefined(i) {
			continue
		}
		out.Bars = append(out.Bars, e.Bars[i])
		out.MA5 = append(out.MA5, e.MA5[i])
		out.MA10 = append(out.MA10, e.MA10[i])
		out.MA20 = append(out.MA20, e.MA20[i])
		out.MACD = append(out.MACD, e.MACD[i])
		out.Signal = append(out.Signal, e.Signal[i])
		out.Hist = append(out.Hist, e.Hist[i])
		out.RSI = append(out.RSI, e.RSI[i])
		if e.BollUpper != nil {
			out.BollUpper = append(out.BollUpper, e.BollUpper[i])
			out.BollMid = append(out.BollMid, e.BollMid[i])
			out.BollLower = append(out.BollLower, e.BollLower[i])
		}
	}
	return out
}

func (e EnrichedSeries) rowDefined(i int) bool {
	cells := []float64{e.MA5[i], e.MA10[i], e.MA20[i], e.MACD[i], e.Signal[i], e.Hist[i], e.RSI[i]}
	if e.BollUpper != nil {
		cells = append(cells, e.BollUpper[i], e.BollMid[i], e.BollLower[i])
	}
	for _, v := range cells {
		if math.IsNaN(v) {
			return false
		}
	}
	return true
}
