package dashboard

import "ashare-data/pkg/market"

// HistoryResponse is the dashboard chart payload. Optional panels are
// present only when their indicator toggle was requested; every
// parameter change replaces the whole figure client-side.
type HistoryResponse struct {
	Symbol string   `json:"symbol"`
	Dates  []string `json:"dates"`
	Open   []float64 `json:"open"`
	High   []float64 `json:"high"`
	Low    []float64 `json:"low"`
	Close  []float64 `json:"close"`
	Volume []int64   `json:"volume"`
	MA5    []float64 `json:"ma5"`
	MA10   []float64 `json:"ma10"`
	MA20   []float64 `json:"ma20"`

	MACD *MACDPanel `json:"macd,omitempty"`
	RSI  []float64  `json:"rsi,omitempty"`
	Boll *BollPanel `json:"boll,omitempty"`
}

type MACDPanel struct {
	MACD   []float64 `json:"macd"`
	Signal []float64 `json:"signal"`
	Hist   []float64 `json:"hist"`
}

type BollPanel struct {
	Upper []float64 `json:"upper"`
	Mid   []float64 `json:"mid"`
	Lower []float64 `json:"lower"`
}

// buildResponse projects an enriched series onto the wire shape,
// keeping only the requested indicator panels.
func buildResponse(series market.EnrichedSeries, indicators map[string]bool) *HistoryResponse {
	n := len(series.Bars)
	resp := &HistoryResponse{
		Symbol: series.Symbol,
		Dates:  make([]string, n),
		Open:   make([]float64, n),
		High:   make([]float64, n),
		Low:    make([]float64, n),
		Close:  make([]float64, n),
		Volume: make([]int64, n),
		MA5:    series.MA5,
		MA10:   series.MA10,
		MA20:   series.MA20,
	}
	for i, bar := range series.Bars {
		resp.Dates[i] = bar.Date.Format("2006-01-02")
		resp.Open[i] = bar.Open
		resp.High[i] = bar.High
		resp.Low[i] = bar.Low
		resp.Close[i] = bar.Close
		resp.Volume[i] = bar.Volume
	}
	if indicators["MACD"] {
		resp.MACD = &MACDPanel{MACD: series.MACD, Signal: series.Signal, Hist: series.Hist}
	}
	if indicators["RSI"] {
		resp.RSI = series.RSI
	}
	if indicators["BOLL"] && series.BollUpper != nil {
		resp.Boll = &BollPanel{Upper: series.BollUpper, Mid: series.BollMid, Lower: series.BollLower}
	}
	return resp
}
