package eastmoney

// klineResponse is the raw payload of the push2his kline endpoint. The
// interesting part is Data.Klines: each entry is one comma-joined row
// whose field order follows the requested fields2 list
// (f51..f57 = date, open, close, high, low, volume, amount).
type klineResponse struct {
	RC   int        `json:"rc"`
	Data *klineData `json:"data"`
}

type klineData struct {
	Code   string   `json:"code"`
	Market int      `json:"market"`
	Name   string   `json:"name"`
	Klines []string `json:"klines"`
}
