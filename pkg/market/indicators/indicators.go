package indicators

import "math"

// The kernels below all return a slice the same length as their input,
// with math.NaN() in every cell whose lookback window is not yet full.
// Callers decide what to do with the warm-up rows.

// SMA produces the simple moving average over the given window.
func SMA(values []float64, window int) []float64 {
	result := nanSlice(len(values))
	if window <= 0 || len(values) < window {
		return result
	}
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			result[i] = sum / float64(window)
		}
	}
	return result
}

// EMA produces the exponential moving average with the given span,
// seeded at the first observation: EMA[0] = values[0], then
// EMA[t] = alpha*values[t] + (1-alpha)*EMA[t-1] with alpha = 2/(span+1).
// The seeded recursion defines a value from the very first bar; early
// values are low-confidence by construction but never NaN for finite
// input.
func EMA(values []float64, span int) []float64 {
	result := nanSlice(len(values))
	if span <= 0 || len(values) == 0 {
		return result
	}
	alpha := 2.0 / float64(span+1)
	result[0] = values[0]
	for i := 1; i < len(values); i++ {
		result[i] = alpha*values[i] + (1-alpha)*result[i-1]
	}
	return result
}

// MACD returns the MACD line (EMA12-EMA26), its 9-span signal line, and
// the histogram (MACD-Signal).
func MACD(values []float64) (macd, signal, hist []float64) {
	ema12 := EMA(values, 12)
	ema26 := EMA(values, 26)

	macd = make([]float64, len(values))
	for i := range values {
		macd[i] = ema12[i] - ema26[i]
	}
	signal = EMA(macd, 9)
	hist = make([]float64, len(values))
	for i := range values {
		hist[i] = macd[i] - signal[i]
	}
	return macd, signal, hist
}

// RSI computes the Relative Strength Index from simple rolling means of
// gains and losses over the given period. The first delta does not
// exist, so the first defined value sits at index period.
//
// Division policy for a zero average loss is deliberate and relies on
// IEEE-754 semantics: gain/0 = +Inf collapses to RSI 100, and 0/0 = NaN
// leaves the cell undefined so it is trimmed with the warm-up rows.
func RSI(values []float64, period int) []float64 {
	result := nanSlice(len(values))
	if period <= 0 || len(values) <= period {
		return result
	}

	gains := make([]float64, len(values))
	losses := make([]float64, len(values))
	for i := 1; i < len(values); i++ {
		delta := values[i] - values[i-1]
		gains[i] = math.Max(delta, 0)
		losses[i] = math.Max(-delta, 0)
	}

	var gainSum, lossSum float64
	for i := 1; i < len(values); i++ {
		gainSum += gains[i]
		lossSum += losses[i]
		if i > period {
			gainSum -= gains[i-period]
			lossSum -= losses[i-period]
		}
		if i >= period {
			avgGain := gainSum / float64(period)
			avgLoss := lossSum / float64(period)
			rs := avgGain / avgLoss
			result[i] = 100 - 100/(1+rs)
		}
	}
	return result
}

// Bollinger returns the upper, middle, and lower bands for the given
// window and standard-deviation multiple.
func Bollinger(values []float64, window int, k float64) (upper, mid, lower []float64) {
	mid = SMA(values, window)
	upper = nanSlice(len(values))
	lower = nanSlice(len(values))
	if window <= 0 || len(values) < window {
		return upper, mid, lower
	}
	for i := window - 1; i < len(values); i++ {
		var variance float64
		for j := i - window + 1; j <= i; j++ {
			d := values[j] - mid[i]
			variance += d * d
		}
		sd := math.Sqrt(variance / float64(window))
		upper[i] = mid[i] + k*sd
		lower[i] = mid[i] - k*sd
	}
	return upper, mid, lower
}

func nanSlice(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}
