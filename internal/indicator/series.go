package indicator

import "math"

// 지표 시계열 계산 (oldest → newest 입력 기준)
// ⭐ SSOT: SMA/EMA/RSI/OBV 수식은 이 파일에서만

// smaSeries computes a simple moving average over the given window.
// Positions before window-1 are 0 (not enough history).
func smaSeries(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 0 || len(values) < window {
		return out
	}

	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		}
	}

	return out
}

// emaSeries computes an exponential moving average seeded with the SMA of
// the first window values. Positions before window-1 are 0.
func emaSeries(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 0 || len(values) < window {
		return out
	}

	var seed float64
	for i := 0; i < window; i++ {
		seed += values[i]
	}
	seed /= float64(window)
	out[window-1] = seed

	alpha := 2.0 / float64(window+1)
	prev := seed
	for i := window; i < len(values); i++ {
		prev = alpha*values[i] + (1-alpha)*prev
		out[i] = prev
	}

	return out
}

// rsiSeries computes the Wilder RSI over the given period.
// Positions before period are 0.
func rsiSeries(closes []float64, period int) []float64 {
	out := make([]float64, len(closes))
	if period <= 0 || len(closes) <= period {
		return out
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiValue(avgGain, avgLoss)

	// Wilder smoothing
	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = rsiValue(avgGain, avgLoss)
	}

	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// obvSeries computes on-balance volume. obv[0] starts at volume[0].
func obvSeries(closes, volumes []float64) []float64 {
	out := make([]float64, len(closes))
	if len(closes) == 0 {
		return out
	}

	out[0] = volumes[0]
	for i := 1; i < len(closes); i++ {
		switch {
		case closes[i] > closes[i-1]:
			out[i] = out[i-1] + volumes[i]
		case closes[i] < closes[i-1]:
			out[i] = out[i-1] - volumes[i]
		default:
			out[i] = out[i-1]
		}
	}

	return out
}

// lastN returns the last n defined values of series as a fixed-length slice.
// defined marks the first index at which the series carries a real value;
// shorter histories are zero padded at the old end.
// reverse=true flips the result to most-recent-first.
func lastN(series []float64, defined, n int, reverse bool) []float64 {
	out := make([]float64, n)
	if defined < 0 {
		defined = 0
	}

	avail := len(series) - defined
	if avail > n {
		avail = n
	}
	if avail < 0 {
		avail = 0
	}

	// oldest → newest로 채우고 필요시 뒤집는다
	for i := 0; i < avail; i++ {
		out[n-avail+i] = series[len(series)-avail+i]
	}
	if reverse {
		for l, r := 0, n-1; l < r; l, r = l+1, r-1 {
			out[l], out[r] = out[r], out[l]
		}
	}

	return out
}

// roundTo rounds v to the given number of decimal places.
func roundTo(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}

// roundSlice rounds every element in place and returns the slice.
func roundSlice(vals []float64, places int) []float64 {
	for i := range vals {
		vals[i] = roundTo(vals[i], places)
	}
	return vals
}
