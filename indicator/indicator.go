package indicator

import (
	"github.com/markcheno/go-talib"

	"cryptoai/model"
)

// RSI computes the Relative Strength Index over closing prices with Wilder's
// seed-and-smooth arithmetic. The first value is seeded from the simple mean of
// the first period deltas; every later value blends the running averages with
// avg = (avg*(period-1) + current) / period. When the average loss is exactly
// zero RS saturates at 100, pinning the oscillator to its upper bound.
//
// Returns len(prices)-period values, or nil when fewer than period+1 prices are
// supplied. Callers treat an empty result as "no signal".
func RSI(prices []float64, period int) []float64 {
	if len(prices) < period+1 {
		return nil
	}

	rsi := make([]float64, 0, len(prices)-period)
	gains := 0.0
	losses := 0.0

	for i := 1; i <= period; i++ {
		diff := prices[i] - prices[i-1]
		if diff > 0 {
			gains += diff
		} else {
			losses -= diff
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	rs := ratio(avgGain, avgLoss)
	rsi = append(rsi, 100-(100/(1+rs)))

	for i := period + 1; i < len(prices); i++ {
		diff := prices[i] - prices[i-1]
		gain := 0.0
		loss := 0.0
		if diff > 0 {
			gain = diff
		} else {
			loss = -diff
		}

		avgGain = ((avgGain * float64(period-1)) + gain) / float64(period)
		avgLoss = ((avgLoss * float64(period-1)) + loss) / float64(period)

		rs = ratio(avgGain, avgLoss)
		rsi = append(rsi, 100-(100/(1+rs)))
	}

	return rsi
}

func ratio(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	return avgGain / avgLoss
}

// LastRSI returns the most recent oscillator value, false when the series is
// too short to produce one.
func LastRSI(prices []float64, period int) (float64, bool) {
	values := RSI(prices, period)
	if len(values) == 0 {
		return 0, false
	}
	return values[len(values)-1], true
}

// SMA / EMA / BBands wrap go-talib for the chart overlays.

func SMA(source model.Series[float64], period int) model.Series[float64] {
	return talib.Sma(source, period)
}

func EMA(source model.Series[float64], period int) model.Series[float64] {
	return talib.Ema(source, period)
}

func BBands(source model.Series[float64], period int) (upper, middle, lower model.Series[float64]) {
	return talib.BBands(source, period, 2, 2, talib.SMA)
}
