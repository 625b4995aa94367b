package chartview

import (
	"sort"
	"sync"

	"cryptoai/model"
)

// ChartDataStore holds the live candle window and the derived indicator
// series the chart pages render.
type ChartDataStore struct {
	mu sync.Mutex

	candles []model.Candle

	rsi        []float64
	sma20      []float64
	bbandUpper []float64
	bbandLower []float64
}

// GlobalChartData is the process-wide store the bot writes into.
var GlobalChartData = &ChartDataStore{}

// ReplaceCandles swaps the full window. The feed delivers complete snapshots
// per poll cycle, so append-only bookkeeping is not needed here.
func (ds *ChartDataStore) ReplaceCandles(candles []model.Candle) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	ds.candles = make([]model.Candle, len(candles))
	copy(ds.candles, candles)
}

func (ds *ChartDataStore) GetCandles() []model.Candle {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	out := make([]model.Candle, len(ds.candles))
	copy(out, ds.candles)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Time.Before(out[j].Time)
	})
	return out
}

func (ds *ChartDataStore) UpdateIndicators(rsi, sma20, bbandUpper, bbandLower []float64) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	ds.rsi = rsi
	ds.sma20 = sma20
	ds.bbandUpper = bbandUpper
	ds.bbandLower = bbandLower
}

func (ds *ChartDataStore) GetIndicators() (rsi, sma20, bbandUpper, bbandLower []float64) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	return ds.rsi, ds.sma20, ds.bbandUpper, ds.bbandLower
}

// GetTimeAxis renders the x axis labels from the candle open times.
func (ds *ChartDataStore) GetTimeAxis() []string {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	out := make([]string, len(ds.candles))
	for i, c := range ds.candles {
		out[i] = c.Time.Format("01/02 15:04")
	}
	return out
}
