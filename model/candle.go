package model

import "time"

type Candle struct {
	Pair     string    `json:"pair,omitempty"`
	Time     time.Time `json:"time"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	Volume   float64   `json:"volume"`
	Complete bool      `json:"complete"`
}

// CandleWindow keeps the most recent capacity candles in time order, evicting
// the oldest on overflow. A candle with the same open time as the newest entry
// replaces it (partial bar update).
type CandleWindow struct {
	capacity int
	candles  []Candle
}

func NewCandleWindow(capacity int) *CandleWindow {
	return &CandleWindow{
		capacity: capacity,
		candles:  make([]Candle, 0, capacity),
	}
}

func (w *CandleWindow) Push(candle Candle) {
	n := len(w.candles)
	if n > 0 && w.candles[n-1].Time.Equal(candle.Time) {
		w.candles[n-1] = candle
		return
	}
	if n > 0 && candle.Time.Before(w.candles[n-1].Time) {
		// late candle, ignore
		return
	}
	w.candles = append(w.candles, candle)
	if len(w.candles) > w.capacity {
		w.candles = w.candles[len(w.candles)-w.capacity:]
	}
}

// Replace swaps the whole window content, keeping only the newest capacity
// candles. Used when a poll returns a full kline snapshot.
func (w *CandleWindow) Replace(candles []Candle) {
	if len(candles) > w.capacity {
		candles = candles[len(candles)-w.capacity:]
	}
	w.candles = w.candles[:0]
	w.candles = append(w.candles, candles...)
}

func (w *CandleWindow) Len() int {
	return len(w.candles)
}

func (w *CandleWindow) Candles() []Candle {
	out := make([]Candle, len(w.candles))
	copy(out, w.candles)
	return out
}

func (w *CandleWindow) Closes() Series[float64] {
	out := make(Series[float64], len(w.candles))
	for i, c := range w.candles {
		out[i] = c.Close
	}
	return out
}

func (w *CandleWindow) Last() (Candle, bool) {
	if len(w.candles) == 0 {
		return Candle{}, false
	}
	return w.candles[len(w.candles)-1], true
}
