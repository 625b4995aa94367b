package model

import "time"

// PriceUpdate is a single last-price observation for one pair.
type PriceUpdate struct {
	Pair  string    `json:"pair"`
	Price float64   `json:"price"`
	Time  time.Time `json:"time"`
}

// MarketTick is one poll cycle's snapshot: spot prices for every tracked pair
// and the candle window of the primary pair.
type MarketTick struct {
	Time    time.Time
	Prices  map[string]float64
	Pair    string
	Candles []Candle
}

// LastCandle returns the newest candle of the tick window.
func (t MarketTick) LastCandle() (Candle, bool) {
	if len(t.Candles) == 0 {
		return Candle{}, false
	}
	return t.Candles[len(t.Candles)-1], true
}
