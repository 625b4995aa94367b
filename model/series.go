package model

import (
	"time"

	"golang.org/x/exp/constraints"
)

// Series is a time series of values
type Series[T constraints.Ordered] []T

// Values returns the values of the series
func (s Series[T]) Values() []T {
	return s
}

// Length returns the number of values in the series
func (s Series[T]) Length() int {
	return len(s)
}

// Last returns the last value of the series given a past index position
func (s Series[T]) Last(position int) T {
	return s[len(s)-1-position]
}

// LastValues returns the last values of the series given a size
func (s Series[T]) LastValues(size int) []T {
	if l := len(s); l > size {
		return s[l-size:]
	}
	return s
}

// Crossover returns true if the last value of the series is greater than the last value of the reference series
func (s Series[T]) Crossover(ref Series[T]) bool {
	return s.Last(0) > ref.Last(0) && s.Last(1) <= ref.Last(1)
}

// Crossunder returns true if the last value of the series is less than the last value of the reference series
func (s Series[T]) Crossunder(ref Series[T]) bool {
	return s.Last(0) <= ref.Last(0) && s.Last(1) > ref.Last(1)
}

// Dataframe groups the OHLCV series of one pair for indicator work.
type Dataframe struct {
	Pair string

	Close  Series[float64]
	Open   Series[float64]
	High   Series[float64]
	Low    Series[float64]
	Volume Series[float64]

	Time       []time.Time
	LastUpdate time.Time

	Metadata map[string]Series[float64]
}

// NewDataframe builds a Dataframe from a candle slice.
func NewDataframe(pair string, candles []Candle) *Dataframe {
	df := &Dataframe{
		Pair:     pair,
		Metadata: make(map[string]Series[float64]),
	}
	for _, c := range candles {
		df.Open = append(df.Open, c.Open)
		df.High = append(df.High, c.High)
		df.Low = append(df.Low, c.Low)
		df.Close = append(df.Close, c.Close)
		df.Volume = append(df.Volume, c.Volume)
		df.Time = append(df.Time, c.Time)
	}
	if len(df.Time) > 0 {
		df.LastUpdate = df.Time[len(df.Time)-1]
	}
	return df
}
