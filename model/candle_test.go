package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var windowStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func windowCandle(minute int, close float64) Candle {
	return Candle{
		Pair:  "BTCUSDT",
		Time:  windowStart.Add(time.Duration(minute) * time.Minute),
		Open:  close,
		High:  close,
		Low:   close,
		Close: close,
	}
}

func TestCandleWindow_EvictsOldest(t *testing.T) {
	w := NewCandleWindow(3)
	for i := 0; i < 5; i++ {
		w.Push(windowCandle(i, float64(i)))
	}

	require.Equal(t, 3, w.Len())
	candles := w.Candles()
	assert.Equal(t, 2.0, candles[0].Close)
	assert.Equal(t, 4.0, candles[2].Close)
}

func TestCandleWindow_SameOpenTimeReplaces(t *testing.T) {
	w := NewCandleWindow(10)
	w.Push(windowCandle(0, 100))
	w.Push(windowCandle(0, 101))

	require.Equal(t, 1, w.Len())
	last, ok := w.Last()
	require.True(t, ok)
	assert.Equal(t, 101.0, last.Close)
}

func TestCandleWindow_IgnoresLateCandle(t *testing.T) {
	w := NewCandleWindow(10)
	w.Push(windowCandle(5, 100))
	w.Push(windowCandle(1, 50))

	require.Equal(t, 1, w.Len())
	assert.Equal(t, 100.0, w.Closes().Last(0))
}

func TestSeries_CrossoverAndUnder(t *testing.T) {
	fast := Series[float64]{1, 3}
	slow := Series[float64]{2, 2}

	assert.True(t, fast.Crossover(slow))
	assert.False(t, fast.Crossunder(slow))
	assert.True(t, slow.Crossunder(fast))
}

func TestNewDataframe(t *testing.T) {
	df := NewDataframe("BTCUSDT", []Candle{windowCandle(0, 1), windowCandle(1, 2)})

	assert.Equal(t, "BTCUSDT", df.Pair)
	assert.Equal(t, Series[float64]{1, 2}, df.Close)
	assert.Equal(t, windowStart.Add(time.Minute), df.LastUpdate)
}

func TestStrategy_TypeAndTarget(t *testing.T) {
	buyAt := 49000.0
	sellAt := 70000.0

	buy := Strategy{BuyAt: &buyAt}
	sell := Strategy{SellAt: &sellAt}

	assert.Equal(t, TradeTypeBuy, buy.Type())
	assert.Equal(t, 49000.0, buy.Target())
	assert.Equal(t, TradeTypeSell, sell.Type())
	assert.Equal(t, 70000.0, sell.Target())
}
