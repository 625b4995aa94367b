package feed

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptoai/mocks"
	"cryptoai/model"
)

var feedStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestMarketFeed_PreloadFillsWindow(t *testing.T) {
	feeder := &mocks.MockFeeder{
		MockCandles: mocks.CandleSeries("BTCUSDT", feedStart, 100, 101, 102),
	}
	marketFeed := NewMarketFeed(feeder, []string{"BTCUSDT"}, "BTCUSDT", "1m", 100, time.Minute)

	require.NoError(t, marketFeed.Preload(context.Background()))

	window := marketFeed.Window()
	require.Len(t, window, 3)
	assert.Equal(t, 102.0, window[2].Close)
}

func TestMarketFeed_PollBroadcastsTick(t *testing.T) {
	feeder := &mocks.MockFeeder{
		MockQuotes:  map[string]float64{"BTCUSDT": 64000, "ETHUSDT": 3000},
		MockCandles: mocks.CandleSeries("BTCUSDT", feedStart, 100, 101),
	}
	marketFeed := NewMarketFeed(feeder, []string{"BTCUSDT", "ETHUSDT"}, "BTCUSDT", "1m", 100, time.Hour)

	var mu sync.Mutex
	var ticks []model.MarketTick
	marketFeed.Subscribe(func(tick model.MarketTick) {
		mu.Lock()
		defer mu.Unlock()
		ticks = append(ticks, tick)
	})

	marketFeed.poll()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, ticks, 1)
	assert.Equal(t, 64000.0, ticks[0].Prices["BTCUSDT"])
	assert.Equal(t, 3000.0, ticks[0].Prices["ETHUSDT"])
	assert.Equal(t, "BTCUSDT", ticks[0].Pair)
	require.Len(t, ticks[0].Candles, 2)
	last, ok := ticks[0].LastCandle()
	require.True(t, ok)
	assert.Equal(t, 101.0, last.Close)
}

func TestMarketFeed_PollErrorSkipsTick(t *testing.T) {
	feeder := &mocks.MockFeeder{QuotesErr: assert.AnError}
	marketFeed := NewMarketFeed(feeder, []string{"BTCUSDT"}, "BTCUSDT", "1m", 100, time.Hour)

	delivered := 0
	marketFeed.Subscribe(func(tick model.MarketTick) { delivered++ })

	marketFeed.poll()

	assert.Zero(t, delivered)
	assert.Equal(t, 1, feeder.LastQuotesCount)
}

func TestMarketFeed_ApplyUpdateRewritesLastCandle(t *testing.T) {
	feeder := &mocks.MockFeeder{
		MockCandles: mocks.CandleSeries("BTCUSDT", feedStart, 100, 101),
	}
	marketFeed := NewMarketFeed(feeder, []string{"BTCUSDT"}, "BTCUSDT", "1m", 100, time.Hour)
	require.NoError(t, marketFeed.Preload(context.Background()))

	marketFeed.ApplyUpdate(model.PriceUpdate{Pair: "BTCUSDT", Price: 105, Time: feedStart.Add(90 * time.Second)})

	window := marketFeed.Window()
	require.Len(t, window, 2)
	assert.Equal(t, 105.0, window[1].Close)
	assert.Equal(t, 105.0, window[1].High)

	// updates for other pairs leave the window alone
	marketFeed.ApplyUpdate(model.PriceUpdate{Pair: "ETHUSDT", Price: 1})
	assert.Equal(t, 105.0, marketFeed.Window()[1].Close)
}

func TestTradeFeed_PublishReachesSubscriberInOrder(t *testing.T) {
	tradeFeed := NewTradeFeed()

	var mu sync.Mutex
	var got []model.TradeRequest
	done := make(chan struct{}, 3)
	tradeFeed.Subscribe("BTCUSDT", func(req model.TradeRequest) {
		mu.Lock()
		got = append(got, req)
		mu.Unlock()
		done <- struct{}{}
	})
	tradeFeed.Start()
	defer tradeFeed.Stop()

	for _, price := range []float64{1, 2, 3} {
		tradeFeed.Publish(model.TradeRequest{
			UserID: "u1", Pair: "BTCUSDT", Type: model.TradeTypeBuy, Price: price, Amount: 0.001,
		})
	}

	for i := 0; i < 3; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("trade request not delivered")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 3)
	assert.Equal(t, []float64{1, 2, 3}, []float64{got[0].Price, got[1].Price, got[2].Price})
}

func TestTradeFeed_PublishUnknownPairIsDropped(t *testing.T) {
	tradeFeed := NewTradeFeed()
	tradeFeed.Start()
	defer tradeFeed.Stop()

	// no subscription for this pair, must not panic or block
	tradeFeed.Publish(model.TradeRequest{UserID: "u1", Pair: "ETHUSDT", Type: model.TradeTypeSell})
}
