package mocks

import (
	"context"
	"sync"
	"time"

	"cryptoai/model"
)

// MockFeeder fakes the exchange market data source. Quotes and candles are
// set by the test; call counters allow asserting poll behavior.
type MockFeeder struct {
	mu sync.Mutex

	MockQuotes  map[string]float64
	MockCandles []model.Candle

	QuotesErr  error
	CandlesErr error

	LastQuotesCount     int
	CandlesByLimitCount int
}

func (m *MockFeeder) LastQuotes(ctx context.Context, pairs []string) (map[string]float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastQuotesCount++
	if m.QuotesErr != nil {
		return nil, m.QuotesErr
	}
	out := make(map[string]float64, len(pairs))
	for _, pair := range pairs {
		if price, ok := m.MockQuotes[pair]; ok {
			out[pair] = price
		}
	}
	return out, nil
}

func (m *MockFeeder) CandlesByLimit(ctx context.Context, pair, interval string, limit int) ([]model.Candle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CandlesByLimitCount++
	if m.CandlesErr != nil {
		return nil, m.CandlesErr
	}
	if len(m.MockCandles) > limit {
		return m.MockCandles[len(m.MockCandles)-limit:], nil
	}
	return m.MockCandles, nil
}

// SetQuote updates a pair's live price under the lock.
func (m *MockFeeder) SetQuote(pair string, price float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.MockQuotes == nil {
		m.MockQuotes = make(map[string]float64)
	}
	m.MockQuotes[pair] = price
}

// CandleSeries builds an ascending-time candle window where every candle
// closes at the given prices, one minute apart.
func CandleSeries(pair string, start time.Time, closes ...float64) []model.Candle {
	candles := make([]model.Candle, len(closes))
	for i, c := range closes {
		candles[i] = model.Candle{
			Pair:     pair,
			Time:     start.Add(time.Duration(i) * time.Minute),
			Open:     c,
			High:     c,
			Low:      c,
			Close:    c,
			Volume:   1,
			Complete: true,
		}
	}
	return candles
}
