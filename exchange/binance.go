package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"cryptoai/model"
	"cryptoai/utils/resty"
)

const (
	binanceBaseREST = "https://api.binance.com"
	binanceBaseWS   = "wss://stream.binance.com:9443"
)

// Binance : public market data client (ticker + klines), read-only.
// Spot prices and candles come from the unauthenticated REST API; a websocket
// ticker stream is optional (see stream.go).
type Binance struct {
	ctx        context.Context
	cancelFunc context.CancelFunc

	resty resty.RestyClient

	// WebSocket (live ticker)
	ws *tickerStream
}

type BinanceOption func(*Binance)

// WithRestyClient swaps the HTTP client, used by tests.
func WithRestyClient(client resty.RestyClient) BinanceOption {
	return func(b *Binance) {
		b.resty = client
	}
}

func NewBinance(opts ...BinanceOption) *Binance {
	ctx, cancel := context.WithCancel(context.Background())
	b := &Binance{
		ctx:        ctx,
		cancelFunc: cancel,
		resty:      resty.NewDefaultRestyClientWithRetryCount(false, 2, 10*time.Second),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// tickerPriceResponse : GET /api/v3/ticker/price element
type tickerPriceResponse struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

// LastQuotes fetches the current spot price for each pair in one request.
func (b *Binance) LastQuotes(ctx context.Context, pairs []string) (map[string]float64, error) {
	if len(pairs) == 0 {
		return map[string]float64{}, nil
	}

	quoted := make([]string, len(pairs))
	for i, p := range pairs {
		quoted[i] = fmt.Sprintf("%q", strings.ToUpper(p))
	}
	symbols := "[" + strings.Join(quoted, ",") + "]"

	res, err := b.resty.MakeRequest(ctx, nil, nil).
		Get(binanceBaseREST+"/api/v3/ticker/price", resty.QueryParam{Key: "symbols", Value: symbols})
	if err != nil {
		return nil, fmt.Errorf("binance ticker request: %w", err)
	}
	if res.StatusCode() >= 400 {
		return nil, fmt.Errorf("binance ticker status %d: %s", res.StatusCode(), res.String())
	}

	var tickers []tickerPriceResponse
	if err := json.Unmarshal(res.Body(), &tickers); err != nil {
		return nil, fmt.Errorf("binance ticker parse: %w", err)
	}

	prices := make(map[string]float64, len(tickers))
	for _, t := range tickers {
		price, err := strconv.ParseFloat(t.Price, 64)
		if err != nil {
			return nil, fmt.Errorf("binance ticker price %q: %w", t.Price, err)
		}
		prices[t.Symbol] = price
	}
	return prices, nil
}

// CandlesByLimit fetches the most recent limit klines and normalizes the
// exchange-native arrays into Candles. Binance encodes each kline as a mixed
// array: open time in ms, then OHLC as strings.
func (b *Binance) CandlesByLimit(ctx context.Context, pair, interval string, limit int) ([]model.Candle, error) {
	res, err := b.resty.MakeRequest(ctx, nil, nil).
		Get(binanceBaseREST+"/api/v3/klines",
			resty.QueryParam{Key: "symbol", Value: strings.ToUpper(pair)},
			resty.QueryParam{Key: "interval", Value: interval},
			resty.QueryParam{Key: "limit", Value: limit},
		)
	if err != nil {
		return nil, fmt.Errorf("binance klines request: %w", err)
	}
	if res.StatusCode() >= 400 {
		return nil, fmt.Errorf("binance klines status %d: %s", res.StatusCode(), res.String())
	}

	var raw [][]interface{}
	if err := json.Unmarshal(res.Body(), &raw); err != nil {
		return nil, fmt.Errorf("binance klines parse: %w", err)
	}

	candles := make([]model.Candle, 0, len(raw))
	for _, k := range raw {
		candle, err := convertKline(pair, k)
		if err != nil {
			return nil, err
		}
		candles = append(candles, candle)
	}
	return candles, nil
}

func convertKline(pair string, k []interface{}) (model.Candle, error) {
	// [0] open time ms, [1] open, [2] high, [3] low, [4] close, [5] volume, [6] close time ...
	if len(k) < 7 {
		return model.Candle{}, fmt.Errorf("binance kline: short row (%d fields)", len(k))
	}

	openTimeMs, ok := k[0].(float64)
	if !ok {
		return model.Candle{}, fmt.Errorf("binance kline: open time is %T", k[0])
	}

	fields := make([]float64, 5)
	for i := 1; i <= 5; i++ {
		s, ok := k[i].(string)
		if !ok {
			return model.Candle{}, fmt.Errorf("binance kline: field %d is %T", i, k[i])
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return model.Candle{}, fmt.Errorf("binance kline: field %d %q: %w", i, s, err)
		}
		fields[i-1] = v
	}

	closeTimeMs, _ := k[6].(float64)
	complete := time.Now().UnixMilli() > int64(closeTimeMs)

	return model.Candle{
		Pair:     strings.ToUpper(pair),
		Time:     time.Unix(int64(openTimeMs)/1000, 0).UTC(),
		Open:     fields[0],
		High:     fields[1],
		Low:      fields[2],
		Close:    fields[3],
		Volume:   fields[4],
		Complete: complete,
	}, nil
}

// Stop tears down the websocket stream when one is running.
func (b *Binance) Stop() {
	b.cancelFunc()
	if b.ws != nil {
		b.ws.close()
	}
}
