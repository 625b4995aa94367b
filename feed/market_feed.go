package feed

import (
	"context"
	"sync"
	"time"

	"github.com/StudioSol/set"

	"cryptoai/infrastructure"
	"cryptoai/interfaces"
	"cryptoai/model"
	"cryptoai/utils/log"
)

// MarketFeedSubscription polls the exchange on a fixed interval and
// broadcasts one MarketTick per cycle to every subscriber. A failed poll is
// logged and skipped; the loop never stops on exchange errors.
type MarketFeedSubscription struct {
	feeder interfaces.DataFeeder

	Pairs        *set.LinkedHashSetString
	primaryPair  string
	interval     string
	windowSize   int
	pollInterval time.Duration

	window        *model.CandleWindow
	subscriptions []MarketFeedConsumer

	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.RWMutex
	wg     sync.WaitGroup
}

type MarketFeedConsumer func(tick model.MarketTick)

// Flow: New -> Subscribe -> Preload -> Start

func NewMarketFeed(feeder interfaces.DataFeeder, pairs []string, primaryPair, interval string, windowSize int, pollInterval time.Duration) *MarketFeedSubscription {
	ctx, cancel := context.WithCancel(context.Background())
	feedPairs := set.NewLinkedHashSetString()
	for _, pair := range pairs {
		feedPairs.Add(pair)
	}
	return &MarketFeedSubscription{
		feeder:       feeder,
		Pairs:        feedPairs,
		primaryPair:  primaryPair,
		interval:     interval,
		windowSize:   windowSize,
		pollInterval: pollInterval,
		window:       model.NewCandleWindow(windowSize),
		ctx:          ctx,
		cancel:       cancel,
	}
}

func (m *MarketFeedSubscription) Subscribe(consumer MarketFeedConsumer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscriptions = append(m.subscriptions, consumer)
}

// Preload fills the candle window before the poll loop starts so indicator
// consumers see a full history on the first tick.
func (m *MarketFeedSubscription) Preload(ctx context.Context) error {
	candles, err := m.feeder.CandlesByLimit(ctx, m.primaryPair, m.interval, m.windowSize)
	if err != nil {
		return err
	}
	log.Infof("[SETUP] preloading %d candles for %s-%s", len(candles), m.primaryPair, m.interval)
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, candle := range candles {
		m.window.Push(candle)
	}
	return nil
}

func (m *MarketFeedSubscription) Start() {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		// immediate first cycle, then fixed interval
		m.poll()
		ticker := time.NewTicker(m.pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-m.ctx.Done():
				return
			case <-ticker.C:
				m.poll()
			}
		}
	}()
	log.Infof("Market feed connected. (%d pairs, every %s)", m.Pairs.Length(), m.pollInterval)
}

func (m *MarketFeedSubscription) poll() {
	pairs := make([]string, 0, m.Pairs.Length())
	for pair := range m.Pairs.Iter() {
		pairs = append(pairs, pair)
	}

	ctx, cancel := context.WithTimeout(m.ctx, m.pollInterval)
	defer cancel()

	prices, err := m.feeder.LastQuotes(ctx, pairs)
	if err != nil {
		infrastructure.FeedErrors.Inc()
		log.Error("marketFeedSubscription/poll quotes: ", err)
		return
	}

	candles, err := m.feeder.CandlesByLimit(ctx, m.primaryPair, m.interval, m.windowSize)
	if err != nil {
		infrastructure.FeedErrors.Inc()
		log.Error("marketFeedSubscription/poll candles: ", err)
		return
	}

	m.mu.Lock()
	for _, candle := range candles {
		m.window.Push(candle)
	}
	tick := model.MarketTick{
		Time:    time.Now().UTC(),
		Prices:  prices,
		Pair:    m.primaryPair,
		Candles: m.window.Candles(),
	}
	subscribers := make([]MarketFeedConsumer, len(m.subscriptions))
	copy(subscribers, m.subscriptions)
	m.mu.Unlock()

	infrastructure.FeedTicks.Inc()
	for pair, price := range prices {
		infrastructure.SetLastPrice(pair, price)
	}

	for _, consumer := range subscribers {
		consumer(tick)
	}
}

// ApplyUpdate folds a streamed price event into the next tick's state. The
// candle window is only mutated for the primary pair.
func (m *MarketFeedSubscription) ApplyUpdate(update model.PriceUpdate) {
	infrastructure.SetLastPrice(update.Pair, update.Price)
	if update.Pair != m.primaryPair {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if last, ok := m.window.Last(); ok {
		last.Close = update.Price
		if update.Price > last.High {
			last.High = update.Price
		}
		if update.Price < last.Low {
			last.Low = update.Price
		}
		// same open time replaces the newest bar in place
		m.window.Push(last)
	}
}

// Window returns a copy of the current primary-pair candle window.
func (m *MarketFeedSubscription) Window() []model.Candle {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.window.Candles()
}

func (m *MarketFeedSubscription) Stop() {
	m.cancel()
	m.wg.Wait()
}
