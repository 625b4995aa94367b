package feed

import (
	"context"
	"sync"

	"cryptoai/model"
	"cryptoai/utils/log"
)

type TradeFeed struct {
	Data chan model.TradeRequest
	Err  chan error
}

type TradeFeedConsumer func(req model.TradeRequest)

type TradeSubscription struct {
	consumer TradeFeedConsumer
}

// TradeFeedSubscription decouples trade decisions from ledger execution:
// the trader publishes TradeRequests per pair and consumers drain them in
// publish order, one goroutine per pair.
type TradeFeedSubscription struct {
	TradeFeeds             map[string]*TradeFeed
	SubscriptionsByFeedKey map[string][]TradeSubscription

	ctx    context.Context
	cancel context.CancelFunc

	mu sync.RWMutex
	wg sync.WaitGroup
}

func NewTradeFeed() *TradeFeedSubscription {
	ctx, cancel := context.WithCancel(context.Background())
	return &TradeFeedSubscription{
		TradeFeeds:             make(map[string]*TradeFeed),
		SubscriptionsByFeedKey: make(map[string][]TradeSubscription),
		ctx:                    ctx,
		cancel:                 cancel,
	}
}

// Flow: New -> Subscribe -> Start -> Publish

func (d *TradeFeedSubscription) Subscribe(pair string, consumer TradeFeedConsumer) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.TradeFeeds[pair]; !ok {
		d.TradeFeeds[pair] = &TradeFeed{
			Data: make(chan model.TradeRequest, 100), // buffered so publishers never block on slow consumers
			Err:  make(chan error, 10),
		}
	}

	d.SubscriptionsByFeedKey[pair] = append(d.SubscriptionsByFeedKey[pair], TradeSubscription{
		consumer: consumer,
	})
}

func (d *TradeFeedSubscription) Publish(req model.TradeRequest) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if feed, ok := d.TradeFeeds[req.Pair]; ok {
		select {
		case feed.Data <- req:
		case <-d.ctx.Done():
		}
	}
}

func (d *TradeFeedSubscription) Start() {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for pair := range d.TradeFeeds {
		d.wg.Add(1)
		go func(pair string, feed *TradeFeed) {
			defer d.wg.Done()
			for {
				select {
				case <-d.ctx.Done():
					return
				case req, ok := <-feed.Data:
					if !ok {
						return
					}
					d.deliverToSubscribers(pair, req)
				case err, ok := <-feed.Err:
					if ok {
						log.Error("tradeFeedSubscription: ", err)
					}
				}
			}
		}(pair, d.TradeFeeds[pair])
	}
}

func (d *TradeFeedSubscription) deliverToSubscribers(pair string, req model.TradeRequest) {
	d.mu.RLock()
	subscriptions := d.SubscriptionsByFeedKey[pair]
	d.mu.RUnlock()

	// ordering per pair matters for the funds check, so delivery stays serial
	for _, sub := range subscriptions {
		sub.consumer(req)
	}
}

func (d *TradeFeedSubscription) Stop() {
	d.cancel()
	d.wg.Wait()
}
