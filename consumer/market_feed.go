package consumer

import (
	"cryptoai/model"
	"cryptoai/trader"
)

type MarketFeedConsumer struct {
	trader *trader.Trader
}

func NewMarketFeedConsumer(t *trader.Trader) *MarketFeedConsumer {
	return &MarketFeedConsumer{
		trader: t,
	}
}

func (c *MarketFeedConsumer) OnTick(tick model.MarketTick) {
	c.trader.OnTick(tick)
}
