package consumer

import (
	"context"

	"cryptoai/infrastructure"
	"cryptoai/interfaces"
	"cryptoai/model"
	"cryptoai/utils/errors"
	"cryptoai/utils/log"
)

type TradeExecutedCallback func(trade model.Trade, req model.TradeRequest, err error)

// TradeFeedConsumerLedger drains TradeRequests from the trade feed into the
// ledger. Execution errors are reported to callbacks, never panicked: a
// rejected trade (insufficient funds, duplicate decision) is a normal outcome.
type TradeFeedConsumerLedger struct {
	ledger    interfaces.Ledger
	callbacks []TradeExecutedCallback
}

func NewTradeFeedConsumerLedger(ledger interfaces.Ledger) *TradeFeedConsumerLedger {
	return &TradeFeedConsumerLedger{
		ledger:    ledger,
		callbacks: make([]TradeExecutedCallback, 0),
	}
}

func (c *TradeFeedConsumerLedger) AddTradeExecutedCallback(cb TradeExecutedCallback) {
	c.callbacks = append(c.callbacks, cb)
}

func (c *TradeFeedConsumerLedger) OnTradeRequest(req model.TradeRequest) {
	log.Infof("[TradeFeedConsumerLedger] Received request - User: %s, Pair: %s, Side: %s, Amount: %.6f @ %.2f (%s)",
		req.UserID, req.Pair, req.Type, req.Amount, req.Price, req.Source)

	trade, err := c.ledger.ExecuteTrade(context.Background(), req)
	if err != nil {
		reason := errors.ErrInternal
		if base, convErr := errors.ConvertToErrorBase(err); convErr == nil {
			reason = base.Code
		}
		infrastructure.TradesRejected.WithLabelValues(reason).Inc()
		log.Warnf("[TradeFeedConsumerLedger] Rejected: %v", err)
	} else {
		infrastructure.TradesExecuted.WithLabelValues(string(trade.Type), string(trade.Source)).Inc()
	}

	for _, cb := range c.callbacks {
		cb(trade, req, err)
	}
}
