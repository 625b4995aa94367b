package trader

import (
	"context"
	"strconv"
	"time"

	"github.com/samber/lo"

	"cryptoai/indicator"
	"cryptoai/interfaces"
	"cryptoai/model"
	"cryptoai/utils/collection"
	"cryptoai/utils/log"
)

// TradePublisher hands decisions off to the trade feed.
type TradePublisher interface {
	Publish(req model.TradeRequest)
}

// Settings are the RSI rule knobs. Thresholds follow the usual 30/70 bands.
type Settings struct {
	RSIPeriod   int
	Oversold    float64
	Overbought  float64
	TradeAmount float64
	MinPosition float64
	Cooldown    time.Duration
}

// Trader evaluates every user against each market tick: first the RSI auto
// rule on the primary pair, then the user's active threshold strategies.
// Users are processed serially so one user's decisions are ordered; the
// ledger remains the authority on funds, the checks here only avoid
// publishing requests that are certain to be rejected.
type Trader struct {
	settings   Settings
	users      interfaces.UserStore
	strategies interfaces.StrategyStore
	ledger     interfaces.Ledger
	publisher  TradePublisher

	lastAuto map[string]time.Time
	now      func() time.Time
}

func NewTrader(settings Settings, users interfaces.UserStore, strategies interfaces.StrategyStore, ledger interfaces.Ledger, publisher TradePublisher) *Trader {
	return &Trader{
		settings:   settings,
		users:      users,
		strategies: strategies,
		ledger:     ledger,
		publisher:  publisher,
		lastAuto:   make(map[string]time.Time),
		now:        time.Now,
	}
}

func (t *Trader) OnTick(tick model.MarketTick) {
	ctx := context.Background()

	users, err := t.users.All(ctx)
	if err != nil {
		log.Error("trader/onTick users: ", err)
		return
	}

	active, err := t.strategies.AllActive(ctx)
	if err != nil {
		log.Error("trader/onTick strategies: ", err)
		return
	}
	strategiesByUser := collection.GroupBy(active, func(s model.Strategy) string { return s.UserID })

	rsi, rsiOK := t.lastRSI(tick)
	if rsiOK {
		log.Debugf("trader/onTick %s RSI(%d)=%.2f", tick.Pair, t.settings.RSIPeriod, rsi)
	}

	for _, user := range users {
		if rsiOK {
			t.evaluateAutoRule(ctx, user, tick, rsi)
		}
		t.evaluateStrategies(ctx, user, strategiesByUser[user.ID], tick.Prices)
	}
}

func (t *Trader) lastRSI(tick model.MarketTick) (float64, bool) {
	closes := collection.Map(tick.Candles, func(c model.Candle) float64 { return c.Close })
	return indicator.LastRSI(closes, t.settings.RSIPeriod)
}

// evaluateAutoRule applies the RSI bands on the primary pair. The decision key
// is the open time of the newest candle, so re-evaluating the same candle can
// never double-trade even if the cooldown state is lost on restart.
func (t *Trader) evaluateAutoRule(ctx context.Context, user model.User, tick model.MarketTick, rsi float64) {
	last, ok := tick.LastCandle()
	if !ok {
		return
	}
	price, ok := tick.Prices[tick.Pair]
	if !ok {
		price = last.Close
	}

	if since := t.now().Sub(t.lastAuto[user.ID]); since < t.settings.Cooldown {
		return
	}

	position, err := t.ledger.Position(ctx, user.ID, tick.Pair)
	if err != nil {
		log.Error("trader/autoRule position: ", err)
		return
	}

	key := strconv.FormatInt(last.Time.UnixMilli(), 10)
	cost := price * t.settings.TradeAmount

	switch {
	case rsi < t.settings.Oversold && position < t.settings.MinPosition && user.Balance > cost:
		log.Infof("[AutoRule] BUY %s for %s: RSI %.2f < %.2f", tick.Pair, user.ID, rsi, t.settings.Oversold)
		t.lastAuto[user.ID] = t.now()
		t.publisher.Publish(model.TradeRequest{
			UserID:         user.ID,
			Pair:           tick.Pair,
			Type:           model.TradeTypeBuy,
			Price:          price,
			Amount:         t.settings.TradeAmount,
			Source:         model.TradeSourceAuto,
			IdempotencyKey: key,
		})
	case rsi > t.settings.Overbought && position >= t.settings.TradeAmount:
		log.Infof("[AutoRule] SELL %s for %s: RSI %.2f > %.2f", tick.Pair, user.ID, rsi, t.settings.Overbought)
		t.lastAuto[user.ID] = t.now()
		t.publisher.Publish(model.TradeRequest{
			UserID:         user.ID,
			Pair:           tick.Pair,
			Type:           model.TradeTypeSell,
			Price:          price,
			Amount:         t.settings.TradeAmount,
			Source:         model.TradeSourceAuto,
			IdempotencyKey: key,
		})
	}
}

// evaluateStrategies fires every armed threshold the current prices cross.
// The strategy ID doubles as the idempotency key, so a strategy settles at
// most one trade no matter how often its trigger is observed.
func (t *Trader) evaluateStrategies(ctx context.Context, user model.User, strategies []model.Strategy, prices map[string]float64) {
	triggered := lo.Filter(strategies, func(s model.Strategy, _ int) bool {
		price, ok := prices[s.Pair]
		if !ok {
			return false
		}
		if s.BuyAt != nil {
			return price <= *s.BuyAt
		}
		return s.SellAt != nil && price >= *s.SellAt
	})

	for _, s := range triggered {
		price := prices[s.Pair]
		log.Infof("[Strategy] %s %s for %s at %.2f (target %.2f)", s.Type(), s.Pair, user.ID, price, s.Target())
		t.publisher.Publish(model.TradeRequest{
			UserID:         user.ID,
			Pair:           s.Pair,
			Type:           s.Type(),
			Price:          price,
			Amount:         s.Amount,
			Source:         model.TradeSourceStrategy,
			IdempotencyKey: s.ID,
			StrategyID:     s.ID,
		})
	}
}
