package trader

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptoai/mocks"
	"cryptoai/model"
	"cryptoai/utils/pointer"
)

type capturePublisher struct {
	mu       sync.Mutex
	requests []model.TradeRequest
}

func (p *capturePublisher) Publish(req model.TradeRequest) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requests = append(p.requests, req)
}

func (p *capturePublisher) all() []model.TradeRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]model.TradeRequest, len(p.requests))
	copy(out, p.requests)
	return out
}

func testSettings() Settings {
	return Settings{
		RSIPeriod:   14,
		Oversold:    30,
		Overbought:  70,
		TradeAmount: 0.002,
		MinPosition: 0.01,
		Cooldown:    45 * time.Second,
	}
}

var tickStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// fifteen falling closes drive RSI(14) to 0; rising closes drive it to 100
func fallingTick() model.MarketTick {
	closes := make([]float64, 15)
	for i := range closes {
		closes[i] = 50000 - float64(i)*100
	}
	candles := mocks.CandleSeries("BTCUSDT", tickStart, closes...)
	return model.MarketTick{
		Time:    tickStart.Add(15 * time.Minute),
		Pair:    "BTCUSDT",
		Prices:  map[string]float64{"BTCUSDT": closes[len(closes)-1]},
		Candles: candles,
	}
}

func risingTick() model.MarketTick {
	closes := make([]float64, 15)
	for i := range closes {
		closes[i] = 50000 + float64(i)*100
	}
	candles := mocks.CandleSeries("BTCUSDT", tickStart, closes...)
	return model.MarketTick{
		Time:    tickStart.Add(15 * time.Minute),
		Pair:    "BTCUSDT",
		Prices:  map[string]float64{"BTCUSDT": closes[len(closes)-1]},
		Candles: candles,
	}
}

func TestTrader_AutoRuleBuysWhenOversold(t *testing.T) {
	users := mocks.NewMockUserStore(model.User{ID: "u1", Email: "u1@test.local", Balance: 10000})
	ledger := mocks.NewMockLedger()
	publisher := &capturePublisher{}
	tr := NewTrader(testSettings(), users, &mocks.MockStrategyStore{}, ledger, publisher)

	tr.OnTick(fallingTick())

	requests := publisher.all()
	require.Len(t, requests, 1)
	assert.Equal(t, model.TradeTypeBuy, requests[0].Type)
	assert.Equal(t, model.TradeSourceAuto, requests[0].Source)
	assert.Equal(t, 0.002, requests[0].Amount)
	assert.NotEmpty(t, requests[0].IdempotencyKey)
}

func TestTrader_AutoRuleRespectsCooldown(t *testing.T) {
	users := mocks.NewMockUserStore(model.User{ID: "u1", Balance: 10000})
	publisher := &capturePublisher{}
	tr := NewTrader(testSettings(), users, &mocks.MockStrategyStore{}, mocks.NewMockLedger(), publisher)

	current := tickStart
	tr.now = func() time.Time { return current }

	tr.OnTick(fallingTick())
	current = current.Add(10 * time.Second)
	tr.OnTick(fallingTick())
	require.Len(t, publisher.all(), 1)

	current = current.Add(45 * time.Second)
	tr.OnTick(fallingTick())
	assert.Len(t, publisher.all(), 2)
}

func TestTrader_AutoRuleSkipsBuyWhenPositionLargeEnough(t *testing.T) {
	users := mocks.NewMockUserStore(model.User{ID: "u1", Balance: 10000})
	ledger := mocks.NewMockLedger()
	ledger.Positions["u1|BTCUSDT"] = 0.05
	publisher := &capturePublisher{}
	tr := NewTrader(testSettings(), users, &mocks.MockStrategyStore{}, ledger, publisher)

	tr.OnTick(fallingTick())

	assert.Empty(t, publisher.all())
}

func TestTrader_AutoRuleSellsWhenOverbought(t *testing.T) {
	users := mocks.NewMockUserStore(model.User{ID: "u1", Balance: 100})
	ledger := mocks.NewMockLedger()
	ledger.Positions["u1|BTCUSDT"] = 0.01
	publisher := &capturePublisher{}
	tr := NewTrader(testSettings(), users, &mocks.MockStrategyStore{}, ledger, publisher)

	tr.OnTick(risingTick())

	requests := publisher.all()
	require.Len(t, requests, 1)
	assert.Equal(t, model.TradeTypeSell, requests[0].Type)
}

func TestTrader_AutoRuleSkipsSellWithoutHolding(t *testing.T) {
	users := mocks.NewMockUserStore(model.User{ID: "u1", Balance: 100})
	publisher := &capturePublisher{}
	tr := NewTrader(testSettings(), users, &mocks.MockStrategyStore{}, mocks.NewMockLedger(), publisher)

	tr.OnTick(risingTick())

	assert.Empty(t, publisher.all())
}

func TestTrader_AutoRuleSkipsBuyWhenBalanceTooLow(t *testing.T) {
	users := mocks.NewMockUserStore(model.User{ID: "u1", Balance: 1})
	publisher := &capturePublisher{}
	tr := NewTrader(testSettings(), users, &mocks.MockStrategyStore{}, mocks.NewMockLedger(), publisher)

	tr.OnTick(fallingTick())

	assert.Empty(t, publisher.all())
}

func TestTrader_StrategyBuyTriggersAtOrBelowTarget(t *testing.T) {
	users := mocks.NewMockUserStore(model.User{ID: "u1", Balance: 10000})
	strategies := &mocks.MockStrategyStore{}
	strategies.Strategies = []model.Strategy{
		{ID: "s1", UserID: "u1", Pair: "BTCUSDT", BuyAt: pointer.Create(49000.0), Amount: 0.001, Active: true},
	}
	publisher := &capturePublisher{}
	tr := NewTrader(testSettings(), users, strategies, mocks.NewMockLedger(), publisher)

	// falling tick ends at 48600, below the 49000 target
	tr.OnTick(fallingTick())

	requests := publisher.all()
	var strategyRequests []model.TradeRequest
	for _, r := range requests {
		if r.Source == model.TradeSourceStrategy {
			strategyRequests = append(strategyRequests, r)
		}
	}
	require.Len(t, strategyRequests, 1)
	assert.Equal(t, model.TradeTypeBuy, strategyRequests[0].Type)
	assert.Equal(t, "s1", strategyRequests[0].IdempotencyKey)
	assert.Equal(t, "s1", strategyRequests[0].StrategyID)
	assert.Equal(t, 0.001, strategyRequests[0].Amount)
}

func TestTrader_StrategySellIgnoredBelowTarget(t *testing.T) {
	users := mocks.NewMockUserStore(model.User{ID: "u1", Balance: 10000})
	strategies := &mocks.MockStrategyStore{}
	strategies.Strategies = []model.Strategy{
		{ID: "s1", UserID: "u1", Pair: "BTCUSDT", SellAt: pointer.Create(99999.0), Amount: 0.001, Active: true},
	}
	publisher := &capturePublisher{}
	tr := NewTrader(testSettings(), users, strategies, mocks.NewMockLedger(), publisher)

	tr.OnTick(risingTick())

	for _, r := range publisher.all() {
		assert.NotEqual(t, model.TradeSourceStrategy, r.Source)
	}
}

func TestTrader_StrategyForUnknownPairIsIgnored(t *testing.T) {
	users := mocks.NewMockUserStore(model.User{ID: "u1", Balance: 10000})
	strategies := &mocks.MockStrategyStore{}
	strategies.Strategies = []model.Strategy{
		{ID: "s1", UserID: "u1", Pair: "DOGEUSDT", BuyAt: pointer.Create(99999.0), Amount: 1, Active: true},
	}
	publisher := &capturePublisher{}
	tr := NewTrader(testSettings(), users, strategies, mocks.NewMockLedger(), publisher)

	tr.OnTick(risingTick())

	for _, r := range publisher.all() {
		assert.NotEqual(t, model.TradeSourceStrategy, r.Source)
	}
}

func TestTrader_ShortWindowProducesNoAutoDecision(t *testing.T) {
	users := mocks.NewMockUserStore(model.User{ID: "u1", Balance: 10000})
	publisher := &capturePublisher{}
	tr := NewTrader(testSettings(), users, &mocks.MockStrategyStore{}, mocks.NewMockLedger(), publisher)

	candles := mocks.CandleSeries("BTCUSDT", tickStart, 1, 2, 3)
	tr.OnTick(model.MarketTick{
		Time:    tickStart,
		Pair:    "BTCUSDT",
		Prices:  map[string]float64{"BTCUSDT": 3},
		Candles: candles,
	})

	assert.Empty(t, publisher.all())
}
