package bot

import (
	"context"
	"fmt"

	"cryptoai/chartview"
	"cryptoai/config"
	"cryptoai/consumer"
	"cryptoai/exchange"
	"cryptoai/feed"
	"cryptoai/indicator"
	"cryptoai/model"
	"cryptoai/store"
	"cryptoai/trader"
	"cryptoai/utils/log"
	"cryptoai/webserver"
)

// Demo account seeded on first start. Balance is virtual quote currency.
const (
	seedUserID      = "demo"
	seedUserEmail   = "demo@cryptoai.local"
	seedUserBalance = 10000
)

// CryptoAI wires the market feed, the decision core, the ledger and both
// HTTP surfaces into one process.
type CryptoAI struct {
	cfg *config.Config

	store    *store.Store
	binance  *exchange.Binance
	feed     *feed.MarketFeedSubscription
	trades   *feed.TradeFeedSubscription
	trader   *trader.Trader
	api      *webserver.WebServer
	streamOn bool

	marketConsumer *consumer.MarketFeedConsumer
	tradeConsumer  *consumer.TradeFeedConsumerLedger
}

func NewCryptoAI(cfg *config.Config) (*CryptoAI, error) {
	s, err := store.NewStore(cfg.Database.Path, cfg.Database.InMemory)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	users := store.NewUserRepository(s)
	ledger := store.NewLedgerRepository(s)
	strategies := store.NewStrategyRepository(s)

	binance := exchange.NewBinance()

	marketFeed := feed.NewMarketFeed(
		binance,
		cfg.Market.Pairs,
		cfg.Market.PrimaryPair,
		cfg.Market.Interval,
		cfg.Market.WindowSize,
		cfg.Market.PollInterval,
	)
	tradeFeed := feed.NewTradeFeed()

	autoTrader := trader.NewTrader(trader.Settings{
		RSIPeriod:   cfg.Trader.RSIPeriod,
		Oversold:    cfg.Trader.Oversold,
		Overbought:  cfg.Trader.Overbought,
		TradeAmount: cfg.Trader.TradeAmount,
		MinPosition: cfg.Trader.MinPosition,
		Cooldown:    cfg.Trader.Cooldown,
	}, users, strategies, ledger, tradeFeed)

	api := webserver.NewWebServer(cfg.Server.JWTSecret, users, ledger, strategies)

	return &CryptoAI{
		cfg:            cfg,
		store:          s,
		binance:        binance,
		feed:           marketFeed,
		trades:         tradeFeed,
		trader:         autoTrader,
		api:            api,
		streamOn:       cfg.Market.LiveTicker,
		marketConsumer: consumer.NewMarketFeedConsumer(autoTrader),
		tradeConsumer:  consumer.NewTradeFeedConsumerLedger(ledger),
	}, nil
}

// SetupSubscriptions connects feeds to consumers and preloads the candle
// window so the first tick already carries indicator history.
func (c *CryptoAI) SetupSubscriptions(ctx context.Context) error {
	users := store.NewUserRepository(c.store)
	if _, err := users.Ensure(ctx, model.User{
		ID:      seedUserID,
		Email:   seedUserEmail,
		Balance: seedUserBalance,
	}); err != nil {
		return fmt.Errorf("failed to seed demo user: %w", err)
	}

	c.feed.Subscribe(c.marketConsumer.OnTick)
	c.feed.Subscribe(c.updateChartData)

	for _, pair := range c.cfg.Market.Pairs {
		c.trades.Subscribe(pair, c.tradeConsumer.OnTradeRequest)
	}

	if err := c.feed.Preload(ctx); err != nil {
		log.Errorf("failed to preload candles: %v", err)
	}
	return nil
}

func (c *CryptoAI) Start() {
	log.Infof("CryptoAI starting...")

	go chartview.StartChartServer(":" + c.cfg.Server.ChartPort)
	log.Infof("Open http://localhost:%s/chart to see the chart.", c.cfg.Server.ChartPort)

	c.trades.Start()
	c.feed.Start()

	if c.streamOn {
		c.startLiveTicker()
	}

	go c.api.Start(c.cfg.Server.Port)

	log.Infof("CryptoAI started.")
}

func (c *CryptoAI) startLiveTicker() {
	updates, errs := c.binance.TickerSubscription(context.Background(), c.cfg.Market.Pairs)
	go func() {
		for update := range updates {
			c.feed.ApplyUpdate(update)
		}
	}()
	go func() {
		for err := range errs {
			log.Warnf("live ticker: %v", err)
		}
	}()
}

// updateChartData refreshes the chart store with the tick window and its
// derived indicator series.
func (c *CryptoAI) updateChartData(tick model.MarketTick) {
	chartview.GlobalChartData.ReplaceCandles(tick.Candles)

	df := model.NewDataframe(tick.Pair, tick.Candles)
	rsi := indicator.RSI(df.Close, c.cfg.Trader.RSIPeriod)
	sma20 := indicator.SMA(df.Close, 20)
	upper, _, lower := indicator.BBands(df.Close, 20)
	chartview.GlobalChartData.UpdateIndicators(rsi, sma20, upper, lower)
}

func (c *CryptoAI) Stop() {
	log.Infof("CryptoAI stopping...")

	c.feed.Stop()
	c.trades.Stop()
	c.binance.Stop()
	if err := c.api.Shutdown(); err != nil {
		log.Errorf("api shutdown: %v", err)
	}
	if err := c.store.Close(); err != nil {
		log.Errorf("store close: %v", err)
	}

	log.Infof("CryptoAI stopped.")
}
