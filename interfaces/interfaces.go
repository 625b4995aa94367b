package interfaces

import (
	"context"

	"cryptoai/model"
)

// DataFeeder is the read-only market data source (Binance public REST).
type DataFeeder interface {
	LastQuotes(ctx context.Context, pairs []string) (map[string]float64, error)
	CandlesByLimit(ctx context.Context, pair, interval string, limit int) ([]model.Candle, error)
}

// TickerStreamer pushes live last-price updates between polls.
type TickerStreamer interface {
	TickerSubscription(ctx context.Context, pairs []string) (chan model.PriceUpdate, chan error)
	Stop()
}

// Ledger records trades and adjusts the owning user's balance atomically.
type Ledger interface {
	ExecuteTrade(ctx context.Context, req model.TradeRequest) (model.Trade, error)
	TradesByUser(ctx context.Context, userID string) ([]model.Trade, error)
	Position(ctx context.Context, userID, pair string) (float64, error)
}

// StrategyStore persists user threshold strategies.
type StrategyStore interface {
	Create(ctx context.Context, strategy model.Strategy) (model.Strategy, error)
	ActiveByUser(ctx context.Context, userID string) ([]model.Strategy, error)
	AllActive(ctx context.Context) ([]model.Strategy, error)
	Deactivate(ctx context.Context, strategyID string) error
}

// UserStore reads and seeds users.
type UserStore interface {
	ByID(ctx context.Context, userID string) (model.User, error)
	All(ctx context.Context) ([]model.User, error)
	Ensure(ctx context.Context, user model.User) (model.User, error)
}
