package model

import (
	"time"

	"cryptoai/utils/pointer"
)

type TradeType string

const (
	TradeTypeBuy  TradeType = "BUY"
	TradeTypeSell TradeType = "SELL"
)

type TradeStatus string

const (
	TradeStatusFilled TradeStatus = "FILLED"
)

// TradeSource tags who issued the trade: the RSI rule, a user strategy, or a
// manual API call.
type TradeSource string

const (
	TradeSourceAuto     TradeSource = "AUTO"
	TradeSourceStrategy TradeSource = "STRATEGY"
	TradeSourceManual   TradeSource = "MANUAL"
)

// Trade is an append-only ledger entry. Cost or proceeds are always
// Price*Amount at execution time.
type Trade struct {
	ID        string      `json:"id"`
	UserID    string      `json:"userId"`
	Pair      string      `json:"pair"`
	Type      TradeType   `json:"type"`
	Price     float64     `json:"price"`
	Amount    float64     `json:"amount"`
	Status    TradeStatus `json:"status"`
	Source    TradeSource `json:"source,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Strategy is a standing threshold order. Exactly one of BuyAt/SellAt is set;
// once triggered it flips to Active=false and never re-arms.
type Strategy struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Pair      string    `json:"pair"`
	BuyAt     *float64  `json:"buyAt,omitempty"`
	SellAt    *float64  `json:"sellAt,omitempty"`
	Amount    float64   `json:"amount"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

// Type derives BUY/SELL from which threshold is set.
func (s Strategy) Type() TradeType {
	if s.BuyAt != nil {
		return TradeTypeBuy
	}
	return TradeTypeSell
}

// Target returns the threshold price.
func (s Strategy) Target() float64 {
	if s.BuyAt != nil {
		return *s.BuyAt
	}
	return pointer.NotNull(s.SellAt, 0)
}

type User struct {
	ID      string  `json:"id"`
	Email   string  `json:"email"`
	Balance float64 `json:"balance"`
}

// Position is the net holding of one pair for one user, maintained
// transactionally with each trade.
type Position struct {
	UserID string  `json:"userId"`
	Pair   string  `json:"pair"`
	Amount float64 `json:"amount"`
}

// TradeRequest is what the decision core dispatches to the ledger. The
// IdempotencyKey makes re-delivery of the same decision a no-op: the candle
// open time for the auto rule, the strategy ID for threshold strategies.
type TradeRequest struct {
	UserID         string
	Pair           string
	Type           TradeType
	Price          float64
	Amount         float64
	Source         TradeSource
	IdempotencyKey string
	StrategyID     string
}
