package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"cryptoai/model"
	"cryptoai/utils/errors"
)

// MockLedger is an in-memory Ledger with the same acceptance rules as the
// real one: idempotency keys fire once, buys need funds, sells need holdings.
type MockLedger struct {
	mu sync.Mutex

	Balances  map[string]float64
	Positions map[string]float64 // key userID|pair
	Trades    []model.Trade

	seenKeys map[string]model.Trade

	ExecuteErr error
}

func NewMockLedger() *MockLedger {
	return &MockLedger{
		Balances:  make(map[string]float64),
		Positions: make(map[string]float64),
		seenKeys:  make(map[string]model.Trade),
	}
}

func (m *MockLedger) ExecuteTrade(ctx context.Context, req model.TradeRequest) (model.Trade, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ExecuteErr != nil {
		return model.Trade{}, m.ExecuteErr
	}
	if req.IdempotencyKey != "" {
		if prior, ok := m.seenKeys[req.UserID+"|"+req.IdempotencyKey]; ok {
			return prior, nil
		}
	}

	posKey := req.UserID + "|" + req.Pair
	cost := req.Price * req.Amount
	switch req.Type {
	case model.TradeTypeBuy:
		if cost > m.Balances[req.UserID] {
			return model.Trade{}, errors.New(fiber.StatusBadRequest, errors.ErrInsufficientBalance)
		}
		m.Balances[req.UserID] -= cost
		m.Positions[posKey] += req.Amount
	case model.TradeTypeSell:
		if req.Amount > m.Positions[posKey] {
			return model.Trade{}, errors.New(fiber.StatusBadRequest, errors.ErrInsufficientHolding)
		}
		m.Balances[req.UserID] += cost
		m.Positions[posKey] -= req.Amount
	}

	trade := model.Trade{
		ID:        uuid.NewString(),
		UserID:    req.UserID,
		Pair:      req.Pair,
		Type:      req.Type,
		Price:     req.Price,
		Amount:    req.Amount,
		Status:    model.TradeStatusFilled,
		Source:    req.Source,
		Timestamp: time.Now().UTC(),
	}
	m.Trades = append(m.Trades, trade)
	if req.IdempotencyKey != "" {
		m.seenKeys[req.UserID+"|"+req.IdempotencyKey] = trade
	}
	return trade, nil
}

func (m *MockLedger) TradesByUser(ctx context.Context, userID string) ([]model.Trade, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Trade
	for _, t := range m.Trades {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	// Most recent first, like the SQL ledger.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

func (m *MockLedger) Position(ctx context.Context, userID, pair string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Positions[userID+"|"+pair], nil
}

// TradeCount returns the number of recorded trades.
func (m *MockLedger) TradeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Trades)
}
